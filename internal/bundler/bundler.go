package bundler

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/esmlink/esmlink/internal/ast"
	"github.com/esmlink/esmlink/internal/config"
	"github.com/esmlink/esmlink/internal/fs"
	"github.com/esmlink/esmlink/internal/graph"
	"github.com/esmlink/esmlink/internal/helpers"
	"github.com/esmlink/esmlink/internal/js_parser"
	"github.com/esmlink/esmlink/internal/js_printer"
	"github.com/esmlink/esmlink/internal/linker"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/resolver"
	"github.com/esmlink/esmlink/internal/runtime"
)

// Every module reachable from the entry point, parsed, with every import
// record pointing at the module it resolved to.
type Bundle struct {
	fs         fs.FS
	files      []graph.InputFile
	entryPoint uint32
	timer      *helpers.Timer
}

type parseArgs struct {
	fs          fs.FS
	log         logger.Log
	res         *resolver.Resolver
	sourceIndex uint32
	absPath     string

	// Where the module was imported from, for messages. Nil for the entry point.
	importSource    *logger.Source
	importPathRange logger.Range
}

type parseResult struct {
	file graph.InputFile

	// The absolute path of each import record, or "" if it didn't resolve
	resolvedPaths []string
	ok            bool
}

func parseFile(args parseArgs) parseResult {
	contents, err := args.fs.ReadFile(args.absPath)
	prettyPath := fs.PrettyPath(args.fs, args.absPath)
	if err != nil {
		args.log.AddIDWithRange(logger.MsgID_Load_CouldNotRead, logger.Error, args.importSource, args.importPathRange,
			fmt.Sprintf("Could not read %q: %s", prettyPath, err.Error()))
		return parseResult{}
	}

	source := logger.Source{
		Index:          args.sourceIndex,
		KeyPath:        logger.Path{Text: args.absPath, Namespace: "file"},
		PrettyPath:     prettyPath,
		IdentifierName: ast.GenerateNonUniqueNameFromPath(args.absPath),
		Contents:       contents,
	}
	tree, ok := js_parser.Parse(args.log, source)
	if !ok {
		return parseResult{}
	}

	// Resolve every import here so resolution runs in parallel with parsing.
	// Failures are reported at the import statement.
	sourceDir := args.fs.Dir(args.absPath)
	resolvedPaths := make([]string, len(tree.ImportRecords))
	for i, record := range tree.ImportRecords {
		if absPath, ok := args.res.Resolve(sourceDir, record.Path.Text); ok {
			resolvedPaths[i] = absPath
		} else {
			args.log.AddIDWithRange(logger.MsgID_Load_CouldNotResolve, logger.Error, &source, record.Range,
				fmt.Sprintf("Could not resolve %q", record.Path.Text))
		}
	}

	return parseResult{
		file:          graph.InputFile{Source: source, AST: tree},
		resolvedPaths: resolvedPaths,
		ok:            true,
	}
}

func parseRuntime(log logger.Log) parseResult {
	tree, ok := js_parser.Parse(log, runtime.Source)
	return parseResult{file: graph.InputFile{Source: runtime.Source, AST: tree}, ok: ok}
}

// Discovers every module reachable from the entry point. Modules are numbered
// in breadth-first discovery order: the runtime is 0, the entry point is 1,
// then the modules the entry point imports in the order it imports them, and
// so on. Each level of the search is parsed in parallel.
func ScanBundle(log logger.Log, fsys fs.FS, res *resolver.Resolver, entryPath string) Bundle {
	timer := &helpers.Timer{}
	timer.Begin("scan")
	defer timer.End("scan")

	b := Bundle{fs: fsys, timer: timer, entryPoint: 1}

	entryAbsPath, ok := res.Resolve(fsys.Cwd(), fs.Abs(fsys, entryPath))
	if !ok {
		log.AddIDWithRange(logger.MsgID_Load_CouldNotResolve, logger.Error, nil, logger.Range{},
			fmt.Sprintf("Could not resolve %q", entryPath))
		return b
	}

	results := []parseResult{{}}
	visited := map[string]uint32{entryAbsPath: 1}
	level := []parseArgs{{fs: fsys, log: log, res: res, sourceIndex: 1, absPath: entryAbsPath}}

	// The runtime is parsed alongside the entry point
	var runtimeResult parseResult
	waitGroup := sync.WaitGroup{}
	waitGroup.Add(1)
	go func() {
		runtimeResult = parseRuntime(log)
		waitGroup.Done()
	}()

	for len(level) > 0 {
		levelResults := make([]parseResult, len(level))
		for i, args := range level {
			waitGroup.Add(1)
			go func(i int, args parseArgs) {
				levelResults[i] = parseFile(args)
				waitGroup.Done()
			}(i, args)
		}
		waitGroup.Wait()
		results = append(results, levelResults...)

		// Number the newly discovered modules in import order
		var next []parseArgs
		for i := range levelResults {
			result := &levelResults[i]
			if !result.ok {
				continue
			}
			records := result.file.AST.ImportRecords
			for j := range records {
				absPath := result.resolvedPaths[j]
				if absPath == "" {
					continue
				}
				sourceIndex, ok := visited[absPath]
				if !ok {
					sourceIndex = uint32(len(results) + len(next))
					visited[absPath] = sourceIndex
					next = append(next, parseArgs{
						fs:              fsys,
						log:             log,
						res:             res,
						sourceIndex:     sourceIndex,
						absPath:         absPath,
						importSource:    &result.file.Source,
						importPathRange: records[j].Range,
					})
				}
				records[j].SourceIndex = ast.MakeIndex32(sourceIndex)
			}
		}
		level = next
	}

	results[runtime.SourceIndex] = runtimeResult
	b.files = make([]graph.InputFile, len(results))
	for i, result := range results {
		b.files[i] = result.file
	}

	logger.Trace().Debug("scanned modules", zap.Int("count", len(results)-1))
	return b
}

// Links the scanned modules without printing them, for callers that want to
// inspect the result.
func (b *Bundle) Link(log logger.Log, options config.Options) (linker.LinkResult, bool) {
	if log.HasErrors() || len(b.files) == 0 {
		return linker.LinkResult{}, false
	}
	b.timer.Begin("link")
	defer b.timer.End("link")
	return linker.Link(log, b.files, b.entryPoint, options)
}

// Links and prints the bundle. There is exactly one output file; its path is
// empty when the bundle goes to standard output.
func (b *Bundle) Compile(log logger.Log, options config.Options) []graph.OutputFile {
	defer b.timer.Log(logger.Trace())

	result, ok := b.Link(log, options)
	if !ok {
		return nil
	}

	if options.AbsOutputFile != "" {
		for _, file := range b.files {
			if file.Source.KeyPath.Namespace == "file" && file.Source.KeyPath.Text == options.AbsOutputFile {
				log.AddError(nil, logger.Loc{}, "Refusing to overwrite input file: "+file.Source.PrettyPath)
				return nil
			}
		}
	}

	b.timer.Begin("print")
	js := js_printer.Print(result.AST, result.Renamer, js_printer.Options{MinifyWhitespace: options.MinifyWhitespace}).JS
	b.timer.End("print")

	return []graph.OutputFile{{AbsPath: options.AbsOutputFile, Contents: js}}
}
