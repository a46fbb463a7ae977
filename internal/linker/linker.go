package linker

// The linker merges every module into one top-level scope. It's organized
// as a pipeline over one "linkerContext":
//
//	resolveCollisions   give every top-level declaration a unique name
//	resolveExports      propagate "export *" and "export {...} from"
//	scheduleModules     order modules like ES module evaluation would
//	bindImports         resolve every import to the variable it refers to
//	generateOutput      rewrite each module and synthesize namespace objects
//	eliminateDeadCode   drop unused side-effect free declarations
//
// Input trees are never modified. The rewriter copies every node it visits
// and symbols are cloned into the linker graph before anything touches them.

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/esmlink/esmlink/internal/config"
	"github.com/esmlink/esmlink/internal/graph"
	"github.com/esmlink/esmlink/internal/helpers"
	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/renamer"
	"github.com/esmlink/esmlink/internal/runtime"
)

type LinkResult struct {
	// A single program containing every module
	AST js_ast.AST

	// Final names for every symbol referenced by "AST"
	Renamer *renamer.RenamingMap

	Graph graph.LinkerGraph

	// Source indices in evaluation order, and the same modules grouped by
	// strongly connected component. The runtime is not included.
	Schedule []uint32
	Groups   [][]uint32

	// Problems that were compiled into the output as runtime errors instead
	// of failing the link, such as unresolved imports and assignments to
	// imports. These are also logged as warnings when
	// "ReportConformanceErrors" is set.
	ConformanceErrors []logger.Msg
}

type linkerContext struct {
	log     logger.Log
	options config.Options
	timer   *helpers.Timer
	graph   graph.LinkerGraph

	// Generated names come from here after collision resolution. There is
	// one generator per link so parallel links never share state.
	renames *renamer.RenamingMap
	names   *renamer.NameGenerator

	schedule []uint32
	groups   [][]uint32

	imports     map[js_ast.Ref]importResult
	runtimeRefs map[string]js_ast.Ref

	// Modules whose namespace object is needed, in the order that was
	// discovered
	namespaces []uint32

	conformance []logger.Msg
	hasErrors   bool
}

// Links "files" into one program. The runtime module must be at index 0 and
// every import record of every file must have a valid source index. Nothing
// is returned if the link fails; the reason is in the log.
func Link(log logger.Log, files []graph.InputFile, entryPoint uint32, options config.Options) (LinkResult, bool) {
	timer := &helpers.Timer{}
	timer.Begin("link")

	c := &linkerContext{
		log:         log,
		options:     options,
		timer:       timer,
		graph:       graph.MakeLinkerGraph(files, entryPoint),
		imports:     make(map[js_ast.Ref]importResult),
		runtimeRefs: make(map[string]js_ast.Ref),
	}

	if options.ExportStrategy == config.ExportsAllTopLevel {
		c.graph.Modules[entryPoint].ExportAllTopLevel()
	}

	runtimeScope := c.graph.Modules[runtime.SourceIndex].AST.ModuleScope
	for _, name := range runtime.Helpers {
		if member, ok := runtimeScope.Members[name]; ok {
			c.runtimeRefs[name] = member.Ref
		}
	}

	c.resolveCollisions()
	if c.resolveExports() && c.scheduleModules() {
		c.bindImports()
	}
	if c.hasErrors {
		timer.End("link")
		timer.Log(logger.Trace())
		return LinkResult{}, false
	}

	tree := c.generateOutput()

	timer.End("link")
	timer.Log(logger.Trace())

	if c.hasErrors {
		return LinkResult{}, false
	}

	return LinkResult{
		AST:               tree,
		Renamer:           c.renames,
		Graph:             c.graph,
		Schedule:          c.schedule,
		Groups:            c.groups,
		ConformanceErrors: c.conformance,
	}, true
}

func (c *linkerContext) resolveCollisions() {
	c.timer.Begin("resolve collisions")
	defer c.timer.End("resolve collisions")

	// The declared name of a named default export is just another name for
	// the default export's variable
	for i := range c.graph.Modules {
		module := &c.graph.Modules[i]
		if module.DefaultNameRef != js_ast.InvalidRef {
			js_ast.MergeSymbols(c.graph.Symbols, module.DefaultNameRef, module.AST.DefaultRef)
		}
	}

	var reserved []string
	if c.options.OutputFormat == config.FormatCommonJS {
		reserved = append(reserved, "module")
	}
	if c.options.OutputFormat == config.FormatIIFE && c.options.GlobalName != "" {
		reserved = append(reserved, c.options.GlobalName)
	}

	modules := make([]renamer.Module, len(c.graph.Modules))
	for i, module := range c.graph.Modules {
		modules[i] = renamer.Module{Scope: module.AST.ModuleScope, DefaultRef: module.AST.DefaultRef}
	}
	c.renames, c.names = renamer.ResolveCollisions(c.graph.Symbols, modules, reserved)

	if trace := logger.Trace(); trace.Core().Enabled(zap.DebugLevel) {
		for _, entry := range c.renames.Entries() {
			trace.Debug("renamed",
				zap.String("module", c.graph.Modules[entry.Ref.SourceIndex].Source.PrettyPath),
				zap.String("from", entry.OriginalName),
				zap.String("to", entry.NewName))
		}
	}
}

// Creates a symbol that only exists in the output and gives it a fresh name.
func (c *linkerContext) generateSymbol(sourceIndex uint32, name string) js_ast.Ref {
	ref := c.graph.GenerateSymbol(sourceIndex, name)
	c.renames.Rename(ref, c.names.Next())
	return ref
}

// The namespace object for a module is created the first time something
// asks for it.
func (c *linkerContext) namespaceRef(sourceIndex uint32) js_ast.Ref {
	meta := &c.graph.Meta[sourceIndex]
	if !meta.NeedsNamespace {
		meta.NeedsNamespace = true
		meta.NamespaceRef = c.generateSymbol(sourceIndex, c.graph.Modules[sourceIndex].Source.IdentifierName+"_exports")
		c.namespaces = append(c.namespaces, sourceIndex)
	}
	return meta.NamespaceRef
}

func (c *linkerContext) readyRef(sourceIndex uint32) js_ast.Ref {
	meta := &c.graph.Meta[sourceIndex]
	if meta.ReadyRef == js_ast.InvalidRef {
		meta.ReadyRef = c.generateSymbol(sourceIndex, c.graph.Modules[sourceIndex].Source.IdentifierName+"_ready")
	}
	return meta.ReadyRef
}

func (c *linkerContext) callRuntime(loc logger.Loc, name string, args ...js_ast.Expr) js_ast.Expr {
	ref, ok := c.runtimeRefs[name]
	if !ok {
		panic(fmt.Sprintf("Internal error: missing runtime helper %q", name))
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target: js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: ref}},
		Args:   args,
	}}
}

func (c *linkerContext) addError(id logger.MsgID, source *logger.Source, loc logger.Loc, text string) {
	c.hasErrors = true
	var r logger.Range
	if source != nil {
		r = source.RangeOfIdentifier(loc)
	}
	c.log.AddIDWithRange(id, logger.Error, source, r, text)
}

// Conformance problems become warnings, or errors when the options make
// them fatal.
func (c *linkerContext) addConformanceError(id logger.MsgID, fatal bool, source *logger.Source, loc logger.Loc, text string) {
	if fatal {
		c.addError(id, source, loc, text)
		return
	}
	r := source.RangeOfIdentifier(loc)
	msg := logger.Msg{ID: id, Kind: logger.Warning, Text: text, Location: logger.LocationOrNil(source, r)}
	c.conformance = append(c.conformance, msg)
	if c.options.ReportConformanceErrors {
		c.log.AddMsg(msg)
	}
}
