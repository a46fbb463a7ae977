package api

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/esmlink/esmlink/internal/bundler"
	"github.com/esmlink/esmlink/internal/config"
	"github.com/esmlink/esmlink/internal/fs"
	"github.com/esmlink/esmlink/internal/js_lexer"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/resolver"
)

func validateFormat(value Format) config.Format {
	switch value {
	case FormatDefault, FormatIIFE:
		return config.FormatIIFE
	case FormatCommonJS:
		return config.FormatCommonJS
	case FormatESModule:
		return config.FormatESModule
	default:
		panic("Invalid format")
	}
}

func validateDangerLevel(value DangerLevel) config.DangerLevel {
	switch value {
	case DangerSafe:
		return config.DangerSafe
	case DangerBalanced:
		return config.DangerBalanced
	case DangerDangerous:
		return config.DangerDangerous
	default:
		panic("Invalid danger level")
	}
}

func validateUnresolvedImports(value UnresolvedImports) config.UnresolvedImportStrategy {
	switch value {
	case UnresolvedImportsError:
		return config.UnresolvedImportError
	case UnresolvedImportsUndefined:
		return config.UnresolvedImportUndefined
	case UnresolvedImportsThrow:
		return config.UnresolvedImportThrow
	case UnresolvedImportsPassthrough:
		return config.UnresolvedImportPassthrough
	default:
		panic("Invalid unresolved import strategy")
	}
}

func validateExports(value Exports) config.ExportStrategy {
	switch value {
	case ExportsExplicit:
		return config.ExportsExplicit
	case ExportsAllTopLevel:
		return config.ExportsAllTopLevel
	case ExportsNone:
		return config.ExportsNone
	default:
		panic("Invalid export strategy")
	}
}

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelDebug:
		return logger.LevelDebug
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func validateGlobalName(log logger.Log, text string) string {
	if text != "" && !js_lexer.IsIdentifier(text) {
		log.AddError(nil, logger.Loc{}, fmt.Sprintf("Invalid global name: %q", text))
		return ""
	}
	return text
}

func messagesOfKind(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind != kind {
			continue
		}
		var location *Location
		if loc := msg.Location; loc != nil {
			location = &Location{
				File:     loc.File,
				Line:     loc.Line,
				Column:   loc.Column,
				Length:   loc.Length,
				LineText: loc.LineText,
			}
		}
		filtered = append(filtered, Message{
			ID:       logger.MsgIDToString(msg.ID),
			Text:     msg.Text,
			Location: location,
		})
	}
	return filtered
}

type buildContext struct {
	options    BuildOptions
	fs         fs.FS
	log        logger.Log
	linkOpts   config.Options
	scanResult bundler.Bundle
}

func newBuildContext(options BuildOptions, fsys fs.FS) *buildContext {
	if fsys == nil {
		fsys = fs.RealFS()
	}
	ctx := &buildContext{options: options, fs: fsys}
	if options.LogLevel == LogLevelSilent {
		ctx.log = logger.NewDeferLog()
	} else {
		ctx.log = logger.NewStderrLog(logger.StderrOptions{
			IncludeSource: true,
			ErrorLimit:    options.ErrorLimit,
			Color:         validateColor(options.Color),
			LogLevel:      validateLogLevel(options.LogLevel),
		})
	}
	return ctx
}

// Converts and validates the options, then scans the bundle. Returns false
// if anything went wrong; the problems are in the log.
func (ctx *buildContext) scan() bool {
	options := ctx.options
	ctx.linkOpts = config.Options{
		UnresolvedImports:          validateUnresolvedImports(options.UnresolvedImports),
		ExportStrategy:             validateExports(options.Exports),
		DangerLevel:                validateDangerLevel(options.DangerLevel),
		ForbidCircularDependencies: options.ForbidCircularDependencies,
		FatalImportAssignment:      options.FatalImportAssignment,
		RejectImportAssignment:     options.RejectImportAssignment,
		PlainNamespaceObjects:      options.PlainNamespaceObjects,
		OutputFormat:               validateFormat(options.Format),
		GlobalName:                 validateGlobalName(ctx.log, options.GlobalName),
		SkipDeadCodeElimination:    options.DisableTreeShaking,
		ReportConformanceErrors:    options.ReportConformanceErrors,
		MinifyWhitespace:           options.MinifyWhitespace,
	}

	if options.EntryPoint == "" {
		ctx.log.AddError(nil, logger.Loc{}, "Must provide an entry point")
	}
	if options.GlobalName != "" && ctx.linkOpts.OutputFormat != config.FormatIIFE {
		ctx.log.AddError(nil, logger.Loc{}, fmt.Sprintf("Cannot use \"globalName\" with the %q format", ctx.linkOpts.OutputFormat.String()))
	}
	if options.Outfile != "" {
		ctx.linkOpts.AbsOutputFile = fs.Abs(ctx.fs, options.Outfile)
	} else if options.Write {
		ctx.log.AddError(nil, logger.Loc{}, "Cannot use \"write\" without an output file")
	}
	if ctx.log.HasErrors() {
		return false
	}

	res := resolver.NewResolver(ctx.fs, ctx.log)
	ctx.scanResult = bundler.ScanBundle(ctx.log, ctx.fs, res, options.EntryPoint)
	return !ctx.log.HasErrors()
}

func buildImpl(options BuildOptions, fsys fs.FS) BuildResult {
	ctx := newBuildContext(options, fsys)
	var outputFiles []OutputFile

	if ctx.scan() {
		for _, result := range ctx.scanResult.Compile(ctx.log, ctx.linkOpts) {
			outputFiles = append(outputFiles, OutputFile{Path: result.AbsPath, Contents: result.Contents})
		}
	}

	if options.Write && !ctx.log.HasErrors() {
		for _, outputFile := range outputFiles {
			if err := writeFile(outputFile); err != nil {
				ctx.log.AddError(nil, logger.Loc{}, fmt.Sprintf("Failed to write to output file: %s", err.Error()))
			}
		}
	}

	msgs := ctx.log.Done()
	if ctx.log.HasErrors() {
		outputFiles = nil
	}
	return BuildResult{
		Errors:      messagesOfKind(logger.Error, msgs),
		Warnings:    messagesOfKind(logger.Warning, msgs),
		OutputFiles: outputFiles,
	}
}

func writeFile(outputFile OutputFile) error {
	if err := os.MkdirAll(filepath.Dir(outputFile.Path), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputFile.Path, outputFile.Contents, 0644)
}

func graphImpl(options BuildOptions, fsys fs.FS) GraphResult {
	ctx := newBuildContext(options, fsys)
	var result GraphResult

	if ctx.scan() {
		if linked, ok := ctx.scanResult.Link(ctx.log, ctx.linkOpts); ok {
			report := linked.Report()
			for _, module := range report.Modules {
				graphModule := GraphModule{Path: module.Path, Group: module.Group, IsCyclic: module.IsCyclic}
				for _, export := range module.Exports {
					graphModule.Exports = append(graphModule.Exports, GraphExport{
						Name:      export.Alias,
						Target:    export.Target,
						FinalName: export.FinalName,
						FromStar:  export.FromStar,
						Ambiguous: export.Ambiguous,
					})
				}
				result.Modules = append(result.Modules, graphModule)
			}
			for _, rename := range report.Renames {
				result.Renames = append(result.Renames, GraphRename{Path: rename.Path, From: rename.From, To: rename.To})
			}
			result.JSON = report.JSON()
		}
	}

	msgs := ctx.log.Done()
	result.Errors = messagesOfKind(logger.Error, msgs)
	result.Warnings = messagesOfKind(logger.Warning, msgs)
	return result
}
