package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/esmlink/esmlink/internal/config"
	"github.com/esmlink/esmlink/pkg/api"
)

type cliFlags struct {
	outfile           string
	format            string
	globalName        string
	dangerLevel       string
	unresolvedImports string
	exports           string
	forbidCircular    bool
	fatalAssignment   bool
	rejectAssignment  bool
	plainNamespaces   bool
	treeShaking       bool
	minifyWhitespace  bool
	reportConformance bool
	configPath        string
	logLevel          string
	color             string
	errorLimit        int
	json              bool
}

func addLinkFlags(cmd *cobra.Command, flags *cliFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.format, "format", "iife", "Output format (iife, esm, cjs)")
	f.StringVar(&flags.globalName, "global-name", "", "Name of the global that holds the entry's exports (iife only)")
	f.StringVar(&flags.dangerLevel, "danger-level", "safe", "How much ES module fidelity to trade for size (safe, balanced, dangerous)")
	f.StringVar(&flags.unresolvedImports, "unresolved-imports", "error", "What to do with imports that match no export (error, undefined, throw, passthrough)")
	f.StringVar(&flags.exports, "exports", "explicit", "Which bindings of the entry point to export (explicit, all, none)")
	f.BoolVar(&flags.forbidCircular, "forbid-circular", false, "Fail when modules import each other in a cycle")
	f.BoolVar(&flags.fatalAssignment, "fatal-import-assignment", false, "Fail when code assigns to an imported binding")
	f.BoolVar(&flags.rejectAssignment, "reject-import-assignment", false, "Keep rejecting assignments to imports at the dangerous level")
	f.BoolVar(&flags.plainNamespaces, "plain-namespaces", false, "Make namespace objects ordinary objects")
	f.BoolVar(&flags.treeShaking, "tree-shaking", true, "Remove unused top-level code")
	f.BoolVar(&flags.minifyWhitespace, "minify-whitespace", false, "Remove whitespace")
	f.BoolVar(&flags.reportConformance, "report-conformance", false, "Warn about imports that were compiled into throwing code")
	f.StringVar(&flags.configPath, "config", "", "Read defaults from this file instead of "+config.FileName)
	f.StringVar(&flags.logLevel, "log-level", "info", "Logging level (debug, info, warning, error, silent)")
	f.StringVar(&flags.color, "color", "", "Force use of color terminal escapes (true or false)")
	f.IntVar(&flags.errorLimit, "error-limit", 10, "Maximum error count or 0 to disable")
}

// Combines the project file with the command line. Flags that were given
// explicitly win over the file; the file wins over flag defaults.
func resolveOptions(cmd *cobra.Command, args []string, flags *cliFlags, version string) (api.BuildOptions, error) {
	file, err := loadConfigFile(flags.configPath)
	if err != nil {
		return api.BuildOptions{}, err
	}

	linkOptions := config.Options{}
	entryPoint := ""
	outfile := ""
	if file != nil {
		if err := file.CheckVersion("v" + version); err != nil {
			return api.BuildOptions{}, err
		}
		if err := file.Apply(&linkOptions); err != nil {
			return api.BuildOptions{}, fmt.Errorf("%s: %w", configPathOrDefault(flags.configPath), err)
		}
		entryPoint = file.Entry
		outfile = file.Outfile
	}

	if err := applyFlags(cmd, flags, &linkOptions); err != nil {
		return api.BuildOptions{}, err
	}
	if len(args) == 1 {
		entryPoint = args[0]
	}
	if cmd.Flags().Changed("outfile") {
		outfile = flags.outfile
	}

	logLevel, err := parseLogLevel(flags.logLevel)
	if err != nil {
		return api.BuildOptions{}, err
	}
	color, err := parseColor(flags.color)
	if err != nil {
		return api.BuildOptions{}, err
	}

	options := buildOptionsFromConfig(linkOptions)
	options.EntryPoint = entryPoint
	options.Outfile = outfile
	options.LogLevel = logLevel
	options.Color = color
	options.ErrorLimit = flags.errorLimit
	return options, nil
}

func loadConfigFile(path string) (*config.File, error) {
	if path == "" {
		return config.LoadFile(config.FileName, true)
	}
	file, err := config.LoadFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", path, err)
	}
	return file, nil
}

func configPathOrDefault(path string) string {
	if path == "" {
		return config.FileName
	}
	return path
}

func applyFlags(cmd *cobra.Command, flags *cliFlags, options *config.Options) error {
	changed := cmd.Flags().Changed
	var err error

	if changed("format") {
		if options.OutputFormat, err = config.ParseFormat(flags.format); err != nil {
			return err
		}
	}
	if changed("danger-level") {
		if options.DangerLevel, err = config.ParseDangerLevel(flags.dangerLevel); err != nil {
			return err
		}
	}
	if changed("unresolved-imports") {
		if options.UnresolvedImports, err = config.ParseUnresolvedImportStrategy(flags.unresolvedImports); err != nil {
			return err
		}
	}
	if changed("exports") {
		if options.ExportStrategy, err = config.ParseExportStrategy(flags.exports); err != nil {
			return err
		}
	}
	if changed("global-name") {
		options.GlobalName = flags.globalName
	}
	if changed("forbid-circular") {
		options.ForbidCircularDependencies = flags.forbidCircular
	}
	if changed("fatal-import-assignment") {
		options.FatalImportAssignment = flags.fatalAssignment
	}
	if changed("reject-import-assignment") {
		options.RejectImportAssignment = flags.rejectAssignment
	}
	if changed("plain-namespaces") {
		options.PlainNamespaceObjects = flags.plainNamespaces
	}
	if changed("tree-shaking") {
		options.SkipDeadCodeElimination = !flags.treeShaking
	}
	options.MinifyWhitespace = flags.minifyWhitespace
	options.ReportConformanceErrors = flags.reportConformance
	return nil
}

func buildOptionsFromConfig(options config.Options) api.BuildOptions {
	result := api.BuildOptions{
		GlobalName:                 options.GlobalName,
		ForbidCircularDependencies: options.ForbidCircularDependencies,
		FatalImportAssignment:      options.FatalImportAssignment,
		RejectImportAssignment:     options.RejectImportAssignment,
		PlainNamespaceObjects:      options.PlainNamespaceObjects,
		DisableTreeShaking:         options.SkipDeadCodeElimination,
		ReportConformanceErrors:    options.ReportConformanceErrors,
		MinifyWhitespace:           options.MinifyWhitespace,
	}

	switch options.OutputFormat {
	case config.FormatIIFE:
		result.Format = api.FormatIIFE
	case config.FormatESModule:
		result.Format = api.FormatESModule
	case config.FormatCommonJS:
		result.Format = api.FormatCommonJS
	}

	switch options.DangerLevel {
	case config.DangerSafe:
		result.DangerLevel = api.DangerSafe
	case config.DangerBalanced:
		result.DangerLevel = api.DangerBalanced
	case config.DangerDangerous:
		result.DangerLevel = api.DangerDangerous
	}

	switch options.UnresolvedImports {
	case config.UnresolvedImportError:
		result.UnresolvedImports = api.UnresolvedImportsError
	case config.UnresolvedImportUndefined:
		result.UnresolvedImports = api.UnresolvedImportsUndefined
	case config.UnresolvedImportThrow:
		result.UnresolvedImports = api.UnresolvedImportsThrow
	case config.UnresolvedImportPassthrough:
		result.UnresolvedImports = api.UnresolvedImportsPassthrough
	}

	switch options.ExportStrategy {
	case config.ExportsExplicit:
		result.Exports = api.ExportsExplicit
	case config.ExportsAllTopLevel:
		result.Exports = api.ExportsAllTopLevel
	case config.ExportsNone:
		result.Exports = api.ExportsNone
	}

	return result
}

func parseLogLevel(text string) (api.LogLevel, error) {
	switch text {
	case "debug":
		return api.LogLevelDebug, nil
	case "info":
		return api.LogLevelInfo, nil
	case "warning":
		return api.LogLevelWarning, nil
	case "error":
		return api.LogLevelError, nil
	case "silent":
		return api.LogLevelSilent, nil
	}
	return 0, fmt.Errorf("invalid log level %q (valid: debug, info, warning, error, silent)", text)
}

func parseColor(text string) (api.StderrColor, error) {
	switch text {
	case "":
		return api.ColorIfTerminal, nil
	case "true":
		return api.ColorAlways, nil
	case "false":
		return api.ColorNever, nil
	}
	return 0, fmt.Errorf("invalid value for --color: %q (valid: true, false)", text)
}
