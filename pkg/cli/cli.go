// Package cli implements the esmlink command line on top of "pkg/api". It is
// a separate package so other programs can embed the same command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/pkg/api"
)

// Returned by commands whose problems were already printed by the log
var errReported = errors.New("errors were reported")

// Runs the command line and returns the exit code. "osArgs" excludes the
// program name.
func Run(version string, osArgs []string) int {
	return run(version, osArgs, os.Stdout, os.Stderr)
}

func run(version string, osArgs []string, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCmd(version)
	cmd.SetArgs(osArgs)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		if err != errReported {
			logger.PrintErrorToStderr(osArgs, err.Error())
		}
		return 1
	}
	return 0
}

// NewRootCmd creates the top-level esmlink command.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "esmlink",
		Short:         "Link ES modules into one scope-hoisted program",
		Long:          "esmlink concatenates a graph of ES modules into a single script, renaming top-level variables instead of wrapping each module in a function.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.Version = version

	cmd.AddCommand(newBuildCmd(version))
	cmd.AddCommand(newGraphCmd(version))
	return cmd
}

func newBuildCmd(version string) *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "build [entry point]",
		Short: "Bundle an entry point and everything it imports",
		Long:  "Bundle an entry point and everything it imports. Without --outfile the bundle is written to standard output.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := resolveOptions(cmd, args, &flags, version)
			if err != nil {
				return err
			}
			if options.EntryPoint == "" && term.IsTerminal(int(os.Stdin.Fd())) {
				cmd.Help()
				return errReported
			}
			defer installTrace(flags.logLevel)()

			options.Write = options.Outfile != ""
			result := api.Build(options)
			if len(result.Errors) > 0 {
				return errReported
			}

			if options.Outfile == "" {
				if len(result.OutputFiles) != 1 {
					return fmt.Errorf("Internal error: did not expect to generate %d files when writing to stdout", len(result.OutputFiles))
				}
				if _, err := cmd.OutOrStdout().Write(result.OutputFiles[0].Contents); err != nil {
					return fmt.Errorf("Failed to write to stdout: %w", err)
				}
				return nil
			}

			if options.LogLevel == api.LogLevelDebug || options.LogLevel == api.LogLevelInfo {
				printSummary(cmd.ErrOrStderr(), result.OutputFiles, useColor(options.Color))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.outfile, "outfile", "", "Write the bundle to this file instead of standard output")
	addLinkFlags(cmd, &flags)
	return cmd
}

func newGraphCmd(version string) *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "graph [entry point]",
		Short: "Show the evaluation order, export tables and renames",
		Long:  "Link an entry point without writing anything and show when each module runs, what each module exports and which top-level names were renamed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := resolveOptions(cmd, args, &flags, version)
			if err != nil {
				return err
			}
			defer installTrace(flags.logLevel)()

			result := api.Graph(options)
			if len(result.Errors) > 0 {
				return errReported
			}

			out := cmd.OutOrStdout()
			if flags.json {
				_, err := fmt.Fprintln(out, result.JSON)
				return err
			}
			return printGraph(out, result, useColor(options.Color))
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the graph as JSON")
	addLinkFlags(cmd, &flags)
	return cmd
}

// Installs a development zap logger for pipeline tracing when the log level
// asks for debug output. The returned function flushes it.
func installTrace(logLevel string) func() {
	if logLevel != "debug" {
		return func() {}
	}
	trace, err := zap.NewDevelopment()
	if err != nil {
		return func() {}
	}
	logger.SetTrace(trace)
	return func() {
		trace.Sync()
		logger.SetTrace(zap.NewNop())
	}
}

func useColor(color api.StderrColor) bool {
	switch color {
	case api.ColorAlways:
		return true
	case api.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}
