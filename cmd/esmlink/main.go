package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"runtime/pprof"
	"strings"

	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/pkg/cli"
)

const esmlinkVersion = "0.1.0"

func main() {
	osArgs := os.Args[1:]
	cpuprofileFile := ""

	// Strip the flags that are handled here before the command line sees them
	argsEnd := 0
	for _, arg := range osArgs {
		if strings.HasPrefix(arg, "--cpuprofile=") {
			cpuprofileFile = arg[len("--cpuprofile="):]
			continue
		}
		osArgs[argsEnd] = arg
		argsEnd++
	}
	osArgs = osArgs[:argsEnd]

	exitCode := 1
	func() {
		// To view a CPU profile, use "go tool pprof [file]"
		if cpuprofileFile != "" {
			f, err := os.Create(cpuprofileFile)
			if err != nil {
				logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
					"Failed to create cpuprofile file: %s", err.Error()))
				return
			}
			defer f.Close()
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		// This is a short-lived process that exits right after linking
		debug.SetGCPercent(-1)

		exitCode = cli.Run(esmlinkVersion, osArgs)
	}()

	os.Exit(exitCode)
}
