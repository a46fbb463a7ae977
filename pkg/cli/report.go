package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/esmlink/esmlink/internal/fs"
	"github.com/esmlink/esmlink/pkg/api"
)

var (
	pathStyle = lipgloss.NewStyle().Bold(true)
	sizeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
)

// Prints one line per written file with its size, like this:
//
//	out/bundle.js  1.2kb
func printSummary(w io.Writer, outputFiles []api.OutputFile, color bool) {
	realFS := fs.RealFS()
	paths := make([]string, len(outputFiles))
	width := 0
	for i, file := range outputFiles {
		paths[i] = fs.PrettyPath(realFS, file.Path)
		if len(paths[i]) > width {
			width = len(paths[i])
		}
	}

	sb := strings.Builder{}
	sb.WriteString("\n")
	for i, file := range outputFiles {
		path := paths[i] + strings.Repeat(" ", width-len(paths[i]))
		size := formatSize(len(file.Contents))
		if color {
			path = pathStyle.Render(path)
			size = sizeStyle.Render(size)
		}
		sb.WriteString(fmt.Sprintf("  %s  %s\n", path, size))
	}
	sb.WriteString("\n")
	io.WriteString(w, sb.String())
}

func formatSize(bytes int) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%db", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1fkb", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1fmb", float64(bytes)/(1024*1024))
	}
}

// Prints the evaluation schedule, then the export table of every module
// that exports something, then the renames.
func printGraph(w io.Writer, result api.GraphResult, color bool) error {
	if color {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}

	schedule := [][]string{{"#", "Module", "Group", "Cyclic"}}
	for i, module := range result.Modules {
		cyclic := ""
		if module.IsCyclic {
			cyclic = "yes"
		}
		schedule = append(schedule, []string{strconv.Itoa(i + 1), module.Path, strconv.Itoa(module.Group), cyclic})
	}
	if err := printTable(w, "Evaluation order", schedule); err != nil {
		return err
	}

	for _, module := range result.Modules {
		if len(module.Exports) == 0 {
			continue
		}
		exports := [][]string{{"Export", "Target", "Name", "Via"}}
		for _, export := range module.Exports {
			target := export.Target
			if export.Ambiguous {
				target = "(ambiguous)"
			}
			via := ""
			if export.FromStar {
				via = "export *"
			}
			exports = append(exports, []string{export.Name, target, export.FinalName, via})
		}
		if err := printTable(w, "Exports of "+module.Path, exports); err != nil {
			return err
		}
	}

	if len(result.Renames) > 0 {
		renames := [][]string{{"Module", "From", "To"}}
		for _, rename := range result.Renames {
			renames = append(renames, []string{rename.Path, rename.From, rename.To})
		}
		if err := printTable(w, "Renames", renames); err != nil {
			return err
		}
	}
	return nil
}

func printTable(w io.Writer, title string, data [][]string) error {
	text, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n\n", pterm.FgCyan.Sprint(title), text)
	return err
}
