package linker

import (
	"fmt"
	"strings"

	"github.com/esmlink/esmlink/internal/helpers"
	"github.com/esmlink/esmlink/internal/js_ast"
)

// What the linker decided, for "esmlink graph". Modules are in evaluation
// order.
type Report struct {
	Modules []ModuleReport
	Renames []RenameReport
}

type ModuleReport struct {
	Path     string
	Group    int
	IsCyclic bool
	Exports  []ExportReport
}

type ExportReport struct {
	Alias string

	// "path: name" for a variable, "path: *" for a namespace object and
	// empty for an ambiguous name
	Target    string
	FinalName string
	FromStar  bool
	Ambiguous bool
}

type RenameReport struct {
	Path    string
	From    string
	To      string
	IsLocal bool
}

func (result *LinkResult) Report() Report {
	g := &result.Graph
	var report Report

	for _, sourceIndex := range result.Schedule {
		module := &g.Modules[sourceIndex]
		meta := &g.Meta[sourceIndex]
		moduleReport := ModuleReport{
			Path:     module.Source.PrettyPath,
			Group:    meta.GroupIndex,
			IsCyclic: meta.IsCyclic,
		}
		for _, alias := range meta.Exports.SortedAliases() {
			entry := meta.Exports[alias]
			export := ExportReport{Alias: alias, FromStar: entry.FromStar, Ambiguous: entry.Ambiguous}
			if !entry.Ambiguous {
				target := &g.Modules[entry.Target.SourceIndex]
				if entry.Target.IsNamespace {
					export.Target = target.Source.PrettyPath + ": *"
					if ref := g.Meta[entry.Target.SourceIndex].NamespaceRef; ref != js_ast.InvalidRef {
						export.FinalName = result.Renamer.NameForSymbol(ref)
					}
				} else {
					export.Target = target.Source.PrettyPath + ": " + g.Symbols.Get(entry.Target.Ref).OriginalName
					export.FinalName = result.Renamer.NameForSymbol(entry.Target.Ref)
				}
			}
			moduleReport.Exports = append(moduleReport.Exports, export)
		}
		report.Modules = append(report.Modules, moduleReport)
	}

	for _, rename := range result.Renamer.Entries() {
		report.Renames = append(report.Renames, RenameReport{
			Path:    g.Modules[rename.Ref.SourceIndex].Source.PrettyPath,
			From:    rename.OriginalName,
			To:      rename.NewName,
			IsLocal: g.Symbols.Get(rename.Ref).Kind != js_ast.SymbolGenerated,
		})
	}
	return report
}

// Formats the report as JSON for tools that want to inspect the link.
func (report Report) JSON() string {
	sb := strings.Builder{}
	quote := func(text string) string {
		return string(helpers.QuoteForJSON(text, false))
	}

	sb.WriteString(`{"modules":[`)
	for i, module := range report.Modules {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(fmt.Sprintf(`{"path":%s,"group":%d,"cyclic":%v,"exports":[`, quote(module.Path), module.Group, module.IsCyclic))
		for j, export := range module.Exports {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(fmt.Sprintf(`{"alias":%s`, quote(export.Alias)))
			if export.Ambiguous {
				sb.WriteString(`,"ambiguous":true`)
			} else {
				sb.WriteString(fmt.Sprintf(`,"target":%s,"name":%s`, quote(export.Target), quote(export.FinalName)))
			}
			if export.FromStar {
				sb.WriteString(`,"fromStar":true`)
			}
			sb.WriteByte('}')
		}
		sb.WriteString(`]}`)
	}

	sb.WriteString(`],"renames":[`)
	for i, rename := range report.Renames {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(fmt.Sprintf(`{"path":%s,"from":%s,"to":%s}`, quote(rename.Path), quote(rename.From), quote(rename.To)))
	}
	sb.WriteString(`]}`)

	return sb.String()
}
