package graph

import (
	"sort"

	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/logger"
)

// What an export name ultimately refers to: either a variable declared in
// some module or the namespace object of some module ("export * as ns").
type ExportTarget struct {
	Ref         js_ast.Ref
	SourceIndex uint32
	IsNamespace bool
}

type ExportEntry struct {
	Target ExportTarget

	// The location of the export in the module that owns this table, for
	// error messages
	AliasLoc logger.Loc

	// Entries that came in through "export *" may still be replaced by an
	// ambiguous entry. Explicit entries never change.
	FromStar bool

	// Two "export *" statements provide different bindings for this name.
	// The name is not exported and importing it is an error.
	Ambiguous bool
}

// Maps every exported name of a module to what it refers to. A name goes
// from absent to known to ambiguous and never back.
type ExportTable map[string]*ExportEntry

// Sorted by name so iteration order never depends on map order.
func (table ExportTable) SortedAliases() []string {
	aliases := make([]string, 0, len(table))
	for alias := range table {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// Returns the entry for a name only if it's known and unambiguous.
func (table ExportTable) Resolve(alias string) (ExportTarget, bool) {
	if entry, ok := table[alias]; ok && !entry.Ambiguous {
		return entry.Target, true
	}
	return ExportTarget{}, false
}

// Creates the table of explicit exports for a module. Re-exports through
// "export *" and "export {...} from" are added later by the linker.
func NewExportTable(module *Module) ExportTable {
	table := make(ExportTable, len(module.LocalExports)+len(module.NamespaceExports))
	for _, export := range module.LocalExports {
		table[export.Alias] = &ExportEntry{
			Target:   ExportTarget{Ref: export.Ref, SourceIndex: module.Source.Index},
			AliasLoc: export.AliasLoc,
		}
	}
	for _, export := range module.NamespaceExports {
		table[export.Alias] = &ExportEntry{
			Target:   ExportTarget{Ref: js_ast.InvalidRef, SourceIndex: export.SourceIndex, IsNamespace: true},
			AliasLoc: export.AliasLoc,
		}
	}
	return table
}
