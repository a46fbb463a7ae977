package renamer

import (
	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/js_lexer"
)

// Every name that must never be produced for a renamed symbol regardless of
// what the modules declare: keywords and strict mode reserved words.
func ComputeReservedNames() map[string]bool {
	names := make(map[string]bool)
	for k := range js_lexer.Keywords {
		names[k] = true
	}
	for k := range js_lexer.StrictModeReservedWords {
		names[k] = true
	}

	// These aren't keywords but can't be bound in strict mode code
	names["arguments"] = true
	names["eval"] = true
	return names
}

type Renamer interface {
	NameForSymbol(ref js_ast.Ref) string
}

////////////////////////////////////////////////////////////////////////////////
// noOpRenamer

type noOpRenamer struct {
	symbols js_ast.SymbolMap
}

func NewNoOpRenamer(symbols js_ast.SymbolMap) Renamer {
	return &noOpRenamer{
		symbols: symbols,
	}
}

func (r *noOpRenamer) NameForSymbol(ref js_ast.Ref) string {
	ref = js_ast.FollowSymbols(r.symbols, ref)
	return r.symbols.Get(ref).OriginalName
}

////////////////////////////////////////////////////////////////////////////////
// RenamingMap

// Maps symbols to their new names. It's indexed the same way the symbol map
// is, first by source index and then by inner index. An empty string means
// the symbol keeps its original name. Entries are only ever added.
type RenamingMap struct {
	symbols js_ast.SymbolMap
	names   [][]string
}

func NewRenamingMap(symbols js_ast.SymbolMap) *RenamingMap {
	return &RenamingMap{
		symbols: symbols,
		names:   make([][]string, len(symbols.Outer)),
	}
}

func (r *RenamingMap) Rename(ref js_ast.Ref, name string) {
	inner := r.names[ref.SourceIndex]
	if int(ref.InnerIndex) >= len(inner) {
		grown := make([]string, int(ref.InnerIndex)+1, len(r.symbols.Outer[ref.SourceIndex])+1)
		copy(grown, inner)
		inner = grown
		r.names[ref.SourceIndex] = inner
	}
	if inner[ref.InnerIndex] != "" {
		panic("Internal error: symbol renamed twice")
	}
	inner[ref.InnerIndex] = name
}

func (r *RenamingMap) IsRenamed(ref js_ast.Ref) bool {
	inner := r.names[ref.SourceIndex]
	return int(ref.InnerIndex) < len(inner) && inner[ref.InnerIndex] != ""
}

func (r *RenamingMap) NameForSymbol(ref js_ast.Ref) string {
	ref = js_ast.FollowSymbols(r.symbols, ref)
	if inner := r.names[ref.SourceIndex]; int(ref.InnerIndex) < len(inner) {
		if name := inner[ref.InnerIndex]; name != "" {
			return name
		}
	}
	return r.symbols.Get(ref).OriginalName
}

type Rename struct {
	Ref          js_ast.Ref
	OriginalName string
	NewName      string
}

// All entries in source order, for reports.
func (r *RenamingMap) Entries() []Rename {
	var entries []Rename
	for sourceIndex, inner := range r.names {
		for innerIndex, name := range inner {
			if name != "" {
				ref := js_ast.Ref{SourceIndex: uint32(sourceIndex), InnerIndex: uint32(innerIndex)}
				entries = append(entries, Rename{
					Ref:          ref,
					OriginalName: r.symbols.Get(ref).OriginalName,
					NewName:      name,
				})
			}
		}
	}
	return entries
}
