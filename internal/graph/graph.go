package graph

import (
	"github.com/esmlink/esmlink/internal/helpers"
	"github.com/esmlink/esmlink/internal/js_ast"
)

// The state of one link operation. Input files are shared with the caller
// and may be linked several times, possibly in parallel, so everything the
// linker mutates is cloned here.
type LinkerGraph struct {
	Modules []Module
	Meta    []ModuleMeta
	Symbols js_ast.SymbolMap

	EntryPoint uint32

	// Every module reachable from the runtime and the entry point, in the
	// order a breadth-first search over "Dependencies" finds them. Modules
	// missing from this list were given to the linker but nothing imports
	// them.
	ReachableFiles []uint32
}

func MakeLinkerGraph(files []InputFile, entryPoint uint32) LinkerGraph {
	g := LinkerGraph{
		Modules:    make([]Module, len(files)),
		Meta:       make([]ModuleMeta, len(files)),
		Symbols:    js_ast.NewSymbolMap(len(files)),
		EntryPoint: entryPoint,
	}

	for i, file := range files {
		// Clone the symbol map. Merging and generated symbols only ever touch
		// the clone.
		g.Symbols.Outer[i] = append([]js_ast.Symbol{}, file.AST.Symbols...)
		g.Modules[i] = NewModule(file)
		g.Meta[i] = ModuleMeta{
			NamespaceRef: js_ast.InvalidRef,
			ReadyRef:     js_ast.InvalidRef,
		}
	}

	g.ReachableFiles = g.findReachableFiles()
	return g
}

func (g *LinkerGraph) findReachableFiles() []uint32 {
	visited := helpers.NewBitSet(uint(len(g.Modules)))
	var order []uint32
	visit := func(sourceIndex uint32) {
		if !visited.HasBit(uint(sourceIndex)) {
			visited.SetBit(uint(sourceIndex))
			order = append(order, sourceIndex)
		}
	}

	if len(g.Modules) > 0 {
		visit(0)
	}
	visit(g.EntryPoint)
	for i := 0; i < len(order); i++ {
		for _, dep := range g.Modules[order[i]].Dependencies {
			visit(dep)
		}
	}
	return order
}

func (g *LinkerGraph) GenerateSymbol(sourceIndex uint32, name string) js_ast.Ref {
	return g.Symbols.New(sourceIndex, js_ast.SymbolGenerated, name)
}
