package renamer

import (
	"sort"

	"github.com/esmlink/esmlink/internal/js_ast"
)

type Module struct {
	Scope *js_ast.Scope

	// The symbol for "export default", or "js_ast.InvalidRef"
	DefaultRef js_ast.Ref
}

// Returns a renaming map under which every top-level declaration of every
// module has a name no other module declares or uses as a global, and a name
// generator that won't hand out any name already in use. "reservedGlobals"
// are treated like globals every module references.
//
// A top-level declaration is renamed when another module declares the same
// name or references it as a global. Every module's "export default" symbol
// gets a generated name. Declarations in nested scopes are renamed when they
// would shadow another module's top-level name, except for "var" bindings,
// function parameters and hoisted function declarations, which always keep
// their name.
func ResolveCollisions(symbols js_ast.SymbolMap, modules []Module, reservedGlobals []string) (*RenamingMap, *NameGenerator) {
	used := make(map[string]bool)
	declarationCount := make(map[string]int)
	throughIn := make(map[string][]int)

	for i, module := range modules {
		for name, member := range module.Scope.Members {
			used[name] = true
			kind := symbols.Get(member.Ref).Kind
			if kind == js_ast.SymbolUnbound {
				throughIn[name] = append(throughIn[name], i)
			} else if declaresVariable(kind) {
				declarationCount[name]++
			}
		}
		forEachNestedMember(module.Scope, func(name string, ref js_ast.Ref) {
			used[name] = true
		})
	}
	for _, name := range reservedGlobals {
		used[name] = true
		throughIn[name] = append(throughIn[name], -1)
	}

	isThroughElsewhere := func(name string, i int) bool {
		for _, j := range throughIn[name] {
			if j != i {
				return true
			}
		}
		return false
	}

	names := NewNameGenerator(used)
	r := NewRenamingMap(symbols)
	keptBy := make(map[string]int)

	for i, module := range modules {
		defaultName := names.Next()
		if module.DefaultRef != js_ast.InvalidRef {
			r.Rename(module.DefaultRef, defaultName)
		}

		for _, member := range sortedMembers(module.Scope.Members) {
			symbol := symbols.Get(member.ref)
			if !declaresVariable(symbol.Kind) {
				continue
			}
			if !symbol.MustNotBeRenamed && (declarationCount[member.name] > 1 || isThroughElsewhere(member.name, i)) {
				r.Rename(member.ref, names.Next())
			} else {
				keptBy[member.name] = i
			}
		}
	}

	for i, module := range modules {
		forEachNestedMember(module.Scope, func(name string, ref js_ast.Ref) {
			symbol := symbols.Get(ref)
			if symbol.Kind.IsHoisted() || symbol.MustNotBeRenamed {
				return
			}
			if owner, ok := keptBy[name]; ok && owner != i {
				r.Rename(ref, names.Next())
			}
		})
	}

	return r, names
}

// Imports don't count as declarations. After linking they refer to a
// declaration in another module.
func declaresVariable(kind js_ast.SymbolKind) bool {
	return kind != js_ast.SymbolUnbound && kind != js_ast.SymbolImport && kind != js_ast.SymbolArguments
}

type sortedMember struct {
	name string
	ref  js_ast.Ref
	loc  int32
}

// Scope members in declaration order. Map iteration order is random so this
// is what keeps generated names deterministic.
func sortedMembers(members map[string]js_ast.ScopeMember) []sortedMember {
	sorted := make([]sortedMember, 0, len(members))
	for name, member := range members {
		sorted = append(sorted, sortedMember{name: name, ref: member.Ref, loc: member.Loc.Start})
	}
	sort.Slice(sorted, func(i int, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.loc != b.loc {
			return a.loc < b.loc
		}
		return a.name < b.name
	})
	return sorted
}

// Visits each symbol declared below the module scope once, in scope order.
// "var" symbols are members of every block they were hoisted through and
// parameters are copied into the function body scope, so refs are deduped.
func forEachNestedMember(moduleScope *js_ast.Scope, visit func(name string, ref js_ast.Ref)) {
	seen := make(map[js_ast.Ref]bool)
	for _, member := range moduleScope.Members {
		seen[member.Ref] = true
	}

	var visitScope func(scope *js_ast.Scope)
	visitScope = func(scope *js_ast.Scope) {
		for _, member := range sortedMembers(scope.Members) {
			if !seen[member.ref] {
				seen[member.ref] = true
				visit(member.name, member.ref)
			}
		}
		for _, child := range scope.Children {
			visitScope(child)
		}
	}
	for _, child := range moduleScope.Children {
		visitScope(child)
	}
}
