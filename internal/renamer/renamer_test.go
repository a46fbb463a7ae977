package renamer

import (
	"fmt"
	"testing"

	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/js_lexer"
	"github.com/esmlink/esmlink/internal/js_parser"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/test"
)

type parsedModules struct {
	symbols js_ast.SymbolMap
	scopes  []*js_ast.Scope
	modules []Module
}

func parseModules(t *testing.T, contents ...string) parsedModules {
	t.Helper()
	result := parsedModules{symbols: js_ast.NewSymbolMap(len(contents))}
	for i, text := range contents {
		log := logger.NewDeferLog()
		source := test.SourceForTest(text)
		source.Index = uint32(i)
		source.PrettyPath = fmt.Sprintf("m%d.js", i)
		source.IdentifierName = fmt.Sprintf("m%d", i)
		tree, ok := js_parser.Parse(log, source)
		test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")
		test.AssertEqual(t, ok, true)
		result.symbols.Outer[i] = tree.Symbols
		result.scopes = append(result.scopes, tree.ModuleScope)
		result.modules = append(result.modules, Module{Scope: tree.ModuleScope, DefaultRef: tree.DefaultRef})
	}
	return result
}

// Finds a symbol by name in the module scope or any scope below it.
func (p parsedModules) find(t *testing.T, module int, name string) js_ast.Ref {
	t.Helper()
	var search func(scope *js_ast.Scope) (js_ast.Ref, bool)
	search = func(scope *js_ast.Scope) (js_ast.Ref, bool) {
		if member, ok := scope.Members[name]; ok {
			return member.Ref, true
		}
		for _, child := range scope.Children {
			if ref, ok := search(child); ok {
				return ref, true
			}
		}
		return js_ast.InvalidRef, false
	}
	ref, ok := search(p.scopes[module])
	if !ok {
		t.Fatalf("No symbol %q in module %d", name, module)
	}
	return ref
}

func TestNumberToName(t *testing.T) {
	test.AssertEqual(t, numberToName(0), "a")
	test.AssertEqual(t, numberToName(25), "z")
	test.AssertEqual(t, numberToName(26), "A")
	test.AssertEqual(t, numberToName(51), "Z")
	test.AssertEqual(t, numberToName(52), "aa")
	test.AssertEqual(t, numberToName(53), "ab")
	test.AssertEqual(t, numberToName(52+52*52), "aaa")
}

func TestNameGeneratorSkipsUsedNames(t *testing.T) {
	g := NewNameGenerator(map[string]bool{"b": true})
	test.AssertEqual(t, g.Next(), "a")
	test.AssertEqual(t, g.Next(), "c")
	g.Blacklist("d")
	test.AssertEqual(t, g.Next(), "e")
}

func TestNameGeneratorSkipsReservedWords(t *testing.T) {
	g := NewNameGenerator(nil)
	seen := make(map[string]bool)
	for i := 0; i < 3000; i++ {
		name := g.Next()
		if _, ok := js_lexer.Keywords[name]; ok || js_lexer.StrictModeReservedWords[name] {
			t.Fatalf("Generated reserved word %q", name)
		}
		if !js_lexer.IsIdentifier(name) {
			t.Fatalf("Generated invalid identifier %q", name)
		}
		if seen[name] {
			t.Fatalf("Generated %q twice", name)
		}
		seen[name] = true
	}
	test.AssertEqual(t, seen["do"], false)
	test.AssertEqual(t, seen["if"], false)
	test.AssertEqual(t, seen["in"], false)
}

func TestUniqueTopLevelNamesAreKept(t *testing.T) {
	p := parseModules(t, "let a = 1", "let b = 2")
	r, _ := ResolveCollisions(p.symbols, p.modules, nil)
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 0, "a")), "a")
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 1, "b")), "b")
	test.AssertEqual(t, len(r.Entries()), 0)
}

func TestDuplicateTopLevelNamesAreRenamed(t *testing.T) {
	p := parseModules(t, "let result = 1", "var result = 2")
	r, _ := ResolveCollisions(p.symbols, p.modules, nil)

	// Each module's default export name is allocated first
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 0, "result")), "b")
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 1, "result")), "d")
}

func TestDeclarationOfAnotherModulesGlobalIsRenamed(t *testing.T) {
	p := parseModules(t, "let window = 1", "window.x = 1")
	r, _ := ResolveCollisions(p.symbols, p.modules, nil)
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 0, "window")), "b")
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 1, "window")), "window")
}

func TestReservedGlobals(t *testing.T) {
	p := parseModules(t, "let module = 1; let other = 2")
	r, _ := ResolveCollisions(p.symbols, p.modules, []string{"module"})
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 0, "module")), "b")
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 0, "other")), "other")
}

func TestDefaultExportNames(t *testing.T) {
	p := parseModules(t, "export default 1", "let x = 2", "export default function() {}")
	r, names := ResolveCollisions(p.symbols, p.modules, nil)
	test.AssertEqual(t, r.NameForSymbol(p.modules[0].DefaultRef), "a")
	test.AssertEqual(t, r.NameForSymbol(p.modules[2].DefaultRef), "c")

	// Module 1 has no default export but still used up a name
	test.AssertEqual(t, names.Next(), "d")
}

func TestGeneratedNamesAvoidNestedNames(t *testing.T) {
	p := parseModules(t, "let x = 1", "let x = 2; function f(a) { let b; { let c } }")
	r, _ := ResolveCollisions(p.symbols, p.modules, nil)
	// "a", "b", "c" and "f" are declared somewhere
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 0, "x")), "e")
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 1, "x")), "h")
}

func TestNestedLexicalNamesAreRenamed(t *testing.T) {
	p := parseModules(t,
		"export let x = 1",
		"function f() { let x = 2; return x } try {} catch (x) {} (function x() {})",
	)
	r, _ := ResolveCollisions(p.symbols, p.modules, nil)
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 0, "x")), "x")
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 1, "f")), "f")

	var renamed []string
	for _, entry := range r.Entries() {
		renamed = append(renamed, entry.OriginalName+" -> "+entry.NewName)
	}
	test.AssertEqualWithDiff(t, renamed, []string{"x -> c", "x -> d", "x -> e"})
}

// Nested "var" bindings, parameters and hoisted functions are never renamed,
// even when they shadow another module's top-level name.
func TestNestedFunctionScopedNamesKeepTheirName(t *testing.T) {
	p := parseModules(t,
		"export let x = 1, y = 2, g = 3",
		"function f(x) { var y = x; function g() {} return y }",
	)
	r, _ := ResolveCollisions(p.symbols, p.modules, nil)
	test.AssertEqual(t, len(r.Entries()), 0)
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 1, "x")), "x")
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 1, "y")), "y")
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 1, "g")), "g")
}

func TestNestedNamesInTheSameModuleAreKept(t *testing.T) {
	p := parseModules(t, "let x = 1; function f() { let x = 2 }")
	r, _ := ResolveCollisions(p.symbols, p.modules, nil)
	test.AssertEqual(t, len(r.Entries()), 0)
}

func TestArgumentsIsNeverRenamed(t *testing.T) {
	p := parseModules(t, "let arguments2 = 1", "function f() { return arguments }")
	r, _ := ResolveCollisions(p.symbols, p.modules, nil)
	test.AssertEqual(t, r.NameForSymbol(p.find(t, 1, "arguments")), "arguments")
}

func TestResolveCollisionsIsDeterministic(t *testing.T) {
	contents := []string{
		"let a = 1, b = 2, c = 3; export default a",
		"let c = 1, b = 2, a = 3; { let z } export default b",
		"let z = 1, a = 2",
	}
	p := parseModules(t, contents...)
	first, _ := ResolveCollisions(p.symbols, p.modules, nil)
	for i := 0; i < 5; i++ {
		p := parseModules(t, contents...)
		r, _ := ResolveCollisions(p.symbols, p.modules, nil)
		test.AssertEqualWithDiff(t, fmt.Sprint(r.Entries()), fmt.Sprint(first.Entries()))
	}
}

func TestNoOpRenamerFollowsLinks(t *testing.T) {
	p := parseModules(t, "let a = 1", "let b = 2")
	a, b := p.find(t, 0, "a"), p.find(t, 1, "b")
	js_ast.MergeSymbols(p.symbols, b, a)
	r := NewNoOpRenamer(p.symbols)
	test.AssertEqual(t, r.NameForSymbol(b), "a")
}
