package js_parser

import (
	"testing"

	"github.com/esmlink/esmlink/internal/ast"
	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/js_printer"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/renamer"
	"github.com/esmlink/esmlink/internal/test"
)

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		Parse(log, test.SourceForTest(contents))
		test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		tree, ok := Parse(log, test.SourceForTest(contents))
		test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")
		if !ok {
			t.Fatal("Parse error")
		}
		symbols := js_ast.NewSymbolMap(1)
		symbols.Outer[0] = tree.Symbols
		js := js_printer.Print(tree, renamer.NewNoOpRenamer(symbols), js_printer.Options{}).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func parseForTest(t *testing.T, contents string) js_ast.AST {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := Parse(log, test.SourceForTest(contents))
	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")
	if !ok {
		t.Fatal("Parse error")
	}
	return tree
}

func symbolKind(tree js_ast.AST, scope *js_ast.Scope, name string) (js_ast.SymbolKind, bool) {
	member, ok := scope.Members[name]
	if !ok {
		return 0, false
	}
	return tree.Symbols[member.Ref.InnerIndex].Kind, true
}

func TestRedeclaration(t *testing.T) {
	expectParseError(t, "var a; var a", "")
	expectParseError(t, "function f() {} var f", "")
	expectParseError(t, "var f; function f() {}", "")
	expectParseError(t, "function f(a) { var a }", "")
	expectParseError(t, "try {} catch (e) { var e }", "")
	expectParseError(t, "let a; { let a }", "")
	expectParseError(t, "let a; function f() { let a }", "")

	expectParseError(t, "let a; let a", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "var a; let a", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "let a; var a", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "const a = 1; class a {}", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "{ let a; var a }", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "function f(a) { let a }", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "function f(a, a) {}", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "(a, a) => {}", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "try {} catch (e) { let e }", "<stdin>: error: The symbol \"e\" has already been declared\n")
	expectParseError(t, "import a from 'x'; let a", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "import {a} from 'x'; import {a} from 'y'", "<stdin>: error: The symbol \"a\" has already been declared\n")
}

func TestStrictMode(t *testing.T) {
	expectParseError(t, "let eval", "<stdin>: error: Invalid binding name \"eval\" in strict mode code\n")
	expectParseError(t, "function arguments() {}", "<stdin>: error: Invalid binding name \"arguments\" in strict mode code\n")
	expectParseError(t, "let implements", "<stdin>: error: \"implements\" is a reserved word and cannot be used in strict mode\n")
	expectParseError(t, "function f(package) {}", "<stdin>: error: \"package\" is a reserved word and cannot be used in strict mode\n")
	expectParseError(t, "with (x) {}", "<stdin>: error: With statements cannot be used in strict mode\n")
}

func TestStatementErrors(t *testing.T) {
	expectParseError(t, "const a", "<stdin>: error: The constant \"a\" must be initialized\n")
	expectParseError(t, "const [a]", "<stdin>: error: This constant must be initialized\n")
	expectParseError(t, "for (const a in b) ;", "")
	expectParseError(t, "return", "<stdin>: error: A return statement cannot be used here\n")
	expectParseError(t, "throw\nx", "<stdin>: error: Unexpected newline after \"throw\"\n")
	expectParseError(t, "switch (x) { default: default: }", "<stdin>: error: Multiple default clauses are not allowed\n")
	expectParseError(t, "function f() { await x }", "<stdin>: error: Cannot use \"await\" outside an async function\n")
	expectParseError(t, "yield", "<stdin>: error: Cannot use \"yield\" outside a generator function\n")
	expectParseError(t, "new.target", "<stdin>: error: \"new.target\" is not supported\n")
	expectParseError(t, "x = import('x')", "<stdin>: error: Dynamic \"import\" is not supported\n")
	expectParseError(t, "class A { get x(a) {} }", "<stdin>: error: Getter functions must have no arguments\n")
	expectParseError(t, "class A { set x() {} }", "<stdin>: error: Setter functions must have one argument\n")
}

func TestArrowErrors(t *testing.T) {
	expectParseError(t, "(...a, b) => {}", "<stdin>: error: Unexpected \"...\"\n")
	expectParseError(t, "(a, ...b)", "<stdin>: error: Unexpected \"...\"\n")
	expectParseError(t, "(a, b,)", "<stdin>: error: Unexpected \",\"\n")
	expectParseError(t, "(a.b) => {}", "<stdin>: error: Invalid binding pattern\n")
	expectParseError(t, "({a() {}}) => {}", "<stdin>: error: Invalid binding pattern\n")
	expectParseError(t, "1 = 2", "<stdin>: error: Invalid assignment target\n")
	expectParseError(t, "a\n=> a", "<stdin>: error: Unexpected newline before \"=>\"\n")
}

func TestImportExportErrors(t *testing.T) {
	expectParseError(t, "function f() { import 'x' }", "<stdin>: error: Unexpected \"import\"\n")
	expectParseError(t, "{ export let a }", "<stdin>: error: Unexpected \"export\"\n")
	expectParseError(t, "export {x}", "<stdin>: error: \"x\" is not declared in this file\n")
	expectParseError(t, "x(); export {x}", "<stdin>: error: \"x\" is not declared in this file\n")
	expectParseError(t, "export {'a b'}", "<stdin>: error: Expected identifier but found \"'a b'\"\n")
	expectParseError(t, "export {'a b'} from 'x'", "")
	expectParseError(t, "import {'a b'} from 'x'", "<stdin>: error: Expected \"as\" after \"a b\"\n")
	expectParseError(t, "import {'a b' as c} from 'x'", "")
	expectParseError(t, "export default 1; export default 2",
		"<stdin>: error: Multiple exports with the same name \"default\"\n")
}

func TestParsedStatements(t *testing.T) {
	expectPrinted(t, "'use strict'; 'other'; x", "\"use strict\";\n\"other\";\nx;\n")
	expectPrinted(t, "x; 'not a directive'", "x;\n\"not a directive\";\n")
	expectPrinted(t, "function f() { 'use strict'; return 1 }", "function f() {\n  \"use strict\";\n  return 1;\n}\n")
	expectPrinted(t, ";;;x;;", "x;\n")
	expectPrinted(t, "let a = 1\nlet b = 2", "let a = 1;\nlet b = 2;\n")
	expectPrinted(t, "x\n++y", "x;\n++y;\n")
	expectPrinted(t, "a: b: c", "a:\n  b:\n    c;\n")
	expectPrinted(t, "for (;;) {}", "for (;;) {\n}\n")
	expectPrinted(t, "for (a of b) ;", "for (a of b)\n  ;\n")
	expectPrinted(t, "for await (a of b) ;", "for await (a of b)\n  ;\n")
	expectPrinted(t, "await x", "await x;\n")
}

func TestParsedExpressions(t *testing.T) {
	expectPrinted(t, "x = 1_000_000", "x = 1e6;\n")
	expectPrinted(t, "x = 0x10", "x = 16;\n")
	expectPrinted(t, "x = 10n", "x = 10n;\n")
	expectPrinted(t, "x = a ? b : c", "x = a ? b : c;\n")
	expectPrinted(t, "x = async () => {}", "x = async () => {\n};\n")
	expectPrinted(t, "x = async function() {}", "x = async function() {\n};\n")
	expectPrinted(t, "x = async", "x = async;\n")
	expectPrinted(t, "x = async(1)", "x = async(1);\n")
	expectPrinted(t, "x = {get, set, async, static: 1}", "x = { get, set, async, static: 1 };\n")
	expectPrinted(t, "x = {get a() {}, async b() {}}", "x = { get a() {\n}, async b() {\n} };\n")
	expectPrinted(t, "x = class { static async *a() {} }", "x = class {\n  static async *a() {\n  }\n};\n")
	expectPrinted(t, "x = function f() { return f }", "x = function f() {\n  return f;\n};\n")
	expectPrinted(t, "[a, b] = [b, a]", "[a, b] = [b, a];\n")
	expectPrinted(t, "({a, b} = c)", "({ a, b } = c);\n")
}

func TestHashbang(t *testing.T) {
	tree := parseForTest(t, "#!/usr/bin/env node\nlet x")
	test.AssertEqual(t, tree.HashbangDirective, "#!/usr/bin/env node")
}

func TestTopLevelScope(t *testing.T) {
	tree := parseForTest(t, "var a; let b; const c = 1; class D {} function e() {} import f from 'x'; g = h")
	scope := tree.ModuleScope
	test.AssertEqual(t, scope.Kind, js_ast.ScopeModule)

	expected := map[string]js_ast.SymbolKind{
		"a": js_ast.SymbolHoisted,
		"b": js_ast.SymbolLet,
		"c": js_ast.SymbolConst,
		"D": js_ast.SymbolClass,
		"e": js_ast.SymbolHoistedFunction,
		"f": js_ast.SymbolImport,
		"g": js_ast.SymbolUnbound,
		"h": js_ast.SymbolUnbound,
	}
	for name, kind := range expected {
		observed, ok := symbolKind(tree, scope, name)
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, observed, kind)
	}
	test.AssertEqual(t, len(scope.Members), len(expected))
}

func TestHoisting(t *testing.T) {
	tree := parseForTest(t, "{ var a; let b; function c() {} }")
	scope := tree.ModuleScope

	kind, ok := symbolKind(tree, scope, "a")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, kind, js_ast.SymbolHoisted)
	_, ok = symbolKind(tree, scope, "b")
	test.AssertEqual(t, ok, false)
	_, ok = symbolKind(tree, scope, "c")
	test.AssertEqual(t, ok, false)

	// The block sees all three, and "a" is the same symbol as outside
	block := scope.Children[0]
	test.AssertEqual(t, block.Members["a"].Ref, scope.Members["a"].Ref)
	kind, _ = symbolKind(tree, block, "b")
	test.AssertEqual(t, kind, js_ast.SymbolLet)
	kind, _ = symbolKind(tree, block, "c")
	test.AssertEqual(t, kind, js_ast.SymbolBlockFunction)
}

func TestFunctionScopes(t *testing.T) {
	tree := parseForTest(t, "function f(a) { return arguments }")
	args := tree.ModuleScope.Children[0]
	body := args.Children[0]
	test.AssertEqual(t, args.Kind, js_ast.ScopeFunctionArgs)
	test.AssertEqual(t, body.Kind, js_ast.ScopeFunctionBody)

	// Arguments are copied into the body scope
	test.AssertEqual(t, body.Members["a"].Ref, args.Members["a"].Ref)

	kind, ok := symbolKind(tree, args, "arguments")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, kind, js_ast.SymbolArguments)
	test.AssertEqual(t, tree.Symbols[args.Members["arguments"].Ref.InnerIndex].MustNotBeRenamed, true)

	// "arguments" inside the function isn't a global
	_, ok = tree.ModuleScope.Members["arguments"]
	test.AssertEqual(t, ok, false)
}

func TestFunctionExpressionName(t *testing.T) {
	tree := parseForTest(t, "x = function f() { var f }")
	_, ok := tree.ModuleScope.Members["f"]
	test.AssertEqual(t, ok, false)

	args := tree.ModuleScope.Children[0]
	kind, _ := symbolKind(tree, args, "f")
	test.AssertEqual(t, kind, js_ast.SymbolExpressionName)

	// Redeclaring the name of a function expression in its body is allowed
	body := args.Children[0]
	kind, _ = symbolKind(tree, body, "f")
	test.AssertEqual(t, kind, js_ast.SymbolHoisted)
}

func TestUnboundNamesShareOneSymbol(t *testing.T) {
	tree := parseForTest(t, "x; function f() { x; { x } }")
	ref := tree.ModuleScope.Members["x"].Ref
	test.AssertEqual(t, tree.Symbols[ref.InnerIndex].Kind, js_ast.SymbolUnbound)
	test.AssertEqual(t, tree.Symbols[ref.InnerIndex].UseCountEstimate, uint32(3))

	count := 0
	for _, symbol := range tree.Symbols {
		if symbol.OriginalName == "x" {
			count++
		}
	}
	test.AssertEqual(t, count, 1)
}

func TestExportDefaultSymbols(t *testing.T) {
	tree := parseForTest(t, "export default function() {}")
	test.AssertEqual(t, tree.Symbols[tree.DefaultRef.InnerIndex].OriginalName, "stdin_default")
	test.AssertEqual(t, tree.Symbols[tree.DefaultRef.InnerIndex].Kind, js_ast.SymbolHoistedFunction)

	// The default symbol isn't in any scope
	for _, member := range tree.ModuleScope.Members {
		test.AssertEqual(t, member.Ref == tree.DefaultRef, false)
	}

	tree = parseForTest(t, "export default class Foo {}")
	test.AssertEqual(t, tree.Symbols[tree.DefaultRef.InnerIndex].Kind, js_ast.SymbolClass)
	kind, ok := symbolKind(tree, tree.ModuleScope, "Foo")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, kind, js_ast.SymbolClass)

	tree = parseForTest(t, "export default 1 + 2")
	test.AssertEqual(t, tree.Symbols[tree.DefaultRef.InnerIndex].Kind, js_ast.SymbolConst)

	tree = parseForTest(t, "let x")
	test.AssertEqual(t, tree.DefaultRef, js_ast.InvalidRef)
}

func TestExportClauseBinding(t *testing.T) {
	tree := parseForTest(t, "let a; function b() {} export {a as x, b}")
	clause := tree.Stmts[2].Data.(*js_ast.SExportClause)
	test.AssertEqual(t, clause.Items[0].Name.Ref, tree.ModuleScope.Members["a"].Ref)
	test.AssertEqual(t, clause.Items[0].Alias, "x")
	test.AssertEqual(t, clause.Items[1].Name.Ref, tree.ModuleScope.Members["b"].Ref)
	test.AssertEqual(t, clause.Items[1].Alias, "b")

	// Exporting an import is allowed
	tree = parseForTest(t, "import {a} from 'x'; export {a}")
	clause = tree.Stmts[1].Data.(*js_ast.SExportClause)
	test.AssertEqual(t, clause.Items[0].Name.Ref, tree.ModuleScope.Members["a"].Ref)
}

func TestImportRecords(t *testing.T) {
	tree := parseForTest(t, "import a from './a'; export * from './b'; export {c} from './c'; import './d'")
	paths := []string{}
	kinds := []ast.ImportKind{}
	for _, record := range tree.ImportRecords {
		paths = append(paths, record.Path.Text)
		kinds = append(kinds, record.Kind)
	}
	test.AssertEqualWithDiff(t, paths, []string{"./a", "./b", "./c", "./d"})
	test.AssertEqualWithDiff(t, kinds, []ast.ImportKind{ast.ImportStmt, ast.ImportReExport, ast.ImportReExport, ast.ImportStmt})

	exportStar := tree.Stmts[1].Data.(*js_ast.SExportStar)
	test.AssertEqual(t, exportStar.ImportRecordIndex, uint32(1))
	test.AssertEqual(t, exportStar.Alias == nil, true)

	tree = parseForTest(t, "export * as ns from './a'")
	exportStar = tree.Stmts[0].Data.(*js_ast.SExportStar)
	test.AssertEqual(t, exportStar.Alias.OriginalName, "ns")
	_, ok := tree.ModuleScope.Members["ns"]
	test.AssertEqual(t, ok, false)
}

func TestTopLevelThis(t *testing.T) {
	cases := map[string]bool{
		"this":                        true,
		"x = () => this":              true,
		"class A extends this {}":     true,
		"class A { [this]() {} }":     true,
		"function f() { this }":       false,
		"x = function() { this }":     false,
		"class A { x = this }":        false,
		"class A { f() { this } }":    false,
		"x = { f() { return this } }": false,
		"function f() { () => this }": false,
	}
	for contents, expected := range cases {
		tree := parseForTest(t, contents)
		if tree.HasTopLevelThis != expected {
			t.Fatalf("%q: expected HasTopLevelThis to be %v", contents, expected)
		}
	}
}
