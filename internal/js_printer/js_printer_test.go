package js_printer

import (
	"testing"

	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/js_parser"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/renamer"
	"github.com/esmlink/esmlink/internal/test"
)

func parse(t *testing.T, contents string) (js_ast.AST, js_ast.SymbolMap) {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents))
	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")
	if !ok {
		t.Fatal("Parse error")
	}
	symbols := js_ast.NewSymbolMap(1)
	symbols.Outer[0] = tree.Symbols
	return tree, symbols
}

func expectPrintedCommon(t *testing.T, name string, contents string, expected string, options Options) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		tree, symbols := parse(t, contents)
		js := Print(tree, renamer.NewNoOpRenamer(symbols), options).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, contents, expected, Options{})
}

func expectPrintedMinify(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [minified]", contents, expected, Options{
		MinifyWhitespace: true,
	})
}

// Prints with some top-level symbols renamed
func expectPrintedRenamed(t *testing.T, contents string, renames map[string]string, expected string) {
	t.Helper()
	t.Run(contents+" [renamed]", func(t *testing.T) {
		t.Helper()
		tree, symbols := parse(t, contents)
		r := renamer.NewRenamingMap(symbols)
		for name, newName := range renames {
			r.Rename(tree.ModuleScope.Members[name].Ref, newName)
		}
		js := Print(tree, r, Options{}).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func TestNumber(t *testing.T) {
	// Check "1eN"
	expectPrinted(t, "x = 1e-100", "x = 1e-100;\n")
	expectPrinted(t, "x = 1e-4", "x = 1e-4;\n")
	expectPrinted(t, "x = 1e-3", "x = 1e-3;\n")
	expectPrinted(t, "x = 1e-2", "x = 0.01;\n")
	expectPrinted(t, "x = 1e-1", "x = 0.1;\n")
	expectPrinted(t, "x = 1e0", "x = 1;\n")
	expectPrinted(t, "x = 1e1", "x = 10;\n")
	expectPrinted(t, "x = 1e2", "x = 100;\n")
	expectPrinted(t, "x = 1e3", "x = 1e3;\n")
	expectPrinted(t, "x = 1e4", "x = 1e4;\n")
	expectPrinted(t, "x = 1e100", "x = 1e100;\n")
	expectPrintedMinify(t, "x = 1e-100", "x=1e-100;")
	expectPrintedMinify(t, "x = 1e-5", "x=1e-5;")
	expectPrintedMinify(t, "x = 1e-4", "x=1e-4;")
	expectPrintedMinify(t, "x = 1e-3", "x=.001;")
	expectPrintedMinify(t, "x = 1e-2", "x=.01;")
	expectPrintedMinify(t, "x = 1e-1", "x=.1;")
	expectPrintedMinify(t, "x = 1e0", "x=1;")
	expectPrintedMinify(t, "x = 1e1", "x=10;")
	expectPrintedMinify(t, "x = 1e2", "x=100;")
	expectPrintedMinify(t, "x = 1e3", "x=1e3;")
	expectPrintedMinify(t, "x = 1e4", "x=1e4;")
	expectPrintedMinify(t, "x = 1e100", "x=1e100;")

	// Check "12eN"
	expectPrinted(t, "x = 12e-100", "x = 12e-100;\n")
	expectPrinted(t, "x = 12e-5", "x = 12e-5;\n")
	expectPrinted(t, "x = 12e-4", "x = 12e-4;\n")
	expectPrinted(t, "x = 12e-3", "x = 0.012;\n")
	expectPrinted(t, "x = 12e-2", "x = 0.12;\n")
	expectPrinted(t, "x = 12e-1", "x = 1.2;\n")
	expectPrinted(t, "x = 12e0", "x = 12;\n")
	expectPrinted(t, "x = 12e1", "x = 120;\n")
	expectPrinted(t, "x = 12e2", "x = 1200;\n")
	expectPrinted(t, "x = 12e3", "x = 12e3;\n")
	expectPrinted(t, "x = 12e4", "x = 12e4;\n")
	expectPrinted(t, "x = 12e100", "x = 12e100;\n")
	expectPrintedMinify(t, "x = 12e-4", "x=.0012;")
	expectPrintedMinify(t, "x = 12e-3", "x=.012;")
	expectPrintedMinify(t, "x = 12e-2", "x=.12;")
	expectPrintedMinify(t, "x = 12e-1", "x=1.2;")

	// Check cases for "A.BeX" => "ABeY" simplification
	expectPrinted(t, "x = 123456789", "x = 123456789;\n")
	expectPrinted(t, "x = 1000000123456789", "x = 1000000123456789;\n")
	expectPrinted(t, "x = 10000000123456789", "x = 10000000123456788;\n")
	expectPrinted(t, "x = 10000000000123456789", "x = 10000000000123458e3;\n")

	// Hexadecimal literals and numeric separators
	expectPrinted(t, "x = 0x7fff_ffff", "x = 2147483647;\n")
	expectPrinted(t, "x = 0xffff_ffff", "x = 4294967295;\n")
	expectPrinted(t, "x = 0x1_0000_0000", "x = 4294967296;\n")
	expectPrinted(t, "x = 0b101", "x = 5;\n")
	expectPrinted(t, "x = 0o17", "x = 15;\n")

	// Member access on a number needs a space
	expectPrinted(t, "(1).toString()", "1 .toString();\n")
	expectPrinted(t, "(1.5).toString()", "1.5 .toString();\n")
	expectPrintedMinify(t, "(1).toString()", "1 .toString();")
}

func TestArray(t *testing.T) {
	expectPrinted(t, "[]", "[];\n")
	expectPrinted(t, "[,]", "[,];\n")
	expectPrinted(t, "[,,]", "[, ,];\n")
	expectPrinted(t, "[1, , 2]", "[1, , 2];\n")
}

func TestSpread(t *testing.T) {
	expectPrinted(t, "[...(a, b)]", "[...(a, b)];\n")
	expectPrinted(t, "x(...(a, b))", "x(...(a, b));\n")
	expectPrinted(t, "({...(a, b)})", "({ ...(a, b) });\n")
}

func TestNew(t *testing.T) {
	expectPrinted(t, "new x", "new x();\n")
	expectPrinted(t, "new x()", "new x();\n")
	expectPrinted(t, "new (x)", "new x();\n")
	expectPrinted(t, "new (x())", "new (x())();\n")
	expectPrinted(t, "new (new x())", "new new x()();\n")
	expectPrinted(t, "new (x + x)", "new (x + x)();\n")
	expectPrinted(t, "(new x)()", "new x()();\n")

	expectPrinted(t, "new foo().bar", "new foo().bar;\n")
	expectPrinted(t, "new (foo().bar)", "new (foo()).bar();\n")
	expectPrinted(t, "new (foo()).bar", "new (foo()).bar();\n")
	expectPrinted(t, "new foo()[bar]", "new foo()[bar];\n")
	expectPrinted(t, "new (foo()[bar])", "new (foo())[bar]();\n")
	expectPrinted(t, "new (foo())[bar]", "new (foo())[bar]();\n")

	expectPrintedMinify(t, "new x", "new x();")
	expectPrintedMinify(t, "(new x).y", "new x().y;")
}

func TestCall(t *testing.T) {
	expectPrinted(t, "x()()()", "x()()();\n")
	expectPrinted(t, "x().y()[z]()", "x().y()[z]();\n")
	expectPrinted(t, "(--x)();", "(--x)();\n")
	expectPrinted(t, "(x--)();", "(x--)();\n")
	expectPrinted(t, "(1, eval)(x)", "(1, eval)(x);\n")
	expectPrintedMinify(t, "eval(x, y)", "eval(x,y);")
	expectPrintedMinify(t, "(1, eval)(x)", "(1,eval)(x);")
}

func TestMember(t *testing.T) {
	expectPrinted(t, "x.y[z]", "x.y[z];\n")
	expectPrinted(t, "((x+1).y+1)[z]", "((x + 1).y + 1)[z];\n")
	expectPrinted(t, "x.if.class", "x.if.class;\n")
}

func TestComma(t *testing.T) {
	expectPrinted(t, "1, 2, 3", "1, 2, 3;\n")
	expectPrinted(t, "(1, 2), 3", "1, 2, 3;\n")
	expectPrinted(t, "1, (2, 3)", "1, 2, 3;\n")
	expectPrinted(t, "a ? (b, c) : (d, e)", "a ? (b, c) : (d, e);\n")
	expectPrinted(t, "let x = (a, b)", "let x = (a, b);\n")
	expectPrinted(t, "(x = a), b", "x = a, b;\n")
	expectPrinted(t, "x = (a, b)", "x = (a, b);\n")
	expectPrinted(t, "x((1, 2))", "x((1, 2));\n")
}

func TestUnary(t *testing.T) {
	expectPrinted(t, "+(x--)", "+x--;\n")
	expectPrinted(t, "-(x++)", "-x++;\n")
	expectPrinted(t, "typeof (a + b)", "typeof (a + b);\n")
	expectPrinted(t, "void x", "void x;\n")
	expectPrinted(t, "delete x.y", "delete x.y;\n")
	expectPrinted(t, "!(a && b)", "!(a && b);\n")
}

func TestBinary(t *testing.T) {
	expectPrinted(t, "a + b * c", "a + b * c;\n")
	expectPrinted(t, "(a + b) * c", "(a + b) * c;\n")
	expectPrinted(t, "a - (b - c)", "a - (b - c);\n")
	expectPrinted(t, "(a - b) - c", "a - b - c;\n")
	expectPrinted(t, "a ** b ** c", "a ** b ** c;\n")
	expectPrinted(t, "(a ** b) ** c", "(a ** b) ** c;\n")
	expectPrinted(t, "(-a) ** b", "(-a) ** b;\n")
	expectPrinted(t, "a = b = c", "a = b = c;\n")
	expectPrinted(t, "a in b instanceof c", "a in b instanceof c;\n")
	expectPrintedMinify(t, "a in b", "a in b;")
	expectPrintedMinify(t, "a + b", "a+b;")
}

func TestNullish(t *testing.T) {
	// "??" can't directly contain "||" or "&&"
	expectPrinted(t, "(a && b) ?? c", "(a && b) ?? c;\n")
	expectPrinted(t, "(a || b) ?? c", "(a || b) ?? c;\n")
	expectPrinted(t, "a ?? (b && c)", "a ?? (b && c);\n")
	expectPrinted(t, "a ?? (b || c)", "a ?? (b || c);\n")

	// "||" and "&&" can't directly contain "??"
	expectPrinted(t, "a && (b ?? c)", "a && (b ?? c);\n")
	expectPrinted(t, "a || (b ?? c)", "a || (b ?? c);\n")
	expectPrinted(t, "(a ?? b) && c", "(a ?? b) && c;\n")
	expectPrinted(t, "(a ?? b) || c", "(a ?? b) || c;\n")
}

func TestString(t *testing.T) {
	expectPrinted(t, "let x = ''", "let x = \"\";\n")
	expectPrinted(t, "let x = 'abc'", "let x = \"abc\";\n")
	expectPrinted(t, "let x = '\\n'", "let x = \"\\n\";\n")
	expectPrinted(t, "let x = '\\''", "let x = \"'\";\n")
	expectPrinted(t, "let x = '\\\"'", "let x = \"\\\"\";\n")
	expectPrinted(t, "let x = '\\\\'", "let x = \"\\\\\";\n")
	expectPrinted(t, "let x = '\\t'", "let x = \"\\t\";\n")
	expectPrinted(t, "let x = '\\uABCD'", "let x = \"\uABCD\";\n")
}

func TestTemplate(t *testing.T) {
	expectPrinted(t, "let x = `${y}`", "let x = `${y}`;\n")
	expectPrinted(t, "let x = `a${y}b${z}c`", "let x = `a${y}b${z}c`;\n")
	expectPrinted(t, "let x = `$(y)`", "let x = `$(y)`;\n")
	expectPrinted(t, "let x = `\\${y}`", "let x = `\\${y}`;\n")
	expectPrinted(t, "let x = tag`a${y}`", "let x = tag`a${y}`;\n")

	expectPrinted(t, "new tag`x`", "new tag`x`();\n")
	expectPrinted(t, "new tag()`x`", "new tag()`x`;\n")
	expectPrinted(t, "(new tag)`x`", "new tag()`x`;\n")
}

func TestRegExp(t *testing.T) {
	expectPrinted(t, "x = /a/g.test(y)", "x = /a/g.test(y);\n")
	expectPrinted(t, "x = a / /b/", "x = a / /b/;\n")
	expectPrintedMinify(t, "x = a / /b/", "x=a/ /b/;")
	expectPrintedMinify(t, "x = /a/ in b", "x=/a/ in b;")
}

func TestObject(t *testing.T) {
	expectPrinted(t, "let x = {'(':')'}", "let x = { \"(\": \")\" };\n")
	expectPrinted(t, "({})", "({});\n")
	expectPrinted(t, "({}.x)", "({}).x;\n")
	expectPrinted(t, "({} = {})", "({} = {});\n")
	expectPrinted(t, "(x, {} = {})", "x, {} = {};\n")
	expectPrinted(t, "let x = () => ({})", "let x = () => ({});\n")
	expectPrinted(t, "let x = () => ({}.x)", "let x = () => ({}).x;\n")
	expectPrinted(t, "let x = () => ({} = {})", "let x = () => ({} = {});\n")
	expectPrinted(t, "x = {a, b: c, [d]: e, 1: f}", "x = { a, b: c, [d]: e, 1: f };\n")
	expectPrinted(t, "x = {get a() {}, set a(b) {}}", "x = { get a() {\n}, set a(b) {\n} };\n")
	expectPrinted(t, "x = {async *a() {}}", "x = { async *a() {\n} };\n")
	expectPrintedMinify(t, "x = {a, b: c}", "x={a,b:c};")
}

func TestFor(t *testing.T) {
	// Make sure "in" expressions are forbidden in the right places
	expectPrinted(t, "for ((a in b);;);", "for ((a in b);;)\n  ;\n")
	expectPrinted(t, "for (a ? b : (c in d);;);", "for (a ? b : (c in d);;)\n  ;\n")
	expectPrinted(t, "for (var x = (a in b);;);", "for (var x = (a in b);;)\n  ;\n")
	expectPrinted(t, "for (x = (a in b);;);", "for (x = (a in b);;)\n  ;\n")
	expectPrinted(t, "for (x == (a in b);;);", "for (x == (a in b);;)\n  ;\n")
	expectPrinted(t, "for ([a in b];;);", "for ([a in b];;)\n  ;\n")
	expectPrinted(t, "for (x(a in b);;);", "for (x(a in b);;)\n  ;\n")
	expectPrinted(t, "for (x[a in b];;);", "for (x[a in b];;)\n  ;\n")

	expectPrinted(t, "for (let i = 0; i < n; i++) f(i)", "for (let i = 0; i < n; i++)\n  f(i);\n")
	expectPrinted(t, "for (const a in b) {}", "for (const a in b) {\n}\n")
	expectPrinted(t, "for (const a of b) {}", "for (const a of b) {\n}\n")

	// Make sure for-of loops with commas are wrapped in parentheses
	expectPrinted(t, "for (let a in b, c);", "for (let a in b, c)\n  ;\n")
	expectPrinted(t, "for (let a of (b, c));", "for (let a of (b, c))\n  ;\n")
}

func TestFunction(t *testing.T) {
	expectPrinted(t,
		"function foo(a = (b, c), ...d) {}",
		"function foo(a = (b, c), ...d) {\n}\n")
	expectPrinted(t,
		"function foo({[1 + 2]: a = 3} = {[1 + 2]: 3}) {}",
		"function foo({ [1 + 2]: a = 3 } = { [1 + 2]: 3 }) {\n}\n")
	expectPrinted(t,
		"function foo([a = (1, 2), ...[b, ...c]] = [1, [2, 3]]) {}",
		"function foo([a = (1, 2), ...[b, ...c]] = [1, [2, 3]]) {\n}\n")
	expectPrinted(t,
		"function foo([] = []) {}",
		"function foo([] = []) {\n}\n")
	expectPrinted(t,
		"function foo([,] = [,]) {}",
		"function foo([,] = [,]) {\n}\n")
	expectPrinted(t,
		"function foo({a, b: c}) { return a + c }",
		"function foo({ a, b: c }) {\n  return a + c;\n}\n")
	expectPrinted(t,
		"async function foo() { await x }",
		"async function foo() {\n  await x;\n}\n")
	expectPrinted(t,
		"(async function() {})",
		"(async function() {\n});\n")
	expectPrinted(t,
		"(function foo() {})()",
		"(function foo() {\n})();\n")
	expectPrintedMinify(t,
		"function foo(a, b) { return a }",
		"function foo(a,b){return a}")
}

func TestGenerator(t *testing.T) {
	expectPrinted(t,
		"function* foo() {}",
		"function* foo() {\n}\n")
	expectPrinted(t,
		"(function* () {})",
		"(function*() {\n});\n")
	expectPrinted(t,
		"(function* foo() {})",
		"(function* foo() {\n});\n")
	expectPrinted(t,
		"function* foo() { yield; yield x; yield* y }",
		"function* foo() {\n  yield;\n  yield x;\n  yield* y;\n}\n")

	expectPrinted(t,
		"class Foo { *foo() {} }",
		"class Foo {\n  *foo() {\n  }\n}\n")
	expectPrinted(t,
		"class Foo { static *foo() {} }",
		"class Foo {\n  static *foo() {\n  }\n}\n")
	expectPrinted(t,
		"class Foo { *[foo]() {} }",
		"class Foo {\n  *[foo]() {\n  }\n}\n")
	expectPrinted(t,
		"(class { *foo() {} })",
		"(class {\n  *foo() {\n  }\n});\n")
}

func TestArrow(t *testing.T) {
	expectPrinted(t, "() => {}", "() => {\n};\n")
	expectPrinted(t, "x => (x, 0)", "(x) => (x, 0);\n")
	expectPrinted(t, "x => {y}", "(x) => {\n  y;\n};\n")
	expectPrinted(t, "async x => x", "async (x) => x;\n")
	expectPrinted(t, "async () => { await x }", "async () => {\n  await x;\n};\n")
	expectPrinted(t,
		"(a = (b, c), ...d) => {}",
		"(a = (b, c), ...d) => {\n};\n")
	expectPrinted(t,
		"({[1 + 2]: a = 3} = {[1 + 2]: 3}) => {}",
		"({ [1 + 2]: a = 3 } = { [1 + 2]: 3 }) => {\n};\n")
	expectPrinted(t,
		"a = () => {}",
		"a = () => {\n};\n")
	expectPrinted(t,
		"a || (() => {})",
		"a || (() => {\n});\n")
	expectPrinted(t,
		"({a = b, c = d}) => {}",
		"({ a = b, c = d }) => {\n};\n")

	// These are not arrow functions but initially look like one
	expectPrinted(t, "(a = b, c)", "a = b, c;\n")
	expectPrinted(t, "([...a, ...b])", "[...a, ...b];\n")

	expectPrintedMinify(t, "() => {}", "()=>{};")
	expectPrintedMinify(t, "(a) => {}", "a=>{};")
	expectPrintedMinify(t, "(...a) => {}", "(...a)=>{};")
	expectPrintedMinify(t, "(a = 0) => {}", "(a=0)=>{};")
	expectPrintedMinify(t, "(a, b) => {}", "(a,b)=>{};")
	expectPrintedMinify(t, "async a => a", "async a=>a;")
}

func TestClass(t *testing.T) {
	expectPrinted(t, "class Foo extends (a, b) {}", "class Foo extends (a, b) {\n}\n")
	expectPrinted(t, "class Foo extends a.b {}", "class Foo extends a.b {\n}\n")
	expectPrinted(t, "class Foo { get foo() {} }", "class Foo {\n  get foo() {\n  }\n}\n")
	expectPrinted(t, "class Foo { set foo(x) {} }", "class Foo {\n  set foo(x) {\n  }\n}\n")
	expectPrinted(t, "class Foo { static foo() {} }", "class Foo {\n  static foo() {\n  }\n}\n")
	expectPrinted(t, "class Foo { static get foo() {} }", "class Foo {\n  static get foo() {\n  }\n}\n")
	expectPrinted(t, "class Foo { x = 1; static y }", "class Foo {\n  x = 1;\n  static y;\n}\n")
	expectPrinted(t, "class Foo { 'a b'() {} }", "class Foo {\n  \"a b\"() {\n  }\n}\n")
	expectPrinted(t, "class Foo { constructor() { super() } }", "class Foo {\n  constructor() {\n    super();\n  }\n}\n")
	expectPrinted(t, "x = class {}", "x = class {\n};\n")
	expectPrintedMinify(t, "class Foo { get foo() {} }", "class Foo{get foo(){}}")
	expectPrintedMinify(t, "class Foo { x = 1; y }", "class Foo{x=1;y}")
}

func TestStatements(t *testing.T) {
	expectPrinted(t, "'use strict'; x", "\"use strict\";\nx;\n")
	expectPrinted(t, "#!/usr/bin/env node\nx", "#!/usr/bin/env node\nx;\n")
	expectPrinted(t, "if (a) b; else c", "if (a)\n  b;\nelse\n  c;\n")
	expectPrinted(t, "if (a) { b } else { c }", "if (a) {\n  b;\n} else {\n  c;\n}\n")
	expectPrinted(t, "if (a) b; else if (c) d", "if (a)\n  b;\nelse if (c)\n  d;\n")
	expectPrinted(t, "while (a) b()", "while (a)\n  b();\n")
	expectPrinted(t, "do x(); while (y)", "do\n  x();\nwhile (y);\n")
	expectPrinted(t, "do { x() } while (y)", "do {\n  x();\n} while (y);\n")
	expectPrinted(t, "foo: for (;;) break foo", "foo:\n  for (;;)\n    break foo;\n")
	expectPrinted(t, "for (;;) { continue }", "for (;;) {\n  continue;\n}\n")
	expectPrinted(t,
		"switch (x) { case 1: a; break; default: b }",
		"switch (x) {\n  case 1:\n    a;\n    break;\n  default:\n    b;\n}\n")
	expectPrinted(t,
		"try { a } catch (e) { b } finally { c }",
		"try {\n  a;\n} catch (e) {\n  b;\n} finally {\n  c;\n}\n")
	expectPrinted(t, "try { a } catch { b }", "try {\n  a;\n} catch {\n  b;\n}\n")
	expectPrinted(t, "throw new Error('x')", "throw new Error(\"x\");\n")
	expectPrinted(t, "debugger", "debugger;\n")
	expectPrinted(t, "{ let a = 1 }", "{\n  let a = 1;\n}\n")
	expectPrinted(t, "let [a, , b] = c", "let [a, , b] = c;\n")
	expectPrinted(t, "const {a, ...b} = c", "const { a, ...b } = c;\n")

	expectPrintedMinify(t, "if (a) b(); else c()", "if(a)b();else c();")
	expectPrintedMinify(t, "a(); b()", "a();b();")
	expectPrintedMinify(t, "{ a(); b() }", "{a();b()}")
	expectPrintedMinify(t, "return_: for (;;) break return_", "return_:for(;;)break return_;")
}

func TestImport(t *testing.T) {
	expectPrinted(t, "import 'path'", "import \"path\";\n")
	expectPrinted(t, "import a from 'path'", "import a from \"path\";\n")
	expectPrinted(t, "import * as ns from 'path'", "import * as ns from \"path\";\n")
	expectPrinted(t, "import {a, b as c} from 'path'", "import { a, b as c } from \"path\";\n")
	expectPrinted(t, "import a, {b} from 'path'", "import a, { b } from \"path\";\n")
	expectPrinted(t, "import a, * as ns from 'path'", "import a, * as ns from \"path\";\n")

	expectPrintedMinify(t, "import a from 'path'", "import a from\"path\";")
	expectPrintedMinify(t, "import * as ns from 'path'", "import*as ns from\"path\";")
	expectPrintedMinify(t, "import {a, b as c} from 'path'", "import{a,b as c}from\"path\";")
}

func TestExport(t *testing.T) {
	expectPrinted(t, "export * from 'path'", "export * from \"path\";\n")
	expectPrinted(t, "export * as ns from 'path'", "export * as ns from \"path\";\n")
	expectPrinted(t, "export {a, b as c} from 'path'", "export { a, b as c } from \"path\";\n")
	expectPrinted(t, "export {default} from 'path'", "export { default } from \"path\";\n")
	expectPrinted(t, "let a, b; export {a, b as c}", "let a, b;\nexport { a, b as c };\n")
	expectPrinted(t, "let a; export {a as default}", "let a;\nexport { a as default };\n")
	expectPrinted(t, "export let a = 1", "export let a = 1;\n")
	expectPrinted(t, "export function f() {}", "export function f() {\n}\n")
	expectPrinted(t, "export class C {}", "export class C {\n}\n")

	expectPrintedMinify(t, "export * as ns from 'path'", "export*as ns from\"path\";")
	expectPrintedMinify(t, "export {a, b as c} from 'path'", "export{a,b as c}from\"path\";")
	expectPrintedMinify(t, "let a, b; export {a, b as c}", "let a,b;export{a,b as c};")
}

func TestExportDefault(t *testing.T) {
	expectPrinted(t, "export default function() {}", "export default function() {\n}\n")
	expectPrinted(t, "export default function foo() {}", "export default function foo() {\n}\n")
	expectPrinted(t, "export default async function() {}", "export default async function() {\n}\n")
	expectPrinted(t, "export default async function foo() {}", "export default async function foo() {\n}\n")
	expectPrinted(t, "export default class {}", "export default class {\n}\n")
	expectPrinted(t, "export default class foo {}", "export default class foo {\n}\n")
	expectPrinted(t, "export default 1 + 2", "export default 1 + 2;\n")

	expectPrinted(t, "export default (function() {})", "export default (function() {\n});\n")
	expectPrinted(t, "export default (function foo() {})", "export default (function foo() {\n});\n")
	expectPrinted(t, "export default (class {})", "export default (class {\n});\n")

	expectPrinted(t, "export default (function() {}.toString())", "export default (function() {\n}).toString();\n")
	expectPrinted(t, "export default (class {}.toString())", "export default (class {\n}).toString();\n")

	expectPrintedMinify(t, "export default function() {}", "export default function(){}")
	expectPrintedMinify(t, "export default class foo {}", "export default class foo{}")
}

func TestWhitespace(t *testing.T) {
	expectPrinted(t, "- -x", "- -x;\n")
	expectPrinted(t, "+ -x", "+-x;\n")
	expectPrinted(t, "- +x", "-+x;\n")
	expectPrinted(t, "+ +x", "+ +x;\n")
	expectPrinted(t, "- --x", "- --x;\n")
	expectPrinted(t, "+ --x", "+--x;\n")
	expectPrinted(t, "- ++x", "-++x;\n")
	expectPrinted(t, "+ ++x", "+ ++x;\n")

	expectPrintedMinify(t, "- -x", "- -x;")
	expectPrintedMinify(t, "+ -x", "+-x;")
	expectPrintedMinify(t, "- +x", "-+x;")
	expectPrintedMinify(t, "+ +x", "+ +x;")
	expectPrintedMinify(t, "- --x", "- --x;")
	expectPrintedMinify(t, "+ --x", "+--x;")
	expectPrintedMinify(t, "- ++x", "-++x;")
	expectPrintedMinify(t, "+ ++x", "+ ++x;")

	expectPrintedMinify(t, "x - --y", "x- --y;")
	expectPrintedMinify(t, "x + ++y", "x+ ++y;")
	expectPrintedMinify(t, "x-- > y", "x-- >y;")
	expectPrintedMinify(t, "typeof x", "typeof x;")
	expectPrintedMinify(t, "x instanceof y", "x instanceof y;")
}

func TestRenamedSymbols(t *testing.T) {
	expectPrintedRenamed(t, "let a = 1; x = {a}", map[string]string{"a": "b"}, "let b = 1;\nx = { a: b };\n")
	expectPrintedRenamed(t, "let a = 1; x = {a}", map[string]string{"x": "y"}, "let a = 1;\ny = { a };\n")
	expectPrintedRenamed(t, "let {a} = x", map[string]string{"a": "b"}, "let { a: b } = x;\n")
	expectPrintedRenamed(t, "let a; export {a}", map[string]string{"a": "b"}, "let b;\nexport { b as a };\n")
	expectPrintedRenamed(t, "function f() { return f }", map[string]string{"f": "g"}, "function g() {\n  return g;\n}\n")
}

