package bundler

import (
	"testing"

	"github.com/esmlink/esmlink/internal/config"
	"github.com/esmlink/esmlink/internal/fs"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/resolver"
	"github.com/esmlink/esmlink/internal/test"
)

type bundled struct {
	files              map[string]string
	entryPath          string
	expected           string
	expectedScanLog    string
	expectedCompileLog string
	options            config.Options
}

func expectBundled(t *testing.T, args bundled) {
	t.Helper()
	t.Run("", func(t *testing.T) {
		t.Helper()
		fs := fs.MockFS(args.files)
		log := logger.NewDeferLog()
		bundle := ScanBundle(log, fs, resolver.NewResolver(fs, log), args.entryPath)
		msgs := log.Done()
		test.AssertEqualWithDiff(t, test.MsgsToString(msgs), args.expectedScanLog)

		// Stop now if there were any errors during the scan
		if log.HasErrors() {
			return
		}

		log = logger.NewDeferLog()
		args.options.OmitRuntimeForTests = true
		results := bundle.Compile(log, args.options)
		test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), args.expectedCompileLog)

		// Stop now if there were any errors during the compile
		if log.HasErrors() {
			return
		}

		test.AssertEqual(t, len(results), 1)
		test.AssertEqual(t, results[0].AbsPath, args.options.AbsOutputFile)
		test.AssertEqualWithDiff(t, string(results[0].Contents), args.expected)
	})
}

var esm = config.Options{OutputFormat: config.FormatESModule}

func TestImportedVariableIsLinked(t *testing.T) {
	expectBundled(t, bundled{
		files: map[string]string{
			"/entry.js": `
				import {a} from './a'
				export var result = a + 1
			`,
			"/a.js": `export var a = 1`,
		},
		entryPath: "/entry.js",
		options:   esm,
		expected: `// a.js
var a = 1;
// entry.js
var result = a + 1;
export { result };
`,
	})
}

func TestImportsShareOneObject(t *testing.T) {
	expectBundled(t, bundled{
		files: map[string]string{
			"/entry.js": `
				import './a'
				import './b'
				import {obj} from './c'
				console.log(obj.count)
			`,
			"/a.js": `
				import {obj} from './c'
				obj.count++
			`,
			"/b.js": `
				import {obj} from './c'
				obj.count += 10
			`,
			"/c.js": `export let obj = {count: 0}`,
		},
		entryPath: "/entry.js",
		options:   esm,
		expected: `// c.js
let obj = { count: 0 };
// a.js
obj.count++;
// b.js
obj.count += 10;
// entry.js
console.log(obj.count);
`,
	})
}

func TestSameTopLevelNameInTwoModules(t *testing.T) {
	expectBundled(t, bundled{
		files: map[string]string{
			"/src/entry.js": `
				import {other} from './lib/other'
				let result = 1
				console.log(result, other())
			`,
			"/src/lib/other.js": `
				let result = 2
				export function other() { return result }
			`,
		},
		entryPath: "/src/entry.js",
		options:   esm,
		expected: `// src/lib/other.js
let e = 2;
function other() {
  return e;
}
// src/entry.js
let c = 1;
console.log(c, other());
`,
	})
}

func TestCircularDefaultBackReference(t *testing.T) {
	expectBundled(t, bundled{
		files: map[string]string{
			"/circular1.js": `
				import dep from './circular1_dep'
				export default 42
				export let result = dep()
			`,
			"/circular1_dep.js": `
				import value from './circular1'
				export default function() { return value + 1 }
			`,
		},
		entryPath: "/circular1.js",
		options:   esm,
		expected: `// circular1_dep.js
function c() {
  return b + 1;
}
// circular1.js
let b = 42;
let result = c();
export { b as default, result };
`,
	})

	expectBundled(t, bundled{
		files: map[string]string{
			"/circular1.js":     `import './circular1_dep'`,
			"/circular1_dep.js": `import './circular1'`,
		},
		entryPath:          "/circular1.js",
		options:            config.Options{ForbidCircularDependencies: true},
		expectedCompileLog: "error: Circular dependency: \"circular1_dep.js\" -> \"circular1.js\" -> \"circular1_dep.js\"\n",
	})
}

func TestConflictingStarExportsThrowThroughNamespace(t *testing.T) {
	expectBundled(t, bundled{
		files: map[string]string{
			"/entry.js": `
				import * as ns from './agg'
				console.log(ns.x)
			`,
			"/agg.js": `
				export * from './a'
				export * from './b'
			`,
			"/a.js": `export let x = 1`,
			"/b.js": `export let x = 2`,
		},
		entryPath: "/entry.js",
		expected: `(function() {
  "use strict";
  // a.js
  // b.js
  // agg.js
  // entry.js
  console.log(__referenceError("x"));
})();
`,
	})
}

func TestPackageModuleField(t *testing.T) {
	expectBundled(t, bundled{
		files: map[string]string{
			"/entry.js": `
				import {version} from 'pkg'
				console.log(version)
			`,
			"/node_modules/pkg/package.json": `{ "main": "./cjs.js", "module": "./esm.js" }`,
			"/node_modules/pkg/cjs.js":       `module.exports = {}`,
			"/node_modules/pkg/esm.js":       `export const version = "1.0"`,
		},
		entryPath: "/entry.js",
		options:   esm,
		expected: `// node_modules/pkg/esm.js
const version = "1.0";
// entry.js
console.log(version);
`,
	})
}

func TestCouldNotResolve(t *testing.T) {
	expectBundled(t, bundled{
		files: map[string]string{
			"/entry.js": `import {x} from './missing'`,
		},
		entryPath:       "/entry.js",
		expectedScanLog: "entry.js: error: Could not resolve \"./missing\"\n",
	})

	expectBundled(t, bundled{
		files:           map[string]string{},
		entryPath:       "/entry.js",
		expectedScanLog: "error: Could not resolve \"/entry.js\"\n",
	})
}

func TestEntryWithoutExtension(t *testing.T) {
	expectBundled(t, bundled{
		files: map[string]string{
			"/src/index.js": `console.log(1)`,
		},
		entryPath: "src",
		options:   esm,
		expected: `// src/index.js
console.log(1);
`,
	})
}

func TestRefuseToOverwriteInputFile(t *testing.T) {
	expectBundled(t, bundled{
		files: map[string]string{
			"/entry.js": `console.log(1)`,
		},
		entryPath:          "/entry.js",
		options:            config.Options{AbsOutputFile: "/entry.js"},
		expectedCompileLog: "error: Refusing to overwrite input file: entry.js\n",
	})
}

func TestOutputFilePath(t *testing.T) {
	expectBundled(t, bundled{
		files: map[string]string{
			"/entry.js": `console.log(1)`,
		},
		entryPath: "/entry.js",
		options:   config.Options{OutputFormat: config.FormatESModule, AbsOutputFile: "/out/bundle.js"},
		expected: `// entry.js
console.log(1);
`,
	})
}

func TestModulesAreNumberedBreadthFirst(t *testing.T) {
	fs := fs.MockFS(map[string]string{
		"/entry.js": "import './b'\nimport './a'",
		"/a.js":     "import './d'",
		"/b.js":     "import './c'\nimport './a'",
		"/c.js":     "",
		"/d.js":     "import './entry'",
	})
	log := logger.NewDeferLog()
	bundle := ScanBundle(log, fs, resolver.NewResolver(fs, log), "/entry.js")
	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")

	var paths []string
	for _, file := range bundle.files {
		paths = append(paths, file.Source.PrettyPath)
	}
	test.AssertEqualWithDiff(t, paths, []string{"<runtime>", "entry.js", "b.js", "a.js", "c.js", "d.js"})

	// Every import record points at the module it resolved to
	d := bundle.files[5].AST.ImportRecords
	test.AssertEqual(t, len(d), 1)
	test.AssertEqual(t, d[0].SourceIndex.GetIndex(), uint32(1))
}
