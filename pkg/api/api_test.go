package api

import (
	"strings"
	"testing"

	"github.com/esmlink/esmlink/internal/fs"
	"github.com/esmlink/esmlink/internal/test"
)

func TestBuildReturnsOneOutputFile(t *testing.T) {
	result := buildImpl(BuildOptions{
		EntryPoint: "/entry.js",
		Outfile:    "/out/bundle.js",
		Format:     FormatESModule,
	}, fs.MockFS(map[string]string{
		"/entry.js": "import {a} from './a'\nexport let b = a",
		"/a.js":     "export let a = 1",
	}))

	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqual(t, len(result.OutputFiles), 1)
	test.AssertEqual(t, result.OutputFiles[0].Path, "/out/bundle.js")

	js := string(result.OutputFiles[0].Contents)
	test.AssertEqual(t, strings.Contains(js, "// a.js\nlet a = 1;\n"), true)
	test.AssertEqual(t, strings.HasSuffix(js, "export { b };\n"), true)
}

func TestBuildErrorsHaveIDs(t *testing.T) {
	result := buildImpl(BuildOptions{
		EntryPoint: "/entry.js",
	}, fs.MockFS(map[string]string{
		"/entry.js": "import './missing'",
	}))

	test.AssertEqual(t, len(result.OutputFiles), 0)
	test.AssertEqual(t, len(result.Errors), 1)
	msg := result.Errors[0]
	test.AssertEqual(t, msg.ID, "could-not-resolve")
	test.AssertEqual(t, msg.Text, "Could not resolve \"./missing\"")
	test.AssertEqual(t, msg.Location.File, "entry.js")
	test.AssertEqual(t, msg.Location.Line, 1)
	test.AssertEqual(t, msg.Location.LineText, "import './missing'")
}

func TestBuildUnresolvedImportStrategies(t *testing.T) {
	files := map[string]string{
		"/entry.js": "import {missing} from './a'\nconsole.log(missing)",
		"/a.js":     "export let a = 1",
	}

	result := buildImpl(BuildOptions{EntryPoint: "/entry.js"}, fs.MockFS(files))
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, result.Errors[0].ID, "unresolved-import")

	result = buildImpl(BuildOptions{
		EntryPoint:        "/entry.js",
		UnresolvedImports: UnresolvedImportsUndefined,
	}, fs.MockFS(files))
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqual(t, strings.Contains(string(result.OutputFiles[0].Contents), "console.log(void 0);"), true)

	result = buildImpl(BuildOptions{
		EntryPoint:              "/entry.js",
		UnresolvedImports:       UnresolvedImportsThrow,
		ReportConformanceErrors: true,
	}, fs.MockFS(files))
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqual(t, len(result.Warnings), 1)
	test.AssertEqual(t, result.Warnings[0].ID, "unresolved-import")
}

func TestBuildValidatesOptions(t *testing.T) {
	files := fs.MockFS(map[string]string{"/entry.js": ""})

	result := buildImpl(BuildOptions{}, files)
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, result.Errors[0].Text, "Must provide an entry point")

	result = buildImpl(BuildOptions{EntryPoint: "/entry.js", GlobalName: "not valid"}, files)
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, result.Errors[0].Text, "Invalid global name: \"not valid\"")

	result = buildImpl(BuildOptions{EntryPoint: "/entry.js", GlobalName: "lib", Format: FormatCommonJS}, files)
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, result.Errors[0].Text, "Cannot use \"globalName\" with the \"cjs\" format")

	result = buildImpl(BuildOptions{EntryPoint: "/entry.js", Write: true}, files)
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, result.Errors[0].Text, "Cannot use \"write\" without an output file")
}

func TestBuildGlobalName(t *testing.T) {
	result := buildImpl(BuildOptions{
		EntryPoint: "/entry.js",
		GlobalName: "lib",
	}, fs.MockFS(map[string]string{
		"/entry.js": "export let answer = 42",
	}))
	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqual(t, strings.HasPrefix(string(result.OutputFiles[0].Contents), "var lib = "), true)
}

func TestGraph(t *testing.T) {
	result := graphImpl(BuildOptions{
		EntryPoint: "/entry.js",
		Format:     FormatESModule,
	}, fs.MockFS(map[string]string{
		"/entry.js": "import './a'\nexport * from './a'",
		"/a.js":     "import './entry'\nexport let x = 1",
	}))

	test.AssertEqual(t, len(result.Errors), 0)
	test.AssertEqual(t, len(result.Modules), 2)
	test.AssertEqual(t, result.Modules[0].Path, "a.js")
	test.AssertEqual(t, result.Modules[1].Path, "entry.js")
	test.AssertEqual(t, result.Modules[0].Group, result.Modules[1].Group)
	test.AssertEqual(t, result.Modules[0].IsCyclic, true)

	exports := result.Modules[1].Exports
	test.AssertEqual(t, len(exports), 1)
	test.AssertEqual(t, exports[0].Name, "x")
	test.AssertEqual(t, exports[0].Target, "a.js: x")
	test.AssertEqual(t, exports[0].FromStar, true)
	test.AssertEqual(t, strings.HasPrefix(result.JSON, "{\"modules\":["), true)
}

func TestGraphStopsOnScanErrors(t *testing.T) {
	result := graphImpl(BuildOptions{EntryPoint: "/missing.js"}, fs.MockFS(map[string]string{}))
	test.AssertEqual(t, len(result.Errors), 1)
	test.AssertEqual(t, len(result.Modules), 0)
	test.AssertEqual(t, result.JSON, "")
}
