package resolver

import (
	"testing"

	"github.com/esmlink/esmlink/internal/fs"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/test"
)

func expectResolved(t *testing.T, files map[string]string, sourceDir string, specifier string, expected string) {
	t.Helper()
	log := logger.NewDeferLog()
	r := NewResolver(fs.MockFS(files), log)
	path, ok := r.Resolve(sourceDir, specifier)
	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")
	if expected == "" {
		test.AssertEqual(t, ok, false)
		return
	}
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, path, expected)
}

func TestRelativeSpecifiers(t *testing.T) {
	files := map[string]string{
		"/src/entry.js":     "",
		"/src/util.mjs":     "",
		"/src/lib/index.js": "",
		"/shared.js":        "",
	}

	expectResolved(t, files, "/src", "./entry.js", "/src/entry.js")
	expectResolved(t, files, "/src", "./entry", "/src/entry.js")
	expectResolved(t, files, "/src", "./util", "/src/util.mjs")
	expectResolved(t, files, "/src", "./lib", "/src/lib/index.js")
	expectResolved(t, files, "/src", "../shared", "/shared.js")
	expectResolved(t, files, "/src/lib", "/shared.js", "/shared.js")
	expectResolved(t, files, "/src", "./missing", "")
}

func TestExtensionOrder(t *testing.T) {
	files := map[string]string{
		"/src/a.js":  "",
		"/src/a.mjs": "",
	}
	expectResolved(t, files, "/src", "./a", "/src/a.js")
}

func TestNodeModules(t *testing.T) {
	files := map[string]string{
		"/app/src/entry.js":                       "",
		"/app/node_modules/pkg/index.js":          "",
		"/app/node_modules/esm/package.json":      `{ "main": "./lib/main.js", "module": "./lib/module.js" }`,
		"/app/node_modules/esm/lib/main.js":       "",
		"/app/node_modules/esm/lib/module.js":     "",
		"/app/node_modules/cjs/package.json":      `{ "main": "dist" }`,
		"/app/node_modules/cjs/dist/index.js":     "",
		"/app/node_modules/deep/file.js":          "",
		"/node_modules/outer/index.mjs":           "",
		"/app/node_modules/pkg/node_modules/x.js": "",
		"/app/node_modules/broken/package.json":   `{ "module": "./missing.js" }`,
		"/app/node_modules/broken/index.js":       "",
	}

	expectResolved(t, files, "/app/src", "pkg", "/app/node_modules/pkg/index.js")
	expectResolved(t, files, "/app/src", "esm", "/app/node_modules/esm/lib/module.js")
	expectResolved(t, files, "/app/src", "cjs", "/app/node_modules/cjs/dist/index.js")
	expectResolved(t, files, "/app/src", "deep/file", "/app/node_modules/deep/file.js")
	expectResolved(t, files, "/app/src", "outer", "/node_modules/outer/index.mjs")
	expectResolved(t, files, "/app/src", "broken", "/app/node_modules/broken/index.js")
	expectResolved(t, files, "/app/src", "x", "")
	expectResolved(t, files, "/app/node_modules/pkg", "x", "/app/node_modules/pkg/node_modules/x.js")
}

func TestBrokenPackageJSON(t *testing.T) {
	log := logger.NewDeferLog()
	r := NewResolver(fs.MockFS(map[string]string{
		"/node_modules/pkg/package.json": `{ "main": 123 }`,
		"/node_modules/pkg/index.js":     "",
	}), log)

	path, ok := r.Resolve("/", "pkg")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, path, "/node_modules/pkg/index.js")
	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()),
		"node_modules/pkg/package.json: error: The \"main\" field must be a string\n")
}
