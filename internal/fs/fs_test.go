package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/esmlink/esmlink/internal/test"
)

func TestMockFSBasic(t *testing.T) {
	fs := MockFS(map[string]string{
		"/README.md":    "// README.md",
		"/package.json": "// package.json",
		"/src/index.js": "// src/index.js",
		"/src/util.js":  "// src/util.js",
	})

	_, err := fs.ReadFile("/missing.txt")
	test.AssertEqual(t, err, ErrNotFound)

	readme, err := fs.ReadFile("/README.md")
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, readme, "// README.md")

	index, err := fs.ReadFile("/src/index.js")
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, index, "// src/index.js")

	test.AssertEqual(t, len(fs.ReadDirectory("/missing")), 0)

	src := fs.ReadDirectory("/src")
	test.AssertEqual(t, len(src), 2)
	test.AssertEqual(t, src["index.js"], FileEntry)
	test.AssertEqual(t, src["util.js"], FileEntry)

	slash := fs.ReadDirectory("/")
	test.AssertEqual(t, len(slash), 3)
	test.AssertEqual(t, slash["src"], DirEntry)
	test.AssertEqual(t, slash["README.md"], FileEntry)

	test.AssertEqual(t, FileExists(fs, "/src/util.js"), true)
	test.AssertEqual(t, FileExists(fs, "/src"), false)
	test.AssertEqual(t, DirExists(fs, "/src"), true)
	test.AssertEqual(t, DirExists(fs, "/"), true)
}

func TestMockFSRel(t *testing.T) {
	fs := MockFS(map[string]string{})

	expect := func(a string, b string, c string) {
		t.Helper()
		rel, ok := fs.Rel(a, b)
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, rel, c)
	}

	expect("/", "/", ".")
	expect("/a/b", "/a/b", ".")
	expect("/", "/a/b.js", "a/b.js")
	expect("/a", "/a/b.js", "b.js")
	expect("/a/b", "/a/c.js", "../c.js")
	expect("/a/b/c", "/a/d/e.js", "../../d/e.js")
	expect("/a/b", "/a", "..")
	expect("/a/b/c", "/a", "../..")
}

func TestPrettyPath(t *testing.T) {
	fs := MockFSWithCwd(map[string]string{}, "/project")

	test.AssertEqual(t, PrettyPath(fs, "/project/src/entry.js"), "src/entry.js")
	test.AssertEqual(t, PrettyPath(fs, "/elsewhere/lib.js"), "/elsewhere/lib.js")
}

func TestRealFSReadsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "entry.js"), []byte("export let x = 1"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "lib"), 0755); err != nil {
		t.Fatal(err)
	}

	fs := RealFS()
	entries := fs.ReadDirectory(dir)
	test.AssertEqual(t, entries["entry.js"], FileEntry)
	test.AssertEqual(t, entries["lib"], DirEntry)

	contents, err := fs.ReadFile(filepath.Join(dir, "entry.js"))
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, contents, "export let x = 1")

	_, err = fs.ReadFile(filepath.Join(dir, "missing.js"))
	test.AssertEqual(t, err, ErrNotFound)
}
