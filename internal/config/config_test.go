package config

import (
	"testing"

	"github.com/esmlink/esmlink/internal/test"
)

func TestParseFileAndApply(t *testing.T) {
	file, err := ParseFile([]byte(`
entry = "src/main.js"
format = "esm"
danger-level = "balanced"
unresolved-imports = "throw"
exports = "none"
forbid-circular = true
tree-shaking = false
`))
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, file.Entry, "src/main.js")

	options := Options{}
	if err := file.Apply(&options); err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, options.OutputFormat, FormatESModule)
	test.AssertEqual(t, options.DangerLevel, DangerBalanced)
	test.AssertEqual(t, options.UnresolvedImports, UnresolvedImportThrow)
	test.AssertEqual(t, options.ExportStrategy, ExportsNone)
	test.AssertEqual(t, options.ForbidCircularDependencies, true)
	test.AssertEqual(t, options.SkipDeadCodeElimination, true)
	test.AssertEqual(t, options.FatalImportAssignment, false)
}

func TestApplyRejectsUnknownValues(t *testing.T) {
	file := &File{DangerLevel: "reckless"}
	if err := file.Apply(&Options{}); err == nil {
		t.Fatal("Expected an error")
	}
}

func TestCheckVersion(t *testing.T) {
	test.AssertEqual(t, (&File{}).CheckVersion("v0.1.0"), nil)
	test.AssertEqual(t, (&File{Version: "v0.1.0"}).CheckVersion("v0.2.0"), nil)
	if err := (&File{Version: "v1.0.0"}).CheckVersion("v0.2.0"); err == nil {
		t.Fatal("Expected an error for a newer required version")
	}
	if err := (&File{Version: "1.0"}).CheckVersion("v0.2.0"); err == nil {
		t.Fatal("Expected an error for an invalid version")
	}
}

func TestDangerLevelCapabilities(t *testing.T) {
	test.AssertEqual(t, DangerSafe.ChecksTDZ(), true)
	test.AssertEqual(t, DangerBalanced.ChecksTDZ(), false)
	test.AssertEqual(t, DangerBalanced.FreezesNamespaces(), true)
	test.AssertEqual(t, DangerBalanced.TagsNamespaces(), false)
	test.AssertEqual(t, DangerDangerous.FreezesNamespaces(), false)

	options := Options{DangerLevel: DangerDangerous}
	test.AssertEqual(t, options.RejectsImportAssignment(), false)
	options.RejectImportAssignment = true
	test.AssertEqual(t, options.RejectsImportAssignment(), true)
}

func TestParseSuggestsTypos(t *testing.T) {
	_, err := ParseDangerLevel("dangerus")
	test.AssertEqual(t, err.Error(), `invalid danger level "dangerus" (did you mean "dangerous"?)`)

	_, err = ParseFormat("amd")
	test.AssertEqual(t, err.Error(), `invalid format "amd" (valid: [iife esm cjs])`)
}
