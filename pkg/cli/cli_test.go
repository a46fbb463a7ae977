package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/esmlink/esmlink/internal/test"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, contents := range files {
		absPath := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(absPath, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runCLI(args ...string) (int, string, string) {
	stdout := bytes.Buffer{}
	stderr := bytes.Buffer{}
	code := run("0.1.0", args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestBuildWritesToStdout(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"entry.js": "import {x} from './lib'\nexport let y = x",
		"lib.js":   "export let x = 1",
	})

	code, stdout, _ := runCLI("build", filepath.Join(dir, "entry.js"), "--format=esm", "--log-level=silent")
	test.AssertEqual(t, code, 0)
	test.AssertEqual(t, strings.Contains(stdout, "let x = 1;\n"), true)
	test.AssertEqual(t, strings.HasSuffix(stdout, "export { y };\n"), true)
}

func TestBuildWritesOutfileAndSummary(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"entry.js": "console.log(1)",
	})
	outfile := filepath.Join(dir, "dist", "out.js")

	code, stdout, stderr := runCLI("build", filepath.Join(dir, "entry.js"), "--outfile="+outfile, "--color=false")
	test.AssertEqual(t, code, 0)
	test.AssertEqual(t, stdout, "")
	test.AssertEqual(t, strings.Contains(stderr, "out.js"), true)

	contents, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, strings.Contains(string(contents), "console.log(1);"), true)
	test.AssertEqual(t, strings.Contains(stderr, formatSize(len(contents))), true)
}

func TestBuildErrorsExitWithOne(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"entry.js": "import './missing'",
	})

	code, stdout, _ := runCLI("build", filepath.Join(dir, "entry.js"), "--log-level=silent")
	test.AssertEqual(t, code, 1)
	test.AssertEqual(t, stdout, "")

	code, _, _ = runCLI("build", filepath.Join(dir, "entry.js"), "--danger-level=dangerus", "--log-level=silent")
	test.AssertEqual(t, code, 1)
}

func TestConfigFileProvidesDefaults(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"src/main.js": "export let answer = 42",
	})
	configPath := filepath.Join(dir, "esmlink.toml")
	configText := "entry = " + quoteTOML(filepath.Join(dir, "src", "main.js")) + "\nformat = \"esm\"\n"
	if err := os.WriteFile(configPath, []byte(configText), 0644); err != nil {
		t.Fatal(err)
	}

	code, stdout, _ := runCLI("build", "--config="+configPath, "--log-level=silent")
	test.AssertEqual(t, code, 0)
	test.AssertEqual(t, strings.HasSuffix(stdout, "export { answer };\n"), true)

	// Flags win over the file
	code, stdout, _ = runCLI("build", "--config="+configPath, "--format=cjs", "--log-level=silent")
	test.AssertEqual(t, code, 0)
	test.AssertEqual(t, strings.Contains(stdout, "module.exports = "), true)
}

func TestConfigFileVersionCheck(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"entry.js":     "",
		"esmlink.toml": "esmlink-version = \"v99.0.0\"\n",
	})

	code, _, _ := runCLI("build", filepath.Join(dir, "entry.js"), "--config="+filepath.Join(dir, "esmlink.toml"), "--log-level=silent")
	test.AssertEqual(t, code, 1)
}

func TestGraphJSON(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"entry.js": "export * from './lib'",
		"lib.js":   "export let x = 1",
	})

	code, stdout, _ := runCLI("graph", filepath.Join(dir, "entry.js"), "--json", "--log-level=silent")
	test.AssertEqual(t, code, 0)
	test.AssertEqual(t, strings.HasPrefix(stdout, "{\"modules\":["), true)
	test.AssertEqual(t, strings.Contains(stdout, "\"fromStar\":true"), true)
}

func TestGraphTables(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"entry.js": "import './lib'",
		"lib.js":   "import './entry'\nexport let x = 1",
	})

	code, stdout, _ := runCLI("graph", filepath.Join(dir, "entry.js"), "--color=false", "--log-level=silent")
	test.AssertEqual(t, code, 0)
	test.AssertEqual(t, strings.Contains(stdout, "Evaluation order"), true)
	test.AssertEqual(t, strings.Contains(stdout, "lib.js"), true)
	test.AssertEqual(t, strings.Contains(stdout, "yes"), true)
}

func TestFormatSize(t *testing.T) {
	test.AssertEqual(t, formatSize(0), "0b")
	test.AssertEqual(t, formatSize(1023), "1023b")
	test.AssertEqual(t, formatSize(1536), "1.5kb")
	test.AssertEqual(t, formatSize(3*1024*1024), "3.0mb")
}

func TestParseColorAndLogLevel(t *testing.T) {
	if _, err := parseColor("maybe"); err == nil {
		t.Fatal("Expected an error")
	}
	if _, err := parseLogLevel("verbose"); err == nil {
		t.Fatal("Expected an error")
	}
}

func quoteTOML(text string) string {
	return "'" + text + "'"
}
