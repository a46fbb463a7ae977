package ast

import (
	"testing"

	"github.com/esmlink/esmlink/internal/test"
)

func TestGenerateNonUniqueNameFromPath(t *testing.T) {
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("<stdin>"), "stdin")
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("foo/bar"), "bar")
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("foo/bar.js"), "bar")
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("foo/bar.min.js"), "bar")
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("foo/bar.test.js"), "bar_test")
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("trailing/slashes//"), "slashes")
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("path/with/spaces in name.js"), "spaces_in_name")
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("path\\on\\windows.js"), "windows")
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("node_modules/demo-pkg/index.js"), "demo_pkg")
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("123_invalid_identifier.js"), "invalid_identifier")
	test.AssertEqual(t, GenerateNonUniqueNameFromPath("???.js"), "module")
}

func TestIndex32(t *testing.T) {
	test.AssertEqual(t, Index32{}.IsValid(), false)
	test.AssertEqual(t, MakeIndex32(0).IsValid(), true)
	test.AssertEqual(t, MakeIndex32(7).GetIndex(), uint32(7))
}
