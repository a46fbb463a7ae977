package ast

// Records shared by the parser, the loader and the linker that don't belong
// to the syntax tree itself.

import (
	"strings"
	"unicode"

	"github.com/esmlink/esmlink/internal/logger"
)

type ImportKind uint8

const (
	// An entry point provided by the user
	ImportEntryPoint ImportKind = iota

	// An ES6 import statement or a bare "import 'path'"
	ImportStmt

	// An "export * from" or "export {...} from" statement
	ImportReExport
)

func (kind ImportKind) String() string {
	switch kind {
	case ImportEntryPoint:
		return "entry-point"
	case ImportStmt:
		return "import-statement"
	case ImportReExport:
		return "re-export"
	default:
		panic("Internal error")
	}
}

type ImportRecord struct {
	Path  logger.Path
	Range logger.Range

	// The resolved module, filled in by the loader. The linker assumes this is
	// valid for every record of every module it is given.
	SourceIndex Index32

	Kind ImportKind
}

// This stores a 32-bit index where the zero value is an invalid index. This
// is a better alternative to storing the index as a pointer since that has
// the same properties but takes up more space and costs an extra pointer
// traversal.
type Index32 struct {
	flippedBits uint32
}

func MakeIndex32(index uint32) Index32 {
	return Index32{flippedBits: ^index}
}

func (i Index32) IsValid() bool {
	return i.flippedBits != 0
}

func (i Index32) GetIndex() uint32 {
	return ^i.flippedBits
}

// Turns a module path into something usable as part of an identifier, e.g.
// "./src/util-fns.js" becomes "util_fns". The result is not unique.
func GenerateNonUniqueNameFromPath(path string) string {
	// Get the file name without the extension
	dir, base := splitLastSlash(strings.TrimRight(path, "/\\"))
	if i := strings.IndexByte(base, '.'); i != -1 {
		if ext := base[i:]; ext == ".js" || ext == ".mjs" || ext == ".min.js" {
			base = base[:i]
		} else if j := strings.LastIndexByte(base, '.'); j != -1 {
			base = base[:j]
		}
	}

	// "index" is not a useful name, use the directory instead
	if base == "index" && dir != "" {
		_, base = splitLastSlash(dir)
	}

	sb := strings.Builder{}
	needsUnderscore := false
	for _, c := range base {
		if unicode.IsLetter(c) || c == '$' || (sb.Len() > 0 && unicode.IsDigit(c)) {
			if needsUnderscore && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			needsUnderscore = false
			sb.WriteRune(c)
		} else {
			needsUnderscore = true
		}
	}
	if sb.Len() == 0 {
		return "module"
	}
	return sb.String()
}

func splitLastSlash(path string) (string, string) {
	if i := strings.LastIndexAny(path, "/\\"); i != -1 {
		return path[:i], path[i+1:]
	}
	return "", path
}
