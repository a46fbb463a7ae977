package fs

import (
	"errors"
)

type EntryKind uint8

const (
	DirEntry  EntryKind = 1
	FileEntry EntryKind = 2
)

// The file system as the resolver and the loader see it. Paths are absolute.
type FS interface {
	// The returned map is cached across calls. Do not mutate it. A missing or
	// unreadable directory has no entries.
	ReadDirectory(path string) map[string]EntryKind
	ReadFile(path string) (string, error)

	// Path manipulation is part of the interface so the mock used in tests
	// behaves the same on every platform while the real file system uses the
	// platform's separators.
	Dir(path string) string
	Base(path string) string
	Join(parts ...string) string
	Cwd() string
	Rel(base string, target string) (string, bool)
	IsAbs(path string) bool
}

var ErrNotFound = errors.New("No such file or directory")

func FileExists(fs FS, path string) bool {
	return entryKind(fs, path) == FileEntry
}

func DirExists(fs FS, path string) bool {
	return entryKind(fs, path) == DirEntry
}

func entryKind(fs FS, path string) EntryKind {
	dir := fs.Dir(path)

	// The root of the file system is assumed to exist
	if dir == path {
		return DirEntry
	}
	return fs.ReadDirectory(dir)[fs.Base(path)]
}

// A path for messages: relative to the working directory when that's shorter
// to read, with forward slashes.
func PrettyPath(fs FS, path string) string {
	if rel, ok := fs.Rel(fs.Cwd(), path); ok && !startsWithDotDot(rel) {
		path = rel
	}
	return toSlash(path)
}

func startsWithDotDot(path string) bool {
	return len(path) >= 2 && path[0] == '.' && path[1] == '.' && (len(path) == 2 || path[2] == '/' || path[2] == '\\')
}

func toSlash(path string) string {
	bytes := []byte(path)
	for i, c := range bytes {
		if c == '\\' {
			bytes[i] = '/'
		}
	}
	return string(bytes)
}
