package fs

// This is a mock implementation of the file system for tests. It reads from a
// map of absolute Unix-style file paths to file contents.

import (
	"path"
	"strings"
)

type mockFS struct {
	dirs  map[string]map[string]EntryKind
	files map[string]string
	cwd   string
}

func MockFS(input map[string]string) FS {
	return MockFSWithCwd(input, "/")
}

func MockFSWithCwd(input map[string]string, cwd string) FS {
	dirs := make(map[string]map[string]EntryKind)
	files := make(map[string]string)

	for k, v := range input {
		files[k] = v
		original := k

		// Build the directory map
		for {
			kDir := path.Dir(k)
			dir, ok := dirs[kDir]
			if !ok {
				dir = make(map[string]EntryKind)
				dirs[kDir] = dir
			}
			if kDir == k {
				break
			}
			if k == original {
				dir[path.Base(k)] = FileEntry
			} else {
				dir[path.Base(k)] = DirEntry
			}
			k = kDir
		}
	}

	return &mockFS{dirs: dirs, files: files, cwd: cwd}
}

func (fs *mockFS) ReadDirectory(path string) map[string]EntryKind {
	return fs.dirs[path]
}

func (fs *mockFS) ReadFile(path string) (string, error) {
	if contents, ok := fs.files[path]; ok {
		return contents, nil
	}
	return "", ErrNotFound
}

func (*mockFS) Dir(p string) string {
	return path.Dir(p)
}

func (*mockFS) Base(p string) string {
	return path.Base(p)
}

func (*mockFS) Join(parts ...string) string {
	return path.Clean(path.Join(parts...))
}

func (fs *mockFS) Cwd() string {
	return fs.cwd
}

func (*mockFS) IsAbs(p string) bool {
	return path.IsAbs(p)
}

func splitOnSlash(path string) (string, string) {
	if slash := strings.IndexByte(path, '/'); slash != -1 {
		return path[:slash], path[slash+1:]
	}
	return path, ""
}

func (*mockFS) Rel(base string, target string) (string, bool) {
	base = path.Clean(base)
	target = path.Clean(target)

	// Base cases
	if base == target {
		return ".", true
	}
	if base == "/" {
		return strings.TrimPrefix(target, "/"), true
	}
	base = strings.TrimPrefix(base, "/")
	target = strings.TrimPrefix(target, "/")

	// Find the common parent directory
	for {
		bHead, bTail := splitOnSlash(base)
		tHead, tTail := splitOnSlash(target)
		if bHead != tHead || bHead == "" {
			break
		}
		base = bTail
		target = tTail
	}

	// Stop now if base is a subpath of target
	if base == "" {
		return target, true
	}

	// Traverse up to the common parent
	commonParent := strings.Repeat("../", strings.Count(base, "/")+1)

	// Stop now if target is a subpath of base
	if target == "" {
		return commonParent[:len(commonParent)-1], true
	}

	// Otherwise, down to the parent
	return commonParent + target, true
}
