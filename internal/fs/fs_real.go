package fs

import (
	"os"
	"path/filepath"
	"sync"
)

type realFS struct {
	// Stores the file entries for directories we've listed before
	entriesMutex sync.RWMutex
	entries      map[string]map[string]EntryKind

	cwd string
}

func realpath(path string) string {
	dir := filepath.Dir(path)
	if dir == path {
		return path
	}
	dir = realpath(dir)
	path = filepath.Join(dir, filepath.Base(path))
	if link, err := os.Readlink(path); err == nil {
		if filepath.IsAbs(link) {
			return link
		}
		return filepath.Join(dir, link)
	}
	return path
}

func RealFS() FS {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	} else {
		// Input paths have their symlinks resolved so a module reached through
		// two links is still one module. The working directory gets the same
		// treatment so paths in messages stay relative to it.
		cwd = realpath(cwd)
	}
	return &realFS{
		entries: make(map[string]map[string]EntryKind),
		cwd:     cwd,
	}
}

func (fs *realFS) ReadDirectory(dir string) map[string]EntryKind {
	// First, check the cache
	fs.entriesMutex.RLock()
	cached, ok := fs.entries[dir]
	fs.entriesMutex.RUnlock()
	if ok {
		return cached
	}

	// Cache miss: read the directory entries. Symlinks are followed one level;
	// chains of symlinks are skipped.
	var entries map[string]EntryKind
	if names, err := readdir(dir); err == nil {
		entries = make(map[string]EntryKind, len(names))
		for _, name := range names {
			stat, err := os.Lstat(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			mode := stat.Mode()
			if (mode & os.ModeSymlink) != 0 {
				link, err := os.Readlink(filepath.Join(dir, name))
				if err != nil {
					continue
				}
				if !filepath.IsAbs(link) {
					link = filepath.Join(dir, link)
				}
				if stat, err = os.Lstat(link); err != nil {
					continue
				}
				if mode = stat.Mode(); (mode & os.ModeSymlink) != 0 {
					continue
				}
			}
			if mode.IsDir() {
				entries[name] = DirEntry
			} else {
				entries[name] = FileEntry
			}
		}
	}

	// Failed reads are cached too. An inaccessible directory stays that way
	// for the length of a build.
	fs.entriesMutex.Lock()
	defer fs.entriesMutex.Unlock()
	fs.entries[dir] = entries
	return entries
}

func (fs *realFS) ReadFile(path string) (string, error) {
	buffer, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", ErrNotFound
	}
	return string(buffer), err
}

func (*realFS) Dir(p string) string {
	return filepath.Dir(p)
}

func (*realFS) Base(p string) string {
	return filepath.Base(p)
}

func (*realFS) Join(parts ...string) string {
	return filepath.Clean(filepath.Join(parts...))
}

func (fs *realFS) Cwd() string {
	return fs.cwd
}

func (*realFS) IsAbs(p string) bool {
	return filepath.IsAbs(p)
}

func (*realFS) Rel(base string, target string) (string, bool) {
	if rel, err := filepath.Rel(base, target); err == nil {
		return rel, true
	}
	return "", false
}

func readdir(dirname string) ([]string, error) {
	f, err := os.Open(dirname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

// Resolves symlinks in an entry path given on the command line, relative to
// the working directory.
func Abs(fs FS, path string) string {
	if !fs.IsAbs(path) {
		path = fs.Join(fs.Cwd(), path)
	}
	if _, ok := fs.(*realFS); ok {
		return realpath(path)
	}
	return path
}
