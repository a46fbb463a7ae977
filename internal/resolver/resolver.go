package resolver

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/esmlink/esmlink/internal/fs"
	"github.com/esmlink/esmlink/internal/logger"
)

// Extensions tried, in order, when a specifier names a file without one
var extensionOrder = []string{".js", ".mjs"}

// Maps import specifiers to absolute paths. This follows the node.js module
// resolution algorithm (https://nodejs.org/api/modules.html#all-together)
// restricted to what an ES module bundle needs: no JSON, no "exports" maps.
type Resolver struct {
	fs  fs.FS
	log logger.Log

	// Stores the "package.json" files we've parsed before, by directory. A nil
	// entry means the directory has no usable "package.json".
	packageJSONMutex sync.Mutex
	packageJSONs     map[string]*packageJSON
}

func NewResolver(fs fs.FS, log logger.Log) *Resolver {
	return &Resolver{
		fs:           fs,
		log:          log,
		packageJSONs: make(map[string]*packageJSON),
	}
}

// Resolves "specifier" as written in a module whose file is in "sourceDir".
func (r *Resolver) Resolve(sourceDir string, specifier string) (string, bool) {
	path, ok := r.resolveWithoutTrace(sourceDir, specifier)
	logger.Trace().Debug("resolve",
		zap.String("dir", sourceDir),
		zap.String("specifier", specifier),
		zap.String("path", path),
		zap.Bool("ok", ok))
	return path, ok
}

func (r *Resolver) resolveWithoutTrace(sourceDir string, specifier string) (string, bool) {
	if r.fs.IsAbs(specifier) {
		return r.loadAsFileOrDirectory(r.fs.Join(specifier))
	}
	if IsRelativePath(specifier) {
		return r.loadAsFileOrDirectory(r.fs.Join(sourceDir, specifier))
	}
	return r.loadNodeModules(specifier, sourceDir)
}

func IsRelativePath(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func (r *Resolver) loadAsFile(path string) (string, bool) {
	if fs.FileExists(r.fs, path) {
		return path, true
	}
	for _, ext := range extensionOrder {
		if extPath := path + ext; fs.FileExists(r.fs, extPath) {
			return extPath, true
		}
	}
	return "", false
}

func (r *Resolver) loadAsIndex(path string) (string, bool) {
	for _, ext := range extensionOrder {
		if indexPath := r.fs.Join(path, "index"+ext); fs.FileExists(r.fs, indexPath) {
			return indexPath, true
		}
	}
	return "", false
}

func (r *Resolver) loadAsFileOrDirectory(path string) (string, bool) {
	if absolute, ok := r.loadAsFile(path); ok {
		return absolute, true
	}
	if !fs.DirExists(r.fs, path) {
		return "", false
	}
	if packageJSON := r.packageJSON(path); packageJSON != nil && packageJSON.absMain != "" {
		return packageJSON.absMain, true
	}
	return r.loadAsIndex(path)
}

func (r *Resolver) packageJSON(dir string) *packageJSON {
	r.packageJSONMutex.Lock()
	defer r.packageJSONMutex.Unlock()

	if cached, ok := r.packageJSONs[dir]; ok {
		return cached
	}
	var result *packageJSON
	if fs.FileExists(r.fs, r.fs.Join(dir, "package.json")) {
		result = r.parsePackageJSON(dir)
	}
	r.packageJSONs[dir] = result
	return result
}

func (r *Resolver) loadNodeModules(specifier string, start string) (string, bool) {
	for {
		// Skip directories that are themselves "node_modules" folders
		if r.fs.Base(start) != "node_modules" {
			if absolute, ok := r.loadAsFileOrDirectory(r.fs.Join(start, "node_modules", specifier)); ok {
				return absolute, true
			}
		}

		// Go to the parent directory, stopping at the file system root
		dir := r.fs.Dir(start)
		if start == dir {
			break
		}
		start = dir
	}
	return "", false
}
