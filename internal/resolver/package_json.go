package resolver

import (
	"fmt"

	"github.com/esmlink/esmlink/internal/fs"
	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/js_parser"
	"github.com/esmlink/esmlink/internal/logger"
)

// Fields checked for a package's entry point, in order. "module" points at
// the ES module build of a package and "main" at whatever it was published
// with.
var mainFields = []string{"module", "main"}

type packageJSON struct {
	// The absolute path the first usable main field leads to, if any
	absMain string
}

// Reads "dir/package.json". Returns nil if there isn't one or it's broken;
// problems with an existing file are reported to the log.
func (r *Resolver) parsePackageJSON(dir string) *packageJSON {
	packageJSONPath := r.fs.Join(dir, "package.json")
	contents, err := r.fs.ReadFile(packageJSONPath)
	if err != nil {
		r.log.AddError(nil, logger.Loc{},
			fmt.Sprintf("Cannot read file %q: %s", fs.PrettyPath(r.fs, packageJSONPath), err.Error()))
		return nil
	}

	jsonSource := logger.Source{
		KeyPath:    logger.Path{Text: packageJSONPath, Namespace: "file"},
		PrettyPath: fs.PrettyPath(r.fs, packageJSONPath),
		Contents:   contents,
	}
	json, ok := js_parser.ParseJSON(r.log, jsonSource)
	if !ok {
		return nil
	}

	result := &packageJSON{}
	for _, field := range mainFields {
		mainJSON, ok := getProperty(json, field)
		if !ok {
			continue
		}
		main, ok := getString(mainJSON)
		if !ok {
			r.log.AddRangeError(&jsonSource, jsonSource.RangeOfString(mainJSON.Loc),
				fmt.Sprintf("The %q field must be a string", field))
			continue
		}
		mainPath := r.fs.Join(dir, main)
		if absolute, ok := r.loadAsFile(mainPath); ok {
			result.absMain = absolute
			break
		}
		if absolute, ok := r.loadAsIndex(mainPath); ok {
			result.absMain = absolute
			break
		}
	}
	return result
}

func getProperty(json js_ast.Expr, name string) (js_ast.Expr, bool) {
	if obj, ok := json.Data.(*js_ast.EObject); ok {
		for _, prop := range obj.Properties {
			if key, ok := prop.Key.Data.(*js_ast.EString); ok && key.Value == name && prop.Value != nil {
				return *prop.Value, true
			}
		}
	}
	return js_ast.Expr{}, false
}

func getString(json js_ast.Expr) (string, bool) {
	if value, ok := json.Data.(*js_ast.EString); ok {
		return value.Value, true
	}
	return "", false
}
