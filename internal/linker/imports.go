package linker

import (
	"fmt"

	"github.com/esmlink/esmlink/internal/config"
	"github.com/esmlink/esmlink/internal/graph"
	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/logger"
)

type importKind uint8

const (
	// References become references to "ref"
	importFound importKind = iota

	// References become references to the namespace object of "sourceIndex"
	importNamespace

	// References become "void 0"
	importUndefined

	// References throw a ReferenceError naming "name"
	importThrow

	// References are left alone
	importPassthrough
)

type importResult struct {
	kind        importKind
	ref         js_ast.Ref
	sourceIndex uint32
	name        string
}

// Binds every import in the bundle to the variable it refers to. Modules are
// visited in evaluation order so diagnostics come out in a stable order.
func (c *linkerContext) bindImports() {
	c.timer.Begin("bind imports")
	defer c.timer.End("bind imports")

	for _, sourceIndex := range c.schedule {
		module := &c.graph.Modules[sourceIndex]
		for i := range module.Imports {
			binding := &module.Imports[i]
			c.imports[binding.Ref] = c.bindImport(module, binding)
		}
	}
}

func (c *linkerContext) bindImport(module *graph.Module, binding *graph.ImportBinding) importResult {
	if binding.IsNamespace {
		return importResult{kind: importNamespace, sourceIndex: binding.SourceIndex}
	}

	exports := c.graph.Meta[binding.SourceIndex].Exports
	if entry, ok := exports[binding.Alias]; ok && !entry.Ambiguous {
		if entry.Target.IsNamespace {
			return importResult{kind: importNamespace, sourceIndex: entry.Target.SourceIndex}
		}
		return importResult{kind: importFound, ref: entry.Target.Ref}
	} else if ok {
		other := c.graph.Modules[binding.SourceIndex].Source.PrettyPath
		return c.unresolvedImport(module, binding, logger.MsgID_Link_AmbiguousImport,
			fmt.Sprintf("Ambiguous import %q has multiple matching exports in %q", binding.Alias, other))
	}

	other := c.graph.Modules[binding.SourceIndex].Source.PrettyPath
	return c.unresolvedImport(module, binding, logger.MsgID_Link_UnresolvedImport,
		fmt.Sprintf("No matching export in %q for import %q", other, binding.Alias))
}

func (c *linkerContext) unresolvedImport(module *graph.Module, binding *graph.ImportBinding, id logger.MsgID, text string) importResult {
	local := c.graph.Symbols.Get(binding.Ref)

	switch c.options.UnresolvedImports {
	case config.UnresolvedImportUndefined:
		c.addConformanceError(id, false, &module.Source, binding.AliasLoc, text)
		return importResult{kind: importUndefined}

	case config.UnresolvedImportThrow:
		c.addConformanceError(id, false, &module.Source, binding.AliasLoc, text)
		return importResult{kind: importThrow, name: local.OriginalName}

	case config.UnresolvedImportPassthrough:
		// Import symbols are never renamed, so the reference keeps its
		// spelling and reaches whatever the name means around the bundle
		c.addConformanceError(id, false, &module.Source, binding.AliasLoc, text)
		return importResult{kind: importPassthrough}

	default:
		c.addError(id, &module.Source, binding.AliasLoc, text)
		return importResult{kind: importUndefined}
	}
}

// Resolves "ns.name" where "ns" is a namespace import of "sourceIndex".
// Returns false if the property access must stay a property access.
func (c *linkerContext) namespaceMember(sourceIndex uint32, name string, loc logger.Loc) (js_ast.Expr, bool) {
	entry, ok := c.graph.Meta[sourceIndex].Exports[name]
	if !ok {
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUndefined{}}, true
	}
	if entry.Ambiguous {
		if c.options.DangerLevel.ChecksTDZ() {
			return c.callRuntime(loc, "__referenceError", js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: name}}), true
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUndefined{}}, true
	}

	// Reading through the namespace object keeps the "before initialization"
	// check for modules that may be read before they've run
	if c.graph.Meta[entry.Target.SourceIndex].IsCyclic && c.options.DangerLevel.ChecksTDZ() {
		return js_ast.Expr{}, false
	}

	if entry.Target.IsNamespace {
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: c.namespaceRef(entry.Target.SourceIndex)}}, true
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: entry.Target.Ref}}, true
}
