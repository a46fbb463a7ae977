package linker

import (
	"github.com/esmlink/esmlink/internal/config"
	"github.com/esmlink/esmlink/internal/graph"
	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/runtime"
)

// Builds the linked program. Every module body is rewritten first because
// that's what discovers which namespace objects are needed.
func (c *linkerContext) generateOutput() js_ast.AST {
	c.timer.Begin("generate output")
	defer c.timer.End("generate output")

	entry := c.graph.EntryPoint
	bodies := make([][]js_ast.Stmt, len(c.graph.Modules))
	bodies[runtime.SourceIndex] = c.rewriteModule(runtime.SourceIndex)
	for _, sourceIndex := range c.schedule {
		bodies[sourceIndex] = c.rewriteModule(sourceIndex)
	}

	var exportClause []js_ast.ClauseItem
	if c.options.OutputFormat == config.FormatESModule && c.options.ExportStrategy != config.ExportsNone {
		exportClause = c.entryExportClause()
	}
	exportsRef := js_ast.InvalidRef
	if c.options.ExportsObject() {
		exportsRef = c.namespaceRef(entry)
	}

	// Building the getters of one namespace may ask for another namespace
	getters := make(map[uint32]js_ast.Expr)
	for i := 0; i < len(c.namespaces); i++ {
		sourceIndex := c.namespaces[i]
		getters[sourceIndex] = c.namespaceGetters(sourceIndex)
	}

	var stmts []js_ast.Stmt
	stmts = append(stmts, c.moduleComment(runtime.SourceIndex))
	stmts = append(stmts, bodies[runtime.SourceIndex]...)

	for _, sourceIndex := range c.schedule {
		meta := &c.graph.Meta[sourceIndex]
		if meta.ReadyRef != js_ast.InvalidRef {
			stmts = append(stmts, varStmt(meta.ReadyRef, js_ast.Expr{Data: &js_ast.EBoolean{Value: false}}))
		}
		if meta.NeedsNamespace {
			value := c.newNamespace()
			if !meta.IsCyclic {
				value = c.sealNamespace(c.callRuntime(logger.Loc{}, "__defineExports", value, getters[sourceIndex]))
			}
			stmts = append(stmts, varStmt(meta.NamespaceRef, value))
		}
	}

	// Namespaces of modules in a cycle may be read as soon as any member of
	// the cycle starts running, so they're populated before the group and
	// sealed once all of it has run
	for _, group := range c.groups {
		for _, sourceIndex := range group {
			if meta := &c.graph.Meta[sourceIndex]; meta.IsCyclic && meta.NeedsNamespace {
				stmts = append(stmts, exprStmt(c.callRuntime(logger.Loc{}, "__defineExports", identifier(meta.NamespaceRef), getters[sourceIndex])))
			}
		}
		for _, sourceIndex := range group {
			stmts = append(stmts, c.moduleComment(sourceIndex))
			stmts = append(stmts, bodies[sourceIndex]...)
			if ref := c.graph.Meta[sourceIndex].ReadyRef; ref != js_ast.InvalidRef {
				stmts = append(stmts, exprStmt(js_ast.Assign(identifier(ref), js_ast.Expr{Data: &js_ast.EBoolean{Value: true}})))
			}
		}
		for _, sourceIndex := range group {
			if meta := &c.graph.Meta[sourceIndex]; meta.IsCyclic && meta.NeedsNamespace {
				if sealed := c.sealNamespace(identifier(meta.NamespaceRef)); !isIdentifier(sealed) {
					stmts = append(stmts, exprStmt(sealed))
				}
			}
		}
	}

	tree := js_ast.AST{
		Stmts:             c.wrapOutput(stmts, exportsRef, exportClause),
		ModuleScope:       &js_ast.Scope{Kind: js_ast.ScopeModule, Members: make(map[string]js_ast.ScopeMember)},
		DefaultRef:        js_ast.InvalidRef,
		HashbangDirective: c.graph.Modules[entry].AST.HashbangDirective,
	}

	if !c.options.SkipDeadCodeElimination {
		c.eliminateDeadCode(&tree)
	}
	if c.options.OmitRuntimeForTests {
		c.omitRuntime(&tree, bodies[runtime.SourceIndex])
	}
	return tree
}

func (c *linkerContext) moduleComment(sourceIndex uint32) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SComment{Text: "// " + c.graph.Modules[sourceIndex].Source.PrettyPath}}
}

// One getter per export, sorted by name. Ambiguous names are left out.
func (c *linkerContext) namespaceGetters(sourceIndex uint32) js_ast.Expr {
	exports := c.graph.Meta[sourceIndex].Exports
	var properties []js_ast.Property
	for _, alias := range exports.SortedAliases() {
		entry := exports[alias]
		if entry.Ambiguous {
			continue
		}
		value := c.exportValue(alias, entry.Target)
		getter := js_ast.Expr{Data: &js_ast.EArrow{
			PreferExpr: true,
			Body:       js_ast.FnBody{Stmts: []js_ast.Stmt{{Data: &js_ast.SReturn{Value: &value}}}},
		}}
		properties = append(properties, js_ast.Property{
			Key:   js_ast.Expr{Data: &js_ast.EString{Value: alias}},
			Value: &getter,
		})
	}
	return js_ast.Expr{Data: &js_ast.EObject{Properties: properties}}
}

// Lexical bindings of a module in a cycle can be read through the namespace
// before the module has run. At the safe level that throws like the
// uninitialized binding would.
func (c *linkerContext) exportValue(alias string, target graph.ExportTarget) js_ast.Expr {
	if target.IsNamespace {
		return identifier(c.namespaceRef(target.SourceIndex))
	}
	value := identifier(target.Ref)
	if c.options.DangerLevel.ChecksTDZ() && c.graph.Meta[target.SourceIndex].IsCyclic &&
		c.graph.Symbols.Get(js_ast.FollowSymbols(c.graph.Symbols, target.Ref)).Kind.IsLexical() {
		return js_ast.Expr{Data: &js_ast.EIf{
			Test: identifier(c.readyRef(target.SourceIndex)),
			Yes:  value,
			No:   c.callRuntime(logger.Loc{}, "__tdzError", js_ast.Expr{Data: &js_ast.EString{Value: alias}}),
		}}
	}
	return value
}

func (c *linkerContext) newNamespace() js_ast.Expr {
	if c.options.PlainNamespaceObjects {
		return js_ast.Expr{Data: &js_ast.EObject{}}
	}
	return c.callRuntime(logger.Loc{}, "__createNamespace")
}

// Tags and freezes a populated namespace as far as the danger level asks for.
func (c *linkerContext) sealNamespace(value js_ast.Expr) js_ast.Expr {
	if c.options.PlainNamespaceObjects {
		return value
	}
	if c.options.DangerLevel.TagsNamespaces() {
		value = c.callRuntime(logger.Loc{}, "__tagModule", value)
	}
	if c.options.DangerLevel.FreezesNamespaces() {
		value = c.callRuntime(logger.Loc{}, "__freeze", value)
	}
	return value
}

// The entry's exports for "export {...}" at the end of an ES module bundle
func (c *linkerContext) entryExportClause() []js_ast.ClauseItem {
	exports := c.graph.Meta[c.graph.EntryPoint].Exports
	var items []js_ast.ClauseItem
	for _, alias := range exports.SortedAliases() {
		entry := exports[alias]
		if entry.Ambiguous {
			continue
		}
		ref := entry.Target.Ref
		if entry.Target.IsNamespace {
			ref = c.namespaceRef(entry.Target.SourceIndex)
		}
		items = append(items, js_ast.ClauseItem{Alias: alias, Name: js_ast.LocRef{Ref: ref}})
	}
	return items
}

func (c *linkerContext) wrapOutput(stmts []js_ast.Stmt, exportsRef js_ast.Ref, exportClause []js_ast.ClauseItem) []js_ast.Stmt {
	useStrict := js_ast.Stmt{Data: &js_ast.SDirective{Value: "use strict"}}

	switch c.options.OutputFormat {
	case config.FormatESModule:
		if len(exportClause) > 0 {
			stmts = append(stmts, js_ast.Stmt{Data: &js_ast.SExportClause{Items: exportClause}})
		}
		return stmts

	case config.FormatCommonJS:
		result := append([]js_ast.Stmt{useStrict}, stmts...)
		if exportsRef != js_ast.InvalidRef {
			module := c.globalSymbol("module")
			result = append(result, exprStmt(js_ast.Assign(
				js_ast.Expr{Data: &js_ast.EDot{Target: identifier(module), Name: "exports"}},
				identifier(exportsRef))))
		}
		return result

	default:
		body := append([]js_ast.Stmt{useStrict}, stmts...)
		if exportsRef != js_ast.InvalidRef {
			body = append(body, js_ast.Stmt{Data: &js_ast.SReturn{Value: &js_ast.Expr{Data: &js_ast.EIdentifier{Ref: exportsRef}}}})
			call := js_ast.Expr{Data: &js_ast.ECall{Target: js_ast.Expr{Data: &js_ast.EFunction{Fn: js_ast.Fn{Body: js_ast.FnBody{Stmts: body}}}}}}
			return []js_ast.Stmt{varStmt(c.globalSymbol(c.options.GlobalName), call)}
		}
		call := js_ast.Expr{Data: &js_ast.ECall{Target: js_ast.Expr{Data: &js_ast.EFunction{Fn: js_ast.Fn{Body: js_ast.FnBody{Stmts: body}}}}}}
		return []js_ast.Stmt{exprStmt(call)}
	}
}

// A name outside the bundle, such as "module" or the global name of an IIFE.
// Collision resolution already kept every declaration away from it.
func (c *linkerContext) globalSymbol(name string) js_ast.Ref {
	return c.graph.Symbols.New(c.graph.EntryPoint, js_ast.SymbolUnbound, name)
}

func identifier(ref js_ast.Ref) js_ast.Expr {
	return js_ast.Expr{Data: &js_ast.EIdentifier{Ref: ref}}
}

func isIdentifier(expr js_ast.Expr) bool {
	_, ok := expr.Data.(*js_ast.EIdentifier)
	return ok
}

func exprStmt(value js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Loc: value.Loc, Data: &js_ast.SExpr{Value: value}}
}

func varStmt(ref js_ast.Ref, value js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SLocal{
		Kind:  js_ast.LocalVar,
		Decls: []js_ast.Decl{{Binding: js_ast.Binding{Data: &js_ast.BIdentifier{Ref: ref}}, Value: &value}},
	}}
}
