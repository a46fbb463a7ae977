package graph

import (
	"sort"

	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/logger"
)

// An export of a variable declared in the module itself:
//
//	export let a = 1
//	export function b() {}
//	export {c as d}
//	export default 123
type LocalExport struct {
	Alias    string
	AliasLoc logger.Loc
	Ref      js_ast.Ref
}

// An export of another module's namespace object:
//
//	export * as ns from 'path'
//	import * as ns from 'path'; export {ns}
type NamespaceExport struct {
	Alias       string
	AliasLoc    logger.Loc
	SourceIndex uint32
}

// "export * from 'path'" asks for everything the other module exports
// except "default".
type StarProxy struct {
	SourceIndex uint32
	Loc         logger.Loc
}

// A single name re-exported from another module:
//
//	export {a as b} from 'path'
//	import {a} from 'path'; export {a as b}
type SpecificProxy struct {
	SourceIndex uint32

	// The name in the other module
	Name string

	// The name in this module
	Alias    string
	AliasLoc logger.Loc
}

// A binding created by an import statement. For "import * as ns" the alias
// is empty and "IsNamespace" is set.
type ImportBinding struct {
	Ref         js_ast.Ref
	SourceIndex uint32
	Alias       string
	AliasLoc    logger.Loc
	IsNamespace bool
}

// Everything the linker needs to know about a module's imports and exports.
// This is computed once from the syntax tree, which is left untouched.
type Module struct {
	Source logger.Source
	AST    js_ast.AST

	// Every module this one imports from or re-exports from, in source order.
	// Duplicates are kept.
	Dependencies []uint32

	LocalExports     []LocalExport
	NamespaceExports []NamespaceExport
	StarProxies      []StarProxy
	SpecificProxies  []SpecificProxy

	Imports      []ImportBinding
	importsByRef map[js_ast.Ref]int

	// The declared name of "export default function f() {}" or "export
	// default class C {}". It's an alias for the default export's symbol.
	DefaultNameRef js_ast.Ref
}

func (m *Module) ImportForRef(ref js_ast.Ref) (*ImportBinding, bool) {
	if i, ok := m.importsByRef[ref]; ok {
		return &m.Imports[i], true
	}
	return nil, false
}

func NewModule(file InputFile) Module {
	tree := &file.AST
	m := Module{
		Source:         file.Source,
		AST:            file.AST,
		importsByRef:   make(map[js_ast.Ref]int),
		DefaultNameRef: js_ast.InvalidRef,
	}

	for _, record := range tree.ImportRecords {
		if record.SourceIndex.IsValid() {
			m.Dependencies = append(m.Dependencies, record.SourceIndex.GetIndex())
		}
	}

	otherSourceIndex := func(importRecordIndex uint32) uint32 {
		return tree.ImportRecords[importRecordIndex].SourceIndex.GetIndex()
	}

	// Imports are hoisted, so "export {x}" may come before "import {x}"
	for _, stmt := range tree.Stmts {
		s, ok := stmt.Data.(*js_ast.SImport)
		if !ok {
			continue
		}
		sourceIndex := otherSourceIndex(s.ImportRecordIndex)
		if s.DefaultName != nil {
			m.addImport(ImportBinding{Ref: s.DefaultName.Ref, SourceIndex: sourceIndex, Alias: "default", AliasLoc: s.DefaultName.Loc})
		}
		if s.Namespace != nil {
			m.addImport(ImportBinding{Ref: s.Namespace.Ref, SourceIndex: sourceIndex, AliasLoc: s.Namespace.Loc, IsNamespace: true})
		}
		if s.Items != nil {
			for _, item := range *s.Items {
				m.addImport(ImportBinding{Ref: item.Name.Ref, SourceIndex: sourceIndex, Alias: item.Alias, AliasLoc: item.AliasLoc})
			}
		}
	}

	addLocal := func(loc logger.Loc, ref js_ast.Ref) {
		m.LocalExports = append(m.LocalExports, LocalExport{
			Alias:    tree.Symbols[ref.InnerIndex].OriginalName,
			AliasLoc: loc,
			Ref:      ref,
		})
	}

	for _, stmt := range tree.Stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SLocal:
			if s.IsExport {
				js_ast.ForEachIdentifierBindingInDecls(s.Decls, addLocal)
			}

		case *js_ast.SFunction:
			if s.IsExport {
				addLocal(s.Fn.Name.Loc, s.Fn.Name.Ref)
			}

		case *js_ast.SClass:
			if s.IsExport {
				addLocal(s.Class.Name.Loc, s.Class.Name.Ref)
			}

		case *js_ast.SExportDefault:
			m.LocalExports = append(m.LocalExports, LocalExport{Alias: "default", AliasLoc: s.DefaultName.Loc, Ref: s.DefaultName.Ref})
			switch value := s.Value.Data.(type) {
			case *js_ast.SFunction:
				if value.Fn.Name != nil {
					m.DefaultNameRef = value.Fn.Name.Ref
				}
			case *js_ast.SClass:
				if value.Class.Name != nil {
					m.DefaultNameRef = value.Class.Name.Ref
				}
			}

		case *js_ast.SExportClause:
			for _, item := range s.Items {
				binding, ok := m.ImportForRef(item.Name.Ref)
				switch {
				case !ok:
					m.LocalExports = append(m.LocalExports, LocalExport{Alias: item.Alias, AliasLoc: item.AliasLoc, Ref: item.Name.Ref})
				case binding.IsNamespace:
					m.NamespaceExports = append(m.NamespaceExports, NamespaceExport{Alias: item.Alias, AliasLoc: item.AliasLoc, SourceIndex: binding.SourceIndex})
				default:
					m.SpecificProxies = append(m.SpecificProxies, SpecificProxy{
						SourceIndex: binding.SourceIndex,
						Name:        binding.Alias,
						Alias:       item.Alias,
						AliasLoc:    item.AliasLoc,
					})
				}
			}

		case *js_ast.SExportFrom:
			sourceIndex := otherSourceIndex(s.ImportRecordIndex)
			for _, item := range s.Items {
				m.SpecificProxies = append(m.SpecificProxies, SpecificProxy{
					SourceIndex: sourceIndex,
					Name:        item.OriginalName,
					Alias:       item.Alias,
					AliasLoc:    item.AliasLoc,
				})
			}

		case *js_ast.SExportStar:
			sourceIndex := otherSourceIndex(s.ImportRecordIndex)
			if s.Alias != nil {
				m.NamespaceExports = append(m.NamespaceExports, NamespaceExport{Alias: s.Alias.OriginalName, AliasLoc: s.Alias.Loc, SourceIndex: sourceIndex})
			} else {
				m.StarProxies = append(m.StarProxies, StarProxy{SourceIndex: sourceIndex, Loc: stmt.Loc})
			}
		}
	}

	return m
}

func (m *Module) addImport(binding ImportBinding) {
	m.importsByRef[binding.Ref] = len(m.Imports)
	m.Imports = append(m.Imports, binding)
}

// Names this module exports without going through "export *". Star exports
// never shadow these.
func (m *Module) ExplicitAliases() map[string]bool {
	aliases := make(map[string]bool)
	for _, export := range m.LocalExports {
		aliases[export.Alias] = true
	}
	for _, export := range m.NamespaceExports {
		aliases[export.Alias] = true
	}
	for _, proxy := range m.SpecificProxies {
		aliases[proxy.Alias] = true
	}
	return aliases
}

// Adds a local export for every top-level declaration that isn't already
// exported under its own name. Imports are not declarations.
func (m *Module) ExportAllTopLevel() {
	explicit := m.ExplicitAliases()

	type member struct {
		name string
		js_ast.ScopeMember
	}
	var members []member
	for name, scopeMember := range m.AST.ModuleScope.Members {
		if explicit[name] {
			continue
		}
		switch m.AST.Symbols[scopeMember.Ref.InnerIndex].Kind {
		case js_ast.SymbolHoisted, js_ast.SymbolHoistedFunction,
			js_ast.SymbolLet, js_ast.SymbolConst, js_ast.SymbolClass:
			members = append(members, member{name, scopeMember})
		}
	}
	sort.Slice(members, func(i int, j int) bool {
		if members[i].Loc.Start != members[j].Loc.Start {
			return members[i].Loc.Start < members[j].Loc.Start
		}
		return members[i].name < members[j].name
	})
	for _, member := range members {
		m.LocalExports = append(m.LocalExports, LocalExport{Alias: member.name, AliasLoc: member.Loc, Ref: member.Ref})
	}
}
