package graph

import (
	"github.com/esmlink/esmlink/internal/js_ast"
)

// This contains linker-specific metadata for a module. It's kept separate
// from "Module" because it's only valid for a single linking operation.
type ModuleMeta struct {
	// Everything this module exports after "export *" and "export {...} from"
	// have been resolved
	Exports ExportTable

	// Position in the evaluation order, or -1 if the module isn't scheduled
	ScheduleIndex int

	// The index of the strongly connected group this module was scheduled in
	GroupIndex int

	// The module can reach itself through its imports. Its namespace object
	// is declared empty and filled in when its group starts evaluating.
	IsCyclic bool

	// The namespace object is used by "import * as", by "export * as" or as
	// the exports of the bundle. It's only generated when this is set.
	NeedsNamespace bool
	NamespaceRef   js_ast.Ref

	// Set to true at the end of the module's body. Namespace getters for
	// lexical bindings check it at the SAFE danger level.
	ReadyRef js_ast.Ref
}
