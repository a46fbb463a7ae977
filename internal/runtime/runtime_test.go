package runtime

import (
	"testing"

	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/js_parser"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/test"
)

func TestRuntimeParses(t *testing.T) {
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, Source)
	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, len(tree.ImportRecords), 0)
	test.AssertEqual(t, tree.DefaultRef, js_ast.InvalidRef)

	for _, name := range Helpers {
		member, ok := tree.ModuleScope.Members[name]
		if !ok {
			t.Fatalf("Missing runtime helper %q", name)
		}
		test.AssertEqual(t, tree.Symbols[member.Ref.InnerIndex].Kind, js_ast.SymbolHoistedFunction)
	}
}

// Every helper must be removable on its own
func TestRuntimeHelpersAreIndependent(t *testing.T) {
	log := logger.NewDeferLog()
	tree, _ := js_parser.Parse(log, Source)
	for _, name := range Helpers {
		ref := tree.ModuleScope.Members[name].Ref
		test.AssertEqual(t, tree.Symbols[ref.InnerIndex].UseCountEstimate, uint32(0))
	}
}
