package linker

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/runtime"
)

// Returns the statements that make up the top level of the program. If the
// whole program is a single function that's called immediately with no
// arguments, that's the body of the function:
//
//	(function() { ... })();
//	var name = function() { ... }();
//
// Changing the returned slice changes the program without changing its
// outer shape.
func topLevelStmts(tree *js_ast.AST) *[]js_ast.Stmt {
	if len(tree.Stmts) == 1 {
		var call js_ast.Expr
		switch s := tree.Stmts[0].Data.(type) {
		case *js_ast.SExpr:
			call = s.Value
		case *js_ast.SLocal:
			if len(s.Decls) == 1 && s.Decls[0].Value != nil {
				call = *s.Decls[0].Value
			}
		}
		if e, ok := call.Data.(*js_ast.ECall); ok && len(e.Args) == 0 {
			if fn, ok := e.Target.Data.(*js_ast.EFunction); ok && len(fn.Fn.Args) == 0 {
				return &fn.Fn.Body.Stmts
			}
		}
	}
	return &tree.Stmts
}

// Removes top-level declarations nothing refers to when removing them can't
// change what the program does. This runs once, so a declaration only used
// by another unused declaration is kept.
func (c *linkerContext) eliminateDeadCode(tree *js_ast.AST) {
	c.timer.Begin("eliminate dead code")
	defer c.timer.End("eliminate dead code")

	stmts := topLevelStmts(tree)
	counter := refCounter{symbols: c.graph.Symbols, counts: make(map[js_ast.Ref]uint32)}
	counter.stmts(tree.Stmts)
	isUnused := func(ref js_ast.Ref) bool {
		return counter.counts[js_ast.FollowSymbols(c.graph.Symbols, ref)] == 0
	}

	removed := 0
	result := make([]js_ast.Stmt, 0, len(*stmts))
	for _, stmt := range *stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SFunction:
			if s.Fn.Name != nil && isUnused(s.Fn.Name.Ref) {
				removed++
				continue
			}

		case *js_ast.SClass:
			if s.Class.Name != nil && isUnused(s.Class.Name.Ref) && js_ast.IsSideEffectFreeClass(&s.Class) {
				removed++
				continue
			}

		case *js_ast.SLocal:
			decls := make([]js_ast.Decl, 0, len(s.Decls))
			for _, decl := range s.Decls {
				if id, ok := decl.Binding.Data.(*js_ast.BIdentifier); ok && isUnused(id.Ref) &&
					(decl.Value == nil || js_ast.IsSideEffectFreeInitializer(*decl.Value)) {
					removed++
					continue
				}
				decls = append(decls, decl)
			}
			if len(decls) == 0 {
				continue
			}
			if len(decls) != len(s.Decls) {
				stmt = js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SLocal{Kind: s.Kind, Decls: decls}}
			}
		}
		result = append(result, stmt)
	}
	*stmts = result

	logger.Trace().Debug("eliminated dead code", zap.Int("removed", removed))
}

// Removes the runtime from the output so tests can show only the code
// generated for the modules under test.
func (c *linkerContext) omitRuntime(tree *js_ast.AST, runtimeStmts []js_ast.Stmt) {
	isRuntime := make(map[js_ast.S]bool, len(runtimeStmts))
	for _, stmt := range runtimeStmts {
		isRuntime[stmt.Data] = true
	}
	runtimeComment := "// " + runtime.Source.PrettyPath

	stmts := topLevelStmts(tree)
	result := make([]js_ast.Stmt, 0, len(*stmts))
	for _, stmt := range *stmts {
		if isRuntime[stmt.Data] {
			continue
		}
		if comment, ok := stmt.Data.(*js_ast.SComment); ok && comment.Text == runtimeComment {
			continue
		}
		result = append(result, stmt)
	}
	*stmts = result
}

// Counts uses of every symbol. Declarations aren't uses.
type refCounter struct {
	symbols js_ast.SymbolMap
	counts  map[js_ast.Ref]uint32
}

func (rc *refCounter) use(ref js_ast.Ref) {
	rc.counts[js_ast.FollowSymbols(rc.symbols, ref)]++
}

func (rc *refCounter) stmts(stmts []js_ast.Stmt) {
	for _, stmt := range stmts {
		rc.stmt(stmt)
	}
}

func (rc *refCounter) stmt(stmt js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty, *js_ast.SComment, *js_ast.SDebugger, *js_ast.SDirective,
		*js_ast.SBreak, *js_ast.SContinue:

	case *js_ast.SBlock:
		rc.stmts(s.Stmts)

	case *js_ast.SExportClause:
		for _, item := range s.Items {
			rc.use(item.Name.Ref)
		}

	case *js_ast.SExpr:
		rc.expr(s.Value)

	case *js_ast.SLocal:
		for _, decl := range s.Decls {
			rc.binding(decl.Binding)
			rc.exprPtr(decl.Value)
		}

	case *js_ast.SFunction:
		rc.fn(s.Fn)

	case *js_ast.SClass:
		rc.class(s.Class)

	case *js_ast.SLabel:
		rc.stmt(s.Stmt)

	case *js_ast.SIf:
		rc.expr(s.Test)
		rc.stmt(s.Yes)
		if s.No != nil {
			rc.stmt(*s.No)
		}

	case *js_ast.SFor:
		if s.Init != nil {
			rc.stmt(*s.Init)
		}
		rc.exprPtr(s.Test)
		rc.exprPtr(s.Update)
		rc.stmt(s.Body)

	case *js_ast.SForIn:
		rc.stmt(s.Init)
		rc.expr(s.Value)
		rc.stmt(s.Body)

	case *js_ast.SForOf:
		rc.stmt(s.Init)
		rc.expr(s.Value)
		rc.stmt(s.Body)

	case *js_ast.SDoWhile:
		rc.stmt(s.Body)
		rc.expr(s.Test)

	case *js_ast.SWhile:
		rc.expr(s.Test)
		rc.stmt(s.Body)

	case *js_ast.STry:
		rc.stmts(s.Body)
		if s.Catch != nil {
			if s.Catch.Binding != nil {
				rc.binding(*s.Catch.Binding)
			}
			rc.stmts(s.Catch.Body)
		}
		if s.Finally != nil {
			rc.stmts(s.Finally.Stmts)
		}

	case *js_ast.SSwitch:
		rc.expr(s.Test)
		for _, c := range s.Cases {
			rc.exprPtr(c.Value)
			rc.stmts(c.Body)
		}

	case *js_ast.SReturn:
		rc.exprPtr(s.Value)

	case *js_ast.SThrow:
		rc.expr(s.Value)

	default:
		panic(fmt.Sprintf("Unexpected statement of type %T", stmt.Data))
	}
}

func (rc *refCounter) binding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing, *js_ast.BIdentifier:

	case *js_ast.BArray:
		for _, item := range b.Items {
			rc.binding(item.Binding)
			rc.exprPtr(item.DefaultValue)
		}

	case *js_ast.BObject:
		for _, property := range b.Properties {
			if property.IsComputed {
				rc.expr(property.Key)
			}
			rc.binding(property.Value)
			rc.exprPtr(property.DefaultValue)
		}

	default:
		panic(fmt.Sprintf("Unexpected binding of type %T", binding.Data))
	}
}

func (rc *refCounter) fn(fn js_ast.Fn) {
	for _, arg := range fn.Args {
		rc.binding(arg.Binding)
		rc.exprPtr(arg.Default)
	}
	rc.stmts(fn.Body.Stmts)
}

func (rc *refCounter) class(class js_ast.Class) {
	rc.exprPtr(class.Extends)
	rc.properties(class.Properties)
}

func (rc *refCounter) properties(properties []js_ast.Property) {
	for _, property := range properties {
		if property.IsComputed {
			rc.expr(property.Key)
		}
		rc.exprPtr(property.Value)
		rc.exprPtr(property.Initializer)
	}
}

func (rc *refCounter) exprPtr(expr *js_ast.Expr) {
	if expr != nil {
		rc.expr(*expr)
	}
}

func (rc *refCounter) exprs(exprs []js_ast.Expr) {
	for _, expr := range exprs {
		rc.expr(expr)
	}
}

func (rc *refCounter) expr(expr js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EBoolean, *js_ast.ESuper, *js_ast.ENull, *js_ast.EUndefined, *js_ast.EThis,
		*js_ast.EMissing, *js_ast.ENumber, *js_ast.EBigInt, *js_ast.EString, *js_ast.ERegExp:

	case *js_ast.EIdentifier:
		rc.use(e.Ref)

	case *js_ast.EArray:
		rc.exprs(e.Items)

	case *js_ast.EUnary:
		rc.expr(e.Value)

	case *js_ast.EBinary:
		rc.expr(e.Left)
		rc.expr(e.Right)

	case *js_ast.ENew:
		rc.expr(e.Target)
		rc.exprs(e.Args)

	case *js_ast.ECall:
		rc.expr(e.Target)
		rc.exprs(e.Args)

	case *js_ast.EDot:
		rc.expr(e.Target)

	case *js_ast.EIndex:
		rc.expr(e.Target)
		rc.expr(e.Index)

	case *js_ast.EArrow:
		for _, arg := range e.Args {
			rc.binding(arg.Binding)
			rc.exprPtr(arg.Default)
		}
		rc.stmts(e.Body.Stmts)

	case *js_ast.EFunction:
		rc.fn(e.Fn)

	case *js_ast.EClass:
		rc.class(e.Class)

	case *js_ast.EObject:
		rc.properties(e.Properties)

	case *js_ast.ESpread:
		rc.expr(e.Value)

	case *js_ast.ETemplate:
		rc.exprPtr(e.Tag)
		for _, part := range e.Parts {
			rc.expr(part.Value)
		}

	case *js_ast.EAwait:
		rc.expr(e.Value)

	case *js_ast.EYield:
		rc.exprPtr(e.Value)

	case *js_ast.EIf:
		rc.expr(e.Test)
		rc.expr(e.Yes)
		rc.expr(e.No)

	default:
		panic(fmt.Sprintf("Unexpected expression of type %T", expr.Data))
	}
}
