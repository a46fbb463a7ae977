package js_parser

import (
	"fmt"

	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/logger"
)

func (p *parser) prepareForVisitPass() {
	p.currentScope = p.moduleScope
	p.thisIsModuleThis = true
}

func (p *parser) pushScopeForVisitPass(kind js_ast.ScopeKind, loc logger.Loc) {
	order := p.scopesInOrder[0]

	// Sanity-check that the scopes generated by the first and second passes match
	if order.loc != loc || order.scope.Kind != kind {
		panic(fmt.Sprintf("Expected scope (%d, %d) in %s, found scope (%d, %d)",
			kind, loc.Start,
			p.source.PrettyPath,
			order.scope.Kind, order.loc.Start))
	}

	p.scopesInOrder = p.scopesInOrder[1:]
	p.currentScope = order.scope
}

// Walks up the scope chain looking for a declaration of "name". Names that
// aren't declared anywhere are added to the module scope as unbound symbols
// so every use of the same global shares one symbol.
func (p *parser) findSymbol(loc logger.Loc, name string) js_ast.Ref {
	var ref js_ast.Ref
	s := p.currentScope

	for {
		if member, ok := s.Members[name]; ok {
			ref = member.Ref
			break
		}

		s = s.Parent
		if s == nil {
			ref = p.newSymbol(js_ast.SymbolUnbound, name)
			p.moduleScope.Members[name] = js_ast.ScopeMember{Ref: ref, Loc: loc}
			break
		}
	}

	p.recordUsage(ref)
	return ref
}

func (p *parser) recordUsage(ref js_ast.Ref) {
	p.symbols[ref.InnerIndex].UseCountEstimate++
}

func (p *parser) visitStmts(stmts []js_ast.Stmt) {
	for _, stmt := range stmts {
		p.visitStmt(stmt)
	}
}

func (p *parser) visitSingleStmt(stmt *js_ast.Stmt) {
	if stmt != nil {
		p.visitStmt(*stmt)
	}
}

func (p *parser) visitStmt(stmt js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty, *js_ast.SComment, *js_ast.SDebugger, *js_ast.SDirective,
		*js_ast.SImport, *js_ast.SExportFrom, *js_ast.SExportStar,
		*js_ast.SBreak, *js_ast.SContinue:

	case *js_ast.SExportClause:
		for i, item := range s.Items {
			name := p.loadNameFromRef(item.Name.Ref)
			member, ok := p.moduleScope.Members[name]
			if !ok || p.symbols[member.Ref.InnerIndex].Kind == js_ast.SymbolUnbound {
				r := p.source.RangeOfIdentifier(item.Name.Loc)
				p.addRangeError(r, fmt.Sprintf("%q is not declared in this file", name))
				s.Items[i].Name.Ref = js_ast.InvalidRef
				continue
			}
			s.Items[i].Name.Ref = member.Ref
			p.recordUsage(member.Ref)
		}

	case *js_ast.SExportDefault:
		p.visitStmt(s.Value)

	case *js_ast.SExpr:
		p.visitExpr(s.Value)

	case *js_ast.SFunction:
		p.visitFn(&s.Fn)

	case *js_ast.SClass:
		p.visitClass(&s.Class)

	case *js_ast.SLabel:
		p.visitStmt(s.Stmt)

	case *js_ast.SBlock:
		p.pushScopeForVisitPass(js_ast.ScopeBlock, stmt.Loc)
		p.visitStmts(s.Stmts)
		p.popScope()

	case *js_ast.SIf:
		p.visitExpr(s.Test)
		p.visitStmt(s.Yes)
		p.visitSingleStmt(s.No)

	case *js_ast.SFor:
		p.pushScopeForVisitPass(js_ast.ScopeBlock, stmt.Loc)
		p.visitSingleStmt(s.Init)
		p.visitOptionalExpr(s.Test)
		p.visitOptionalExpr(s.Update)
		p.visitStmt(s.Body)
		p.popScope()

	case *js_ast.SForIn:
		p.pushScopeForVisitPass(js_ast.ScopeBlock, stmt.Loc)
		p.visitStmt(s.Init)
		p.visitExpr(s.Value)
		p.visitStmt(s.Body)
		p.popScope()

	case *js_ast.SForOf:
		p.pushScopeForVisitPass(js_ast.ScopeBlock, stmt.Loc)
		p.visitStmt(s.Init)
		p.visitExpr(s.Value)
		p.visitStmt(s.Body)
		p.popScope()

	case *js_ast.SDoWhile:
		p.visitStmt(s.Body)
		p.visitExpr(s.Test)

	case *js_ast.SWhile:
		p.visitExpr(s.Test)
		p.visitStmt(s.Body)

	case *js_ast.STry:
		p.pushScopeForVisitPass(js_ast.ScopeBlock, s.BodyLoc)
		p.visitStmts(s.Body)
		p.popScope()

		if s.Catch != nil {
			p.pushScopeForVisitPass(js_ast.ScopeBlock, s.Catch.Loc)
			if s.Catch.Binding != nil {
				p.visitBinding(*s.Catch.Binding)
			}
			p.visitStmts(s.Catch.Body)
			p.popScope()
		}

		if s.Finally != nil {
			p.pushScopeForVisitPass(js_ast.ScopeBlock, s.Finally.Loc)
			p.visitStmts(s.Finally.Stmts)
			p.popScope()
		}

	case *js_ast.SSwitch:
		p.visitExpr(s.Test)
		p.pushScopeForVisitPass(js_ast.ScopeBlock, s.BodyLoc)
		for _, c := range s.Cases {
			p.visitOptionalExpr(c.Value)
			p.visitStmts(c.Body)
		}
		p.popScope()

	case *js_ast.SReturn:
		p.visitOptionalExpr(s.Value)

	case *js_ast.SThrow:
		p.visitExpr(s.Value)

	case *js_ast.SLocal:
		for _, decl := range s.Decls {
			p.visitBinding(decl.Binding)
			p.visitOptionalExpr(decl.Value)
		}

	default:
		panic("Internal error")
	}
}

// Identifiers in bindings were declared during parsing. Only the default
// values and computed keys inside them need binding.
func (p *parser) visitBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing, *js_ast.BIdentifier:

	case *js_ast.BArray:
		for _, item := range b.Items {
			p.visitBinding(item.Binding)
			p.visitOptionalExpr(item.DefaultValue)
		}

	case *js_ast.BObject:
		for _, property := range b.Properties {
			if property.IsComputed {
				p.visitExpr(property.Key)
			}
			p.visitBinding(property.Value)
			p.visitOptionalExpr(property.DefaultValue)
		}

	default:
		panic("Internal error")
	}
}

func (p *parser) visitArgs(args []js_ast.Arg) {
	for _, arg := range args {
		p.visitBinding(arg.Binding)
		p.visitOptionalExpr(arg.Default)
	}
}

func (p *parser) visitFn(fn *js_ast.Fn) {
	oldThisIsModuleThis := p.thisIsModuleThis
	p.thisIsModuleThis = false

	p.pushScopeForVisitPass(js_ast.ScopeFunctionArgs, fn.OpenParenLoc)
	p.visitArgs(fn.Args)
	p.pushScopeForVisitPass(js_ast.ScopeFunctionBody, fn.Body.Loc)
	p.visitStmts(fn.Body.Stmts)
	p.popScope()
	p.popScope()

	p.thisIsModuleThis = oldThisIsModuleThis
}

// The class heritage and computed keys are evaluated outside the class body,
// so "this" there is whatever it is around the class. Everything else in the
// body sees the class or instance as "this".
func (p *parser) visitClass(class *js_ast.Class) {
	p.pushScopeForVisitPass(js_ast.ScopeName, class.ClassKeyword.Loc)
	p.visitOptionalExpr(class.Extends)

	for _, property := range class.Properties {
		if property.IsComputed {
			p.visitExpr(property.Key)
		}

		oldThisIsModuleThis := p.thisIsModuleThis
		p.thisIsModuleThis = false
		p.visitOptionalExpr(property.Value)
		p.visitOptionalExpr(property.Initializer)
		p.thisIsModuleThis = oldThisIsModuleThis
	}

	p.popScope()
}

func (p *parser) visitOptionalExpr(expr *js_ast.Expr) {
	if expr != nil {
		p.visitExpr(*expr)
	}
}

func (p *parser) visitExprs(exprs []js_ast.Expr) {
	for _, expr := range exprs {
		p.visitExpr(expr)
	}
}

func (p *parser) visitExpr(expr js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.ENull, *js_ast.EUndefined, *js_ast.ESuper, *js_ast.EBoolean,
		*js_ast.ENumber, *js_ast.EBigInt, *js_ast.EString, *js_ast.ERegExp,
		*js_ast.EMissing:

	case *js_ast.EThis:
		if p.thisIsModuleThis {
			p.hasTopLevelThis = true
		}

	case *js_ast.EIdentifier:
		e.Ref = p.findSymbol(expr.Loc, p.loadNameFromRef(e.Ref))

	case *js_ast.EArray:
		p.visitExprs(e.Items)

	case *js_ast.EUnary:
		p.visitExpr(e.Value)

	case *js_ast.EBinary:
		p.visitExpr(e.Left)
		p.visitExpr(e.Right)

	case *js_ast.ENew:
		p.visitExpr(e.Target)
		p.visitExprs(e.Args)

	case *js_ast.ECall:
		p.visitExpr(e.Target)
		p.visitExprs(e.Args)

	case *js_ast.EDot:
		p.visitExpr(e.Target)

	case *js_ast.EIndex:
		p.visitExpr(e.Target)
		p.visitExpr(e.Index)

	case *js_ast.EArrow:
		p.pushScopeForVisitPass(js_ast.ScopeFunctionArgs, expr.Loc)
		p.visitArgs(e.Args)
		p.pushScopeForVisitPass(js_ast.ScopeFunctionBody, e.Body.Loc)
		p.visitStmts(e.Body.Stmts)
		p.popScope()
		p.popScope()

	case *js_ast.EFunction:
		p.visitFn(&e.Fn)

	case *js_ast.EClass:
		p.visitClass(&e.Class)

	case *js_ast.EObject:
		for _, property := range e.Properties {
			if property.IsComputed {
				p.visitExpr(property.Key)
			}
			p.visitOptionalExpr(property.Value)
			p.visitOptionalExpr(property.Initializer)
		}

	case *js_ast.ESpread:
		p.visitExpr(e.Value)

	case *js_ast.ETemplate:
		p.visitOptionalExpr(e.Tag)
		for _, part := range e.Parts {
			p.visitExpr(part.Value)
		}

	case *js_ast.EAwait:
		p.visitExpr(e.Value)

	case *js_ast.EYield:
		p.visitOptionalExpr(e.Value)

	case *js_ast.EIf:
		p.visitExpr(e.Test)
		p.visitExpr(e.Yes)
		p.visitExpr(e.No)

	default:
		panic(fmt.Sprintf("Unexpected expression of type %T", expr.Data))
	}
}
