package linker

import (
	"fmt"

	"github.com/esmlink/esmlink/internal/graph"
	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/logger"
)

// Copies one module's syntax tree, rewriting every reference to an import
// into a reference to the variable it's bound to. Import and export
// statements are removed and "export default" becomes a declaration of the
// module's default variable.
type rewriter struct {
	c      *linkerContext
	module *graph.Module

	// "this" at the current position is the module's "this", which is always
	// undefined in a module
	isModuleThis bool
}

func (c *linkerContext) rewriteModule(sourceIndex uint32) []js_ast.Stmt {
	r := &rewriter{
		c:            c,
		module:       &c.graph.Modules[sourceIndex],
		isModuleThis: true,
	}

	stmts := make([]js_ast.Stmt, 0, len(r.module.AST.Stmts))
	for _, stmt := range r.module.AST.Stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SImport, *js_ast.SExportClause, *js_ast.SExportFrom, *js_ast.SExportStar:
			// These only bind names and are gone after linking

		case *js_ast.SExportDefault:
			stmts = append(stmts, r.exportDefault(stmt.Loc, s))

		default:
			stmts = append(stmts, r.stmt(stmt))
		}
	}
	return stmts
}

func (r *rewriter) exportDefault(loc logger.Loc, s *js_ast.SExportDefault) js_ast.Stmt {
	defaultName := s.DefaultName
	declare := func(value js_ast.Expr) js_ast.Stmt {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{
			Kind: js_ast.LocalLet,
			Decls: []js_ast.Decl{{
				Binding: js_ast.Binding{Loc: defaultName.Loc, Data: &js_ast.BIdentifier{Ref: defaultName.Ref}},
				Value:   &value,
			}},
		}}
	}

	switch value := s.Value.Data.(type) {
	case *js_ast.SExpr:
		return declare(r.expr(value.Value))

	case *js_ast.SFunction:
		// Function declarations stay declarations so they're still hoisted.
		// A named function's own name was merged with the default variable.
		fn := r.fn(value.Fn)
		if fn.Name == nil {
			fn.Name = &js_ast.LocRef{Loc: defaultName.Loc, Ref: defaultName.Ref}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn}}

	case *js_ast.SClass:
		return declare(js_ast.Expr{Loc: s.Value.Loc, Data: &js_ast.EClass{Class: r.class(value.Class)}})

	default:
		panic(fmt.Sprintf("Unexpected default export of type %T", s.Value.Data))
	}
}

func (r *rewriter) stmts(stmts []js_ast.Stmt) []js_ast.Stmt {
	if stmts == nil {
		return nil
	}
	result := make([]js_ast.Stmt, len(stmts))
	for i, stmt := range stmts {
		result[i] = r.stmt(stmt)
	}
	return result
}

func (r *rewriter) stmtPtr(stmt *js_ast.Stmt) *js_ast.Stmt {
	if stmt == nil {
		return nil
	}
	result := r.stmt(*stmt)
	return &result
}

func (r *rewriter) stmt(stmt js_ast.Stmt) js_ast.Stmt {
	loc := stmt.Loc

	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty, *js_ast.SComment, *js_ast.SDebugger, *js_ast.SDirective,
		*js_ast.SBreak, *js_ast.SContinue:
		return stmt

	case *js_ast.SBlock:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: r.stmts(s.Stmts)}}

	case *js_ast.SExpr:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: r.expr(s.Value)}}

	case *js_ast.SLocal:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: s.Kind, Decls: r.decls(s.Decls)}}

	case *js_ast.SFunction:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: r.fn(s.Fn)}}

	case *js_ast.SClass:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: r.class(s.Class)}}

	case *js_ast.SLabel:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLabel{Name: s.Name, Stmt: r.stmt(s.Stmt)}}

	case *js_ast.SIf:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: r.expr(s.Test), Yes: r.stmt(s.Yes), No: r.stmtPtr(s.No)}}

	case *js_ast.SFor:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{
			Init:   r.stmtPtr(s.Init),
			Test:   r.exprPtr(s.Test),
			Update: r.exprPtr(s.Update),
			Body:   r.stmt(s.Body),
		}}

	case *js_ast.SForIn:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForIn{Init: r.forInit(s.Init), Value: r.expr(s.Value), Body: r.stmt(s.Body)}}

	case *js_ast.SForOf:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{
			IsAwait: s.IsAwait,
			Init:    r.forInit(s.Init),
			Value:   r.expr(s.Value),
			Body:    r.stmt(s.Body),
		}}

	case *js_ast.SDoWhile:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDoWhile{Body: r.stmt(s.Body), Test: r.expr(s.Test)}}

	case *js_ast.SWhile:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: r.expr(s.Test), Body: r.stmt(s.Body)}}

	case *js_ast.STry:
		result := &js_ast.STry{BodyLoc: s.BodyLoc, Body: r.stmts(s.Body)}
		if s.Catch != nil {
			catch := &js_ast.Catch{Loc: s.Catch.Loc, Body: r.stmts(s.Catch.Body)}
			if s.Catch.Binding != nil {
				binding := r.binding(*s.Catch.Binding)
				catch.Binding = &binding
			}
			result.Catch = catch
		}
		if s.Finally != nil {
			result.Finally = &js_ast.Finally{Loc: s.Finally.Loc, Stmts: r.stmts(s.Finally.Stmts)}
		}
		return js_ast.Stmt{Loc: loc, Data: result}

	case *js_ast.SSwitch:
		cases := make([]js_ast.Case, len(s.Cases))
		for i, c := range s.Cases {
			cases[i] = js_ast.Case{Value: r.exprPtr(c.Value), Body: r.stmts(c.Body)}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SSwitch{Test: r.expr(s.Test), BodyLoc: s.BodyLoc, Cases: cases}}

	case *js_ast.SReturn:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{Value: r.exprPtr(s.Value)}}

	case *js_ast.SThrow:
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: r.expr(s.Value)}}

	default:
		panic(fmt.Sprintf("Unexpected statement of type %T", stmt.Data))
	}
}

// The left side of "for (x in y)" and "for (x of y)" is assigned to
func (r *rewriter) forInit(init js_ast.Stmt) js_ast.Stmt {
	if s, ok := init.Data.(*js_ast.SExpr); ok {
		return js_ast.Stmt{Loc: init.Loc, Data: &js_ast.SExpr{Value: r.assignTarget(s.Value)}}
	}
	return r.stmt(init)
}

func (r *rewriter) decls(decls []js_ast.Decl) []js_ast.Decl {
	result := make([]js_ast.Decl, len(decls))
	for i, decl := range decls {
		result[i] = js_ast.Decl{Binding: r.binding(decl.Binding), Value: r.exprPtr(decl.Value)}
	}
	return result
}

func (r *rewriter) binding(binding js_ast.Binding) js_ast.Binding {
	loc := binding.Loc

	switch b := binding.Data.(type) {
	case *js_ast.BMissing, *js_ast.BIdentifier:
		return binding

	case *js_ast.BArray:
		items := make([]js_ast.ArrayBinding, len(b.Items))
		for i, item := range b.Items {
			items[i] = js_ast.ArrayBinding{Binding: r.binding(item.Binding), DefaultValue: r.exprPtr(item.DefaultValue)}
		}
		return js_ast.Binding{Loc: loc, Data: &js_ast.BArray{Items: items, HasSpread: b.HasSpread}}

	case *js_ast.BObject:
		properties := make([]js_ast.PropertyBinding, len(b.Properties))
		for i, property := range b.Properties {
			key := property.Key
			if property.IsComputed {
				key = r.expr(key)
			}
			properties[i] = js_ast.PropertyBinding{
				Key:          key,
				Value:        r.binding(property.Value),
				DefaultValue: r.exprPtr(property.DefaultValue),
				IsComputed:   property.IsComputed,
				IsSpread:     property.IsSpread,
			}
		}
		return js_ast.Binding{Loc: loc, Data: &js_ast.BObject{Properties: properties}}

	default:
		panic(fmt.Sprintf("Unexpected binding of type %T", binding.Data))
	}
}

func (r *rewriter) args(args []js_ast.Arg) []js_ast.Arg {
	result := make([]js_ast.Arg, len(args))
	for i, arg := range args {
		result[i] = js_ast.Arg{Binding: r.binding(arg.Binding), Default: r.exprPtr(arg.Default)}
	}
	return result
}

func (r *rewriter) fn(fn js_ast.Fn) js_ast.Fn {
	old := r.isModuleThis
	r.isModuleThis = false
	fn.Args = r.args(fn.Args)
	fn.Body = js_ast.FnBody{Loc: fn.Body.Loc, Stmts: r.stmts(fn.Body.Stmts)}
	r.isModuleThis = old
	return fn
}

// The heritage and computed keys are evaluated where the class is. Everything
// else runs with "this" bound to the class or an instance.
func (r *rewriter) class(class js_ast.Class) js_ast.Class {
	class.Extends = r.exprPtr(class.Extends)
	properties := make([]js_ast.Property, len(class.Properties))
	for i, property := range class.Properties {
		if property.IsComputed {
			property.Key = r.expr(property.Key)
		}
		old := r.isModuleThis
		r.isModuleThis = false
		property.Value = r.exprPtr(property.Value)
		property.Initializer = r.exprPtr(property.Initializer)
		r.isModuleThis = old
		properties[i] = property
	}
	class.Properties = properties
	return class
}

func (r *rewriter) exprs(exprs []js_ast.Expr) []js_ast.Expr {
	if exprs == nil {
		return nil
	}
	result := make([]js_ast.Expr, len(exprs))
	for i, expr := range exprs {
		result[i] = r.expr(expr)
	}
	return result
}

func (r *rewriter) exprPtr(expr *js_ast.Expr) *js_ast.Expr {
	if expr == nil {
		return nil
	}
	result := r.expr(*expr)
	return &result
}

func (r *rewriter) expr(expr js_ast.Expr) js_ast.Expr {
	loc := expr.Loc

	switch e := expr.Data.(type) {
	case *js_ast.EBoolean, *js_ast.ESuper, *js_ast.ENull, *js_ast.EUndefined, *js_ast.EMissing,
		*js_ast.ENumber, *js_ast.EBigInt, *js_ast.EString, *js_ast.ERegExp:
		return expr

	case *js_ast.EThis:
		if r.isModuleThis {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EUndefined{}}
		}
		return expr

	case *js_ast.EIdentifier:
		return r.identifier(loc, e.Ref)

	case *js_ast.EArray:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: r.exprs(e.Items)}}

	case *js_ast.EUnary:
		if e.Op == js_ast.UnOpDelete {
			if value, ok := r.namespaceProperty(e.Value); ok {
				return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: e.Op, Value: value}}
			}
		}
		if e.Op.IsUnaryUpdate() {
			if name, ok := r.importTarget(e.Value); ok {
				return r.importUpdate(loc, e.Op, e.Value, name)
			}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: e.Op, Value: r.expr(e.Value)}}

	case *js_ast.EBinary:
		if e.Op.IsAssign() {
			if name, ok := r.importTarget(e.Left); ok {
				return r.importAssign(loc, e.Op, e.Left, e.Right, name)
			}
			if e.Op == js_ast.BinOpAssign {
				switch e.Left.Data.(type) {
				case *js_ast.EArray, *js_ast.EObject:
					return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: e.Op, Left: r.assignTarget(e.Left), Right: r.expr(e.Right)}}
				}
			}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: e.Op, Left: r.expr(e.Left), Right: r.expr(e.Right)}}

	case *js_ast.ENew:
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: r.expr(e.Target), Args: r.exprs(e.Args)}}

	case *js_ast.ECall:
		return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: r.expr(e.Target), Args: r.exprs(e.Args)}}

	case *js_ast.EDot:
		if sourceIndex, ok := r.namespaceImport(e.Target); ok {
			if value, ok := r.c.namespaceMember(sourceIndex, e.Name, loc); ok {
				return value
			}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: r.expr(e.Target), Name: e.Name, NameLoc: e.NameLoc}}

	case *js_ast.EIndex:
		if str, ok := e.Index.Data.(*js_ast.EString); ok {
			if sourceIndex, ok := r.namespaceImport(e.Target); ok {
				if value, ok := r.c.namespaceMember(sourceIndex, str.Value, loc); ok {
					return value
				}
			}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{Target: r.expr(e.Target), Index: r.expr(e.Index)}}

	case *js_ast.EArrow:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{
			Args:       r.args(e.Args),
			Body:       js_ast.FnBody{Loc: e.Body.Loc, Stmts: r.stmts(e.Body.Stmts)},
			IsAsync:    e.IsAsync,
			HasRestArg: e.HasRestArg,
			PreferExpr: e.PreferExpr,
		}}

	case *js_ast.EFunction:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: r.fn(e.Fn)}}

	case *js_ast.EClass:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: r.class(e.Class)}}

	case *js_ast.EObject:
		properties := make([]js_ast.Property, len(e.Properties))
		for i, property := range e.Properties {
			if property.IsComputed {
				property.Key = r.expr(property.Key)
			}
			property.Value = r.exprPtr(property.Value)
			property.Initializer = r.exprPtr(property.Initializer)
			properties[i] = property
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}

	case *js_ast.ESpread:
		return js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: r.expr(e.Value)}}

	case *js_ast.ETemplate:
		parts := make([]js_ast.TemplatePart, len(e.Parts))
		for i, part := range e.Parts {
			parts[i] = js_ast.TemplatePart{Value: r.expr(part.Value), TailLoc: part.TailLoc, TailRaw: part.TailRaw}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{Tag: r.exprPtr(e.Tag), HeadLoc: e.HeadLoc, HeadRaw: e.HeadRaw, Parts: parts}}

	case *js_ast.EAwait:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EAwait{Value: r.expr(e.Value)}}

	case *js_ast.EYield:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EYield{Value: r.exprPtr(e.Value), IsStar: e.IsStar}}

	case *js_ast.EIf:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIf{Test: r.expr(e.Test), Yes: r.expr(e.Yes), No: r.expr(e.No)}}

	default:
		panic(fmt.Sprintf("Unexpected expression of type %T", expr.Data))
	}
}

// Reads of an import become reads of whatever the import is bound to.
func (r *rewriter) identifier(loc logger.Loc, ref js_ast.Ref) js_ast.Expr {
	result, ok := r.c.imports[ref]
	if !ok {
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: ref}}
	}

	switch result.kind {
	case importFound:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: result.ref}}

	case importNamespace:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: r.c.namespaceRef(result.sourceIndex)}}

	case importUndefined:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUndefined{}}

	case importThrow:
		return r.c.callRuntime(loc, "__referenceError", js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: result.name}})

	default:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: ref}}
	}
}

// Returns the namespace the expression refers to if it's an identifier bound
// to a namespace object.
func (r *rewriter) namespaceImport(expr js_ast.Expr) (uint32, bool) {
	if id, ok := expr.Data.(*js_ast.EIdentifier); ok {
		if result, ok := r.c.imports[id.Ref]; ok && result.kind == importNamespace {
			return result.sourceIndex, true
		}
	}
	return 0, false
}

// Imports are read-only. Returns the name to report if assigning to "expr"
// would assign to an import or to a property of a namespace object.
func (r *rewriter) importTarget(expr js_ast.Expr) (string, bool) {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		if _, ok := r.c.imports[e.Ref]; ok {
			return r.c.graph.Symbols.Get(e.Ref).OriginalName, true
		}

	case *js_ast.EDot:
		if _, ok := r.namespaceImport(e.Target); ok {
			return e.Name, true
		}

	case *js_ast.EIndex:
		if str, ok := e.Index.Data.(*js_ast.EString); ok {
			if _, ok := r.namespaceImport(e.Target); ok {
				return str.Value, true
			}
		}
	}
	return "", false
}

// "delete ns.x" has to reach the namespace object itself. Exports are
// non-configurable properties, so deleting one throws in strict mode code
// just like it does for a real module namespace.
func (r *rewriter) namespaceProperty(expr js_ast.Expr) (js_ast.Expr, bool) {
	switch e := expr.Data.(type) {
	case *js_ast.EDot:
		if _, ok := r.namespaceImport(e.Target); ok {
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EDot{Target: r.expr(e.Target), Name: e.Name, NameLoc: e.NameLoc}}, true
		}

	case *js_ast.EIndex:
		if _, ok := r.namespaceImport(e.Target); ok {
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIndex{Target: r.expr(e.Target), Index: r.expr(e.Index)}}, true
		}
	}
	return js_ast.Expr{}, false
}

func (r *rewriter) reportImportAssignment(loc logger.Loc, name string) {
	c := r.c
	c.addConformanceError(logger.MsgID_Link_ImportAssignment, c.options.FatalImportAssignment,
		&r.module.Source, loc, fmt.Sprintf("Cannot assign to import %q", name))
}

func (r *rewriter) assignError(loc logger.Loc, name string, args ...js_ast.Expr) js_ast.Expr {
	args = append([]js_ast.Expr{{Loc: loc, Data: &js_ast.EString{Value: name}}}, args...)
	return r.c.callRuntime(loc, "__assignError", args...)
}

var assignOpBase = map[js_ast.OpCode]js_ast.OpCode{
	js_ast.BinOpAddAssign:               js_ast.BinOpAdd,
	js_ast.BinOpSubAssign:               js_ast.BinOpSub,
	js_ast.BinOpMulAssign:               js_ast.BinOpMul,
	js_ast.BinOpDivAssign:               js_ast.BinOpDiv,
	js_ast.BinOpRemAssign:               js_ast.BinOpRem,
	js_ast.BinOpPowAssign:               js_ast.BinOpPow,
	js_ast.BinOpShlAssign:               js_ast.BinOpShl,
	js_ast.BinOpShrAssign:               js_ast.BinOpShr,
	js_ast.BinOpUShrAssign:              js_ast.BinOpUShr,
	js_ast.BinOpBitwiseOrAssign:         js_ast.BinOpBitwiseOr,
	js_ast.BinOpBitwiseAndAssign:        js_ast.BinOpBitwiseAnd,
	js_ast.BinOpBitwiseXorAssign:        js_ast.BinOpBitwiseXor,
	js_ast.BinOpNullishCoalescingAssign: js_ast.BinOpNullishCoalescing,
	js_ast.BinOpLogicalOrAssign:         js_ast.BinOpLogicalOr,
	js_ast.BinOpLogicalAndAssign:        js_ast.BinOpLogicalAnd,
}

func isLogicalAssign(op js_ast.OpCode) bool {
	return op == js_ast.BinOpNullishCoalescingAssign || op == js_ast.BinOpLogicalOrAssign || op == js_ast.BinOpLogicalAndAssign
}

// "x = y" becomes "__assignError('x', y)". Logical assignments only assign
// when they short-circuit the other way, so "x ||= y" becomes
// "x || __assignError('x', y)". When assignments to imports are allowed the
// value is computed and the assignment itself is dropped.
func (r *rewriter) importAssign(loc logger.Loc, op js_ast.OpCode, left js_ast.Expr, right js_ast.Expr, name string) js_ast.Expr {
	r.reportImportAssignment(left.Loc, name)
	value := r.expr(right)

	if op == js_ast.BinOpAssign {
		if r.c.options.RejectsImportAssignment() {
			return r.assignError(loc, name, value)
		}
		return value
	}

	read := r.expr(left)
	base := assignOpBase[op]
	if r.c.options.RejectsImportAssignment() {
		if isLogicalAssign(op) {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: base, Left: read, Right: r.assignError(loc, name, value)}}
		}
		return r.assignError(loc, name, js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: base, Left: read, Right: value}})
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: base, Left: read, Right: value}}
}

// "x++" becomes "__assignError('x')". When assignments to imports are
// allowed it becomes the value the update would have produced.
func (r *rewriter) importUpdate(loc logger.Loc, op js_ast.OpCode, target js_ast.Expr, name string) js_ast.Expr {
	r.reportImportAssignment(target.Loc, name)
	if r.c.options.RejectsImportAssignment() {
		return r.assignError(loc, name)
	}

	value := js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPos, Value: r.expr(target)}}
	one := js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: 1}}
	switch op {
	case js_ast.UnOpPreInc:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpAdd, Left: value, Right: one}}
	case js_ast.UnOpPreDec:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: js_ast.BinOpSub, Left: value, Right: one}}
	}
	return value
}

// Rewrites a destructuring assignment pattern. An import inside the pattern
// is replaced with a target that throws when it's assigned to, or with a
// property of a throwaway object when assignments to imports are allowed.
func (r *rewriter) assignTarget(expr js_ast.Expr) js_ast.Expr {
	loc := expr.Loc

	if name, ok := r.importTarget(expr); ok {
		r.reportImportAssignment(loc, name)
		if r.c.options.RejectsImportAssignment() {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: r.assignError(loc, name), Name: name, NameLoc: loc}}
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: js_ast.Expr{Loc: loc, Data: &js_ast.EObject{}}, Name: name, NameLoc: loc}}
	}

	switch e := expr.Data.(type) {
	case *js_ast.EArray:
		items := make([]js_ast.Expr, len(e.Items))
		for i, item := range e.Items {
			items[i] = r.assignTarget(item)
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}

	case *js_ast.EObject:
		properties := make([]js_ast.Property, len(e.Properties))
		for i, property := range e.Properties {
			if property.IsComputed {
				property.Key = r.expr(property.Key)
			}
			if property.Value != nil {
				value := r.assignTarget(*property.Value)
				property.Value = &value
			}
			property.Initializer = r.exprPtr(property.Initializer)
			properties[i] = property
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}

	case *js_ast.ESpread:
		return js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: r.assignTarget(e.Value)}}

	case *js_ast.EBinary:
		// A default value
		if e.Op == js_ast.BinOpAssign {
			return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: e.Op, Left: r.assignTarget(e.Left), Right: r.expr(e.Right)}}
		}
	}

	return r.expr(expr)
}
