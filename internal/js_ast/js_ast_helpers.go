package js_ast

import "github.com/esmlink/esmlink/internal/logger"

func JoinAllWithComma(all []Expr) (result Expr) {
	for i, value := range all {
		if i == 0 {
			result = value
		} else {
			result = JoinWithComma(result, value)
		}
	}
	return
}

// Calls "visit" for every identifier bound by the binding, in source order.
// Object and array patterns are recursed into.
func ForEachIdentifierBinding(binding Binding, visit func(loc logger.Loc, ref Ref)) {
	switch b := binding.Data.(type) {
	case *BMissing:

	case *BIdentifier:
		visit(binding.Loc, b.Ref)

	case *BArray:
		for _, item := range b.Items {
			ForEachIdentifierBinding(item.Binding, visit)
		}

	case *BObject:
		for _, property := range b.Properties {
			ForEachIdentifierBinding(property.Value, visit)
		}

	default:
		panic("Internal error")
	}
}

func ForEachIdentifierBindingInDecls(decls []Decl, visit func(loc logger.Loc, ref Ref)) {
	for _, decl := range decls {
		ForEachIdentifierBinding(decl.Binding, visit)
	}
}

func ConvertBindingToExpr(binding Binding) Expr {
	loc := binding.Loc

	switch b := binding.Data.(type) {
	case *BMissing:
		return Expr{Loc: loc, Data: &EMissing{}}

	case *BIdentifier:
		return Expr{Loc: loc, Data: &EIdentifier{Ref: b.Ref}}

	case *BArray:
		exprs := make([]Expr, len(b.Items))
		for i, item := range b.Items {
			expr := ConvertBindingToExpr(item.Binding)
			if b.HasSpread && i+1 == len(b.Items) {
				expr = Expr{Loc: expr.Loc, Data: &ESpread{Value: expr}}
			} else if item.DefaultValue != nil {
				expr = Assign(expr, *item.DefaultValue)
			}
			exprs[i] = expr
		}
		return Expr{Loc: loc, Data: &EArray{Items: exprs}}

	case *BObject:
		properties := make([]Property, len(b.Properties))
		for i, property := range b.Properties {
			value := ConvertBindingToExpr(property.Value)
			kind := PropertyNormal
			if property.IsSpread {
				kind = PropertySpread
			}
			properties[i] = Property{
				Kind:        kind,
				IsComputed:  property.IsComputed,
				Key:         property.Key,
				Value:       &value,
				Initializer: property.DefaultValue,
			}
		}
		return Expr{Loc: loc, Data: &EObject{Properties: properties}}

	default:
		panic("Internal error")
	}
}

// Returns true if evaluating this expression can't have a side effect. Only
// the forms the dead code eliminator trusts are recognized: literals, regular
// expressions and function, arrow and class expressions. A class expression
// counts only when its heritage and computed keys are themselves side-effect
// free and it has no static field initializers.
func IsSideEffectFreeInitializer(expr Expr) bool {
	switch e := expr.Data.(type) {
	case *ENull, *EUndefined, *EBoolean, *ENumber, *EBigInt, *EString,
		*ERegExp, *EFunction, *EArrow:
		return true

	case *ETemplate:
		return e.Tag == nil && len(e.Parts) == 0

	case *EUnary:
		// "void 0" and negative numbers
		if e.Op == UnOpVoid || e.Op == UnOpNeg {
			switch e.Value.Data.(type) {
			case *ENumber:
				return true
			}
		}

	case *EClass:
		return IsSideEffectFreeClass(&e.Class)
	}

	return false
}

func IsSideEffectFreeClass(class *Class) bool {
	if class.Extends != nil && !IsSideEffectFreeInitializer(*class.Extends) {
		return false
	}
	for _, property := range class.Properties {
		if property.IsComputed {
			return false
		}
		if property.IsStatic && !property.IsMethod && property.Kind == PropertyNormal {
			return false
		}
	}
	return true
}
