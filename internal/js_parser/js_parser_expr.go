package js_parser

import (
	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/js_lexer"
	"github.com/esmlink/esmlink/internal/logger"
)

func (p *parser) parseExpr(level js_ast.L) js_ast.Expr {
	return p.parseSuffix(p.parsePrefix(level), level)
}

func (p *parser) parseExprWithAllowIn(level js_ast.L) js_ast.Expr {
	oldAllowIn := p.allowIn
	p.allowIn = true
	expr := p.parseExpr(level)
	p.allowIn = oldAllowIn
	return expr
}

func (p *parser) parsePrefix(level js_ast.L) js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSuper:
		p.lexer.Next()
		switch p.lexer.Token {
		case js_lexer.TOpenParen, js_lexer.TDot, js_lexer.TOpenBracket:
		default:
			p.lexer.Unexpected()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}}

	case js_lexer.TOpenParen:
		return p.parseParenExpr(loc, level, false)

	case js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case js_lexer.TTrue:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TThis:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		nameRange := p.lexer.Range()
		raw := p.lexer.Raw()
		p.lexer.Next()

		// Handle async and await expressions
		switch raw {
		case "async":
			return p.parseAsyncPrefixExpr(nameRange, level)

		case "await":
			if !p.fnOrArrowData.isAsync && !p.fnOrArrowData.isOutsideFn {
				p.fail(nameRange, "Cannot use \"await\" outside an async function")
			}
			value := p.parseExpr(js_ast.LPrefix - 1)
			return js_ast.Expr{Loc: loc, Data: &js_ast.EAwait{Value: value}}

		case "yield":
			if !p.fnOrArrowData.isGenerator {
				p.fail(nameRange, "Cannot use \"yield\" outside a generator function")
			}
			if level > js_ast.LAssign {
				p.fail(nameRange, "Cannot use a \"yield\" expression here without parentheses")
			}
			return p.parseYieldExpr(loc)
		}

		// Handle the start of an arrow function
		if p.lexer.Token == js_lexer.TEqualsGreaterThan {
			return p.parseArrowFromIdentifier(loc, nameRange, name, false)
		}

		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: p.storeNameInRef(name)}}

	case js_lexer.TStringLiteral:
		value := p.lexer.StringValue
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: value}}

	case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
		return p.parseTemplate(loc, nil)

	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: value}}

	case js_lexer.TBigIntegerLiteral:
		value := p.lexer.Identifier
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBigInt{Value: value}}

	case js_lexer.TSlash, js_lexer.TSlashEquals:
		p.lexer.ScanRegExp()
		value := p.lexer.Raw()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ERegExp{Value: value}}

	case js_lexer.TVoid:
		return p.parseUnaryExpr(loc, js_ast.UnOpVoid)

	case js_lexer.TTypeof:
		return p.parseUnaryExpr(loc, js_ast.UnOpTypeof)

	case js_lexer.TDelete:
		expr := p.parseUnaryExpr(loc, js_ast.UnOpDelete)
		if _, ok := expr.Data.(*js_ast.EUnary).Value.Data.(*js_ast.EIdentifier); ok {
			p.addRangeError(logger.Range{Loc: loc, Len: 6}, "Delete of a bare identifier cannot be used in strict mode")
		}
		return expr

	case js_lexer.TMinus:
		return p.parseUnaryExpr(loc, js_ast.UnOpNeg)

	case js_lexer.TPlus:
		return p.parseUnaryExpr(loc, js_ast.UnOpPos)

	case js_lexer.TTilde:
		return p.parseUnaryExpr(loc, js_ast.UnOpCpl)

	case js_lexer.TExclamation:
		return p.parseUnaryExpr(loc, js_ast.UnOpNot)

	case js_lexer.TMinusMinus:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix - 1)
		p.checkAssignTarget(value, false)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreDec, Value: value}}

	case js_lexer.TPlusPlus:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix - 1)
		p.checkAssignTarget(value, false)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreInc, Value: value}}

	case js_lexer.TFunction:
		return p.parseFnExpr(loc, false)

	case js_lexer.TClass:
		classKeyword := p.lexer.Range()
		p.lexer.Next()
		var name *exprName
		if p.lexer.Token == js_lexer.TIdentifier {
			name = &exprName{loc: p.lexer.Loc(), text: p.lexer.Identifier}
			p.lexer.Next()
		}
		class := p.parseClass(classKeyword, nil, name)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TNew:
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TDot {
			p.fail(p.lexer.Range(), "\"new.target\" is not supported")
		}
		target := p.parseExpr(js_ast.LMember)
		args := []js_ast.Expr{}
		if p.lexer.Token == js_lexer.TOpenParen {
			args = p.parseCallArgs()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, Args: args}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.Expr{}
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBracket {
			switch p.lexer.Token {
			case js_lexer.TComma:
				items = append(items, js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EMissing{}})

			case js_lexer.TDotDotDot:
				dotsLoc := p.lexer.Loc()
				p.lexer.Next()
				item := p.parseExpr(js_ast.LComma)
				items = append(items, js_ast.Expr{Loc: dotsLoc, Data: &js_ast.ESpread{Value: item}})

			default:
				items = append(items, p.parseExpr(js_ast.LComma))
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.allowIn = oldAllowIn
		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		properties := []js_ast.Property{}
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBrace {
			properties = append(properties, p.parseProperty(propertyOpts{}))

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.allowIn = oldAllowIn
		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}

	case js_lexer.TImport:
		p.fail(p.lexer.Range(), "Dynamic \"import\" is not supported")
	}

	p.lexer.Unexpected()
	return js_ast.Expr{}
}

func (p *parser) parseUnaryExpr(loc logger.Loc, op js_ast.OpCode) js_ast.Expr {
	p.lexer.Next()
	value := p.parseExpr(js_ast.LPrefix - 1)

	// "-x ** 2" is ambiguous and must be parenthesized
	if p.lexer.Token == js_lexer.TAsteriskAsterisk {
		p.lexer.Unexpected()
	}

	return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: value}}
}

func (p *parser) parseYieldExpr(loc logger.Loc) js_ast.Expr {
	isStar := false
	var value *js_ast.Expr

	switch p.lexer.Token {
	case js_lexer.TCloseBrace, js_lexer.TCloseBracket, js_lexer.TCloseParen,
		js_lexer.TColon, js_lexer.TComma, js_lexer.TSemicolon, js_lexer.TEndOfFile:

	default:
		if p.lexer.Token == js_lexer.TAsterisk {
			isStar = true
			p.lexer.Next()
		}
		if isStar || !p.lexer.HasNewlineBefore {
			expr := p.parseExpr(js_ast.LYield)
			value = &expr
		}
	}

	return js_ast.Expr{Loc: loc, Data: &js_ast.EYield{Value: value, IsStar: isStar}}
}

// This parses everything after the "async" identifier. It may turn out to be
// an async function, an async arrow function, a call to a function called
// "async", or just the identifier "async".
func (p *parser) parseAsyncPrefixExpr(asyncRange logger.Range, level js_ast.L) js_ast.Expr {
	if !p.lexer.HasNewlineBefore {
		switch p.lexer.Token {
		// "async function() {}"
		case js_lexer.TFunction:
			return p.parseFnExpr(asyncRange.Loc, true)

		// "async => {}"
		case js_lexer.TEqualsGreaterThan:
			return p.parseArrowFromIdentifier(asyncRange.Loc, asyncRange, "async", false)

		// "async x => {}"
		case js_lexer.TIdentifier:
			nameRange := p.lexer.Range()
			name := p.lexer.Identifier
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TEqualsGreaterThan {
				p.lexer.Expected(js_lexer.TEqualsGreaterThan)
			}
			return p.parseArrowFromIdentifier(asyncRange.Loc, nameRange, name, true)

		// "async()"
		// "async () => {}"
		case js_lexer.TOpenParen:
			return p.parseParenExpr(asyncRange.Loc, level, true)
		}
	}

	// "async"
	return js_ast.Expr{Loc: asyncRange.Loc, Data: &js_ast.EIdentifier{Ref: p.storeNameInRef("async")}}
}

func (p *parser) parseFnExpr(loc logger.Loc, isAsync bool) js_ast.Expr {
	p.lexer.Expect(js_lexer.TFunction)
	isGenerator := p.lexer.Token == js_lexer.TAsterisk
	if isGenerator {
		p.lexer.Next()
	}

	var name *exprName
	if p.lexer.Token == js_lexer.TIdentifier {
		name = &exprName{loc: p.lexer.Loc(), text: p.lexer.Identifier}
		p.lexer.Next()
	}

	fn := p.parseFn(nil, name, fnOrArrowData{isAsync: isAsync, isGenerator: isGenerator})
	return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}
}

// An arrow function with a single parameter and no parentheses. The scope
// for the parameter is pushed at "loc", which is where the arrow expression
// starts.
func (p *parser) parseArrowFromIdentifier(loc logger.Loc, nameRange logger.Range, name string, isAsync bool) js_ast.Expr {
	p.pushScopeForParsePass(js_ast.ScopeFunctionArgs, loc)
	defer p.popScope()

	ref := p.declareBinding(js_ast.SymbolHoisted, nameRange.Loc, name)
	args := []js_ast.Arg{{Binding: js_ast.Binding{Loc: nameRange.Loc, Data: &js_ast.BIdentifier{Ref: ref}}}}
	body, preferExpr := p.parseArrowBody(isAsync)
	return js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{
		Args:       args,
		Body:       body,
		IsAsync:    isAsync,
		PreferExpr: preferExpr,
	}}
}

func (p *parser) parseArrowBody(isAsync bool) (js_ast.FnBody, bool) {
	if p.lexer.HasNewlineBefore {
		p.fail(p.lexer.Range(), "Unexpected newline before \"=>\"")
	}
	p.lexer.Expect(js_lexer.TEqualsGreaterThan)

	oldFnOrArrowData := p.fnOrArrowData
	p.fnOrArrowData = fnOrArrowData{isAsync: isAsync}
	defer func() { p.fnOrArrowData = oldFnOrArrowData }()

	loc := p.lexer.Loc()
	p.pushScopeForParsePass(js_ast.ScopeFunctionBody, loc)
	defer p.popScope()

	if p.lexer.Token == js_lexer.TOpenBrace {
		oldAllowIn := p.allowIn
		p.allowIn = true
		p.lexer.Next()
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowDirectives: true})
		p.lexer.Next()
		p.allowIn = oldAllowIn
		return js_ast.FnBody{Loc: loc, Stmts: stmts}, false
	}

	value := p.parseExpr(js_ast.LComma)
	return js_ast.FnBody{Loc: loc, Stmts: []js_ast.Stmt{{Loc: value.Loc, Data: &js_ast.SReturn{Value: &value}}}}, true
}

// This assumes that the open parenthesis hasn't been parsed yet. The
// contents are parsed as expressions in a speculative argument scope. If an
// arrow follows, the expressions are converted to bindings. Otherwise the
// scope is flattened into its parent and the result is an ordinary
// parenthesized expression (or a call to "async").
func (p *parser) parseParenExpr(loc logger.Loc, level js_ast.L, isAsync bool) js_ast.Expr {
	scopeIndex := p.pushScopeForParsePass(js_ast.ScopeFunctionArgs, loc)
	p.lexer.Expect(js_lexer.TOpenParen)

	items := []js_ast.Expr{}
	spreadRange := logger.Range{}
	commaAfterSpread := false
	trailingComma := logger.Range{}

	oldAllowIn := p.allowIn
	p.allowIn = true

	for p.lexer.Token != js_lexer.TCloseParen {
		itemLoc := p.lexer.Loc()
		isSpread := p.lexer.Token == js_lexer.TDotDotDot
		if isSpread {
			spreadRange = p.lexer.Range()
			p.lexer.Next()
		}

		item := p.parseExpr(js_ast.LComma)
		if isSpread {
			item = js_ast.Expr{Loc: itemLoc, Data: &js_ast.ESpread{Value: item}}
		}
		items = append(items, item)

		if p.lexer.Token != js_lexer.TComma {
			trailingComma = logger.Range{}
			break
		}
		if isSpread {
			commaAfterSpread = true
		}
		trailingComma = p.lexer.Range()
		p.lexer.Next()
	}

	p.allowIn = oldAllowIn
	p.lexer.Expect(js_lexer.TCloseParen)

	// Are these arguments to an arrow function?
	if p.lexer.Token == js_lexer.TEqualsGreaterThan {
		if commaAfterSpread {
			p.fail(spreadRange, "Unexpected \"...\"")
		}

		args := []js_ast.Arg{}
		hasRestArg := false
		for i, item := range items {
			if spread, ok := item.Data.(*js_ast.ESpread); ok && i+1 == len(items) {
				item = spread.Value
				hasRestArg = true
			}
			binding, initializer := p.convertExprToBindingAndInitializer(item)
			args = append(args, js_ast.Arg{Binding: binding, Default: initializer})
		}

		body, preferExpr := p.parseArrowBody(isAsync)
		p.popScope()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{
			Args:       args,
			Body:       body,
			IsAsync:    isAsync,
			HasRestArg: hasRestArg,
			PreferExpr: preferExpr,
		}}
	}

	// This wasn't an arrow function, so the speculative scope goes away
	p.popAndFlattenScope(scopeIndex)

	// "async()" is a call to a function called "async"
	if isAsync {
		target := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: p.storeNameInRef("async")}}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: target, Args: items}}
	}

	// "()" is only valid as the argument list of an arrow function
	if len(items) == 0 {
		p.lexer.Expected(js_lexer.TEqualsGreaterThan)
	}

	if trailingComma.Len > 0 {
		p.fail(trailingComma, "Unexpected \",\"")
	}

	if spreadRange.Len > 0 {
		p.fail(spreadRange, "Unexpected \"...\"")
	}

	return js_ast.JoinAllWithComma(items)
}

func (p *parser) convertExprToBindingAndInitializer(expr js_ast.Expr) (js_ast.Binding, *js_ast.Expr) {
	var initializer *js_ast.Expr
	if assign, ok := expr.Data.(*js_ast.EBinary); ok && assign.Op == js_ast.BinOpAssign {
		initializer = &assign.Right
		expr = assign.Left
	}
	return p.convertExprToBinding(expr), initializer
}

func (p *parser) convertExprToBinding(expr js_ast.Expr) js_ast.Binding {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BMissing{}}

	case *js_ast.EIdentifier:
		ref := p.declareBinding(js_ast.SymbolHoisted, expr.Loc, p.loadNameFromRef(e.Ref))
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BIdentifier{Ref: ref}}

	case *js_ast.EArray:
		items := []js_ast.ArrayBinding{}
		hasSpread := false
		for i, item := range e.Items {
			if spread, ok := item.Data.(*js_ast.ESpread); ok {
				if i+1 != len(e.Items) {
					p.fail(logger.Range{Loc: item.Loc, Len: 3}, "Unexpected \"...\"")
				}
				hasSpread = true
				item = spread.Value
			}
			binding, initializer := p.convertExprToBindingAndInitializer(item)
			items = append(items, js_ast.ArrayBinding{Binding: binding, DefaultValue: initializer})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BArray{Items: items, HasSpread: hasSpread}}

	case *js_ast.EObject:
		properties := []js_ast.PropertyBinding{}
		for _, property := range e.Properties {
			if property.IsMethod || property.Kind == js_ast.PropertyGet || property.Kind == js_ast.PropertySet {
				p.fail(logger.Range{Loc: property.Key.Loc}, "Invalid binding pattern")
			}
			binding, initializer := p.convertExprToBindingAndInitializer(*property.Value)
			if initializer == nil {
				initializer = property.Initializer
			}
			properties = append(properties, js_ast.PropertyBinding{
				Key:          property.Key,
				Value:        binding,
				DefaultValue: initializer,
				IsComputed:   property.IsComputed,
				IsSpread:     property.Kind == js_ast.PropertySpread,
			})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BObject{Properties: properties}}
	}

	p.fail(logger.Range{Loc: expr.Loc}, "Invalid binding pattern")
	return js_ast.Binding{}
}

func (p *parser) checkAssignTarget(expr js_ast.Expr, allowPattern bool) {
	switch expr.Data.(type) {
	case *js_ast.EIdentifier, *js_ast.EDot, *js_ast.EIndex:
		return

	case *js_ast.EArray, *js_ast.EObject:
		if allowPattern {
			return
		}
	}
	p.fail(logger.Range{Loc: expr.Loc}, "Invalid assignment target")
}

func (p *parser) parseCallArgs() []js_ast.Expr {
	oldAllowIn := p.allowIn
	p.allowIn = true

	args := []js_ast.Expr{}
	p.lexer.Expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		loc := p.lexer.Loc()
		isSpread := p.lexer.Token == js_lexer.TDotDotDot
		if isSpread {
			p.lexer.Next()
		}
		arg := p.parseExpr(js_ast.LComma)
		if isSpread {
			arg = js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: arg}}
		}
		args = append(args, arg)
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	p.allowIn = oldAllowIn
	return args
}

// Template literals keep their raw text. Escapes are never decoded, so the
// printed template is byte-for-byte what the author wrote.
func (p *parser) parseTemplate(loc logger.Loc, tag *js_ast.Expr) js_ast.Expr {
	headLoc := p.lexer.Loc()
	headRaw := p.lexer.RawTemplateContents()
	parts := []js_ast.TemplatePart{}

	if p.lexer.Token == js_lexer.TTemplateHead {
		oldAllowIn := p.allowIn
		p.allowIn = true

		for {
			p.lexer.Next()
			value := p.parseExpr(js_ast.LLowest)
			if p.lexer.Token != js_lexer.TCloseBrace {
				p.lexer.Expected(js_lexer.TCloseBrace)
			}
			p.lexer.RescanCloseBraceAsTemplateToken()
			tailLoc := p.lexer.Loc()
			tailRaw := p.lexer.RawTemplateContents()
			parts = append(parts, js_ast.TemplatePart{Value: value, TailLoc: tailLoc, TailRaw: tailRaw})
			if p.lexer.Token == js_lexer.TTemplateTail {
				break
			}
		}

		p.allowIn = oldAllowIn
	}

	p.lexer.Next()
	return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{Tag: tag, HeadLoc: headLoc, HeadRaw: headRaw, Parts: parts}}
}

type propertyOpts struct {
	isClass     bool
	isStatic    bool
	isAsync     bool
	isGenerator bool
	kind        js_ast.PropertyKind
}

func (opts propertyOpts) hasModifier() bool {
	return opts.isAsync || opts.isGenerator || opts.kind != js_ast.PropertyNormal
}

// Parses a property of an object literal or a member of a class body.
// Modifiers like "get" and "static" are only modifiers when something other
// than punctuation follows them, so they are parsed as a key first.
func (p *parser) parseProperty(opts propertyOpts) js_ast.Property {
	var key js_ast.Expr
	isComputed := false

	if p.lexer.Token == js_lexer.TDotDotDot && !opts.isClass && !opts.hasModifier() {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LComma)
		return js_ast.Property{
			Kind:  js_ast.PropertySpread,
			Key:   js_ast.Expr{Loc: value.Loc, Data: &js_ast.EMissing{}},
			Value: &value,
		}
	}

	if p.lexer.Token == js_lexer.TAsterisk {
		if opts.isGenerator || opts.kind != js_ast.PropertyNormal {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
		opts.isGenerator = true
	}

	keyLoc := p.lexer.Loc()
	switch p.lexer.Token {
	case js_lexer.TNumericLiteral:
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.ENumber{Value: p.lexer.Number}}
		p.lexer.Next()

	case js_lexer.TStringLiteral:
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: p.lexer.StringValue}}
		p.lexer.Next()

	case js_lexer.TBigIntegerLiteral:
		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EBigInt{Value: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		key = p.parseExprWithAllowIn(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		name := p.lexer.Identifier
		nameRange := p.lexer.Range()
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		p.lexer.Next()

		// Support contextual keywords
		if isIdentifier && !opts.hasModifier() && !p.isPropertyKeyTerminator() {
			switch name {
			case "get":
				opts.kind = js_ast.PropertyGet
				return p.parseProperty(opts)

			case "set":
				opts.kind = js_ast.PropertySet
				return p.parseProperty(opts)

			case "async":
				if !p.lexer.HasNewlineBefore {
					opts.isAsync = true
					return p.parseProperty(opts)
				}

			case "static":
				if opts.isClass && !opts.isStatic {
					opts.isStatic = true
					return p.parseProperty(opts)
				}
			}
		}

		key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: name}}

		// Parse a shorthand property
		if !opts.isClass && !opts.hasModifier() && (p.lexer.Token == js_lexer.TComma ||
			p.lexer.Token == js_lexer.TCloseBrace || p.lexer.Token == js_lexer.TEquals) {
			if !isIdentifier {
				p.fail(nameRange, "Expected identifier but found \""+name+"\"")
			}
			value := js_ast.Expr{Loc: keyLoc, Data: &js_ast.EIdentifier{Ref: p.storeNameInRef(name)}}

			// This is only valid if the object literal turns out to be a pattern
			var initializer *js_ast.Expr
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				expr := p.parseExpr(js_ast.LComma)
				initializer = &expr
			}

			return js_ast.Property{
				Key:          key,
				Value:        &value,
				Initializer:  initializer,
				WasShorthand: true,
			}
		}
	}

	// Parse a class field with an optional initial value
	if opts.isClass && !opts.hasModifier() && p.lexer.Token != js_lexer.TOpenParen {
		var initializer *js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			expr := p.parseExprWithAllowIn(js_ast.LComma)
			initializer = &expr
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Property{
			Key:         key,
			Initializer: initializer,
			IsComputed:  isComputed,
			IsStatic:    opts.isStatic,
		}
	}

	// Parse a method expression
	if p.lexer.Token == js_lexer.TOpenParen || opts.hasModifier() || opts.isClass {
		fn := p.parseFn(nil, nil, fnOrArrowData{isAsync: opts.isAsync, isGenerator: opts.isGenerator})
		if opts.kind == js_ast.PropertyGet && len(fn.Args) != 0 {
			p.addRangeError(logger.Range{Loc: fn.OpenParenLoc}, "Getter functions must have no arguments")
		}
		if opts.kind == js_ast.PropertySet && (len(fn.Args) != 1 || fn.HasRestArg) {
			p.addRangeError(logger.Range{Loc: fn.OpenParenLoc}, "Setter functions must have one argument")
		}
		value := js_ast.Expr{Loc: fn.OpenParenLoc, Data: &js_ast.EFunction{Fn: fn}}
		return js_ast.Property{
			Kind:       opts.kind,
			Key:        key,
			Value:      &value,
			IsComputed: isComputed,
			IsMethod:   true,
			IsStatic:   opts.isStatic,
		}
	}

	p.lexer.Expect(js_lexer.TColon)
	value := p.parseExprWithAllowIn(js_ast.LComma)
	return js_ast.Property{
		Key:        key,
		Value:      &value,
		IsComputed: isComputed,
	}
}

func (p *parser) isPropertyKeyTerminator() bool {
	switch p.lexer.Token {
	case js_lexer.TOpenParen, js_lexer.TColon, js_lexer.TComma, js_lexer.TCloseBrace,
		js_lexer.TEquals, js_lexer.TSemicolon:
		return true
	}
	return false
}

func (p *parser) parseSuffix(left js_ast.Expr, level js_ast.L) js_ast.Expr {
	for {
		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			nameLoc := p.lexer.Loc()
			name := p.lexer.Identifier
			if !p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Expect(js_lexer.TIdentifier)
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EDot{Target: left, Name: name, NameLoc: nameLoc}}

		case js_lexer.TOpenBracket:
			p.lexer.Next()
			index := p.parseExprWithAllowIn(js_ast.LLowest)
			p.lexer.Expect(js_lexer.TCloseBracket)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{Target: left, Index: index}}

		case js_lexer.TOpenParen:
			if level >= js_ast.LCall {
				return left
			}
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{Target: left, Args: p.parseCallArgs()}}

		case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
			tag := left
			left = p.parseTemplate(left.Loc, &tag)

		case js_lexer.TQuestion:
			if level >= js_ast.LConditional {
				return left
			}
			p.lexer.Next()

			// Allow "in" inside the conditional branches
			yes := p.parseExprWithAllowIn(js_ast.LComma)
			p.lexer.Expect(js_lexer.TColon)
			no := p.parseExpr(js_ast.LComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIf{Test: left, Yes: yes, No: no}}

		case js_lexer.TMinusMinus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			p.checkAssignTarget(left, false)
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPostDec, Value: left}}

		case js_lexer.TPlusPlus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			p.checkAssignTarget(left, false)
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPostInc, Value: left}}

		case js_lexer.TComma:
			if level >= js_ast.LComma {
				return left
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpComma, Left: left, Right: p.parseExpr(js_ast.LComma)}}

		case js_lexer.TEquals:
			if level >= js_ast.LAssign {
				return left
			}
			p.checkAssignTarget(left, true)
			p.lexer.Next()
			left = js_ast.Assign(left, p.parseExpr(js_ast.LAssign-1))

		case js_lexer.TIn:
			if level >= js_ast.LCompare || !p.allowIn {
				return left
			}
			left = p.parseBinarySuffix(left, js_ast.BinOpIn, js_ast.LCompare)

		default:
			if op, ok := binaryOps[p.lexer.Token]; ok {
				opLevel := js_ast.OpTable[op].Level
				if level >= opLevel {
					return left
				}
				if op.IsAssign() {
					// Compound assignment is right-associative
					p.checkAssignTarget(left, false)
					p.lexer.Next()
					left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: p.parseExpr(js_ast.LAssign - 1)}}
				} else if op == js_ast.BinOpPow {
					p.lexer.Next()
					left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: p.parseExpr(js_ast.LExponentiation - 1)}}
				} else {
					left = p.parseBinarySuffix(left, op, opLevel)
				}
				continue
			}
			return left
		}
	}
}

func (p *parser) parseBinarySuffix(left js_ast.Expr, op js_ast.OpCode, level js_ast.L) js_ast.Expr {
	p.lexer.Next()
	return js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: p.parseExpr(level)}}
}

// Tokens that always continue an expression as a binary operator. "in",
// "=" and "," need extra checks and are handled separately.
var binaryOps = map[js_lexer.T]js_ast.OpCode{
	js_lexer.TPlus:                              js_ast.BinOpAdd,
	js_lexer.TMinus:                             js_ast.BinOpSub,
	js_lexer.TAsterisk:                          js_ast.BinOpMul,
	js_lexer.TSlash:                             js_ast.BinOpDiv,
	js_lexer.TPercent:                           js_ast.BinOpRem,
	js_lexer.TAsteriskAsterisk:                  js_ast.BinOpPow,
	js_lexer.TLessThan:                          js_ast.BinOpLt,
	js_lexer.TLessThanEquals:                    js_ast.BinOpLe,
	js_lexer.TGreaterThan:                       js_ast.BinOpGt,
	js_lexer.TGreaterThanEquals:                 js_ast.BinOpGe,
	js_lexer.TInstanceof:                        js_ast.BinOpInstanceof,
	js_lexer.TLessThanLessThan:                  js_ast.BinOpShl,
	js_lexer.TGreaterThanGreaterThan:            js_ast.BinOpShr,
	js_lexer.TGreaterThanGreaterThanGreaterThan: js_ast.BinOpUShr,
	js_lexer.TEqualsEquals:                      js_ast.BinOpLooseEq,
	js_lexer.TExclamationEquals:                 js_ast.BinOpLooseNe,
	js_lexer.TEqualsEqualsEquals:                js_ast.BinOpStrictEq,
	js_lexer.TExclamationEqualsEquals:           js_ast.BinOpStrictNe,
	js_lexer.TQuestionQuestion:                  js_ast.BinOpNullishCoalescing,
	js_lexer.TBarBar:                            js_ast.BinOpLogicalOr,
	js_lexer.TAmpersandAmpersand:                js_ast.BinOpLogicalAnd,
	js_lexer.TBar:                               js_ast.BinOpBitwiseOr,
	js_lexer.TAmpersand:                         js_ast.BinOpBitwiseAnd,
	js_lexer.TCaret:                             js_ast.BinOpBitwiseXor,

	js_lexer.TPlusEquals:                              js_ast.BinOpAddAssign,
	js_lexer.TMinusEquals:                             js_ast.BinOpSubAssign,
	js_lexer.TAsteriskEquals:                          js_ast.BinOpMulAssign,
	js_lexer.TSlashEquals:                             js_ast.BinOpDivAssign,
	js_lexer.TPercentEquals:                           js_ast.BinOpRemAssign,
	js_lexer.TAsteriskAsteriskEquals:                  js_ast.BinOpPowAssign,
	js_lexer.TLessThanLessThanEquals:                  js_ast.BinOpShlAssign,
	js_lexer.TGreaterThanGreaterThanEquals:            js_ast.BinOpShrAssign,
	js_lexer.TGreaterThanGreaterThanGreaterThanEquals: js_ast.BinOpUShrAssign,
	js_lexer.TBarEquals:                               js_ast.BinOpBitwiseOrAssign,
	js_lexer.TAmpersandEquals:                         js_ast.BinOpBitwiseAndAssign,
	js_lexer.TCaretEquals:                             js_ast.BinOpBitwiseXorAssign,
	js_lexer.TQuestionQuestionEquals:                  js_ast.BinOpNullishCoalescingAssign,
	js_lexer.TBarBarEquals:                            js_ast.BinOpLogicalOrAssign,
	js_lexer.TAmpersandAmpersandEquals:                js_ast.BinOpLogicalAndAssign,
}
