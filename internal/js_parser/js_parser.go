package js_parser

import (
	"fmt"

	"github.com/esmlink/esmlink/internal/ast"
	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/js_lexer"
	"github.com/esmlink/esmlink/internal/logger"
)

// This parser does two passes:
//
//  1. Parse the source into an AST, create the scope tree, and declare
//     symbols.
//
//  2. Visit each node in the AST and bind identifiers to declared symbols.
//     Identifiers that aren't declared anywhere in the module become unbound
//     symbols, the module's "through" names.
//
// We need two separate passes to handle variable hoisting: a reference can
// appear before the "var" or function declaration it binds to. See the
// comment about scopesInOrder below for more information.
type parser struct {
	log            logger.Log
	source         logger.Source
	lexer          js_lexer.Lexer
	allowIn        bool
	hadErrors      bool
	fnOrArrowData  fnOrArrowData
	allocatedNames []string
	currentScope   *js_ast.Scope
	moduleScope    *js_ast.Scope
	symbols        []js_ast.Symbol
	importRecords  []ast.ImportRecord
	defaultRef     js_ast.Ref

	// The visit pass binds "this" at the top level of the module differently
	// from "this" inside functions and class bodies.
	thisIsModuleThis bool
	hasTopLevelThis  bool

	// The parse pass creates scopes and declares symbols. The visit pass binds
	// all identifiers to their symbols. The visit pass needs to traverse the
	// scope tree in the same order as the parse pass so each node finds the
	// scope it was parsed in. This list records the order in which scopes are
	// created; the visit pass consumes it from the front.
	scopesInOrder []scopeOrder
}

type scopeOrder struct {
	loc   logger.Loc
	scope *js_ast.Scope
}

type fnOrArrowData struct {
	isAsync     bool
	isGenerator bool
	isOutsideFn bool
}

type parseStmtOpts struct {
	isModuleScope   bool
	isExport        bool
	isNameOptional  bool // For "export default" pseudo-statements
	allowDirectives bool
}

// Parses an ES module. Module code is always strict mode code. Errors are
// reported to the log; the returned tree is only valid if "ok" is true.
func Parse(log logger.Log, source logger.Source) (result js_ast.AST, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := newParser(log, source)
	p.lexer = js_lexer.NewLexer(log, source)

	hashbang := ""
	if p.lexer.Token == js_lexer.THashbang {
		hashbang = p.lexer.Identifier
		p.lexer.Next()
	}

	stmts := p.parseStmtsUpTo(js_lexer.TEndOfFile, parseStmtOpts{isModuleScope: true, allowDirectives: true})
	p.prepareForVisitPass()
	p.visitStmts(stmts)

	if p.hadErrors {
		ok = false
		return
	}

	result = js_ast.AST{
		Stmts:             stmts,
		Symbols:           p.symbols,
		ModuleScope:       p.moduleScope,
		ImportRecords:     p.importRecords,
		DefaultRef:        p.defaultRef,
		HashbangDirective: hashbang,
		HasTopLevelThis:   p.hasTopLevelThis,
	}
	return
}

func newParser(log logger.Log, source logger.Source) *parser {
	p := &parser{
		log:           log,
		source:        source,
		allowIn:       true,
		defaultRef:    js_ast.InvalidRef,
		fnOrArrowData: fnOrArrowData{isOutsideFn: true},
	}
	p.moduleScope = &js_ast.Scope{
		Kind:    js_ast.ScopeModule,
		Members: make(map[string]js_ast.ScopeMember),
	}
	p.currentScope = p.moduleScope
	return p
}

func (p *parser) addRangeError(r logger.Range, text string) {
	p.hadErrors = true
	p.log.AddRangeError(&p.source, r, text)
}

// Reports an error that the parser can't recover from.
func (p *parser) fail(r logger.Range, text string) {
	p.addRangeError(r, text)
	panic(js_lexer.LexerPanic{})
}

func (p *parser) pushScopeForParsePass(kind js_ast.ScopeKind, loc logger.Loc) int {
	parent := p.currentScope
	scope := &js_ast.Scope{
		Kind:    kind,
		Parent:  parent,
		Members: make(map[string]js_ast.ScopeMember),
	}
	parent.Children = append(parent.Children, scope)
	p.currentScope = scope

	// Copy down function arguments into the function body scope. That way we get
	// errors if a statement in the function body tries to re-declare any of the
	// arguments.
	if kind == js_ast.ScopeFunctionBody {
		if parent.Kind != js_ast.ScopeFunctionArgs {
			panic("Internal error")
		}
		for name, member := range parent.Members {
			// Don't copy down the optional function expression name. Re-declaring
			// the name of a function expression is allowed.
			if p.symbols[member.Ref.InnerIndex].Kind != js_ast.SymbolExpressionName {
				scope.Members[name] = member
			}
		}
	}

	// Remember the length in case we call popAndFlattenScope() later
	scopeIndex := len(p.scopesInOrder)
	p.scopesInOrder = append(p.scopesInOrder, scopeOrder{loc, scope})
	return scopeIndex
}

func (p *parser) popScope() {
	p.currentScope = p.currentScope.Parent
}

func (p *parser) popAndFlattenScope(scopeIndex int) {
	// Move up to the parent scope
	toFlatten := p.currentScope
	parent := toFlatten.Parent
	p.currentScope = parent

	// Erase this scope from the order. This will shift over the indices of all
	// the scopes that were created after us. These scopes were all created in
	// between this scope's push and pop operations, so they are all child
	// scopes and have all been popped by the time we get here.
	copy(p.scopesInOrder[scopeIndex:], p.scopesInOrder[scopeIndex+1:])
	p.scopesInOrder = p.scopesInOrder[:len(p.scopesInOrder)-1]

	// Remove the last child from the parent scope
	last := len(parent.Children) - 1
	if parent.Children[last] != toFlatten {
		panic("Internal error")
	}
	parent.Children = parent.Children[:last]

	// Reparent our child scopes into our parent
	for _, scope := range toFlatten.Children {
		scope.Parent = parent
		parent.Children = append(parent.Children, scope)
	}
}

func (p *parser) newSymbol(kind js_ast.SymbolKind, name string) js_ast.Ref {
	ref := js_ast.Ref{SourceIndex: p.source.Index, InnerIndex: uint32(len(p.symbols))}
	p.symbols = append(p.symbols, js_ast.Symbol{
		Kind:         kind,
		OriginalName: name,
		Link:         js_ast.InvalidRef,
	})
	return ref
}

func (p *parser) addSymbolAlreadyDeclaredError(name string, loc logger.Loc) {
	r := p.source.RangeOfIdentifier(loc)
	p.addRangeError(r, fmt.Sprintf("The symbol %q has already been declared", name))
}

// Whether a new declaration can share a name with an existing member of the
// same scope. Only "var", function parameters and function declarations
// directly inside a function or module body can be repeated.
func canMergeSymbols(existing js_ast.SymbolKind, new js_ast.SymbolKind) bool {
	return existing.IsHoisted() && new.IsHoisted()
}

func (p *parser) declareSymbol(kind js_ast.SymbolKind, loc logger.Loc, name string) js_ast.Ref {
	p.checkBindingName(loc, name)

	// Check for a collision in the declaring scope
	if existing, ok := p.currentScope.Members[name]; ok {
		symbol := &p.symbols[existing.Ref.InnerIndex]
		if !canMergeSymbols(symbol.Kind, kind) {
			p.addSymbolAlreadyDeclaredError(name, loc)
			return existing.Ref
		}
		if kind == js_ast.SymbolHoistedFunction {
			symbol.Kind = kind
		}
		return existing.Ref
	}

	ref := p.newSymbol(kind, name)
	p.currentScope.Members[name] = js_ast.ScopeMember{Ref: ref, Loc: loc}
	return ref
}

// "var" declarations belong to the nearest enclosing function or module body
// no matter which block they appear in. The symbol is also recorded in every
// block it passes through so a later "let" of the same name in one of those
// blocks is reported as a redeclaration.
func (p *parser) declareHoistedSymbol(loc logger.Loc, name string) js_ast.Ref {
	p.checkBindingName(loc, name)

	var passedThrough []*js_ast.Scope
	s := p.currentScope
	for !s.Kind.StopsHoisting() {
		if existing, ok := s.Members[name]; ok {
			kind := p.symbols[existing.Ref.InnerIndex].Kind
			if kind != js_ast.SymbolHoisted && kind != js_ast.SymbolCatchIdentifier {
				p.addSymbolAlreadyDeclaredError(name, loc)
				return existing.Ref
			}
		} else {
			passedThrough = append(passedThrough, s)
		}
		s = s.Parent
	}

	var ref js_ast.Ref
	if existing, ok := s.Members[name]; ok {
		// Strict mode code can't repeat a parameter name
		if s.Kind == js_ast.ScopeFunctionArgs || !p.symbols[existing.Ref.InnerIndex].Kind.IsHoisted() {
			p.addSymbolAlreadyDeclaredError(name, loc)
			return existing.Ref
		}
		ref = existing.Ref
	} else {
		ref = p.newSymbol(js_ast.SymbolHoisted, name)
		s.Members[name] = js_ast.ScopeMember{Ref: ref, Loc: loc}
	}

	for _, scope := range passedThrough {
		scope.Members[name] = js_ast.ScopeMember{Ref: ref, Loc: loc}
	}
	return ref
}

func (p *parser) declareBinding(kind js_ast.SymbolKind, loc logger.Loc, name string) js_ast.Ref {
	if kind == js_ast.SymbolHoisted {
		return p.declareHoistedSymbol(loc, name)
	}
	return p.declareSymbol(kind, loc, name)
}

func (p *parser) checkBindingName(loc logger.Loc, name string) {
	if name == "eval" || name == "arguments" {
		p.addRangeError(p.source.RangeOfIdentifier(loc), fmt.Sprintf("Invalid binding name %q in strict mode code", name))
	} else if js_lexer.StrictModeReservedWords[name] {
		p.addRangeError(p.source.RangeOfIdentifier(loc), fmt.Sprintf("%q is a reserved word and cannot be used in strict mode", name))
	}
}

// Identifiers in expressions are stored as names until the visit pass binds
// them to symbols. The name is stashed in a side table and the table index is
// stored in the ref with the high bit of the source index set, so using one
// by accident as a real ref crashes.
func (p *parser) storeNameInRef(name string) js_ast.Ref {
	ref := js_ast.Ref{SourceIndex: 0x80000000, InnerIndex: uint32(len(p.allocatedNames))}
	p.allocatedNames = append(p.allocatedNames, name)
	return ref
}

// This is the inverse of storeNameInRef() above
func (p *parser) loadNameFromRef(ref js_ast.Ref) string {
	if ref.SourceIndex != 0x80000000 {
		panic("Internal error: invalid symbol reference")
	}
	return p.allocatedNames[ref.InnerIndex]
}

func (p *parser) addImportRecord(kind ast.ImportKind, r logger.Range, text string) uint32 {
	index := uint32(len(p.importRecords))
	p.importRecords = append(p.importRecords, ast.ImportRecord{
		Path:  logger.Path{Text: text},
		Range: r,
		Kind:  kind,
	})
	return index
}

func (p *parser) parseStmtsUpTo(end js_lexer.T, opts parseStmtOpts) []js_ast.Stmt {
	stmts := []js_ast.Stmt{}
	isDirectivePrologue := opts.allowDirectives
	opts.allowDirectives = false

	for p.lexer.Token != end {
		isStringStart := p.lexer.Token == js_lexer.TStringLiteral
		stmt := p.parseStmt(opts)

		// Strings at the start of a body are directives like "use strict"
		if isDirectivePrologue {
			isDirectivePrologue = false
			if s, ok := stmt.Data.(*js_ast.SExpr); ok && isStringStart {
				if str, ok := s.Value.Data.(*js_ast.EString); ok {
					stmt.Data = &js_ast.SDirective{Value: str.Value}
					isDirectivePrologue = true
				}
			}
		}

		// Skip TypeScript-style empty statements
		if _, ok := stmt.Data.(*js_ast.SEmpty); ok {
			continue
		}

		stmts = append(stmts, stmt)
	}

	return stmts
}

func (p *parser) parseStmt(opts parseStmtOpts) js_ast.Stmt {
	loc := p.lexer.Loc()
	isModuleScope := opts.isModuleScope
	opts.isModuleScope = false

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}

	case js_lexer.TOpenBrace:
		p.pushScopeForParsePass(js_ast.ScopeBlock, loc)
		p.lexer.Next()
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{})
		p.lexer.Next()
		p.popScope()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts}}

	case js_lexer.TVar:
		p.lexer.Next()
		decls := p.parseAndDeclareDecls(js_ast.SymbolHoisted)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls, IsExport: opts.isExport}}

	case js_lexer.TConst:
		p.lexer.Next()
		decls := p.parseAndDeclareDecls(js_ast.SymbolConst)
		p.requireInitializers(decls)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls, IsExport: opts.isExport}}

	case js_lexer.TFunction:
		return p.parseFnStmt(loc, opts, false)

	case js_lexer.TClass:
		return p.parseClassStmt(loc, opts)

	case js_lexer.TImport:
		if !isModuleScope {
			p.fail(p.lexer.Range(), "Unexpected \"import\"")
		}
		return p.parseImportStmt(loc)

	case js_lexer.TExport:
		if !isModuleScope {
			p.fail(p.lexer.Range(), "Unexpected \"export\"")
		}
		return p.parseExportStmt(loc, opts)

	case js_lexer.TIf:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		yes := p.parseStmt(parseStmtOpts{})
		var no *js_ast.Stmt
		if p.lexer.Token == js_lexer.TElse {
			p.lexer.Next()
			stmt := p.parseStmt(parseStmtOpts{})
			no = &stmt
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: test, Yes: yes, No: no}}

	case js_lexer.TDo:
		p.lexer.Next()
		body := p.parseStmt(parseStmtOpts{})
		p.lexer.Expect(js_lexer.TWhile)
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)

		// This is a weird corner case where automatic semicolon insertion applies
		// even without a newline present
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDoWhile{Body: body, Test: test}}

	case js_lexer.TWhile:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: test, Body: body}}

	case js_lexer.TWith:
		p.fail(p.lexer.Range(), "With statements cannot be used in strict mode")

	case js_lexer.TSwitch:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)

		bodyLoc := p.lexer.Loc()
		p.pushScopeForParsePass(js_ast.ScopeBlock, bodyLoc)
		p.lexer.Expect(js_lexer.TOpenBrace)
		cases := []js_ast.Case{}
		foundDefault := false

		for p.lexer.Token != js_lexer.TCloseBrace {
			var value *js_ast.Expr
			body := []js_ast.Stmt{}

			if p.lexer.Token == js_lexer.TDefault {
				if foundDefault {
					p.fail(p.lexer.Range(), "Multiple default clauses are not allowed")
				}
				foundDefault = true
				p.lexer.Next()
				p.lexer.Expect(js_lexer.TColon)
			} else {
				p.lexer.Expect(js_lexer.TCase)
				expr := p.parseExpr(js_ast.LLowest)
				value = &expr
				p.lexer.Expect(js_lexer.TColon)
			}

		caseBody:
			for {
				switch p.lexer.Token {
				case js_lexer.TCloseBrace, js_lexer.TCase, js_lexer.TDefault:
					break caseBody
				default:
					body = append(body, p.parseStmt(parseStmtOpts{}))
				}
			}

			cases = append(cases, js_ast.Case{Value: value, Body: body})
		}

		p.lexer.Expect(js_lexer.TCloseBrace)
		p.popScope()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SSwitch{Test: test, BodyLoc: bodyLoc, Cases: cases}}

	case js_lexer.TTry:
		p.lexer.Next()
		bodyLoc := p.lexer.Loc()
		p.pushScopeForParsePass(js_ast.ScopeBlock, bodyLoc)
		p.lexer.Expect(js_lexer.TOpenBrace)
		body := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{})
		p.lexer.Next()
		p.popScope()

		var catch *js_ast.Catch
		var finally *js_ast.Finally

		if p.lexer.Token == js_lexer.TCatch {
			catchLoc := p.lexer.Loc()
			p.pushScopeForParsePass(js_ast.ScopeBlock, catchLoc)
			p.lexer.Next()
			var binding *js_ast.Binding

			// The catch binding is optional
			if p.lexer.Token == js_lexer.TOpenParen {
				p.lexer.Next()
				b := p.parseBinding(js_ast.SymbolCatchIdentifier)
				binding = &b
				p.lexer.Expect(js_lexer.TCloseParen)
			}

			// The body shares the scope of the binding, so "let e" in the body
			// is a redeclaration of "e"
			p.lexer.Expect(js_lexer.TOpenBrace)
			stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{})
			p.lexer.Next()
			p.popScope()
			catch = &js_ast.Catch{Loc: catchLoc, Binding: binding, Body: stmts}
		}

		if p.lexer.Token == js_lexer.TFinally || catch == nil {
			finallyLoc := p.lexer.Loc()
			p.pushScopeForParsePass(js_ast.ScopeBlock, finallyLoc)
			p.lexer.Expect(js_lexer.TFinally)
			p.lexer.Expect(js_lexer.TOpenBrace)
			stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{})
			p.lexer.Next()
			p.popScope()
			finally = &js_ast.Finally{Loc: finallyLoc, Stmts: stmts}
		}

		return js_ast.Stmt{Loc: loc, Data: &js_ast.STry{BodyLoc: bodyLoc, Body: body, Catch: catch, Finally: finally}}

	case js_lexer.TFor:
		return p.parseForStmt(loc)

	case js_lexer.TReturn:
		if p.fnOrArrowData.isOutsideFn {
			p.fail(p.lexer.Range(), "A return statement cannot be used here")
		}
		p.lexer.Next()
		var value *js_ast.Expr
		if p.lexer.Token != js_lexer.TSemicolon &&
			!p.lexer.HasNewlineBefore &&
			p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TEndOfFile {
			expr := p.parseExpr(js_ast.LLowest)
			value = &expr
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{Value: value}}

	case js_lexer.TThrow:
		p.lexer.Next()
		if p.lexer.HasNewlineBefore {
			p.fail(logger.Range{Loc: logger.Loc{Start: loc.Start + 5}}, "Unexpected newline after \"throw\"")
		}
		expr := p.parseExpr(js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: expr}}

	case js_lexer.TBreak, js_lexer.TContinue:
		isBreak := p.lexer.Token == js_lexer.TBreak
		p.lexer.Next()
		label := ""
		if p.lexer.Token == js_lexer.TIdentifier && !p.lexer.HasNewlineBefore {
			label = p.lexer.Identifier
			p.lexer.Next()
		}
		p.lexer.ExpectOrInsertSemicolon()
		if isBreak {
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SBreak{Label: label}}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SContinue{Label: label}}

	case js_lexer.TDebugger:
		p.lexer.Next()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDebugger{}}

	case js_lexer.TIdentifier:
		// "let" is always a keyword in strict mode code
		if p.lexer.Raw() == "let" {
			p.lexer.Next()
			decls := p.parseAndDeclareDecls(js_ast.SymbolLet)
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls, IsExport: opts.isExport}}
		}

		if p.lexer.Raw() == "async" {
			asyncRange := p.lexer.Range()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
				return p.parseFnStmt(loc, opts, true)
			}
			expr := p.parseSuffix(p.parseAsyncPrefixExpr(asyncRange, js_ast.LLowest), js_ast.LLowest)
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
		}

		name := p.lexer.Identifier
		expr := p.parseExpr(js_ast.LLowest)

		// Parse a labeled statement
		if _, ok := expr.Data.(*js_ast.EIdentifier); ok && p.lexer.Token == js_lexer.TColon {
			p.lexer.Next()
			stmt := p.parseStmt(parseStmtOpts{})
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SLabel{Name: name, Stmt: stmt}}
		}

		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
	}

	expr := p.parseExpr(js_ast.LLowest)
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
}

func (p *parser) requireInitializers(decls []js_ast.Decl) {
	for _, d := range decls {
		if d.Value == nil {
			if id, ok := d.Binding.Data.(*js_ast.BIdentifier); ok {
				r := p.source.RangeOfIdentifier(d.Binding.Loc)
				p.addRangeError(r, fmt.Sprintf("The constant %q must be initialized", p.symbols[id.Ref.InnerIndex].OriginalName))
			} else {
				p.addRangeError(logger.Range{Loc: d.Binding.Loc}, "This constant must be initialized")
			}
		}
	}
}

func (p *parser) parseForStmt(loc logger.Loc) js_ast.Stmt {
	p.pushScopeForParsePass(js_ast.ScopeBlock, loc)
	defer p.popScope()

	p.lexer.Next()

	// "for await (let x of y) {}"
	isForAwait := false
	if p.lexer.IsContextualKeyword("await") {
		if !p.fnOrArrowData.isAsync && !p.fnOrArrowData.isOutsideFn {
			p.fail(p.lexer.Range(), "Cannot use \"await\" outside an async function")
		}
		isForAwait = true
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TOpenParen)

	var init *js_ast.Stmt
	var test *js_ast.Expr
	var update *js_ast.Expr

	// "in" expressions aren't allowed here
	p.allowIn = false

	initLoc := p.lexer.Loc()
	switch p.lexer.Token {
	case js_lexer.TVar:
		p.lexer.Next()
		decls := p.parseAndDeclareDecls(js_ast.SymbolHoisted)
		init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}}

	case js_lexer.TConst:
		p.lexer.Next()
		decls := p.parseAndDeclareDecls(js_ast.SymbolConst)
		init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls}}

	case js_lexer.TSemicolon:

	default:
		if p.lexer.IsContextualKeyword("let") {
			p.lexer.Next()
			decls := p.parseAndDeclareDecls(js_ast.SymbolLet)
			init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls}}
		} else {
			expr := p.parseExpr(js_ast.LLowest)
			init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SExpr{Value: expr}}
		}
	}

	p.allowIn = true

	// Detect for-of loops
	if p.lexer.IsContextualKeyword("of") || isForAwait {
		if init == nil {
			p.lexer.Unexpected()
		}
		p.lexer.ExpectContextualKeyword("of")
		value := p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{IsAwait: isForAwait, Init: *init, Value: value, Body: body}}
	}

	// Detect for-in loops
	if p.lexer.Token == js_lexer.TIn {
		if init == nil {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForIn{Init: *init, Value: value, Body: body}}
	}

	// Only require "const" statement initializers when we know we're a normal for loop
	if init != nil {
		if local, ok := init.Data.(*js_ast.SLocal); ok && local.Kind == js_ast.LocalConst {
			p.requireInitializers(local.Decls)
		}
	}

	p.lexer.Expect(js_lexer.TSemicolon)

	if p.lexer.Token != js_lexer.TSemicolon {
		expr := p.parseExpr(js_ast.LLowest)
		test = &expr
	}

	p.lexer.Expect(js_lexer.TSemicolon)

	if p.lexer.Token != js_lexer.TCloseParen {
		expr := p.parseExpr(js_ast.LLowest)
		update = &expr
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	body := p.parseStmt(parseStmtOpts{})
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{Init: init, Test: test, Update: update, Body: body}}
}

func (p *parser) parseAndDeclareDecls(kind js_ast.SymbolKind) []js_ast.Decl {
	decls := []js_ast.Decl{}

	for {
		local := p.parseBinding(kind)
		var value *js_ast.Expr

		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			expr := p.parseExpr(js_ast.LComma)
			value = &expr
		}

		decls = append(decls, js_ast.Decl{Binding: local, Value: value})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	return decls
}

func (p *parser) parseBinding(kind js_ast.SymbolKind) js_ast.Binding {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TIdentifier:
		ref := p.declareBinding(kind, loc, p.lexer.Identifier)
		p.lexer.Next()
		return js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ref: ref}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.ArrayBinding{}
		hasSpread := false

		for p.lexer.Token != js_lexer.TCloseBracket {
			if p.lexer.Token == js_lexer.TComma {
				items = append(items, js_ast.ArrayBinding{Binding: js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BMissing{}}})
			} else {
				if p.lexer.Token == js_lexer.TDotDotDot {
					p.lexer.Next()
					hasSpread = true
				}

				binding := p.parseBinding(kind)
				var defaultValue *js_ast.Expr
				if !hasSpread && p.lexer.Token == js_lexer.TEquals {
					p.lexer.Next()
					value := p.parseExpr(js_ast.LComma)
					defaultValue = &value
				}
				items = append(items, js_ast.ArrayBinding{Binding: binding, DefaultValue: defaultValue})

				// The spread must be the last item
				if hasSpread {
					break
				}
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BArray{Items: items, HasSpread: hasSpread}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		properties := []js_ast.PropertyBinding{}

		for p.lexer.Token != js_lexer.TCloseBrace {
			property := p.parsePropertyBinding(kind)
			properties = append(properties, property)

			// The spread must be the last item
			if property.IsSpread {
				break
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BObject{Properties: properties}}
	}

	p.lexer.Expect(js_lexer.TIdentifier)
	return js_ast.Binding{}
}

func (p *parser) parsePropertyBinding(kind js_ast.SymbolKind) js_ast.PropertyBinding {
	var key js_ast.Expr
	isComputed := false

	switch p.lexer.Token {
	case js_lexer.TDotDotDot:
		p.lexer.Next()
		value := js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BIdentifier{Ref: p.declareBinding(kind, p.lexer.Loc(), p.lexer.Identifier)}}
		p.lexer.Expect(js_lexer.TIdentifier)
		return js_ast.PropertyBinding{
			Key:      js_ast.Expr{Loc: value.Loc, Data: &js_ast.EMissing{}},
			Value:    value,
			IsSpread: true,
		}

	case js_lexer.TNumericLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.ENumber{Value: p.lexer.Number}}
		p.lexer.Next()

	case js_lexer.TStringLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EString{Value: p.lexer.StringValue}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		name := p.lexer.Identifier
		loc := p.lexer.Loc()
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		p.lexer.Next()
		key = js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: name}}

		// "{a}" and "{a = 1}"
		if p.lexer.Token != js_lexer.TColon {
			if !isIdentifier {
				p.lexer.Expect(js_lexer.TColon)
			}
			ref := p.declareBinding(kind, loc, name)
			value := js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ref: ref}}

			var defaultValue *js_ast.Expr
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				expr := p.parseExpr(js_ast.LComma)
				defaultValue = &expr
			}

			return js_ast.PropertyBinding{Key: key, Value: value, DefaultValue: defaultValue}
		}
	}

	p.lexer.Expect(js_lexer.TColon)
	value := p.parseBinding(kind)

	var defaultValue *js_ast.Expr
	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		expr := p.parseExpr(js_ast.LComma)
		defaultValue = &expr
	}

	return js_ast.PropertyBinding{
		Key:          key,
		Value:        value,
		DefaultValue: defaultValue,
		IsComputed:   isComputed,
	}
}

func (p *parser) parseFnStmt(loc logger.Loc, opts parseStmtOpts, isAsync bool) js_ast.Stmt {
	p.lexer.Expect(js_lexer.TFunction)
	isGenerator := p.lexer.Token == js_lexer.TAsterisk
	if isGenerator {
		p.lexer.Next()
	}

	var name *js_ast.LocRef

	// The name is optional for "export default function() {}" pseudo-statements
	if !opts.isNameOptional || p.lexer.Token == js_lexer.TIdentifier {
		nameLoc := p.lexer.Loc()
		nameText := p.lexer.Identifier
		p.lexer.Expect(js_lexer.TIdentifier)

		// Function declarations in blocks are block scoped in strict mode
		kind := js_ast.SymbolBlockFunction
		if p.currentScope.Kind == js_ast.ScopeModule || p.currentScope.Kind == js_ast.ScopeFunctionBody {
			kind = js_ast.SymbolHoistedFunction
		}
		name = &js_ast.LocRef{Loc: nameLoc, Ref: p.declareSymbol(kind, nameLoc, nameText)}
	}

	fn := p.parseFn(name, nil, fnOrArrowData{isAsync: isAsync, isGenerator: isGenerator})
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn, IsExport: opts.isExport}}
}

type exprName struct {
	loc  logger.Loc
	text string
}

// Parses the arguments and body of a function. A function expression's own
// name is passed as "innerName" because it's declared inside the function.
func (p *parser) parseFn(name *js_ast.LocRef, innerName *exprName, data fnOrArrowData) js_ast.Fn {
	openParenLoc := p.lexer.Loc()
	p.pushScopeForParsePass(js_ast.ScopeFunctionArgs, openParenLoc)
	defer p.popScope()

	if innerName != nil {
		name = &js_ast.LocRef{Loc: innerName.loc, Ref: p.declareSymbol(js_ast.SymbolExpressionName, innerName.loc, innerName.text)}
	}

	p.lexer.Expect(js_lexer.TOpenParen)

	// Await and yield in default values refer to the enclosing function
	args := []js_ast.Arg{}
	hasRestArg := false

	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			p.lexer.Next()
			hasRestArg = true
		}

		binding := p.parseBinding(js_ast.SymbolHoisted)
		var defaultValue *js_ast.Expr
		if !hasRestArg && p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			value := p.parseExpr(js_ast.LComma)
			defaultValue = &value
		}
		args = append(args, js_ast.Arg{Binding: binding, Default: defaultValue})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		if hasRestArg {
			p.fail(p.lexer.Range(), "Expected \")\" but found \",\"")
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)

	// Every non-arrow function has its own "arguments"
	argumentsRef := p.newSymbol(js_ast.SymbolArguments, "arguments")
	p.symbols[argumentsRef.InnerIndex].MustNotBeRenamed = true
	p.currentScope.Members["arguments"] = js_ast.ScopeMember{Ref: argumentsRef, Loc: openParenLoc}

	body := p.parseFnBody(data)

	return js_ast.Fn{
		Name:         name,
		Args:         args,
		Body:         body,
		ArgumentsRef: argumentsRef,
		OpenParenLoc: openParenLoc,
		IsAsync:      data.isAsync,
		IsGenerator:  data.isGenerator,
		HasRestArg:   hasRestArg,
	}
}

func (p *parser) parseFnBody(data fnOrArrowData) js_ast.FnBody {
	oldFnOrArrowData := p.fnOrArrowData
	oldAllowIn := p.allowIn
	p.fnOrArrowData = data
	p.allowIn = true

	loc := p.lexer.Loc()
	p.pushScopeForParsePass(js_ast.ScopeFunctionBody, loc)
	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowDirectives: true})
	p.lexer.Next()
	p.popScope()

	p.allowIn = oldAllowIn
	p.fnOrArrowData = oldFnOrArrowData
	return js_ast.FnBody{Loc: loc, Stmts: stmts}
}

func (p *parser) parseClassStmt(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	classKeyword := p.lexer.Range()
	p.lexer.Expect(js_lexer.TClass)

	var name *js_ast.LocRef
	if !opts.isNameOptional || p.lexer.Token == js_lexer.TIdentifier {
		nameLoc := p.lexer.Loc()
		nameText := p.lexer.Identifier
		p.lexer.Expect(js_lexer.TIdentifier)
		name = &js_ast.LocRef{Loc: nameLoc, Ref: p.declareSymbol(js_ast.SymbolClass, nameLoc, nameText)}
	}

	class := p.parseClass(classKeyword, name, nil)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class, IsExport: opts.isExport}}
}

func (p *parser) parseClass(classKeyword logger.Range, name *js_ast.LocRef, innerName *exprName) js_ast.Class {
	p.pushScopeForParsePass(js_ast.ScopeName, classKeyword.Loc)
	defer p.popScope()

	if innerName != nil {
		name = &js_ast.LocRef{Loc: innerName.loc, Ref: p.declareSymbol(js_ast.SymbolExpressionName, innerName.loc, innerName.text)}
	}

	var extends *js_ast.Expr
	if p.lexer.Token == js_lexer.TExtends {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPostfix)
		extends = &value
	}

	bodyLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	properties := []js_ast.Property{}

	// Class bodies are strict mode code and "this" refers to the instance, so
	// they're parsed like a function without "arguments"
	oldFnOrArrowData := p.fnOrArrowData
	oldAllowIn := p.allowIn
	p.fnOrArrowData = fnOrArrowData{}
	p.allowIn = true

	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
			continue
		}
		properties = append(properties, p.parseProperty(propertyOpts{isClass: true}))
	}

	p.allowIn = oldAllowIn
	p.fnOrArrowData = oldFnOrArrowData
	p.lexer.Expect(js_lexer.TCloseBrace)

	return js_ast.Class{
		ClassKeyword: classKeyword,
		Name:         name,
		Extends:      extends,
		BodyLoc:      bodyLoc,
		Properties:   properties,
	}
}

func (p *parser) parseImportStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	stmt := js_ast.SImport{}

	switch p.lexer.Token {
	case js_lexer.TStringLiteral:
		// "import 'path'"

	case js_lexer.TAsterisk:
		// "import * as ns from 'path'"
		p.lexer.Next()
		stmt.Namespace = p.parseImportNamespace()
		p.lexer.ExpectContextualKeyword("from")

	case js_lexer.TOpenBrace:
		// "import {item1, item2} from 'path'"
		items := p.parseImportClause()
		stmt.Items = &items
		p.lexer.ExpectContextualKeyword("from")

	case js_lexer.TIdentifier:
		// "import defaultItem from 'path'"
		// "import defaultItem, * as ns from 'path'"
		// "import defaultItem, {item1, item2} from 'path'"
		nameLoc := p.lexer.Loc()
		ref := p.declareSymbol(js_ast.SymbolImport, nameLoc, p.lexer.Identifier)
		stmt.DefaultName = &js_ast.LocRef{Loc: nameLoc, Ref: ref}
		p.lexer.Next()

		if p.lexer.Token == js_lexer.TComma {
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TAsterisk:
				p.lexer.Next()
				stmt.Namespace = p.parseImportNamespace()

			case js_lexer.TOpenBrace:
				items := p.parseImportClause()
				stmt.Items = &items

			default:
				p.lexer.Unexpected()
			}
		}

		p.lexer.ExpectContextualKeyword("from")

	default:
		p.lexer.Unexpected()
	}

	pathRange, pathText := p.parsePath()
	stmt.ImportRecordIndex = p.addImportRecord(ast.ImportStmt, pathRange, pathText)
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &stmt}
}

func (p *parser) parseImportNamespace() *js_ast.LocRef {
	p.lexer.ExpectContextualKeyword("as")
	nameLoc := p.lexer.Loc()
	name := p.lexer.Identifier
	p.lexer.Expect(js_lexer.TIdentifier)
	return &js_ast.LocRef{Loc: nameLoc, Ref: p.declareSymbol(js_ast.SymbolImport, nameLoc, name)}
}

func (p *parser) parsePath() (logger.Range, string) {
	r := p.lexer.Range()
	text := p.lexer.StringValue
	p.lexer.Expect(js_lexer.TStringLiteral)
	return r, text
}

// An alias in an import or export clause may be any identifier name, including
// keywords, or a string
func (p *parser) parseClauseAlias() (string, bool) {
	if p.lexer.Token == js_lexer.TStringLiteral {
		alias := p.lexer.StringValue
		p.lexer.Next()
		return alias, false
	}
	if !p.lexer.IsIdentifierOrKeyword() {
		p.lexer.Expect(js_lexer.TIdentifier)
	}
	alias := p.lexer.Identifier
	isIdentifier := p.lexer.Token == js_lexer.TIdentifier
	p.lexer.Next()
	return alias, isIdentifier
}

func (p *parser) parseImportClause() []js_ast.ClauseItem {
	items := []js_ast.ClauseItem{}
	p.lexer.Expect(js_lexer.TOpenBrace)

	for p.lexer.Token != js_lexer.TCloseBrace {
		aliasLoc := p.lexer.Loc()
		aliasRange := p.lexer.Range()
		alias, isIdentifier := p.parseClauseAlias()
		name := exprName{loc: aliasLoc, text: alias}

		// "import {default as x} from 'path'" and "import {x as y} from 'path'"
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			name = exprName{loc: p.lexer.Loc(), text: p.lexer.Identifier}
			p.lexer.Expect(js_lexer.TIdentifier)
		} else if !isIdentifier {
			p.fail(aliasRange, fmt.Sprintf("Expected \"as\" after %q", alias))
		}

		ref := p.declareSymbol(js_ast.SymbolImport, name.loc, name.text)
		items = append(items, js_ast.ClauseItem{
			Alias:        alias,
			AliasLoc:     aliasLoc,
			Name:         js_ast.LocRef{Loc: name.loc, Ref: ref},
			OriginalName: name.text,
		})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return items
}

// The local names in an export clause are only checked once we know whether
// this is a re-export, since "export {default} from 'path'" is allowed but
// "export {default}" isn't.
func (p *parser) parseExportClause() ([]js_ast.ClauseItem, logger.Range) {
	items := []js_ast.ClauseItem{}
	firstNonIdentifier := logger.Range{}
	p.lexer.Expect(js_lexer.TOpenBrace)

	for p.lexer.Token != js_lexer.TCloseBrace {
		nameLoc := p.lexer.Loc()
		nameRange := p.lexer.Range()
		name, isIdentifier := p.parseClauseAlias()
		if !isIdentifier && firstNonIdentifier.Len == 0 {
			firstNonIdentifier = nameRange
		}

		alias := name
		aliasLoc := nameLoc
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			aliasLoc = p.lexer.Loc()
			alias, _ = p.parseClauseAlias()
		}

		items = append(items, js_ast.ClauseItem{
			Alias:        alias,
			AliasLoc:     aliasLoc,
			Name:         js_ast.LocRef{Loc: nameLoc, Ref: js_ast.InvalidRef},
			OriginalName: name,
		})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return items, firstNonIdentifier
}

func (p *parser) parseExportStmt(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	p.lexer.Next()
	opts.isExport = true

	switch p.lexer.Token {
	case js_lexer.TVar, js_lexer.TConst, js_lexer.TFunction, js_lexer.TClass:
		return p.parseStmt(opts)

	case js_lexer.TIdentifier:
		if p.lexer.IsContextualKeyword("let") {
			return p.parseStmt(opts)
		}
		if p.lexer.IsContextualKeyword("async") {
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TFunction || p.lexer.HasNewlineBefore {
				p.lexer.Expected(js_lexer.TFunction)
			}
			return p.parseFnStmt(loc, opts, true)
		}
		p.lexer.Unexpected()

	case js_lexer.TDefault:
		if p.defaultRef != js_ast.InvalidRef {
			p.addRangeError(p.lexer.Range(), "Multiple exports with the same name \"default\"")
		}
		defaultLoc := p.lexer.Loc()
		p.lexer.Next()
		defaultOpts := parseStmtOpts{isNameOptional: true}
		defaultName := p.source.IdentifierName + "_default"

		// "export default async function() {}"
		if p.lexer.IsContextualKeyword("async") {
			asyncRange := p.lexer.Range()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
				p.defaultRef = p.newSymbol(js_ast.SymbolHoistedFunction, defaultName)
				stmt := p.parseFnStmt(asyncRange.Loc, defaultOpts, true)
				return p.exportDefault(loc, defaultLoc, stmt)
			}
			p.defaultRef = p.newSymbol(js_ast.SymbolConst, defaultName)
			expr := p.parseSuffix(p.parseAsyncPrefixExpr(asyncRange, js_ast.LComma), js_ast.LComma)
			p.lexer.ExpectOrInsertSemicolon()
			return p.exportDefault(loc, defaultLoc, js_ast.Stmt{Loc: defaultLoc, Data: &js_ast.SExpr{Value: expr}})
		}

		switch p.lexer.Token {
		case js_lexer.TFunction:
			p.defaultRef = p.newSymbol(js_ast.SymbolHoistedFunction, defaultName)
			return p.exportDefault(loc, defaultLoc, p.parseFnStmt(defaultLoc, defaultOpts, false))

		case js_lexer.TClass:
			p.defaultRef = p.newSymbol(js_ast.SymbolClass, defaultName)
			return p.exportDefault(loc, defaultLoc, p.parseClassStmt(defaultLoc, defaultOpts))
		}

		p.defaultRef = p.newSymbol(js_ast.SymbolConst, defaultName)
		expr := p.parseExpr(js_ast.LComma)
		p.lexer.ExpectOrInsertSemicolon()
		return p.exportDefault(loc, defaultLoc, js_ast.Stmt{Loc: defaultLoc, Data: &js_ast.SExpr{Value: expr}})

	case js_lexer.TAsterisk:
		// "export * from 'path'"
		// "export * as ns from 'path'"
		p.lexer.Next()
		var alias *js_ast.ExportStarAlias
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			aliasLoc := p.lexer.Loc()
			name, _ := p.parseClauseAlias()
			alias = &js_ast.ExportStarAlias{Loc: aliasLoc, OriginalName: name}
		}
		p.lexer.ExpectContextualKeyword("from")
		pathRange, pathText := p.parsePath()
		importRecordIndex := p.addImportRecord(ast.ImportReExport, pathRange, pathText)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportStar{Alias: alias, ImportRecordIndex: importRecordIndex}}

	case js_lexer.TOpenBrace:
		items, firstNonIdentifier := p.parseExportClause()

		// "export {x, y as z} from 'path'"
		if p.lexer.IsContextualKeyword("from") {
			p.lexer.Next()
			pathRange, pathText := p.parsePath()
			importRecordIndex := p.addImportRecord(ast.ImportReExport, pathRange, pathText)
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportFrom{Items: items, ImportRecordIndex: importRecordIndex}}
		}

		// "export {x, y as z}"
		if firstNonIdentifier.Len > 0 {
			p.fail(firstNonIdentifier, fmt.Sprintf("Expected identifier but found %q", p.source.TextForRange(firstNonIdentifier)))
		}
		for i := range items {
			items[i].Name.Ref = p.storeNameInRef(items[i].OriginalName)
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{Items: items}}
	}

	p.lexer.Unexpected()
	return js_ast.Stmt{}
}

func (p *parser) exportDefault(loc logger.Loc, defaultLoc logger.Loc, value js_ast.Stmt) js_ast.Stmt {
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{
		DefaultName: js_ast.LocRef{Loc: defaultLoc, Ref: p.defaultRef},
		Value:       value,
	}}
}
