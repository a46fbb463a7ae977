package js_parser

import (
	"fmt"

	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/js_lexer"
	"github.com/esmlink/esmlink/internal/logger"
)

// JSON is only read for "package.json" files, so this parser is strict: no
// comments beyond what the JavaScript lexer skips anyway, no trailing commas.
type jsonParser struct {
	log    logger.Log
	source logger.Source
	lexer  js_lexer.Lexer
}

func (p *jsonParser) parseMaybeComma(closeToken js_lexer.T) bool {
	commaRange := p.lexer.Range()
	p.lexer.Expect(js_lexer.TComma)

	if p.lexer.Token == closeToken {
		p.log.AddRangeError(&p.source, commaRange, "JSON does not support trailing commas")
		return false
	}
	return true
}

func (p *jsonParser) parseExpr() js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case js_lexer.TTrue:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TStringLiteral:
		value := p.lexer.StringValue
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: value}}

	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: value}}

	case js_lexer.TMinus:
		p.lexer.Next()
		value := p.lexer.Number
		p.lexer.Expect(js_lexer.TNumericLiteral)
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: -value}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.Expr{}
		for p.lexer.Token != js_lexer.TCloseBracket {
			if len(items) > 0 && !p.parseMaybeComma(js_lexer.TCloseBracket) {
				break
			}
			items = append(items, p.parseExpr())
		}
		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		properties := []js_ast.Property{}
		duplicates := make(map[string]bool)

		for p.lexer.Token != js_lexer.TCloseBrace {
			if len(properties) > 0 && !p.parseMaybeComma(js_lexer.TCloseBrace) {
				break
			}

			keyString := p.lexer.StringValue
			keyRange := p.lexer.Range()
			key := js_ast.Expr{Loc: keyRange.Loc, Data: &js_ast.EString{Value: keyString}}
			p.lexer.Expect(js_lexer.TStringLiteral)

			if duplicates[keyString] {
				p.log.AddIDWithRange(logger.MsgID_None, logger.Warning, &p.source, keyRange,
					fmt.Sprintf("Duplicate key %q in object literal", keyString))
			} else {
				duplicates[keyString] = true
			}

			p.lexer.Expect(js_lexer.TColon)
			value := p.parseExpr()
			properties = append(properties, js_ast.Property{Kind: js_ast.PropertyNormal, Key: key, Value: &value})
		}

		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}

	default:
		p.lexer.Unexpected()
		return js_ast.Expr{}
	}
}

func ParseJSON(log logger.Log, source logger.Source) (result js_ast.Expr, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &jsonParser{
		log:    log,
		source: source,
		lexer:  js_lexer.NewLexer(log, source),
	}

	result = p.parseExpr()
	p.lexer.Expect(js_lexer.TEndOfFile)
	return
}
