package hier

// parser turns a token stream into an Expression tree, mirroring
// original_source's hier/parser.rs recursive-descent structure: parseList
// for `(...)`, parseBlock for `{...}`, and parseExpression for a single
// standalone node (used when re-entering from string interpolation).
type parser struct {
	tokens []token
	index  int
	errs   SyntaxErrorList
	module string
}

func newParser(tokens []token, module string) *parser {
	return &parser{tokens: tokens, module: module}
}

func (p *parser) parse() (Expression, SyntaxErrorList) {
	list := p.parseList()
	if len(list) == 0 {
		return valueExpr(emptyLocation(), NullValue()), p.errs
	}
	return list[0], p.errs
}

func (p *parser) parseList() []Expression {
	var out []Expression

	for p.index < len(p.tokens) {
		tok := p.consume()

		switch tok.kind {
		case tokBang:
			loc := tok.location
			next := p.consume()
			var list Expression
			if next.kind == tokLeftBracket {
				list = listExpr(next.location, p.parseList())
			} else {
				p.report(loc, "Expected ( after !, but "+next.symbol()+" was found.")
				list = listExpr(emptyLocation(), nil)
			}
			out = append(out, blockExpr(loc, []Expression{list}))
		case tokLeftBracket:
			out = append(out, listExpr(tok.location, p.parseList()))
		case tokRightBracket:
			return out
		case tokLeftCurly:
			out = append(out, blockExpr(tok.location, p.parseBlock()))
		case tokRightCurly:
			p.report(tok.location, "Unexpected }.")
		case tokString:
			out = append(out, p.parseStringToken(tok))
		case tokNumber:
			out = append(out, numberExpr(tok.location, tok.number))
		case tokIdentifier:
			out = append(out, p.parseIdentifier(tok.text, tok.location, &out, true))
		case tokDot:
			out = p.parseDot(out, tok)
		case tokLeftSquare:
			out = p.parseSubscript(out, tok)
		case tokRightSquare:
			p.report(tok.location, "Unexpected ].")
		case tokColon:
			p.report(tok.location, "Unexpected :.")
		}
	}

	return out
}

func (p *parser) parseBlock() []Expression {
	var out []Expression

	for p.index < len(p.tokens) {
		tok := p.consume()

		switch tok.kind {
		case tokBang:
			loc := tok.location
			next := p.consume()
			var list Expression
			if next.kind == tokLeftBracket {
				list = listExpr(next.location, p.parseList())
			} else {
				p.report(loc, "Expected ( after !, but "+next.symbol()+" was found.")
				list = listExpr(emptyLocation(), nil)
			}
			out = append(out, blockExpr(loc, []Expression{list}))
		case tokLeftBracket:
			out = append(out, listExpr(tok.location, p.parseList()))
		case tokRightBracket:
			p.report(tok.location, "Unexpected ).")
		case tokLeftCurly:
			out = append(out, blockExpr(tok.location, p.parseBlock()))
		case tokRightCurly:
			return out
		case tokString:
			out = append(out, p.parseStringToken(tok))
		case tokNumber:
			out = append(out, numberExpr(tok.location, tok.number))
		case tokIdentifier:
			out = append(out, p.parseIdentifier(tok.text, tok.location, &out, false))
		case tokDot:
			out = p.parseDot(out, tok)
		case tokLeftSquare:
			out = p.parseSubscript(out, tok)
		case tokRightSquare:
			p.report(tok.location, "Unexpected ].")
		case tokColon:
			p.report(tok.location, "Unexpected :.")
		}
	}

	return out
}

// parseExpression parses a single standalone node, used when re-entering
// the parser for an embedded `\(...)` interpolation expression.
func (p *parser) parseExpression() Expression {
	tok := p.consume()

	switch tok.kind {
	case tokLeftBracket:
		return listExpr(tok.location, p.parseList())
	case tokLeftCurly:
		return blockExpr(tok.location, p.parseBlock())
	case tokString:
		return p.parseStringToken(tok)
	case tokNumber:
		return numberExpr(tok.location, tok.number)
	case tokIdentifier:
		return p.parseIdentifier(tok.text, tok.location, &[]Expression{}, false)
	default:
		p.report(tok.location, "Unexpected "+tok.symbol()+".")
		return valueExpr(tok.location, NullValue())
	}
}

func (p *parser) parseStringToken(tok token) Expression {
	parsed, errs := parseInterpolated(p.module, tok.location, tok.text)
	if len(errs) > 0 {
		p.errs = append(p.errs, errs...)
	}
	return stringExpr(tok.location, parsed)
}

func (p *parser) parseDot(current []Expression, tok token) []Expression {
	if len(current) == 0 {
		p.report(tok.location, "Dot must be preceded by a expression.")
		return current
	}
	last := current[len(current)-1]
	current = current[:len(current)-1]

	next := p.consume()
	if next.kind != tokIdentifier {
		p.report(next.location, "Key can only be an identifier, but "+next.symbol()+" was found.")
		return append(current, last)
	}
	return append(current, propertyExpr(next.location, last, next.text))
}

func (p *parser) parseSubscript(current []Expression, tok token) []Expression {
	if len(current) == 0 {
		p.report(tok.location, "Subscript must be preceded by a expression.")
		return current
	}
	last := current[len(current)-1]
	current = current[:len(current)-1]

	next := p.consume()
	var key Expression
	switch next.kind {
	case tokLeftCurly:
		key = blockExpr(next.location, p.parseBlock())
	case tokLeftBracket:
		key = listExpr(next.location, p.parseList())
	case tokString:
		key = p.parseStringToken(next)
	case tokNumber:
		key = numberExpr(next.location, next.number)
	case tokIdentifier:
		key = identifierExpr(next.location, next.text)
	default:
		p.report(next.location, "Token "+next.symbol()+" is disallowed in subscript.")
		key = valueExpr(next.location, NullValue())
	}

	end := p.consume()
	if end.kind != tokRightSquare {
		p.report(end.location, "Subscript must end with ].")
	}

	get := listExpr(tok.location, []Expression{identifierExpr(tok.location, "get"), last, key})
	return append(current, get)
}

// parseIdentifier handles the pipe operator, key:value shorthand, and
// plain identifier references, matching parse_identifier in the original.
func (p *parser) parseIdentifier(identifier string, location Location, current *[]Expression, isList bool) Expression {
	if identifier == ">" {
		if len(*current) == 0 && isList {
			return identifierExpr(location, identifier)
		} else if len(*current) == 0 && !isList {
			p.report(emptyLocation(), "Unexpected pipe operator (>). It should be placed after a list.")
			return valueExpr(emptyLocation(), NullValue())
		}

		last := (*current)[len(*current)-1]
		*current = (*current)[:len(*current)-1]

		next := p.consume()
		if next.kind != tokLeftBracket {
			p.report(next.location, "There must be a list after the pipe operator (>).")
		}

		items := p.parseList()
		rebuilt := make([]Expression, 0, len(items)+1)
		if len(items) > 0 {
			rebuilt = append(rebuilt, items[0], last)
			rebuilt = append(rebuilt, items[1:]...)
		} else {
			rebuilt = append(rebuilt, last)
		}

		return listExpr(location, rebuilt)
	}

	if p.peek().kind == tokColon {
		p.consume()
		value := p.parseExpression()
		return keyValueExpr(location, identifier, value)
	}

	return identifierExpr(location, identifier)
}

func (p *parser) report(loc Location, message string) {
	p.errs.add(loc, message)
}

func (p *parser) consume() token {
	if p.index >= len(p.tokens) {
		return token{kind: tokRightCurly, location: emptyLocation()}
	}
	tok := p.tokens[p.index]
	p.index++
	return tok
}

func (p *parser) peek() token {
	if p.index >= len(p.tokens) {
		return token{kind: tokRightCurly, location: emptyLocation()}
	}
	return p.tokens[p.index]
}

// parseEmbeddedExpression tokenizes and parses one `\(...)` interpolation
// payload, re-entering the tokenizer/parser pair the way the original's
// InterpolatedString::parse does. source must start at the `(` itself so
// tokenizeInterpolation's own bracket counter tracks real nesting depth;
// the returned consumed count is how many runes of source were part of
// the balanced expression, letting the caller resume scanning past it.
//
// The enclosing `(...)` is interpolation-delimiter syntax, not a Hier List
// literal: `\(name)` must read the variable `name`, and `\(+ 1 2)` must
// call `+`. So the leading bracket is skipped and its contents are parsed
// as a plain item sequence; a single item (a bare name) is returned
// unwrapped, and more than one item (an operator plus arguments) is
// wrapped into a List so the evaluator dispatches it as a call.
func parseEmbeddedExpression(module string, _ Location, source string) (Expression, int, SyntaxErrorList) {
	tok := newTokenizer(source, module)
	consumed := tok.tokenizeInterpolation()

	p := newParser(tok.tokens, module)

	var expr Expression
	if len(p.tokens) > 0 && p.tokens[0].kind == tokLeftBracket {
		loc := p.tokens[0].location
		p.index = 1
		items := p.parseList()
		if len(items) == 1 {
			expr = items[0]
		} else {
			expr = listExpr(loc, items)
		}
	} else {
		expr = p.parseExpression()
	}

	var errs SyntaxErrorList
	errs = append(errs, tok.errs...)
	errs = append(errs, p.errs...)
	return expr, consumed, errs
}
