package hier

import "strings"

// interpPart is one segment of an interpolated string literal: either raw
// text copied verbatim, or an embedded expression introduced by `\(`.
type interpPart struct {
	isExpr bool
	raw    string
	expr   Expression
}

// Interpolated is the parsed form of a Hier string literal. It is built
// once by the tokenizer/parser and evaluated fresh on every visit, since
// the embedded expressions may reference variables that change between
// evaluations (spec section 4, string interpolation).
type Interpolated struct {
	raw   string
	parts []interpPart
}

// parseInterpolated decodes escape sequences and `\(...)` embeds out of a
// string literal's raw contents. Embedded expressions are tokenized and
// parsed by re-entering the tokenizer/parser on the bracketed substring,
// matching the original's recursive-descent handling of interpolation
// rather than a dedicated mini-grammar.
func parseInterpolated(module string, loc Location, raw string) (Interpolated, SyntaxErrorList) {
	result := Interpolated{raw: raw}
	var errs SyntaxErrorList

	var current strings.Builder
	runes := []rune(raw)
	i := 0
	for i < len(runes) {
		c := runes[i]
		if c != '\\' {
			current.WriteRune(c)
			i++
			continue
		}

		if i+1 >= len(runes) {
			current.WriteRune(c)
			i++
			continue
		}

		next := runes[i+1]
		switch next {
		case 'n':
			current.WriteRune('\n')
			i += 2
		case 't':
			current.WriteRune('\t')
			i += 2
		case '0':
			current.WriteRune(0)
			i += 2
		case '\\':
			current.WriteRune('\\')
			i += 2
		case '"':
			current.WriteRune('"')
			i += 2
		case '(':
			if current.Len() > 0 {
				result.parts = append(result.parts, interpPart{raw: current.String()})
				current.Reset()
			}

			// source starts at the '(' itself (i+1, not i+2) so the
			// re-entered tokenizer's own bracket counter tracks real
			// nesting depth instead of a duplicate depth count here.
			source := string(runes[i+1:])
			expr, consumed, exprErrs := parseEmbeddedExpression(module, loc, source)
			if len(exprErrs) > 0 {
				errs = append(errs, exprErrs...)
			} else {
				result.parts = append(result.parts, interpPart{isExpr: true, expr: expr})
			}
			i = i + 1 + consumed
		default:
			current.WriteRune(c)
			i++
		}
	}

	if current.Len() > 0 || len(result.parts) == 0 {
		result.parts = append(result.parts, interpPart{raw: current.String()})
	}

	return result, errs
}

// resolve evaluates every embedded expression against env and concatenates
// the result with the literal segments, producing the final string value.
// Evaluation errors propagate via Environment.error's panic, same as any
// other expression.
func (s Interpolated) resolve(env *Environment) string {
	if len(s.parts) == 1 && !s.parts[0].isExpr {
		return s.parts[0].raw
	}

	var b strings.Builder
	for _, part := range s.parts {
		if !part.isExpr {
			b.WriteString(part.raw)
			continue
		}
		b.WriteString(env.eval(part.expr).TextRepresentation())
	}
	return b.String()
}
