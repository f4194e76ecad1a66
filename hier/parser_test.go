package hier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseModule(t *testing.T, source string) Expression {
	t.Helper()
	tok := newTokenizer(source, "main")
	tokens, errs := tok.tokenizeModule()
	require.Empty(t, errs)

	p := newParser(tokens, "main")
	p.index = 1 // skip the synthetic outer '{'
	list := p.parseBlock()
	require.Empty(t, p.errs)
	require.Len(t, list, 1)
	return list[0]
}

func TestParsePipeOperator(t *testing.T) {
	// (1 2 3) > (map { ... }) rebuilds into (map (1 2 3) { ... }): the
	// piped-from list is spliced in as the first argument after the name.
	expr := parseModule(t, "(1 2 3) > (map { (+ element 1) })")
	require.Equal(t, exprList, expr.kind)
	require.Len(t, expr.items, 3)
	assert.Equal(t, "map", expr.items[0].name)
	assert.Equal(t, exprList, expr.items[1].kind)
	assert.Equal(t, exprBlock, expr.items[2].kind)
}

func TestParseSubscriptDesugarsToGet(t *testing.T) {
	expr := parseModule(t, "(list 1 2 3)[0]")
	require.Equal(t, exprList, expr.kind)
	require.Len(t, expr.items, 3)
	assert.Equal(t, "get", expr.items[0].name)
}

func TestParsePropertyAccess(t *testing.T) {
	expr := parseModule(t, "x.name")
	require.Equal(t, exprProperty, expr.kind)
	assert.Equal(t, "name", expr.property)
	assert.Equal(t, "x", expr.target.name)
}

func TestParseKeyValueShorthand(t *testing.T) {
	expr := parseModule(t, "name:\"bob\"")
	require.Equal(t, exprKeyValue, expr.kind)
	assert.Equal(t, "name", expr.kvKey)
}

func TestParseBangBlockWrapsInBlock(t *testing.T) {
	expr := parseModule(t, "!(println 1)")
	require.Equal(t, exprBlock, expr.kind)
	require.Len(t, expr.items, 1)
	assert.Equal(t, exprList, expr.items[0].kind)
}
