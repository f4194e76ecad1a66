package hier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeSimpleList(t *testing.T) {
	tok := newTokenizer(`(+ 1 2)`, "main")
	tokens, errs := tok.tokenizeModule()
	require.Empty(t, errs)

	var kinds []tokenKind
	for _, tk := range tokens {
		kinds = append(kinds, tk.kind)
	}

	assert.Equal(t, []tokenKind{
		tokLeftCurly,
		tokLeftBracket, tokIdentifier, tokNumber, tokNumber, tokRightBracket,
		tokRightCurly,
	}, kinds)
}

func TestTokenizeIdentifierBeforeList(t *testing.T) {
	tok := newTokenizer(`(println(1))`, "main")
	tok.tokenizeCode()
	require.Empty(t, tok.errs)
	require.GreaterOrEqual(t, len(tok.tokens), 2)
	assert.Equal(t, "println(", tok.tokens[1].text)
}

func TestTokenizeNegativeNumber(t *testing.T) {
	tok := newTokenizer(`(- 5)`, "main")
	tok.tokenizeCode()
	require.Empty(t, tok.errs)

	var found bool
	for _, tk := range tok.tokens {
		if tk.kind == tokIdentifier && tk.text == "-" {
			found = true
		}
	}
	assert.True(t, found, "bare - should tokenize as an identifier")
}

func TestTokenizeUnbalancedBracketsReportsError(t *testing.T) {
	tok := newTokenizer(`(+ 1 2`, "main")
	tok.tokenizeCode()
	assert.NotEmpty(t, tok.errs)
}

func TestTokenizeNumberMalformedDoesNotHang(t *testing.T) {
	done := make(chan SyntaxErrorList, 1)
	go func() {
		tok := newTokenizer(`(1a2)`, "main")
		tok.tokenizeCode()
		done <- tok.errs
	}()

	select {
	case errs := <-done:
		assert.NotEmpty(t, errs)
	case <-time.After(2 * time.Second):
		t.Fatal("tokenizer.number() did not terminate on a malformed number")
	}
}

func TestTokenizeModuleDirective(t *testing.T) {
	tok := newTokenizer("#lib\n(+ 1 2)", "main")
	tok.tokenizeCode()
	require.Empty(t, tok.errs)
	assert.Equal(t, "lib", tok.moduleName)
}

func TestTokenizePathDirectiveSplicesIncludedTokens(t *testing.T) {
	reads := 0
	tok := newTokenizer(`#<lib.hier>`, "main")
	tok.reader = func(path string) (string, error) {
		reads++
		assert.Equal(t, "lib.hier", path)
		return `(+ 1 2)`, nil
	}
	tok.tokenizeCode()
	require.Empty(t, tok.errs)
	assert.Equal(t, 1, reads)

	var kinds []tokenKind
	for _, tk := range tok.tokens {
		kinds = append(kinds, tk.kind)
	}
	assert.Equal(t, []tokenKind{
		tokLeftBracket, tokIdentifier, tokNumber, tokNumber, tokRightBracket,
	}, kinds)
}

func TestTokenizePathDirectiveDedupesRepeatedInclude(t *testing.T) {
	reads := 0
	tok := newTokenizer(`#<lib.hier>#<lib.hier>`, "main")
	tok.reader = func(path string) (string, error) {
		reads++
		return `(+ 1 2)`, nil
	}
	tok.tokenizeCode()
	require.Empty(t, tok.errs)
	assert.Equal(t, 1, reads, "including the same path twice should only read it once")
	assert.Len(t, tok.tokens, 5)
}

func TestTokenizeString(t *testing.T) {
	tok := newTokenizer(`"hello"`, "main")
	tok.tokenizeCode()
	require.Empty(t, tok.errs)
	require.Len(t, tok.tokens, 1)
	assert.Equal(t, "hello", tok.tokens[0].text)
}
