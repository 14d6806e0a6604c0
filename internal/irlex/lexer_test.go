package irlex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(src string) []Token {
	l := New(src, "t.ir")
	var out []Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Kind == EOF {
			return out
		}
	}
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	toks := lexAll("( ) [ ] : , . = == != < <= > >= + - / // % * **")
	kinds := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []Kind{
		LPAREN, RPAREN, LBRACKET, RBRACKET, COLON, COMMA, DOT, EQUALS, EQEQ, NEQ,
		LT, LE, GT, GE, PLUS, MINUS, SLASH, DSLASH, PERCENT, STAR, STARSTAR, EOF,
	}, kinds)
}

func TestLexerIdentNumberString(t *testing.T) {
	toks := lexAll(`x1 42 3.5 "hello"`)
	require.Len(t, toks, 5)
	assert.Equal(t, IDENT, toks[0].Kind)
	assert.Equal(t, "x1", toks[0].Literal)
	assert.Equal(t, INT, toks[1].Kind)
	assert.Equal(t, "42", toks[1].Literal)
	assert.Equal(t, FLOAT, toks[2].Kind)
	assert.Equal(t, "3.5", toks[2].Literal)
	assert.Equal(t, STRING, toks[3].Kind)
	assert.Equal(t, "hello", toks[3].Literal)
	assert.Equal(t, EOF, toks[4].Kind)
}

func TestLexerSkipsCommentsAndTracksNewlines(t *testing.T) {
	toks := lexAll("a # a comment\nb")
	require.Len(t, toks, 4)
	assert.Equal(t, IDENT, toks[0].Kind)
	assert.Equal(t, "a", toks[0].Literal)
	assert.Equal(t, NEWLINE, toks[1].Kind)
	assert.Equal(t, IDENT, toks[2].Kind)
	assert.Equal(t, "b", toks[2].Literal)
	assert.Equal(t, 2, toks[2].Line)
}

func TestLexerIllegalCharacter(t *testing.T) {
	toks := lexAll("@")
	require.Len(t, toks, 2)
	assert.Equal(t, ILLEGAL, toks[0].Kind)
	assert.Equal(t, "@", toks[0].Literal)
}

func TestLexerIdentAllowsSigilPrefixes(t *testing.T) {
	toks := lexAll("$temp %local")
	require.Len(t, toks, 3)
	assert.Equal(t, IDENT, toks[0].Kind)
	assert.Equal(t, "$temp", toks[0].Literal)
	assert.Equal(t, IDENT, toks[1].Kind)
	assert.Equal(t, "%local", toks[1].Literal)
}

func TestKindStringFallsBackForUnknown(t *testing.T) {
	assert.Equal(t, "?", Kind(999).String())
	assert.Equal(t, "IDENT", IDENT.String())
}
