package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindlewood/actcore/runtime/lexer"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, 0, len(toks))
	for _, t := range toks {
		if t.Kind == lexer.Whitespace {
			continue
		}
		out = append(out, t.Kind)
	}
	return out
}

func TestLexSimpleComparison(t *testing.T) {
	toks := lexer.Lex("matrix.a == '1'")
	require.Equal(t, []lexer.Kind{
		lexer.Ident, lexer.Dot, lexer.Ident, lexer.Operator, lexer.SingleString, lexer.Eof,
	}, kinds(toks))
}

func TestLexFunctionCall(t *testing.T) {
	toks := lexer.Lex("contains(matrix.xs, 'x')")
	require.Equal(t, []lexer.Kind{
		lexer.Ident, lexer.OpenParen, lexer.Ident, lexer.Dot, lexer.Ident,
		lexer.Comma, lexer.SingleString, lexer.CloseParen, lexer.Eof,
	}, kinds(toks))
}

func TestLexInterpolationMarkers(t *testing.T) {
	toks := lexer.Lex("${{ matrix.a }}")
	require.Equal(t, lexer.OpenExpr, toks[0].Kind)
	last := toks[len(toks)-1]
	require.Equal(t, lexer.Eof, last.Kind)
	require.Equal(t, lexer.CloseExpr, toks[len(toks)-2].Kind)
}

func TestLexOperators(t *testing.T) {
	toks := lexer.Lex("a != b && c || !d <= e >= f")
	got := kinds(toks)
	var ops int
	for _, k := range got {
		if k == lexer.Operator {
			ops++
		}
	}
	require.Equal(t, 6, ops)
}

func TestLexKeywordsBoolAndNull(t *testing.T) {
	toks := lexer.Lex("true false null")
	require.Equal(t, []lexer.Kind{lexer.Bool, lexer.Bool, lexer.Null, lexer.Eof}, kinds(toks))
}

func TestLexStringEscapes(t *testing.T) {
	toks := lexer.Lex(`"a\"b"`)
	require.Equal(t, lexer.DoubleString, toks[0].Kind)
	require.Equal(t, `"a\"b"`, toks[0].Text)
}

func TestLexUnterminatedStringIsError(t *testing.T) {
	toks := lexer.Lex(`'unterminated`)
	require.Equal(t, lexer.Error, toks[0].Kind)
}

func TestLexNumbers(t *testing.T) {
	toks := lexer.Lex("1 2.5 -3 1e10")
	require.Equal(t, []lexer.Kind{lexer.Number, lexer.Number, lexer.Number, lexer.Number, lexer.Eof}, kinds(toks))
}
