package expr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arqora/tsquant/expr"
)

func TestParsePrecedence(t *testing.T) {
	n, err := expr.Parse("1 + 2 * 3")
	require.NoError(t, err)
	add, ok := n.(expr.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.Y.(expr.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseComparisonBindsLooserThanSum(t *testing.T) {
	n, err := expr.Parse("A + 1 > B")
	require.NoError(t, err)
	cmp, ok := n.(expr.Binary)
	require.True(t, ok)
	assert.Equal(t, ">", cmp.Op)
	_, ok = cmp.X.(expr.Binary)
	assert.True(t, ok)
}

func TestParseTernary(t *testing.T) {
	n, err := expr.Parse("A > B ? 1 : 0")
	require.NoError(t, err)
	tern, ok := n.(expr.Ternary)
	require.True(t, ok)
	cond, ok := tern.Cond.(expr.Binary)
	require.True(t, ok)
	assert.Equal(t, ">", cond.Op)
}

func TestParseLogicalChain(t *testing.T) {
	n, err := expr.Parse("A > 1 && B < 2 || C == 3")
	require.NoError(t, err)
	or, ok := n.(expr.Binary)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)
	and, ok := or.X.(expr.Binary)
	require.True(t, ok)
	assert.Equal(t, "&&", and.Op)
}

func TestParseUnaryMinusNests(t *testing.T) {
	n, err := expr.Parse("--A")
	require.NoError(t, err)
	outer, ok := n.(expr.Unary)
	require.True(t, ok)
	_, ok = outer.X.(expr.Unary)
	assert.True(t, ok)
}

func TestParseCallWithArguments(t *testing.T) {
	n, err := expr.Parse("MA(CLOSE, 5)")
	require.NoError(t, err)
	call, ok := n.(expr.Call)
	require.True(t, ok)
	assert.Equal(t, "MA", call.Name)
	require.Len(t, call.Args, 2)
	assert.Equal(t, expr.Ident{Name: "CLOSE"}, call.Args[0])
	assert.Equal(t, expr.NumberLit{Value: 5}, call.Args[1])
}

func TestParseDottedName(t *testing.T) {
	n, err := expr.Parse("bar.close")
	require.NoError(t, err)
	dotted, ok := n.(expr.Dotted)
	require.True(t, ok)
	assert.Equal(t, []string{"bar", "close"}, dotted.Parts)
}

func TestParseScientificNumber(t *testing.T) {
	n, err := expr.Parse("2.5e-3")
	require.NoError(t, err)
	num, ok := n.(expr.NumberLit)
	require.True(t, ok)
	assert.InDelta(t, 0.0025, num.Value, 1e-12)
}

func TestParseErrorCarriesPosition(t *testing.T) {
	_, err := expr.Parse("1 +\n  * 2")
	require.Error(t, err)
	var perr *expr.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 3, perr.Col)
	assert.ErrorIs(t, err, expr.ErrUnexpectedToken)
}

func TestParseErrorOnUnknownRune(t *testing.T) {
	_, err := expr.Parse("A @ B")
	assert.ErrorIs(t, err, expr.ErrUnknownOperator)
}

func TestParseErrorOnEOF(t *testing.T) {
	_, err := expr.Parse("MA(CLOSE,")
	assert.ErrorIs(t, err, expr.ErrUnexpectedEOF)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	_, err := expr.Parse("1 2")
	assert.ErrorIs(t, err, expr.ErrUnexpectedToken)
}
