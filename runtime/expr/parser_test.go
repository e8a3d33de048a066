package expr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindlewood/actcore/runtime/expr"
)

func TestParseFunctionCallArgs(t *testing.T) {
	tree, errs := expr.Parse(`contains(matrix.xs, 'x')`)
	require.Empty(t, errs)
	root := tree.Node(tree.Root)
	require.Equal(t, expr.Function, root.Kind)
	require.Equal(t, "contains", root.Tok.Text)
	require.Len(t, root.Children, 2)
}

func TestParseLookupChain(t *testing.T) {
	tree, errs := expr.Parse(`matrix.*`)
	require.Empty(t, errs)
	root := tree.Node(tree.Root)
	require.Equal(t, expr.Lookup, root.Kind)
	require.Equal(t, "matrix", root.Tok.Text)
	require.Len(t, root.Children, 1)
	require.Equal(t, expr.Star, tree.Node(root.Children[0]).Kind)
}

func TestParseMalformedExpressionRecovers(t *testing.T) {
	tree, errs := expr.Parse(`a == && b`)
	require.NotEmpty(t, errs)
	require.NotNil(t, tree)
}

func TestParsePrecedenceOrBindsLooserThanAnd(t *testing.T) {
	tree, errs := expr.Parse(`a && b || c`)
	require.Empty(t, errs)
	root := tree.Node(tree.Root)
	require.Equal(t, expr.Binary, root.Kind)
	require.Equal(t, "||", root.Tok.Text)
}
