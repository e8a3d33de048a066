// Package expr implements the expression syntax tree, parser, and
// evaluator: a typed value model with operator precedence, lookups,
// function calls, and CI-specific semantics (NaN-like coercion,
// short-circuiting, secrets redaction flowing through values).
package expr

import "github.com/brindlewood/actcore/runtime/lexer"

// NodeKind identifies a syntax tree node's shape.
type NodeKind int

const (
	Group NodeKind = iota
	Unary
	Binary
	Lookup
	Function
	Ident
	Dot
	Star
	Operator
	Number
	Bool
	Null
	SingleString
	DoubleString
	Error
)

// Node is one entry in the flat node arena. Children are indices into the
// same Tree's Nodes slice, never pointers, so the arena can be built by an
// error-recovering parser without pointer-graph bookkeeping.
type Node struct {
	Kind     NodeKind
	Tok      lexer.Token
	Children []int
}

// Tree is the parsed syntax tree: a flat arena with a root index. Node 0
// is never the root unless the tree has exactly one node; Root is set
// explicitly by the parser.
type Tree struct {
	Nodes []Node
	Root  int
}

// Node returns the node at idx.
func (t *Tree) Node(idx int) Node { return t.Nodes[idx] }

func (t *Tree) push(n Node) int {
	t.Nodes = append(t.Nodes, n)
	return len(t.Nodes) - 1
}
