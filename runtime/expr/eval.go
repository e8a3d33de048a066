package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brindlewood/actcore/core/value"
)

// Eval walks expr against tree, resolving lookups and applying operators
// and functions, and returns the resulting Value. Evaluation is pure: no
// I/O, no process spawn, no mutation of tree.
func Eval(src string, tree *value.Tree, fns Functions) (value.Value, error) {
	t, perrs := Parse(src)
	if len(perrs) > 0 {
		return nil, &EvalError{Span: perrs[0].Span, Kind: BadString, Message: perrs[0].Message}
	}
	e := &evaluator{tree: tree, fns: fns, t: t}
	return e.eval(t.Root)
}

// Test reports the truthiness of evaluating expr against tree.
func Test(src string, tree *value.Tree, fns Functions) (bool, error) {
	v, err := Eval(src, tree, fns)
	if err != nil {
		return false, err
	}
	return value.Truthy(v), nil
}

type evaluator struct {
	tree *value.Tree
	fns  Functions
	t    *Tree
}

func (e *evaluator) eval(idx int) (value.Value, error) {
	n := e.t.Node(idx)
	switch n.Kind {
	case Number:
		f, err := strconv.ParseFloat(n.Tok.Text, 64)
		if err != nil {
			return nil, &EvalError{Span: n.Tok.Span, Kind: Overflow, Message: fmt.Sprintf("invalid number %q", n.Tok.Text)}
		}
		return value.Float(f), nil
	case Bool:
		return value.Bool(strings.EqualFold(n.Tok.Text, "true")), nil
	case Null:
		return value.Null{}, nil
	case SingleString, DoubleString:
		return value.NewString(unescapeStringLiteral(n.Tok.Text)), nil
	case Group:
		return e.eval(n.Children[0])
	case Unary:
		operand, err := e.eval(n.Children[0])
		if err != nil {
			return nil, err
		}
		return value.Bool(!value.Truthy(operand)), nil
	case Binary:
		return e.evalBinary(n)
	case Lookup:
		return e.evalLookup(n), nil
	case Function:
		return e.evalFunction(n)
	case Error:
		return nil, &EvalError{Span: n.Tok.Span, Kind: Custom, Message: n.Tok.Text}
	default:
		return nil, &EvalError{Span: n.Tok.Span, Kind: Custom, Message: "unhandled node kind"}
	}
}

func (e *evaluator) evalBinary(n Node) (value.Value, error) {
	op := n.Tok.Text
	switch op {
	case "&&":
		left, err := e.eval(n.Children[0])
		if err != nil {
			return nil, err
		}
		if !value.Truthy(left) {
			return left, nil
		}
		return e.eval(n.Children[1])
	case "||":
		left, err := e.eval(n.Children[0])
		if err != nil {
			return nil, err
		}
		if value.Truthy(left) {
			return left, nil
		}
		return e.eval(n.Children[1])
	}

	left, err := e.eval(n.Children[0])
	if err != nil {
		return nil, err
	}
	right, err := e.eval(n.Children[1])
	if err != nil {
		return nil, err
	}

	switch op {
	case "==":
		return value.Bool(valuesEqual(left, right)), nil
	case "!=":
		return value.Bool(!valuesEqual(left, right)), nil
	case "<", "<=", ">", ">=":
		lf, rf := toFloat(left), toFloat(right)
		if lf.IsNaN() || rf.IsNaN() {
			return value.Bool(false), nil
		}
		switch op {
		case "<":
			return value.Bool(lf < rf), nil
		case "<=":
			return value.Bool(lf <= rf), nil
		case ">":
			return value.Bool(lf > rf), nil
		default:
			return value.Bool(lf >= rf), nil
		}
	default:
		return nil, &EvalError{Span: n.Tok.Span, Kind: UnexpectedOperator, Message: "unexpected operator " + op}
	}
}

func (e *evaluator) evalLookup(n Node) value.Value {
	path := make([]string, 0, len(n.Children)+1)
	path = append(path, n.Tok.Text)
	for _, childIdx := range n.Children {
		child := e.t.Node(childIdx)
		if child.Kind == Star {
			path = append(path, "*")
		} else {
			path = append(path, child.Tok.Text)
		}
	}
	v, ok := e.tree.Get(path)
	if !ok {
		return value.Null{}
	}
	return v
}

func (e *evaluator) evalFunction(n Node) (value.Value, error) {
	name := n.Tok.Text
	fn, ok := e.fns[name]
	if !ok {
		suggestion := suggestFunction(e.fns, name)
		return nil, &EvalError{
			Span:       n.Tok.Span,
			Kind:       BadVariable,
			Message:    fmt.Sprintf("unknown function %q", name),
			Suggestion: suggestion,
		}
	}
	args := make([]value.Value, 0, len(n.Children))
	for _, argIdx := range n.Children {
		v, err := e.eval(argIdx)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	v, err := fn(args)
	if err != nil {
		return nil, &EvalError{Span: n.Tok.Span, Kind: Custom, Message: err.Error()}
	}
	return v, nil
}

// toFloat implements the numeric coercion rule: Null->0, Bool->0|1,
// String->parsed as f64 (empty->0, else NaN on failure), Array/Mapping->NaN.
func toFloat(v value.Value) value.Float {
	switch t := v.(type) {
	case value.Null:
		return 0
	case value.Bool:
		if t {
			return 1
		}
		return 0
	case value.Float:
		return t
	case value.String:
		s := t.Redacted.ToExposed()
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return value.NaNValue
		}
		return value.Float(f)
	default:
		return value.NaNValue
	}
}

// valuesEqual implements the == semantics: strings compare exposed bytes;
// other types use numeric coercion, with NaN always unequal.
func valuesEqual(a, b value.Value) bool {
	as, aIsString := a.(value.String)
	bs, bIsString := b.(value.String)
	if aIsString && bIsString {
		return as.Redacted.ToExposed() == bs.Redacted.ToExposed()
	}
	af, bf := toFloat(a), toFloat(b)
	if af.IsNaN() || bf.IsNaN() {
		return false
	}
	return af == bf
}

// stringify renders a Value as exposed text for use by string-oriented
// built-ins (startsWith, contains); never used for user-visible display.
func stringify(v value.Value) string {
	switch t := v.(type) {
	case value.String:
		return t.Redacted.ToExposed()
	case value.Bool:
		if t {
			return "true"
		}
		return "false"
	case value.Float:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case value.Null:
		return ""
	default:
		return ""
	}
}

func unescapeStringLiteral(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	body := raw[1 : len(raw)-1]
	var out strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case '\\':
				out.WriteByte('\\')
			case '\'':
				out.WriteByte('\'')
			case '"':
				out.WriteByte('"')
			default:
				out.WriteByte(body[i])
			}
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}
