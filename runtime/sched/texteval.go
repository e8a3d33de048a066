package sched

import (
	"strconv"
	"strings"

	"github.com/brindlewood/actcore/core/value"
	"github.com/brindlewood/actcore/runtime/expr"
)

// evalText evaluates text as an expression when it contains an
// interpolation marker, otherwise returns it verbatim. Expression results
// are stringified via the redacted display form is never used here —
// ToExposed is safe because this feeds into the tree/env, not terminal
// output.
func evalText(text string, tree *value.Tree, fns expr.Functions) (string, error) {
	if !strings.Contains(text, "${{") {
		return text, nil
	}
	v, err := expr.Eval(text, tree, fns)
	if err != nil {
		return "", err
	}
	return exposedString(v), nil
}

// ExposedString renders v as the plain string form used for env vars and
// file-contract writes: never the "***" display masking, since these
// values feed a child process's environment rather than a log stream.
func ExposedString(v value.Value) string {
	return exposedString(v)
}

func exposedString(v value.Value) string {
	switch t := v.(type) {
	case value.String:
		return t.Redacted.ToExposed()
	case value.Bool:
		if t {
			return "true"
		}
		return "false"
	case value.Null:
		return ""
	case value.Float:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	default:
		return ""
	}
}
