package expr

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/brindlewood/actcore/core/redact"
	"github.com/brindlewood/actcore/core/value"
)

// Function is a built-in or host-registered callable resolvable by name
// from an expression Function call node.
type Function func(args []value.Value) (value.Value, error)

// Functions is the name -> Function table threaded through Eval/Test.
type Functions map[string]Function

// DefaultFunctions returns the built-in function table: fromJSON,
// startsWith, contains, cancelled, failure, success, hashFiles (which
// always fails, matching the "not implemented" contract).
func DefaultFunctions() Functions {
	return Functions{
		"fromJSON":    builtinFromJSON,
		"startsWith":  builtinStartsWith,
		"contains":    builtinContains,
		"cancelled":   func([]value.Value) (value.Value, error) { return value.Bool(false), nil },
		"failure":     func([]value.Value) (value.Value, error) { return value.Bool(false), nil },
		"success":     func([]value.Value) (value.Value, error) { return value.Bool(true), nil },
		"hashFiles":   builtinHashFiles,
	}
}

func builtinHashFiles(args []value.Value) (value.Value, error) {
	return nil, fmt.Errorf("hashFiles: not implemented")
}

func builtinFromJSON(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("fromJSON: expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(value.String)
	if !ok {
		return nil, fmt.Errorf("fromJSON: argument must be a string")
	}
	secret := s.Redacted.HasRedacted()
	var decoded any
	if err := json.Unmarshal([]byte(s.Redacted.ToExposed()), &decoded); err != nil {
		return nil, fmt.Errorf("fromJSON: %w", err)
	}
	return jsonToValue(decoded, secret), nil
}

func jsonToValue(v any, secret bool) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null{}
	case bool:
		return value.Bool(t)
	case float64:
		return value.Float(t)
	case string:
		return value.String{Redacted: buildRedacted(t, secret)}
	case []any:
		arr := make(value.Array, 0, len(t))
		for _, item := range t {
			arr = append(arr, jsonToValue(item, secret))
		}
		return arr
	case map[string]any:
		m := value.NewMapping()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, jsonToValue(t[k], secret))
		}
		return m
	default:
		return value.Null{}
	}
}

func builtinStartsWith(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("startsWith: expected 2 arguments, got %d", len(args))
	}
	hay := stringify(args[0])
	needle := stringify(args[1])
	return value.Bool(strings.HasPrefix(hay, needle)), nil
}

func builtinContains(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("contains: expected 2 arguments, got %d", len(args))
	}
	switch hay := args[0].(type) {
	case value.Array:
		for _, item := range hay {
			if valuesEqual(item, args[1]) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	default:
		return value.Bool(strings.Contains(stringify(args[0]), stringify(args[1]))), nil
	}
}

// suggestFunction returns the closest registered name to want using fuzzy
// matching, or "" if nothing is close.
func suggestFunction(fns Functions, want string) string {
	var names []string
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)
	matches := fuzzy.RankFindFold(want, names)
	if len(matches) == 0 {
		return ""
	}
	sort.Sort(matches)
	return matches[0].Target
}

// buildRedacted wraps text as a redacted string when secret is true and
// the text is representable as a redacted span (printable ASCII); it
// falls back to a plain public string otherwise so no content is lost.
func buildRedacted(text string, secret bool) *redact.String {
	r := redact.New()
	if secret {
		if err := r.PushRedacted(text); err == nil {
			return r
		}
		r = redact.New()
	}
	r.Push(text)
	return r
}
