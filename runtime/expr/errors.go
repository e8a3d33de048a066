package expr

import "github.com/brindlewood/actcore/runtime/lexer"

// ErrKind categorizes an evaluation failure.
type ErrKind int

const (
	BadVariable ErrKind = iota
	BadString
	ExpectedOperator
	UnexpectedOperator
	Missing
	Overflow
	Underflow
	DivideByZero
	Custom
)

// EvalError is returned by Eval/Test. It carries the source span of the
// offending node for diagnostics, and an optional fuzzy-matched
// Suggestion when the error stems from an unknown function name.
type EvalError struct {
	Span       lexer.Span
	Kind       ErrKind
	Message    string
	Suggestion string
}

func (e *EvalError) Error() string {
	if e.Suggestion != "" {
		return e.Message + " (did you mean \"" + e.Suggestion + "\"?)"
	}
	return e.Message
}
