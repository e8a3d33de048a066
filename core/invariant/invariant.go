// Package invariant provides panicking assertions for programmer-error
// contract violations. Expected failure modes (malformed input, missing
// files, non-zero exit codes) are always returned as errors instead.
package invariant

import "fmt"

// Precondition panics if cond is false. Use at the top of a function to
// assert a caller-supplied contract.
func Precondition(cond bool, format string, args ...any) {
	if !cond {
		panic("precondition violated: " + fmt.Sprintf(format, args...))
	}
}

// Postcondition panics if cond is false. Use before returning to assert a
// guarantee the function itself must uphold.
func Postcondition(cond bool, format string, args ...any) {
	if !cond {
		panic("postcondition violated: " + fmt.Sprintf(format, args...))
	}
}

// Invariant panics if cond is false. Use mid-function to assert a condition
// that must hold regardless of caller input.
func Invariant(cond bool, format string, args ...any) {
	if !cond {
		panic("invariant violated: " + fmt.Sprintf(format, args...))
	}
}

// NotNil panics if v is nil. name identifies the value in the panic message.
func NotNil(v any, name string) {
	if v == nil {
		panic("invariant violated: " + name + " must not be nil")
	}
}
