package compile

import "fmt"

// CompileError is the single error kind for both parse and compile
// failures: a human-readable message plus the 0-based byte offset into
// the pattern where the fault was detected. Lives here, rather than in
// the root package, so both package parse and package compile can
// construct one without an import cycle; the root façade re-exports it
// as regexcore.CompileError.
type CompileError struct {
	Pattern string
	Message string
	Offset  int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("regexcore: compile error in %q at offset %d: %s", e.Pattern, e.Offset, e.Message)
}

// internalError signals an invariant violation reaching the compiler:
// an unknown AST unit, a Quantifier with the wrong arity. These are
// programming errors, not ordinary compile failures, raised as a panic
// rather than returned.
type internalError struct {
	Message string
}

func (e *internalError) Error() string { return "regexcore: internal error: " + e.Message }
