package regexcore

import "github.com/coregx/regexcore/compile"

// CompileError is the single error kind for both parse and compile
// failures: a human-readable message plus the 0-based byte offset into
// the pattern where the fault was detected. The struct itself lives in
// package compile (so parse and compile can
// both construct one without an import cycle back to this package);
// this is a type alias so callers see a single, root-level error type
// regardless of which stage raised it.
type CompileError = compile.CompileError
