package driver

import "fmt"

// Error is an opaque failure reported by a compute runtime, surfaced with
// the operation that triggered it and the symbolic status code.
type Error struct {
	Op     string
	Status Status
}

func (e *Error) Error() string {
	return fmt.Sprintf("driver: %s: %s", e.Op, e.Status)
}

// Errf builds a driver error for op with the given status.
func Errf(op string, status Status) error {
	return &Error{Op: op, Status: status}
}

// BuildError reports a failed program build. Log carries the runtime's
// build log verbatim, the only actionable diagnostic for malformed kernel
// source or mismatched build options.
type BuildError struct {
	Status Status
	Msg    string
	Log    string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("driver: program build failed (%s): %s\n%s", e.Status, e.Msg, e.Log)
}
