package nodes

import (
	"errors"
	"fmt"
)

// ErrUsage is wrapped by every UsageError.
var ErrUsage = errors.New("condsql: invalid tree")

// UsageError reports a tree that was assembled incorrectly: an unsupported
// value type, an ambiguous or invalid placeholder, a nil thunk. It signals
// a programming defect at the call site, never bad data, and is raised as a
// panic by visitors.
type UsageError struct {
	// Path is the child-index path of the offending node ("0.2.1"), if known.
	Path string
	Msg  string
	Err  error
}

func (e *UsageError) Error() string {
	msg := "condsql: " + e.Msg
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UsageError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUsage, e.Err}
	}
	return []error{ErrUsage}
}

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}
