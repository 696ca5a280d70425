package manifest

import "fmt"

// Error is a structural or semantic manifest violation. It is always
// fatal to the whole run and is reported before any remote call is made.
type Error struct {
	// Context locates the violation, e.g. `asset "web-1" collector "tcp"`.
	Context string

	// Message describes the violation.
	Message string
}

func (e *Error) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Message
	}
	return e.Message
}

func errf(context, format string, args ...any) *Error {
	return &Error{Context: context, Message: fmt.Sprintf(format, args...)}
}
