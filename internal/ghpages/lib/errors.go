package lib

import (
	"errors"
	"fmt"
)

// Error kinds. Every fatal error returned by the publisher matches exactly
// one of these with errors.Is.
var (
	ErrConfiguration          = errors.New("configuration error")
	ErrRemoteOperation        = errors.New("remote operation failed")
	ErrInvalidReferenceTarget = errors.New("invalid reference target")
	ErrFilesystem             = errors.New("filesystem error")
)

// Error ties a cause to the step that produced it.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Op
	case e.Op == "":
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ConfigError builds an ErrConfiguration error from a format string.
func ConfigError(format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Op: fmt.Sprintf(format, args...)}
}

// RemoteError wraps a failed host call with the step name, e.g.
// "error creating tree".
func RemoteError(op string, err error) error {
	return &Error{Kind: ErrRemoteOperation, Op: op, Err: err}
}

// FilesystemError wraps a local read failure.
func FilesystemError(op string, err error) error {
	return &Error{Kind: ErrFilesystem, Op: op, Err: err}
}
