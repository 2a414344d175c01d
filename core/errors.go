package core

import (
	"errors"
	"fmt"
)

// Input error kinds. These are the only failures that leave the pipeline;
// selector problems and malformed markup degrade to a best-effort result.
var (
	ErrNotFound        = errors.New("input not found")
	ErrIsDirectory     = errors.New("input is a directory")
	ErrPermission      = errors.New("input not readable")
	ErrInvalidEncoding = errors.New("input is not valid UTF-8")
	ErrInputTooLarge   = errors.New("input exceeds size limit")
)

// InputError reports a failure to obtain the HTML of a request.
// errors.Is matches both Kind and the underlying error.
type InputError struct {
	Path string
	Kind error
	Err  error
}

func (e *InputError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

func (e *InputError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewInputError builds an InputError of the given kind.
func NewInputError(path string, kind, err error) *InputError {
	return &InputError{Path: path, Kind: kind, Err: err}
}
