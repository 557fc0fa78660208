package gforms

import "fmt"

type Code string

const (
	// ErrAuth: credentials missing or unrefreshable.
	ErrAuth Code = "auth"
	// ErrCreate: the form entity could not be created; nothing to clean up.
	ErrCreate Code = "create"
	// ErrBatchUpdate: the content mutation failed after creation; the form
	// exists but is incomplete.
	ErrBatchUpdate Code = "batch_update"
)

// Error is a classified provider failure. FormID is set when a form was
// already created so the caller can surface the partially configured form.
type Error struct {
	Code   Code
	FormID string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.FormID != "" {
		return fmt.Sprintf("gforms: %s (form %s): %v", e.Code, e.FormID, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("gforms: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("gforms: %s", e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code Code, formID string, err error) *Error {
	return &Error{Code: code, FormID: formID, Err: err}
}
