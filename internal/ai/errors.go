package ai

import "errors"

// fatalError marks configuration or format failures that retrying the same
// request cannot fix: access denied, invalid request format, and malformed
// backend responses.
type fatalError struct {
	msg string
	err error
}

func (e *fatalError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *fatalError) Unwrap() error { return e.err }

// IsFatal reports whether an error should short-circuit the retry loop.
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}
