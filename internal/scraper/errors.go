package scraper

import (
	"errors"
	"fmt"
)

// ErrUnsupportedCourt is returned by the registry when no adapter is
// registered for a court acronym. Unregistered courts fail closed.
var ErrUnsupportedCourt = errors.New("unsupported court")

// RequestError is a transient fetch failure: network fault, timeout, or a
// non-2xx response after the retry budget is exhausted. Parse errors are
// never RequestErrors.
type RequestError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRequestError reports whether err is (or wraps) a transient fetch failure.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
