package square

import "fmt"

// APIError is returned when Square answers but signals failure, either with a
// non-2xx status or with a populated errors array.
type APIError struct {
	Op     string
	Status int
	Code   string
	// Detail is Square's human-readable message. Empty when none was sent.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("square %s: %d %s: %s", e.Op, e.Status, e.Code, e.Detail)
	}
	return fmt.Sprintf("square %s: status %d", e.Op, e.Status)
}

func newAPIError(op string, status int, details []apiErrorDetail) *APIError {
	e := &APIError{Op: op, Status: status}
	if len(details) > 0 {
		e.Code = details[0].Code
		e.Detail = details[0].Detail
	}
	return e
}
