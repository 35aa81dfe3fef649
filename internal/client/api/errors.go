package api

import (
	"errors"
	"fmt"

	"github.com/pavelgris/erpadmin/internal/common"
)

// StatusError is a non-2xx response that is neither an auth failure nor a
// transport problem. Message carries the server-provided text when the body
// had one.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Message extracts a human-readable message from an API error, following the
// fallback chain: server-provided message, then the error text, then a
// generic network-error line.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	if errors.Is(err, common.ErrUnavailable) {
		return "Network error, please try again"
	}
	return err.Error()
}
