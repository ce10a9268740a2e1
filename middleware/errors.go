package middleware

import (
	"fmt"
	"strings"

	"github.com/pb33f/libopenapi-validator/errors"
)

// ValidationError reports traffic the OpenAPI document does not allow.
type ValidationError struct {
	// Direction is "request" or "response".
	Direction string
	Method    string
	Path      string
	Errors    []*errors.ValidationError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msg := err.Message
		if err.Reason != "" {
			msg += " (" + err.Reason + ")"
		}
		msgs = append(msgs, msg)
	}
	return fmt.Sprintf("%s validation failed for %s %s: %s", e.Direction, e.Method, e.Path, strings.Join(msgs, "; "))
}
