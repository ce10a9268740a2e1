package middleware

import (
	"net/http"
)

// ErrorHandler is called when validation fails. The error it returns is
// passed up to the request pipeline. Returning nil lets the traffic through.
type ErrorHandler func(req *http.Request, err *ValidationError) error

// Options configures middleware behavior.
type Options struct {
	ValidateRequest  bool
	ValidateResponse bool
	ErrorHandler     ErrorHandler
}

// DefaultOptions validates requests only.
func DefaultOptions() *Options {
	return &Options{
		ValidateRequest: true,
	}
}
