package apiclient

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Kind classifies the failures shared by every generated endpoint.
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindUnauthorized
	KindPermissionDenied
	KindUndefined
	KindJSONDeserialize
	KindJSONSerialize
	KindQuerystringSerialize
	KindTransport
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindPermissionDenied:
		return "permission_denied"
	case KindUndefined:
		return "undefined"
	case KindJSONDeserialize:
		return "json_deserialize"
	case KindJSONSerialize:
		return "json_serialize"
	case KindQuerystringSerialize:
		return "querystring_serialize"
	case KindTransport:
		return "transport"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "unknown"
	}
}

// BaseError is the cross-cutting error wrapped by every namespace error.
type BaseError struct {
	Kind Kind
	// Status is the response status code for KindUndefined.
	Status int
	// Body is the raw response text for KindBadRequest and KindUndefined.
	Body string
	// Err is the underlying cause for serialization, transport and conversion failures.
	Err error
}

// Sentinels for use with errors.Is; only Kind is compared.
var (
	ErrBadRequest       = &BaseError{Kind: KindBadRequest}
	ErrUnauthorized     = &BaseError{Kind: KindUnauthorized}
	ErrPermissionDenied = &BaseError{Kind: KindPermissionDenied}
	ErrUndefined        = &BaseError{Kind: KindUndefined}
	ErrTransport        = &BaseError{Kind: KindTransport}
)

func (e *BaseError) Error() string {
	switch e.Kind {
	case KindBadRequest:
		return "bad request: " + e.Body
	case KindUnauthorized:
		return "unauthorized"
	case KindPermissionDenied:
		return "permission denied"
	case KindUndefined:
		return fmt.Sprintf("undefined: status_code = %d; body = %s", e.Status, e.Body)
	case KindJSONDeserialize:
		return fmt.Sprintf("json deserialize: %v", e.Err)
	case KindJSONSerialize:
		return fmt.Sprintf("json serialize: %v", e.Err)
	case KindQuerystringSerialize:
		return fmt.Sprintf("querystring serialize: %v", e.Err)
	case KindTransport:
		return fmt.Sprintf("transport: %v", e.Err)
	case KindInvalidArgument:
		return fmt.Sprintf("invalid argument: %v", e.Err)
	default:
		return "unknown error"
	}
}

func (e *BaseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *BaseError of the same Kind.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	return ok && t.Kind == e.Kind
}

// IsUnauthorized returns true if the server rejected the credentials (401).
func (e *BaseError) IsUnauthorized() bool {
	return e.Kind == KindUnauthorized
}

// IsForbidden returns true if the credentials lack permission (403).
func (e *BaseError) IsForbidden() bool {
	return e.Kind == KindPermissionDenied
}

// AsBase extracts the *BaseError from an error chain.
func AsBase(err error) (*BaseError, bool) {
	var base *BaseError
	if errors.As(err, &base) {
		return base, true
	}
	return nil, false
}

// FromStatus maps a response no handler claimed to a BaseError.
// It must be the last branch of a status switch.
func FromStatus(resp *http.Response) *BaseError {
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return &BaseError{Kind: KindBadRequest, Status: resp.StatusCode, Body: readText(resp)}
	case http.StatusUnauthorized:
		return &BaseError{Kind: KindUnauthorized, Status: resp.StatusCode}
	case http.StatusForbidden:
		return &BaseError{Kind: KindPermissionDenied, Status: resp.StatusCode}
	default:
		return &BaseError{Kind: KindUndefined, Status: resp.StatusCode, Body: readText(resp)}
	}
}

// readText returns the body as text, or "" if it cannot be read.
func readText(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(buf)
}

// HandleStatus runs a status handler of an endpoint. A handler that returns
// nil leaves the response unclaimed and it is mapped by FromStatus.
func HandleStatus(resp *http.Response, handler func(*http.Response) error) error {
	if err := handler(resp); err != nil {
		return err
	}
	return FromStatus(resp)
}
