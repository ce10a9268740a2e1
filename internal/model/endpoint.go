package model

import "strings"

type Endpoint struct {
	Namespace      string
	Name           string // snake_case, e.g. "get_book_by_id"
	Method         Method
	Path           string // template with :param placeholders
	Kind           ParameterKind
	Summary        string
	Parameters     []Parameter
	Errors         []ErrorVariant
	StatusHandlers []StatusHandler // declared order; first match wins
	SuccessStatus  int
	Response       string // Go type expression; empty means no payload
}

// IsUnit reports whether the endpoint succeeds without a payload.
func (e *Endpoint) IsUnit() bool {
	return strings.TrimSpace(e.Response) == ""
}

// IsRawBody reports whether the success body is returned undecoded.
func (e *Endpoint) IsRawBody() bool {
	return strings.ReplaceAll(e.Response, " ", "") == "[]byte"
}

// Variant returns the declared error variant with the given name.
func (e *Endpoint) Variant(name string) (ErrorVariant, bool) {
	for _, v := range e.Errors {
		if v.Name == name {
			return v, true
		}
	}
	return ErrorVariant{}, false
}

type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

type ParameterKind string

const (
	KindPath        ParameterKind = "path"
	KindQuerystring ParameterKind = "querystring"
	KindJSON        ParameterKind = "json"
	KindNothing     ParameterKind = "nothing"
)

type Parameter struct {
	Name string // snake_case
	Type string // Go type expression
}

type ErrorVariant struct {
	Name    string // PascalCase, e.g. "NotFoundBook"
	Message string
}

// StatusHandler maps a status to an error variant, or to Handler, the name
// of a Go func(*http.Response) error that builds the error from the response.
type StatusHandler struct {
	Status  int
	Variant string
	Handler string
}
