// Package apiclient is the request/response pipeline called by code that
// endpointgen generates: request construction, dispatch, decoding and the
// shared BaseError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// ParameterKind is how an endpoint carries its parameters.
type ParameterKind int

const (
	Path ParameterKind = iota
	Querystring
	JSON
	Nothing
)

func (k ParameterKind) String() string {
	switch k {
	case Path:
		return "path"
	case Querystring:
		return "querystring"
	case JSON:
		return "json"
	case Nothing:
		return "nothing"
	default:
		return "unknown"
	}
}

// BuildRequest assembles an outgoing request. For Querystring params is
// encoded with EncodeQuery and appended to the URL; for JSON it is marshaled
// into the body. Path and Nothing ignore params. Errors are *BaseError.
func BuildRequest(ctx context.Context, method, baseURL, path string, token TokenCarrier, kind ParameterKind, params any) (*http.Request, error) {
	target := baseURL + path

	var body io.Reader
	var contentType string

	switch kind {
	case Querystring:
		qs, err := EncodeQuery(params)
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "serialized parameter", "kind", kind, "query", qs)
		if qs != "" {
			target += "?" + qs
		}
	case JSON:
		buf, err := json.Marshal(params)
		if err != nil {
			return nil, &BaseError{Kind: KindJSONSerialize, Err: err}
		}
		slog.DebugContext(ctx, "serialized parameter", "kind", kind, "body", string(buf))
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &BaseError{Kind: KindInvalidArgument, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != nil {
		for _, c := range token.Cookies() {
			req.AddCookie(c)
		}
	}

	return req, nil
}

// PathParam is one named value substituted into a path template.
type PathParam struct {
	Name  string
	Value any
}

// ExpandPath replaces every `:name` token in template with the escaped
// string form of the matching parameter. Unknown tokens are left in place.
func ExpandPath(template string, params ...PathParam) string {
	values := make(map[string]string, len(params))
	for _, p := range params {
		values[p.Name] = url.PathEscape(fmt.Sprint(p.Value))
	}

	var b strings.Builder
	for i := 0; i < len(template); {
		if template[i] != ':' {
			b.WriteByte(template[i])
			i++
			continue
		}
		j := i + 1
		for j < len(template) && isNameByte(template[j]) {
			j++
		}
		if v, ok := values[template[i+1:j]]; ok && j > i+1 {
			b.WriteString(v)
		} else {
			b.WriteString(template[i:j])
		}
		i = j
	}
	return b.String()
}

// PathPlaceholders returns the names of the `:name` tokens in template, in order.
func PathPlaceholders(template string) []string {
	var names []string
	for i := 0; i < len(template); i++ {
		if template[i] != ':' {
			continue
		}
		j := i + 1
		for j < len(template) && isNameByte(template[j]) {
			j++
		}
		if j > i+1 {
			names = append(names, template[i+1:j])
		}
		i = j - 1
	}
	return names
}

func isNameByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
