// Package middleware checks the traffic of a generated client against an
// OpenAPI document. It wraps an apiclient.Doer, so it sits between the
// request pipeline and the transport.
package middleware

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/kolah/endpointgen/apiclient"
	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
	validatorErrors "github.com/pb33f/libopenapi-validator/errors"
)

// Middleware validates requests, and optionally responses, against an
// OpenAPI document.
type Middleware struct {
	validator validator.Validator
	options   *Options
}

// New creates middleware from an OpenAPI document.
func New(spec []byte, opts *Options) (*Middleware, error) {
	doc, err := libopenapi.NewDocument(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		return nil, fmt.Errorf("building validator: %w", errs[0])
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	return &Middleware{
		validator: v,
		options:   opts,
	}, nil
}

// Doer returns a Doer that validates every request before handing it to
// next. A nil next uses http.DefaultClient.
func (m *Middleware) Doer(next apiclient.Doer) apiclient.Doer {
	if next == nil {
		next = http.DefaultClient
	}
	return doer{m: m, next: next}
}

type doer struct {
	m    *Middleware
	next apiclient.Doer
}

func (d doer) Do(req *http.Request) (*http.Response, error) {
	if d.m.options.ValidateRequest {
		if err := rewindRequest(req); err != nil {
			return nil, err
		}
		valid, errs := d.m.validator.ValidateHttpRequestSync(req)
		if err := rewindRequest(req); err != nil {
			return nil, err
		}
		if !valid {
			if err := d.m.fail("request", req, errs); err != nil {
				return nil, err
			}
		}
	}

	resp, err := d.next.Do(req)
	if err != nil || !d.m.options.ValidateResponse {
		return resp, err
	}

	if err := rewindResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	valid, errs := d.m.validator.ValidateHttpResponse(req, resp)
	if err := rewindResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	if !valid {
		if err := d.m.fail("response", req, errs); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}

func (m *Middleware) fail(direction string, req *http.Request, errs []*validatorErrors.ValidationError) error {
	err := &ValidationError{
		Direction: direction,
		Method:    req.Method,
		Path:      req.URL.Path,
		Errors:    errs,
	}
	slog.DebugContext(req.Context(), "contract violation",
		"direction", direction, "method", req.Method, "path", req.URL.Path, "errors", len(errs))

	if m.options.ErrorHandler != nil {
		return m.options.ErrorHandler(req, err)
	}
	return err
}

// rewindRequest buffers the body so the validator and the transport both
// read it from the start.
func rewindRequest(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return fmt.Errorf("rewinding request body: %w", err)
		}
		req.Body = body
		return nil
	}

	buf, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	req.Body.Close()
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
	req.Body, _ = req.GetBody()
	return nil
}

type replayBody struct {
	*bytes.Reader
	buf []byte
}

func (replayBody) Close() error { return nil }

func rewindResponse(resp *http.Response) error {
	if resp.Body == nil {
		return nil
	}
	if rb, ok := resp.Body.(replayBody); ok {
		resp.Body = replayBody{Reader: bytes.NewReader(rb.buf), buf: rb.buf}
		return nil
	}

	buf, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	resp.Body = replayBody{Reader: bytes.NewReader(buf), buf: buf}
	return nil
}
