package apiclient

import (
	"encoding/json"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/kolah/endpointgen/apiclient"

// Doer sends a single request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WithHeader returns a Doer that sets a header on every request before
// delegating to next. A nil next uses http.DefaultClient.
func WithHeader(next Doer, name, value string) Doer {
	return headerDoer{next: next, name: name, value: value}
}

type headerDoer struct {
	next  Doer
	name  string
	value string
}

func (d headerDoer) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set(d.name, d.value)
	return orDefault(d.next).Do(req)
}

func orDefault(doer Doer) Doer {
	if doer == nil {
		return http.DefaultClient
	}
	return doer
}

// Send performs the round trip. A transport failure is returned as a
// KindTransport *BaseError; it is never retried.
func Send(doer Doer, req *http.Request) (*http.Response, error) {
	ctx, span := otel.Tracer(tracerName).Start(req.Context(), "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL.Redacted()),
		),
	)
	defer span.End()

	resp, err := orDefault(doer).Do(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &BaseError{Kind: KindTransport, Err: err}
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	return resp, nil
}

// Dispatch lets token observe the response headers exactly once, then hands
// the response to handle regardless of its status. The body is closed when
// handle returns.
func Dispatch[T any](token TokenCarrier, resp *http.Response, handle func(*http.Response) (T, error)) (T, error) {
	defer resp.Body.Close()
	if token != nil {
		token.Observe(resp.Header)
	}
	return handle(resp)
}

// DecodeJSON reads the body and unmarshals it into out.
func DecodeJSON(resp *http.Response, out any) error {
	buf, err := ReadBody(resp)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return &BaseError{Kind: KindJSONDeserialize, Err: err}
	}
	return nil
}

// ReadBody returns the raw body.
func ReadBody(resp *http.Response) ([]byte, error) {
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BaseError{Kind: KindTransport, Err: err}
	}
	return buf, nil
}
