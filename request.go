package hootsweet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Response is a decoded JSON response body. Hootsuite wraps payloads in a
// "data" member; a body that is not a JSON object is returned under "data" as
// well, so Data works for every response.
type Response map[string]any

// Data returns the "data" member of the response.
func (r Response) Data() any {
	return r["data"]
}

type requestOptions struct {
	query  url.Values
	body   any
	header http.Header
}

// RequestOption configures a single API request.
type RequestOption func(*requestOptions)

// WithQuery adds query parameters to the request.
func WithQuery(query url.Values) RequestOption {
	return func(o *requestOptions) {
		for k, vs := range query {
			for _, v := range vs {
				o.query.Add(k, v)
			}
		}
	}
}

// WithJSON sends body JSON-encoded.
func WithJSON(body any) RequestOption {
	return func(o *requestOptions) {
		o.body = body
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.header.Set(key, value)
	}
}

// Request calls the API and returns the decoded JSON body. path is relative to
// the versioned API root, e.g. "me/organizations".
//
// An expired token is refreshed first; if the refresh fails the call is
// aborted and the refresh error returned. Failures are never retried.
func (c *Client) Request(ctx context.Context, method, path string, opts ...RequestOption) (Response, error) {
	var body any
	if err := c.Do(ctx, method, path, &body, opts...); err != nil {
		return nil, err
	}

	switch v := body.(type) {
	case nil:
		return Response{}, nil
	case map[string]any:
		return Response(v), nil
	default:
		return Response{"data": v}, nil
	}
}

// Do is like Request but decodes the response body into out. A nil out
// discards the body.
func (c *Client) Do(ctx context.Context, method, path string, out any, opts ...RequestOption) error {
	tok, ok := c.store.Token()
	if !ok {
		return &UnauthorizedError{}
	}

	if c.refresher.IsExpired(tok, c.skew) {
		refreshed, err := c.refresher.Refresh(ctx)
		if err != nil {
			return err
		}
		tok = refreshed
	}

	req, err := c.newRequest(ctx, method, path, opts)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Method: method, URL: req.URL.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, URL: req.URL.String(), Err: fmt.Errorf("reading response body: %w", err)}
	}

	c.logger.DebugContext(ctx, "api request completed",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, body)
	}

	return decodeResponse(method, resp.StatusCode, body, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, opts []RequestOption) (*http.Request, error) {
	ro := requestOptions{
		query:  url.Values{},
		header: http.Header{},
	}
	for _, opt := range opts {
		opt(&ro)
	}

	u := c.apiURL + "/" + strings.TrimPrefix(path, "/")
	if len(ro.query) > 0 {
		u += "?" + ro.query.Encode()
	}

	var bodyReader io.Reader
	if ro.body != nil {
		payload, err := json.Marshal(ro.body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if ro.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range ro.header {
		req.Header[k] = vs
	}

	// No-op unless the host installed a propagator
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}

// decodeResponse decodes a successful response. 204 responses and empty DELETE
// responses carry no body; every other success must be JSON.
func decodeResponse(method string, status int, body []byte, out any) error {
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return &ResponseFormatError{StatusCode: status, Body: body, Err: fmt.Errorf("unexpected status %d", status)}
	}

	empty := len(bytes.TrimSpace(body)) == 0
	if status == http.StatusNoContent || (empty && method == http.MethodDelete) {
		return nil
	}
	if empty {
		return &ResponseFormatError{StatusCode: status, Body: body, Err: errors.New("empty response body")}
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return &ResponseFormatError{StatusCode: status, Body: body, Err: errors.New("null response body")}
	}

	if out == nil {
		out = new(json.RawMessage)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ResponseFormatError{StatusCode: status, Body: body, Err: err}
	}

	return nil
}
