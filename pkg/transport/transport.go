package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/swellforms/swellforms-go/pkg/apierror"
	"github.com/swellforms/swellforms-go/pkg/codec"
)

// DefaultTimeout bounds every request issued through a Client.
const DefaultTimeout = 15 * time.Second

// Doer issues a single HTTP request. It is the injectable transport contract;
// *http.Client satisfies it, and tests can substitute stubs. Implementations
// must honor cancellation via the request context.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response couples the HTTP status with the parsed response body. Body is nil
// when the response carried no parseable JSON.
type Response struct {
	Status int
	Body   any
}

// Client wraps a Doer with timeout handling, JSON encoding, and error
// classification.
type Client struct {
	doer    Doer
	codec   codec.Codec
	timeout time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithDoer injects the underlying transport. Defaults to http.DefaultClient.
func WithDoer(doer Doer) Option {
	return func(c *Client) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithCodec injects the JSON codec used for bodies.
func WithCodec(cdc codec.Codec) Option {
	return func(c *Client) {
		if cdc != nil {
			c.codec = cdc
		}
	}
}

// WithTimeout overrides the per-request deadline. Non-positive values keep
// the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// New constructs a Client with the ambient HTTP client and default codec.
func New(options ...Option) *Client {
	c := &Client{
		doer:    http.DefaultClient,
		codec:   codec.Default,
		timeout: DefaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// DoJSON issues one request and returns the status plus the parsed body.
// payload, when non-nil, is marshalled as the JSON request body. The request
// is bounded by the client timeout; hitting it yields a TIMEOUT error with
// status 0, any other transport failure a NETWORK error with status 0. A body
// that fails to parse is returned as absent rather than as an error.
func (c *Client) DoJSON(ctx context.Context, method, url string, payload any) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := c.codec.Marshal(payload)
		if err != nil {
			return nil, apierror.New("encode request body: "+err.Error(), 0, apierror.CodeNetwork)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		return nil, apierror.New(err.Error(), 0, apierror.CodeNetwork)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err, reqCtx)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportErr(err, reqCtx)
	}

	out := &Response{Status: resp.StatusCode}
	if len(raw) > 0 {
		var parsed any
		if err := c.codec.Unmarshal(raw, &parsed); err == nil {
			out.Body = parsed
		}
	}
	return out, nil
}

func classifyTransportErr(err error, reqCtx context.Context) *apierror.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return apierror.New("request timed out", 0, apierror.CodeTimeout)
	}
	return apierror.New(err.Error(), 0, apierror.CodeNetwork)
}
