// Package serviceclient performs outbound calls to the named downstream services.
package serviceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// DefaultTimeout bounds every outbound call.
const DefaultTimeout = 5 * time.Second

// ErrUnknownService is reported when a call names a service without an endpoint.
var ErrUnknownService = errors.New("unknown service")

// Caller is the contract consumed by the orchestrator adapters, proxy and health aggregator.
type Caller interface {
	Call(ctx context.Context, service Name, method, path string, body any) Outcome
}

// Client issues single-attempt HTTP calls against Endpoints.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-call timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger sets the logger used for failed calls.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a client bound to the given endpoints.
func New(endpoints Endpoints, opts ...Option) *Client {
	c := &Client{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Call sends method base+path to the named service. body may be nil, raw JSON
// bytes, or any value that encodes to JSON. Call never panics on network
// failures: they are reported as Unavailable.
//
// The downstream request is detached from ctx cancellation; only the client
// timeout ends it. Trace context is still propagated.
func (c *Client) Call(ctx context.Context, service Name, method, path string, body any) Outcome {
	base, ok := c.endpoints.URL(service)
	if !ok {
		return Unavailable(fmt.Errorf("%w: %s", ErrUnknownService, service))
	}
	payload, err := encodeBody(body)
	if err != nil {
		return Unavailable(fmt.Errorf("encode request body: %w", err))
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), method, base+path, reader)
	if err != nil {
		return Unavailable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logFailure(ctx, service, method, path, err)
		return Unavailable(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logFailure(ctx, service, method, path, err)
		return Unavailable(fmt.Errorf("read response body: %w", err))
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Success(resp.StatusCode, data)
	}
	return Rejected(resp.StatusCode, data)
}

func (c *Client) logFailure(ctx context.Context, service Name, method, path string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelWarn, "downstream call failed",
		slog.String("service", string(service)),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		return v, nil
	case json.RawMessage:
		if len(v) == 0 {
			return nil, nil
		}
		return v, nil
	default:
		return json.Marshal(v)
	}
}

var _ Caller = (*Client)(nil)
