// Package gateway implements the API gateway: request proxying to the
// downstream services and health aggregation.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-microservices/internal/platform/serviceclient"
	apierrors "github.com/Apurer/go-gin-microservices/internal/shared/errors"
)

// Response is the relayed status and JSON body. Body is nil when the
// downstream answered without content.
type Response struct {
	Status int
	Body   []byte
}

// Proxy forwards inbound requests to the named downstream services.
type Proxy struct {
	caller  serviceclient.Caller
	metrics *Metrics
}

// NewProxy wires a caller. metrics may be nil.
func NewProxy(caller serviceclient.Caller, metrics *Metrics) *Proxy {
	return &Proxy{caller: caller, metrics: metrics}
}

// Forward sends method path body to service and relays the answer. Transport
// failures become 503 {"error":"Service unavailable"}; a malformed request or
// response body becomes 500 with the reason.
func (p *Proxy) Forward(ctx context.Context, method string, service serviceclient.Name, path string, body []byte) Response {
	start := time.Now()
	resp := p.forward(ctx, method, service, path, body)
	p.metrics.observe(service, resp.Status, time.Since(start))
	return resp
}

func (p *Proxy) forward(ctx context.Context, method string, service serviceclient.Name, path string, body []byte) Response {
	if len(body) > 0 && !json.Valid(body) {
		return errorResponse(apierrors.Internal("request body is not valid JSON"))
	}
	outcome := p.caller.Call(ctx, service, method, path, json.RawMessage(body))
	if outcome.IsUnavailable() {
		return errorResponse(apierrors.ErrServiceUnavailable)
	}
	if len(outcome.Body) == 0 {
		return Response{Status: outcome.Status}
	}
	if !json.Valid(outcome.Body) {
		return errorResponse(apierrors.Internal(fmt.Sprintf("invalid JSON response from %s service", service)))
	}
	return Response{Status: outcome.Status, Body: outcome.Body}
}

// Handler returns a gin handler forwarding the request path and query to service.
func (p *Proxy) Handler(service serviceclient.Name) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			apierrors.Respond(c, apierrors.Internal(err.Error()))
			return
		}
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}
		resp := p.Forward(c.Request.Context(), c.Request.Method, service, path, body)
		if resp.Body == nil {
			c.Status(resp.Status)
			return
		}
		c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
	}
}

func errorResponse(apiErr apierrors.APIError) Response {
	body, err := json.Marshal(apiErr.Body())
	if err != nil {
		body = []byte(`{"error":` + strconv.Quote(apiErr.Message) + `}`)
	}
	return Response{Status: apiErr.Status, Body: body}
}

func statusLabel(status int) string {
	if status == 0 {
		return strconv.Itoa(http.StatusInternalServerError)
	}
	return strconv.Itoa(status)
}
