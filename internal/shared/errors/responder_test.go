package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func respondWith(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRespondError_WrappedAPIError(t *testing.T) {
	err := fmt.Errorf("reserve: %w", BadRequest("Insufficient stock").WithExtension("available", 3))
	rec, body := respondWith(t, func(c *gin.Context) { RespondError(c, err) })

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Insufficient stock", body["error"])
	require.EqualValues(t, 3, body["available"])
}

func TestRespondError_UnknownErrorIsInternal(t *testing.T) {
	rec, body := respondWith(t, func(c *gin.Context) { RespondError(c, stderrors.New("boom")) })

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "boom", body["error"])
}

func TestChainedResponder_UsesMappers(t *testing.T) {
	sentinel := stderrors.New("order not found")
	responder := NewChainedResponder(MapSentinel(sentinel, NotFound("Order not found")))

	rec, body := respondWith(t, func(c *gin.Context) {
		responder.RespondError(c, fmt.Errorf("load: %w", sentinel))
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Order not found", body["error"])
}

func TestChainedResponder_FallsBackWhenNoMapperMatches(t *testing.T) {
	responder := NewChainedResponder(MapSentinel(stderrors.New("order not found"), NotFound("Order not found")))

	rec, body := respondWith(t, func(c *gin.Context) {
		responder.RespondError(c, ErrServiceUnavailable)
	})

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "Service unavailable", body["error"])
}
