package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-microservices/internal/domains/users/adapters/memory"
	"github.com/Apurer/go-gin-microservices/internal/domains/users/application"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAPI(application.NewService(memory.NewSeededRepository())).Register(router)
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func TestListUsers_Seeded(t *testing.T) {
	rec, body := do(t, newRouter(), http.MethodGet, "/users", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "users-service", body["service"])
	assert.EqualValues(t, 3, body["count"])
	first := body["users"].([]any)[0].(map[string]any)
	assert.Equal(t, "Alice", first["name"])
}

func TestGetUser_NotFound(t *testing.T) {
	rec, body := do(t, newRouter(), http.MethodGet, "/users/nope", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", body["error"])
}

func TestCreateUser(t *testing.T) {
	router := newRouter()

	rec, body := do(t, router, http.MethodPost, "/users", `{"name":"Dana Scully"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "dana.scully@example.com", body["email"])
	id := body["id"].(string)
	assert.Len(t, id, 8)
	assert.Equal(t, "/users/"+id, rec.Header().Get("Location"))

	rec, _ = do(t, router, http.MethodGet, "/users/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUser_MissingName(t *testing.T) {
	rec, body := do(t, newRouter(), http.MethodPost, "/users", `{"email":"x@example.com"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name is required", body["error"])
}

func TestDeleteUser(t *testing.T) {
	router := newRouter()

	rec, body := do(t, router, http.MethodDelete, "/users/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted", body["message"])

	rec, _ = do(t, router, http.MethodDelete, "/users/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
