// Package httpapi exposes the users service over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-microservices/internal/domains/users/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/users/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/users/ports"
	apierrors "github.com/Apurer/go-gin-microservices/internal/shared/errors"
)

// User is the transport shape of a user.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// API implements the users routes.
type API struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

// NewAPI wires dependencies.
func NewAPI(service ports.Service) *API {
	return &API{
		service: service,
		responder: apierrors.NewChainedResponder(
			apierrors.MapSentinel(ports.ErrNotFound, apierrors.NotFound("User not found")),
			apierrors.MapSentinel(ports.ErrHasOrders, apierrors.BadRequest("Cannot delete user with existing orders")),
			apierrors.MapSentinel(domain.ErrEmptyName, apierrors.BadRequest("Name is required")),
			apierrors.MapSentinel(domain.ErrInvalidEmail, apierrors.BadRequest("Email is invalid")),
			apierrors.MapSentinel(application.ErrInvalidInput, apierrors.ErrBadRequest),
		),
	}
}

// Register mounts the routes on r.
func (api *API) Register(r gin.IRouter) {
	r.GET("/users", api.ListUsers)
	r.GET("/users/:id", api.GetUser)
	r.POST("/users", api.CreateUser)
	r.DELETE("/users/:id", api.DeleteUser)
}

// Get /users
func (api *API) ListUsers(c *gin.Context) {
	users, err := api.service.ListUsers(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	out := make([]User, 0, len(users))
	for _, user := range users {
		out = append(out, fromDomain(user))
	}
	c.JSON(http.StatusOK, gin.H{"service": "users-service", "users": out, "count": len(out)})
}

// Get /users/:id
func (api *API) GetUser(c *gin.Context) {
	user, err := api.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(user))
}

// Post /users
// Email defaults to a name-derived example.com address.
func (api *API) CreateUser(c *gin.Context) {
	var payload createUserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.BadRequest(err.Error()))
		return
	}
	user, err := api.service.CreateUser(c.Request.Context(), payload.Name, payload.Email)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Header("Location", "/users/"+user.ID)
	c.JSON(http.StatusCreated, fromDomain(user))
}

// Delete /users/:id
func (api *API) DeleteUser(c *gin.Context) {
	if err := api.service.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func fromDomain(user *domain.User) User {
	return User{ID: user.ID, Name: user.Name, Email: user.Email, CreatedAt: user.CreatedAt}
}
