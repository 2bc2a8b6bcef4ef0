// Package httpapi exposes the orders service over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-microservices/internal/shared/errors"
)

const defaultItemQuantity = 1

var userUnavailable = json.RawMessage(`{"error":"Could not fetch user data"}`)

// OrderItem is one transport order line.
type OrderItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Order is the transport shape of an order.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderWithUser is returned by the single-order lookup.
type OrderWithUser struct {
	Order
	User json.RawMessage `json:"user"`
}

type createOrderRequest struct {
	UserID string `json:"user_id"`
	Items  []struct {
		ItemID   string `json:"item_id"`
		Quantity *int   `json:"quantity"`
	} `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// API implements the orders routes.
type API struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	responder *apierrors.ChainedResponder
}

// NewAPI wires dependencies. Order creation goes through workflows when it is
// non-nil, otherwise straight to the service.
func NewAPI(service ports.Service, workflows ports.WorkflowOrchestrator) *API {
	return &API{
		service:   service,
		workflows: workflows,
		responder: apierrors.NewChainedResponder(
			apierrors.MapSentinel(ports.ErrNotFound, apierrors.NotFound("Order not found")),
			apierrors.MapSentinel(domain.ErrMissingStatus, apierrors.BadRequest(domain.ErrMissingStatus.Error())),
			apierrors.MapSentinel(domain.ErrInvalidStatus, apierrors.BadRequest("Invalid status. Valid values: "+domain.StatusList())),
			orchestrationFailure,
		),
	}
}

// Register mounts the routes on r.
func (api *API) Register(r gin.IRouter) {
	r.GET("/orders", api.ListOrders)
	r.GET("/orders/:id", api.GetOrder)
	r.POST("/orders", api.CreateOrder)
	r.PUT("/orders/:id/status", api.UpdateStatus)
	r.DELETE("/orders/:id", api.DeleteOrder)
}

// Get /orders
func (api *API) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, fromDomain(order))
	}
	c.JSON(http.StatusOK, gin.H{"service": "orders-service", "orders": out, "count": len(out)})
}

// Get /orders/:id
func (api *API) GetOrder(c *gin.Context) {
	details, err := api.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	user := details.User
	if len(user) == 0 {
		user = userUnavailable
	}
	c.JSON(http.StatusOK, OrderWithUser{Order: fromDomain(details.Order), User: user})
}

// Post /orders
func (api *API) CreateOrder(c *gin.Context) {
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		apierrors.Respond(c, apierrors.BadRequest(err.Error()))
		return
	}
	input := ports.CreateOrderInput{UserID: payload.UserID}
	for _, line := range payload.Items {
		quantity := defaultItemQuantity
		if line.Quantity != nil {
			quantity = *line.Quantity
		}
		input.Items = append(input.Items, domain.Item{ItemID: line.ItemID, Quantity: quantity})
	}

	var (
		order *domain.Order
		err   error
	)
	if api.workflows != nil {
		order, err = api.workflows.CreateOrder(c.Request.Context(), input)
	} else {
		order, err = api.service.CreateOrder(c.Request.Context(), input)
	}
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Header("Location", "/orders/"+order.ID)
	c.JSON(http.StatusCreated, fromDomain(order))
}

// Put /orders/:id/status
func (api *API) UpdateStatus(c *gin.Context) {
	var payload updateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		apierrors.Respond(c, apierrors.BadRequest(err.Error()))
		return
	}
	status, err := api.service.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "status": status})
}

// Delete /orders/:id
func (api *API) DeleteOrder(c *gin.Context) {
	if err := api.service.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

func orchestrationFailure(err error) (apierrors.APIError, bool) {
	failure, ok := application.AsFailure(err)
	if !ok {
		return apierrors.APIError{}, false
	}
	return apierrors.APIError{Status: failure.HTTPStatus(), Message: failure.Reason}, true
}

func fromDomain(order *domain.Order) Order {
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{ItemID: item.ItemID, Quantity: item.Quantity})
	}
	return Order{
		ID:        order.ID,
		UserID:    order.UserID,
		Items:     items,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
}
