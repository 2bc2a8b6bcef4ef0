// Package httpapi exposes the inventory service over HTTP.
package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/ports"
	apierrors "github.com/Apurer/go-gin-microservices/internal/shared/errors"
)

const (
	defaultReserveQuantity = 1
	defaultRestockQuantity = 10
)

func init() {
	// Prices travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Item is the transport shape of an inventory item.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type createItemRequest struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Quantity *int             `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

type updateItemRequest struct {
	Quantity *int             `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

// API implements the inventory routes.
type API struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

// NewAPI wires dependencies.
func NewAPI(service ports.Service) *API {
	return &API{
		service: service,
		responder: apierrors.NewChainedResponder(
			apierrors.MapSentinel(ports.ErrNotFound, apierrors.NotFound("Item not found")),
			apierrors.MapSentinel(ports.ErrAlreadyExists, apierrors.BadRequest("Item ID already exists")),
			apierrors.MapSentinel(ports.ErrInUse, apierrors.BadRequest("Cannot delete item that appears in orders")),
			apierrors.MapSentinel(domain.ErrMissingFields, apierrors.BadRequest(domain.ErrMissingFields.Error())),
			insufficientStock,
			invalidInput,
		),
	}
}

// Register mounts the routes on r.
func (api *API) Register(r gin.IRouter) {
	r.GET("/inventory", api.ListItems)
	r.GET("/inventory/:id", api.GetItem)
	r.POST("/inventory", api.CreateItem)
	r.PUT("/inventory/:id", api.UpdateItem)
	r.POST("/inventory/:id/reserve", api.ReserveItem)
	r.POST("/inventory/:id/restock", api.RestockItem)
	r.DELETE("/inventory/:id", api.DeleteItem)
}

// Get /inventory
func (api *API) ListItems(c *gin.Context) {
	items, err := api.service.ListItems(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, fromDomain(item))
	}
	c.JSON(http.StatusOK, gin.H{"service": "inventory-service", "items": out, "count": len(out)})
}

// Get /inventory/:id
func (api *API) GetItem(c *gin.Context) {
	item, err := api.service.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(item))
}

// Post /inventory
func (api *API) CreateItem(c *gin.Context) {
	var payload createItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.BadRequest(err.Error()))
		return
	}
	input := ports.CreateItemInput{ID: payload.ID, Name: payload.Name}
	if payload.Quantity != nil {
		input.Quantity = *payload.Quantity
	}
	if payload.Price != nil {
		input.Price = *payload.Price
	}
	item, err := api.service.CreateItem(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Header("Location", "/inventory/"+item.ID)
	c.JSON(http.StatusCreated, fromDomain(item))
}

// Put /inventory/:id
// Partial update of quantity and price.
func (api *API) UpdateItem(c *gin.Context) {
	var payload updateItemRequest
	if !bindOptional(c, &payload) {
		return
	}
	item, err := api.service.UpdateItem(c.Request.Context(), c.Param("id"), ports.UpdateItemInput{
		Quantity: payload.Quantity,
		Price:    payload.Price,
	})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(item))
}

// Post /inventory/:id/reserve
func (api *API) ReserveItem(c *gin.Context) {
	var payload quantityRequest
	if !bindOptional(c, &payload) {
		return
	}
	quantity := payload.quantityOr(defaultReserveQuantity)
	item, err := api.service.ReserveItem(c.Request.Context(), c.Param("id"), quantity)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("Reserved %d units of %s", quantity, item.Name),
		"remaining": item.Quantity,
	})
}

// Post /inventory/:id/restock
func (api *API) RestockItem(c *gin.Context) {
	var payload quantityRequest
	if !bindOptional(c, &payload) {
		return
	}
	quantity := payload.quantityOr(defaultRestockQuantity)
	item, err := api.service.RestockItem(c.Request.Context(), c.Param("id"), quantity)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Restocked %d units of %s", quantity, item.Name),
		"new_quantity": item.Quantity,
	})
}

// Delete /inventory/:id
func (api *API) DeleteItem(c *gin.Context) {
	if err := api.service.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

func (r quantityRequest) quantityOr(fallback int) int {
	if r.Quantity == nil {
		return fallback
	}
	return *r.Quantity
}

// bindOptional decodes a JSON body when one is present.
func bindOptional(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		apierrors.Respond(c, apierrors.BadRequest(err.Error()))
		return false
	}
	return true
}

func insufficientStock(err error) (apierrors.APIError, bool) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return apierrors.BadRequest("Insufficient stock").WithExtension("available", stockErr.Available), true
	}
	return apierrors.APIError{}, false
}

func invalidInput(err error) (apierrors.APIError, bool) {
	if errors.Is(err, application.ErrInvalidInput) {
		return apierrors.BadRequest(err.Error()), true
	}
	return apierrors.APIError{}, false
}

func fromDomain(item *domain.Item) Item {
	return Item{ID: item.ID, Name: item.Name, Quantity: item.Quantity, Price: item.Price}
}
