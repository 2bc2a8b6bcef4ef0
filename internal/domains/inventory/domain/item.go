package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingFields       = errors.New("id and name are required")
	ErrNegativeQuantity    = errors.New("quantity must not be negative")
	ErrNegativePrice       = errors.New("price must not be negative")
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrInsufficientStock   = errors.New("insufficient stock")
)

// InsufficientStockError reports a reservation larger than the stock on hand.
type InsufficientStockError struct {
	ItemID    string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Item is a stock keeping unit with its on-hand quantity.
type Item struct {
	ID        string
	Name      string
	Quantity  int
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem validates and constructs an item.
func NewItem(id, name string, quantity int, price decimal.Decimal) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		ID:        strings.TrimSpace(id),
		Name:      strings.TrimSpace(name),
		Quantity:  quantity,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces invariants on the aggregate.
func (i *Item) Validate() error {
	if i.ID == "" || i.Name == "" {
		return ErrMissingFields
	}
	if i.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Adjust applies a partial update; nil fields keep their value.
func (i *Item) Adjust(quantity *int, price *decimal.Decimal) error {
	next := *i
	if quantity != nil {
		next.Quantity = *quantity
	}
	if price != nil {
		next.Price = *price
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*i = next
	return nil
}

// Reserve removes quantity units from stock.
func (i *Item) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	if i.Quantity < quantity {
		return &InsufficientStockError{ItemID: i.ID, Requested: quantity, Available: i.Quantity}
	}
	i.Quantity -= quantity
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// Restock adds quantity units to stock.
func (i *Item) Restock(quantity int) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	i.Quantity += quantity
	i.UpdatedAt = time.Now().UTC()
	return nil
}
