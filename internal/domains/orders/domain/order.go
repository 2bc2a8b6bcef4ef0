package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every accepted status in display order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusCompleted, StatusCancelled}

var (
	ErrMissingStatus   = errors.New("status is required")
	ErrInvalidStatus   = errors.New("order status is invalid")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Item is one line of an order.
type Item struct {
	ItemID   string
	Quantity int
}

// Order is the aggregate created once a user and every item line are confirmed.
type Order struct {
	ID        string
	UserID    string
	Items     []Item
	Status    Status
	CreatedAt time.Time
}

// NewOrder builds a pending order with a generated id.
func NewOrder(userID string, items []Item) *Order {
	lines := make([]Item, len(items))
	copy(lines, items)
	return &Order{
		ID:        NewID(),
		UserID:    userID,
		Items:     lines,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// NewID returns "ORD" followed by six uppercase hexadecimal characters.
func NewID() string {
	return "ORD" + strings.ToUpper(uuid.NewString()[:6])
}

// ParseStatus accepts any casing of a known status.
func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingStatus
	}
	status := Status(strings.ToLower(raw))
	for _, known := range Statuses {
		if status == known {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// StatusList renders the accepted statuses as "a, b, c".
func StatusList() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// UpdateStatus moves the order to status.
func (o *Order) UpdateStatus(status Status) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}
	o.Status = status
	return nil
}

// ItemIDs returns the item ids in line order.
func (o *Order) ItemIDs() []string {
	ids := make([]string, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.ItemID
	}
	return ids
}
