package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
)

// State names a step of order creation.
type State string

const (
	StateValidateInput State = "validate_input"
	StateCheckUser     State = "check_user"
	StateCheckStock    State = "check_stock"
	StateReserveStock  State = "reserve_stock"
	StatePersistOrder  State = "persist_order"
	StateDone          State = "done"
)

// Orchestrator creates orders by walking
// validate_input -> check_user -> check_stock -> reserve_stock -> persist_order.
// The first failure is terminal. Stock is checked and reserved in two separate
// calls per item, and reservations are never rolled back: a later reservation
// failure or a persistence failure leaves earlier decrements applied.
type Orchestrator struct {
	users  ports.UserDirectory
	stock  ports.StockLedger
	repo   ports.Repository
	logger *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithLogger sets the logger used for transitions and reservation failures.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator wires the remote collaborators and the order store.
func NewOrchestrator(users ports.UserDirectory, stock ports.StockLedger, repo ports.Repository, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		users:  users,
		stock:  stock,
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Run executes the state machine for one request.
func (o *Orchestrator) Run(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	var order *domain.Order
	state := StateValidateInput
	for {
		o.logger.LogAttrs(ctx, slog.LevelDebug, "order creation transition", slog.String("state", string(state)))
		switch state {
		case StateValidateInput:
			if err := o.ValidateInput(input); err != nil {
				return nil, err
			}
			state = StateCheckUser
		case StateCheckUser:
			if err := o.CheckUser(ctx, input.UserID); err != nil {
				return nil, err
			}
			state = StateCheckStock
		case StateCheckStock:
			if err := o.CheckStock(ctx, input.Items); err != nil {
				return nil, err
			}
			state = StateReserveStock
		case StateReserveStock:
			o.ReserveStock(ctx, input.Items)
			state = StatePersistOrder
		case StatePersistOrder:
			persisted, err := o.Persist(ctx, input)
			if err != nil {
				return nil, err
			}
			order = persisted
			state = StateDone
		case StateDone:
			return order, nil
		default:
			return nil, fmt.Errorf("unknown order creation state %q", state)
		}
	}
}

// ValidateInput rejects requests without a user or items. It makes no remote calls.
func (o *Orchestrator) ValidateInput(input ports.CreateOrderInput) error {
	return ValidateOrderInput(input)
}

// ValidateOrderInput is the side-effect free first step of order creation.
func ValidateOrderInput(input ports.CreateOrderInput) error {
	if strings.TrimSpace(input.UserID) == "" || len(input.Items) == 0 {
		return validationFailure(ReasonMissingFields)
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.ItemID) == "" {
			return validationFailure(ReasonMissingFields)
		}
		if item.Quantity < 1 {
			return validationFailure(fmt.Sprintf("%s: %s", domain.ErrInvalidQuantity.Error(), item.ItemID))
		}
	}
	return nil
}

// CheckUser confirms the user exists.
func (o *Orchestrator) CheckUser(ctx context.Context, userID string) error {
	switch o.users.CheckUser(ctx, userID) {
	case ports.UserFound:
		return nil
	case ports.UserMissing:
		return businessRuleFailure(ReasonUserNotFound)
	default:
		return unavailableFailure(ReasonUsersUnavailable)
	}
}

// CheckStock verifies each line in request order and stops at the first line
// that is unknown or insufficient.
func (o *Orchestrator) CheckStock(ctx context.Context, items []domain.Item) error {
	for _, item := range items {
		switch o.stock.CheckStock(ctx, item.ItemID, item.Quantity) {
		case ports.StockSufficient:
			continue
		case ports.StockInsufficient:
			return insufficientStockFailure(item.ItemID)
		default:
			return unavailableFailure(ReasonInventoryUnavailable)
		}
	}
	return nil
}

// ReserveStock decrements stock for each line in request order. A failed
// reservation is logged and the remaining lines are still reserved. It
// returns the ids of the lines whose reservation failed.
func (o *Orchestrator) ReserveStock(ctx context.Context, items []domain.Item) []string {
	var failed []string
	for _, item := range items {
		if err := o.stock.Reserve(ctx, item.ItemID, item.Quantity); err != nil {
			failed = append(failed, item.ItemID)
			o.logger.LogAttrs(ctx, slog.LevelWarn, "stock reservation failed",
				slog.String("item.id", item.ItemID),
				slog.Int("quantity", item.Quantity),
				slog.String("error", err.Error()),
			)
		}
	}
	return failed
}

// Persist stores a new pending order built from input.
func (o *Orchestrator) Persist(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if o.repo == nil {
		return nil, errors.New("order repository not configured")
	}
	order := domain.NewOrder(input.UserID, input.Items)
	saved, err := o.repo.Save(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	return saved, nil
}
