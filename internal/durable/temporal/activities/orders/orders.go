package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/go-gin-microservices/internal/domains/orders/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
)

const (
	// CheckUserActivityName confirms the ordering user exists.
	CheckUserActivityName = "orders.activities.CheckUser"
	// CheckStockActivityName verifies stock for every line in request order.
	CheckStockActivityName = "orders.activities.CheckStock"
	// ReserveStockActivityName decrements stock for every line.
	ReserveStockActivityName = "orders.activities.ReserveStock"
	// PersistOrderActivityName stores the pending order.
	PersistOrderActivityName = "orders.activities.PersistOrder"
)

// Activities exposes the order creation steps to Temporal.
type Activities struct {
	orchestrator *ordersapp.Orchestrator
}

// NewActivities wraps an orchestrator whose steps become activities.
func NewActivities(orchestrator *ordersapp.Orchestrator) *Activities {
	return &Activities{orchestrator: orchestrator}
}

func (a *Activities) CheckUser(ctx context.Context, userID string) error {
	logger := activity.GetLogger(ctx)
	if err := a.ready(); err != nil {
		return err
	}
	if err := a.orchestrator.CheckUser(ctx, userID); err != nil {
		logger.Warn("CheckUser activity failed", "userId", userID, "error", err)
		return ToApplicationError(err)
	}
	return nil
}

func (a *Activities) CheckStock(ctx context.Context, items []domain.Item) error {
	logger := activity.GetLogger(ctx)
	if err := a.ready(); err != nil {
		return err
	}
	if err := a.orchestrator.CheckStock(ctx, items); err != nil {
		logger.Warn("CheckStock activity failed", "lines", len(items), "error", err)
		return ToApplicationError(err)
	}
	return nil
}

// ReserveStock never fails on a rejected reservation; it returns the ids of
// the lines that could not be reserved.
func (a *Activities) ReserveStock(ctx context.Context, items []domain.Item) ([]string, error) {
	logger := activity.GetLogger(ctx)
	if err := a.ready(); err != nil {
		return nil, err
	}
	failed := a.orchestrator.ReserveStock(ctx, items)
	if len(failed) > 0 {
		logger.Warn("ReserveStock activity left lines unreserved", "itemIds", failed)
	}
	return failed, nil
}

func (a *Activities) PersistOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if err := a.ready(); err != nil {
		return nil, err
	}
	order, err := a.orchestrator.Persist(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "userId", input.UserID, "error", err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "persistence", err)
	}
	logger.Info("PersistOrder activity completed", "orderId", order.ID)
	return order, nil
}

func (a *Activities) ready() error {
	if a == nil || a.orchestrator == nil {
		return temporal.NewNonRetryableApplicationError("order activities not initialized", "configuration", nil)
	}
	return nil
}

// ToApplicationError converts an orchestration *Failure into a non-retryable
// Temporal error whose type is the failure kind and whose details carry the reason.
func ToApplicationError(err error) error {
	failure, ok := ordersapp.AsFailure(err)
	if !ok {
		return err
	}
	return temporal.NewNonRetryableApplicationError(failure.Reason, string(failure.Kind), nil, failure.Reason)
}

// FromApplicationError recovers the *Failure carried by a Temporal error chain.
// Errors that did not originate from a Failure are returned unchanged.
func FromApplicationError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	kind := ordersapp.FailureKind(appErr.Type())
	switch kind {
	case ordersapp.KindValidation, ordersapp.KindBusinessRule, ordersapp.KindDependencyUnavailable:
	default:
		return err
	}
	var reason string
	if !appErr.HasDetails() || appErr.Details(&reason) != nil || reason == "" {
		reason = appErr.Error()
	}
	return &ordersapp.Failure{Kind: kind, Reason: reason}
}
