package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-microservices/internal/durable/temporal/activities/orders"
)

// RunOrderCreationSequence runs check_user, check_stock, reserve_stock and
// persist_order as activities, strictly one after another. Every activity is
// attempted once.
func RunOrderCreationSequence(ctx workflow.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order creation sequence started", "userId", input.UserID, "lines", len(input.Items))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	if err := workflow.ExecuteActivity(ctx, orderactivities.CheckUserActivityName, input.UserID).Get(ctx, nil); err != nil {
		return nil, err
	}
	if err := workflow.ExecuteActivity(ctx, orderactivities.CheckStockActivityName, input.Items).Get(ctx, nil); err != nil {
		return nil, err
	}
	var unreserved []string
	if err := workflow.ExecuteActivity(ctx, orderactivities.ReserveStockActivityName, input.Items).Get(ctx, &unreserved); err != nil {
		return nil, err
	}
	if len(unreserved) > 0 {
		logger.Warn("continuing with unreserved lines", "itemIds", unreserved)
	}
	var order domain.Order
	if err := workflow.ExecuteActivity(ctx, orderactivities.PersistOrderActivityName, input).Get(ctx, &order); err != nil {
		return nil, err
	}
	logger.Info("order creation sequence completed", "orderId", order.ID)
	return &order, nil
}
