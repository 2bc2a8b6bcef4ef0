package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersapp "github.com/Apurer/go-gin-microservices/internal/domains/orders/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-microservices/internal/durable/temporal/activities/orders"
	"github.com/Apurer/go-gin-microservices/internal/durable/temporal/sequences"
)

const (
	// OrderCreationWorkflowName is the public identifier for registering the workflow.
	OrderCreationWorkflowName = "orders.workflows.Creation"
	// OrderCreationTaskQueue is the queue consumed by the orders worker.
	OrderCreationTaskQueue = "ORDER_CREATION"
)

// OrderCreationWorkflowInput carries the order request and the caller's trace id.
type OrderCreationWorkflowInput struct {
	Command ports.CreateOrderInput
	TraceID string
}

// OrderCreationWorkflow validates the request in workflow code and then runs
// the remote steps as activities.
func OrderCreationWorkflow(ctx workflow.Context, input OrderCreationWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	userID := input.Command.UserID
	logger.Info("OrderCreationWorkflow started", withTraceID(input.TraceID, "userId", userID)...)
	if err := ordersapp.ValidateOrderInput(input.Command); err != nil {
		logger.Info("OrderCreationWorkflow rejected input", withTraceID(input.TraceID, "error", err)...)
		return nil, orderactivities.ToApplicationError(err)
	}
	order, err := sequences.RunOrderCreationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderCreationWorkflow failed", withTraceID(input.TraceID, "userId", userID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderCreationWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
