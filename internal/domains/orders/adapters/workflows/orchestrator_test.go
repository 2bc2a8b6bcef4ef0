package workflows

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/go-gin-microservices/internal/domains/orders/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/go-gin-microservices/internal/durable/temporal/workflows/orders"
)

var sampleInput = ports.CreateOrderInput{UserID: "1", Items: []domain.Item{{ItemID: "ITEM001", Quantity: 1}}}

func tracedContext() context.Context {
	traceID, _ := oteltrace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := oteltrace.SpanIDFromHex("00f067aa0ba902b7")
	return oteltrace.ContextWithSpanContext(context.Background(), oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: oteltrace.FlagsSampled,
	}))
}

func TestTemporalCreateOrder_UniqueWorkflowPerRequest(t *testing.T) {
	temporalClient := mocks.NewClient(t)
	run := mocks.NewWorkflowRun(t)
	var ids []string
	var inputs []orderworkflows.OrderCreationWorkflowInput
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			options := args.Get(1).(client.StartWorkflowOptions)
			assert.Equal(t, orderworkflows.OrderCreationTaskQueue, options.TaskQueue)
			ids = append(ids, options.ID)
			inputs = append(inputs, args.Get(3).(orderworkflows.OrderCreationWorkflowInput))
		}).
		Return(run, nil).
		Twice()
	run.On("Get", mock.Anything, mock.Anything).
		Return(func(_ context.Context, valuePtr interface{}) error {
			order := valuePtr.(*domain.Order)
			order.ID = fmt.Sprintf("ORD%03d", len(ids))
			order.UserID = "1"
			order.Status = domain.StatusPending
			return nil
		}).
		Twice()

	orchestrator := NewTemporalOrderWorkflows(temporalClient)
	ctx := tracedContext()

	first, err := orchestrator.CreateOrder(ctx, sampleInput)
	require.NoError(t, err)
	second, err := orchestrator.CreateOrder(ctx, sampleInput)
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
	for _, id := range ids {
		assert.True(t, strings.HasPrefix(id, "order-creation-1-4bf92f3577b34da6a3ce929d0e0e4736-"), id)
	}
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", inputs[0].TraceID)
	assert.Equal(t, sampleInput, inputs[0].Command)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTemporalCreateOrder_BusinessRuleFailure(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		kind   ordersapp.FailureKind
		reason string
		status int
	}{
		{
			name:   "business rule",
			err:    temporal.NewNonRetryableApplicationError("User not found", string(ordersapp.KindBusinessRule), nil, "User not found"),
			kind:   ordersapp.KindBusinessRule,
			reason: "User not found",
			status: http.StatusBadRequest,
		},
		{
			name:   "dependency unavailable",
			err:    temporal.NewNonRetryableApplicationError("User service unavailable", string(ordersapp.KindDependencyUnavailable), nil, "User service unavailable"),
			kind:   ordersapp.KindDependencyUnavailable,
			reason: "User service unavailable",
			status: http.StatusServiceUnavailable,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			temporalClient := mocks.NewClient(t)
			run := mocks.NewWorkflowRun(t)
			temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(run, nil).Once()
			run.On("Get", mock.Anything, mock.Anything).Return(tc.err).Once()

			order, err := NewTemporalOrderWorkflows(temporalClient).CreateOrder(context.Background(), sampleInput)

			assert.Nil(t, order)
			failure, ok := ordersapp.AsFailure(err)
			require.True(t, ok, "expected *application.Failure, got %T", err)
			assert.Equal(t, tc.kind, failure.Kind)
			assert.Equal(t, tc.reason, failure.Reason)
			assert.Equal(t, tc.status, failure.HTTPStatus())
		})
	}
}

func TestTemporalCreateOrder_StartErrorIsReturned(t *testing.T) {
	temporalClient := mocks.NewClient(t)
	startErr := serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1")
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, startErr).Once()

	order, err := NewTemporalOrderWorkflows(temporalClient).CreateOrder(context.Background(), sampleInput)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, startErr)
	temporalClient.AssertNotCalled(t, "GetWorkflow", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemporalCreateOrder_NotConfigured(t *testing.T) {
	var orchestrator *TemporalOrderWorkflows
	_, err := orchestrator.CreateOrder(context.Background(), sampleInput)
	assert.Error(t, err)
}

type stubService struct {
	ports.Service
	got ports.CreateOrderInput
}

func (s *stubService) CreateOrder(_ context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	s.got = input
	return &domain.Order{ID: "ORD-INLINE", UserID: input.UserID, Items: input.Items, Status: domain.StatusPending}, nil
}

func TestInlineCreateOrder_DelegatesToService(t *testing.T) {
	service := &stubService{}

	order, err := NewInlineOrderWorkflows(service).CreateOrder(context.Background(), sampleInput)

	require.NoError(t, err)
	assert.Equal(t, "ORD-INLINE", order.ID)
	assert.Equal(t, sampleInput, service.got)

	_, err = NewInlineOrderWorkflows(nil).CreateOrder(context.Background(), sampleInput)
	assert.Error(t, err)
}
