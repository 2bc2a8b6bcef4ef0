package orders

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	ordersmemory "github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-microservices/internal/domains/orders/application"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreationWorkflows_InlineWithoutDatabase(t *testing.T) {
	service := ordersapp.NewService(ordersmemory.NewRepository(), nil, nil)
	dialed := false

	workflows, closeFn := creationWorkflows(service, false, func() (client.Client, error) {
		dialed = true
		return mocks.NewClient(t), nil
	}, quietLogger())
	defer closeFn()

	assert.False(t, dialed)
	assert.IsType(t, &ordersworkflows.InlineOrderWorkflows{}, workflows)
}

func TestCreationWorkflows_InlineWhenTemporalUnreachable(t *testing.T) {
	service := ordersapp.NewService(ordersmemory.NewRepository(), nil, nil)

	workflows, closeFn := creationWorkflows(service, true, func() (client.Client, error) {
		return nil, errors.New("connection refused")
	}, quietLogger())
	defer closeFn()

	assert.IsType(t, &ordersworkflows.InlineOrderWorkflows{}, workflows)
}

func TestCreationWorkflows_TemporalIsObserved(t *testing.T) {
	service := ordersapp.NewService(ordersmemory.NewRepository(), nil, nil)
	temporalClient := mocks.NewClient(t)
	temporalClient.On("Close").Return().Once()

	workflows, closeFn := creationWorkflows(service, true, func() (client.Client, error) {
		return temporalClient, nil
	}, quietLogger())

	require.IsType(t, &ordersobs.Workflows{}, workflows)
	closeFn()
}
