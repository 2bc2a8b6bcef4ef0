package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	return build(inner, opts)
}

func build(inner ports.Service, opts []Option) *Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	return s.observeCreate(ctx, "OrdersService.CreateOrder", input, s.inner.CreateOrder)
}

// observeCreate records the span, log lines and created/rejected counters for
// one order creation, whichever path runs it.
func (s *Service) observeCreate(ctx context.Context, spanName string, input ports.CreateOrderInput, create func(context.Context, ports.CreateOrderInput) (*domain.Order, error)) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, spanName,
		trace.WithAttributes(attribute.String("order.user_id", input.UserID), attribute.Int("order.lines", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("order.user_id", input.UserID), slog.Int("order.lines", len(input.Items)))
	order, err := create(ctx, input)
	if err != nil {
		kind := "unexpected"
		if failure, ok := application.AsFailure(err); ok {
			kind = string(failure.Kind)
		}
		s.metrics.recordRejected(ctx, kind)
		span.SetAttributes(attribute.String("order.failure_kind", kind))
		return nil, s.handleError(ctx, span, err, "order creation failed", slog.String("order.user_id", input.UserID), slog.String("failure.kind", kind))
	}
	s.metrics.recordCreated(ctx)
	span.SetAttributes(attribute.String("order.id", order.ID))
	s.logInfo(ctx, "order created", slog.String("order.id", order.ID), slog.String("order.user_id", order.UserID))
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*ports.OrderDetails, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	details, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	span.SetAttributes(attribute.Bool("order.user_resolved", details.User != nil))
	return details, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders")
	defer span.End()

	orders, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (domain.Status, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.status", status)))
	defer span.End()

	updated, err := s.inner.UpdateStatus(ctx, id, status)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", id))
	}
	s.logInfo(ctx, "order status updated", slog.String("order.id", id), slog.String("status", string(updated)))
	return updated, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.DeleteOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", id))
	}
	s.logInfo(ctx, "order deleted", slog.String("order.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	created  metric.Int64Counter
	rejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	rejected, _ := m.Int64Counter("orders.service.rejected", metric.WithDescription("Number of order creations that ended in a failure"))
	return serviceMetrics{created: created, rejected: rejected}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.created != nil {
		m.created.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, kind string) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

// Workflows decorates a creation orchestrator with the same span, logs and
// counters as Service.CreateOrder. Use it when creation bypasses the service.
type Workflows struct {
	obs   *Service
	inner ports.WorkflowOrchestrator
}

// NewWorkflows wraps an orchestrator such as the Temporal one.
func NewWorkflows(inner ports.WorkflowOrchestrator, opts ...Option) ports.WorkflowOrchestrator {
	return &Workflows{obs: build(nil, opts), inner: inner}
}

func (w *Workflows) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	return w.obs.observeCreate(ctx, "OrderWorkflows.CreateOrder", input, w.inner.CreateOrder)
}

var (
	_ ports.Service              = (*Service)(nil)
	_ ports.WorkflowOrchestrator = (*Workflows)(nil)
)
