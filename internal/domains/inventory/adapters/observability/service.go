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

	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/ports"
)

const tracerName = "github.com/Apurer/go-gin-microservices/internal/domains/inventory/adapters/observability/service"

// Service decorates the inventory service with tracing, logging, and metrics.
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

// New wraps the core inventory service.
func New(inner ports.Service, opts ...Option) ports.Service {
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

func (s *Service) ListItems(ctx context.Context) ([]*domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.ListItems")
	defer span.End()

	result, err := s.inner.ListItems(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list items")
	}
	span.SetAttributes(attribute.Int("inventory.items.count", len(result)))
	return result, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.GetItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	result, err := s.inner.GetItem(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load item", slog.String("item.id", id))
	}
	span.SetAttributes(attribute.Int("item.quantity", result.Quantity))
	return result, nil
}

func (s *Service) CreateItem(ctx context.Context, input ports.CreateItemInput) (*domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.CreateItem", trace.WithAttributes(attribute.String("item.id", input.ID)))
	defer span.End()

	s.logInfo(ctx, "creating item", slog.String("item.id", input.ID))
	result, err := s.inner.CreateItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create item", slog.String("item.id", input.ID))
	}
	s.logInfo(ctx, "item created", slog.String("item.id", result.ID), slog.Int("item.quantity", result.Quantity))
	return result, nil
}

func (s *Service) UpdateItem(ctx context.Context, id string, input ports.UpdateItemInput) (*domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.UpdateItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating item", slog.String("item.id", id))
	result, err := s.inner.UpdateItem(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update item", slog.String("item.id", id))
	}
	return result, nil
}

func (s *Service) ReserveItem(ctx context.Context, id string, quantity int) (*domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.ReserveItem",
		trace.WithAttributes(attribute.String("item.id", id), attribute.Int("item.requested", quantity)))
	defer span.End()

	s.logInfo(ctx, "reserving stock", slog.String("item.id", id), slog.Int("quantity", quantity))
	result, err := s.inner.ReserveItem(ctx, id, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to reserve stock", slog.String("item.id", id), slog.Int("quantity", quantity))
	}
	s.metrics.recordReserved(ctx, id, quantity)
	s.logInfo(ctx, "stock reserved", slog.String("item.id", id), slog.Int("remaining", result.Quantity))
	return result, nil
}

func (s *Service) RestockItem(ctx context.Context, id string, quantity int) (*domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.RestockItem",
		trace.WithAttributes(attribute.String("item.id", id), attribute.Int("item.restocked", quantity)))
	defer span.End()

	result, err := s.inner.RestockItem(ctx, id, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to restock item", slog.String("item.id", id))
	}
	s.metrics.recordRestocked(ctx, id, quantity)
	s.logInfo(ctx, "item restocked", slog.String("item.id", id), slog.Int("quantity", result.Quantity))
	return result, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "InventoryService.DeleteItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	if err := s.inner.DeleteItem(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete item", slog.String("item.id", id))
	}
	s.logInfo(ctx, "item deleted", slog.String("item.id", id))
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
	reservedUnits  metric.Int64Counter
	restockedUnits metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	reserved, _ := m.Int64Counter("inventory.service.reserved_units", metric.WithDescription("Units removed from stock by reservations"))
	restocked, _ := m.Int64Counter("inventory.service.restocked_units", metric.WithDescription("Units added to stock"))
	return serviceMetrics{reservedUnits: reserved, restockedUnits: restocked}
}

func (m serviceMetrics) recordReserved(ctx context.Context, id string, quantity int) {
	if m.reservedUnits != nil {
		m.reservedUnits.Add(ctx, int64(quantity), metric.WithAttributes(attribute.String("item.id", id)))
	}
}

func (m serviceMetrics) recordRestocked(ctx context.Context, id string, quantity int) {
	if m.restockedUnits != nil {
		m.restockedUnits.Add(ctx, int64(quantity), metric.WithAttributes(attribute.String("item.id", id)))
	}
}

var _ ports.Service = (*Service)(nil)
