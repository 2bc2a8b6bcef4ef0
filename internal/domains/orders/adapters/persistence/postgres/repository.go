package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their item lines in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and schema (see platform/migrations).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord keeps item_ids alongside the order_items rows so other services
// can test item usage with "? = ANY(item_ids)".
type orderRecord struct {
	ID        string            `gorm:"primaryKey;column:id"`
	UserID    string            `gorm:"column:user_id"`
	Status    string            `gorm:"column:status"`
	ItemIDs   pq.StringArray    `gorm:"column:item_ids;type:text[]"`
	Items     []orderItemRecord `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time         `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID       int64  `gorm:"primaryKey;column:id"`
	OrderID  string `gorm:"column:order_id"`
	ItemID   string `gorm:"column:item_id"`
	Quantity int    `gorm:"column:quantity"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Save inserts the order and its item lines in one transaction.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	}); err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order with its item lines.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.withItems(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns orders newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.withItems(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// UpdateStatus sets the status column.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Delete removes the order; item lines go with it through ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]orderItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemRecord{OrderID: order.ID, ItemID: item.ItemID, Quantity: item.Quantity})
	}
	return orderRecord{
		ID:        order.ID,
		UserID:    order.UserID,
		Status:    string(order.Status),
		ItemIDs:   pq.StringArray(order.ItemIDs()),
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	items := make([]domain.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.Item{ItemID: item.ItemID, Quantity: item.Quantity})
	}
	return &domain.Order{
		ID:        r.ID,
		UserID:    r.UserID,
		Items:     items,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
	}
}
