package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema shared by the users, inventory and orders services.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&inventoryRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (userRecord) TableName() string { return "users" }

// Inventory schema mirrors the inventory Postgres adapter.
type inventoryRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:64"`
	Name      string          `gorm:"column:name;not null;index"`
	Quantity  int             `gorm:"column:quantity;not null;default:0"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (inventoryRecord) TableName() string { return "inventory" }

// Order schema mirrors the orders Postgres adapter. item_ids duplicates the
// order_items rows so the inventory service can check usage with one predicate.
type orderRecord struct {
	ID        string            `gorm:"primaryKey;column:id;size:16"`
	UserID    string            `gorm:"column:user_id;not null;index"`
	Status    string            `gorm:"column:status;type:varchar(32);not null;default:pending"`
	ItemIDs   pq.StringArray    `gorm:"column:item_ids;type:text[]"`
	Items     []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID       int64  `gorm:"primaryKey;column:id"`
	OrderID  string `gorm:"column:order_id;size:16;not null;index"`
	ItemID   string `gorm:"column:item_id;size:64;not null;index"`
	Quantity int    `gorm:"column:quantity;not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }
