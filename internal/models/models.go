package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SKU          string    `gorm:"type:text;not null"`
	Name         string    `gorm:"type:text;not null"`
	Description  string    `gorm:"type:text"`
	PriceCents   int64     `gorm:"not null;default:0"`
	CurrencyCode string    `gorm:"type:char(3);not null;default:'INR'"` // всегда INR
	ImageURL     string    `gorm:"type:text"`
	IsActive     bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string {
	return "products"
}

// ProductVariant — единица учёта остатков: (size, color) уникальна в рамках продукта
type ProductVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_variants_product_size_color"`
	Size      string    `gorm:"type:text;not null;uniqueIndex:ux_variants_product_size_color"`
	Color     string    `gorm:"type:text;not null;uniqueIndex:ux_variants_product_size_color"`
	Stock     int32     `gorm:"not null;default:0"` // CHECK >= 0 в миграции

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

type StockStatus string

const (
	StockStatusOut StockStatus = "out_of_stock"
	StockStatusLow StockStatus = "low_stock"
	StockStatusIn  StockStatus = "in_stock"
)

// Inventory — сводка по продукту (1:1), пересчитывается при каждом изменении вариантов.
// AvailableStock не хранится: total - reserved.
type Inventory struct {
	ProductID         uuid.UUID   `gorm:"type:uuid;primaryKey"`
	TotalStock        int32       `gorm:"not null;default:0"`
	ReservedStock     int32       `gorm:"not null;default:0"`
	StockStatus       StockStatus `gorm:"type:text;not null;default:'out_of_stock'"`
	LowStockThreshold int32       `gorm:"not null;default:10"`
	Version           int64       `gorm:"not null;default:0"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Inventory) TableName() string {
	return "inventories"
}

func (i *Inventory) AvailableStock() int32 {
	return i.TotalStock - i.ReservedStock
}

type CartStatus string

const (
	CartStatusAbandoned CartStatus = "abandoned"
	CartStatusRecovered CartStatus = "recovered"
)

type AbandonedCart struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email              string         `gorm:"type:text;not null;index"`
	CustomerName       string         `gorm:"type:text"`
	TotalCents         int64          `gorm:"not null;default:0"`
	Items              datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Status             CartStatus     `gorm:"type:text;not null;default:'abandoned';index"`
	RecoveryEmailsSent int32          `gorm:"not null;default:0"`
	LastRecoveryEmail  *time.Time
	RecoveredAt        *time.Time

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (AbandonedCart) TableName() string {
	return "abandoned_carts"
}
