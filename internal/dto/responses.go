package dto

import "time"

type VariantResponse struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int32  `json:"stock"`
}

type InventoryBlock struct {
	TotalStock        int32  `json:"total_stock"`
	ReservedStock     int32  `json:"reserved_stock"`
	AvailableStock    int32  `json:"available_stock"`
	StockStatus       string `json:"stock_status"`
	LowStockThreshold int32  `json:"low_stock_threshold"`
}

type ProductResponse struct {
	ID          string            `json:"id"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	PriceCents  int64             `json:"price_cents"`
	Currency    string            `json:"currency"`
	ImageURL    string            `json:"image_url,omitempty"`
	IsActive    bool              `json:"is_active"`
	Variants    []VariantResponse `json:"variants"`
	Inventory   InventoryBlock    `json:"inventory"`
}

type VariantStockStatus struct {
	Available bool  `json:"available"`
	Stock     int32 `json:"stock"`
}

type CheckStockResponse struct {
	ProductID    string                        `json:"productId"`
	StockStatus  map[string]VariantStockStatus `json:"stockStatus"`
	OverallStock int32                         `json:"overallStock"`
}

type AppliedDeltaResponse struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	OldStock int32  `json:"old_stock"`
	NewStock int32  `json:"new_stock"`
}

type UpdateStockResponse struct {
	ProductID string                 `json:"product_id"`
	Applied   []AppliedDeltaResponse `json:"applied"`
	Skipped   []string               `json:"skipped"`
	Variants  []VariantResponse      `json:"variants"`
	Inventory InventoryBlock         `json:"inventory"`
}

type CartTotalsResponse struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TotalCents    int64 `json:"total_cents"`
}

type CartLineResponse struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int32  `json:"quantity"`
	Size       string `json:"size"`
	Color      string `json:"color"`
	Image      string `json:"image,omitempty"`
}

type CartResponse struct {
	ID           string             `json:"id"`
	Email        string             `json:"email,omitempty"`
	Items        []CartLineResponse `json:"items"`
	DiscountCode string             `json:"discount_code,omitempty"`
	Totals       CartTotalsResponse `json:"totals"`
}

type AbandonedCartResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	CustomerName       string     `json:"customer_name,omitempty"`
	TotalCents         int64      `json:"total_cents"`
	Status             string     `json:"status"`
	RecoveryEmailsSent int32      `json:"recovery_emails_sent"`
	RecoveredAt        *time.Time `json:"recovered_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type SweepResponse struct {
	Success    bool        `json:"success"`
	TotalCarts int         `json:"totalCarts"`
	Results    SweepReport `json:"results"`
}

type SweepReport struct {
	Triggered int      `json:"triggered"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}
