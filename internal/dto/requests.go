package dto

// --- продукты и остатки ---

type VariantRequest struct {
	Size  string `json:"size" binding:"required"`
	Color string `json:"color" binding:"required"`
	Stock int32  `json:"stock"`
}

type CreateProductRequest struct {
	SKU         string           `json:"sku" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	PriceCents  int64            `json:"price_cents" binding:"required"`
	ImageURL    string           `json:"image_url"`
	IsActive    bool             `json:"is_active"`
	Variants    []VariantRequest `json:"variants" binding:"required"`
}

type StockCheckVariant struct {
	Size     string `json:"size" binding:"required"`
	Color    string `json:"color" binding:"required"`
	Quantity int32  `json:"quantity"`
}

type CheckStockRequest struct {
	Variants []StockCheckVariant `json:"variants" binding:"required"`
}

type StockDeltaVariant struct {
	Size        string `json:"size" binding:"required"`
	Color       string `json:"color" binding:"required"`
	StockChange int32  `json:"stock_change"`
}

type UpdateStockRequest struct {
	Variants []StockDeltaVariant `json:"variants"`
}

// --- корзина ---

type CreateCartRequest struct {
	Email string `json:"email"`
}

type AddItemRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required"`
	Quantity   int32  `json:"quantity"`
	Size       string `json:"size" binding:"required"`
	Color      string `json:"color" binding:"required"`
	Image      string `json:"image"`
}

type UpdateQuantityRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Delta     int32  `json:"delta" binding:"required"`
}

type RemoveItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
}

type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

type CheckoutRequest struct {
	Email        string `json:"email"`
	CustomerName string `json:"customer_name"`
}
