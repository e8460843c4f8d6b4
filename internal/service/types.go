package service

import (
	"fmt"
	"strings"

	"fashun-backend/internal/models"

	"github.com/google/uuid"
)

type VariantInput struct {
	Size  string
	Color string
	Stock int32
}

type ProductInput struct {
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	IsActive    bool
	Variants    []VariantInput
}

type StockCheckRequest struct {
	Size     string
	Color    string
	Quantity int32 // 0 трактуем как 1
}

type VariantAvailability struct {
	Available bool  `json:"available"`
	Stock     int32 `json:"stock"`
}

type StockCheckResult struct {
	ProductID    uuid.UUID
	StockStatus  map[string]VariantAvailability
	OverallStock int32
}

type StockDelta struct {
	Size        string
	Color       string
	StockChange int32
}

type AppliedDelta struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	OldStock int32  `json:"old_stock"`
	NewStock int32  `json:"new_stock"`
}

// StockDeltaResult: дельты по неизвестным вариантам не теряются молча —
// ключи попадают в Skipped, чтобы клиент видел рассинхрон каталога
type StockDeltaResult struct {
	Applied   []AppliedDelta
	Skipped   []string
	Variants  []models.ProductVariant
	Inventory *models.Inventory
}

// VariantKey — ключ "{size}-{color}", как его ждёт витрина
func VariantKey(size, color string) string {
	return fmt.Sprintf("%s-%s", size, color)
}

func sameVariant(v models.ProductVariant, size, color string) bool {
	return strings.EqualFold(v.Size, size) && strings.EqualFold(v.Color, color)
}
