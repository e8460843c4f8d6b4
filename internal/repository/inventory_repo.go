package repository

import (
	"context"
	"errors"

	"fashun-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepo interface {
	Get(ctx context.Context, productID uuid.UUID) (*models.Inventory, error)
	// GetForUpdate берёт строку сводки под row-lock — вызывать только внутри WithTx
	GetForUpdate(ctx context.Context, productID uuid.UUID) (*models.Inventory, error)
	// UpdateSummary перезаписывает сводку с optimistic-guard по version:
	// false — кто-то успел записать раньше (повторить чтение)
	UpdateSummary(ctx context.Context, productID uuid.UUID, total int32, status models.StockStatus, expectedVersion int64) (bool, error)

	// Резервирование сводки (атомарно):
	// TryReserve: if total - reserved >= qty then reserved += qty
	TryReserve(ctx context.Context, productID uuid.UUID, qty int32) (bool, error)
	// Release: reserved -= qty (предполагаем reserved >= qty)
	Release(ctx context.Context, productID uuid.UUID, qty int32) (bool, error)
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepo(db *gorm.DB) InventoryRepo { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Get(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.db.WithContext(ctx).First(&inv, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

func (r *inventoryRepo) GetForUpdate(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

func (r *inventoryRepo) UpdateSummary(ctx context.Context, productID uuid.UUID, total int32, status models.StockStatus, expectedVersion int64) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE inventories
SET total_stock = @total,
    stock_status = @status,
    version = version + 1,
    updated_at = now()
WHERE product_id = @pid
  AND version = @ver
`, map[string]any{
		"pid":    productID,
		"total":  total,
		"status": string(status),
		"ver":    expectedVersion,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *inventoryRepo) TryReserve(ctx context.Context, productID uuid.UUID, qty int32) (bool, error) {
	// атомарно: reserved += qty, если хватает доступного
	tx := r.db.WithContext(ctx).Exec(`
UPDATE inventories
SET reserved_stock = reserved_stock + @q,
    updated_at = now()
WHERE product_id = @pid
  AND total_stock - reserved_stock >= @q
`, map[string]any{
		"pid": productID,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *inventoryRepo) Release(ctx context.Context, productID uuid.UUID, qty int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE inventories
SET reserved_stock = reserved_stock - @q,
    updated_at = now()
WHERE product_id = @pid
  AND reserved_stock >= @q
`, map[string]any{
		"pid": productID,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}
