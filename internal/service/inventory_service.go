package service

import (
	"context"
	"strings"
	"time"

	"fashun-backend/internal/models"
	"fashun-backend/internal/repository"

	"github.com/google/uuid"
)

const currencyINR = "INR"

type InventoryService struct {
	repo              *repository.Repository
	lowStockThreshold int32
	now               func() time.Time
}

func NewInventoryService(repo *repository.Repository, lowStockThreshold int32) *InventoryService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	return &InventoryService{
		repo:              repo,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// DeriveStatus: out_of_stock строго при нуле, low_stock до порога включительно
func DeriveStatus(total, threshold int32) models.StockStatus {
	switch {
	case total == 0:
		return models.StockStatusOut
	case total <= threshold:
		return models.StockStatusLow
	default:
		return models.StockStatusIn
	}
}

func (s *InventoryService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if len(in.Variants) == 0 {
		return nil, ErrNoVariants
	}

	now := s.now()
	p := &models.Product{
		SKU:          strings.TrimSpace(in.SKU),
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		PriceCents:   in.PriceCents,
		CurrencyCode: currencyINR,
		ImageURL:     strings.TrimSpace(in.ImageURL),
		IsActive:     in.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var total int32
	err := s.repo.WithTx(func(tx *repository.Repository) error {
		if existing, err := tx.Products.GetBySKU(ctx, p.SKU); err != nil {
			return err
		} else if existing != nil {
			return ErrSKUAlreadyExists
		}
		if err := tx.Products.Create(ctx, p); err != nil {
			return err
		}

		variants := make([]models.ProductVariant, 0, len(in.Variants))
		for _, v := range in.Variants {
			stock := v.Stock
			if stock < 0 {
				stock = 0
			}
			total += stock
			variants = append(variants, models.ProductVariant{
				ProductID: p.ID,
				Size:      strings.TrimSpace(v.Size),
				Color:     strings.TrimSpace(v.Color),
				Stock:     stock,
			})
		}
		if err := tx.Variants.CreateBatch(ctx, variants); err != nil {
			return err
		}
		p.Variants = variants

		// 1:1 строка сводки + первичный пересчёт
		if err := tx.Products.EnsureInventoryRow(ctx, p.ID, s.lowStockThreshold); err != nil {
			return err
		}
		ok, err := tx.Inventories.UpdateSummary(ctx, p.ID, total, DeriveStatus(total, s.lowStockThreshold), 0)
		if err != nil {
			return err
		}
		if !ok {
			return ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (s *InventoryService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, *models.Inventory, error) {
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, ErrProductNotFound
	}
	inv, err := s.repo.Inventories.Get(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, ErrInventoryNotFound
	}
	return p, inv, nil
}

func (s *InventoryService) GetInventory(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	inv, err := s.repo.Inventories.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInventoryNotFound
	}
	return inv, nil
}

// CheckAvailability — read-only проверка остатков по списку вариантов.
// Неизвестный вариант отдаём как available=false, stock=0.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID uuid.UUID, requests []StockCheckRequest) (*StockCheckResult, error) {
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	inv, err := s.repo.Inventories.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	res := &StockCheckResult{
		ProductID:   productID,
		StockStatus: make(map[string]VariantAvailability, len(requests)),
	}
	if inv != nil {
		res.OverallStock = inv.TotalStock
	}

	for _, req := range requests {
		qty := req.Quantity
		if qty <= 0 {
			qty = 1
		}

		found := false
		for _, v := range p.Variants {
			if sameVariant(v, req.Size, req.Color) {
				res.StockStatus[VariantKey(req.Size, req.Color)] = VariantAvailability{
					Available: v.Stock >= qty,
					Stock:     v.Stock,
				}
				found = true
				break
			}
		}
		if !found {
			res.StockStatus[VariantKey(req.Size, req.Color)] = VariantAvailability{Available: false, Stock: 0}
		}
	}

	return res, nil
}

// ApplyStockDelta применяет подписанные дельты к вариантам и пересчитывает сводку.
// Всё в одной транзакции под row-lock сводки: читатель либо видит старое
// состояние целиком, либо новое. Остаток клампится в 0, ниже не уходит.
func (s *InventoryService) ApplyStockDelta(ctx context.Context, productID uuid.UUID, deltas []StockDelta) (*StockDeltaResult, error) {
	if len(deltas) == 0 {
		return nil, ErrEmptyDeltas
	}

	res := &StockDeltaResult{
		Applied: make([]AppliedDelta, 0, len(deltas)),
		Skipped: make([]string, 0),
	}

	err := s.repo.WithTx(func(tx *repository.Repository) error {
		inv, err := tx.Inventories.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if inv == nil {
			// либо продукта нет, либо сводка не создана — для клиента это одно и то же
			if p, perr := tx.Products.GetByID(ctx, productID); perr != nil {
				return perr
			} else if p == nil {
				return ErrProductNotFound
			}
			return ErrInventoryNotFound
		}

		variants, err := tx.Variants.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}

		changed := make(map[uuid.UUID]bool)
		for _, d := range deltas {
			idx := -1
			for i := range variants {
				if sameVariant(variants[i], d.Size, d.Color) {
					idx = i
					break
				}
			}
			if idx < 0 {
				res.Skipped = append(res.Skipped, VariantKey(d.Size, d.Color))
				continue
			}

			old := variants[idx].Stock
			next := old + d.StockChange
			if next < 0 {
				next = 0
			}
			variants[idx].Stock = next
			if next != old {
				changed[variants[idx].ID] = true
			}
			res.Applied = append(res.Applied, AppliedDelta{
				Size:     variants[idx].Size,
				Color:    variants[idx].Color,
				OldStock: old,
				NewStock: next,
			})
		}

		var total int32
		for i := range variants {
			total += variants[i].Stock
			if changed[variants[i].ID] {
				if err := tx.Variants.UpdateStock(ctx, variants[i].ID, variants[i].Stock); err != nil {
					return err
				}
			}
		}

		if inv.ReservedStock > total {
			return ErrReservedExceedsStock
		}

		status := DeriveStatus(total, inv.LowStockThreshold)
		ok, err := tx.Inventories.UpdateSummary(ctx, productID, total, status, inv.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrVersionConflict
		}

		inv.TotalStock = total
		inv.StockStatus = status
		inv.Version++
		res.Variants = variants
		res.Inventory = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Reserve резервирует qty единиц сводки под чекаут (guarded atomic UPDATE)
func (s *InventoryService) Reserve(ctx context.Context, productID uuid.UUID, qty int32) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	ok, err := s.repo.Inventories.TryReserve(ctx, productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		inv, gerr := s.repo.Inventories.Get(ctx, productID)
		if gerr != nil {
			return gerr
		}
		if inv == nil {
			return ErrInventoryNotFound
		}
		return ErrOutOfStock
	}
	return nil
}

func (s *InventoryService) Release(ctx context.Context, productID uuid.UUID, qty int32) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	ok, err := s.repo.Inventories.Release(ctx, productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInventoryNotFound
	}
	return nil
}
