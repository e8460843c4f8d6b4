package service

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInventoryNotFound = errors.New("inventory not found")
	ErrSKUAlreadyExists  = errors.New("sku already exists")
	ErrNoVariants        = errors.New("product must have at least one variant")
	ErrInvalidQuantity   = errors.New("quantity must be > 0")

	ErrEmptyDeltas = errors.New("stock deltas empty")
	// ErrReservedExceedsStock: запись оставила бы reserved > total — отклоняем целиком
	ErrReservedExceedsStock = errors.New("reserved stock exceeds total stock")
	// ErrVersionConflict: параллельная запись успела раньше, можно повторить
	ErrVersionConflict = errors.New("inventory version conflict")

	ErrOutOfStock = errors.New("out of stock")
)
