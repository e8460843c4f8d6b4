package handlers

import (
	"errors"
	"net/http"

	"fashun-backend/internal/dto"
	"fashun-backend/internal/models"
	"fashun-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductHandler struct {
	svc *service.InventoryService
	log *zap.Logger
}

func NewProductHandler(svc *service.InventoryService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

func parseProductID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary Create product with variants
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "Product payload"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create product request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	variants := make([]service.VariantInput, 0, len(req.Variants))
	for _, v := range req.Variants {
		variants = append(variants, service.VariantInput{Size: v.Size, Color: v.Color, Stock: v.Stock})
	}

	p, err := h.svc.CreateProduct(c.Request.Context(), service.ProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
		Variants:    variants,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSKUAlreadyExists):
			c.JSON(http.StatusConflict, dto.NewConflictError("product with this sku already exists"))
		case errors.Is(err, service.ErrNoVariants):
			c.JSON(http.StatusBadRequest, dto.NewValidationError("product must have at least one variant", nil))
		default:
			h.log.Error("create product failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	inv, err := h.svc.GetInventory(c.Request.Context(), p.ID)
	if err != nil {
		h.log.Error("load inventory after create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(p, inv))
}

// Get godoc
// @Summary Get product with variants and inventory
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	p, inv, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrInventoryNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
		default:
			h.log.Error("get product failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	c.JSON(http.StatusOK, toProductResponse(p, inv))
}

// CheckStock godoc
// @Summary Check variant availability
// @Description Read-only; unknown variants come back as available=false, stock=0
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body dto.CheckStockRequest true "Variants to check"
// @Success 200 {object} dto.CheckStockResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /products/{id}/check-stock [post]
func (h *ProductHandler) CheckStock(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req dto.CheckStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	requests := make([]service.StockCheckRequest, 0, len(req.Variants))
	for _, v := range req.Variants {
		requests = append(requests, service.StockCheckRequest{Size: v.Size, Color: v.Color, Quantity: v.Quantity})
	}

	res, err := h.svc.CheckAvailability(c.Request.Context(), id, requests)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
		default:
			h.log.Error("check stock failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	out := dto.CheckStockResponse{
		ProductID:    res.ProductID.String(),
		StockStatus:  make(map[string]dto.VariantStockStatus, len(res.StockStatus)),
		OverallStock: res.OverallStock,
	}
	for k, v := range res.StockStatus {
		out.StockStatus[k] = dto.VariantStockStatus{Available: v.Available, Stock: v.Stock}
	}

	c.JSON(http.StatusOK, out)
}

// UpdateStock godoc
// @Summary Apply signed stock deltas to variants
// @Description Stock is clamped at zero; deltas for unknown variants are reported in "skipped"
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body dto.UpdateStockRequest true "Stock deltas"
// @Success 200 {object} dto.UpdateStockResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /products/{id}/update-stock [put]
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req dto.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	if len(req.Variants) == 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("variants array is required", nil))
		return
	}

	deltas := make([]service.StockDelta, 0, len(req.Variants))
	for _, v := range req.Variants {
		deltas = append(deltas, service.StockDelta{Size: v.Size, Color: v.Color, StockChange: v.StockChange})
	}

	res, err := h.svc.ApplyStockDelta(c.Request.Context(), id, deltas)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyDeltas):
			c.JSON(http.StatusBadRequest, dto.NewValidationError("variants array is required", nil))
		case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrInventoryNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
		case errors.Is(err, service.ErrReservedExceedsStock):
			c.JSON(http.StatusConflict, dto.NewConflictError("write would leave reserved stock above total stock"))
		case errors.Is(err, service.ErrVersionConflict):
			c.JSON(http.StatusConflict, dto.NewConflictError("concurrent stock update, retry"))
		default:
			h.log.Error("update stock failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	out := dto.UpdateStockResponse{
		ProductID: id.String(),
		Applied:   make([]dto.AppliedDeltaResponse, 0, len(res.Applied)),
		Skipped:   res.Skipped,
		Variants:  toVariantResponses(res.Variants),
		Inventory: toInventoryBlock(res.Inventory),
	}
	for _, a := range res.Applied {
		out.Applied = append(out.Applied, dto.AppliedDeltaResponse(a))
	}

	c.JSON(http.StatusOK, out)
}

func toVariantResponses(variants []models.ProductVariant) []dto.VariantResponse {
	out := make([]dto.VariantResponse, 0, len(variants))
	for _, v := range variants {
		out = append(out, dto.VariantResponse{Size: v.Size, Color: v.Color, Stock: v.Stock})
	}
	return out
}

func toInventoryBlock(inv *models.Inventory) dto.InventoryBlock {
	if inv == nil {
		return dto.InventoryBlock{}
	}
	return dto.InventoryBlock{
		TotalStock:        inv.TotalStock,
		ReservedStock:     inv.ReservedStock,
		AvailableStock:    inv.AvailableStock(),
		StockStatus:       string(inv.StockStatus),
		LowStockThreshold: inv.LowStockThreshold,
	}
}

func toProductResponse(p *models.Product, inv *models.Inventory) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Currency:    p.CurrencyCode,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		Variants:    toVariantResponses(p.Variants),
		Inventory:   toInventoryBlock(inv),
	}
}
