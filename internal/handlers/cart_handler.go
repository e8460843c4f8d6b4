package handlers

import (
	"errors"
	"net/http"

	"fashun-backend/internal/cart"
	"fashun-backend/internal/dto"
	"fashun-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	svc *cart.Service
	log *zap.Logger
}

func NewCartHandler(svc *cart.Service, log *zap.Logger) *CartHandler {
	return &CartHandler{svc: svc, log: log}
}

func parseCartID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid cart id", nil))
		return uuid.Nil, false
	}
	return id, true
}

func (h *CartHandler) respond(c *gin.Context, crt *cart.Cart, totals cart.Totals) {
	items := make([]dto.CartLineResponse, 0, len(crt.Items))
	for _, l := range crt.Items {
		items = append(items, dto.CartLineResponse{
			ProductID:  l.ProductID.String(),
			Name:       l.Name,
			PriceCents: l.PriceCents,
			Quantity:   l.Quantity,
			Size:       l.Size,
			Color:      l.Color,
			Image:      l.Image,
		})
	}
	c.JSON(http.StatusOK, dto.CartResponse{
		ID:           crt.ID.String(),
		Email:        crt.Email,
		Items:        items,
		DiscountCode: crt.DiscountCode,
		Totals:       dto.CartTotalsResponse(totals),
	})
}

func (h *CartHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, cart.ErrCartNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("cart not found"))
	case errors.Is(err, cart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("cart line not found"))
	case errors.Is(err, cart.ErrInvalidDiscountCode):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid discount code", nil))
	case errors.Is(err, cart.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("cart is empty", nil))
	default:
		h.log.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

// Create godoc
// @Summary Create a new cart
// @Tags carts
// @Accept json
// @Produce json
// @Param body body dto.CreateCartRequest false "Optional customer email"
// @Success 200 {object} dto.CartResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /carts [post]
func (h *CartHandler) Create(c *gin.Context) {
	var req dto.CreateCartRequest
	_ = c.ShouldBindJSON(&req)

	crt, err := h.svc.CreateCart(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, "create cart", err)
		return
	}
	h.respond(c, crt, cart.Totals{})
}

// Get godoc
// @Summary Get cart with computed totals
// @Tags carts
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} dto.CartResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /carts/{id} [get]
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}
	crt, totals, err := h.svc.GetCart(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get cart", err)
		return
	}
	h.respond(c, crt, totals)
}

// AddItem godoc
// @Summary Add a line to the cart
// @Description Matching (product, size, color) line gets its quantity bumped instead
// @Tags carts
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param body body dto.AddItemRequest true "Line item"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /carts/{id}/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}

	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}

	crt, totals, err := h.svc.AddItem(c.Request.Context(), id, cart.Line{
		ProductID:  productID,
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Quantity:   req.Quantity,
		Size:       req.Size,
		Color:      req.Color,
		Image:      req.Image,
	})
	if err != nil {
		h.fail(c, "add item", err)
		return
	}
	h.respond(c, crt, totals)
}

// UpdateQuantity godoc
// @Summary Adjust line quantity by delta (floored at 1)
// @Tags carts
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param body body dto.UpdateQuantityRequest true "Quantity delta"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /carts/{id}/items [patch]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}

	var req dto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}

	crt, totals, err := h.svc.UpdateQuantity(c.Request.Context(), id, productID, req.Size, req.Color, req.Delta)
	if err != nil {
		h.fail(c, "update quantity", err)
		return
	}
	h.respond(c, crt, totals)
}

// RemoveItem godoc
// @Summary Remove a line from the cart
// @Tags carts
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param body body dto.RemoveItemRequest true "Line key"
// @Success 200 {object} dto.CartResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /carts/{id}/items [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}

	var req dto.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", nil))
		return
	}

	crt, totals, err := h.svc.RemoveItem(c.Request.Context(), id, productID, req.Size, req.Color)
	if err != nil {
		h.fail(c, "remove item", err)
		return
	}
	h.respond(c, crt, totals)
}

// Clear godoc
// @Summary Empty the cart
// @Tags carts
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} dto.CartResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /carts/{id} [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}
	crt, totals, err := h.svc.ClearCart(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "clear cart", err)
		return
	}
	h.respond(c, crt, totals)
}

// ApplyDiscount godoc
// @Summary Apply a discount code
// @Description Unknown codes fail with 400 and leave the current code untouched
// @Tags carts
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param body body dto.ApplyDiscountRequest true "Discount code"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /carts/{id}/discount [post]
func (h *CartHandler) ApplyDiscount(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}

	var req dto.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}

	crt, totals, err := h.svc.ApplyDiscount(c.Request.Context(), id, req.Code)
	if err != nil {
		h.fail(c, "apply discount", err)
		return
	}
	h.respond(c, crt, totals)
}

// RemoveDiscount godoc
// @Summary Remove the applied discount code
// @Tags carts
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} dto.CartResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /carts/{id}/discount [delete]
func (h *CartHandler) RemoveDiscount(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}
	crt, totals, err := h.svc.RemoveDiscount(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "remove discount", err)
		return
	}
	h.respond(c, crt, totals)
}

// Checkout godoc
// @Summary Start checkout: snapshot the cart as abandoned until payment completes
// @Tags carts
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param body body dto.CheckoutRequest false "Customer contact"
// @Success 201 {object} dto.AbandonedCartResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /carts/{id}/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	id, ok := parseCartID(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	_ = c.ShouldBindJSON(&req)

	record, err := h.svc.StartCheckout(c.Request.Context(), id, req.Email, req.CustomerName)
	if err != nil {
		h.fail(c, "checkout", err)
		return
	}
	c.JSON(http.StatusCreated, toAbandonedCartResponse(record))
}

// MarkRecovered godoc
// @Summary Mark an abandoned cart as recovered
// @Description Called by the payment flow once the purchase completes; idempotent
// @Tags carts
// @Produce json
// @Param id path string true "Abandoned cart ID"
// @Success 200 {object} dto.AbandonedCartResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /abandoned-carts/{id}/recovered [post]
func (h *CartHandler) MarkRecovered(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid cart id", nil))
		return
	}

	record, err := h.svc.MarkRecovered(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "mark recovered", err)
		return
	}
	c.JSON(http.StatusOK, toAbandonedCartResponse(record))
}

func toAbandonedCartResponse(m *models.AbandonedCart) dto.AbandonedCartResponse {
	return dto.AbandonedCartResponse{
		ID:                 m.ID.String(),
		Email:              m.Email,
		CustomerName:       m.CustomerName,
		TotalCents:         m.TotalCents,
		Status:             string(m.Status),
		RecoveryEmailsSent: m.RecoveryEmailsSent,
		RecoveredAt:        m.RecoveredAt,
		CreatedAt:          m.CreatedAt,
	}
}
