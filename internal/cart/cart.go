package cart

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrCartNotFound        = errors.New("cart not found")
	ErrLineNotFound        = errors.New("cart line not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidDiscountCode = errors.New("invalid discount code")
)

// Тариф витрины: 18% GST, бесплатная доставка от ₹999, иначе ₹99.
// Суммы в пайсах (1/100 рупии), как price_cents у продуктов.
const (
	taxRatePercent    = 18
	freeShippingCents = 99900
	flatShippingCents = 9900
)

type Line struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int32     `json:"quantity"`
	Size       string    `json:"size"`
	Color      string    `json:"color"`
	Image      string    `json:"image,omitempty"`
}

// Cart — серверное состояние корзины покупателя (живёт в Redis).
// Totals не хранится: пересчитывается из строк при каждом чтении.
type Cart struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email,omitempty"`
	Items        []Line    `json:"items"`
	DiscountCode string    `json:"discount_code,omitempty"`
}

type Totals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TotalCents    int64 `json:"total_cents"`
}

func sameLine(l Line, productID uuid.UUID, size, color string) bool {
	return l.ProductID == productID && strings.EqualFold(l.Size, size) && strings.EqualFold(l.Color, color)
}

// AddItem: совпадающая строка (product, size, color) наращивает количество,
// новая — добавляется в конец
func (c *Cart) AddItem(item Line) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if sameLine(c.Items[i], item.ProductID, item.Size, item.Color) {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity двигает количество на delta, пол — 1 (удаление только явное)
func (c *Cart) UpdateQuantity(productID uuid.UUID, size, color string, delta int32) error {
	for i := range c.Items {
		if sameLine(c.Items[i], productID, size, color) {
			next := c.Items[i].Quantity + delta
			if next < 1 {
				next = 1
			}
			c.Items[i].Quantity = next
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) RemoveItem(productID uuid.UUID, size, color string) error {
	for i := range c.Items {
		if sameLine(c.Items[i], productID, size, color) {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) Clear() {
	c.Items = nil
	c.DiscountCode = ""
}

// Totals — чистая функция от текущего состояния, без инкрементальных апдейтов
func (c *Cart) Totals(policy DiscountPolicy) Totals {
	var subtotal int64
	for _, l := range c.Items {
		subtotal += l.PriceCents * int64(l.Quantity)
	}

	tax := subtotal * taxRatePercent / 100

	var shipping int64
	if subtotal < freeShippingCents {
		shipping = flatShippingCents
	}

	var discount int64
	if c.DiscountCode != "" && policy != nil {
		if rate, ok := policy.Resolve(c.DiscountCode); ok {
			discount = subtotal * int64(rate) / 100
		}
	}

	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		ShippingCents: shipping,
		DiscountCents: discount,
		TotalCents:    subtotal + tax + shipping - discount,
	}
}
