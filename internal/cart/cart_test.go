package cart_test

import (
	"testing"

	"fashun-backend/internal/cart"

	"github.com/google/uuid"
)

func TestCart_AddItem_MergesMatchingLine(t *testing.T) {
	productID := uuid.New()
	c := &cart.Cart{ID: uuid.New(), Items: []cart.Line{}}

	c.AddItem(cart.Line{ProductID: productID, Name: "Oversized Tee", PriceCents: 49900, Quantity: 1, Size: "M", Color: "Black"})
	c.AddItem(cart.Line{ProductID: productID, Name: "Oversized Tee", PriceCents: 49900, Quantity: 2, Size: "M", Color: "Black"})

	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line after merge, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity=3, got %d", c.Items[0].Quantity)
	}

	// Другой размер — отдельная строка
	c.AddItem(cart.Line{ProductID: productID, Name: "Oversized Tee", PriceCents: 49900, Quantity: 1, Size: "L", Color: "Black"})
	if len(c.Items) != 2 {
		t.Fatalf("expected 2 lines for distinct size, got %d", len(c.Items))
	}
}

func TestCart_AddItem_CaseInsensitiveKey(t *testing.T) {
	productID := uuid.New()
	c := &cart.Cart{ID: uuid.New()}

	c.AddItem(cart.Line{ProductID: productID, PriceCents: 1000, Quantity: 1, Size: "M", Color: "Black"})
	c.AddItem(cart.Line{ProductID: productID, PriceCents: 1000, Quantity: 1, Size: "m", Color: "BLACK"})

	if len(c.Items) != 1 {
		t.Fatalf("expected case-insensitive merge, got %d lines", len(c.Items))
	}
	if c.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity=2, got %d", c.Items[0].Quantity)
	}
}

func TestCart_AddItem_ZeroQuantityDefaultsToOne(t *testing.T) {
	c := &cart.Cart{ID: uuid.New()}
	c.AddItem(cart.Line{ProductID: uuid.New(), PriceCents: 1000, Quantity: 0, Size: "S", Color: "White"})

	if c.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity=1, got %d", c.Items[0].Quantity)
	}
}

func TestCart_UpdateQuantity_FlooredAtOne(t *testing.T) {
	productID := uuid.New()
	c := &cart.Cart{ID: uuid.New()}
	c.AddItem(cart.Line{ProductID: productID, PriceCents: 1000, Quantity: 2, Size: "M", Color: "Black"})

	if err := c.UpdateQuantity(productID, "M", "Black", -5); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if c.Items[0].Quantity != 1 {
		t.Fatalf("expected floor at 1, got %d", c.Items[0].Quantity)
	}

	if err := c.UpdateQuantity(productID, "M", "Black", 3); err != nil {
		t.Fatalf("UpdateQuantity increase: %v", err)
	}
	if c.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity=4, got %d", c.Items[0].Quantity)
	}

	if err := c.UpdateQuantity(uuid.New(), "M", "Black", 1); err != cart.ErrLineNotFound {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestCart_RemoveItem(t *testing.T) {
	productID := uuid.New()
	c := &cart.Cart{ID: uuid.New()}
	c.AddItem(cart.Line{ProductID: productID, PriceCents: 1000, Quantity: 1, Size: "M", Color: "Black"})
	c.AddItem(cart.Line{ProductID: productID, PriceCents: 1000, Quantity: 1, Size: "L", Color: "Black"})

	if err := c.RemoveItem(productID, "M", "Black"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Size != "L" {
		t.Fatalf("expected only L line left, got %+v", c.Items)
	}

	if err := c.RemoveItem(productID, "M", "Black"); err != cart.ErrLineNotFound {
		t.Fatalf("expected ErrLineNotFound on second remove, got %v", err)
	}
}

func TestCart_Totals_BelowFreeShippingThreshold(t *testing.T) {
	c := &cart.Cart{ID: uuid.New()}
	c.AddItem(cart.Line{ProductID: uuid.New(), PriceCents: 49900, Quantity: 1, Size: "M", Color: "Black"})

	got := c.Totals(cart.DefaultDiscounts())

	if got.SubtotalCents != 49900 {
		t.Fatalf("subtotal: expected 49900, got %d", got.SubtotalCents)
	}
	if got.TaxCents != 8982 {
		t.Fatalf("tax: expected 8982 (18%%), got %d", got.TaxCents)
	}
	if got.ShippingCents != 9900 {
		t.Fatalf("shipping: expected flat 9900 below threshold, got %d", got.ShippingCents)
	}
	if got.DiscountCents != 0 {
		t.Fatalf("discount: expected 0 without code, got %d", got.DiscountCents)
	}
	if got.TotalCents != 49900+8982+9900 {
		t.Fatalf("total: expected %d, got %d", 49900+8982+9900, got.TotalCents)
	}
}

func TestCart_Totals_FreeShippingAtThreshold(t *testing.T) {
	c := &cart.Cart{ID: uuid.New()}
	// Ровно ₹999 — доставка уже бесплатная
	c.AddItem(cart.Line{ProductID: uuid.New(), PriceCents: 99900, Quantity: 1, Size: "M", Color: "Black"})

	got := c.Totals(cart.DefaultDiscounts())
	if got.ShippingCents != 0 {
		t.Fatalf("expected free shipping at threshold, got %d", got.ShippingCents)
	}
}

func TestCart_Totals_WithDiscount(t *testing.T) {
	c := &cart.Cart{ID: uuid.New(), DiscountCode: "SAVE20"}
	c.AddItem(cart.Line{ProductID: uuid.New(), PriceCents: 64950, Quantity: 2, Size: "L", Color: "White"})

	got := c.Totals(cart.DefaultDiscounts())

	// subtotal 129900 → tax 23382, free shipping, 20% = 25980
	if got.SubtotalCents != 129900 {
		t.Fatalf("subtotal: expected 129900, got %d", got.SubtotalCents)
	}
	if got.TaxCents != 23382 {
		t.Fatalf("tax: expected 23382, got %d", got.TaxCents)
	}
	if got.ShippingCents != 0 {
		t.Fatalf("shipping: expected 0, got %d", got.ShippingCents)
	}
	if got.DiscountCents != 25980 {
		t.Fatalf("discount: expected 25980, got %d", got.DiscountCents)
	}
	want := int64(129900 + 23382 + 0 - 25980)
	if got.TotalCents != want {
		t.Fatalf("total: expected %d, got %d", want, got.TotalCents)
	}
}

func TestCart_Totals_TotalIdentity(t *testing.T) {
	codes := []string{"", "WELCOME10", "SAVE20", "STUDENT15"}
	policy := cart.DefaultDiscounts()

	for _, code := range codes {
		c := &cart.Cart{ID: uuid.New(), DiscountCode: code}
		c.AddItem(cart.Line{ProductID: uuid.New(), PriceCents: 33333, Quantity: 3, Size: "S", Color: "Red"})
		c.AddItem(cart.Line{ProductID: uuid.New(), PriceCents: 12345, Quantity: 1, Size: "M", Color: "Blue"})

		got := c.Totals(policy)
		want := got.SubtotalCents + got.TaxCents + got.ShippingCents - got.DiscountCents
		if got.TotalCents != want {
			t.Fatalf("code %q: total identity broken: got %d, want %d", code, got.TotalCents, want)
		}
	}
}

func TestCart_Totals_UnknownCodeIgnored(t *testing.T) {
	c := &cart.Cart{ID: uuid.New(), DiscountCode: "NOPE99"}
	c.AddItem(cart.Line{ProductID: uuid.New(), PriceCents: 10000, Quantity: 1, Size: "M", Color: "Black"})

	got := c.Totals(cart.DefaultDiscounts())
	if got.DiscountCents != 0 {
		t.Fatalf("unknown code must not discount, got %d", got.DiscountCents)
	}
}

func TestCart_Clear(t *testing.T) {
	c := &cart.Cart{ID: uuid.New(), DiscountCode: "WELCOME10"}
	c.AddItem(cart.Line{ProductID: uuid.New(), PriceCents: 1000, Quantity: 1, Size: "M", Color: "Black"})

	c.Clear()
	if len(c.Items) != 0 {
		t.Fatalf("expected empty items, got %d", len(c.Items))
	}
	if c.DiscountCode != "" {
		t.Fatalf("expected discount code cleared, got %q", c.DiscountCode)
	}
}

func TestDefaultDiscounts(t *testing.T) {
	policy := cart.DefaultDiscounts()

	cases := map[string]int32{
		"WELCOME10": 10,
		"SAVE20":    20,
		"STUDENT15": 15,
	}
	for code, want := range cases {
		got, ok := policy.Resolve(code)
		if !ok {
			t.Fatalf("expected code %q to resolve", code)
		}
		if got != want {
			t.Fatalf("code %q: expected %d%%, got %d%%", code, want, got)
		}
	}

	if _, ok := policy.Resolve("EXPIRED50"); ok {
		t.Fatal("expected unknown code to not resolve")
	}
}
