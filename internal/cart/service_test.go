package cart_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fashun-backend/internal/cart"
	"fashun-backend/internal/models"

	"github.com/google/uuid"
)

// MemStore — in-memory замена Redis для юнит-тестов сервиса
type MemStore struct {
	carts map[uuid.UUID]*cart.Cart
}

func NewMemStore() *MemStore {
	return &MemStore{carts: make(map[uuid.UUID]*cart.Cart)}
}

func (s *MemStore) Get(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	c, ok := s.carts[id]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	// отдаём копию, как это делает сериализация через Redis
	cp := *c
	cp.Items = append([]cart.Line(nil), c.Items...)
	return &cp, nil
}

func (s *MemStore) Save(ctx context.Context, c *cart.Cart) error {
	cp := *c
	cp.Items = append([]cart.Line(nil), c.Items...)
	s.carts[c.ID] = &cp
	return nil
}

func (s *MemStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.carts, id)
	return nil
}

// MockAbandonedCartRepo
type MockAbandonedCartRepo struct {
	CreateFunc              func(ctx context.Context, c *models.AbandonedCart) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*models.AbandonedCart, error)
	ListSweepCandidatesFunc func(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error)
	MarkEmailSentFunc       func(ctx context.Context, id uuid.UUID, seq int32, at time.Time) (bool, error)
	MarkRecoveredFunc       func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	DeleteStaleFunc         func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockAbandonedCartRepo) Create(ctx context.Context, c *models.AbandonedCart) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockAbandonedCartRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AbandonedCart, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAbandonedCartRepo) ListSweepCandidates(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error) {
	if m.ListSweepCandidatesFunc != nil {
		return m.ListSweepCandidatesFunc(ctx, olderThan)
	}
	return nil, nil
}

func (m *MockAbandonedCartRepo) MarkEmailSent(ctx context.Context, id uuid.UUID, seq int32, at time.Time) (bool, error) {
	if m.MarkEmailSentFunc != nil {
		return m.MarkEmailSentFunc(ctx, id, seq, at)
	}
	return true, nil
}

func (m *MockAbandonedCartRepo) MarkRecovered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if m.MarkRecoveredFunc != nil {
		return m.MarkRecoveredFunc(ctx, id, at)
	}
	return true, nil
}

func (m *MockAbandonedCartRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteStaleFunc != nil {
		return m.DeleteStaleFunc(ctx, cutoff)
	}
	return 0, nil
}

func newTestService(repo *MockAbandonedCartRepo) (*cart.Service, *MemStore) {
	store := NewMemStore()
	return cart.NewService(store, cart.DefaultDiscounts(), repo), store
}

func TestService_CreateAndGetCart(t *testing.T) {
	svc, _ := newTestService(&MockAbandonedCartRepo{})
	ctx := context.Background()

	created, err := svc.CreateCart(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("CreateCart: %v", err)
	}

	got, totals, err := svc.GetCart(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if got.Email != "buyer@example.com" {
		t.Fatalf("expected email preserved, got %q", got.Email)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(got.Items))
	}
	// Пустая корзина всё равно несёт плоскую доставку
	if totals.ShippingCents != 9900 {
		t.Fatalf("expected flat shipping on empty cart, got %d", totals.ShippingCents)
	}
}

func TestService_GetCart_NotFound(t *testing.T) {
	svc, _ := newTestService(&MockAbandonedCartRepo{})

	_, _, err := svc.GetCart(context.Background(), uuid.New())
	if !errors.Is(err, cart.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestService_ApplyDiscount_InvalidCodeKeepsStoredCart(t *testing.T) {
	svc, store := newTestService(&MockAbandonedCartRepo{})
	ctx := context.Background()

	created, _ := svc.CreateCart(ctx, "")
	if _, _, err := svc.AddItem(ctx, created.ID, cart.Line{ProductID: uuid.New(), PriceCents: 10000, Quantity: 1, Size: "M", Color: "Black"}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, _, err := svc.ApplyDiscount(ctx, created.ID, "WELCOME10"); err != nil {
		t.Fatalf("ApplyDiscount valid: %v", err)
	}

	_, _, err := svc.ApplyDiscount(ctx, created.ID, "BOGUS50")
	if !errors.Is(err, cart.ErrInvalidDiscountCode) {
		t.Fatalf("expected ErrInvalidDiscountCode, got %v", err)
	}

	stored, _ := store.Get(ctx, created.ID)
	if stored.DiscountCode != "WELCOME10" {
		t.Fatalf("invalid code must not clobber applied one, got %q", stored.DiscountCode)
	}
}

func TestService_ApplyDiscount_NormalizesCode(t *testing.T) {
	svc, _ := newTestService(&MockAbandonedCartRepo{})
	ctx := context.Background()

	created, _ := svc.CreateCart(ctx, "")
	got, _, err := svc.ApplyDiscount(ctx, created.ID, "  save20 ")
	if err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}
	if got.DiscountCode != "SAVE20" {
		t.Fatalf("expected normalized SAVE20, got %q", got.DiscountCode)
	}
}

func TestService_RemoveDiscount(t *testing.T) {
	svc, _ := newTestService(&MockAbandonedCartRepo{})
	ctx := context.Background()

	created, _ := svc.CreateCart(ctx, "")
	if _, _, err := svc.ApplyDiscount(ctx, created.ID, "STUDENT15"); err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}

	got, _, err := svc.RemoveDiscount(ctx, created.ID)
	if err != nil {
		t.Fatalf("RemoveDiscount: %v", err)
	}
	if got.DiscountCode != "" {
		t.Fatalf("expected code removed, got %q", got.DiscountCode)
	}
}

func TestService_StartCheckout_EmptyCart(t *testing.T) {
	svc, _ := newTestService(&MockAbandonedCartRepo{})
	ctx := context.Background()

	created, _ := svc.CreateCart(ctx, "buyer@example.com")
	_, err := svc.StartCheckout(ctx, created.ID, "", "")
	if !errors.Is(err, cart.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestService_StartCheckout_SnapshotsCart(t *testing.T) {
	var saved *models.AbandonedCart
	repo := &MockAbandonedCartRepo{
		CreateFunc: func(ctx context.Context, c *models.AbandonedCart) error {
			saved = c
			return nil
		},
	}
	svc, _ := newTestService(repo)
	ctx := context.Background()

	created, _ := svc.CreateCart(ctx, "cart-owner@example.com")
	if _, _, err := svc.AddItem(ctx, created.ID, cart.Line{ProductID: uuid.New(), Name: "Cargo Pants", PriceCents: 64950, Quantity: 2, Size: "L", Color: "Olive"}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, _, err := svc.ApplyDiscount(ctx, created.ID, "SAVE20"); err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}

	record, err := svc.StartCheckout(ctx, created.ID, "", "Priya")
	if err != nil {
		t.Fatalf("StartCheckout: %v", err)
	}
	if saved == nil {
		t.Fatal("expected Create to be called")
	}
	if record.Email != "cart-owner@example.com" {
		t.Fatalf("expected cart email fallback, got %q", record.Email)
	}
	if record.CustomerName != "Priya" {
		t.Fatalf("expected customer name, got %q", record.CustomerName)
	}
	if record.Status != models.CartStatusAbandoned {
		t.Fatalf("expected status abandoned, got %q", record.Status)
	}
	// 129900 + 23382 (tax) + 0 (free shipping) - 25980 (20%)
	if record.TotalCents != 127302 {
		t.Fatalf("expected snapshot total 127302, got %d", record.TotalCents)
	}

	var items []cart.Line
	if err := json.Unmarshal(record.Items, &items); err != nil {
		t.Fatalf("unmarshal snapshot items: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Cargo Pants" || items[0].Quantity != 2 {
		t.Fatalf("snapshot items mismatch: %+v", items)
	}
}

func TestService_MarkRecovered_Idempotent(t *testing.T) {
	id := uuid.New()
	recoveredAt := time.Now()
	existing := &models.AbandonedCart{
		ID:          id,
		Status:      models.CartStatusRecovered,
		RecoveredAt: &recoveredAt,
	}

	calls := 0
	repo := &MockAbandonedCartRepo{
		MarkRecoveredFunc: func(ctx context.Context, gotID uuid.UUID, at time.Time) (bool, error) {
			calls++
			// второй вызов уже ничего не меняет
			return calls == 1, nil
		},
		GetByIDFunc: func(ctx context.Context, gotID uuid.UUID) (*models.AbandonedCart, error) {
			return existing, nil
		},
	}
	svc, _ := newTestService(repo)
	ctx := context.Background()

	first, err := svc.MarkRecovered(ctx, id)
	if err != nil {
		t.Fatalf("MarkRecovered first: %v", err)
	}
	if first.Status != models.CartStatusRecovered {
		t.Fatalf("expected recovered status, got %q", first.Status)
	}

	second, err := svc.MarkRecovered(ctx, id)
	if err != nil {
		t.Fatalf("MarkRecovered second: %v", err)
	}
	if second.Status != models.CartStatusRecovered {
		t.Fatalf("expected idempotent recovered status, got %q", second.Status)
	}
}

func TestService_MarkRecovered_NotFound(t *testing.T) {
	repo := &MockAbandonedCartRepo{
		MarkRecoveredFunc: func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
			return false, nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.AbandonedCart, error) {
			return nil, nil
		},
	}
	svc, _ := newTestService(repo)

	_, err := svc.MarkRecovered(context.Background(), uuid.New())
	if !errors.Is(err, cart.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}
