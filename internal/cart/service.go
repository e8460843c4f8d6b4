package cart

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"fashun-backend/internal/models"
	"fashun-backend/internal/repository"

	"github.com/google/uuid"
)

// Storage — то, что сервису нужно от хранилища корзин (Redis в проде)
type Storage interface {
	Get(ctx context.Context, id uuid.UUID) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store     Storage
	discounts DiscountPolicy
	abandoned repository.AbandonedCartRepo
	now       func() time.Time
}

func NewService(store Storage, discounts DiscountPolicy, abandoned repository.AbandonedCartRepo) *Service {
	return &Service{
		store:     store,
		discounts: discounts,
		abandoned: abandoned,
		now:       time.Now,
	}
}

func (s *Service) CreateCart(ctx context.Context, email string) (*Cart, error) {
	c := &Cart{
		ID:    uuid.New(),
		Email: strings.TrimSpace(email),
		Items: []Line{},
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCart(ctx context.Context, id uuid.UUID) (*Cart, Totals, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, Totals{}, err
	}
	return c, c.Totals(s.discounts), nil
}

func (s *Service) AddItem(ctx context.Context, id uuid.UUID, item Line) (*Cart, Totals, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		c.AddItem(item)
		return nil
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, id, productID uuid.UUID, size, color string, delta int32) (*Cart, Totals, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		return c.UpdateQuantity(productID, size, color, delta)
	})
}

func (s *Service) RemoveItem(ctx context.Context, id, productID uuid.UUID, size, color string) (*Cart, Totals, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		return c.RemoveItem(productID, size, color)
	})
}

func (s *Service) ClearCart(ctx context.Context, id uuid.UUID) (*Cart, Totals, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		c.Clear()
		return nil
	})
}

// ApplyDiscount: неизвестный код не трогает уже применённый
func (s *Service) ApplyDiscount(ctx context.Context, id uuid.UUID, code string) (*Cart, Totals, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := s.discounts.Resolve(code); !ok {
		return nil, Totals{}, ErrInvalidDiscountCode
	}
	return s.mutate(ctx, id, func(c *Cart) error {
		c.DiscountCode = code
		return nil
	})
}

func (s *Service) RemoveDiscount(ctx context.Context, id uuid.UUID) (*Cart, Totals, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		c.DiscountCode = ""
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(c *Cart) error) (*Cart, Totals, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, Totals{}, err
	}
	if err := fn(c); err != nil {
		return nil, Totals{}, err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, Totals{}, err
	}
	return c, c.Totals(s.discounts), nil
}

// StartCheckout снимает снапшот корзины в abandoned_carts: запись живёт там,
// пока покупатель не оплатит (MarkRecovered) или её не подметёт sweep
func (s *Service) StartCheckout(ctx context.Context, id uuid.UUID, email, customerName string) (*models.AbandonedCart, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if email == "" {
		email = c.Email
	}

	items, err := json.Marshal(c.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &models.AbandonedCart{
		Email:        strings.TrimSpace(email),
		CustomerName: strings.TrimSpace(customerName),
		TotalCents:   c.Totals(s.discounts).TotalCents,
		Items:        items,
		Status:       models.CartStatusAbandoned,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.abandoned.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) MarkRecovered(ctx context.Context, abandonedID uuid.UUID) (*models.AbandonedCart, error) {
	ok, err := s.abandoned.MarkRecovered(ctx, abandonedID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		existing, gerr := s.abandoned.GetByID(ctx, abandonedID)
		if gerr != nil {
			return nil, gerr
		}
		if existing == nil {
			return nil, ErrCartNotFound
		}
		// уже recovered — идемпотентно отдаём текущее состояние
		return existing, nil
	}
	return s.abandoned.GetByID(ctx, abandonedID)
}
