package repository

import (
	"context"
	"errors"
	"time"

	"fashun-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AbandonedCartRepo interface {
	Create(ctx context.Context, c *models.AbandonedCart) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AbandonedCart, error)
	// ListSweepCandidates: status='abandoned', created_at < olderThan,
	// recovered_at IS NULL, recovery_emails_sent < 3
	ListSweepCandidates(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error)
	// MarkEmailSent двигает счётчик только вперёд: guard по recovery_emails_sent < seq.
	// false — другой прогон уже обработал этот шаг (идемпотентность at-least-once)
	MarkEmailSent(ctx context.Context, id uuid.UUID, seq int32, at time.Time) (bool, error)
	MarkRecovered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// DeleteStale удаляет recovered и дошедшие до конца цепочки корзины старше cutoff
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type abandonedCartRepo struct{ db *gorm.DB }

func NewAbandonedCartRepo(db *gorm.DB) AbandonedCartRepo { return &abandonedCartRepo{db: db} }

func (r *abandonedCartRepo) Create(ctx context.Context, c *models.AbandonedCart) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *abandonedCartRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AbandonedCart, error) {
	var c models.AbandonedCart
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *abandonedCartRepo) ListSweepCandidates(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error) {
	var list []models.AbandonedCart
	err := r.db.WithContext(ctx).
		Where("status = ?", models.CartStatusAbandoned).
		Where("created_at < ?", olderThan).
		Where("recovered_at IS NULL").
		Where("recovery_emails_sent < ?", 3).
		Order("created_at").
		Find(&list).Error
	return list, err
}

func (r *abandonedCartRepo) MarkEmailSent(ctx context.Context, id uuid.UUID, seq int32, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE abandoned_carts
SET recovery_emails_sent = @seq,
    last_recovery_email = @at,
    updated_at = now()
WHERE id = @id
  AND recovery_emails_sent < @seq
`, map[string]any{
		"id":  id,
		"seq": seq,
		"at":  at,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *abandonedCartRepo) MarkRecovered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE abandoned_carts
SET status = 'recovered',
    recovered_at = @at,
    updated_at = now()
WHERE id = @id
  AND status = 'abandoned'
`, map[string]any{
		"id": id,
		"at": at,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *abandonedCartRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Exec(`
DELETE FROM abandoned_carts
WHERE created_at < @cutoff
  AND (status = 'recovered' OR recovery_emails_sent >= 3)
`, map[string]any{
		"cutoff": cutoff,
	})
	return tx.RowsAffected, tx.Error
}
