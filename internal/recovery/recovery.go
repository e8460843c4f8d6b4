package recovery

import (
	"context"
	"time"

	"fashun-backend/internal/models"
	"fashun-backend/internal/repository"

	"go.uber.org/zap"
)

// Эскалация предложений по номеру письма в цепочке
type Offer struct {
	Code    string
	Percent int32
}

var offersBySequence = map[int32]Offer{
	1: {Code: "COMEBACK10", Percent: 10},
	2: {Code: "COMEBACK15", Percent: 15},
	3: {Code: "LASTCHANCE20", Percent: 20},
}

const (
	// Корзина должна отлежаться час, прежде чем попадёт под рассылку
	gracePeriod = time.Hour

	// Терминальный номер письма: дальше покупателя не трогаем
	maxSequence = 3

	// Terminal- и recovered-корзины держим 30 дней
	retentionDays = 30
)

// SequenceFor: >=72ч — третье письмо, >=24ч — второе, иначе первое
func SequenceFor(sinceAbandonment time.Duration) int32 {
	switch {
	case sinceAbandonment >= 72*time.Hour:
		return 3
	case sinceAbandonment >= 24*time.Hour:
		return 2
	default:
		return 1
	}
}

// Dispatcher отправляет recovery-письмо во внешний контур (Kafka → notifier)
type Dispatcher interface {
	DispatchRecoveryEmail(ctx context.Context, cart models.AbandonedCart, sequence int32, offer Offer) error
}

type SweepResult struct {
	Total     int      `json:"totalCarts"`
	Triggered int      `json:"triggered"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

type Service struct {
	carts      repository.AbandonedCartRepo
	dispatcher Dispatcher
	log        *zap.Logger
	now        func() time.Time
}

func NewService(carts repository.AbandonedCartRepo, dispatcher Dispatcher, log *zap.Logger) *Service {
	return &Service{
		carts:      carts,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// Sweep обходит брошенные корзины и рассылает следующее письмо цепочки.
// Ошибка по одной корзине не валит остальные: best-effort, at-least-once.
// Повторная доставка того же шага безопасна — MarkEmailSent двигает счётчик
// только вперёд, и прогон, пришедший вторым, шаг просто пропустит.
func (s *Service) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.now()

	candidates, err := s.carts.ListSweepCandidates(ctx, now.Add(-gracePeriod))
	if err != nil {
		return nil, err
	}

	res := &SweepResult{
		Total:  len(candidates),
		Errors: []string{},
	}

	for _, c := range candidates {
		seq := SequenceFor(now.Sub(c.CreatedAt))
		if c.RecoveryEmailsSent >= seq {
			// этот шаг уже обработан — до следующего порога делать нечего
			continue
		}

		offer := offersBySequence[seq]

		if err := s.dispatcher.DispatchRecoveryEmail(ctx, c, seq, offer); err != nil {
			s.log.Error("recovery dispatch failed",
				zap.String("cart_id", c.ID.String()),
				zap.Int32("sequence", seq),
				zap.Error(err))
			res.Failed++
			res.Errors = append(res.Errors, c.ID.String()+": "+err.Error())
			continue
		}

		ok, err := s.carts.MarkEmailSent(ctx, c.ID, seq, now)
		if err != nil {
			s.log.Error("mark email sent failed",
				zap.String("cart_id", c.ID.String()),
				zap.Int32("sequence", seq),
				zap.Error(err))
			res.Failed++
			res.Errors = append(res.Errors, c.ID.String()+": "+err.Error())
			continue
		}
		if !ok {
			// параллельный прогон записал этот шаг раньше нас
			s.log.Warn("recovery step already recorded",
				zap.String("cart_id", c.ID.String()),
				zap.Int32("sequence", seq))
			continue
		}

		s.log.Info("recovery email triggered",
			zap.String("cart_id", c.ID.String()),
			zap.String("email", c.Email),
			zap.Int32("sequence", seq),
			zap.String("offer", offer.Code))
		res.Triggered++
	}

	return res, nil
}

// Cleanup удаляет отработанные корзины старше окна ретенции
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	deleted, err := s.carts.DeleteStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info("cleaned up stale abandoned carts", zap.Int64("count", deleted))
	}
	return deleted, nil
}
