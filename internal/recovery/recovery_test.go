package recovery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fashun-backend/internal/models"
	"fashun-backend/internal/recovery"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MockCartRepo
type MockCartRepo struct {
	CreateFunc              func(ctx context.Context, c *models.AbandonedCart) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*models.AbandonedCart, error)
	ListSweepCandidatesFunc func(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error)
	MarkEmailSentFunc       func(ctx context.Context, id uuid.UUID, seq int32, at time.Time) (bool, error)
	MarkRecoveredFunc       func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	DeleteStaleFunc         func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockCartRepo) Create(ctx context.Context, c *models.AbandonedCart) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockCartRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AbandonedCart, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCartRepo) ListSweepCandidates(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error) {
	if m.ListSweepCandidatesFunc != nil {
		return m.ListSweepCandidatesFunc(ctx, olderThan)
	}
	return nil, nil
}

func (m *MockCartRepo) MarkEmailSent(ctx context.Context, id uuid.UUID, seq int32, at time.Time) (bool, error) {
	if m.MarkEmailSentFunc != nil {
		return m.MarkEmailSentFunc(ctx, id, seq, at)
	}
	return true, nil
}

func (m *MockCartRepo) MarkRecovered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if m.MarkRecoveredFunc != nil {
		return m.MarkRecoveredFunc(ctx, id, at)
	}
	return true, nil
}

func (m *MockCartRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteStaleFunc != nil {
		return m.DeleteStaleFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockDispatcher записывает отправки; может проваливать отдельные корзины
type MockDispatcher struct {
	DispatchFunc func(ctx context.Context, cart models.AbandonedCart, sequence int32, offer recovery.Offer) error

	Sent []SentEmail
}

type SentEmail struct {
	CartID   uuid.UUID
	Sequence int32
	Offer    recovery.Offer
}

func (m *MockDispatcher) DispatchRecoveryEmail(ctx context.Context, cart models.AbandonedCart, sequence int32, offer recovery.Offer) error {
	if m.DispatchFunc != nil {
		if err := m.DispatchFunc(ctx, cart, sequence, offer); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, SentEmail{CartID: cart.ID, Sequence: sequence, Offer: offer})
	return nil
}

func abandonedCart(age time.Duration, emailsSent int32) models.AbandonedCart {
	return models.AbandonedCart{
		ID:                 uuid.New(),
		Email:              "buyer@example.com",
		Status:             models.CartStatusAbandoned,
		RecoveryEmailsSent: emailsSent,
		CreatedAt:          time.Now().Add(-age),
	}
}

func TestSequenceFor(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want int32
	}{
		{90 * time.Minute, 1},
		{23 * time.Hour, 1},
		{24 * time.Hour, 2},
		{71 * time.Hour, 2},
		{72 * time.Hour, 3},
		{200 * time.Hour, 3},
	}
	for _, c := range cases {
		if got := recovery.SequenceFor(c.age); got != c.want {
			t.Fatalf("SequenceFor(%v): expected %d, got %d", c.age, c.want, got)
		}
	}
}

func TestSweep_EscalatesOfferBySequence(t *testing.T) {
	carts := []models.AbandonedCart{
		abandonedCart(2*time.Hour, 0),  // шаг 1 → COMEBACK10
		abandonedCart(30*time.Hour, 1), // шаг 2 → COMEBACK15
		abandonedCart(80*time.Hour, 2), // шаг 3 → LASTCHANCE20
	}

	repo := &MockCartRepo{
		ListSweepCandidatesFunc: func(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error) {
			return carts, nil
		},
	}
	disp := &MockDispatcher{}
	svc := recovery.NewService(repo, disp, zap.NewNop())

	res, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Total != 3 || res.Triggered != 3 || res.Failed != 0 {
		t.Fatalf("expected total=3 triggered=3 failed=0, got %+v", res)
	}

	wantOffers := map[int32]string{1: "COMEBACK10", 2: "COMEBACK15", 3: "LASTCHANCE20"}
	wantPercent := map[int32]int32{1: 10, 2: 15, 3: 20}
	for _, s := range disp.Sent {
		if s.Offer.Code != wantOffers[s.Sequence] {
			t.Fatalf("sequence %d: expected offer %s, got %s", s.Sequence, wantOffers[s.Sequence], s.Offer.Code)
		}
		if s.Offer.Percent != wantPercent[s.Sequence] {
			t.Fatalf("sequence %d: expected %d%%, got %d%%", s.Sequence, wantPercent[s.Sequence], s.Offer.Percent)
		}
	}
}

func TestSweep_SkipsAlreadyProcessedStep(t *testing.T) {
	// Корзине 2 часа, первое письмо уже ушло: до порога 24ч делать нечего
	c := abandonedCart(2*time.Hour, 1)

	repo := &MockCartRepo{
		ListSweepCandidatesFunc: func(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error) {
			return []models.AbandonedCart{c}, nil
		},
	}
	disp := &MockDispatcher{}
	svc := recovery.NewService(repo, disp, zap.NewNop())

	res, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Triggered != 0 || res.Failed != 0 {
		t.Fatalf("expected no-op sweep, got %+v", res)
	}
	if len(disp.Sent) != 0 {
		t.Fatalf("expected no dispatches, got %d", len(disp.Sent))
	}
}

func TestSweep_RerunIsIdempotentPerStep(t *testing.T) {
	c := abandonedCart(2*time.Hour, 0)
	sent := c.RecoveryEmailsSent

	repo := &MockCartRepo{
		ListSweepCandidatesFunc: func(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error) {
			cp := c
			cp.RecoveryEmailsSent = sent
			return []models.AbandonedCart{cp}, nil
		},
		MarkEmailSentFunc: func(ctx context.Context, id uuid.UUID, seq int32, at time.Time) (bool, error) {
			if sent >= seq {
				return false, nil
			}
			sent = seq
			return true, nil
		},
	}
	disp := &MockDispatcher{}
	svc := recovery.NewService(repo, disp, zap.NewNop())
	ctx := context.Background()

	res1, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep first: %v", err)
	}
	if res1.Triggered != 1 {
		t.Fatalf("expected first run to trigger, got %+v", res1)
	}

	res2, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep second: %v", err)
	}
	if res2.Triggered != 0 {
		t.Fatalf("expected second run to be a no-op, got %+v", res2)
	}
	if len(disp.Sent) != 1 {
		t.Fatalf("expected exactly 1 email across reruns, got %d", len(disp.Sent))
	}
}

func TestSweep_DispatchFailureDoesNotAbortOthers(t *testing.T) {
	bad := abandonedCart(2*time.Hour, 0)
	good := abandonedCart(30*time.Hour, 1)

	repo := &MockCartRepo{
		ListSweepCandidatesFunc: func(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error) {
			return []models.AbandonedCart{bad, good}, nil
		},
	}
	disp := &MockDispatcher{
		DispatchFunc: func(ctx context.Context, cart models.AbandonedCart, sequence int32, offer recovery.Offer) error {
			if cart.ID == bad.ID {
				return errors.New("kafka write timeout")
			}
			return nil
		},
	}
	svc := recovery.NewService(repo, disp, zap.NewNop())

	res, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Triggered != 1 {
		t.Fatalf("expected 1 triggered, got %d", res.Triggered)
	}
	if res.Failed != 1 {
		t.Fatalf("expected 1 failed, got %d", res.Failed)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error entry, got %+v", res.Errors)
	}
	if len(disp.Sent) != 1 || disp.Sent[0].CartID != good.ID {
		t.Fatalf("expected only good cart dispatched, got %+v", disp.Sent)
	}
}

func TestSweep_MarkFailureCountedAsFailed(t *testing.T) {
	c := abandonedCart(2*time.Hour, 0)

	repo := &MockCartRepo{
		ListSweepCandidatesFunc: func(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error) {
			return []models.AbandonedCart{c}, nil
		},
		MarkEmailSentFunc: func(ctx context.Context, id uuid.UUID, seq int32, at time.Time) (bool, error) {
			return false, errors.New("db connection reset")
		},
	}
	svc := recovery.NewService(repo, &MockDispatcher{}, zap.NewNop())

	res, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Failed != 1 || res.Triggered != 0 {
		t.Fatalf("expected failed=1 triggered=0, got %+v", res)
	}
}

func TestSweep_ConcurrentStepNotDoubleCounted(t *testing.T) {
	c := abandonedCart(2*time.Hour, 0)

	repo := &MockCartRepo{
		ListSweepCandidatesFunc: func(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error) {
			return []models.AbandonedCart{c}, nil
		},
		MarkEmailSentFunc: func(ctx context.Context, id uuid.UUID, seq int32, at time.Time) (bool, error) {
			// параллельный прогон успел раньше
			return false, nil
		},
	}
	svc := recovery.NewService(repo, &MockDispatcher{}, zap.NewNop())

	res, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Triggered != 0 || res.Failed != 0 {
		t.Fatalf("lost race must not count as triggered or failed, got %+v", res)
	}
}

func TestSweep_GracePeriodWindow(t *testing.T) {
	var gotOlderThan time.Time
	repo := &MockCartRepo{
		ListSweepCandidatesFunc: func(ctx context.Context, olderThan time.Time) ([]models.AbandonedCart, error) {
			gotOlderThan = olderThan
			return nil, nil
		},
	}
	svc := recovery.NewService(repo, &MockDispatcher{}, zap.NewNop())

	before := time.Now()
	if _, err := svc.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	// Кандидаты отбираются с отступом в час от текущего момента
	wantLow := before.Add(-time.Hour - time.Second)
	wantHigh := time.Now().Add(-time.Hour + time.Second)
	if gotOlderThan.Before(wantLow) || gotOlderThan.After(wantHigh) {
		t.Fatalf("expected olderThan ≈ now-1h, got %v", gotOlderThan)
	}
}

func TestCleanup_UsesRetentionCutoff(t *testing.T) {
	var gotCutoff time.Time
	repo := &MockCartRepo{
		DeleteStaleFunc: func(ctx context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 7, nil
		},
	}
	svc := recovery.NewService(repo, &MockDispatcher{}, zap.NewNop())

	deleted, err := svc.Cleanup(context.Background())
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if deleted != 7 {
		t.Fatalf("expected 7 deleted, got %d", deleted)
	}

	want := time.Now().AddDate(0, 0, -30)
	if gotCutoff.Before(want.Add(-time.Minute)) || gotCutoff.After(want.Add(time.Minute)) {
		t.Fatalf("expected 30-day cutoff, got %v", gotCutoff)
	}
}
