package recovery

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	svc             *Service
	sweepInterval   time.Duration
	cleanupInterval time.Duration
	log             *zap.Logger
	stopCh          chan struct{}
}

func NewScheduler(svc *Service, sweepInterval, cleanupInterval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		svc:             svc,
		sweepInterval:   sweepInterval,
		cleanupInterval: cleanupInterval,
		log:             log,
		stopCh:          make(chan struct{}),
	}
}

// Start запускает фоновые циклы рассылки и очистки
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting recovery scheduler",
		zap.Duration("sweep_interval", s.sweepInterval),
		zap.Duration("cleanup_interval", s.cleanupInterval))

	go s.runSweep(ctx)
	go s.runCleanup(ctx)
}

func (s *Scheduler) Stop() {
	s.log.Info("stopping recovery scheduler")
	close(s.stopCh)
}

func (s *Scheduler) runSweep(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	// Выполняем сразу при старте
	if _, err := s.svc.Sweep(ctx); err != nil {
		s.log.Error("initial recovery sweep failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if _, err := s.svc.Sweep(ctx); err != nil {
				s.log.Error("recovery sweep failed", zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("recovery sweep stopped")
			return
		case <-ctx.Done():
			s.log.Info("recovery sweep cancelled")
			return
		}
	}
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.svc.Cleanup(ctx); err != nil {
				s.log.Error("abandoned carts cleanup failed", zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("abandoned carts cleanup stopped")
			return
		case <-ctx.Done():
			s.log.Info("abandoned carts cleanup cancelled")
			return
		}
	}
}
