package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/event-ticketing/internal/config"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/observability"
)

// sweepLockKey is the Redis lease shared by all instances. Whichever
// instance grabs it runs the sweep; the rest skip the tick.
const sweepLockKey = "ticketing:sweeper:lock"

// TransactionSource lists overdue transactions for the sweep.
type TransactionSource interface {
	ListExpiredWaitingPayment(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error)
	ListOverdueWaitingConfirmation(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error)
}

// Transitioner drives a single overdue transaction through its time-based
// transition with restitution.
type Transitioner interface {
	Expire(ctx context.Context, transactionID string) (*domain.Transaction, error)
	CancelOverdue(ctx context.Context, transactionID string) (*domain.Transaction, error)
}

// Sweeper periodically expires unpaid transactions and cancels those the
// organizer never confirmed. Each record's transition is one atomic unit;
// one failing record never aborts the batch.
type Sweeper struct {
	source     TransactionSource
	machine    Transitioner
	lockClient redis.Cmdable
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.SweeperConfig
	instanceID string
	now        func() time.Time
}

// NewSweeper constructs the worker. lockClient may be nil, in which case
// only the in-process run loop guards against overlap.
func NewSweeper(source TransactionSource, machine Transitioner, lockClient redis.Cmdable, logger *zap.Logger, metrics *observability.Metrics, cfg config.SweeperConfig) *Sweeper {
	return &Sweeper{
		source:     source,
		machine:    machine,
		lockClient: lockClient,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
		instanceID: uuid.NewString(),
		now:        time.Now,
	}
}

// Run sweeps once immediately, then on every tick until ctx is canceled.
// Sweeps are invoked synchronously from this loop, so a slow sweep delays
// the next tick instead of overlapping it.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper started",
		zap.Duration("interval", s.cfg.Interval()),
		zap.String("instance_id", s.instanceID))

	s.Sweep(ctx)

	ticker := time.NewTicker(s.cfg.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass: expire overdue WAITING_PAYMENT, cancel overdue
// WAITING_CONFIRMATION.
func (s *Sweeper) Sweep(ctx context.Context) {
	if !s.acquireLease(ctx) {
		s.logger.Debug("sweep lease held elsewhere, skipping tick")
		return
	}
	defer s.releaseLease(ctx)

	now := s.now()
	s.sweepBatch(ctx, "expire", func() ([]domain.Transaction, error) {
		return s.source.ListExpiredWaitingPayment(ctx, now, s.cfg.BatchLimit)
	}, s.machine.Expire)
	s.sweepBatch(ctx, "cancel", func() ([]domain.Transaction, error) {
		return s.source.ListOverdueWaitingConfirmation(ctx, now, s.cfg.BatchLimit)
	}, s.machine.CancelOverdue)
}

func (s *Sweeper) sweepBatch(ctx context.Context, kind string, list func() ([]domain.Transaction, error), transition func(context.Context, string) (*domain.Transaction, error)) {
	txns, err := list()
	if err != nil {
		s.logger.Error("sweep selection failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	if len(txns) == 0 {
		return
	}

	processed, failed := 0, 0
	for _, txn := range txns {
		if _, err := transition(ctx, txn.ID); err != nil {
			failed++
			s.logger.Error("sweep transition failed",
				zap.String("kind", kind),
				zap.String("transaction_id", txn.ID),
				zap.Error(err))
			continue
		}
		processed++
	}

	s.metrics.RecordSweep(kind, processed, failed)
	s.logger.Info("sweep batch done",
		zap.String("kind", kind),
		zap.Int("processed", processed),
		zap.Int("failed", failed))
}

func (s *Sweeper) acquireLease(ctx context.Context) bool {
	if s.lockClient == nil {
		return true
	}
	ok, err := s.lockClient.SetNX(ctx, sweepLockKey, s.instanceID, s.cfg.LockTTL()).Result()
	if err != nil {
		// Redis being down must not stop time-based transitions; the run
		// loop still serializes sweeps within this instance.
		s.logger.Warn("sweep lease unavailable, proceeding without it", zap.Error(err))
		return true
	}
	return ok
}

func (s *Sweeper) releaseLease(ctx context.Context) {
	if s.lockClient == nil {
		return
	}
	held, err := s.lockClient.Get(ctx, sweepLockKey).Result()
	if err != nil || held != s.instanceID {
		return
	}
	if err := s.lockClient.Del(ctx, sweepLockKey).Err(); err != nil {
		s.logger.Warn("sweep lease release failed", zap.Error(err))
	}
}
