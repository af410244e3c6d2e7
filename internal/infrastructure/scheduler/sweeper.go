package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TenancySweeper expires active tenancies whose term has lapsed
type TenancySweeper interface {
	MarkExpired(ctx context.Context, now time.Time) (int, error)
}

// PaymentSweeper flags pending payments past their due date
type PaymentSweeper interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// ReportSweeper fails reports stuck in generation
type ReportSweeper interface {
	SweepStuck(ctx context.Context, now time.Time, timeout time.Duration) (int, error)
}

// SweeperConfig holds background sweep configuration
type SweeperConfig struct {
	// Interval is how often sweeps run
	Interval time.Duration
	// SweepTimeout bounds a single sweep round
	SweepTimeout time.Duration
	// ReportStuckTimeout is the age after which a GENERATING report is failed
	ReportStuckTimeout time.Duration
}

// DefaultSweeperConfig returns default sweep configuration
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:           5 * time.Minute,
		SweepTimeout:       2 * time.Minute,
		ReportStuckTimeout: 30 * time.Minute,
	}
}

// Sweeper periodically runs the lifecycle sweeps: tenancy expiry, payment
// overdue flagging, and stuck report cleanup. Each round is independent;
// a failing sweep is logged and retried on the next tick.
type Sweeper struct {
	tenancies TenancySweeper
	payments  PaymentSweeper
	reports   ReportSweeper
	cfg       SweeperConfig
	logger    *zap.Logger

	stopChan  chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewSweeper creates a new Sweeper
func NewSweeper(
	tenancies TenancySweeper,
	payments PaymentSweeper,
	reports ReportSweeper,
	cfg SweeperConfig,
	logger *zap.Logger,
) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweeperConfig().Interval
	}
	if cfg.SweepTimeout <= 0 {
		cfg.SweepTimeout = DefaultSweeperConfig().SweepTimeout
	}
	if cfg.ReportStuckTimeout <= 0 {
		cfg.ReportStuckTimeout = DefaultSweeperConfig().ReportStuckTimeout
	}
	return &Sweeper{
		tenancies: tenancies,
		payments:  payments,
		reports:   reports,
		cfg:       cfg,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the background sweep loop
func (s *Sweeper) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.run()
		s.logger.Info("sweeper started",
			zap.Duration("interval", s.cfg.Interval),
		)
	})
}

// Stop halts the sweep loop and waits for an in-flight round to finish
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Info("sweeper stopped")
	})
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunOnce(context.Background())
		}
	}
}

// RunOnce executes a single sweep round across all three concerns
func (s *Sweeper) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SweepTimeout)
	defer cancel()

	now := time.Now()

	if n, err := s.tenancies.MarkExpired(ctx, now); err != nil {
		s.logger.Error("tenancy expiry sweep failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("tenancies expired", zap.Int("count", n))
	}

	if n, err := s.payments.MarkOverdue(ctx, now); err != nil {
		s.logger.Error("payment overdue sweep failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("payments marked overdue", zap.Int("count", n))
	}

	if n, err := s.reports.SweepStuck(ctx, now, s.cfg.ReportStuckTimeout); err != nil {
		s.logger.Error("stuck report sweep failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("stuck reports failed", zap.Int("count", n))
	}
}
