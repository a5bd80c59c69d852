package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/tasks-api/internal/clock"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// ErrPassPanicked is reported when a sweep pass panics.
var ErrPassPanicked = errors.New("sweep pass panicked")

// Locker coordinates sweeps between processes sharing one database.
// TryLock reports acquired=false without error when another process holds
// the lock; unlock must be called once the pass is finished.
type Locker interface {
	TryLock(ctx context.Context) (unlock func(context.Context) error, acquired bool, err error)
}

// SweeperConfig holds configuration for the completion sweeper
type SweeperConfig struct {
	// Interval between passes. If zero, defaults to one minute.
	Interval time.Duration

	// ErrorBuffer is the capacity of the Errors channel. Reports are dropped
	// when the buffer is full. If zero, defaults to 16.
	ErrorBuffer int
}

// DefaultSweeperConfig returns a SweeperConfig with reasonable defaults
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:    time.Minute,
		ErrorBuffer: 16,
	}
}

// SweepResult summarizes one pass.
type SweepResult struct {
	Due       int
	Completed int
	Failed    int
	// Stale counts due tasks that were edited, rescheduled or deleted
	// between the fetch and the write and so were left alone.
	Stale int
	// Skipped is true when another process held the sweep lock.
	Skipped bool
}

// Sweeper periodically moves due pending tasks to done.
type Sweeper struct {
	store      store.TaskStore
	clock      clock.Clock
	locker     Locker
	config     SweeperConfig
	logger     *slog.Logger
	errs       chan error
	errMu      sync.Mutex
	closed     bool
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	startOnce  sync.Once
	stopOnce   sync.Once
}

// NewSweeper creates a new Sweeper. A nil locker disables cross-process
// coordination; a nil clock uses the system clock.
func NewSweeper(
	taskStore store.TaskStore,
	clk clock.Clock,
	locker Locker,
	config SweeperConfig,
	logger *slog.Logger,
) *Sweeper {
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultSweeperConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.ErrorBuffer <= 0 {
		config.ErrorBuffer = defaults.ErrorBuffer
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Sweeper{
		store:      taskStore,
		clock:      clk,
		locker:     locker,
		config:     config,
		logger:     logger.With(slog.String("component", "sweeper")),
		errs:       make(chan error, config.ErrorBuffer),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Errors returns the channel on which failed passes and failed saves are
// reported. It is closed after Stop returns.
func (s *Sweeper) Errors() <-chan error {
	return s.errs
}

// Start launches the ticking goroutine. Calling Start more than once has no
// further effect.
func (s *Sweeper) Start() {
	s.startOnce.Do(func() {
		s.logger.Info("starting sweeper", slog.Duration("interval", s.config.Interval))
		s.wg.Add(1)
		go s.loop()
	})
}

// Stop cancels the loop, waits for an in-flight pass to finish and closes
// the errors channel.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		s.cancelFunc()
		s.wg.Wait()

		s.errMu.Lock()
		s.closed = true
		close(s.errs)
		s.errMu.Unlock()

		s.logger.Info("sweeper stopped")
	})
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			// A pass runs to completion; the ticker drops ticks that fire
			// meanwhile, so passes never overlap.
			if _, err := s.SweepOnce(context.WithoutCancel(s.ctx)); err != nil {
				s.logger.Error("sweep pass failed", slog.String("error", err.Error()))
			}
		}
	}
}

// SweepOnce runs a single pass: every pending task whose scheduled time is
// at or before the clock's now is moved to done, each with its own status-only write.
// The returned error covers lock and fetch failures and panics; per-task
// save failures are counted in the result and reported on Errors.
func (s *Sweeper) SweepOnce(ctx context.Context) (result SweepResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPassPanicked, r)
			s.report(err)
		}
	}()

	if s.locker != nil {
		unlock, acquired, lockErr := s.locker.TryLock(ctx)
		if lockErr != nil {
			err = fmt.Errorf("failed to acquire sweep lock: %w", lockErr)
			s.report(err)
			return result, err
		}
		if !acquired {
			s.logger.Debug("sweep lock held elsewhere, skipping pass")
			result.Skipped = true
			return result, nil
		}
		defer func() {
			if unlockErr := unlock(ctx); unlockErr != nil {
				s.logger.Warn("failed to release sweep lock",
					slog.String("error", unlockErr.Error()))
			}
		}()
	}

	now := s.clock.Now()
	due, fetchErr := s.store.FindDue(ctx, now)
	if fetchErr != nil {
		err = fmt.Errorf("failed to fetch due tasks: %w", fetchErr)
		s.report(err)
		return result, err
	}

	result.Due = len(due)
	if len(due) == 0 {
		s.logger.Info("no pending tasks to execute")
		return result, nil
	}

	for _, t := range due {
		switch s.complete(ctx, t, now) {
		case outcomeCompleted:
			result.Completed++
		case outcomeStale:
			result.Stale++
		default:
			result.Failed++
		}
	}

	s.logger.Info("sweep pass finished",
		slog.Int("due", result.Due),
		slog.Int("completed", result.Completed),
		slog.Int("stale", result.Stale),
		slog.Int("failed", result.Failed))
	return result, nil
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeCompleted
	outcomeStale
)

// complete writes only the status, and only while t is still pending and due.
func (s *Sweeper) complete(ctx context.Context, t *domain.Task, now time.Time) outcome {
	log := s.logger.With(
		slog.String("task_id", t.ID.String()),
		slog.String("user_id", t.UserID.String()),
	)

	if err := s.store.CompleteDue(ctx, t, now); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task changed since it was fetched, leaving it alone")
			return outcomeStale
		}
		log.Error("failed to complete task", slog.String("error", err.Error()))
		s.report(fmt.Errorf("failed to complete task %s: %w", t.ID, err))
		return outcomeFailed
	}

	log.Info("task completed", slog.String("name", t.Name))
	return outcomeCompleted
}

// report never blocks; reports beyond the buffer or after Stop are dropped.
func (s *Sweeper) report(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.errs <- err:
	default:
		s.logger.Warn("sweeper error channel full, dropping report",
			slog.String("error", err.Error()))
	}
}
