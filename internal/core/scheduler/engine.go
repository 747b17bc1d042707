package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/core/ports"
	"github.com/Ezzerof/smart-invoice-backend/internal/middleware"
)

// ErrTickInProgress is returned when a tick fires while a previous run has not
// completed. The caller simply skips that trigger; the next one will run.
var ErrTickInProgress = errors.New("scheduler tick already in progress")

// Engine is the periodic trigger for the invoice lifecycle job. On each tick it
// fixes "today" once from the clock, then runs the status transition and the
// reminder dispatch strictly in that order, so that reminder eligibility sees the
// statuses updated in the same tick.
type Engine struct {
	clock      ports.Clock
	transition *TransitionEngine
	dispatcher *Dispatcher
	interval   time.Duration
	logger     *slog.Logger

	// running guards against overlapping ticks (Idle=false, Running=true).
	running atomic.Bool
}

// NewEngine creates a scheduling engine ticking at the given interval.
func NewEngine(clock ports.Clock, transition *TransitionEngine, dispatcher *Dispatcher, interval time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		clock:      clock,
		transition: transition,
		dispatcher: dispatcher,
		interval:   interval,
		logger:     logger.With(slog.String("component", "scheduling_engine")),
	}
}

// RunTick executes one full cycle. It returns ErrTickInProgress when a previous
// cycle is still running; overlapping execution against the same invoice set would
// break the one-write-per-invoice-per-tick guarantee.
func (e *Engine) RunTick(ctx context.Context) (Summary, error) {
	if !e.running.CompareAndSwap(false, true) {
		return Summary{}, ErrTickInProgress
	}
	defer e.running.Store(false)

	ctx = middleware.WithLogger(ctx, e.logger)

	// Fix today once so a tick spanning midnight stays internally consistent.
	today := e.clock.Today()

	var summary Summary
	transitioned, failures := e.transition.RunTransition(ctx, today)
	summary.Transitioned = transitioned
	summary.Failures = append(summary.Failures, failures...)

	reminded, failures := e.dispatcher.RunDispatch(ctx, today)
	summary.Reminded = reminded
	summary.Failures = append(summary.Failures, failures...)

	e.logger.Info("Scheduler tick completed",
		slog.Time("today", today),
		slog.Int("transitioned", summary.Transitioned),
		slog.Int("reminded", summary.Reminded),
		slog.Int("failures", len(summary.Failures)))

	return summary, nil
}

// Run drives RunTick on a fixed cadence until the context is cancelled. An
// in-flight tick always runs to completion of the invoice set it started with;
// cancellation is only observed between ticks.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("Scheduler started", slog.Duration("interval", e.interval))
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			if _, err := e.RunTick(context.Background()); err != nil {
				if errors.Is(err, ErrTickInProgress) {
					e.logger.Warn("Skipping tick, previous run still in progress")
					continue
				}
				e.logger.Error("Scheduler tick failed", slog.String("error", err.Error()))
			}
		}
	}
}
