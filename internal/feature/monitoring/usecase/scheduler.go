// Package usecase drives the monitoring cycle: load active watch entries,
// fetch a price per entry, evaluate thresholds and record alerts.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	alertentity "stock_alert_backend/internal/feature/alerts/domain/entity"
	alertusecase "stock_alert_backend/internal/feature/alerts/usecase"
	"stock_alert_backend/internal/feature/monitoring/domain"
	"stock_alert_backend/internal/feature/monitoring/domain/entity"
	watchentity "stock_alert_backend/internal/feature/watchlist/domain/entity"
	"stock_alert_backend/internal/shared/ratelimiter"
)

// WatchRegistry returns the currently active watch entries.
type WatchRegistry interface {
	ListActive(ctx context.Context) ([]watchentity.WatchEntry, error)
}

// PriceSource fetches the current price of a symbol.
// Failures are expected to be *domain.PriceFetchError.
type PriceSource interface {
	FetchPrice(ctx context.Context, symbol string) (entity.PriceQuote, error)
}

// AlertRecorder is the write side of the alert log.
type AlertRecorder interface {
	Record(ctx context.Context, in alertusecase.RecordInput) (*alertentity.Alert, error)
}

// Deduplicator suppresses repeated crossings inside a time window.
type Deduplicator interface {
	// Claim returns true when key was not claimed within window, and claims it.
	Claim(ctx context.Context, key string, window time.Duration) (bool, error)
	// Release drops a claim so the next cycle may record again.
	Release(ctx context.Context, key string) error
}

// CycleObserver receives every finished cycle report (metrics etc).
type CycleObserver interface {
	ObserveCycle(r CycleReport)
}

// CycleState is the scheduler lifecycle state.
type CycleState int32

const (
	StateIdle CycleState = iota
	StateRunning
)

func (s CycleState) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Stage names the step of entry processing where a failure happened.
type Stage string

const (
	StageNone     Stage = ""
	StageFetch    Stage = "fetch"
	StageEvaluate Stage = "evaluate"
	StageRecord   Stage = "record"
)

// EntryResult is the outcome of one watch entry within one cycle.
type EntryResult struct {
	WatchEntryID uint
	Symbol       string
	Quote        entity.PriceQuote
	Crossings    []entity.Crossing
	Alerts       []alertentity.Alert
	// Suppressed holds crossings skipped by the dedup window.
	Suppressed []entity.Crossing
	// Stage and Err are set when the entry produced nothing this cycle.
	Stage Stage
	Err   error
	// WriteErrors holds one error per crossing that could not be recorded.
	WriteErrors []error
}

// Failed reports whether the entry was skipped before any alert could be written.
func (r EntryResult) Failed() bool { return r.Err != nil }

// CycleReport summarizes one cycle.
type CycleReport struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Entries    []EntryResult
	// Err is set only when the cycle was abandoned (registry read failure).
	Err error
}

// Duration returns the wall time of the cycle.
func (r CycleReport) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// AlertCount returns the number of alerts recorded in the cycle.
func (r CycleReport) AlertCount() int {
	n := 0
	for _, e := range r.Entries {
		n += len(e.Alerts)
	}
	return n
}

// FailedCount returns the number of entries skipped because of a failure.
func (r CycleReport) FailedCount() int {
	n := 0
	for _, e := range r.Entries {
		if e.Failed() {
			n++
		}
	}
	return n
}

// SuppressedCount returns the number of crossings skipped by the dedup window.
func (r CycleReport) SuppressedCount() int {
	n := 0
	for _, e := range r.Entries {
		n += len(e.Suppressed)
	}
	return n
}

// Option configures optional Scheduler collaborators.
type Option func(*Scheduler)

// WithLimiter waits on l before every price fetch.
func WithLimiter(l ratelimiter.Limiter) Option {
	return func(s *Scheduler) { s.limiter = l }
}

// WithDeduplicator enables the dedup window when cfg.DedupWindow > 0.
func WithDeduplicator(d Deduplicator) Option {
	return func(s *Scheduler) { s.dedup = d }
}

// WithObserver registers an observer for finished cycles.
func WithObserver(o CycleObserver) Option {
	return func(s *Scheduler) { s.observers = append(s.observers, o) }
}

// Scheduler runs monitoring cycles on a fixed-delay cadence. Cycles never overlap.
type Scheduler struct {
	cfg       Config
	registry  WatchRegistry
	prices    PriceSource
	alerts    AlertRecorder
	limiter   ratelimiter.Limiter
	dedup     Deduplicator
	observers []CycleObserver

	state atomic.Int32
	now   func() time.Time
}

// NewScheduler creates a Scheduler. cfg.Workers below 1 is treated as 1.
func NewScheduler(cfg Config, registry WatchRegistry, prices PriceSource, alerts AlertRecorder, opts ...Option) *Scheduler {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	s := &Scheduler{
		cfg:      cfg,
		registry: registry,
		prices:   prices,
		alerts:   alerts,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Scheduler) State() CycleState {
	return CycleState(s.state.Load())
}

// Run executes a cycle immediately and then one cycle every cfg.Interval
// after the previous one finished, until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("monitoring scheduler started",
		"interval", s.cfg.Interval, "workers", s.cfg.Workers, "dedup_window", s.cfg.DedupWindow)

	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("monitoring scheduler stopped")
			return
		case <-t.C:
		}

		if _, err := s.RunCycle(ctx); err != nil && !errors.Is(err, ErrRegistryRead) {
			slog.Warn("monitoring cycle not run", "error", err)
		}
		// 次のサイクルは今のサイクルが終わってから interval 後
		t.Reset(s.cfg.Interval)
	}
}

// RunCycle runs one full sweep over the active watch entries.
//
// The returned error is non-nil only when the cycle could not run at all:
// ErrCycleInProgress or ErrRegistryRead. Entry-level failures are reported in
// the CycleReport and never abort the sweep.
func (s *Scheduler) RunCycle(ctx context.Context) (CycleReport, error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return CycleReport{}, ErrCycleInProgress
	}
	defer s.state.Store(int32(StateIdle))

	report := CycleReport{ID: uuid.NewString(), StartedAt: s.now()}
	logger := slog.With("cycle_id", report.ID)

	entries, err := s.registry.ListActive(ctx)
	if err != nil {
		report.Err = fmt.Errorf("%w: %w", ErrRegistryRead, err)
		report.FinishedAt = s.now()
		logger.Error("monitoring cycle abandoned", "error", err)
		s.observe(report)
		return report, report.Err
	}

	results := make([]EntryResult, len(entries))
	// errgroup.WithContext は使わない: 1件の失敗で他のエントリを止めないため
	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i, e := range entries {
		g.Go(func() error {
			results[i] = s.processEntry(ctx, logger, e)
			return nil
		})
	}
	_ = g.Wait()

	report.Entries = results
	report.FinishedAt = s.now()
	logger.Info("monitoring cycle finished",
		"entries", len(results),
		"alerts", report.AlertCount(),
		"failed", report.FailedCount(),
		"suppressed", report.SuppressedCount(),
		"duration", report.Duration(),
	)
	s.observe(report)
	return report, nil
}

// processEntry runs fetch → evaluate → record for one entry.
// A panic is contained here and turned into a failed result.
func (s *Scheduler) processEntry(ctx context.Context, logger *slog.Logger, e watchentity.WatchEntry) (res EntryResult) {
	res = EntryResult{WatchEntryID: e.ID, Symbol: e.Symbol}
	logger = logger.With("watch_entry_id", e.ID, "symbol", e.Symbol)

	stage := StageFetch
	defer func() {
		if r := recover(); r != nil {
			logger.Error("watch entry processing panicked", "stage", stage, "panic", r)
			if stage == StageRecord {
				// 記録済みのアラートは残す
				res.WriteErrors = append(res.WriteErrors, fmt.Errorf("%w: panic: %v", ErrAlertWrite, r))
				return
			}
			res.Stage = stage
			res.Err = fmt.Errorf("panic during %s: %v", stage, r)
		}
	}()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			res.Stage = StageFetch
			res.Err = domain.NewPriceFetchError(domain.CauseTransport, e.Symbol, fmt.Errorf("rate limiter: %w", err))
			logger.Warn("price fetch skipped", "error", err)
			return res
		}
	}

	quote, err := s.prices.FetchPrice(ctx, e.Symbol)
	if err != nil {
		res.Stage = StageFetch
		res.Err = err
		logger.Warn("price fetch failed", "cause", domain.FetchCauseOf(err), "error", err)
		return res
	}
	res.Quote = quote

	stage = StageEvaluate
	res.Crossings = Evaluate(e, quote)
	if len(res.Crossings) == 0 {
		return res
	}

	stage = StageRecord
	for _, c := range res.Crossings {
		key := dedupKey(e.ID, c.Kind)
		if !s.claim(ctx, logger, key) {
			res.Suppressed = append(res.Suppressed, c)
			continue
		}

		a, err := s.record(ctx, alertusecase.RecordInput{
			OwnerID:        e.OwnerID,
			WatchEntryID:   e.ID,
			Symbol:         e.Symbol,
			CurrentPrice:   quote.Price,
			ThresholdPrice: c.ThresholdPrice,
			Kind:           c.Kind,
		})
		if err != nil {
			res.WriteErrors = append(res.WriteErrors, fmt.Errorf("%w: %s: %w", ErrAlertWrite, c.Kind, err))
			logger.Error("failed to record alert", "kind", c.Kind, "error", err)
			s.release(ctx, logger, key)
			continue
		}
		res.Alerts = append(res.Alerts, *a)
		logger.Info("alert recorded",
			"alert_id", a.ID, "kind", a.Kind, "price", quote.Price, "threshold", c.ThresholdPrice)
	}
	return res
}

// record calls the recorder and turns a panic into an error.
func (s *Scheduler) record(ctx context.Context, in alertusecase.RecordInput) (a *alertentity.Alert, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return s.alerts.Record(ctx, in)
}

func dedupKey(entryID uint, kind alertentity.Kind) string {
	return fmt.Sprintf("%d:%s", entryID, kind)
}

// claim reports whether the crossing may be recorded. Store errors fail open.
func (s *Scheduler) claim(ctx context.Context, logger *slog.Logger, key string) bool {
	if s.dedup == nil || s.cfg.DedupWindow <= 0 {
		return true
	}
	ok, err := s.dedup.Claim(ctx, key, s.cfg.DedupWindow)
	if err != nil {
		logger.Warn("dedup store unavailable, recording anyway", "key", key, "error", err)
		return true
	}
	return ok
}

func (s *Scheduler) release(ctx context.Context, logger *slog.Logger, key string) {
	if s.dedup == nil || s.cfg.DedupWindow <= 0 {
		return
	}
	if err := s.dedup.Release(ctx, key); err != nil {
		logger.Warn("failed to release dedup claim", "key", key, "error", err)
	}
}

func (s *Scheduler) observe(r CycleReport) {
	for _, o := range s.observers {
		o.ObserveCycle(r)
	}
}
