// Package tracker orchestrates one full reporting run: snapshot fetch,
// baseline rollover, ROI computation, report composition and delivery.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tranvu/roitrack/internal/baseline"
	"github.com/tranvu/roitrack/internal/notify"
	"github.com/tranvu/roitrack/internal/period"
	"github.com/tranvu/roitrack/internal/provider"
	"github.com/tranvu/roitrack/internal/roi"
	"github.com/tranvu/roitrack/pkg/config"
	"github.com/tranvu/roitrack/pkg/logger"
)

// Runner executes the reporting pipeline once per invocation. Strictly
// sequential, no shared mutable state across runs beyond the baseline
// store.
type Runner struct {
	cfg      *config.Config
	provider provider.AccountDataProvider
	store    *baseline.Store
	engine   *roi.Engine
	notifier notify.Notifier
	logger   *logger.Logger
	now      func() time.Time
}

// New creates a runner.
func New(cfg *config.Config, p provider.AccountDataProvider, store *baseline.Store,
	notifier notify.Notifier, log *logger.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		provider: p,
		store:    store,
		engine:   roi.NewEngine(log),
		notifier: notifier,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used in tests.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run executes one reporting cycle. Only a failure to authenticate or to
// obtain the account snapshot is returned as an error; every other
// condition recovers locally. Fatal paths attempt a failure notification
// before returning.
func (r *Runner) Run(ctx context.Context) error {
	loc := r.cfg.Report.Location()
	now := r.now().In(loc)

	sess, err := r.provider.Authenticate(ctx)
	if err != nil {
		r.notifyFailure(ctx, err)
		return fmt.Errorf("authenticate: %w", err)
	}

	snap, err := r.provider.FetchSnapshot(ctx, sess)
	if err != nil {
		// The snapshot is required by every strategy; without it nothing
		// downstream is meaningful.
		r.notifyFailure(ctx, err)
		return fmt.Errorf("fetch snapshot: %w", err)
	}

	state, err := r.store.Load(ctx)
	if err != nil {
		r.notifyFailure(ctx, err)
		return err
	}

	windows := period.WindowsAt(now, loc)
	for _, k := range period.Keys {
		r.store.Ensure(state, k, windows[k], snap)
	}

	if err := r.store.Save(ctx, state); err != nil {
		// The report is still worth delivering; baselines re-anchor on
		// the next successful save.
		r.logger.WithError(err).Error("Persisting baselines failed")
	}

	results := r.compute(ctx, sess, snap, state, windows, now)

	text := roi.Compose(roi.Report{Snapshot: snap, Results: results})
	r.logger.Info(strings.ReplaceAll(text, "\n", " | "))

	if err := r.notifier.Send(ctx, text); err != nil {
		r.logger.WithError(err).Warn("Report delivery failed")
	}

	return nil
}

// compute selects the configured aggregation strategy.
func (r *Runner) compute(ctx context.Context, sess provider.Session, snap provider.AccountSnapshot,
	state baseline.State, windows period.Windows, now time.Time) []roi.Result {

	if r.cfg.Report.Strategy == config.StrategyGains {
		if gp, ok := r.provider.(provider.GainHistoryProvider); ok {
			return r.engine.ComputeGains(ctx, gp, sess, state, windows, now)
		}
		r.logger.Warn("Provider has no gain history, falling back to snapshot strategy")
	}

	return r.engine.ComputeSnapshot(state, snap)
}

// notifyFailure sends a best-effort error message before a fatal return.
func (r *Runner) notifyFailure(ctx context.Context, cause error) {
	msg := fmt.Sprintf("❌ ROI: run failed: %v", cause)
	if err := r.notifier.Send(ctx, msg); err != nil {
		r.logger.WithError(err).Warn("Failure notification not delivered")
	}
}
