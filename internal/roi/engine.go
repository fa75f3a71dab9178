// Package roi computes per-period return-on-investment figures against
// the stored baselines, and composes the human-readable report.
package roi

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tranvu/roitrack/internal/baseline"
	"github.com/tranvu/roitrack/internal/period"
	"github.com/tranvu/roitrack/internal/provider"
	"github.com/tranvu/roitrack/pkg/logger"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Result is one period's computed ROI. Percent is invalid when the
// baseline was unusable or the underlying fetch failed.
type Result struct {
	Key     period.Key
	Percent decimal.NullDecimal
	// Simple is the arithmetic sum of daily gains, an auxiliary figure
	// populated only by the gains strategy.
	Simple decimal.NullDecimal
	Since  time.Time
}

// SnapshotPercent computes (current - base) / base * 100. A base of
// zero or less yields an invalid result: never a division by zero, and
// never a misleading 0%.
func SnapshotPercent(current, base decimal.Decimal) decimal.NullDecimal {
	if base.Sign() <= 0 {
		return decimal.NullDecimal{}
	}
	pct := current.Sub(base).Div(base).Mul(hundred)
	return decimal.NullDecimal{Decimal: pct, Valid: true}
}

// SimpleSum is the arithmetic sum of daily percentage returns. It
// ignores compounding and is only reported as a secondary figure.
func SimpleSum(samples []provider.GainSample) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range samples {
		sum = sum.Add(s.Percent)
	}
	return sum
}

// CompoundSum aggregates daily percentage returns by multiplying growth
// factors: (Π(1 + pᵢ/100) − 1) × 100. An empty sequence yields 0.
func CompoundSum(samples []provider.GainSample) decimal.Decimal {
	factor := one
	for _, s := range samples {
		factor = factor.Mul(one.Add(s.Percent.Div(hundred)))
	}
	return factor.Sub(one).Mul(hundred)
}

// Engine computes the per-period results for one run.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates an ROI engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// ComputeSnapshot applies the snapshot-delta strategy: the current
// equity against each stored baseline's equity, uniformly for every
// period. Results come back in report order.
func (e *Engine) ComputeSnapshot(state baseline.State, snap provider.AccountSnapshot) []Result {
	results := make([]Result, 0, len(period.Keys))
	for _, k := range period.Keys {
		rec, ok := state[k]
		if !ok {
			// No baseline at all; nothing to measure against.
			results = append(results, Result{Key: k})
			continue
		}
		results = append(results, Result{
			Key:     k,
			Percent: SnapshotPercent(snap.Equity, rec.Equity),
			Since:   rec.AnchoredAt,
		})
	}
	return results
}

// ComputeGains applies the compounded daily-gain strategy. Day, week and
// month compound the provider's daily samples over each period's range;
// the all-time figure is the provider's own cumulative gain, passed
// through untouched. A failed fetch leaves only that period's result
// invalid; the others are still computed, and the output order is
// always day, week, month, all.
func (e *Engine) ComputeGains(ctx context.Context, p provider.GainHistoryProvider, sess provider.Session,
	state baseline.State, windows period.Windows, now time.Time) []Result {

	results := make([]Result, 0, len(period.Keys))

	for _, k := range period.Keys {
		res := Result{Key: k}
		if rec, ok := state[k]; ok {
			res.Since = rec.AnchoredAt
		}

		if k == period.All {
			gain, err := p.FetchCumulativeGain(ctx, sess)
			if err != nil {
				e.logger.WithError(err).WithField("period", k).Warn("Cumulative gain fetch failed")
			} else {
				res.Percent = decimal.NullDecimal{Decimal: gain, Valid: true}
			}
			results = append(results, res)
			continue
		}

		samples, err := p.FetchDailyGains(ctx, sess, windows[k], now)
		if err != nil {
			e.logger.WithError(err).WithField("period", k).Warn("Daily gain fetch failed")
			results = append(results, res)
			continue
		}

		res.Percent = decimal.NullDecimal{Decimal: CompoundSum(samples), Valid: true}
		res.Simple = decimal.NullDecimal{Decimal: SimpleSum(samples), Valid: true}
		results = append(results, res)
	}

	return results
}
