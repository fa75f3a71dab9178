package roi

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvu/roitrack/internal/baseline"
	"github.com/tranvu/roitrack/internal/period"
	"github.com/tranvu/roitrack/internal/provider"
	"github.com/tranvu/roitrack/pkg/logger"
)

var hcm = time.FixedZone("ICT", 7*60*60)

func samples(percents ...float64) []provider.GainSample {
	out := make([]provider.GainSample, 0, len(percents))
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range percents {
		out = append(out, provider.GainSample{
			Date:    day.AddDate(0, 0, i),
			Percent: decimal.NewFromFloat(p),
		})
	}
	return out
}

func TestSnapshotPercent(t *testing.T) {
	base := decimal.NewFromInt(1000)

	// roi(base, base) == 0
	same := SnapshotPercent(base, base)
	require.True(t, same.Valid)
	assert.True(t, same.Decimal.IsZero())

	// 1050 against 1000 is +5.00%
	up := SnapshotPercent(decimal.NewFromInt(1050), base)
	require.True(t, up.Valid)
	assert.True(t, up.Decimal.Equal(decimal.NewFromInt(5)))

	// 950 against 1000 is -5.00%
	down := SnapshotPercent(decimal.NewFromInt(950), base)
	require.True(t, down.Valid)
	assert.True(t, down.Decimal.Equal(decimal.NewFromInt(-5)))
}

func TestSnapshotPercentInvalidBaseline(t *testing.T) {
	current := decimal.NewFromInt(1000)

	for _, base := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-1),
		decimal.RequireFromString("-0.01"),
	} {
		got := SnapshotPercent(current, base)
		assert.False(t, got.Valid, "base %s must yield an absent result", base)
	}
}

func TestSimpleSum(t *testing.T) {
	got := SimpleSum(samples(1, -2, 0.5))
	assert.True(t, got.Equal(decimal.RequireFromString("-0.5")), "got %s", got)

	assert.True(t, SimpleSum(nil).IsZero())
}

func TestCompoundSum(t *testing.T) {
	// 1.01 * 1.01 = 1.0201 -> 2.01%
	got := CompoundSum(samples(1, 1))
	assert.True(t, got.Equal(decimal.RequireFromString("2.01")), "got %s", got)

	assert.True(t, CompoundSum(nil).IsZero())

	// Compounding a loss: 1.10 * 0.90 = 0.99 -> -1%
	mixed := CompoundSum(samples(10, -10))
	assert.True(t, mixed.Equal(decimal.NewFromInt(-1)), "got %s", mixed)
}

func TestComputeSnapshot(t *testing.T) {
	anchor := time.Date(2026, 8, 30, 0, 0, 0, 0, hcm)
	state := baseline.State{}
	for _, k := range period.Keys {
		state[k] = baseline.Record{
			Key:        k,
			AnchoredAt: anchor,
			Equity:     decimal.NewFromInt(1000),
			Balance:    decimal.NewFromInt(1000),
		}
	}
	// Week has an invalid baseline
	state[period.Week] = baseline.Record{Key: period.Week, AnchoredAt: anchor, Equity: decimal.Zero}

	snap := provider.AccountSnapshot{Equity: decimal.NewFromInt(1050)}

	results := NewEngine(logger.NewNop()).ComputeSnapshot(state, snap)
	require.Len(t, results, 4)

	// Canonical order
	for i, k := range period.Keys {
		assert.Equal(t, k, results[i].Key)
	}

	require.True(t, results[0].Percent.Valid)
	assert.True(t, results[0].Percent.Decimal.Equal(decimal.NewFromInt(5)))
	assert.False(t, results[1].Percent.Valid, "invalid baseline must not report a figure")
	assert.True(t, results[2].Percent.Valid)
	assert.True(t, results[3].Percent.Valid)
}

// fakeGains serves canned daily gains per period range, with optional
// per-range failures.
type fakeGains struct {
	provider.AccountDataProvider
	daily      map[time.Time][]provider.GainSample // keyed by range start
	failFrom   map[time.Time]bool
	cumulative decimal.Decimal
	failAll    bool
}

func (f *fakeGains) FetchDailyGains(_ context.Context, _ provider.Session, from, _ time.Time) ([]provider.GainSample, error) {
	if f.failFrom[from] {
		return nil, &provider.NetworkError{Op: "daily-gain", Err: fmt.Errorf("boom")}
	}
	return f.daily[from], nil
}

func (f *fakeGains) FetchCumulativeGain(_ context.Context, _ provider.Session) (decimal.Decimal, error) {
	if f.failAll {
		return decimal.Zero, &provider.NetworkError{Op: "metrics", Err: fmt.Errorf("boom")}
	}
	return f.cumulative, nil
}

func TestComputeGainsIsolatesPeriodFailures(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, hcm)
	windows := period.WindowsAt(now, hcm)

	fake := &fakeGains{
		daily: map[time.Time][]provider.GainSample{
			windows[period.Day]:   samples(1),
			windows[period.Month]: samples(1, 1),
		},
		failFrom:   map[time.Time]bool{windows[period.Week]: true},
		cumulative: decimal.RequireFromString("42.5"),
	}

	state := baseline.State{
		period.All: {Key: period.All, AnchoredAt: windows[period.Day].AddDate(0, -2, 0)},
	}

	results := NewEngine(logger.NewNop()).ComputeGains(
		context.Background(), fake, provider.Session{}, state, windows, now)
	require.Len(t, results, 4)

	byKey := map[period.Key]Result{}
	for i, k := range period.Keys {
		assert.Equal(t, k, results[i].Key, "results must stay in report order")
		byKey[k] = results[i]
	}

	require.True(t, byKey[period.Day].Percent.Valid)
	assert.True(t, byKey[period.Day].Percent.Decimal.Equal(decimal.NewFromInt(1)))

	// Only the failed range is absent
	assert.False(t, byKey[period.Week].Percent.Valid)

	require.True(t, byKey[period.Month].Percent.Valid)
	assert.True(t, byKey[period.Month].Percent.Decimal.Equal(decimal.RequireFromString("2.01")))
	require.True(t, byKey[period.Month].Simple.Valid)
	assert.True(t, byKey[period.Month].Simple.Decimal.Equal(decimal.NewFromInt(2)))

	// All-time is the provider figure, untouched
	require.True(t, byKey[period.All].Percent.Valid)
	assert.True(t, byKey[period.All].Percent.Decimal.Equal(decimal.RequireFromString("42.5")))
}

func TestComputeGainsCumulativeFailure(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, hcm)
	windows := period.WindowsAt(now, hcm)

	fake := &fakeGains{failAll: true}

	results := NewEngine(logger.NewNop()).ComputeGains(
		context.Background(), fake, provider.Session{}, baseline.State{}, windows, now)

	assert.False(t, results[3].Percent.Valid)
	// The daily periods still computed (empty ranges compound to 0)
	assert.True(t, results[0].Percent.Valid)
}
