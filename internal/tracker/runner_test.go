package tracker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvu/roitrack/internal/baseline"
	"github.com/tranvu/roitrack/internal/period"
	"github.com/tranvu/roitrack/internal/provider"
	"github.com/tranvu/roitrack/pkg/config"
	"github.com/tranvu/roitrack/pkg/logger"
)

var hcm = time.FixedZone("ICT", 7*60*60)

// fakeProvider serves a fixed snapshot, or fails authentication.
type fakeProvider struct {
	equity   decimal.Decimal
	balance  decimal.Decimal
	authErr  error
	fetchErr error
}

func (f *fakeProvider) Authenticate(context.Context) (provider.Session, error) {
	if f.authErr != nil {
		return provider.Session{}, f.authErr
	}
	return provider.Session{AccountID: "acc-1", Login: "1205678", Server: "Exness-MT5Real8"}, nil
}

func (f *fakeProvider) FetchSnapshot(_ context.Context, sess provider.Session) (provider.AccountSnapshot, error) {
	if f.fetchErr != nil {
		return provider.AccountSnapshot{}, f.fetchErr
	}
	return provider.AccountSnapshot{
		Equity:     f.equity,
		Balance:    f.balance,
		ObservedAt: time.Now(),
		Login:      sess.Login,
		Server:     sess.Server,
	}, nil
}

// captureNotifier records every message it is asked to send.
type captureNotifier struct {
	messages []string
}

func (c *captureNotifier) Send(_ context.Context, text string) error {
	c.messages = append(c.messages, text)
	return nil
}

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roi_state.json")
	cfg := &config.Config{
		State:  config.StateConfig{Backend: config.BackendFile, FilePath: path},
		Report: config.ReportConfig{Timezone: "Bad/Zone", Strategy: config.StrategySnapshot},
	}
	return cfg, path
}

func newRunner(cfg *config.Config, path string, p provider.AccountDataProvider, n *captureNotifier) (*Runner, *baseline.Store) {
	store := baseline.NewStore(baseline.NewFileStore(path), logger.NewNop())
	return New(cfg, p, store, n, logger.NewNop()), store
}

func at(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRunFirstInvocationAnchorsAllPeriods(t *testing.T) {
	cfg, path := testConfig(t)
	notifier := &captureNotifier{}
	p := &fakeProvider{equity: decimal.NewFromInt(1000), balance: decimal.NewFromInt(995)}

	runner, store := newRunner(cfg, path, p, notifier)
	runner.WithClock(at(time.Date(2026, 8, 30, 10, 0, 0, 0, hcm)))

	require.NoError(t, runner.Run(context.Background()))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state, 4)

	// Fresh baselines measure a flat 0% everywhere
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Day:   +0.00%")
	assert.Contains(t, notifier.messages[0], "Account: 1205678 @ Exness-MT5Real8")
}

func TestRunComputesDayROI(t *testing.T) {
	cfg, path := testConfig(t)
	notifier := &captureNotifier{}

	// Seed a stored day baseline of 1000 anchored at today's midnight
	midnight := time.Date(2026, 8, 30, 0, 0, 0, 0, hcm)
	store := baseline.NewStore(baseline.NewFileStore(path), logger.NewNop())
	seed := baseline.State{}
	for _, k := range period.Keys {
		seed[k] = baseline.Record{
			Key:        k,
			AnchoredAt: midnight,
			Equity:     decimal.NewFromInt(1000),
			Balance:    decimal.NewFromInt(1000),
		}
	}
	require.NoError(t, store.Save(context.Background(), seed))

	p := &fakeProvider{equity: decimal.NewFromInt(1050), balance: decimal.NewFromInt(1000)}
	runner := New(cfg, p, store, notifier, logger.NewNop()).
		WithClock(at(time.Date(2026, 8, 30, 15, 0, 0, 0, hcm)))

	require.NoError(t, runner.Run(context.Background()))

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Day:   +5.00%")
	assert.Contains(t, notifier.messages[0], "Equity: $1,050.00 | Balance: $1,000.00")
}

func TestRunIdempotentWithinSameDay(t *testing.T) {
	cfg, path := testConfig(t)
	notifier := &captureNotifier{}
	p := &fakeProvider{equity: decimal.NewFromInt(1000), balance: decimal.NewFromInt(1000)}

	runner, store := newRunner(cfg, path, p, notifier)

	runner.WithClock(at(time.Date(2026, 8, 30, 9, 0, 0, 0, hcm)))
	require.NoError(t, runner.Run(context.Background()))

	first, err := store.Load(context.Background())
	require.NoError(t, err)

	// Later the same day, unchanged snapshot
	runner.WithClock(at(time.Date(2026, 8, 30, 18, 0, 0, 0, hcm)))
	require.NoError(t, runner.Run(context.Background()))

	second, err := store.Load(context.Background())
	require.NoError(t, err)

	for _, k := range period.Keys {
		assert.True(t, first[k].AnchoredAt.Equal(second[k].AnchoredAt), "baseline %s moved within the same day", k)
		assert.True(t, first[k].Equity.Equal(second[k].Equity))
	}

	require.Len(t, notifier.messages, 2)
	assert.Equal(t, notifier.messages[0], notifier.messages[1])
}

func TestRunRollsDayBaselineAcrossMidnight(t *testing.T) {
	cfg, path := testConfig(t)
	notifier := &captureNotifier{}
	p := &fakeProvider{equity: decimal.NewFromInt(1000), balance: decimal.NewFromInt(1000)}

	runner, store := newRunner(cfg, path, p, notifier)

	runner.WithClock(at(time.Date(2026, 8, 29, 23, 0, 0, 0, hcm)))
	require.NoError(t, runner.Run(context.Background()))

	p.equity = decimal.NewFromInt(1100)
	runner.WithClock(at(time.Date(2026, 8, 30, 1, 0, 0, 0, hcm)))
	require.NoError(t, runner.Run(context.Background()))

	state, err := store.Load(context.Background())
	require.NoError(t, err)

	// Day rolled to the new midnight with the fresh equity
	day := state[period.Day]
	assert.True(t, day.AnchoredAt.Equal(time.Date(2026, 8, 30, 0, 0, 0, 0, hcm)))
	assert.True(t, day.Equity.Equal(decimal.NewFromInt(1100)))

	// Week (Mon 2026-08-24) and all-time kept their original anchors
	week := state[period.Week]
	assert.True(t, week.AnchoredAt.Equal(time.Date(2026, 8, 24, 0, 0, 0, 0, hcm)))
	assert.True(t, week.Equity.Equal(decimal.NewFromInt(1000)))

	all := state[period.All]
	assert.True(t, all.AnchoredAt.Equal(time.Date(2026, 8, 29, 0, 0, 0, 0, hcm)))
	assert.True(t, all.Equity.Equal(decimal.NewFromInt(1000)))
}

func TestRunRecoversFromCorruptedState(t *testing.T) {
	cfg, path := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o644))

	notifier := &captureNotifier{}
	p := &fakeProvider{equity: decimal.NewFromInt(1000), balance: decimal.NewFromInt(1000)}

	runner, store := newRunner(cfg, path, p, notifier)
	runner.WithClock(at(time.Date(2026, 8, 30, 10, 0, 0, 0, hcm)))

	require.NoError(t, runner.Run(context.Background()))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, state, 4, "fresh baselines for all periods after corruption")
}

func TestRunAuthFailureIsFatalAndNotified(t *testing.T) {
	cfg, path := testConfig(t)
	notifier := &captureNotifier{}
	p := &fakeProvider{authErr: &provider.AuthError{Reason: "token rejected"}}

	runner, store := newRunner(cfg, path, p, notifier)

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.True(t, provider.IsAuth(err))

	// Best-effort failure message went out
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "❌ ROI")

	// No baseline mutation happened
	state, lerr := store.Load(context.Background())
	require.NoError(t, lerr)
	assert.Empty(t, state)
}

func TestRunSnapshotFailureIsFatal(t *testing.T) {
	cfg, path := testConfig(t)
	notifier := &captureNotifier{}
	p := &fakeProvider{
		equity:   decimal.NewFromInt(1000),
		fetchErr: &provider.NetworkError{Op: "account-information", Err: context.DeadlineExceeded},
	}

	runner, store := newRunner(cfg, path, p, notifier)

	err := runner.Run(context.Background())
	require.Error(t, err)

	state, lerr := store.Load(context.Background())
	require.NoError(t, lerr)
	assert.Empty(t, state, "failed snapshot must not anchor baselines")
}
