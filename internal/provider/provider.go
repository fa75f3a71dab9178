// Package provider defines the contract with the external account-data
// service: session establishment, point-in-time account snapshots, and the
// optional daily-gain history used by the compounding ROI strategy.
package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Session identifies an authenticated connection to the account-data
// service for a single tracked account.
type Session struct {
	AccountID string
	Login     string
	Server    string
}

// AccountSnapshot is a single point-in-time reading of the account.
// Immutable once captured.
type AccountSnapshot struct {
	Equity     decimal.Decimal
	Balance    decimal.Decimal
	ObservedAt time.Time
	Login      string
	Server     string
}

// GainSample is one day's percentage return. Sequences are ordered by
// date with at most one sample per calendar day.
type GainSample struct {
	Date    time.Time // calendar date, midnight UTC
	Percent decimal.Decimal
}

// AccountDataProvider supplies account snapshots. Every implementation
// must bound its calls with the passed context.
type AccountDataProvider interface {
	// Authenticate establishes a session. Failures are *AuthError.
	Authenticate(ctx context.Context) (Session, error)

	// FetchSnapshot reads the current equity/balance for the session's
	// account. Failures are *NetworkError or *AuthError.
	FetchSnapshot(ctx context.Context, sess Session) (AccountSnapshot, error)
}

// GainHistoryProvider is implemented by providers that can additionally
// serve historical daily returns. Required for the gains ROI strategy.
type GainHistoryProvider interface {
	AccountDataProvider

	// FetchDailyGains returns the ordered daily returns in [from, to].
	FetchDailyGains(ctx context.Context, sess Session, from, to time.Time) ([]GainSample, error)

	// FetchCumulativeGain returns the provider's own all-time gain figure.
	// Pass-through: it is reported as-is, never recomputed from samples.
	FetchCumulativeGain(ctx context.Context, sess Session) (decimal.Decimal, error)
}
