// Package baseline maintains the per-period reference points that ROI is
// measured against, and decides when a period boundary has been crossed.
package baseline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tranvu/roitrack/internal/period"
)

// Record is the reference point a period's ROI is measured against.
// Equity and balance are always values that were actually observed.
type Record struct {
	Key        period.Key
	AnchoredAt time.Time
	Equity     decimal.Decimal
	Balance    decimal.Decimal
}

// State is the full durable mapping of period baselines. Keys are a
// subset of the tracked periods, at most one record per key.
type State map[period.Key]Record

// recordJSON is the wire form of a single baseline:
// {"ts": "<RFC3339>", "equity": <number>, "balance": <number>}
type recordJSON struct {
	TS      string      `json:"ts"`
	Equity  json.Number `json:"equity"`
	Balance json.Number `json:"balance"`
}

// MarshalState encodes the state as the persisted JSON document.
func MarshalState(s State) ([]byte, error) {
	out := make(map[string]recordJSON, len(s))
	for k, r := range s {
		out[string(k)] = recordJSON{
			TS:      r.AnchoredAt.Format(time.RFC3339),
			Equity:  json.Number(r.Equity.String()),
			Balance: json.Number(r.Balance.String()),
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// UnmarshalState decodes and validates a persisted document. Any
// structural problem (unknown period key, unparsable timestamp or
// number) rejects the whole document; the caller treats that as an
// empty store rather than trusting it partially.
func UnmarshalState(data []byte) (State, error) {
	var raw map[string]recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	s := make(State, len(raw))
	for name, rec := range raw {
		key, err := period.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("parse state: %w", err)
		}

		ts, err := time.Parse(time.RFC3339, rec.TS)
		if err != nil {
			return nil, fmt.Errorf("parse state: bad timestamp for %s: %w", key, err)
		}

		equity, err := decimal.NewFromString(rec.Equity.String())
		if err != nil {
			return nil, fmt.Errorf("parse state: bad equity for %s: %w", key, err)
		}

		balance, err := decimal.NewFromString(rec.Balance.String())
		if err != nil {
			return nil, fmt.Errorf("parse state: bad balance for %s: %w", key, err)
		}

		s[key] = Record{
			Key:        key,
			AnchoredAt: ts,
			Equity:     equity,
			Balance:    balance,
		}
	}

	return s, nil
}
