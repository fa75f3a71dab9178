package baseline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tranvu/roitrack/internal/period"
	"github.com/tranvu/roitrack/internal/provider"
	"github.com/tranvu/roitrack/pkg/logger"
)

// ErrNotExist is returned by a ByteStore when no state has been
// persisted yet.
var ErrNotExist = errors.New("baseline: state does not exist")

// ByteStore is the persistence boundary for the serialized state
// document. Implementations: file (default) and redis.
type ByteStore interface {
	// Read returns the persisted document, or ErrNotExist.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the persisted document. A partial write must never
	// leave a syntactically invalid document behind.
	Write(ctx context.Context, data []byte) error
}

// Store owns the baseline records. It is the only writer of State.
type Store struct {
	bytes  ByteStore
	logger *logger.Logger
}

// NewStore creates a baseline store over the given backend.
func NewStore(bytes ByteStore, log *logger.Logger) *Store {
	return &Store{bytes: bytes, logger: log}
}

// Load reads the persisted state. A missing or empty backend yields an
// empty mapping. A corrupt document is logged and also yields an empty
// mapping: no history is rebuilt from the current run. Only a backend
// read failure (e.g. redis unreachable) is an error, so that a transient
// outage cannot silently wipe established baselines.
func (s *Store) Load(ctx context.Context) (State, error) {
	data, err := s.bytes.Read(ctx)
	if errors.Is(err, ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	if len(data) == 0 {
		return State{}, nil
	}

	state, err := UnmarshalState(data)
	if err != nil {
		s.logger.WithError(err).Warn("State corrupted, resetting")
		return State{}, nil
	}

	return state, nil
}

// Save performs a full overwrite of the durable mapping.
func (s *Store) Save(ctx context.Context, state State) error {
	data, err := MarshalState(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err := s.bytes.Write(ctx, data); err != nil {
		return fmt.Errorf("write state: %w", err)
	}

	return nil
}

// Ensure guarantees state holds a baseline for key anchored no earlier
// than periodStart, rolling it forward from the current snapshot when a
// period boundary has been crossed.
//
//   - no record: create one anchored at periodStart (first run)
//   - record anchored before periodStart: replace it (rollover)
//   - record anchored at or after periodStart: keep it unchanged
//
// The anchor therefore never decreases for a key. The all-time baseline
// is pinned: it is anchored once on the first run and never rolled, no
// matter what periodStart later runs pass for it.
func (s *Store) Ensure(state State, key period.Key, periodStart time.Time, snap provider.AccountSnapshot) Record {
	rec, ok := state[key]
	if !ok {
		rec = Record{
			Key:        key,
			AnchoredAt: periodStart,
			Equity:     snap.Equity,
			Balance:    snap.Balance,
		}
		state[key] = rec
		s.logger.WithFields(map[string]interface{}{
			"period": key,
			"anchor": periodStart.Format(time.RFC3339),
		}).Info("Init baseline")
		return rec
	}

	if rec.AnchoredAt.Before(periodStart) && key != period.All {
		rec = Record{
			Key:        key,
			AnchoredAt: periodStart,
			Equity:     snap.Equity,
			Balance:    snap.Balance,
		}
		state[key] = rec
		s.logger.WithFields(map[string]interface{}{
			"period": key,
			"anchor": periodStart.Format(time.RFC3339),
		}).Info("Rolling baseline")
		return rec
	}

	return rec
}
