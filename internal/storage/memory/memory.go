package memory

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"sync"

	"bplog/internal/core"
)

// Store keeps measurements in process memory. Used by the memory backend and tests.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Measurement
}

func New() *Store {
	return &Store{}
}

// Insert assigns the next ID and appends the measurement.
func (s *Store) Insert(_ context.Context, m core.Measurement) (core.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m.ID = s.nextID
	s.items = append(s.items, m)
	return m, nil
}

// Measurements yields a snapshot of the window taken when iteration starts.
func (s *Store) Measurements(_ context.Context, w core.Window) iter.Seq2[core.Measurement, error] {
	return func(yield func(core.Measurement, error) bool) {
		for _, m := range s.snapshot(w) {
			if !yield(m, nil) {
				return
			}
		}
	}
}

// Len returns the number of stored measurements.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) snapshot(w core.Window) []core.Measurement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Measurement, 0, len(s.items))
	for _, m := range s.items {
		if w.Contains(m.Timestamp) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b core.Measurement) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
