package memory

import (
	"context"
	"testing"
	"time"

	"bplog/internal/core"
)

func TestMemoryStoreInsertAndWindow(t *testing.T) {
	s := New()
	ctx := context.Background()

	late := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	early := time.Date(2025, 12, 2, 6, 0, 0, 0, time.UTC)
	next := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{late, next, early} {
		if _, err := s.Insert(ctx, core.Measurement{Timestamp: ts}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d", s.Len())
	}

	w, _ := core.MonthWindow(2025, 12, time.UTC)
	var got []core.Measurement
	for m, err := range s.Measurements(ctx, w) {
		if err != nil {
			t.Fatalf("iterate: %v", err)
		}
		got = append(got, m)
	}
	if len(got) != 2 || !got[0].Timestamp.Equal(early) || !got[1].Timestamp.Equal(late) {
		t.Fatalf("unexpected window contents: %+v", got)
	}
	if got[0].ID != 3 || got[1].ID != 1 {
		t.Fatalf("unexpected ids: %d %d", got[0].ID, got[1].ID)
	}
}
