// Package testutil generates dummy measurements for tests.
package testutil

import (
	"math/rand/v2"
	"time"

	"bplog/internal/core"
)

// RandomMeasurements returns n measurements spread over days starting at start.
// Times fall between 05:00 and 23:59 and periods are inferred from the hour.
// The same seed always yields the same measurements.
func RandomMeasurements(seed uint64, n int, start time.Time, days int) []core.Measurement {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	base := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	out := make([]core.Measurement, 0, n)
	for range n {
		ts := base.AddDate(0, 0, rng.IntN(days)).
			Add(time.Duration(5+rng.IntN(19)) * time.Hour).
			Add(time.Duration(rng.IntN(60)) * time.Minute)
		out = append(out, core.Measurement{
			Timestamp: ts,
			Systolic:  100 + rng.IntN(51),
			Diastolic: 60 + rng.IntN(36),
			Pulse:     55 + rng.IntN(36),
			Period:    core.InferTimePeriod(ts),
		})
	}
	return out
}
