package core

import (
	"strconv"
	"strings"
	"time"
)

const (
	PeriodUnset   TimePeriod = ""
	PeriodMorning TimePeriod = "M"
	PeriodNight   TimePeriod = "N"
)

// Hour boundaries used when a period is inferred from the clock.
const (
	MorningBeforeHour = 10
	NightFromHour     = 18
)

// TimestampLayout is the storage representation of a measurement timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

type (
	// TimePeriod is the coarse time-of-day classification of a measurement.
	// Its values double as the storage codes.
	TimePeriod string

	// Reading is the user supplied part of a measurement.
	Reading struct {
		Systolic  int
		Diastolic int
		Pulse     int
	}

	Measurement struct {
		ID        int64
		Timestamp time.Time
		Systolic  int
		Diastolic int
		Pulse     int
		Period    TimePeriod
	}
)

// IsValid reports whether p is one of the known periods, Unset included.
func (p TimePeriod) IsValid() bool {
	switch p {
	case PeriodUnset, PeriodMorning, PeriodNight:
		return true
	default:
		return false
	}
}

// String returns the English name of the period.
func (p TimePeriod) String() string {
	switch p {
	case PeriodMorning:
		return "Morning"
	case PeriodNight:
		return "Night"
	default:
		return "Unspecified"
	}
}

// PeriodFromCode maps a stored code to a period. Unknown codes are Unset.
func PeriodFromCode(code string) TimePeriod {
	p := TimePeriod(code)
	if p.IsValid() {
		return p
	}
	return PeriodUnset
}

// InferTimePeriod classifies a moment by its hour of day.
func InferTimePeriod(t time.Time) TimePeriod {
	switch h := t.Hour(); {
	case h < MorningBeforeHour:
		return PeriodMorning
	case h >= NightFromHour:
		return PeriodNight
	default:
		return PeriodUnset
	}
}

// ParseTimePeriod parses an override code. The empty string means no override.
func ParseTimePeriod(s string) (TimePeriod, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	switch TimePeriod(code) {
	case PeriodUnset:
		return PeriodUnset, nil
	case PeriodMorning, PeriodNight:
		return TimePeriod(code), nil
	}
	return PeriodUnset, &InvalidInputError{
		Field:  "time_period",
		Value:  s,
		Reason: "must be 'M' for Morning or 'N' for Night",
	}
}

// ParseReading coerces the three numeric arguments of a measurement.
func ParseReading(systolic, diastolic, pulse string) (Reading, error) {
	var r Reading
	fields := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"systolic", systolic, &r.Systolic},
		{"diastolic", diastolic, &r.Diastolic},
		{"pulse", pulse, &r.Pulse},
	}
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f.raw))
		if err != nil {
			return Reading{}, &InvalidInputError{Field: f.name, Value: f.raw, Reason: "must be an integer"}
		}
		*f.dst = v
	}
	return r, nil
}

// NewMeasurement stamps a reading. A zero override means the period is inferred from ts.
func NewMeasurement(r Reading, ts time.Time, override TimePeriod) (Measurement, error) {
	if !override.IsValid() {
		return Measurement{}, &InvalidInputError{
			Field:  "time_period",
			Value:  string(override),
			Reason: "must be 'M' for Morning or 'N' for Night",
		}
	}
	ts = ts.Truncate(time.Second)
	period := override
	if period == PeriodUnset {
		period = InferTimePeriod(ts)
	}
	return Measurement{
		Timestamp: ts,
		Systolic:  r.Systolic,
		Diastolic: r.Diastolic,
		Pulse:     r.Pulse,
		Period:    period,
	}, nil
}
