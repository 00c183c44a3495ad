package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinYear = 1
	MaxYear = 9999
)

// Window is the half-open range [Start, End) covering one calendar month.
type Window struct {
	Year  int
	Month int // 1-12
	Start time.Time
	End   time.Time
}

// MonthWindow returns the window of (year, month) in loc. A nil loc means time.Local.
func MonthWindow(year, month int, loc *time.Location) (Window, error) {
	if month < 1 || month > 12 {
		return Window{}, &InvalidInputError{Field: "month", Value: strconv.Itoa(month), Reason: "must be between 1 and 12"}
	}
	if year < MinYear || year > MaxYear {
		return Window{}, &InvalidInputError{Field: "year", Value: strconv.Itoa(year), Reason: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear)}
	}
	if loc == nil {
		loc = time.Local
	}

	endYear, endMonth := year, month+1
	if month == 12 {
		endYear, endMonth = year+1, 1
	}

	return Window{
		Year:  year,
		Month: month,
		Start: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc),
		End:   time.Date(endYear, time.Month(endMonth), 1, 0, 0, 0, 0, loc),
	}, nil
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Label renders the window as YYYY-MM.
func (w Window) Label() string {
	return fmt.Sprintf("%04d-%02d", w.Year, w.Month)
}

// ParseYearMonth parses a YYYYMM argument.
func ParseYearMonth(s string) (year, month int, err error) {
	s = strings.TrimSpace(s)
	invalid := &InvalidInputError{Field: "yyyymm", Value: s, Reason: "must be in 'yyyymm' format"}
	if len(s) != 6 {
		return 0, 0, invalid
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, 0, invalid
		}
	}
	year, _ = strconv.Atoi(s[:4])
	month, _ = strconv.Atoi(s[4:])
	if month < 1 || month > 12 || year < MinYear {
		return 0, 0, invalid
	}
	return year, month, nil
}
