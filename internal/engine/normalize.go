package engine

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DayFormat is the calendar-day layout used across the system. It cannot be
// sorted lexicographically, so all ordering goes through parsed time values.
const DayFormat = "02/01/2006"

var (
	ErrNegativeAmount  = errors.New("engine: monetary field must not be negative")
	ErrInvalidAccounts = errors.New("engine: account count must be at least 1")
	ErrInvalidDate     = errors.New("engine: malformed date")
)

// CycleInput carries the raw fields of a cycle before normalisation.
type CycleInput struct {
	Date        string
	Deposit     float64
	Redeposit   float64
	Withdraw    float64
	Chest       float64
	Cooperation float64
	Accounts    int
}

// Normalize validates the raw inputs and produces a cycle whose derived
// values are available through Invested/Return/Profit. Negative money fields
// are rejected, never clamped, so a failed save leaves prior state untouched.
func Normalize(in CycleInput) (Cycle, error) {
	fields := map[string]float64{
		"deposit":     in.Deposit,
		"redeposit":   in.Redeposit,
		"withdraw":    in.Withdraw,
		"chest":       in.Chest,
		"cooperation": in.Cooperation,
	}
	for name, v := range fields {
		if v < 0 {
			return Cycle{}, fmt.Errorf("%w: %s", ErrNegativeAmount, name)
		}
	}
	if in.Accounts < 1 {
		return Cycle{}, ErrInvalidAccounts
	}
	day, err := ParseDay(in.Date)
	if err != nil {
		return Cycle{}, err
	}
	return Cycle{
		Date:        day,
		Deposit:     in.Deposit,
		Redeposit:   in.Redeposit,
		Withdraw:    in.Withdraw,
		Chest:       in.Chest,
		Cooperation: in.Cooperation,
		Accounts:    in.Accounts,
	}, nil
}

// ParseDay parses a dd/mm/yyyy day into UTC midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseDayISO parses a yyyy-mm-dd day into UTC midnight.
func ParseDayISO(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDay renders a day back into the dd/mm/yyyy display form.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// Round2 rounds half away from zero on the second decimal, matching the
// currency rounding used for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
