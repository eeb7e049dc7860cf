package attendance

import (
	"fmt"
	"math"
	"time"
)

// Shift window and threshold constants. All downstream rules are expressed in
// terms of these so policy changes never touch algorithm logic.
const (
	WorkStart            = "08:30:00"
	WorkEnd              = "16:30:00"
	StandardHours        = 8
	LateThresholdMinutes = 15
)

// ParseClock parses a wall-clock value in "HH:MM:SS" or "HH:MM" form.
func ParseClock(clock string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", clock); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return t, nil
}

// MinutesBetween returns the signed whole minutes from t1 to t2, both
// wall-clock "HH:MM[:SS]" values on the same calendar day. A negative result
// means t2 is earlier than t1; pairs that cross midnight are indistinguishable
// from that and are not handled here.
func MinutesBetween(t1, t2 string) (int, error) {
	a, err := ParseClock(t1)
	if err != nil {
		return 0, err
	}
	b, err := ParseClock(t2)
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a).Minutes()), nil
}

// Round2 rounds to 2 decimal places for stable comparison and display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DateKey renders a calendar day the way summary identity keys expect it.
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// SummaryKey is the identity key of a daily summary: one row per
// (employee_id, date).
func SummaryKey(employeeID string, date time.Time) string {
	return employeeID + "|" + DateKey(date)
}
