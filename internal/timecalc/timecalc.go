package timecalc

import (
	"fmt"
	"math"
	"time"

	"github.com/workpunch/punch/internal/model"
)

// DayKey returns the calendar-day key for t in t's own location.
// Keying by local calendar date avoids cross-midnight ambiguity.
func DayKey(t time.Time) string {
	return t.Format(model.DateKey)
}

// MonthOf returns the calendar-month key ("2006-01") for t.
func MonthOf(t time.Time) string {
	return t.Format(model.MonthKey)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Hours converts the interval between two instants to decimal hours
// rounded to two places.
func Hours(from, to time.Time) float64 {
	return Round2(to.Sub(from).Hours())
}

// Round2 rounds to two decimal places.
func Round2(h float64) float64 {
	return math.Round(h*100) / 100
}

// FormatHours renders decimal hours for display, e.g. "8.5h".
func FormatHours(h float64) string {
	return fmt.Sprintf("%gh", Round2(h))
}

// FormatClock renders an optional instant as HH:MM, or "-" when absent.
func FormatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04")
}
