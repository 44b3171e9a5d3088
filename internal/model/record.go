package model

import "time"

// DateKey is the storage format for calendar-day keys (local time of the
// instant that produced them).
const DateKey = "2006-01-02"

// MonthKey is the storage prefix for calendar-month aggregation.
const MonthKey = "2006-01"

// AttendanceRecord is a single user's attendance for one calendar day.
// At most one record exists per (UserID, Date); TotalHours is always derived
// from the two timestamps, never accumulated.
type AttendanceRecord struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Date       string     `json:"date"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	TotalHours float64    `json:"total_hours"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// StatusPresent is the attendance status set on clock-in.
const StatusPresent = "present"

// DayStatus is the derived per-day state shown to the user.
type DayStatus string

const (
	// NotClockedIn means no check-in exists for the day.
	NotClockedIn DayStatus = "not_clocked_in"
	// Working means checked in but not yet out.
	Working DayStatus = "working"
	// Done means the day is closed; no further transitions.
	Done DayStatus = "done"
)

// MutationKind identifies the operation a PendingMutation captured.
type MutationKind string

const (
	MutationClockIn  MutationKind = "clock_in"
	MutationClockOut MutationKind = "clock_out"
)

// PendingMutation is a state change captured while offline, awaiting delivery.
// Record is a snapshot by value so replay stays idempotent even if the live
// record changes before the queue drains.
type PendingMutation struct {
	ID         string           `json:"id"`
	Kind       MutationKind     `json:"kind"`
	Record     AttendanceRecord `json:"record"`
	CapturedAt time.Time        `json:"captured_at"`
	Synced     bool             `json:"synced"`
	SyncedAt   *time.Time       `json:"synced_at,omitempty"`
}
