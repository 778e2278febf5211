package ledger

import (
	"time"

	"github.com/lunario/corte/internal/model"
)

// lastDayOfMonth returns the number of days in the given month, accounting
// for leap years.
func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// adjustedDate builds a calendar date clamping the nominal day to the actual
// last day of the target month (cutoffDay=31 in February means the 28th or
// 29th). Month values outside 1..12 normalize into the adjacent year.
func adjustedDate(year int, month time.Month, day int) model.Date {
	norm := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := lastDayOfMonth(norm.Year(), norm.Month())
	if day > last {
		day = last
	}
	return model.NewDate(norm.Year(), norm.Month(), day)
}

// cycleDates are the three ordered statement cutoffs around a reference
// date: previous < current <= today <= next.
type cycleDates struct {
	previous model.Date
	current  model.Date
	next     model.Date
}

// cutoffsFor derives the statement cutoffs for a card's cutoff day. When
// today is strictly after this month's (clamped) cutoff the cycle has
// already closed this month; otherwise it closes later this month and the
// current statement cutoff sits in the previous month.
func cutoffsFor(cutoffDay int, today model.Date) cycleDates {
	year, month := today.Year(), today.Month()
	thisMonth := adjustedDate(year, month, cutoffDay)

	var current, next model.Date
	if today.After(thisMonth.Time) {
		current = thisMonth
		next = adjustedDate(year, month+1, cutoffDay)
	} else {
		current = adjustedDate(year, month-1, cutoffDay)
		next = thisMonth
	}

	previous := adjustedDate(current.Year(), current.Month()-1, cutoffDay)
	return cycleDates{previous: previous, current: current, next: next}
}

// dueDateFor returns the payment deadline for the statement closed at the
// given cutoff. When the nominal payment day precedes the cutoff day the
// payment window spans the month boundary and the due date falls in the
// following month, re-clamped against that month's length.
func dueDateFor(cutoff model.Date, cutoffDay, paymentDay int) model.Date {
	if paymentDay < cutoffDay {
		return adjustedDate(cutoff.Year(), cutoff.Month()+1, paymentDay)
	}
	return adjustedDate(cutoff.Year(), cutoff.Month(), paymentDay)
}

// inWindow reports whether a date falls in the half-open statement window
// (after, until].
func inWindow(d, after, until model.Date) bool {
	return d.After(after.Time) && !d.After(until.Time)
}
