package ledger

import (
	"testing"
	"time"

	"github.com/lunario/corte/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestAdjustedDate(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		want  model.Date
	}{
		{
			name:  "day within month",
			year:  2026,
			month: time.September,
			day:   15,
			want:  model.NewDate(2026, time.September, 15),
		},
		{
			name:  "day 31 clamps to February 28",
			year:  2026,
			month: time.February,
			day:   31,
			want:  model.NewDate(2026, time.February, 28),
		},
		{
			name:  "day 31 clamps to February 29 in leap year",
			year:  2024,
			month: time.February,
			day:   31,
			want:  model.NewDate(2024, time.February, 29),
		},
		{
			name:  "day 31 clamps to 30-day month",
			year:  2026,
			month: time.April,
			day:   31,
			want:  model.NewDate(2026, time.April, 30),
		},
		{
			name:  "month overflow rolls into next year",
			year:  2026,
			month: time.December + 1,
			day:   15,
			want:  model.NewDate(2027, time.January, 15),
		},
		{
			name:  "month underflow rolls into previous year",
			year:  2026,
			month: time.January - 1,
			day:   31,
			want:  model.NewDate(2025, time.December, 31),
		},
		{
			name:  "day 30 clamps in February",
			year:  2026,
			month: time.February,
			day:   30,
			want:  model.NewDate(2026, time.February, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adjustedDate(tt.year, tt.month, tt.day)
			assert.True(t, got.Equal(tt.want.Time), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCutoffsFor(t *testing.T) {
	tests := []struct {
		name         string
		cutoffDay    int
		today        model.Date
		wantPrevious model.Date
		wantCurrent  model.Date
		wantNext     model.Date
	}{
		{
			name:         "after this month's cutoff",
			cutoffDay:    15,
			today:        model.NewDate(2026, time.September, 20),
			wantPrevious: model.NewDate(2026, time.August, 15),
			wantCurrent:  model.NewDate(2026, time.September, 15),
			wantNext:     model.NewDate(2026, time.October, 15),
		},
		{
			name:         "before this month's cutoff",
			cutoffDay:    15,
			today:        model.NewDate(2026, time.September, 10),
			wantPrevious: model.NewDate(2026, time.July, 15),
			wantCurrent:  model.NewDate(2026, time.August, 15),
			wantNext:     model.NewDate(2026, time.September, 15),
		},
		{
			name:         "on the cutoff day the cycle is still open",
			cutoffDay:    15,
			today:        model.NewDate(2026, time.September, 15),
			wantPrevious: model.NewDate(2026, time.July, 15),
			wantCurrent:  model.NewDate(2026, time.August, 15),
			wantNext:     model.NewDate(2026, time.September, 15),
		},
		{
			name:         "cutoff 31 clamps in February",
			cutoffDay:    31,
			today:        model.NewDate(2026, time.February, 10),
			wantPrevious: model.NewDate(2025, time.December, 31),
			wantCurrent:  model.NewDate(2026, time.January, 31),
			wantNext:     model.NewDate(2026, time.February, 28),
		},
		{
			name:         "cutoff 31 uses February 29 in leap year",
			cutoffDay:    31,
			today:        model.NewDate(2024, time.March, 1),
			wantPrevious: model.NewDate(2024, time.January, 31),
			wantCurrent:  model.NewDate(2024, time.February, 29),
			wantNext:     model.NewDate(2024, time.March, 31),
		},
		{
			name:         "year boundary in January",
			cutoffDay:    20,
			today:        model.NewDate(2026, time.January, 5),
			wantPrevious: model.NewDate(2025, time.November, 20),
			wantCurrent:  model.NewDate(2025, time.December, 20),
			wantNext:     model.NewDate(2026, time.January, 20),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cuts := cutoffsFor(tt.cutoffDay, tt.today)
			assert.True(t, cuts.previous.Equal(tt.wantPrevious.Time), "previous: got %s, want %s", cuts.previous, tt.wantPrevious)
			assert.True(t, cuts.current.Equal(tt.wantCurrent.Time), "current: got %s, want %s", cuts.current, tt.wantCurrent)
			assert.True(t, cuts.next.Equal(tt.wantNext.Time), "next: got %s, want %s", cuts.next, tt.wantNext)

			// The three cutoffs are always strictly ordered.
			assert.True(t, cuts.previous.Before(cuts.current.Time))
			assert.True(t, cuts.current.Before(cuts.next.Time))
		})
	}
}

func TestDueDateFor(t *testing.T) {
	tests := []struct {
		name       string
		cutoff     model.Date
		cutoffDay  int
		paymentDay int
		want       model.Date
	}{
		{
			name:       "payment day after cutoff stays in same month",
			cutoff:     model.NewDate(2026, time.September, 15),
			cutoffDay:  15,
			paymentDay: 25,
			want:       model.NewDate(2026, time.September, 25),
		},
		{
			name:       "payment day before cutoff rolls to next month",
			cutoff:     model.NewDate(2026, time.September, 15),
			cutoffDay:  15,
			paymentDay: 5,
			want:       model.NewDate(2026, time.October, 5),
		},
		{
			name:       "roll across year boundary",
			cutoff:     model.NewDate(2026, time.December, 20),
			cutoffDay:  20,
			paymentDay: 10,
			want:       model.NewDate(2027, time.January, 10),
		},
		{
			name:       "rolled due date clamps to short month",
			cutoff:     model.NewDate(2026, time.January, 31),
			cutoffDay:  31,
			paymentDay: 30,
			want:       model.NewDate(2026, time.February, 28),
		},
		{
			name:       "payment day equal to cutoff day stays in month",
			cutoff:     model.NewDate(2026, time.September, 15),
			cutoffDay:  15,
			paymentDay: 15,
			want:       model.NewDate(2026, time.September, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dueDateFor(tt.cutoff, tt.cutoffDay, tt.paymentDay)
			assert.True(t, got.Equal(tt.want.Time), "got %s, want %s", got, tt.want)
		})
	}
}

func TestInWindow(t *testing.T) {
	after := model.NewDate(2026, time.August, 15)
	until := model.NewDate(2026, time.September, 15)

	assert.False(t, inWindow(model.NewDate(2026, time.August, 15), after, until), "window start is exclusive")
	assert.True(t, inWindow(model.NewDate(2026, time.August, 16), after, until))
	assert.True(t, inWindow(model.NewDate(2026, time.September, 15), after, until), "window end is inclusive")
	assert.False(t, inWindow(model.NewDate(2026, time.September, 16), after, until))
}
