// Package budget implements the monthly spending budget engine: month-scoped
// expense totals, the daily spending recommendation with rollover handling,
// and the month-boundary reset. All functions are pure.
package budget

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lunario/corte/internal/model"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoBudget indicates no budget (or one without an amount) is configured.
	ErrNoBudget = errors.New("no budget configured")
	// ErrInvalidExpense indicates a malformed budget expense.
	ErrInvalidExpense = errors.New("invalid budget expense")
	// ErrExpenseNotFound indicates the expense id does not exist.
	ErrExpenseNotFound = errors.New("budget expense not found")
)

// Summary is the derived monthly view of a budget for a reference date.
type Summary struct {
	TotalAmount    decimal.Decimal
	SpentThisMonth decimal.Decimal
	SpentToday     decimal.Decimal
	// Remaining can go negative when the month's budget is blown.
	Remaining decimal.Decimal
	// DailyRecommendation is how much can be spent per remaining day,
	// floored at zero.
	DailyRecommendation decimal.Decimal
	// DaysLeft counts the remaining days of the month including today.
	DaysLeft    int
	DaysInMonth int
}

// Summarize computes the monthly budget view. Only expenses dated in the
// reference month count; the daily recommendation distributes the remaining
// amount over the rest of the month, with the nextDay rollover option adding
// the surplus against the ideal spending pace.
func Summarize(b model.Budget, today model.Date) (Summary, error) {
	if !b.TotalAmount.IsPositive() {
		return Summary{}, ErrNoBudget
	}
	if today.IsZero() {
		return Summary{}, fmt.Errorf("%w: zero date", ErrInvalidExpense)
	}
	today = model.DateOf(today.Time)

	daysInMonth := model.NewDate(today.Year(), today.Month()+1, 0).Day()
	daysLeft := daysInMonth - today.Day() + 1

	spentThisMonth := decimal.Zero
	spentToday := decimal.Zero
	for _, exp := range b.Expenses {
		if exp.Date.Year() == today.Year() && exp.Date.Month() == today.Month() {
			spentThisMonth = spentThisMonth.Add(exp.Amount)
		}
		if exp.Date.Equal(today.Time) {
			spentToday = spentToday.Add(exp.Amount)
		}
	}

	remaining := b.TotalAmount.Sub(spentThisMonth)
	days := decimal.NewFromInt(int64(daysLeft))
	daily := remaining.DivRound(days, 2)

	if b.RolloverOption == model.RolloverNextDay {
		startOfMonth := model.NewDate(b.StartDate.Year(), b.StartDate.Month(), 1)
		daysPassed := int(today.Sub(startOfMonth.Time).Hours() / 24)
		ideal := b.TotalAmount.
			Div(decimal.NewFromInt(int64(daysInMonth))).
			Mul(decimal.NewFromInt(int64(daysPassed + 1)))
		if surplus := ideal.Sub(spentThisMonth); surplus.IsPositive() {
			daily = daily.Add(surplus.DivRound(days, 2))
		}
	}
	if daily.IsNegative() {
		daily = decimal.Zero
	}

	return Summary{
		TotalAmount:         b.TotalAmount,
		SpentThisMonth:      spentThisMonth,
		SpentToday:          spentToday,
		Remaining:           remaining,
		DailyRecommendation: daily,
		DaysLeft:            daysLeft,
		DaysInMonth:         daysInMonth,
	}, nil
}

// NeedsReset reports whether the budget was started in a month other than
// the reference date's.
func NeedsReset(b model.Budget, today model.Date) bool {
	if b.StartDate.IsZero() {
		return false
	}
	return b.StartDate.Month() != today.Month() || b.StartDate.Year() != today.Year()
}

// Reset restarts the budget on the first of the reference month, keeping
// the amount and rollover option and clearing the tracked expenses.
func Reset(b model.Budget, today model.Date) model.Budget {
	out := b
	out.StartDate = model.NewDate(today.Year(), today.Month(), 1)
	out.Expenses = nil
	return out
}

// AddExpense validates and appends a budget expense, returning the updated
// budget.
func AddExpense(b model.Budget, exp model.BudgetExpense) (model.Budget, error) {
	if exp.ID == "" {
		return model.Budget{}, fmt.Errorf("%w: missing id", ErrInvalidExpense)
	}
	if exp.Date.IsZero() {
		return model.Budget{}, fmt.Errorf("%w: missing date", ErrInvalidExpense)
	}
	if !exp.Amount.IsPositive() {
		return model.Budget{}, fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}
	out := b
	out.Expenses = append(append([]model.BudgetExpense(nil), b.Expenses...), exp)
	return out, nil
}

// DeleteExpense removes a budget expense by id.
func DeleteExpense(b model.Budget, id string) (model.Budget, error) {
	out := b
	out.Expenses = nil
	found := false
	for _, exp := range b.Expenses {
		if exp.ID == id {
			found = true
			continue
		}
		out.Expenses = append(out.Expenses, exp)
	}
	if !found {
		return model.Budget{}, fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
	}
	return out, nil
}

// ExpensesThisMonth returns the reference month's expenses, most recent
// first.
func ExpensesThisMonth(b model.Budget, today model.Date) []model.BudgetExpense {
	var out []model.BudgetExpense
	for _, exp := range b.Expenses {
		if exp.Date.Year() == today.Year() && exp.Date.Month() == today.Month() {
			out = append(out, exp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}
