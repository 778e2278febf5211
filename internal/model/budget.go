package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RolloverOption controls how unspent daily budget is carried forward.
type RolloverOption string

const (
	// RolloverNextDay adds yesterday's surplus to the daily recommendation.
	RolloverNextDay RolloverOption = "nextDay"
	// RolloverDistribute spreads the remaining budget evenly over the
	// rest of the month. Unknown options behave the same way.
	RolloverDistribute RolloverOption = "distribute"
)

// Budget is the monthly spending budget. It resets (by user confirmation)
// at each month boundary.
type Budget struct {
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	RolloverOption RolloverOption  `json:"rolloverOption"`
	StartDate      Date            `json:"startDate"`
	Expenses       []BudgetExpense `json:"expenses"`
}

// BudgetExpense is a single out-of-pocket expense tracked against the
// monthly budget. Independent from card ledgers.
type BudgetExpense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
}

// NewBudgetExpense creates a budget expense with a generated id.
func NewBudgetExpense(date Date, description string, amount decimal.Decimal) BudgetExpense {
	return BudgetExpense{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      amount,
		Date:        date,
	}
}
