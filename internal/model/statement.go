package model

import (
	"github.com/shopspring/decimal"
)

// StatementDetails is the derived view of a card for a given reference
// date, produced by the ledger calculator. All amounts are floored at zero.
type StatementDetails struct {
	// CurrentBalance is the total owed on the card right now.
	CurrentBalance decimal.Decimal
	// AvailableCredit is the remaining credit line. An overpaid card can
	// report more than its limit.
	AvailableCredit decimal.Decimal
	// PayToAvoidInterest is the closed statement balance minus payments
	// made since the cutoff ("pago para no generar intereses").
	PayToAvoidInterest decimal.Decimal
	// NextEstimatedPayment is the accrual of the still-open cycle.
	NextEstimatedPayment decimal.Decimal
	// AccumulatedCashback is the running cashback total over the whole
	// ledger, not scoped to any period.
	AccumulatedCashback decimal.Decimal
	// NextCutoffDate is when the open cycle closes.
	NextCutoffDate Date
	// PaymentDueDate is the deadline for the closed statement.
	PaymentDueDate Date
}
