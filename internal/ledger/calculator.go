// Package ledger implements the statement calculator and the pure state
// transitions over a card's transaction ledger. Everything here is free of
// I/O and never mutates its inputs, so it is safe to call concurrently.
package ledger

import (
	"fmt"

	"github.com/lunario/corte/internal/model"
	"github.com/shopspring/decimal"
)

// ComputeDetails derives the statement view of a card for a reference date:
// current balance, available credit, the amount to pay to avoid interest on
// the closed statement, the open cycle's estimated payment, the next cutoff
// and the payment due date.
//
// The closed-statement figures use the backward method: the statement
// balance at the current cutoff, minus every general payment recorded after
// it. Installment purchases owe one monthly payment per statement window
// unless a payment bound to them is already dated inside that window.
func ComputeDetails(card model.Card, today model.Date) (model.StatementDetails, error) {
	if err := ValidateCard(&card); err != nil {
		return model.StatementDetails{}, err
	}
	if today.IsZero() {
		return model.StatementDetails{}, fmt.Errorf("%w: zero value", ErrInvalidDate)
	}
	today = model.DateOf(today.Time)

	rate := card.CashbackRate()
	balance := decimal.Zero
	cashback := decimal.Zero
	for _, tx := range card.Transactions {
		switch tx.Type {
		case model.TypeExpense:
			balance = balance.Add(tx.Amount)
			if rate.IsPositive() {
				cashback = cashback.Add(tx.Amount.Mul(rate))
			}
		case model.TypePayment:
			balance = balance.Sub(tx.Amount)
		case model.TypeInstallmentPurchase:
			balance = balance.Add(remainingFor(tx))
			// Cashback accrues on the full purchase once, not per month.
			if rate.IsPositive() {
				cashback = cashback.Add(tx.TotalAmount.Mul(rate))
			}
		}
	}

	cuts := cutoffsFor(card.CutoffDay, today)
	due := dueDateFor(cuts.current, card.CutoffDay, card.PaymentDay)

	return model.StatementDetails{
		CurrentBalance:       maxZero(balance),
		AvailableCredit:      maxZero(card.Limit.Sub(balance)),
		PayToAvoidInterest:   maxZero(payToAvoidInterest(card, cuts)),
		NextEstimatedPayment: maxZero(nextEstimatedPayment(card, cuts)),
		AccumulatedCashback:  cashback,
		NextCutoffDate:       cuts.next,
		PaymentDueDate:       due,
	}, nil
}

// payToAvoidInterest reconstructs the balance of the statement closed at
// cuts.current and nets out everything paid toward it since.
func payToAvoidInterest(card model.Card, cuts cycleDates) decimal.Decimal {
	amount := decimal.Zero

	// Statement window activity: expenses charge it, general payments
	// inside the window already reduced it.
	for _, tx := range card.Transactions {
		if !inWindow(tx.Date, cuts.previous, cuts.current) {
			continue
		}
		switch {
		case tx.Type == model.TypeExpense:
			amount = amount.Add(tx.Amount)
		case tx.IsGeneralPayment():
			amount = amount.Sub(tx.Amount)
		}
	}

	// One monthly payment per installment that was due in the window and
	// has no linked payment dated inside it.
	for _, inst := range card.Transactions {
		if !inst.ActiveInstallment() || !inst.Date.Before(cuts.current.Time) {
			continue
		}
		if !hasLinkedPaymentIn(card, inst.ID, cuts.previous, cuts.current) {
			amount = amount.Add(inst.MonthlyPayment)
		}
	}

	// Payments recorded after the cutoff settle the closed statement.
	for _, tx := range card.Transactions {
		if tx.IsGeneralPayment() && tx.Date.After(cuts.current.Time) {
			amount = amount.Sub(tx.Amount)
		}
	}

	return amount
}

// nextEstimatedPayment accrues the still-open cycle: expenses dated in
// (current, next] plus one monthly payment per installment due before the
// next cutoff and not yet paid inside the open window. Payments made during
// the open cycle do not reduce the estimate; they net against the statement
// once it closes.
func nextEstimatedPayment(card model.Card, cuts cycleDates) decimal.Decimal {
	amount := decimal.Zero
	for _, tx := range card.Transactions {
		if tx.Type == model.TypeExpense && inWindow(tx.Date, cuts.current, cuts.next) {
			amount = amount.Add(tx.Amount)
		}
	}
	for _, inst := range card.Transactions {
		if !inst.ActiveInstallment() || !inst.Date.Before(cuts.next.Time) {
			continue
		}
		if !hasLinkedPaymentIn(card, inst.ID, cuts.current, cuts.next) {
			amount = amount.Add(inst.MonthlyPayment)
		}
	}
	return amount
}

// hasLinkedPaymentIn reports whether any payment bound to the installment
// falls in the window (after, until]. Any such payment counts the
// installment as covered for that period, no matter how many exist.
func hasLinkedPaymentIn(card model.Card, installmentID string, after, until model.Date) bool {
	for _, tx := range card.Transactions {
		if tx.InstallmentID == installmentID && tx.Type == model.TypePayment && inWindow(tx.Date, after, until) {
			return true
		}
	}
	return false
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
