package ledger

import (
	"errors"
	"fmt"

	"github.com/lunario/corte/internal/model"
	"github.com/shopspring/decimal"
)

// Validation errors. ErrInvalidCard and ErrInvalidTransaction indicate a
// malformed record; ErrUnknownInstallment and ErrInstallmentSettled are
// recoverable referential errors the caller decides how to handle.
var (
	ErrInvalidCard         = errors.New("invalid card")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrInvalidDate         = errors.New("invalid reference date")
	ErrUnknownInstallment  = errors.New("unknown installment")
	ErrInstallmentSettled  = errors.New("installment already paid in full")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateID         = errors.New("duplicate transaction id")
)

// amountEpsilon absorbs sub-cent drift in imported data: remaining amounts
// within it of zero or of the total snap to that boundary.
var amountEpsilon = decimal.New(1, -2)

// ValidateCard checks a card and its whole ledger for structural validity,
// including referential integrity of installment-bound payments. It is the
// fail-fast gate of the calculator: a card that passes can never produce
// undefined arithmetic downstream.
func ValidateCard(card *model.Card) error {
	if card == nil {
		return fmt.Errorf("%w: card is nil", ErrInvalidCard)
	}
	if card.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCard)
	}
	if card.CutoffDay < 1 || card.CutoffDay > 31 {
		return fmt.Errorf("%w: cutoff day %d out of range 1..31", ErrInvalidCard, card.CutoffDay)
	}
	if card.PaymentDay < 1 || card.PaymentDay > 31 {
		return fmt.Errorf("%w: payment day %d out of range 1..31", ErrInvalidCard, card.PaymentDay)
	}
	if card.Limit.IsNegative() {
		return fmt.Errorf("%w: negative credit limit", ErrInvalidCard)
	}
	if card.CashbackPercentage.IsNegative() || card.CashbackPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: cashback percentage out of range 0..100", ErrInvalidCard)
	}

	seen := make(map[string]struct{}, len(card.Transactions))
	for i, tx := range card.Transactions {
		if err := validateTransaction(card, tx); err != nil {
			return fmt.Errorf("transaction %d (%s): %w", i, tx.ID, err)
		}
		if _, dup := seen[tx.ID]; dup {
			return fmt.Errorf("transaction %d: %w: %s", i, ErrDuplicateID, tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}
	return nil
}

// validateTransaction checks one ledger entry against its owning card.
func validateTransaction(card *model.Card, tx model.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTransaction)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}

	switch tx.Type {
	case model.TypeExpense:
		if tx.InstallmentID != "" {
			return fmt.Errorf("%w: expense cannot reference an installment", ErrInvalidTransaction)
		}
		if !tx.Amount.IsPositive() {
			return fmt.Errorf("%w: expense amount must be positive", ErrInvalidTransaction)
		}
	case model.TypePayment:
		if !tx.Amount.IsPositive() {
			return fmt.Errorf("%w: payment amount must be positive", ErrInvalidTransaction)
		}
		if tx.InstallmentID != "" && card.Installment(tx.InstallmentID) == nil {
			return fmt.Errorf("%w: %s", ErrUnknownInstallment, tx.InstallmentID)
		}
	case model.TypeInstallmentPurchase:
		if tx.InstallmentID != "" {
			return fmt.Errorf("%w: installment purchase cannot reference an installment", ErrInvalidTransaction)
		}
		if !tx.TotalAmount.IsPositive() {
			return fmt.Errorf("%w: total amount must be positive", ErrInvalidTransaction)
		}
		if tx.Months < 1 {
			return fmt.Errorf("%w: months must be at least 1", ErrInvalidTransaction)
		}
		if tx.PaidMonths < 0 {
			return fmt.Errorf("%w: negative paid months", ErrInvalidTransaction)
		}
		if !tx.MonthlyPayment.IsPositive() {
			return fmt.Errorf("%w: monthly payment must be positive", ErrInvalidTransaction)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, tx.Type)
	}
	return nil
}

// remainingFor derives the outstanding amount of an installment purchase
// from its paid-month counter instead of trusting the stored value, so
// drift cannot compound. The result is epsilon-clamped to [0, TotalAmount].
func remainingFor(tx model.Transaction) decimal.Decimal {
	if tx.PaidMonths >= tx.Months {
		return decimal.Zero
	}
	paid := tx.MonthlyPayment.Mul(decimal.NewFromInt(int64(tx.PaidMonths)))
	return clampRemaining(tx.TotalAmount.Sub(paid), tx.TotalAmount)
}

// clampRemaining snaps a remaining amount to its valid range, treating
// values within amountEpsilon of either boundary as exactly that boundary.
func clampRemaining(remaining, total decimal.Decimal) decimal.Decimal {
	switch {
	case remaining.Abs().LessThan(amountEpsilon):
		return decimal.Zero
	case remaining.Sub(total).Abs().LessThan(amountEpsilon):
		return total
	case remaining.IsNegative():
		return decimal.Zero
	case remaining.GreaterThan(total):
		return total
	}
	return remaining
}
