package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lunario/corte/internal/model"
	"github.com/shopspring/decimal"
)

// PayInstallment records one monthly payment against an installment
// purchase. It returns the updated card and the linked payment transaction
// that was appended; the input card is left untouched.
func PayInstallment(card model.Card, installmentID string, date model.Date) (model.Card, model.Transaction, error) {
	if date.IsZero() {
		return model.Card{}, model.Transaction{}, fmt.Errorf("%w: zero value", ErrInvalidDate)
	}

	out := card.Clone()
	inst := out.Installment(installmentID)
	if inst == nil {
		return model.Card{}, model.Transaction{}, fmt.Errorf("%w: %s", ErrUnknownInstallment, installmentID)
	}
	if inst.Settled() {
		return model.Card{}, model.Transaction{}, fmt.Errorf("%w: %s", ErrInstallmentSettled, installmentID)
	}

	inst.PaidMonths++
	inst.RemainingAmount = remainingFor(*inst)

	payment := model.Transaction{
		ID:            uuid.NewString(),
		Type:          model.TypePayment,
		Date:          date,
		Description:   fmt.Sprintf("Pago MSI: %s (%d/%d)", inst.Description, inst.PaidMonths, inst.Months),
		Amount:        inst.MonthlyPayment,
		InstallmentID: inst.ID,
	}
	out.Transactions = append(out.Transactions, payment)
	return out, payment, nil
}

// AddTransaction validates a ledger entry against the card and appends it.
// Installment-bound payments must reference an existing installment that is
// not yet paid in full.
func AddTransaction(card model.Card, tx model.Transaction) (model.Card, error) {
	out := card.Clone()
	if err := validateTransaction(&out, tx); err != nil {
		return model.Card{}, err
	}
	if out.Transaction(tx.ID) != nil {
		return model.Card{}, fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
	}
	if tx.IsInstallmentPayment() {
		if inst := out.Installment(tx.InstallmentID); inst.Settled() {
			return model.Card{}, fmt.Errorf("%w: %s", ErrInstallmentSettled, tx.InstallmentID)
		}
	}
	out.Transactions = append(out.Transactions, tx)
	return out, nil
}

// DeleteTransaction removes a ledger entry. Deleting a payment bound to an
// installment reverses that month on the parent purchase. Deleting an
// installment purchase cascades to its payments.
func DeleteTransaction(card model.Card, txID string) (model.Card, error) {
	target := card.Transaction(txID)
	if target == nil {
		return model.Card{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, txID)
	}
	if target.Type == model.TypeInstallmentPurchase {
		return DeleteInstallment(card, txID)
	}

	out := card.Clone()
	if target.IsInstallmentPayment() {
		if parent := out.Installment(target.InstallmentID); parent != nil {
			if parent.PaidMonths > 0 {
				parent.PaidMonths--
			}
			restored := parent.RemainingAmount.Add(parent.MonthlyPayment)
			parent.RemainingAmount = clampRemaining(restored, parent.TotalAmount)
		}
	}

	kept := out.Transactions[:0]
	for _, tx := range out.Transactions {
		if tx.ID != txID {
			kept = append(kept, tx)
		}
	}
	out.Transactions = kept
	return out, nil
}

// DeleteInstallment removes an installment purchase together with every
// payment referencing it.
func DeleteInstallment(card model.Card, installmentID string) (model.Card, error) {
	if card.Installment(installmentID) == nil {
		return model.Card{}, fmt.Errorf("%w: %s", ErrUnknownInstallment, installmentID)
	}

	out := card.Clone()
	kept := out.Transactions[:0]
	for _, tx := range out.Transactions {
		if tx.ID == installmentID || tx.InstallmentID == installmentID {
			continue
		}
		kept = append(kept, tx)
	}
	out.Transactions = kept
	return out, nil
}

// InstallmentProgress describes an installment for display: months paid,
// derived remaining amount and whether another payment is still owed.
type InstallmentProgress struct {
	Installment model.Transaction
	Remaining   decimal.Decimal
	Settled     bool
}

// Progress summarizes every installment purchase on the card.
func Progress(card model.Card) []InstallmentProgress {
	var out []InstallmentProgress
	for _, inst := range card.Installments() {
		out = append(out, InstallmentProgress{
			Installment: inst,
			Remaining:   remainingFor(inst),
			Settled:     inst.Settled(),
		})
	}
	return out
}
