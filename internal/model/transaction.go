// Package model defines the domain records shared across the application.
package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType discriminates the ledger entry variants.
type TransactionType string

const (
	// TypeExpense is a regular charge that increases the card balance.
	TypeExpense TransactionType = "expense"
	// TypePayment reduces the card balance. A payment carrying an
	// InstallmentID is bound to an installment purchase and is excluded
	// from general period arithmetic.
	TypePayment TransactionType = "payment"
	// TypeInstallmentPurchase is a purchase amortized over a fixed number
	// of monthly payments.
	TypeInstallmentPurchase TransactionType = "installment_purchase"
)

// Transaction is a single ledger entry on a card. Which fields are
// meaningful depends on Type; ledger validation rejects mixed shapes.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`

	// Expense and payment entries.
	Amount decimal.Decimal `json:"amount"`

	// Payment entries only: the installment purchase this payment settles
	// a month of. Empty for general payments.
	InstallmentID string `json:"relatedInstallmentId,omitempty"`

	// Installment purchase entries only.
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Months          int             `json:"months"`
	MonthlyPayment  decimal.Decimal `json:"monthlyPayment"`
	PaidMonths      int             `json:"paidMonths"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// IsInstallmentPayment reports whether this is a payment bound to an
// installment purchase.
func (t Transaction) IsInstallmentPayment() bool {
	return t.Type == TypePayment && t.InstallmentID != ""
}

// IsGeneralPayment reports whether this is a payment not bound to any
// installment purchase.
func (t Transaction) IsGeneralPayment() bool {
	return t.Type == TypePayment && t.InstallmentID == ""
}

// Settled reports whether an installment purchase has been paid in full.
func (t Transaction) Settled() bool {
	return t.Type == TypeInstallmentPurchase && t.PaidMonths >= t.Months
}

// ActiveInstallment reports whether an installment purchase still has
// pending monthly payments.
func (t Transaction) ActiveInstallment() bool {
	return t.Type == TypeInstallmentPurchase && t.PaidMonths < t.Months
}

// NewExpense creates an expense entry with a generated id.
func NewExpense(date Date, description string, amount decimal.Decimal) Transaction {
	return Transaction{
		ID:          uuid.NewString(),
		Type:        TypeExpense,
		Date:        date,
		Description: description,
		Amount:      amount,
	}
}

// NewPayment creates a general payment entry with a generated id.
func NewPayment(date Date, description string, amount decimal.Decimal) Transaction {
	return Transaction{
		ID:          uuid.NewString(),
		Type:        TypePayment,
		Date:        date,
		Description: description,
		Amount:      amount,
	}
}

// NewInstallmentPurchase creates an installment purchase entry. The monthly
// payment is fixed at creation time as totalAmount/months rounded to cents;
// the remaining amount starts at the full total.
func NewInstallmentPurchase(date Date, description string, totalAmount decimal.Decimal, months int) Transaction {
	monthly := decimal.Zero
	if months > 0 {
		monthly = totalAmount.DivRound(decimal.NewFromInt(int64(months)), 2)
	}
	return Transaction{
		ID:              uuid.NewString(),
		Type:            TypeInstallmentPurchase,
		Date:            date,
		Description:     description,
		TotalAmount:     totalAmount,
		Months:          months,
		MonthlyPayment:  monthly,
		RemainingAmount: totalAmount,
	}
}
