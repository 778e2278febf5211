package model

import (
	"github.com/shopspring/decimal"
)

// Card represents a credit card and its transaction ledger.
type Card struct {
	ID                 string          `json:"id"`
	Alias              string          `json:"alias"`
	Bank               string          `json:"bank"`
	Last4              string          `json:"last4"`
	Limit              decimal.Decimal `json:"limit"`
	CutoffDay          int             `json:"cutoffDay"`
	PaymentDay         int             `json:"paymentDay"`
	HasCashback        bool            `json:"hasCashback"`
	CashbackPercentage decimal.Decimal `json:"cashbackPercentage"`
	Transactions       []Transaction   `json:"transactions"`
}

// Transaction returns the ledger entry with the given id, or nil.
func (c *Card) Transaction(id string) *Transaction {
	for i := range c.Transactions {
		if c.Transactions[i].ID == id {
			return &c.Transactions[i]
		}
	}
	return nil
}

// Installment returns the installment purchase with the given id, or nil.
func (c *Card) Installment(id string) *Transaction {
	tx := c.Transaction(id)
	if tx == nil || tx.Type != TypeInstallmentPurchase {
		return nil
	}
	return tx
}

// Installments returns all installment purchase entries in ledger order.
func (c *Card) Installments() []Transaction {
	var out []Transaction
	for _, tx := range c.Transactions {
		if tx.Type == TypeInstallmentPurchase {
			out = append(out, tx)
		}
	}
	return out
}

// Clone returns a deep copy of the card; the transaction slice is not
// shared with the receiver.
func (c Card) Clone() Card {
	out := c
	out.Transactions = make([]Transaction, len(c.Transactions))
	copy(out.Transactions, c.Transactions)
	return out
}

// CashbackRate returns the cashback percentage as a fraction (2.5% -> 0.025).
// Zero when the card has cashback disabled.
func (c Card) CashbackRate() decimal.Decimal {
	if !c.HasCashback || !c.CashbackPercentage.IsPositive() {
		return decimal.Zero
	}
	return c.CashbackPercentage.Div(decimal.NewFromInt(100))
}
