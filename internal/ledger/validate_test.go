package ledger

import (
	"testing"
	"time"

	"github.com/lunario/corte/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCard(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Card)
		wantErr error
	}{
		{
			name:   "valid card",
			mutate: func(_ *model.Card) {},
		},
		{
			name:    "nil-equivalent missing id",
			mutate:  func(c *model.Card) { c.ID = "" },
			wantErr: ErrInvalidCard,
		},
		{
			name:    "cutoff day too low",
			mutate:  func(c *model.Card) { c.CutoffDay = 0 },
			wantErr: ErrInvalidCard,
		},
		{
			name:    "cutoff day too high",
			mutate:  func(c *model.Card) { c.CutoffDay = 32 },
			wantErr: ErrInvalidCard,
		},
		{
			name:    "payment day out of range",
			mutate:  func(c *model.Card) { c.PaymentDay = 0 },
			wantErr: ErrInvalidCard,
		},
		{
			name:    "negative limit",
			mutate:  func(c *model.Card) { c.Limit = decimal.NewFromInt(-1) },
			wantErr: ErrInvalidCard,
		},
		{
			name:    "cashback over 100",
			mutate:  func(c *model.Card) { c.CashbackPercentage = decimal.NewFromInt(101) },
			wantErr: ErrInvalidCard,
		},
		{
			name: "duplicate transaction ids",
			mutate: func(c *model.Card) {
				c.Transactions = []model.Transaction{
					expense("dup", model.NewDate(2026, time.September, 1), 100),
					expense("dup", model.NewDate(2026, time.September, 2), 100),
				}
			},
			wantErr: ErrDuplicateID,
		},
		{
			name: "transaction without date",
			mutate: func(c *model.Card) {
				c.Transactions = []model.Transaction{
					expense("e1", model.Date{}, 100),
				}
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "unknown transaction type",
			mutate: func(c *model.Card) {
				c.Transactions = []model.Transaction{{
					ID:     "x1",
					Type:   model.TransactionType("transfer"),
					Date:   model.NewDate(2026, time.September, 1),
					Amount: decimal.NewFromInt(10),
				}}
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "expense referencing an installment",
			mutate: func(c *model.Card) {
				e := expense("e1", model.NewDate(2026, time.September, 1), 100)
				e.InstallmentID = "i1"
				c.Transactions = []model.Transaction{
					installment("i1", model.NewDate(2026, time.August, 1), 1200, 12),
					e,
				}
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "installment with zero months",
			mutate: func(c *model.Card) {
				inst := installment("i1", model.NewDate(2026, time.August, 1), 1200, 12)
				inst.Months = 0
				c.Transactions = []model.Transaction{inst}
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "payment bound to missing installment",
			mutate: func(c *model.Card) {
				p := payment("p1", model.NewDate(2026, time.September, 1), 100)
				p.InstallmentID = "ghost"
				c.Transactions = []model.Transaction{p}
			},
			wantErr: ErrUnknownInstallment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := testCard()
			tt.mutate(&card)
			err := ValidateCard(&card)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	t.Run("nil card", func(t *testing.T) {
		assert.ErrorIs(t, ValidateCard(nil), ErrInvalidCard)
	})
}

func TestRemainingFor(t *testing.T) {
	inst := installment("i1", model.NewDate(2026, time.August, 1), 1000, 3)

	inst.PaidMonths = 0
	assertMoney(t, "1000", remainingFor(inst))

	inst.PaidMonths = 1
	assertMoney(t, "666.67", remainingFor(inst))

	inst.PaidMonths = 2
	assertMoney(t, "333.34", remainingFor(inst))

	inst.PaidMonths = 3
	assertMoney(t, "0", remainingFor(inst))

	// Overshoot never goes negative.
	inst.PaidMonths = 5
	assertMoney(t, "0", remainingFor(inst))
}

func TestClampRemaining(t *testing.T) {
	total := decimal.NewFromInt(1200)

	// Sub-cent drift snaps to the boundaries.
	assertMoney(t, "0", clampRemaining(decimal.RequireFromString("0.009"), total))
	assertMoney(t, "0", clampRemaining(decimal.RequireFromString("-0.009"), total))
	assertMoney(t, "1200", clampRemaining(decimal.RequireFromString("1199.995"), total))

	// Full cents survive untouched.
	mid := decimal.RequireFromString("600.01")
	assert.True(t, clampRemaining(mid, total).Equal(mid))

	// Hard clamp outside the valid range.
	assertMoney(t, "0", clampRemaining(decimal.NewFromInt(-50), total))
	assertMoney(t, "1200", clampRemaining(decimal.NewFromInt(1300), total))
}

func TestRemainingForDerivesFromCounter(t *testing.T) {
	// A stale stored remaining amount is ignored: only the paid-month
	// counter matters.
	inst := installment("i1", model.NewDate(2026, time.August, 1), 1200, 12)
	inst.PaidMonths = 4
	inst.RemainingAmount = decimal.NewFromInt(999)

	require.True(t, remainingFor(inst).Equal(decimal.NewFromInt(800)))
}
