package ledger

import (
	"testing"
	"time"

	"github.com/lunario/corte/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayInstallment(t *testing.T) {
	card := testCard()
	card.Transactions = []model.Transaction{
		installment("i1", model.NewDate(2026, time.August, 1), 1200, 12),
	}

	updated, pay, err := PayInstallment(card, "i1", model.NewDate(2026, time.September, 10))
	require.NoError(t, err)

	assertMoney(t, "100", pay.Amount)
	assert.Equal(t, "i1", pay.InstallmentID)
	assert.Equal(t, model.TypePayment, pay.Type)
	assert.Contains(t, pay.Description, "(1/12)")

	inst := updated.Installment("i1")
	require.NotNil(t, inst)
	assert.Equal(t, 1, inst.PaidMonths)
	assertMoney(t, "1100", inst.RemainingAmount)

	// The input card is untouched.
	assert.Equal(t, 0, card.Installment("i1").PaidMonths)
	assert.Len(t, card.Transactions, 1)
}

func TestPayInstallment_AmortizesToExactlyZero(t *testing.T) {
	// 1000 over 3 months: 333.33/month leaves a 0.01 tail that the final
	// payment must absorb.
	card := testCard()
	card.Transactions = []model.Transaction{
		installment("i1", model.NewDate(2026, time.January, 10), 1000, 3),
	}

	date := model.NewDate(2026, time.February, 1)
	for i := 0; i < 3; i++ {
		var err error
		card, _, err = PayInstallment(card, "i1", date)
		require.NoError(t, err)
	}

	inst := card.Installment("i1")
	require.NotNil(t, inst)
	assert.True(t, inst.Settled())
	assertMoney(t, "0", inst.RemainingAmount)
}

func TestPayInstallment_SettledRejectsFurtherPayments(t *testing.T) {
	card := testCard()
	inst := installment("i1", model.NewDate(2026, time.January, 10), 1200, 12)
	inst.PaidMonths = 12
	card.Transactions = []model.Transaction{inst}

	_, _, err := PayInstallment(card, "i1", model.NewDate(2026, time.September, 10))
	assert.ErrorIs(t, err, ErrInstallmentSettled)
}

func TestPayInstallment_UnknownID(t *testing.T) {
	_, _, err := PayInstallment(testCard(), "nope", model.NewDate(2026, time.September, 10))
	assert.ErrorIs(t, err, ErrUnknownInstallment)
}

func TestAddTransaction(t *testing.T) {
	card := testCard()

	updated, err := AddTransaction(card, expense("e1", model.NewDate(2026, time.September, 1), 200))
	require.NoError(t, err)
	assert.Len(t, updated.Transactions, 1)
	assert.Empty(t, card.Transactions, "input card must not be mutated")

	t.Run("duplicate id", func(t *testing.T) {
		_, err := AddTransaction(updated, expense("e1", model.NewDate(2026, time.September, 2), 50))
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("invalid amount", func(t *testing.T) {
		bad := expense("e2", model.NewDate(2026, time.September, 2), 0)
		_, err := AddTransaction(updated, bad)
		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})

	t.Run("payment bound to unknown installment", func(t *testing.T) {
		p := payment("p1", model.NewDate(2026, time.September, 2), 100)
		p.InstallmentID = "missing"
		_, err := AddTransaction(updated, p)
		assert.ErrorIs(t, err, ErrUnknownInstallment)
	})

	t.Run("payment bound to settled installment", func(t *testing.T) {
		c := testCard()
		inst := installment("i1", model.NewDate(2026, time.January, 10), 1200, 12)
		inst.PaidMonths = 12
		c.Transactions = []model.Transaction{inst}

		p := payment("p1", model.NewDate(2026, time.September, 2), 100)
		p.InstallmentID = "i1"
		_, err := AddTransaction(c, p)
		assert.ErrorIs(t, err, ErrInstallmentSettled)
	})
}

func TestDeleteTransaction(t *testing.T) {
	card := testCard()
	card.Transactions = []model.Transaction{
		expense("e1", model.NewDate(2026, time.September, 1), 200),
		payment("p1", model.NewDate(2026, time.September, 18), 150),
	}

	updated, err := DeleteTransaction(card, "p1")
	require.NoError(t, err)
	assert.Len(t, updated.Transactions, 1)
	assert.Nil(t, updated.Transaction("p1"))
	assert.Len(t, card.Transactions, 2, "input card must not be mutated")

	_, err = DeleteTransaction(card, "nope")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestDeleteTransaction_LinkedPaymentRollsBackProgress(t *testing.T) {
	card := testCard()
	card.Transactions = []model.Transaction{
		installment("i1", model.NewDate(2026, time.August, 1), 1200, 12),
	}
	card, pay, err := PayInstallment(card, "i1", model.NewDate(2026, time.September, 10))
	require.NoError(t, err)

	updated, err := DeleteTransaction(card, pay.ID)
	require.NoError(t, err)

	inst := updated.Installment("i1")
	require.NotNil(t, inst)
	assert.Equal(t, 0, inst.PaidMonths)
	assertMoney(t, "1200", inst.RemainingAmount)
	assert.Len(t, updated.Transactions, 1)
}

func TestDeleteTransaction_LastPaymentRestoresNonZeroRemaining(t *testing.T) {
	// Deleting the final 333.33 payment of a 1000/3 plan must restore the
	// derived remaining amount, not blindly trust the stored zero.
	card := testCard()
	card.Transactions = []model.Transaction{
		installment("i1", model.NewDate(2026, time.January, 10), 1000, 3),
	}
	var lastPay model.Transaction
	for i := 0; i < 3; i++ {
		var err error
		card, lastPay, err = PayInstallment(card, "i1", model.NewDate(2026, time.February, 1))
		require.NoError(t, err)
	}

	updated, err := DeleteTransaction(card, lastPay.ID)
	require.NoError(t, err)

	inst := updated.Installment("i1")
	require.NotNil(t, inst)
	assert.Equal(t, 2, inst.PaidMonths)
	assert.False(t, inst.Settled())
	assertMoney(t, "333.33", inst.RemainingAmount)
}

func TestDeleteInstallment_CascadesToPayments(t *testing.T) {
	card := testCard()
	card.Transactions = []model.Transaction{
		installment("i1", model.NewDate(2026, time.August, 1), 1200, 12),
		expense("e1", model.NewDate(2026, time.September, 1), 200),
	}
	card, _, err := PayInstallment(card, "i1", model.NewDate(2026, time.September, 10))
	require.NoError(t, err)
	card, _, err = PayInstallment(card, "i1", model.NewDate(2026, time.October, 10))
	require.NoError(t, err)
	require.Len(t, card.Transactions, 4)

	updated, err := DeleteInstallment(card, "i1")
	require.NoError(t, err)

	assert.Len(t, updated.Transactions, 1)
	assert.NotNil(t, updated.Transaction("e1"))
	for _, tx := range updated.Transactions {
		assert.NotEqual(t, "i1", tx.InstallmentID)
	}
}

func TestDeleteTransaction_InstallmentPurchaseCascades(t *testing.T) {
	card := testCard()
	card.Transactions = []model.Transaction{
		installment("i1", model.NewDate(2026, time.August, 1), 1200, 12),
	}
	card, _, err := PayInstallment(card, "i1", model.NewDate(2026, time.September, 10))
	require.NoError(t, err)

	// Deleting the purchase itself takes the linked payments with it.
	updated, err := DeleteTransaction(card, "i1")
	require.NoError(t, err)
	assert.Empty(t, updated.Transactions)
}

func TestProgress(t *testing.T) {
	card := testCard()
	settled := installment("i1", model.NewDate(2025, time.May, 1), 600, 6)
	settled.PaidMonths = 6
	active := installment("i2", model.NewDate(2026, time.August, 1), 1200, 12)
	active.PaidMonths = 3
	card.Transactions = []model.Transaction{
		settled,
		active,
		expense("e1", model.NewDate(2026, time.September, 1), 200),
	}

	progress := Progress(card)
	require.Len(t, progress, 2)

	assert.True(t, progress[0].Settled)
	assertMoney(t, "0", progress[0].Remaining)

	assert.False(t, progress[1].Settled)
	assertMoney(t, "900", progress[1].Remaining)
}
