package bundle

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lunario/corte/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCard() model.Card {
	return model.Card{
		ID:         "card-1",
		Alias:      "everyday",
		Bank:       "BancoSur",
		Last4:      "4242",
		Limit:      decimal.NewFromInt(10000),
		CutoffDay:  15,
		PaymentDay: 5,
		Transactions: []model.Transaction{
			{
				ID:     "e1",
				Type:   model.TypeExpense,
				Date:   model.NewDate(2026, time.September, 1),
				Amount: decimal.NewFromInt(200),
			},
			{
				ID:              "i1",
				Type:            model.TypeInstallmentPurchase,
				Date:            model.NewDate(2026, time.August, 1),
				Description:     "laptop",
				TotalAmount:     decimal.NewFromInt(1200),
				Months:          12,
				MonthlyPayment:  decimal.NewFromInt(100),
				PaidMonths:      2,
				RemainingAmount: decimal.NewFromInt(1000),
			},
		},
	}
}

func TestExportDecodeRoundTrip(t *testing.T) {
	budget := &model.Budget{
		TotalAmount:    decimal.NewFromInt(3000),
		RolloverOption: model.RolloverNextDay,
		StartDate:      model.NewDate(2026, time.September, 1),
		Expenses: []model.BudgetExpense{
			{
				ID:          "x1",
				Description: "groceries",
				Amount:      decimal.RequireFromString("45.50"),
				Date:        model.NewDate(2026, time.September, 3),
			},
		},
	}

	data, err := Export([]model.Card{sampleCard()}, budget, "dark")
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, Version, got.Version)
	assert.Equal(t, "dark", got.Theme)
	require.Len(t, got.Cards, 1)

	card := got.Cards[0]
	assert.Equal(t, "card-1", card.ID)
	assert.Equal(t, 15, card.CutoffDay)
	require.Len(t, card.Transactions, 2)
	assert.True(t, card.Transactions[0].Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 2, card.Transactions[1].PaidMonths)
	assert.True(t, card.Transactions[1].Date.Equal(model.NewDate(2026, time.August, 1).Time))

	require.NotNil(t, got.Budget)
	assert.True(t, got.Budget.TotalAmount.Equal(decimal.NewFromInt(3000)))
	require.Len(t, got.Budget.Expenses, 1)
	assert.True(t, got.Budget.Expenses[0].Amount.Equal(decimal.RequireFromString("45.50")))
}

func TestExport_Defaults(t *testing.T) {
	data, err := Export(nil, nil, "")
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `[]`, string(raw["cards"]), "nil cards export as an empty array")
	assert.JSONEq(t, `"light"`, string(raw["theme"]))

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Nil(t, got.Budget)
	assert.Empty(t, got.Cards)
}

func TestDecode_LegacyArray(t *testing.T) {
	payload := `[
		{
			"id": "card-1",
			"alias": "old export",
			"limit": 5000,
			"cutoffDay": 10,
			"paymentDay": 28,
			"transactions": [
				{"id": "e1", "type": "expense", "date": "2025-12-01", "amount": 123.45}
			]
		}
	]`

	got, err := Decode([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, 1, got.Version)
	assert.Equal(t, FallbackTheme, got.Theme)
	assert.Nil(t, got.Budget)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, "old export", got.Cards[0].Alias)
	require.Len(t, got.Cards[0].Transactions, 1)
	assert.True(t, got.Cards[0].Transactions[0].Amount.Equal(decimal.RequireFromString("123.45")))
}

func TestDecode_LegacyArrayWithLeadingWhitespace(t *testing.T) {
	payload := "\n\t [{\"id\": \"c\", \"limit\": 100, \"cutoffDay\": 1, \"paymentDay\": 15}]"

	got, err := Decode([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	require.Len(t, got.Cards, 1)
}

func TestDecode_EnvelopeWithoutTheme(t *testing.T) {
	payload := `{"version": 2, "cards": []}`

	got, err := Decode([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, FallbackTheme, got.Theme)
}

func TestDecode_EmptyBudgetDropsToNil(t *testing.T) {
	payload := `{"version": 2, "cards": [], "budget": {"totalAmount": 0, "expenses": []}}`

	got, err := Decode([]byte(payload))
	require.NoError(t, err)
	assert.Nil(t, got.Budget, "a never-configured budget decodes as absent")
}

func TestDecode_DateWithTimeComponent(t *testing.T) {
	// Browser exports carry full ISO timestamps.
	payload := `{"version": 2, "cards": [
		{"id": "c", "limit": 100, "cutoffDay": 1, "paymentDay": 15, "transactions": [
			{"id": "e1", "type": "expense", "date": "2026-01-05T13:45:00.000Z", "amount": 10}
		]}
	]}`

	got, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, got.Cards, 1)
	require.Len(t, got.Cards[0].Transactions, 1)
	assert.True(t, got.Cards[0].Transactions[0].Date.Equal(model.NewDate(2026, time.January, 5).Time))
}

func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty payload", payload: ""},
		{name: "whitespace only", payload: "  \n  "},
		{name: "not json", payload: "definitely not json"},
		{name: "missing version", payload: `{"cards": []}`},
		{name: "missing cards", payload: `{"version": 2}`},
		{name: "cards not an array", payload: `{"version": 2, "cards": 5}`},
		{name: "card missing cutoff day", payload: `{"version": 2, "cards": [{"id": "c", "limit": 100, "paymentDay": 15}]}`},
		{name: "cutoff day out of range", payload: `{"version": 2, "cards": [{"id": "c", "limit": 100, "cutoffDay": 45, "paymentDay": 15}]}`},
		{name: "unknown transaction type", payload: `{"version": 2, "cards": [{"id": "c", "limit": 100, "cutoffDay": 1, "paymentDay": 15, "transactions": [{"id": "t", "type": "transfer", "date": "2026-01-01"}]}]}`},
		{name: "legacy array with bad card", payload: `[{"alias": "no id"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrInvalidBundle)
		})
	}
}
