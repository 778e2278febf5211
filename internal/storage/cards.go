package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lunario/corte/internal/common"
	"github.com/lunario/corte/internal/model"
	"github.com/shopspring/decimal"
)

// SaveCard upserts a card together with its whole transaction ledger in one
// database transaction. The ledger rows are replaced wholesale: callers
// mutate cards through ledger transitions and persist the result, so the
// stored ledger always matches one consistent in-memory state.
func (s *SQLiteStorage) SaveCard(ctx context.Context, card *model.Card) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCard(card); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveCardTx(ctx, tx, card, nextPosition(ctx, tx)); err != nil {
		return err
	}

	return tx.Commit()
}

// nextPosition returns the position a newly inserted card should take so
// listing preserves creation order.
func nextPosition(ctx context.Context, tx *sql.Tx) int {
	var max sql.NullInt64
	_ = tx.QueryRowContext(ctx, `SELECT MAX(position) FROM cards`).Scan(&max)
	if max.Valid {
		return int(max.Int64) + 1
	}
	return 0
}

func saveCardTx(ctx context.Context, tx *sql.Tx, card *model.Card, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO cards (id, alias, bank, last4, credit_limit, cutoff_day, payment_day, has_cashback, cashback_percentage, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			alias = excluded.alias,
			bank = excluded.bank,
			last4 = excluded.last4,
			credit_limit = excluded.credit_limit,
			cutoff_day = excluded.cutoff_day,
			payment_day = excluded.payment_day,
			has_cashback = excluded.has_cashback,
			cashback_percentage = excluded.cashback_percentage
	`, card.ID, card.Alias, card.Bank, card.Last4, card.Limit.String(),
		card.CutoffDay, card.PaymentDay, card.HasCashback, card.CashbackPercentage.String(), position)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM card_transactions WHERE card_id = ?`, card.ID); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO card_transactions (id, card_id, type, date, description, amount, installment_id, total_amount, months, paid_months, monthly_payment, remaining_amount, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, entry := range card.Transactions {
		var installmentID any
		if entry.InstallmentID != "" {
			installmentID = entry.InstallmentID
		}
		_, err = stmt.ExecContext(ctx,
			entry.ID,
			card.ID,
			string(entry.Type),
			entry.Date.String(),
			entry.Description,
			entry.Amount.String(),
			installmentID,
			entry.TotalAmount.String(),
			entry.Months,
			entry.PaidMonths,
			entry.MonthlyPayment.String(),
			entry.RemainingAmount.String(),
			i,
		)
		if err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", entry.ID, err)
		}
	}
	return nil
}

// GetCard fetches a card and its ledger by id. Returns common.ErrNotFound
// when the card does not exist.
func (s *SQLiteStorage) GetCard(ctx context.Context, id string) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getCardWhere(ctx, "id = ?", id)
}

// GetCardByAlias fetches a card by its alias.
func (s *SQLiteStorage) GetCardByAlias(ctx context.Context, alias string) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(alias, "alias"); err != nil {
		return nil, err
	}
	return s.getCardWhere(ctx, "alias = ?", alias)
}

func (s *SQLiteStorage) getCardWhere(ctx context.Context, where string, arg any) (*model.Card, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, alias, bank, last4, credit_limit, cutoff_day, payment_day, has_cashback, cashback_percentage
		FROM cards WHERE `+where, arg)

	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: card %v", common.ErrNotFound, arg)
		}
		return nil, err
	}

	if card.Transactions, err = s.getTransactions(ctx, card.ID); err != nil {
		return nil, err
	}
	return card, nil
}

// ListCards returns all cards with their ledgers in creation order.
func (s *SQLiteStorage) ListCards(ctx context.Context) ([]model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, alias, bank, last4, credit_limit, cutoff_day, payment_day, has_cashback, cashback_percentage
		FROM cards ORDER BY position, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []model.Card
	for rows.Next() {
		card, scanErr := scanCard(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	for i := range cards {
		if cards[i].Transactions, err = s.getTransactions(ctx, cards[i].ID); err != nil {
			return nil, err
		}
	}
	return cards, nil
}

// DeleteCard removes a card; its ledger rows cascade.
func (s *SQLiteStorage) DeleteCard(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: card %s", common.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*model.Card, error) {
	var (
		card            model.Card
		bank, last4     sql.NullString
		limit, cashback string
	)
	err := row.Scan(&card.ID, &card.Alias, &bank, &last4, &limit,
		&card.CutoffDay, &card.PaymentDay, &card.HasCashback, &cashback)
	if err != nil {
		return nil, err
	}
	card.Bank = bank.String
	card.Last4 = last4.String
	if card.Limit, err = parseAmount(limit, "credit_limit"); err != nil {
		return nil, err
	}
	if card.CashbackPercentage, err = parseAmount(cashback, "cashback_percentage"); err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *SQLiteStorage) getTransactions(ctx context.Context, cardID string) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, date, description, amount, installment_id, total_amount, months, paid_months, monthly_payment, remaining_amount
		FROM card_transactions WHERE card_id = ? ORDER BY position
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		var (
			tx                                model.Transaction
			txType, date                      string
			description, installmentID        sql.NullString
			amount, total, monthly, remaining sql.NullString
		)
		err := rows.Scan(&tx.ID, &txType, &date, &description, &amount,
			&installmentID, &total, &tx.Months, &tx.PaidMonths, &monthly, &remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Type = model.TransactionType(txType)
		tx.Description = description.String
		tx.InstallmentID = installmentID.String
		if tx.Date, err = model.ParseDate(date); err != nil {
			return nil, err
		}
		if tx.Amount, err = parseNullAmount(amount, "amount"); err != nil {
			return nil, err
		}
		if tx.TotalAmount, err = parseNullAmount(total, "total_amount"); err != nil {
			return nil, err
		}
		if tx.MonthlyPayment, err = parseNullAmount(monthly, "monthly_payment"); err != nil {
			return nil, err
		}
		if tx.RemainingAmount, err = parseNullAmount(remaining, "remaining_amount"); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger: %w", err)
	}
	return out, nil
}

func parseAmount(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt %s value %q: %w", field, s, err)
	}
	return d, nil
}

func parseNullAmount(s sql.NullString, field string) (decimal.Decimal, error) {
	if !s.Valid || s.String == "" {
		return decimal.Zero, nil
	}
	return parseAmount(s.String, field)
}
