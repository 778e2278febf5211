package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lunario/corte/internal/model"
)

// GetBudget loads the configured budget, or nil when none exists.
func (s *SQLiteStorage) GetBudget(ctx context.Context) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		total, rollover, start string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT total_amount, rollover_option, start_date FROM budget WHERE id = 1
	`).Scan(&total, &rollover, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	b := &model.Budget{RolloverOption: model.RolloverOption(rollover)}
	if b.TotalAmount, err = parseAmount(total, "total_amount"); err != nil {
		return nil, err
	}
	if b.StartDate, err = model.ParseDate(start); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount, date FROM budget_expenses ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			exp          model.BudgetExpense
			description  sql.NullString
			amount, date string
		)
		if err := rows.Scan(&exp.ID, &description, &amount, &date); err != nil {
			return nil, fmt.Errorf("failed to scan budget expense: %w", err)
		}
		exp.Description = description.String
		if exp.Amount, err = parseAmount(amount, "amount"); err != nil {
			return nil, err
		}
		if exp.Date, err = model.ParseDate(date); err != nil {
			return nil, err
		}
		b.Expenses = append(b.Expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budget expenses: %w", err)
	}
	return b, nil
}

// SaveBudget replaces the budget and its expenses atomically.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, b *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveBudgetTx(ctx, tx, b); err != nil {
		return err
	}
	return tx.Commit()
}

func saveBudgetTx(ctx context.Context, tx *sql.Tx, b *model.Budget) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO budget (id, total_amount, rollover_option, start_date)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_amount = excluded.total_amount,
			rollover_option = excluded.rollover_option,
			start_date = excluded.start_date
	`, b.TotalAmount.String(), string(b.RolloverOption), b.StartDate.String())
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM budget_expenses`); err != nil {
		return fmt.Errorf("failed to clear budget expenses: %w", err)
	}

	for _, exp := range b.Expenses {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO budget_expenses (id, description, amount, date)
			VALUES (?, ?, ?, ?)
		`, exp.ID, exp.Description, exp.Amount.String(), exp.Date.String())
		if err != nil {
			return fmt.Errorf("failed to save budget expense %s: %w", exp.ID, err)
		}
	}
	return nil
}

// DeleteBudget removes the budget and all its expenses.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM budget_expenses`); err != nil {
		return fmt.Errorf("failed to delete budget expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM budget`); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return tx.Commit()
}
