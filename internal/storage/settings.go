package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lunario/corte/internal/common"
	"github.com/lunario/corte/internal/model"
	"github.com/lunario/corte/internal/service"
)

// GetSetting returns a settings value. Missing keys yield common.ErrNotFound.
func (s *SQLiteStorage) GetSetting(ctx context.Context, key string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(key, "key"); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: setting %s", common.ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts a settings value.
func (s *SQLiteStorage) SetSetting(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// ReplaceAll swaps the entire application state in one transaction: every
// card and its ledger, the budget, and the active theme. Used by bundle
// import, where partial application would be worse than failing whole.
func (s *SQLiteStorage) ReplaceAll(ctx context.Context, cards []model.Card, budget *model.Budget, theme string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i := range cards {
		if err := validateCard(&cards[i]); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"card_transactions", "cards", "budget_expenses", "budget"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i := range cards {
		if err := saveCardTx(ctx, tx, &cards[i], i); err != nil {
			return err
		}
	}
	if budget != nil {
		if err := saveBudgetTx(ctx, tx, budget); err != nil {
			return err
		}
	}
	if theme != "" {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, service.SettingTheme, theme)
		if err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
	}

	return tx.Commit()
}
