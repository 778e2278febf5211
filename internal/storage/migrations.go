package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Cards and transaction ledger",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS cards (
					id TEXT PRIMARY KEY,
					alias TEXT NOT NULL,
					bank TEXT,
					last4 TEXT,
					credit_limit TEXT NOT NULL,
					cutoff_day INTEGER NOT NULL,
					payment_day INTEGER NOT NULL,
					has_cashback INTEGER NOT NULL DEFAULT 0,
					cashback_percentage TEXT NOT NULL DEFAULT '0',
					position INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				// Amounts are stored as canonical decimal strings; REAL
				// columns would reintroduce the float drift the ledger
				// guards against.
				// Transaction ids are scoped to their card, so the key is
				// composite: two cards may carry the same entry id.
				`CREATE TABLE IF NOT EXISTS card_transactions (
					id TEXT NOT NULL,
					card_id TEXT NOT NULL,
					type TEXT NOT NULL,
					date TEXT NOT NULL,
					description TEXT,
					amount TEXT,
					installment_id TEXT,
					total_amount TEXT,
					months INTEGER NOT NULL DEFAULT 0,
					paid_months INTEGER NOT NULL DEFAULT 0,
					monthly_payment TEXT,
					remaining_amount TEXT,
					position INTEGER NOT NULL DEFAULT 0,
					PRIMARY KEY (card_id, id),
					FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_card_transactions_card ON card_transactions(card_id)`,
				`CREATE INDEX idx_card_transactions_installment ON card_transactions(installment_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Monthly budget and its expenses",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				// A single-row table: there is exactly one budget.
				`CREATE TABLE IF NOT EXISTS budget (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					total_amount TEXT NOT NULL,
					rollover_option TEXT NOT NULL DEFAULT 'nextDay',
					start_date TEXT NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS budget_expenses (
					id TEXT PRIMARY KEY,
					description TEXT,
					amount TEXT NOT NULL,
					date TEXT NOT NULL
				)`,
				`CREATE INDEX idx_budget_expenses_date ON budget_expenses(date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Settings key-value store",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS settings (
					key TEXT PRIMARY KEY,
					value TEXT NOT NULL
				)
			`)
			return err
		},
	},
}

// SchemaVersion reports the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies all pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
