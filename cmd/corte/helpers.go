package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/lunario/corte/internal/common"
	"github.com/lunario/corte/internal/config"
	"github.com/lunario/corte/internal/model"
	"github.com/lunario/corte/internal/service"
	"github.com/lunario/corte/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/corte/corte.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// resolveCard finds a card by id, falling back to alias lookup so commands
// accept either.
func resolveCard(ctx context.Context, store service.Storage, ref string) (*model.Card, error) {
	card, err := store.GetCard(ctx, ref)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	card, err = store.GetCardByAlias(ctx, ref)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewUserError(fmt.Sprintf("no card with id or alias %q", ref), err)
		}
		return nil, err
	}
	return card, nil
}

// parseMoney parses a positive currency amount from a flag value.
func parseMoney(s, flag string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s value %q: %w", flag, s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("--%s must be positive, got %s", flag, s)
	}
	return d, nil
}

// parseDateFlag parses a --date flag, defaulting to today when empty.
func parseDateFlag(s string) (model.Date, error) {
	if s == "" {
		return model.Today(), nil
	}
	return model.ParseDate(s)
}

// money renders an amount for terminal output.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// activeTheme reads the stored theme, falling back when none was ever set.
func activeTheme(ctx context.Context, store service.Storage, fallback string) string {
	theme, err := store.GetSetting(ctx, service.SettingTheme)
	if err != nil {
		return fallback
	}
	return theme
}
