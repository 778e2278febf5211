// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/lunario/corte/internal/model"
)

// SettingTheme is the settings key holding the active UI theme.
const SettingTheme = "theme"

// Storage defines the contract for our persistence layer. Card writes are
// atomic: SaveCard persists the card and its whole ledger in one database
// transaction, so a half-written ledger can never be observed.
type Storage interface {
	// Card operations.
	SaveCard(ctx context.Context, card *model.Card) error
	GetCard(ctx context.Context, id string) (*model.Card, error)
	GetCardByAlias(ctx context.Context, alias string) (*model.Card, error)
	ListCards(ctx context.Context) ([]model.Card, error)
	DeleteCard(ctx context.Context, id string) error

	// Budget operations. GetBudget returns nil when no budget is configured.
	GetBudget(ctx context.Context) (*model.Budget, error)
	SaveBudget(ctx context.Context, b *model.Budget) error
	DeleteBudget(ctx context.Context) error

	// Settings.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// ReplaceAll swaps the entire application state atomically (bundle
	// import).
	ReplaceAll(ctx context.Context, cards []model.Card, budget *model.Budget, theme string) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
