// Package storage provides the data persistence layer for the application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lunario/corte/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidCard  = errors.New("invalid card")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCard checks the fields storage itself depends on. Full ledger
// validation is the ledger package's job; storage only refuses records it
// could not round-trip.
func validateCard(card *model.Card) error {
	if card == nil {
		return fmt.Errorf("%w: card", ErrNilParameter)
	}
	if card.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCard)
	}
	if strings.TrimSpace(card.Alias) == "" {
		return fmt.Errorf("%w: missing alias", ErrInvalidCard)
	}
	for i, tx := range card.Transactions {
		if tx.ID == "" {
			return fmt.Errorf("%w: transaction %d missing id", ErrInvalidCard, i)
		}
		if tx.Date.IsZero() {
			return fmt.Errorf("%w: transaction %d missing date", ErrInvalidCard, i)
		}
	}
	return nil
}
