// Package bundle encodes and decodes the export/import backup format. The
// current envelope is {version, theme, cards, budget}; bare arrays of cards
// produced by old versions are still accepted. Payloads are checked against
// a JSON Schema before decoding so malformed files are rejected with a
// useful message instead of half-imported state.
package bundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lunario/corte/internal/model"
	"github.com/xeipuuv/gojsonschema"
)

// Version is the envelope version written by Export.
const Version = 2

// FallbackTheme is applied when an import carries no theme (legacy bundles).
const FallbackTheme = "light"

// ErrInvalidBundle indicates the payload is not a recognizable backup.
var ErrInvalidBundle = errors.New("invalid backup bundle")

// Bundle is the full exported application state.
type Bundle struct {
	Version int           `json:"version"`
	Theme   string        `json:"theme"`
	Cards   []model.Card  `json:"cards"`
	Budget  *model.Budget `json:"budget"`
}

var envelopeSchema, legacySchema *gojsonschema.Schema

func init() {
	envelopeSchema = mustCompile(envelopeSchemaJSON)
	legacySchema = mustCompile(legacySchemaJSON)
}

func mustCompile(root string) *gojsonschema.Schema {
	loader := gojsonschema.NewSchemaLoader()
	if err := loader.AddSchema("corte://card", gojsonschema.NewStringLoader(cardSchemaJSON)); err != nil {
		panic(fmt.Sprintf("bundle: card schema: %v", err))
	}
	schema, err := loader.Compile(gojsonschema.NewStringLoader(root))
	if err != nil {
		panic(fmt.Sprintf("bundle: schema: %v", err))
	}
	return schema
}

// Export serializes the full application state as a versioned envelope.
func Export(cards []model.Card, budget *model.Budget, theme string) ([]byte, error) {
	if theme == "" {
		theme = FallbackTheme
	}
	if cards == nil {
		cards = []model.Card{}
	}
	b := Bundle{
		Version: Version,
		Theme:   theme,
		Cards:   cards,
		Budget:  budget,
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle: %w", err)
	}
	return data, nil
}

// Decode parses a backup payload, accepting either the versioned envelope
// or a legacy bare array of cards. Legacy payloads decode with no budget
// and the fallback theme.
func Decode(data []byte) (Bundle, error) {
	trimmed := bytes.TrimLeftFunc(data, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(trimmed) == 0 {
		return Bundle{}, fmt.Errorf("%w: empty payload", ErrInvalidBundle)
	}

	if trimmed[0] == '[' {
		return decodeLegacy(data)
	}
	return decodeEnvelope(data)
}

func decodeEnvelope(data []byte) (Bundle, error) {
	if err := validate(envelopeSchema, data); err != nil {
		return Bundle{}, err
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if b.Theme == "" {
		b.Theme = FallbackTheme
	}
	if b.Budget != nil && !b.Budget.TotalAmount.IsPositive() {
		// A budget that was never configured exports as an empty object.
		b.Budget = nil
	}
	return b, nil
}

func decodeLegacy(data []byte) (Bundle, error) {
	if err := validate(legacySchema, data); err != nil {
		return Bundle{}, err
	}
	var cards []model.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	return Bundle{
		Version: 1,
		Theme:   FallbackTheme,
		Cards:   cards,
	}, nil
}

func validate(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidBundle, strings.Join(details, "; "))
}
