package tasks

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songrec/internal/services"
	"github.com/desertthunder/songrec/internal/shared"
	"github.com/tidwall/gjson"
)

// DefaultSuggestionCount is the number of alternatives asked for when none is configured.
const DefaultSuggestionCount = 3

// SuggestionGenerator proposes titles the user may have meant after a failed validation.
//
// It is best effort: every failure is logged and turned into an empty list.
type SuggestionGenerator struct {
	model  services.TextModel
	count  int
	logger *log.Logger
}

// NewSuggestionGenerator creates a generator asking for count alternatives.
func NewSuggestionGenerator(model services.TextModel, count int, logger *log.Logger) *SuggestionGenerator {
	if count <= 0 {
		count = DefaultSuggestionCount
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SuggestionGenerator{model: model, count: count, logger: logger}
}

// Suggest returns alternative titles for raw. The result is never nil.
func (g *SuggestionGenerator) Suggest(ctx context.Context, raw string) []string {
	suggestions := []string{}

	reply, err := g.model.Generate(ctx, suggestionPrompt(raw, g.count))
	if err != nil {
		g.logger.Warn("suggestion request failed", "input", raw, "error", err)
		return suggestions
	}

	doc, err := decodeArray(reply)
	if err != nil {
		g.logger.Warn("discarding suggestions", "input", raw, "error", err, "reply", shared.Truncate(reply, 80))
		return suggestions
	}

	doc.ForEach(func(_, value gjson.Result) bool {
		if value.Type != gjson.String {
			return true
		}
		if s := strings.TrimSpace(value.String()); s != "" {
			suggestions = append(suggestions, s)
		}
		return true
	})
	return suggestions
}
