package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songrec/internal/models"
	"github.com/desertthunder/songrec/internal/services"
	"github.com/desertthunder/songrec/internal/shared"
	"github.com/tidwall/gjson"
)

// TypoMismatchReason replaces the model's reason when [TypoMismatch] overrides a valid verdict.
const TypoMismatchReason = "apparent typo mismatch"

// SongValidator asks a [services.TextModel] whether an input names a real song.
type SongValidator struct {
	model  services.TextModel
	logger *log.Logger
}

// NewSongValidator creates a validator backed by model.
func NewSongValidator(model services.TextModel, logger *log.Logger) *SongValidator {
	if logger == nil {
		logger = log.Default()
	}
	return &SongValidator{model: model, logger: logger}
}

// Validate resolves raw to a canonical song.
//
// Errors wrap [shared.ErrUpstream] when the model call fails and [shared.ErrMalformedResponse]
// when the reply does not have the expected shape. An invalid result always has a reason.
func (v *SongValidator) Validate(ctx context.Context, raw string) (*models.ValidationResult, error) {
	reply, err := v.model.Generate(ctx, validationPrompt(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	if strings.TrimSpace(reply) == "" {
		return nil, fmt.Errorf("%w: empty reply from %s", shared.ErrUpstream, v.model.Name())
	}

	doc, err := decodeObject(reply)
	if err != nil {
		return nil, err
	}

	result, err := parseVerdict(doc)
	if err != nil {
		return nil, err
	}

	var title string
	if result.Song != nil {
		title = result.Song.Title
	}
	// An absent name compares as empty, so very short inputs fail without one.
	if result.IsValid && TypoMismatch(raw, title) {
		v.logger.Debug("overriding valid verdict", "input", raw, "song", title)
		result.IsValid = false
		result.Reason = TypoMismatchReason
	}

	if !result.IsValid && result.Reason == "" {
		result.Reason = models.DefaultInvalidReason
	}
	return result, nil
}

func parseVerdict(doc gjson.Result) (*models.ValidationResult, error) {
	verdict := doc.Get("isValid")
	if verdict.Type != gjson.True && verdict.Type != gjson.False {
		return nil, fmt.Errorf("%w: field \"isValid\" is %s, want boolean", shared.ErrMalformedResponse, verdict.Type)
	}

	title, err := optionalString(doc, "songName")
	if err != nil {
		return nil, err
	}
	artist, err := optionalString(doc, "artist")
	if err != nil {
		return nil, err
	}
	reason, err := optionalString(doc, "reason")
	if err != nil {
		return nil, err
	}

	result := &models.ValidationResult{IsValid: verdict.Bool(), Reason: reason}
	if title != "" {
		result.Song = &models.CanonicalSong{Title: title, Artist: artist}
	}
	return result, nil
}

// TypoMismatch reports whether songName looks like a near miss of raw.
//
// Both strings are lower-cased and reduced to [a-z0-9]. They mismatch when they differ
// and their lengths are within two characters of each other. This is a coarse check:
// it also fires on legitimate corrections such as added punctuation or differing case
// in accented titles, and misses typos that change length by more than two.
func TypoMismatch(raw, songName string) bool {
	a := shared.NormalizeAlnum(raw)
	b := shared.NormalizeAlnum(songName)
	if a == b {
		return false
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 2
}
