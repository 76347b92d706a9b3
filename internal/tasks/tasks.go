package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songrec/internal/models"
	"github.com/desertthunder/songrec/internal/services"
	"github.com/desertthunder/songrec/internal/shared"
)

// Messages returned to clients in [models.FailureResponse] bodies.
const (
	EmptyInputMessage          = "Please enter a song name or YouTube URL"
	invalidSongFormat          = "Invalid song: %s"
	validationFailedFormat     = "Failed to validate song: %v"
	recommendFailedFormat      = "Failed to generate recommendations: %v"
	didYouMeanFormat           = "Did you mean \"%s\"?"
	didYouMeanWithArtistFormat = "Did you mean \"%s\" by %s?"
)

// DefaultRequestTimeout bounds a whole [Orchestrator.Handle] call when no timeout is configured.
const DefaultRequestTimeout = 60 * time.Second

// Outcome is the terminal result of one request.
//
// Exactly one of Set or Failure is non-nil. Status is the HTTP status the outcome maps to and
// Err carries the underlying cause for logging (nil on success).
type Outcome struct {
	Status  int
	Set     *models.RecommendationSet
	Failure *models.FailureResponse
	Err     error
}

// Body returns the value to serialize as the response body.
//
// Server errors carry only the message, client errors the full [models.FailureResponse].
func (o *Outcome) Body() any {
	switch {
	case o.Set != nil:
		return o.Set
	case o.Status >= http.StatusInternalServerError:
		return models.ErrorResponse{Error: o.Failure.Error}
	default:
		return o.Failure
	}
}

// Pipeline handles a single recommendation request end to end.
type Pipeline interface {
	// Handle validates raw and returns recommendations, suggestions, or an error outcome.
	Handle(ctx context.Context, raw string, progress chan<- ProgressUpdate) *Outcome
}

// Options configures an [Orchestrator].
type Options struct {
	RecommendationCount int           // Recommendations per request (default 5)
	SuggestionCount     int           // Suggestions after a failed validation (default 3)
	MaxConcurrency      int           // Concurrent video resolutions (default 5)
	RequestTimeout      time.Duration // Deadline for the whole request (default 60s)
	OnResolved          func(resolved bool)
	Logger              *log.Logger
}

// Orchestrator implements [Pipeline] on top of a [services.TextModel] and a [services.LinkConfirmer].
type Orchestrator struct {
	validator *SongValidator
	suggester *SuggestionGenerator
	resolver  *LinkResolver
	engine    *RecommendationEngine
	timeout   time.Duration
	logger    *log.Logger
}

// NewOrchestrator wires the validator, suggestion generator, resolver and engine together.
func NewOrchestrator(model services.TextModel, confirmer services.LinkConfirmer, opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	resolver := NewLinkResolver(model, confirmer, opts.Logger.WithPrefix("resolver"))
	return &Orchestrator{
		validator: NewSongValidator(model, opts.Logger.WithPrefix("validator")),
		suggester: NewSuggestionGenerator(model, opts.SuggestionCount, opts.Logger.WithPrefix("suggest")),
		resolver:  resolver,
		engine: NewRecommendationEngine(model, resolver, EngineOpts{
			Count:          opts.RecommendationCount,
			MaxConcurrency: opts.MaxConcurrency,
			OnResolved:     opts.OnResolved,
			Logger:         opts.Logger.WithPrefix("engine"),
		}),
		timeout: opts.RequestTimeout,
		logger:  opts.Logger,
	}
}

// Validator exposes the song validator for single-step use.
func (o *Orchestrator) Validator() *SongValidator { return o.validator }

// Suggester exposes the suggestion generator for single-step use.
func (o *Orchestrator) Suggester() *SuggestionGenerator { return o.suggester }

// Resolver exposes the link resolver for single-step use.
func (o *Orchestrator) Resolver() *LinkResolver { return o.resolver }

// Engine exposes the recommendation engine for single-step use.
func (o *Orchestrator) Engine() *RecommendationEngine { return o.engine }

// Handle runs the full pipeline for raw.
//
// Blank input is rejected before any external call. An invalid song yields a 400 with best-effort
// suggestions, a failing model or lookup a 500, and a valid song a 200 with the recommendation set.
func (o *Orchestrator) Handle(ctx context.Context, raw string, progress chan<- ProgressUpdate) *Outcome {
	outcome := o.handle(ctx, raw, progress)
	sendProgress(progress, doneUpdate(outcome.Status))
	return outcome
}

func (o *Orchestrator) handle(ctx context.Context, raw string, progress chan<- ProgressUpdate) *Outcome {
	if models.SongQuery(raw).Blank() {
		return failure(http.StatusBadRequest, EmptyInputMessage, nil, nil, shared.ErrEmptyInput)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	sendProgress(progress, validatingUpdate(raw))
	result, err := o.validator.Validate(ctx, raw)
	if err != nil {
		o.logger.Error("validation failed", "input", raw, "error", err)
		return failure(shared.StatusFor(err), fmt.Sprintf(validationFailedFormat, err), nil, nil, err)
	}
	sendProgress(progress, validatedUpdate(result))

	if !result.IsValid {
		sendProgress(progress, suggestingUpdate(raw))
		suggestions := o.suggester.Suggest(ctx, raw)

		var hint *string
		if result.Song != nil {
			h := didYouMean(*result.Song)
			hint = &h
		}
		return failure(
			http.StatusBadRequest,
			fmt.Sprintf(invalidSongFormat, result.Reason),
			hint,
			suggestions,
			fmt.Errorf("%w: %s", shared.ErrInvalidSong, result.Reason),
		)
	}

	song := models.CanonicalSong{Title: raw}
	if result.Song != nil {
		song = *result.Song
	}

	set, err := o.engine.Recommend(ctx, song, progress)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			o.logger.Warn("request timed out", "input", raw, "timeout", o.timeout)
		}
		o.logger.Error("recommendation failed", "song", song.Label(), "error", err)
		return failure(shared.StatusFor(err), fmt.Sprintf(recommendFailedFormat, err), nil, nil, err)
	}

	set.OriginalSong = set.OriginalSong.WithDefaults()
	return &Outcome{Status: http.StatusOK, Set: set}
}

func didYouMean(song models.CanonicalSong) string {
	if song.Artist == "" {
		return fmt.Sprintf(didYouMeanFormat, song.Title)
	}
	return fmt.Sprintf(didYouMeanWithArtistFormat, song.Title, song.Artist)
}

func failure(status int, msg string, hint *string, suggestions []string, err error) *Outcome {
	return &Outcome{
		Status:  status,
		Failure: models.NewFailureResponse(msg, hint, suggestions),
		Err:     err,
	}
}
