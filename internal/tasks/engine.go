package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songrec/internal/models"
	"github.com/desertthunder/songrec/internal/services"
	"github.com/desertthunder/songrec/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRecommendationCount = 5
	DefaultMaxConcurrency      = 5
)

// LinkSource resolves a song to a video link that never needs error handling.
//
// Implemented by [LinkResolver].
type LinkSource interface {
	Resolve(ctx context.Context, title, artist string) string
}

// EngineOpts configures a [RecommendationEngine].
type EngineOpts struct {
	Count          int                 // Recommendations to request and keep (default 5)
	MaxConcurrency int                 // Concurrent link resolutions (default 5)
	OnResolved     func(resolved bool) // Called once per finished resolution, may be nil
	Logger         *log.Logger
}

// RecommendationEngine produces similar songs for a verified song and attaches video links.
type RecommendationEngine struct {
	model      services.TextModel
	links      LinkSource
	count      int
	limit      int
	onResolved func(bool)
	logger     *log.Logger
}

// NewRecommendationEngine creates an engine from a model and a link source.
func NewRecommendationEngine(model services.TextModel, links LinkSource, opts EngineOpts) *RecommendationEngine {
	if opts.Count <= 0 {
		opts.Count = DefaultRecommendationCount
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &RecommendationEngine{
		model:      model,
		links:      links,
		count:      opts.Count,
		limit:      opts.MaxConcurrency,
		onResolved: opts.OnResolved,
		logger:     opts.Logger,
	}
}

// Recommend returns recommendations for song in the order the model gave them.
//
// Every entry carries a confirmed video link or [models.UnresolvedVideoURL]. The call fails
// with [shared.ErrUpstream] when the model fails or ctx ends before all links are resolved,
// and with [shared.ErrMalformedResponse] when the reply has no usable recommendations.
func (e *RecommendationEngine) Recommend(ctx context.Context, song models.CanonicalSong, progress chan<- ProgressUpdate) (*models.RecommendationSet, error) {
	sendProgress(progress, recommendingUpdate(song))

	reply, err := e.model.Generate(ctx, recommendationPrompt(song, e.count))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	if strings.TrimSpace(reply) == "" {
		return nil, fmt.Errorf("%w: empty reply from %s", shared.ErrUpstream, e.model.Name())
	}

	recs, err := e.parseRecommendations(reply)
	if err != nil {
		return nil, err
	}
	if len(recs) < e.count {
		e.logger.Warn("model returned fewer recommendations than requested", "want", e.count, "got", len(recs))
	}

	if err := e.resolveLinks(ctx, recs, progress); err != nil {
		return nil, err
	}

	return &models.RecommendationSet{OriginalSong: song, Recommendations: recs}, nil
}

func (e *RecommendationEngine) parseRecommendations(reply string) ([]models.Recommendation, error) {
	doc, err := decodeObject(reply)
	if err != nil {
		return nil, err
	}

	list := doc.Get("recommendations")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: field \"recommendations\" is %s, want array", shared.ErrMalformedResponse, list.Type)
	}

	entries := list.Array()
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no recommendations", shared.ErrMalformedResponse)
	}
	if len(entries) > e.count {
		entries = entries[:e.count]
	}

	recs := make([]models.Recommendation, len(entries))
	for i, entry := range entries {
		recs[i] = recommendationFrom(entry)
	}
	return recs, nil
}

func recommendationFrom(entry gjson.Result) models.Recommendation {
	if !entry.IsObject() {
		entry = gjson.Result{}
	}
	return models.Recommendation{
		Name:   stringOr(entry, "name", models.UnknownSong),
		Artist: stringOr(entry, "artist", models.UnknownArtist),
		Reason: stringOr(entry, "reason", models.DefaultReason),
	}
}

// resolveLinks fills in VideoURL for every entry concurrently, writing by index.
func (e *RecommendationEngine) resolveLinks(ctx context.Context, recs []models.Recommendation, progress chan<- ProgressUpdate) error {
	total := len(recs)
	sendProgress(progress, resolvingUpdate(total))

	var finished atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i := range recs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs[i].VideoURL = e.links.Resolve(gctx, recs[i].Name, recs[i].Artist)
			if e.onResolved != nil {
				e.onResolved(recs[i].Resolved())
			}
			sendProgress(progress, resolvedUpdate(int(finished.Add(1)), total, recs[i]))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: video resolution interrupted: %v", shared.ErrUpstream, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: video resolution interrupted: %v", shared.ErrUpstream, err)
	}
	return nil
}
