package tasks

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songrec/internal/models"
	"github.com/desertthunder/songrec/internal/services"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// LinkResolver turns a song into a confirmed video link.
//
// A link is proposed by the model and then checked against the lookup service; unconfirmed
// links are never returned.
type LinkResolver struct {
	model     services.TextModel
	confirmer services.LinkConfirmer
	logger    *log.Logger
}

// NewLinkResolver creates a resolver from a model and a confirmer.
func NewLinkResolver(model services.TextModel, confirmer services.LinkConfirmer, logger *log.Logger) *LinkResolver {
	if logger == nil {
		logger = log.Default()
	}
	return &LinkResolver{model: model, confirmer: confirmer, logger: logger}
}

// Resolve returns a confirmed video link for the song or [models.UnresolvedVideoURL]. It never fails.
func (r *LinkResolver) Resolve(ctx context.Context, title, artist string) string {
	proposed, err := r.Propose(ctx, title, artist)
	if err != nil {
		r.logger.Debug("no video link proposed", "title", title, "artist", artist, "error", err)
		return models.UnresolvedVideoURL
	}
	if !r.Confirm(ctx, proposed) {
		return models.UnresolvedVideoURL
	}
	return proposed
}

// Propose asks the model for the most likely video link. The candidate is unverified.
func (r *LinkResolver) Propose(ctx context.Context, title, artist string) (string, error) {
	reply, err := r.model.Generate(ctx, videoLinkPrompt(title, artist))
	if err != nil {
		return "", err
	}
	return cleanLink(Extract(reply)), nil
}

// Confirm reports whether candidate carries a video id the lookup service knows.
//
// Unparseable links, the sentinel and lookup errors all count as unconfirmed.
func (r *LinkResolver) Confirm(ctx context.Context, candidate string) bool {
	id, ok := ExtractVideoID(candidate)
	if !ok {
		return false
	}

	exists, err := r.confirmer.ConfirmExists(ctx, id)
	if err != nil {
		r.logger.Debug("video lookup failed", "id", id, "error", err)
		return false
	}
	return exists
}

// cleanLink picks the first URL-looking token and strips quoting around it.
func cleanLink(text string) string {
	for field := range strings.FieldsSeq(text) {
		if strings.Contains(field, "http") {
			text = field
			break
		}
	}
	return strings.Trim(text, "\"'`<>()[],.")
}

// ExtractVideoID pulls the video id out of a YouTube link.
//
// Recognized shapes are watch links (youtube.com, m.youtube.com, music.youtube.com),
// youtu.be short links, and the /embed/, /v/ and /shorts/ paths.
func ExtractVideoID(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	var id string
	switch host {
	case "youtu.be":
		id = firstSegment(u.Path)
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/embed"))
		case strings.HasPrefix(u.Path, "/v/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/v"))
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/shorts"))
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
