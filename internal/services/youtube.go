// YouTube [LinkConfirmer] implementation
//
// Confirms video ids against the public oEmbed endpoint, which answers 200 with a JSON
// document for playable videos and 401/404 for private, removed or invented ones.
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	defaultOEmbedURL string = "https://www.youtube.com/oembed"
	watchURLPrefix   string = "https://www.youtube.com/watch?v="
)

// YouTubeService implements [LinkConfirmer] via the oEmbed endpoint.
type YouTubeService struct {
	api *APIService
}

// NewYouTubeService creates a new YouTube confirmation service. An empty oembedURL selects the public endpoint.
func NewYouTubeService(oembedURL string, client *http.Client) *YouTubeService {
	if oembedURL == "" {
		oembedURL = defaultOEmbedURL
	}

	return &YouTubeService{api: NewAPIService(oembedURL, client)}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// ConfirmExists reports whether videoID resolves to a real video.
//
// Only a 2xx answer carrying a JSON document with a title counts as confirmation; rate limits,
// error pages and non-JSON bodies come back false. Transport failures are returned as errors.
func (y *YouTubeService) ConfirmExists(ctx context.Context, videoID string) (bool, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return false, fmt.Errorf("empty video id")
	}

	query := url.Values{}
	query.Set("url", watchURLPrefix+videoID)
	query.Set("format", "json")

	resp, err := y.api.Get(ctx, "?"+query.Encode())
	if err != nil {
		return false, err
	}

	if !resp.OK() {
		return false, nil
	}

	if !resp.IsJSON {
		return false, nil
	}

	return gjson.GetBytes(resp.Body, "title").Exists(), nil
}
