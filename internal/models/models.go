// package models defines the data model for the song recommendation service
package models

import (
	"fmt"
	"strings"
)

// UnresolvedVideoURL is the prefix-only watch link returned when no video could be confirmed.
const UnresolvedVideoURL = "https://youtube.com/watch?v="

// Placeholders substituted for fields the model left out of a recommendation.
const (
	UnknownSong   = "Unknown Song"
	UnknownArtist = "Unknown Artist"
	DefaultReason = "Similar style and mood"
)

// DefaultInvalidReason is used when the model rejects a song without saying why.
const DefaultInvalidReason = "Could not verify this as a real song"

// SongQuery is the raw user input: a song name, a partial title or a video URL.
type SongQuery string

// Blank reports whether the query is empty or whitespace-only.
func (q SongQuery) Blank() bool {
	return strings.TrimSpace(string(q)) == ""
}

// CanonicalSong is the (title, artist) pair a query resolves to.
type CanonicalSong struct {
	Title  string `json:"name"`
	Artist string `json:"artist"`
}

// Label renders the song for prompts and hints, e.g. "Imagine by John Lennon".
func (s CanonicalSong) Label() string {
	if s.Artist == "" {
		return s.Title
	}
	return fmt.Sprintf("%s by %s", s.Title, s.Artist)
}

// WithDefaults returns a copy with an empty artist replaced by [UnknownArtist].
func (s CanonicalSong) WithDefaults() CanonicalSong {
	if strings.TrimSpace(s.Artist) == "" {
		s.Artist = UnknownArtist
	}
	return s
}

// ValidationResult is the validator's verdict on a query.
//
// Song is set whenever the model named a match, including the invalid case where it
// holds the correction the user most likely meant.
type ValidationResult struct {
	IsValid bool
	Song    *CanonicalSong
	Reason  string
}

// Recommendation is a similar song. VideoURL is either a confirmed link or [UnresolvedVideoURL].
type Recommendation struct {
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	Reason   string `json:"reason"`
	VideoURL string `json:"videoUrl"`
}

// Resolved reports whether the recommendation carries a confirmed video link.
func (r Recommendation) Resolved() bool {
	return r.VideoURL != "" && r.VideoURL != UnresolvedVideoURL
}

// RecommendationSet is the success payload.
type RecommendationSet struct {
	OriginalSong    CanonicalSong    `json:"originalSong"`
	Recommendations []Recommendation `json:"recommendations"`
}

// FailureResponse is the 4xx payload. Suggestion encodes as null when absent and
// Suggestions always encodes as an array.
type FailureResponse struct {
	Error       string   `json:"error"`
	Suggestion  *string  `json:"suggestion"`
	Suggestions []string `json:"suggestions"`
}

// NewFailureResponse builds a [FailureResponse] with a non-nil suggestion list.
func NewFailureResponse(msg string, suggestion *string, suggestions []string) *FailureResponse {
	if suggestions == nil {
		suggestions = []string{}
	}
	return &FailureResponse{Error: msg, Suggestion: suggestion, Suggestions: suggestions}
}

// ErrorResponse is the 5xx payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
