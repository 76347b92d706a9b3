// package services defines the external capabilities the recommendation pipeline consumes
//
// Gemini (text completion), YouTube oEmbed (video confirmation)
package services

import (
	"context"
)

// TextModel sends a prompt to a generative model and returns its raw text.
//
// Implementations return an error when the model is unreachable or answers with nothing;
// a reply that ignores the requested shape is not an error at this layer.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the model identifier (e.g., "gemini-2.0-flash")
	Name() string
}

// LinkConfirmer confirms that a video resource identifier denotes a real, playable video.
type LinkConfirmer interface {
	ConfirmExists(ctx context.Context, resourceID string) (bool, error)
}
