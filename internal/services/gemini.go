// Gemini [TextModel] implementation backed by the Google GenAI SDK.
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/songrec/internal/shared"
	"google.golang.org/genai"
)

const defaultGeminiModel string = "gemini-2.0-flash"

// GeminiOpts configures a [GeminiService].
type GeminiOpts struct {
	APIKey     string
	Model      string
	BaseURL    string // Overrides the API endpoint, used by tests and proxies
	HTTPClient *http.Client
}

// GeminiService implements [TextModel] using the Gemini API.
//
// One instance is constructed per process and injected into every pipeline component.
type GeminiService struct {
	client *genai.Client
	model  string
}

// NewGeminiService creates a Gemini client. The API key is required.
func NewGeminiService(ctx context.Context, opts GeminiOpts) (*GeminiService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key", shared.ErrMissingCredentials)
	}
	if opts.Model == "" {
		opts.Model = defaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{client: client, model: opts.Model}, nil
}

// Name returns the model identifier.
func (g *GeminiService) Name() string {
	return g.model
}

// Generate sends prompt as a single user turn and returns the concatenated text parts.
func (g *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned no content")
	}

	return text, nil
}
