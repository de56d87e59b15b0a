package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Backend generates replies with the Gemini API in one blocking call. It is a
// single-shot backend: it implements backend.Generator but not backend.Streamer,
// so the relay returns the whole reply at once.
type Backend struct {
	apiKey string
	model  string
}

// New creates a Gemini backend
func New(apiKey, model string) *Backend {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Backend{
		apiKey: apiKey,
		model:  model,
	}
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return "gemini"
}

// Generate produces the full reply for a prompt
func (b *Backend) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(b.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(b.model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	var output string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output += string(text)
		}
	}
	return output, nil
}
