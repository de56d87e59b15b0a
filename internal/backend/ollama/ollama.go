package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/argtbn/chatbot-api/internal/backend"
)

// Backend talks to an Ollama inference server over its line-oriented HTTP API.
// It implements backend.Streamer.
type Backend struct {
	host   string
	model  string
	client *http.Client
}

// New creates an Ollama backend. The timeout bounds the whole generate call,
// including reading the response stream; expiry surfaces as a transport error.
func New(host, model string, timeout time.Duration) *Backend {
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &Backend{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return "ollama"
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (b *Backend) post(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	body, err := json.Marshal(generateRequest{
		Model:  b.model,
		Prompt: prompt,
		Stream: stream,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return resp, nil
}

// Stream reads the generate response line by line. Each non-empty line is
// attempted as a structured decode; lines that decode and carry a response
// field become regular chunks, anything else is forwarded verbatim as a raw
// chunk. Errors from emit abort the read and are returned unchanged.
func (b *Backend) Stream(ctx context.Context, prompt string, emit func(backend.Chunk) error) error {
	resp, err := b.post(ctx, prompt, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var decoded generateResponse
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			if err := emit(backend.Chunk{Text: line, Raw: true}); err != nil {
				return err
			}
			continue
		}
		if err := emit(backend.Chunk{Text: decoded.Response}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return nil
}

// Generate issues a non-streaming call and returns the complete reply
func (b *Backend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := b.post(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return decoded.Response, nil
}
