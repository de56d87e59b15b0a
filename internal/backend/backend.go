package backend

import "context"

// Chunk is one unit of partial output from a streaming backend. Raw marks
// fragments that failed structured decode and are carried verbatim; the relay
// never drops a fragment either way.
type Chunk struct {
	Text string
	Raw  bool
}

// Generator is the minimal text-generation capability: one blocking call that
// returns the complete reply.
type Generator interface {
	// Name returns the backend identifier
	Name() string

	// Generate produces the full reply for a prompt
	Generate(ctx context.Context, prompt string) (string, error)
}

// Streamer is implemented by backends that can deliver the reply incrementally.
// Stream calls emit once per chunk, in order; an error returned by emit aborts
// the stream and is propagated unchanged, letting the caller tell a dead sink
// apart from a backend transport failure.
type Streamer interface {
	Generator
	Stream(ctx context.Context, prompt string, emit func(Chunk) error) error
}
