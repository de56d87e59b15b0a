package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/argtbn/chatbot-api/internal/backend"
	"github.com/argtbn/chatbot-api/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// sessionNameLimit is how much of the first user message names a new session
const sessionNameLimit = 30

// errSinkClosed aborts stream consumption when the caller stops accepting
// increments (client disconnect). It is never a backend failure.
var errSinkClosed = errors.New("stream sink closed")

// ChatRequest is one inbound user turn. A nil ChatID asks for a new session.
type ChatRequest struct {
	ChatID  *int64 `json:"chat_id"`
	Message string `json:"message" validate:"required"`
}

// ChatResult describes the completed relay of one request. Response carries the
// assembled reply; Fault carries a backend transport failure, if one occurred.
type ChatResult struct {
	ChatID   int64
	Response string
	Streamed bool
	Fault    string
}

// StreamSink receives increments as they arrive from a streaming backend.
// Chunk forwards one increment; Fault forwards a backend failure in place of
// further increments.
type StreamSink interface {
	Chunk(text string) error
	Fault(message string) error
}

// ChatService relays user messages to the generation backend and owns the
// session/message persistence sequencing around each exchange.
type ChatService struct {
	sessions domain.SessionRepository
	messages domain.MessageRepository
	backends *backend.Registry
}

// NewChatService creates a new chat service
func NewChatService(
	sessions domain.SessionRepository,
	messages domain.MessageRepository,
	backends *backend.Registry,
) *ChatService {
	return &ChatService{
		sessions: sessions,
		messages: messages,
		backends: backends,
	}
}

// Streaming reports whether the default backend delivers replies incrementally
func (s *ChatService) Streaming() bool {
	gen, err := s.backends.Default()
	if err != nil {
		return false
	}
	_, ok := gen.(backend.Streamer)
	return ok
}

// Chat relays one user message: resolve or create the session, durably record
// the user turn, invoke the generation backend, forward its output through the
// sink (streaming backends only), and record the assembled reply as a Bot turn.
//
// Client-input failures (empty message, unknown chat id) return before any row
// is written. A user-message write failure aborts the request before generation.
// Backend failures never do: the user row is already committed and the Bot row
// is still written from whatever accumulated.
func (s *ChatService) Chat(ctx context.Context, req ChatRequest, sink StreamSink) (*ChatResult, error) {
	if req.Message == "" {
		return nil, domain.ErrNoMessage
	}

	requestID := uuid.New().String()
	logger := log.With().Str("request_id", requestID).Logger()

	chatID, err := s.resolveSession(ctx, req)
	if err != nil {
		return nil, err
	}
	logger = logger.With().Int64("chat_id", chatID).Logger()

	userMsg := &domain.Message{
		ChatID:  chatID,
		Sender:  domain.SenderUser,
		Content: req.Message,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	result := &ChatResult{ChatID: chatID}
	var reply string

	gen, err := s.backends.Default()
	if err != nil {
		// No backend configured is a transport-class failure: the user turn
		// stays recorded and an empty Bot turn closes the exchange.
		result.Fault = err.Error()
		logger.Error().Err(err).Msg("no generation backend available")
		if sink != nil {
			result.Streamed = true
			s.forwardFault(sink, err.Error(), logger)
		}
	} else if streamer, ok := gen.(backend.Streamer); ok && sink != nil {
		result.Streamed = true
		reply = s.relayStream(ctx, streamer, req.Message, sink, result, logger)
	} else {
		reply = s.relaySingle(ctx, gen, req.Message, result, logger)
	}

	result.Response = reply

	// The reply was already delivered; a failed Bot write must not turn the
	// request into an error, and a gone client must not void the write.
	botMsg := &domain.Message{
		ChatID:  chatID,
		Sender:  domain.SenderBot,
		Content: reply,
	}
	if err := s.messages.Create(context.WithoutCancel(ctx), botMsg); err != nil {
		logger.Error().Err(err).Msg("failed to save bot message")
	}

	logger.Debug().
		Bool("streamed", result.Streamed).
		Int("reply_len", len(reply)).
		Msg("chat relay complete")

	return result, nil
}

// resolveSession looks up an explicit chat id or creates a session named from
// the first 30 characters of the message. An unknown explicit id is rejected,
// never silently replaced: continuing would misattribute messages.
func (s *ChatService) resolveSession(ctx context.Context, req ChatRequest) (int64, error) {
	if req.ChatID != nil {
		sess, err := s.sessions.Get(ctx, *req.ChatID)
		if err != nil {
			return 0, err
		}
		return sess.ID, nil
	}

	name := req.Message
	if runes := []rune(name); len(runes) > sessionNameLimit {
		name = string(runes[:sessionNameLimit])
	}
	sess := &domain.Session{Name: name}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	return sess.ID, nil
}

// relayStream forwards increments to the sink while feeding the accumulator,
// and returns the accumulator's final (trimmed) value. A dead sink stops
// forwarding and stream consumption; a backend failure is forwarded as an
// error payload. Neither prevents the caller from persisting the reply.
func (s *ChatService) relayStream(ctx context.Context, streamer backend.Streamer, prompt string, sink StreamSink, result *ChatResult, logger zerolog.Logger) string {
	var accum strings.Builder

	err := streamer.Stream(ctx, prompt, func(c backend.Chunk) error {
		accum.WriteString(c.Text)
		if err := sink.Chunk(c.Text); err != nil {
			return errSinkClosed
		}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, errSinkClosed):
		logger.Warn().Msg("client went away mid-stream, keeping partial reply")
	default:
		result.Fault = err.Error()
		logger.Error().Err(err).Msg("generation backend failure")
		s.forwardFault(sink, err.Error(), logger)
	}

	return strings.TrimSpace(accum.String())
}

// relaySingle blocks on the backend and returns the complete reply
func (s *ChatService) relaySingle(ctx context.Context, gen backend.Generator, prompt string, result *ChatResult, logger zerolog.Logger) string {
	reply, err := gen.Generate(ctx, prompt)
	if err != nil {
		result.Fault = err.Error()
		logger.Error().Err(err).Msg("generation backend failure")
		return ""
	}
	return reply
}

func (s *ChatService) forwardFault(sink StreamSink, message string, logger zerolog.Logger) {
	if err := sink.Fault(message); err != nil {
		logger.Debug().Err(err).Msg("could not forward backend failure to caller")
	}
}

// ListSessions returns all sessions, newest first
func (s *ChatService) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.List(ctx)
}

// ListMessages returns all messages for a session, newest first. The session
// is not validated: an unknown id naturally yields an empty result.
func (s *ChatService) ListMessages(ctx context.Context, chatID int64) ([]domain.Message, error) {
	return s.messages.ListBySession(ctx, chatID)
}
