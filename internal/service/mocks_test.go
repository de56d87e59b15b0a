package service

import (
	"context"
	"strings"

	"github.com/argtbn/chatbot-api/internal/backend"
	"github.com/argtbn/chatbot-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepo mocks the SessionRepository interface
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepo) Get(ctx context.Context, id int64) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepo) List(ctx context.Context) ([]domain.Session, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Session), args.Error(1)
}

// MockMessageRepo mocks the MessageRepository interface
type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepo) ListBySession(ctx context.Context, chatID int64) ([]domain.Message, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).([]domain.Message), args.Error(1)
}

// scriptedStreamer replays a fixed chunk sequence, then returns err
type scriptedStreamer struct {
	chunks []backend.Chunk
	err    error
}

func (s *scriptedStreamer) Name() string { return "scripted" }

func (s *scriptedStreamer) Generate(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	var b strings.Builder
	for _, c := range s.chunks {
		b.WriteString(c.Text)
	}
	return b.String(), nil
}

func (s *scriptedStreamer) Stream(ctx context.Context, prompt string, emit func(backend.Chunk) error) error {
	for _, c := range s.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return s.err
}

// scriptedGenerator is a single-shot backend with a canned reply
type scriptedGenerator struct {
	reply string
	err   error
}

func (g *scriptedGenerator) Name() string { return "canned" }

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.reply, g.err
}

// recordSink captures forwarded increments; failAfter > 0 makes Chunk start
// failing after that many successful sends
type recordSink struct {
	chunks    []string
	faults    []string
	failAfter int
}

func (s *recordSink) Chunk(text string) error {
	if s.failAfter > 0 && len(s.chunks) >= s.failAfter {
		return context.Canceled
	}
	s.chunks = append(s.chunks, text)
	return nil
}

func (s *recordSink) Fault(message string) error {
	s.faults = append(s.faults, message)
	return nil
}

func newRegistry(g backend.Generator) *backend.Registry {
	r := backend.NewRegistry(g.Name())
	r.Register(g)
	return r
}
