package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/argtbn/chatbot-api/internal/api/response"
	"github.com/argtbn/chatbot-api/internal/domain"
	"github.com/argtbn/chatbot-api/internal/service"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ChatHandler handles the chat relay and listing endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat handles POST /chat. With a streaming backend the response is a sequence
// of newline-delimited {"response": ...} objects flushed per increment; with a
// single-shot backend it is one {"chat_id", "response"} object.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req service.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "No message provided")
		return
	}

	if h.chatService.Streaming() {
		sink := newStreamWriter(w)
		if _, err := h.chatService.Chat(r.Context(), req, sink); err != nil {
			// Client-input and persistence errors surface before the first
			// increment, so the status line is still ours to write.
			h.writeChatError(w, err)
		}
		return
	}

	result, err := h.chatService.Chat(r.Context(), req, nil)
	if err != nil {
		h.writeChatError(w, err)
		return
	}
	if result.Fault != "" {
		response.OK(w, map[string]any{"chat_id": result.ChatID, "error": result.Fault})
		return
	}
	response.OK(w, map[string]any{"chat_id": result.ChatID, "response": result.Response})
}

func (h *ChatHandler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoMessage):
		response.BadRequest(w, "No message provided")
	case errors.Is(err, domain.ErrSessionNotFound):
		response.BadRequest(w, "Invalid chat_id")
	default:
		response.InternalError(w, "Failed to process message")
	}
}

type sessionSummary struct {
	ChatID int64  `json:"chat_id"`
	Name   string `json:"name"`
}

// ListSessions handles GET /chat-session, newest first
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.chatService.ListSessions(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list sessions")
		return
	}

	out := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionSummary{ChatID: s.ID, Name: s.Name})
	}
	response.OK(w, out)
}

type messageView struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ListMessages handles GET /message?chat_id=<id>, newest first. The session is
// not validated: an unknown id yields an empty array.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("chat_id")
	if idStr == "" {
		response.BadRequest(w, "No chat_id provided")
		return
	}
	chatID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid chat_id")
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), chatID)
	if err != nil {
		response.InternalError(w, "Failed to list messages")
		return
	}

	out := make([]messageView, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageView{
			Sender:    string(m.Sender),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	response.OK(w, out)
}
