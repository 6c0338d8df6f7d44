package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/chatrooms/internal/api/response"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/service"
)

// MessageHandler handles message and search endpoints of the active room
type MessageHandler struct {
	chat *service.ChatService
}

func NewMessageHandler(chat *service.ChatService) *MessageHandler {
	return &MessageHandler{chat: chat}
}

// List returns the active room log as the search box currently shows it
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"search":   h.chat.SearchTerm(),
		"messages": h.chat.DisplayedMessages(),
	})
}

// Send posts a user message
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input domain.MessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	input.Sender = domain.SenderUser

	msg, err := h.chat.Send(r.Context(), input)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, msg)
}

// SetSearch updates the message search term
func (h *MessageHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	h.chat.SetSearch(input.Term)
	response.NoContent(w)
}
