package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/chatrooms/internal/api/response"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/service"
	"github.com/go-chi/chi/v5"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	chat *service.ChatService
}

func NewRoomHandler(chat *service.ChatService) *RoomHandler {
	return &RoomHandler{chat: chat}
}

type roomListItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Messages int    `json:"message_count"`
	Active   bool   `json:"active"`
}

// List returns every room, filtered by title when q is set
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	active, _ := h.chat.ActiveRoom()

	if q := r.URL.Query().Get("q"); q != "" {
		response.OK(w, h.chat.SearchRooms(q))
		return
	}

	rooms := h.chat.Rooms()
	items := make([]roomListItem, len(rooms))
	for i, room := range rooms {
		items[i] = roomListItem{
			ID:       room.ID,
			Title:    room.Title,
			Messages: len(room.Messages),
			Active:   room.ID == active.ID,
		}
	}
	response.OK(w, items)
}

// Create creates a room and makes it active
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.RoomCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	room, err := h.chat.CreateRoom(r.Context(), input.Title)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, room)
}

// Get returns one room with its messages
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.chat.Room(chi.URLParam(r, "roomID"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, room)
}

// Delete removes a room. Unknown ids are not an error.
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.DeleteRoom(r.Context(), chi.URLParam(r, "roomID")); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// Select makes the room active
func (h *RoomHandler) Select(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.SelectRoom(r.Context(), chi.URLParam(r, "roomID")); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// Active returns the active room
func (h *RoomHandler) Active(w http.ResponseWriter, r *http.Request) {
	room, ok := h.chat.ActiveRoom()
	if !ok {
		response.NotFound(w, "no active room")
		return
	}
	response.OK(w, room)
}
