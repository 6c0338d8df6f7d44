package service

import (
	"context"
	"strings"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/notify"
	"github.com/Rrens/chatrooms/internal/search"
	"github.com/rs/zerolog/log"
)

// ChatStore is the session store as seen by the chat flows
type ChatStore interface {
	CreateRoom(ctx context.Context, in domain.NewRoom) (domain.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	SetActiveRoom(ctx context.Context, id string) error
	SendMessage(ctx context.Context, in domain.MessageInput) (domain.Message, error)
	Rooms() []domain.Room
	ActiveRoomID() string
	ActiveRoom() (domain.Room, bool)
	RoomByID(id string) (domain.Room, bool)
}

// ReplyScheduler starts and cancels simulated replies
type ReplyScheduler interface {
	Start(ctx context.Context, roomID string) error
	Cancel(roomID string)
}

// SearchView is the debounced message search box
type SearchView interface {
	SetTerm(term string)
	Term() string
	Displayed(current []domain.Message) []domain.Message
	Reset()
}

// ChatService implements the user-facing room and message flows
type ChatService struct {
	store        ChatStore
	replies      ReplyScheduler
	view         SearchView
	notifier     notify.Notifier
	defaultTitle string
}

// NewChatService creates a new chat service
func NewChatService(store ChatStore, replies ReplyScheduler, view SearchView, notifier notify.Notifier, defaultTitle string) *ChatService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &ChatService{
		store:        store,
		replies:      replies,
		view:         view,
		notifier:     notifier,
		defaultTitle: defaultTitle,
	}
}

// CreateRoom creates a titled room and makes it active
func (s *ChatService) CreateRoom(ctx context.Context, title string) (domain.Room, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Room{}, domain.ErrEmptyTitle
	}
	if err := validate.Struct(domain.RoomCreate{Title: title}); err != nil {
		return domain.Room{}, err
	}

	room, err := s.store.CreateRoom(ctx, domain.NamedRoom(title))
	if err != nil {
		return domain.Room{}, err
	}

	s.notifier.Notify(ctx, notify.LevelSuccess, "Chatroom created successfully")
	return room, nil
}

// DeleteRoom drops the room together with any reply still pending for it
func (s *ChatService) DeleteRoom(ctx context.Context, id string) error {
	s.replies.Cancel(id)
	if err := s.store.DeleteRoom(ctx, id); err != nil {
		return err
	}

	s.notifier.Notify(ctx, notify.LevelSuccess, "Chatroom deleted")
	return nil
}

// SelectRoom makes id the active room
func (s *ChatService) SelectRoom(ctx context.Context, id string) error {
	return s.store.SetActiveRoom(ctx, id)
}

// Send posts a user message to the active room, creating a default room when
// there is none, and schedules the assistant reply.
func (s *ChatService) Send(ctx context.Context, in domain.MessageInput) (domain.Message, error) {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" && in.Image == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}
	if err := validate.Struct(in); err != nil {
		return domain.Message{}, err
	}

	if s.store.ActiveRoomID() == "" || len(s.store.Rooms()) == 0 {
		room, err := s.store.CreateRoom(ctx, domain.NamedRoom(s.defaultTitle))
		if err != nil {
			return domain.Message{}, err
		}
		if err := s.store.SetActiveRoom(ctx, room.ID); err != nil {
			return domain.Message{}, err
		}
		s.notifier.Notify(ctx, notify.LevelSuccess, "New chatroom created")
	}

	roomID := s.store.ActiveRoomID()
	msg, err := s.store.SendMessage(ctx, in)
	if err != nil {
		return domain.Message{}, err
	}
	s.notifier.Notify(ctx, notify.LevelSuccess, "Message sent")

	if err := s.replies.Start(ctx, roomID); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("Failed to start reply")
	}
	return msg, nil
}

// Rooms returns every room
func (s *ChatService) Rooms() []domain.Room {
	return s.store.Rooms()
}

// ActiveRoom returns the active room
func (s *ChatService) ActiveRoom() (domain.Room, bool) {
	return s.store.ActiveRoom()
}

// Room returns one room by id
func (s *ChatService) Room(id string) (domain.Room, error) {
	room, ok := s.store.RoomByID(id)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

// SearchRooms filters rooms by title
func (s *ChatService) SearchRooms(query string) []domain.RoomSummary {
	rooms := s.store.Rooms()
	summaries := make([]domain.RoomSummary, len(rooms))
	for i, r := range rooms {
		summaries[i] = r.Summary()
	}
	return search.FilterRooms(query, summaries)
}

// SetSearch updates the message search term
func (s *ChatService) SetSearch(term string) {
	s.view.SetTerm(term)
}

// SearchTerm returns the current message search term
func (s *ChatService) SearchTerm() string {
	return s.view.Term()
}

// DisplayedMessages returns the active room log as the search box shows it
func (s *ChatService) DisplayedMessages() []domain.Message {
	room, _ := s.store.ActiveRoom()
	return s.view.Displayed(room.Messages)
}

// ClearSearch drops the search term
func (s *ChatService) ClearSearch() {
	s.view.Reset()
}
