// Package session owns the in-memory chat state and writes it through to
// persistence after every command.
package session

import (
	"context"
	"sync"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/notify"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Persister is the storage side of the store
type Persister interface {
	Load(ctx context.Context) (*domain.Session, bool)
	Save(ctx context.Context, s *domain.Session) error
	Clear(ctx context.Context) error
}

const saveFailedMessage = "Failed to save chat history"

// Store is the single source of truth for rooms and messages.
// Commands are serialized; queries return deep copies.
type Store struct {
	mu       sync.Mutex
	state    *domain.Session
	persist  Persister
	notifier notify.Notifier
	clock    clockwork.Clock
	newID    func() string
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the clock used for message timestamps
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator sets the generator for room and message ids
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithNotifier sets where failed writes are reported
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// New creates a store seeded from persistence, or empty when nothing usable is stored
func New(ctx context.Context, persist Persister, opts ...Option) *Store {
	s := &Store{
		state:    domain.NewSession(),
		persist:  persist,
		notifier: notify.Nop{},
		clock:    clockwork.NewRealClock(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if loaded, ok := persist.Load(ctx); ok {
		s.state = loaded
		log.Info().Int("rooms", len(loaded.Rooms)).Msg("Chat state restored")
	}
	return s
}

// CreateRoom appends an empty room and makes it active
func (s *Store) CreateRoom(ctx context.Context, in domain.NewRoom) (domain.Room, error) {
	var created domain.Room
	err := s.mutate(ctx, func(next *domain.Session) error {
		id, ok := in.ID()
		if !ok {
			id = s.newID()
		}
		created = domain.Room{ID: id, Title: in.Title(), Messages: []domain.Message{}}
		next.Rooms = append(next.Rooms, created)
		next.ActiveRoomID = id
		return nil
	})
	return created.Clone(), err
}

// DeleteRoom removes the room if present. Afterwards the first remaining room
// is active, or none when no rooms remain.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	return s.mutate(ctx, func(next *domain.Session) error {
		if idx := next.IndexOf(id); idx >= 0 {
			next.Rooms = append(next.Rooms[:idx], next.Rooms[idx+1:]...)
		}
		next.ActiveRoomID = ""
		if len(next.Rooms) > 0 {
			next.ActiveRoomID = next.Rooms[0].ID
		}
		return nil
	})
}

// SetActiveRoom points the session at id without checking it exists
func (s *Store) SetActiveRoom(ctx context.Context, id string) error {
	return s.mutate(ctx, func(next *domain.Session) error {
		next.ActiveRoomID = id
		return nil
	})
}

// SendMessage appends a message to the active room
func (s *Store) SendMessage(ctx context.Context, in domain.MessageInput) (domain.Message, error) {
	var sent domain.Message
	err := s.mutate(ctx, func(next *domain.Session) error {
		room, ok := next.Active()
		if !ok {
			return domain.ErrNoActiveRoom
		}
		sent = s.message(in.Text, in.Image, in.SenderOrDefault())
		room.Messages = append(room.Messages, sent)
		return nil
	})
	return sent, err
}

// AppendPlaceholder adds a typing message to the given room.
// It reports false when the room does not exist.
func (s *Store) AppendPlaceholder(ctx context.Context, roomID, text string) (bool, error) {
	var appended bool
	err := s.mutate(ctx, func(next *domain.Session) error {
		idx := next.IndexOf(roomID)
		if idx < 0 {
			return errSkip
		}
		room := &next.Rooms[idx]
		room.Messages = append(room.Messages, s.message(text, "", domain.SenderTyping))
		appended = true
		return nil
	})
	return appended, err
}

// ReplaceFirstPlaceholder swaps the earliest typing message of the room for an
// ai message, keeping its position. It reports false when there was nothing to replace.
func (s *Store) ReplaceFirstPlaceholder(ctx context.Context, roomID, text string) (bool, error) {
	var replaced bool
	err := s.mutate(ctx, func(next *domain.Session) error {
		idx := next.IndexOf(roomID)
		if idx < 0 {
			return errSkip
		}
		room := &next.Rooms[idx]
		for i := range room.Messages {
			if room.Messages[i].IsPlaceholder() {
				room.Messages[i] = s.message(text, "", domain.SenderAI)
				replaced = true
				return nil
			}
		}
		return errSkip
	})
	return replaced, err
}

// Reset empties the session and clears what was persisted
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.NewSession()
	if err := s.persist.Clear(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to clear chat state")
		s.notifier.Notify(ctx, notify.LevelError, saveFailedMessage)
		return err
	}
	return nil
}

// Rooms returns every room in creation order
func (s *Store) Rooms() []domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Room, len(s.state.Rooms))
	for i, r := range s.state.Rooms {
		out[i] = r.Clone()
	}
	return out
}

// ActiveRoomID returns the active id, which may not name an existing room
func (s *Store) ActiveRoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveRoomID
}

// ActiveRoom returns the active room, if it exists
func (s *Store) ActiveRoom() (domain.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.state.Active()
	if !ok {
		return domain.Room{}, false
	}
	return room.Clone(), true
}

// RoomByID returns the room with the given id
func (s *Store) RoomByID(id string) (domain.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.state.IndexOf(id)
	if idx < 0 {
		return domain.Room{}, false
	}
	return s.state.Rooms[idx].Clone(), true
}

// Snapshot returns a deep copy of the whole session
func (s *Store) Snapshot() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) message(text, image string, sender domain.Sender) domain.Message {
	return domain.Message{
		ID:        s.newID(),
		Text:      text,
		Image:     image,
		Sender:    sender,
		Timestamp: s.clock.Now().UTC(),
	}
}
