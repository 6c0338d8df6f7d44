// Package simulator produces the delayed assistant reply that follows a user message.
package simulator

import (
	"context"
	"sync"
	"time"

	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/llm"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Rooms is the part of the session store the simulator drives
type Rooms interface {
	RoomByID(id string) (domain.Room, bool)
	AppendPlaceholder(ctx context.Context, roomID, text string) (bool, error)
	ReplaceFirstPlaceholder(ctx context.Context, roomID, text string) (bool, error)
}

type State string

const (
	StateIdle          State = "idle"
	StateAwaitingReply State = "awaiting_reply"
)

type task struct {
	timer clockwork.Timer
}

// Simulator schedules one pending reply per placeholder, keyed by room id
type Simulator struct {
	rooms       Rooms
	provider    llm.Provider
	clock       clockwork.Clock
	delay       time.Duration
	placeholder string
	fallback    string

	mu      sync.Mutex
	pending map[string]map[*task]struct{}
}

// New creates a simulator. A nil clock uses the real clock.
func New(rooms Rooms, provider llm.Provider, clock clockwork.Clock, cfg config.ChatConfig) *Simulator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Simulator{
		rooms:       rooms,
		provider:    provider,
		clock:       clock,
		delay:       cfg.ReplyDelay,
		placeholder: cfg.PlaceholderText,
		fallback:    cfg.ReplyText,
		pending:     make(map[string]map[*task]struct{}),
	}
}

// Start appends the typing placeholder to the room and schedules its replacement
func (s *Simulator) Start(ctx context.Context, roomID string) error {
	ok, err := s.rooms.AppendPlaceholder(ctx, roomID, s.placeholder)
	if err != nil {
		return err
	}
	if !ok {
		log.Debug().Str("room_id", roomID).Msg("Skipping reply for missing room")
		return nil
	}

	t := &task{}
	s.mu.Lock()
	if s.pending[roomID] == nil {
		s.pending[roomID] = make(map[*task]struct{})
	}
	s.pending[roomID][t] = struct{}{}
	t.timer = s.clock.AfterFunc(s.delay, func() { s.fire(roomID, t) })
	s.mu.Unlock()

	return nil
}

// Cancel drops every pending reply for the room
func (s *Simulator) Cancel(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for t := range s.pending[roomID] {
		t.timer.Stop()
	}
	delete(s.pending, roomID)
}

// CancelAll drops every pending reply
func (s *Simulator) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tasks := range s.pending {
		for t := range tasks {
			t.timer.Stop()
		}
	}
	s.pending = make(map[string]map[*task]struct{})
}

// State reports whether the room has a reply in flight
func (s *Simulator) State(roomID string) State {
	if s.Pending(roomID) > 0 {
		return StateAwaitingReply
	}
	return StateIdle
}

// Pending returns the number of scheduled replies for the room
func (s *Simulator) Pending(roomID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[roomID])
}

func (s *Simulator) fire(roomID string, t *task) {
	s.mu.Lock()
	tasks := s.pending[roomID]
	if _, ok := tasks[t]; !ok {
		s.mu.Unlock()
		return
	}
	delete(tasks, t)
	if len(tasks) == 0 {
		delete(s.pending, roomID)
	}
	s.mu.Unlock()

	ctx := context.Background()
	text := s.reply(ctx, roomID)

	replaced, err := s.rooms.ReplaceFirstPlaceholder(ctx, roomID, text)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("Failed to deliver reply")
		return
	}
	log.Debug().Str("room_id", roomID).Bool("replaced", replaced).Msg("Reply delivered")
}

func (s *Simulator) reply(ctx context.Context, roomID string) string {
	if s.provider == nil {
		return s.fallback
	}

	req := llm.Request{RoomID: roomID}
	if room, ok := s.rooms.RoomByID(roomID); ok {
		req.History = room.Messages
		for i := len(room.Messages) - 1; i >= 0; i-- {
			if room.Messages[i].Sender == domain.SenderUser {
				req.Prompt = room.Messages[i].Text
				break
			}
		}
	}

	resp, err := s.provider.Reply(ctx, req)
	if err != nil || resp.Text == "" {
		log.Warn().Err(err).Str("provider", s.provider.Name()).Msg("Reply provider failed, using default text")
		return s.fallback
	}
	return resp.Text
}
