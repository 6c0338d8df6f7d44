package domain

import "github.com/samber/lo"

// Session is the full chat state: all rooms plus the active one.
// An empty ActiveRoomID means no room is active.
type Session struct {
	Rooms        []Room
	ActiveRoomID string
}

// NewSession returns an empty session
func NewSession() *Session {
	return &Session{Rooms: []Room{}}
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	rooms := make([]Room, len(s.Rooms))
	for i, r := range s.Rooms {
		rooms[i] = r.Clone()
	}
	return &Session{Rooms: rooms, ActiveRoomID: s.ActiveRoomID}
}

// IndexOf returns the position of the room with the given id, or -1
func (s *Session) IndexOf(id string) int {
	_, idx, ok := lo.FindIndexOf(s.Rooms, func(r Room) bool { return r.ID == id })
	if !ok {
		return -1
	}
	return idx
}

// Has reports whether a room with the given id exists
func (s *Session) Has(id string) bool {
	return s.IndexOf(id) >= 0
}

// Active returns a pointer into Rooms for the active room
func (s *Session) Active() (*Room, bool) {
	if s.ActiveRoomID == "" {
		return nil, false
	}
	idx := s.IndexOf(s.ActiveRoomID)
	if idx < 0 {
		return nil, false
	}
	return &s.Rooms[idx], true
}

// Repair points ActiveRoomID at the first room when rooms exist but none is active.
// It reports whether anything changed.
func (s *Session) Repair() bool {
	if s.ActiveRoomID == "" && len(s.Rooms) > 0 {
		s.ActiveRoomID = s.Rooms[0].ID
		return true
	}
	return false
}

// Summaries returns the id/title pairs of all rooms in order
func (s *Session) Summaries() []RoomSummary {
	return lo.Map(s.Rooms, func(r Room, _ int) RoomSummary { return r.Summary() })
}
