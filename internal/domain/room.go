package domain

// Room represents an independently addressable message thread
type Room struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// Clone returns a deep copy of the room. The message slice is never nil.
func (r Room) Clone() Room {
	messages := make([]Message, len(r.Messages))
	copy(messages, r.Messages)
	return Room{ID: r.ID, Title: r.Title, Messages: messages}
}

// Summary returns the id/title pair of the room
func (r Room) Summary() RoomSummary {
	return RoomSummary{ID: r.ID, Title: r.Title}
}

// RoomSummary is the id/title projection of a room kept in the legacy mirror
type RoomSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewRoom describes a room to create. It is either a named room, which gets a
// freshly generated id, or a restored room whose id is kept as is.
type NewRoom struct {
	id    string
	title string
}

// NamedRoom creates a room input with a generated id
func NamedRoom(title string) NewRoom {
	return NewRoom{title: title}
}

// RestoredRoom creates a room input that keeps a previously persisted id
func RestoredRoom(id, title string) NewRoom {
	return NewRoom{id: id, title: title}
}

// ID returns the supplied id, if any
func (n NewRoom) ID() (string, bool) {
	return n.id, n.id != ""
}

// Title returns the room title
func (n NewRoom) Title() string {
	return n.title
}

// RoomCreate represents room creation data
type RoomCreate struct {
	Title string `json:"title" validate:"required,max=255"`
}
