package domain

import (
	"strings"
	"time"
)

// Sender represents the author of a message
type Sender string

const (
	SenderUser   Sender = "user"
	SenderAI     Sender = "ai"
	SenderTyping Sender = "typing" // placeholder shown while a reply is pending
)

// Valid reports whether s is a known sender
func (s Sender) Valid() bool {
	switch s {
	case SenderUser, SenderAI, SenderTyping:
		return true
	}
	return false
}

// Message represents one entry of a room log
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text,omitempty"`
	Image     string    `json:"image,omitempty"` // data URI
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// IsPlaceholder reports whether the message marks a reply in progress
func (m Message) IsPlaceholder() bool {
	return m.Sender == SenderTyping
}

// MatchesText reports whether the message text contains query, ignoring case.
// Messages without text only match the empty query.
func (m Message) MatchesText(query string) bool {
	return strings.Contains(strings.ToLower(m.Text), strings.ToLower(query))
}

// MessageInput represents the payload of a send command
type MessageInput struct {
	Text   string `json:"text" validate:"max=10000"`
	Image  string `json:"image,omitempty"`
	Sender Sender `json:"sender,omitempty" validate:"omitempty,oneof=user ai typing"`
}

// SenderOrDefault returns the input sender, defaulting to the user
func (in MessageInput) SenderOrDefault() Sender {
	if in.Sender == "" {
		return SenderUser
	}
	return in.Sender
}
