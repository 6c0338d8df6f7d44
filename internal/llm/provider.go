package llm

import (
	"context"

	"github.com/Rrens/chatrooms/internal/domain"
)

// Request describes the conversation a reply is wanted for
type Request struct {
	RoomID  string
	Prompt  string // text of the latest user message, may be empty for image-only sends
	History []domain.Message
}

// Response contains a generated reply
type Response struct {
	Text      string
	Provider  string
	LatencyMs int64
}

// Provider produces assistant replies
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// IsConfigured checks if provider is ready to answer
	IsConfigured() bool

	// Reply generates the assistant answer for a room
	Reply(ctx context.Context, req Request) (*Response, error)
}
