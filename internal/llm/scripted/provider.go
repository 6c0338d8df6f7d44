// Package scripted answers every prompt with canned text.
package scripted

import (
	"context"
	"sync"
	"time"

	"github.com/Rrens/chatrooms/internal/llm"
)

const Name = "scripted"

// Provider returns its replies in order, repeating the last one
type Provider struct {
	mu      sync.Mutex
	replies []string
	next    int
}

// New creates a provider. With no replies it is not configured.
func New(replies ...string) *Provider {
	return &Provider{replies: replies}
}

func (p *Provider) Name() string {
	return Name
}

func (p *Provider) IsConfigured() bool {
	return len(p.replies) > 0
}

func (p *Provider) Reply(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	p.mu.Lock()
	text := p.replies[p.next]
	if p.next < len(p.replies)-1 {
		p.next++
	}
	p.mu.Unlock()

	return &llm.Response{
		Text:      text,
		Provider:  Name,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
