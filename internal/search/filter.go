// Package search filters room logs and room lists by free text.
package search

import (
	"strings"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/samber/lo"
)

// Filter returns the messages whose text contains query, ignoring case.
// An empty query returns every message. The input is never modified.
func Filter(query string, messages []domain.Message) []domain.Message {
	if query == "" {
		out := make([]domain.Message, len(messages))
		copy(out, messages)
		return out
	}
	return lo.Filter(messages, func(m domain.Message, _ int) bool {
		return m.Text != "" && m.MatchesText(query)
	})
}

// FilterRooms returns the rooms whose title contains query, ignoring case
func FilterRooms(query string, rooms []domain.RoomSummary) []domain.RoomSummary {
	q := strings.ToLower(query)
	return lo.Filter(rooms, func(r domain.RoomSummary, _ int) bool {
		return strings.Contains(strings.ToLower(r.Title), q)
	})
}
