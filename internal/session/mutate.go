package session

import (
	"context"
	"errors"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/notify"
	"github.com/rs/zerolog/log"
)

// errSkip ends a command without changing state or reporting an error
var errSkip = errors.New("skip")

// mutate applies fn to a copy of the state, swaps the copy in and writes it
// through. The state is left untouched when fn fails. A failed write is
// reported but does not undo the change.
func (s *Store) mutate(ctx context.Context, fn func(next *domain.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.Repair()

	if err := fn(next); err != nil {
		if errors.Is(err, errSkip) {
			return nil
		}
		return err
	}

	s.state = next
	if err := s.persist.Save(ctx, next); err != nil {
		log.Error().Err(err).Msg("Failed to persist chat state")
		s.notifier.Notify(ctx, notify.LevelError, saveFailedMessage)
	}
	return nil
}
