// Package bootstrap merges the legacy room mirror into the session once per process.
package bootstrap

import (
	"context"
	"sync"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/persistence"
	"github.com/rs/zerolog/log"
)

// Source reads the legacy mirror
type Source interface {
	LoadLegacy(ctx context.Context) (persistence.LegacySnapshot, bool)
}

// Target is the session store the snapshot is merged into
type Target interface {
	RoomByID(id string) (domain.Room, bool)
	CreateRoom(ctx context.Context, in domain.NewRoom) (domain.Room, error)
	SetActiveRoom(ctx context.Context, id string) error
}

// Restorer runs the merge at most once
type Restorer struct {
	source Source
	target Target

	once sync.Once
	err  error
}

func New(source Source, target Target) *Restorer {
	return &Restorer{source: source, target: target}
}

// Run performs the merge the first time it is called. Later calls return the
// first result without touching the session.
func (r *Restorer) Run(ctx context.Context) error {
	r.once.Do(func() {
		snap, ok := r.source.LoadLegacy(ctx)
		if !ok {
			log.Debug().Msg("No legacy room mirror to restore")
			return
		}
		r.err = Merge(ctx, r.target, snap)
	})
	return r.err
}

// Merge creates every snapshot room not already present, keeping its id and
// title, then activates the snapshot's active id. Messages are not carried over.
func Merge(ctx context.Context, target Target, snap persistence.LegacySnapshot) error {
	created := 0
	for _, room := range snap.Rooms {
		if _, exists := target.RoomByID(room.ID); exists {
			continue
		}
		if _, err := target.CreateRoom(ctx, domain.RestoredRoom(room.ID, room.Title)); err != nil {
			return err
		}
		created++
	}

	if err := target.SetActiveRoom(ctx, snap.ActiveRoomID); err != nil {
		return err
	}

	log.Info().Int("rooms", len(snap.Rooms)).Int("created", created).Msg("Legacy rooms restored")
	return nil
}
