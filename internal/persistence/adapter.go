// Package persistence maps the chat session and auth state onto a key-value medium.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/security"
	"github.com/rs/zerolog/log"
)

// Storage keys shared with existing clients
const (
	KeyDocument     = "chatAppData"
	KeyLegacyRooms  = "chatrooms"
	KeyLegacyActive = "activeChatroomId"
	KeyIsAuth       = "isAuth"
	KeyUser         = "user"
	KeyOTP          = "generatedOtp"
)

// legacyNull is what the legacy mirror holds when no room is active
const legacyNull = "null"

// document is the persisted shape of a session
type document struct {
	Chatrooms        []domain.Room `json:"chatrooms"`
	ActiveChatroomID *string       `json:"activeChatroomId"`
}

// LegacySnapshot is the room list and active id read from the legacy mirror
type LegacySnapshot struct {
	Rooms        []domain.RoomSummary
	ActiveRoomID string
}

// Adapter reads and writes chat state. It is the single writer of both the
// session document and the legacy mirror.
type Adapter struct {
	store        domain.KVStore
	enc          *security.Encryptor
	legacyMirror bool
}

// New creates an adapter. enc may be nil to store values in plaintext.
func New(store domain.KVStore, legacyMirror bool, enc *security.Encryptor) *Adapter {
	return &Adapter{store: store, enc: enc, legacyMirror: legacyMirror}
}

// Load returns the persisted session. Missing, unreadable or empty data is
// reported as absent.
func (a *Adapter) Load(ctx context.Context) (*domain.Session, bool) {
	raw, ok := a.read(ctx, KeyDocument)
	if !ok {
		return nil, false
	}

	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		log.Warn().Err(err).Str("key", KeyDocument).Msg("Ignoring malformed session document")
		return nil, false
	}
	if len(doc.Chatrooms) == 0 {
		return nil, false
	}

	session := &domain.Session{Rooms: make([]domain.Room, len(doc.Chatrooms))}
	for i, r := range doc.Chatrooms {
		session.Rooms[i] = r.Clone()
	}
	if doc.ActiveChatroomID != nil {
		session.ActiveRoomID = *doc.ActiveChatroomID
	}
	return session, true
}

// Save writes the whole session, and the legacy mirror when enabled
func (a *Adapter) Save(ctx context.Context, s *domain.Session) error {
	doc := document{Chatrooms: s.Rooms}
	if doc.Chatrooms == nil {
		doc.Chatrooms = []domain.Room{}
	}
	if s.ActiveRoomID != "" {
		id := s.ActiveRoomID
		doc.ActiveChatroomID = &id
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := a.write(ctx, KeyDocument, string(data)); err != nil {
		return err
	}

	if !a.legacyMirror {
		return nil
	}

	rooms, err := json.Marshal(doc.Chatrooms)
	if err != nil {
		return fmt.Errorf("failed to encode legacy rooms: %w", err)
	}
	if err := a.write(ctx, KeyLegacyRooms, string(rooms)); err != nil {
		return err
	}

	active := s.ActiveRoomID
	if active == "" {
		active = legacyNull
	}
	return a.write(ctx, KeyLegacyActive, active)
}

// Clear removes the session document and the legacy mirror
func (a *Adapter) Clear(ctx context.Context) error {
	for _, key := range []string{KeyDocument, KeyLegacyRooms, KeyLegacyActive} {
		if err := a.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	return nil
}

// LoadLegacy reads the legacy mirror. Both keys must be present.
func (a *Adapter) LoadLegacy(ctx context.Context) (LegacySnapshot, bool) {
	rawRooms, ok := a.read(ctx, KeyLegacyRooms)
	if !ok || rawRooms == "" {
		return LegacySnapshot{}, false
	}
	active, ok := a.read(ctx, KeyLegacyActive)
	if !ok || active == "" {
		return LegacySnapshot{}, false
	}

	var rooms []domain.RoomSummary
	if err := json.Unmarshal([]byte(rawRooms), &rooms); err != nil {
		log.Warn().Err(err).Str("key", KeyLegacyRooms).Msg("Ignoring malformed legacy room list")
		return LegacySnapshot{}, false
	}
	if active == legacyNull {
		active = ""
	}
	return LegacySnapshot{Rooms: rooms, ActiveRoomID: active}, true
}

// LoadAuth reads the auth mirror
func (a *Adapter) LoadAuth(ctx context.Context) domain.AuthState {
	flag, _ := a.read(ctx, KeyIsAuth)
	state := domain.AuthState{Authenticated: flag == "true"}

	if raw, ok := a.read(ctx, KeyUser); ok {
		var p domain.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			log.Warn().Err(err).Str("key", KeyUser).Msg("Ignoring malformed user profile")
		} else {
			state.User = &p
		}
	}
	return state
}

// SaveAuth marks the profile as logged in and drops the pending code
func (a *Adapter) SaveAuth(ctx context.Context, p domain.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := a.write(ctx, KeyIsAuth, "true"); err != nil {
		return err
	}
	if err := a.write(ctx, KeyUser, string(data)); err != nil {
		return err
	}
	if err := a.store.Remove(ctx, KeyOTP); err != nil {
		return fmt.Errorf("failed to remove %s: %w", KeyOTP, err)
	}
	return nil
}

// SaveOTP stores the hash of the pending login code
func (a *Adapter) SaveOTP(ctx context.Context, hash string) error {
	return a.write(ctx, KeyOTP, hash)
}

// LoadOTP returns the pending login code hash
func (a *Adapter) LoadOTP(ctx context.Context) (string, bool) {
	return a.read(ctx, KeyOTP)
}

// ClearAuth removes the auth flag, the profile and any pending code
func (a *Adapter) ClearAuth(ctx context.Context) error {
	for _, key := range []string{KeyIsAuth, KeyUser, KeyOTP} {
		if err := a.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	return nil
}

func (a *Adapter) read(ctx context.Context, key string) (string, bool) {
	raw, err := a.store.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return "", false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to read from storage")
		return "", false
	}

	if a.enc != nil {
		raw, err = a.enc.Open(raw)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to decrypt stored value")
			return "", false
		}
	}
	return raw, true
}

func (a *Adapter) write(ctx context.Context, key, value string) error {
	if a.enc != nil {
		sealed, err := a.enc.Seal(value)
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", key, err)
		}
		value = sealed
	}
	if err := a.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
