// Package app assembles the chat core and its collaborators from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/Rrens/chatrooms/internal/bootstrap"
	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/countries"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/llm"
	"github.com/Rrens/chatrooms/internal/llm/scripted"
	"github.com/Rrens/chatrooms/internal/notify"
	"github.com/Rrens/chatrooms/internal/persistence"
	"github.com/Rrens/chatrooms/internal/repository"
	"github.com/Rrens/chatrooms/internal/search"
	"github.com/Rrens/chatrooms/internal/security"
	"github.com/Rrens/chatrooms/internal/service"
	"github.com/Rrens/chatrooms/internal/session"
	"github.com/Rrens/chatrooms/internal/simulator"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// App holds one wired chat session and everything that serves it
type App struct {
	Config    *config.Config
	Clock     clockwork.Clock
	Storage   repository.Store
	Adapter   *persistence.Adapter
	Session   *session.Store
	Simulator *simulator.Simulator
	Restorer  *bootstrap.Restorer
	Feed      *notify.Feed
	JWT       *security.JWTManager
	LLM       *llm.Router
	Chat      *service.ChatService
	Auth      *service.AuthService
	Countries *countries.Client
}

// Option overrides a default collaborator
type Option func(*options)

type options struct {
	clock   clockwork.Clock
	storage repository.Store
}

// WithClock replaces the real clock
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithStorage uses an already opened store instead of cfg.Storage
func WithStorage(s repository.Store) Option {
	return func(o *options) { o.storage = s }
}

// New opens storage, restores the session and wires all services
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}

	storage := o.storage
	if storage == nil {
		var err error
		storage, err = repository.Open(ctx, cfg.Storage, cfg.Redis)
		if err != nil {
			return nil, err
		}
	}

	var enc *security.Encryptor
	if cfg.Storage.EncryptionKey != "" {
		var err error
		enc, err = security.NewEncryptorFromBase64(cfg.Storage.EncryptionKey)
		if err != nil {
			_ = storage.Close()
			return nil, fmt.Errorf("failed to create encryptor: %w", err)
		}
	}

	feed := notify.NewFeed(cfg.Chat.NotificationFeed, o.clock.Now)
	notifier := notify.Multi{feed, notify.NewLogger(log.Logger)}

	adapter := persistence.New(storage, cfg.Storage.LegacyMirror, enc)
	store := session.New(ctx, adapter,
		session.WithClock(o.clock),
		session.WithNotifier(notifier),
	)

	router := llm.NewRouter(scripted.Name)
	router.RegisterProvider(scripted.New(cfg.Chat.ReplyText))

	sim := simulator.New(store, router, o.clock, cfg.Chat)
	view := search.NewView(o.clock, cfg.Chat.SearchDebounce, func() []domain.Message {
		room, _ := store.ActiveRoom()
		return room.Messages
	})

	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, o.clock)

	countryClient, err := countries.NewClient(cfg.Countries)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Clock:     o.clock,
		Storage:   storage,
		Adapter:   adapter,
		Session:   store,
		Simulator: sim,
		Restorer:  bootstrap.New(adapter, store),
		Feed:      feed,
		JWT:       jwtManager,
		LLM:       router,
		Chat:      service.NewChatService(store, sim, view, notifier, cfg.Chat.DefaultRoomTitle),
		Auth:      service.NewAuthService(adapter, jwtManager, store, sim, notifier, o.clock, cfg.Auth),
		Countries: countryClient,
	}

	if err := a.Restorer.Run(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to restore legacy rooms")
	}
	return a, nil
}

// Close stops pending replies and releases storage
func (a *App) Close() error {
	a.Simulator.CancelAll()
	a.Countries.Close()
	if err := a.Storage.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}
