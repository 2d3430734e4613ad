package service

import (
	"github.com/rs/zerolog"

	"foresttrack/internal/ids"
	"foresttrack/internal/kv"
	"foresttrack/internal/repository"
)

// App holds every service that shares one store namespace and one session
// slot.
type App struct {
	Accounts  *AccountService
	Trees     *TreeService
	Field     *FieldService
	Chat      *ChatService
	Analytics *AnalyticsService
}

type Options struct {
	StrictReferences bool
	Clock            *ids.Clock

	// HashPassword overrides the argon2id default.
	HashPassword func(string) (string, error)
}

func NewApp(store kv.Store, photos PhotoStore, network NetworkStatus, opts Options, log zerolog.Logger) *App {
	clock := opts.Clock
	if clock == nil {
		clock = ids.NewClock()
	}

	treeRepo := repository.NewTreeRepository(store)
	accounts := NewAccountService(
		repository.NewUserRepository(store),
		repository.NewSessionRepository(store),
		photos,
		clock,
		log.With().Str("component", "accounts").Logger(),
	)
	if opts.HashPassword != nil {
		accounts.hash = opts.HashPassword
	}
	trees := NewTreeService(treeRepo)

	return &App{
		Accounts: accounts,
		Trees:    trees,
		Field: NewFieldService(
			repository.NewObservationRepository(store),
			trees,
			accounts,
			photos,
			network,
			clock,
			FieldServiceOptions{StrictReferences: opts.StrictReferences},
			log.With().Str("component", "field").Logger(),
		),
		Chat: NewChatService(
			repository.NewChatGroupRepository(store),
			repository.NewChatMessageRepository(store, clock.Now),
			accounts,
			clock,
			opts.StrictReferences,
			log.With().Str("component", "chat").Logger(),
		),
		Analytics: NewAnalyticsService(treeRepo),
	}
}
