package repository

import (
	"context"
	"time"

	"foresttrack/internal/kv"
	"foresttrack/internal/models"
)

type ChatGroupRepository struct {
	groups collection[models.ChatGroup]
}

func NewChatGroupRepository(store kv.Store) *ChatGroupRepository {
	return &ChatGroupRepository{groups: collection[models.ChatGroup]{store: store, key: KeyChatGroups, seed: SeedChatGroups}}
}

func (r *ChatGroupRepository) Load(ctx context.Context) ([]models.ChatGroup, error) {
	return r.groups.load(ctx)
}

func (r *ChatGroupRepository) Save(ctx context.Context, groups []models.ChatGroup) error {
	return r.groups.save(ctx, groups)
}

type ChatMessageRepository struct {
	messages collection[models.ChatMessage]
}

// NewChatMessageRepository seeds sample messages relative to now() on the
// first load of an empty store.
func NewChatMessageRepository(store kv.Store, now func() time.Time) *ChatMessageRepository {
	seed := func() []models.ChatMessage { return SeedChatMessages(now()) }
	return &ChatMessageRepository{messages: collection[models.ChatMessage]{store: store, key: KeyChatMessages, seed: seed}}
}

func (r *ChatMessageRepository) Load(ctx context.Context) ([]models.ChatMessage, error) {
	return r.messages.load(ctx)
}

func (r *ChatMessageRepository) Save(ctx context.Context, messages []models.ChatMessage) error {
	return r.messages.save(ctx, messages)
}
