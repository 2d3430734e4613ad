package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"foresttrack/internal/kv"
	"foresttrack/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository holds the single active-session slot.
type SessionRepository struct {
	store kv.Store
}

func NewSessionRepository(store kv.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Get(ctx context.Context) (models.User, error) {
	raw, err := r.store.Get(ctx, KeyCurrentUser)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return models.User{}, ErrSessionNotFound
		}
		return models.User{}, fmt.Errorf("read %s: %w", KeyCurrentUser, err)
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return models.User{}, fmt.Errorf("decode %s: %w", KeyCurrentUser, err)
	}
	return user, nil
}

func (r *SessionRepository) Set(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyCurrentUser, err)
	}
	if err := r.store.Set(ctx, KeyCurrentUser, raw); err != nil {
		return fmt.Errorf("write %s: %w", KeyCurrentUser, err)
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, KeyCurrentUser); err != nil {
		return fmt.Errorf("delete %s: %w", KeyCurrentUser, err)
	}
	return nil
}
