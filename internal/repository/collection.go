package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"foresttrack/internal/kv"
)

const (
	KeyCurrentUser  = "currentUser"
	KeyUsers        = "users"
	KeyTrees        = "trees"
	KeyObservations = "fieldObservations"
	KeyChatGroups   = "chatGroups"
	KeyChatMessages = "chatMessages"
)

// collection reads and writes one whole JSON array under a single key.
// When the key is absent and seed is set, the seed is persisted first and
// returned, so a second load sees exactly what the first one did.
type collection[T any] struct {
	store kv.Store
	key   string
	seed  func() []T
}

func (c collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			return nil, fmt.Errorf("read %s: %w", c.key, err)
		}
		if c.seed == nil {
			return []T{}, nil
		}
		items := c.seed()
		if err := c.save(ctx, items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}
