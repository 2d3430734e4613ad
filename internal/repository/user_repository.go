package repository

import (
	"context"
	"errors"

	"foresttrack/internal/kv"
	"foresttrack/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	users collection[models.User]
}

func NewUserRepository(store kv.Store) *UserRepository {
	return &UserRepository{users: collection[models.User]{store: store, key: KeyUsers}}
}

func (r *UserRepository) Load(ctx context.Context) ([]models.User, error) {
	return r.users.load(ctx)
}

func (r *UserRepository) Save(ctx context.Context, users []models.User) error {
	return r.users.save(ctx, users)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	users, err := r.Load(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}
