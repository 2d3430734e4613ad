package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"foresttrack/internal/ids"
	"foresttrack/internal/models"
	"foresttrack/internal/repository"
	"foresttrack/internal/security"
)

type AccountService struct {
	mu       sync.Mutex
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	photos   PhotoStore
	clock    *ids.Clock
	hash     func(string) (string, error)
	log      zerolog.Logger
}

func NewAccountService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	photos PhotoStore,
	clock *ids.Clock,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		sessions: sessions,
		photos:   photos,
		clock:    clock,
		hash:     security.HashPassword,
		log:      log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
}

// Register creates an account and makes it the active session. Emails are
// compared verbatim.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	if input.Role == "" {
		input.Role = models.UserRoleForester
	}
	if !input.Role.Valid() {
		return models.User{}, ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureEmailFree(ctx, input.Email, ""); err != nil {
		return models.User{}, err
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return models.User{}, err
	}

	passwordHash, err := s.hash(input.Password)
	if err != nil {
		return models.User{}, err
	}

	id, now := s.clock.Next()
	user := models.User{
		ID:        id,
		Name:      input.Name,
		Email:     input.Email,
		Password:  passwordHash,
		Role:      input.Role,
		CreatedAt: now.UTC(),
	}

	if err := s.users.Save(ctx, append(users, user)); err != nil {
		return models.User{}, err
	}
	if err := s.sessions.Set(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("account registered")
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.Load(ctx)
	if err != nil {
		return models.User{}, err
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		ok, err := security.VerifyPassword(password, u.Password)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", u.ID).Msg("stored password unreadable")
			continue
		}
		if !ok {
			continue
		}
		if err := s.sessions.Set(ctx, u); err != nil {
			return models.User{}, err
		}
		s.log.Info().Str("user_id", u.ID).Msg("login")
		return u, nil
	}

	return models.User{}, ErrInvalidCredentials
}

func (s *AccountService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Clear(ctx)
}

func (s *AccountService) Current(ctx context.Context) (models.User, error) {
	user, err := s.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.User{}, ErrNoSession
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdateProfile merges the non-nil fields of patch into the session user and
// writes both the users list and the session copy. Field formats are not
// checked.
func (s *AccountService) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Current(ctx)
	if err != nil {
		return models.User{}, err
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return models.User{}, ErrInvalidRole
	}

	if patch.Email != nil {
		if err := s.ensureEmailFree(ctx, *patch.Email, current.ID); err != nil {
			return models.User{}, err
		}
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return models.User{}, err
	}

	if patch.ProfilePicture != nil && *patch.ProfilePicture != "" {
		stored, err := s.photos.Store(ctx, current.ID, []string{*patch.ProfilePicture})
		if err != nil {
			return models.User{}, fmt.Errorf("store profile picture: %w", err)
		}
		patch.ProfilePicture = &stored[0]
	}

	updated := applyPatch(current, patch)
	for i := range users {
		if users[i].ID == current.ID {
			users[i] = updated
		}
	}

	if err := s.users.Save(ctx, users); err != nil {
		return models.User{}, err
	}
	if err := s.sessions.Set(ctx, updated); err != nil {
		return models.User{}, err
	}

	s.log.Debug().Str("user_id", updated.ID).Msg("profile updated")
	return updated, nil
}

// ensureEmailFree fails with ErrDuplicateAccount when email belongs to any
// user other than ownerID.
func (s *AccountService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return ErrDuplicateAccount
	}
	return nil
}

func applyPatch(u models.User, p models.ProfilePatch) models.User {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.ProfilePicture, p.ProfilePicture)
	set(&u.Phone, p.Phone)
	set(&u.Location, p.Location)
	set(&u.Bio, p.Bio)
	set(&u.LookingFor, p.LookingFor)
	set(&u.JoinDate, p.JoinDate)
	if p.Role != nil {
		u.Role = *p.Role
	}
	return u
}
