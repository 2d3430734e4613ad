package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"foresttrack/internal/geo"
	"foresttrack/internal/ids"
	"foresttrack/internal/models"
	"foresttrack/internal/repository"
)

type FieldService struct {
	mu           sync.Mutex
	observations *repository.ObservationRepository
	trees        *TreeService
	accounts     *AccountService
	photos       PhotoStore
	network      NetworkStatus
	clock        *ids.Clock
	strictRefs   bool
	log          zerolog.Logger
}

type FieldServiceOptions struct {
	StrictReferences bool
}

func NewFieldService(
	observations *repository.ObservationRepository,
	trees *TreeService,
	accounts *AccountService,
	photos PhotoStore,
	network NetworkStatus,
	clock *ids.Clock,
	opts FieldServiceOptions,
	log zerolog.Logger,
) *FieldService {
	return &FieldService{
		observations: observations,
		trees:        trees,
		accounts:     accounts,
		photos:       photos,
		network:      network,
		clock:        clock,
		strictRefs:   opts.StrictReferences,
		log:          log,
	}
}

// ObservationInput is what the field form submits. When UseGPS is set the
// location is taken from Fix and Location is ignored.
type ObservationInput struct {
	TreeID   string
	Health   models.Health
	Notes    string
	Photos   []string
	Location string
	UseGPS   bool
	Fix      *geo.Fix
}

// CreateObservation records an observation for the session user. Synced
// reflects connectivity at the time of the call.
func (s *FieldService) CreateObservation(ctx context.Context, input ObservationInput) (models.Observation, error) {
	if input.Health == "" {
		input.Health = models.HealthHealthy
	}
	if !input.Health.Valid() {
		return models.Observation{}, ErrInvalidHealth
	}

	location := input.Location
	if input.UseGPS {
		resolved, err := geo.Resolve(input.Fix)
		if err != nil {
			return models.Observation{}, err
		}
		location = resolved
	}
	if location == "" {
		location = models.LocationUnavailable
	}

	user, err := s.accounts.Current(ctx)
	if err != nil {
		return models.Observation{}, err
	}

	if s.strictRefs {
		ok, err := s.trees.exists(ctx, input.TreeID)
		if err != nil {
			return models.Observation{}, err
		}
		if !ok {
			return models.Observation{}, fmt.Errorf("tree %q: %w", input.TreeID, ErrReference)
		}
	}

	photos := []string{}
	if len(input.Photos) > 0 {
		photos, err = s.photos.Store(ctx, user.ID, input.Photos)
		if err != nil {
			return models.Observation{}, fmt.Errorf("store photos: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.observations.Load(ctx)
	if err != nil {
		return models.Observation{}, err
	}

	id, now := s.clock.Next()
	obs := models.Observation{
		ID:       id,
		TreeID:   input.TreeID,
		UserID:   user.ID,
		UserName: user.Name,
		Date:     now.UTC(),
		Health:   input.Health,
		Notes:    input.Notes,
		Photos:   photos,
		Location: location,
		Synced:   s.network.Online(),
	}

	next := make([]models.Observation, 0, len(existing)+1)
	next = append(next, obs)
	next = append(next, existing...)
	if err := s.observations.Save(ctx, next); err != nil {
		return models.Observation{}, err
	}

	s.log.Info().
		Str("observation_id", obs.ID).
		Str("tree_id", obs.TreeID).
		Bool("synced", obs.Synced).
		Msg("observation recorded")
	return obs, nil
}

func (s *FieldService) List(ctx context.Context) ([]models.Observation, error) {
	return s.observations.Load(ctx)
}

func (s *FieldService) PendingCount(ctx context.Context) (int, error) {
	observations, err := s.observations.Load(ctx)
	if err != nil {
		return 0, err
	}
	pending := 0
	for _, o := range observations {
		if !o.Synced {
			pending++
		}
	}
	return pending, nil
}

// SyncAll marks every stored observation as synced and returns how many
// changed. Nothing is written while offline.
func (s *FieldService) SyncAll(ctx context.Context) (int, error) {
	if !s.network.Online() {
		return 0, ErrOffline
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	observations, err := s.observations.Load(ctx)
	if err != nil {
		return 0, err
	}
	flipped := 0
	for i := range observations {
		if !observations[i].Synced {
			observations[i].Synced = true
			flipped++
		}
	}
	if err := s.observations.Save(ctx, observations); err != nil {
		return 0, err
	}

	s.log.Info().Int("flipped", flipped).Int("total", len(observations)).Msg("observations synced")
	return flipped, nil
}
