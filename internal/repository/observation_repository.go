package repository

import (
	"context"

	"foresttrack/internal/kv"
	"foresttrack/internal/models"
)

type ObservationRepository struct {
	observations collection[models.Observation]
}

func NewObservationRepository(store kv.Store) *ObservationRepository {
	return &ObservationRepository{observations: collection[models.Observation]{store: store, key: KeyObservations}}
}

func (r *ObservationRepository) Load(ctx context.Context) ([]models.Observation, error) {
	return r.observations.load(ctx)
}

func (r *ObservationRepository) Save(ctx context.Context, observations []models.Observation) error {
	return r.observations.save(ctx, observations)
}
