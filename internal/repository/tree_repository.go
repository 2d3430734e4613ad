package repository

import (
	"context"

	"foresttrack/internal/kv"
	"foresttrack/internal/models"
)

type TreeRepository struct {
	trees collection[models.Tree]
}

func NewTreeRepository(store kv.Store) *TreeRepository {
	return &TreeRepository{trees: collection[models.Tree]{store: store, key: KeyTrees, seed: SeedTrees}}
}

func (r *TreeRepository) Load(ctx context.Context) ([]models.Tree, error) {
	return r.trees.load(ctx)
}

func (r *TreeRepository) Save(ctx context.Context, trees []models.Tree) error {
	return r.trees.save(ctx, trees)
}
