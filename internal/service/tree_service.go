package service

import (
	"context"
	"strconv"

	"foresttrack/internal/models"
	"foresttrack/internal/repository"
)

type TreeService struct {
	trees *repository.TreeRepository
}

func NewTreeService(trees *repository.TreeRepository) *TreeService {
	return &TreeService{trees: trees}
}

func (s *TreeService) List(ctx context.Context) ([]models.Tree, error) {
	return s.trees.Load(ctx)
}

func (s *TreeService) Get(ctx context.Context, id int) (models.Tree, error) {
	trees, err := s.trees.Load(ctx)
	if err != nil {
		return models.Tree{}, err
	}
	for _, t := range trees {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Tree{}, ErrTreeNotFound
}

func (s *TreeService) exists(ctx context.Context, id string) (bool, error) {
	trees, err := s.trees.Load(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range trees {
		if strconv.Itoa(t.ID) == id {
			return true, nil
		}
	}
	return false, nil
}
