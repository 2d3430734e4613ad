package service

import (
	"context"
	"math"
	"sort"

	"foresttrack/internal/models"
	"foresttrack/internal/repository"
)

type HealthSummary struct {
	Total      int            `json:"total"`
	Healthy    int            `json:"healthy"`
	AtRisk     int            `json:"atRisk"`
	Critical   int            `json:"critical"`
	HealthyPct float64        `json:"healthyPct"`
	AtRiskPct  float64        `json:"atRiskPct"`
	Species    []SpeciesCount `json:"species"`
}

type SpeciesCount struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
}

type AnalyticsService struct {
	trees *repository.TreeRepository
}

func NewAnalyticsService(trees *repository.TreeRepository) *AnalyticsService {
	return &AnalyticsService{trees: trees}
}

func (s *AnalyticsService) HealthSummary(ctx context.Context) (HealthSummary, error) {
	trees, err := s.trees.Load(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	return summarize(trees), nil
}

func summarize(trees []models.Tree) HealthSummary {
	summary := HealthSummary{Total: len(trees), Species: []SpeciesCount{}}
	bySpecies := map[string]int{}
	for _, t := range trees {
		switch t.Health {
		case models.HealthHealthy:
			summary.Healthy++
		case models.HealthAtRisk:
			summary.AtRisk++
		case models.HealthCritical:
			summary.Critical++
		}
		bySpecies[t.Species]++
	}

	if summary.Total > 0 {
		summary.HealthyPct = percent(summary.Healthy, summary.Total)
		summary.AtRiskPct = percent(summary.AtRisk, summary.Total)
	}

	for species, count := range bySpecies {
		summary.Species = append(summary.Species, SpeciesCount{Species: species, Count: count})
	}
	sort.Slice(summary.Species, func(i, j int) bool {
		if summary.Species[i].Count != summary.Species[j].Count {
			return summary.Species[i].Count > summary.Species[j].Count
		}
		return summary.Species[i].Species < summary.Species[j].Species
	})
	return summary
}

// percent rounds to one decimal place.
func percent(part, total int) float64 {
	return math.Round(float64(part)*1000/float64(total)) / 10
}
