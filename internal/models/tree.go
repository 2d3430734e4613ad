package models

type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthAtRisk   Health = "at-risk"
	HealthCritical Health = "critical"
)

func (h Health) Valid() bool {
	switch h {
	case HealthHealthy, HealthAtRisk, HealthCritical:
		return true
	}
	return false
}

type Tree struct {
	ID             int     `json:"id"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Species        string  `json:"species"`
	Health         Health  `json:"health"`
	LastInspection string  `json:"lastInspection"`
}
