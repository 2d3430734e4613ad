package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foresttrack/internal/geo"
	"foresttrack/internal/models"
	"foresttrack/internal/service"
)

type observationRequest struct {
	TreeID   string   `json:"treeId"`
	Health   string   `json:"health"`
	Notes    string   `json:"notes"`
	Photos   []string `json:"photos"`
	Location string   `json:"location"`
	UseGPS   bool     `json:"useGps"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
}

func (h HandlerSet) ListObservations(c *gin.Context) {
	ctx := c.Request.Context()

	observations, err := h.app.Field.List(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	pending, err := h.app.Field.PendingCount(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"observations": observations,
		"pending":      pending,
	})
}

func (h HandlerSet) CreateObservation(c *gin.Context) {
	var req observationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request")
		return
	}

	input := service.ObservationInput{
		TreeID:   req.TreeID,
		Health:   models.Health(req.Health),
		Notes:    req.Notes,
		Photos:   req.Photos,
		Location: req.Location,
		UseGPS:   req.UseGPS,
	}
	if req.Lat != nil && req.Lng != nil {
		input.Fix = &geo.Fix{Lat: *req.Lat, Lng: *req.Lng}
	}

	observation, err := h.app.Field.CreateObservation(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"observation": observation})
}

func (h HandlerSet) SyncObservations(c *gin.Context) {
	synced, err := h.app.Field.SyncAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"synced": synced})
}
