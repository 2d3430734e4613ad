package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"foresttrack/internal/config"
	"foresttrack/internal/kv"
	"foresttrack/internal/middleware"
	"foresttrack/internal/network"
	"foresttrack/internal/service"
)

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	app     *service.App
	store   kv.Store
	network *network.Status
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, app *service.App, store kv.Store, status *network.Status) HandlerSet {
	return HandlerSet{
		log:     log,
		cfg:     cfg,
		app:     app,
		store:   store,
		network: status,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterAccount)
		auth.POST("/login", h.Login)
		auth.GET("/session", h.Session)
	}

	protected := v1.Group("")
	protected.Use(middleware.Auth(h.cfg.Security.JWTAccessSecret, h.app.Accounts))
	{
		protected.POST("/auth/logout", h.Logout)
		protected.PATCH("/profile", h.UpdateProfile)

		protected.GET("/trees", h.ListTrees)
		protected.GET("/trees/:id", h.GetTree)

		protected.GET("/observations", h.ListObservations)
		protected.POST("/observations", h.CreateObservation)
		protected.POST("/observations/sync", h.SyncObservations)

		protected.GET("/chat/groups", h.ListGroups)
		protected.POST("/chat/groups", h.CreateGroup)
		protected.GET("/chat/groups/:id/messages", h.ListMessages)
		protected.POST("/chat/groups/:id/messages", h.SendMessage)

		protected.GET("/analytics/health", h.HealthSummary)

		protected.GET("/network", h.NetworkStatus)
		protected.PUT("/network", h.SetNetworkStatus)
	}
}
