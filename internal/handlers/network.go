package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type networkRequest struct {
	Online *bool `json:"online" binding:"required"`
}

func (h HandlerSet) NetworkStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.network.Online()})
}

// SetNetworkStatus overrides the connectivity flag until the next probe.
func (h HandlerSet) SetNetworkStatus(c *gin.Context) {
	var req networkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request")
		return
	}

	if h.network.Set(*req.Online) {
		h.log.Info().Bool("online", *req.Online).Msg("network status overridden")
	}
	c.JSON(http.StatusOK, gin.H{"online": h.network.Online()})
}
