package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) ListTrees(c *gin.Context) {
	trees, err := h.app.Trees.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trees": trees})
}

func (h HandlerSet) GetTree(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid_id")
		return
	}

	tree, err := h.app.Trees.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tree": tree})
}

func (h HandlerSet) HealthSummary(c *gin.Context) {
	summary, err := h.app.Analytics.HealthSummary(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
