package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h HandlerSet) ListGroups(c *gin.Context) {
	groups, err := h.app.Chat.ListGroups(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// CreateGroup answers 204 when the name is blank and nothing was created.
func (h HandlerSet) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request")
		return
	}

	group, ok, err := h.app.Chat.CreateGroup(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": group})
}

func (h HandlerSet) ListMessages(c *gin.Context) {
	messages, err := h.app.Chat.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h HandlerSet) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request")
		return
	}

	msg, ok, err := h.app.Chat.SendMessage(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
