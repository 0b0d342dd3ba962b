package handlers

import (
	"net/http"

	"dotscent_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

type chatInput struct {
	Text string `json:"text"`
}

// 🟢 GET /api/chat/messages
func (h *Handler) GetChatMessages(c *gin.Context) {
	conv := h.chats.Get(middleware.SessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"messages":     conv.Messages(),
		"quickReplies": conv.QuickReplies(),
	})
}

// 🟢 POST /api/chat/messages
// Répond immédiatement ; le délai de frappe n'existe que sur le WebSocket.
func (h *Handler) PostChatMessage(c *gin.Context) {
	var input chatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, bot, reply, err := h.chats.Get(middleware.SessionID(c)).Ask(input.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": user,
		"reply":   bot,
		"rule":    reply.Rule,
		"product": reply.Product,
	})
}
