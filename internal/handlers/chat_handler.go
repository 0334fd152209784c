package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/psyline/psyline-api/internal/httperr"
	"github.com/psyline/psyline-api/internal/httpresp"
	"github.com/psyline/psyline-api/internal/middleware"
	"github.com/psyline/psyline-api/internal/models"
)

type ChatHandler struct {
	db *gorm.DB
}

func NewChatHandler(db *gorm.DB) *ChatHandler {
	return &ChatHandler{db: db}
}

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	senderID := c.MustGet(middleware.ContextUserID).(uint)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	msg := models.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
		SentAt:     time.Now().UTC(),
	}

	if err := h.db.Create(&msg).Error; err != nil {
		httperr.Internal(c, "failed_to_send_message", "Could not send message.")
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (h *ChatHandler) ListForUser(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var messages []models.Message
	if err := h.db.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("sent_at ASC").
		Find(&messages).Error; err != nil {
		httperr.Internal(c, "failed_to_list_messages", "Could not list messages.")
		return
	}

	httpresp.List(c, messages)
}
