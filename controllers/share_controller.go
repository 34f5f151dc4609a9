package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"backend/middlewares"
	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// Sharer forwards messages and reads the caller's inbox.
type Sharer interface {
	Share(ctx context.Context, senderID, content, recipientEmail string) error
	ListInbox(ctx context.Context, recipientID string) ([]models.SharedMessage, error)
}

type ShareController struct {
	shares Sharer
}

func NewShareController(shares Sharer) *ShareController {
	return &ShareController{shares: shares}
}

// ShareMessage forwards a message to another user's inbox by email.
func (ctl *ShareController) ShareMessage(c *gin.Context) {
	var request struct {
		Content        string `json:"content" binding:"required"`
		RecipientEmail string `json:"recipient_email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content and a valid recipient_email are required"})
		return
	}

	senderID := c.GetString(middlewares.ContextUserID)

	err := ctl.shares.Share(c.Request.Context(), senderID, request.Content, request.RecipientEmail)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Error sharing message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message shared successfully"})
}

// GetInbox returns messages shared with the caller, newest first. Store
// failures are logged and rendered as an empty inbox.
func (ctl *ShareController) GetInbox(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	messages, err := ctl.shares.ListInbox(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Error listing inbox for user %s: %v", userID, err)
		messages = []models.SharedMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
