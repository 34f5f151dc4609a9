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

// Orchestrator runs one user turn.
type Orchestrator interface {
	SubmitTurn(ctx context.Context, chatID, ownerID, content string) (*services.TurnResult, error)
}

// ChatReader covers the non-mutating chat store operations plus creation
// of an empty chat.
type ChatReader interface {
	Create(ctx context.Context, ownerID string) (string, error)
	Get(ctx context.Context, chatID string) (*models.Chat, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Chat, error)
}

type ChatController struct {
	orchestrator Orchestrator
	chats        ChatReader
}

func NewChatController(orchestrator Orchestrator, chats ChatReader) *ChatController {
	return &ChatController{orchestrator: orchestrator, chats: chats}
}

// HandleChat submits one message and returns the assistant's reply.
// chat_id is optional; omitting it starts a new chat whose id comes back
// in the response.
func (ctl *ChatController) HandleChat(c *gin.Context) {
	var request struct {
		ChatID  string `json:"chat_id"`
		Message string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		log.Printf("Error binding JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	userID := c.GetString(middlewares.ContextUserID)

	result, err := ctl.orchestrator.SubmitTurn(c.Request.Context(), request.ChatID, userID, request.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		case errors.Is(err, services.ErrChatNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		default:
			log.Printf("Error submitting turn: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chat_id":   result.ChatID,
		"id":        result.Reply.ID,
		"reply":     result.Reply.Content,
		"timestamp": result.Reply.Timestamp,
	})
}

// CreateChat starts a new empty chat.
func (ctl *ChatController) CreateChat(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	chatID, err := ctl.chats.Create(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error creating chat: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create new chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": chatID})
}

// ListChats returns the caller's chats, most recently active first. A
// store failure is logged and rendered as an empty list so the sidebar
// still loads.
func (ctl *ChatController) ListChats(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	chats, err := ctl.chats.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error listing chats for user %s: %v", userID, err)
		chats = []models.Chat{}
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// GetChat fetches one chat. Chats owned by someone else are reported as
// not found rather than forbidden.
func (ctl *ChatController) GetChat(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)
	chatID := c.Param("id")

	chat, err := ctl.chats.Get(c.Request.Context(), chatID)
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
			return
		}
		log.Printf("Error fetching chat %s: %v", chatID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat"})
		return
	}

	if chat.OwnerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		return
	}

	c.JSON(http.StatusOK, chat)
}
