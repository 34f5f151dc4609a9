package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"backend/models"

	"github.com/google/uuid"
)

const maxTitleLen = 50

// turnErrorReply is appended as the assistant side of a turn that failed
// after the user's message was already persisted, so a transcript never
// ends on a dangling user message.
const turnErrorReply = "Sorry, I encountered an error while processing your request."

// ChatRepository is what the orchestrator needs from the chat store.
type ChatRepository interface {
	Create(ctx context.Context, ownerID string) (string, error)
	Get(ctx context.Context, chatID string) (*models.Chat, error)
	AppendMessages(ctx context.Context, chatID string, newMessages []models.Message, titleOverride string) error
}

// TurnResult is the outcome of one completed user turn.
type TurnResult struct {
	ChatID      string
	UserMessage models.Message
	Reply       models.Message
}

// ChatService sequences a user turn end to end: persist the user message,
// ask the model, persist the reply, derive the title on the first
// exchange.
type ChatService struct {
	chats ChatRepository
	ai    Responder

	now func() int64
}

func NewChatService(chats ChatRepository, ai Responder) *ChatService {
	return &ChatService{
		chats: chats,
		ai:    ai,
		now:   NowMillis,
	}
}

// SubmitTurn runs one turn. An empty chatID creates a new chat first and
// the returned TurnResult carries the adopted id. The user message is
// persisted before the model is called, so a failure mid-turn still
// leaves it durably recorded.
func (s *ChatService) SubmitTurn(ctx context.Context, chatID, ownerID, content string) (*TurnResult, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	if chatID == "" {
		created, err := s.chats.Create(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("create chat for turn: %w", err)
		}
		chatID = created
	}

	chat, err := s.chats.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	// Chats are single-owner; someone else's chat reads as not found,
	// matching the fetch path.
	if chat.OwnerID != ownerID {
		return nil, ErrChatNotFound
	}
	firstExchange := len(chat.Messages) == 0

	userMessage := models.Message{
		ID:        uuid.New().String(),
		Content:   trimmed,
		Role:      models.RoleUser,
		Timestamp: s.now(),
	}
	if err := s.chats.AppendMessages(ctx, chatID, []models.Message{userMessage}, ""); err != nil {
		return nil, err
	}

	// The responder absorbs its own failures into a displayable string,
	// so from here on the turn always produces an assistant message.
	replyText := s.ai.Respond(ctx, content)

	reply := models.Message{
		ID:        uuid.New().String(),
		Content:   replyText,
		Role:      models.RoleAssistant,
		Timestamp: s.now(),
	}

	// The title comes from the text as submitted, not the trimmed copy.
	title := ""
	if firstExchange {
		title = deriveTitle(content)
	}

	if err := s.chats.AppendMessages(ctx, chatID, []models.Message{reply}, title); err != nil {
		log.Printf("Failed to persist reply for chat %s: %v", chatID, err)
		// Still try to close the turn with an error placeholder.
		reply = models.Message{
			ID:        uuid.New().String(),
			Content:   turnErrorReply,
			Role:      models.RoleAssistant,
			Timestamp: s.now(),
		}
		if err := s.chats.AppendMessages(ctx, chatID, []models.Message{reply}, ""); err != nil {
			return nil, err
		}
	}

	return &TurnResult{
		ChatID:      chatID,
		UserMessage: userMessage,
		Reply:       reply,
	}, nil
}

// deriveTitle builds a chat title from the first user message: kept
// as-is up to 50 characters, otherwise the first 47 plus an ellipsis.
func deriveTitle(firstMessage string) string {
	if firstMessage == "" {
		return "New Chat"
	}
	runes := []rune(firstMessage)
	if len(runes) <= maxTitleLen {
		return firstMessage
	}
	return string(runes[:maxTitleLen-3]) + "..."
}
