package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memChatRepo is an in-memory ChatRepository for orchestrator tests.
type memChatRepo struct {
	chats map[string]*models.Chat

	failOn  map[int]bool // 1-based append call numbers that fail
	appends int
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{chats: map[string]*models.Chat{}, failOn: map[int]bool{}}
}

func (r *memChatRepo) Create(ctx context.Context, ownerID string) (string, error) {
	id := uuid.New().String()
	now := NowMillis()
	r.chats[id] = &models.Chat{
		ID:        id,
		Title:     "New Chat",
		Messages:  []models.Message{},
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
	}
	return id, nil
}

func (r *memChatRepo) Get(ctx context.Context, chatID string) (*models.Chat, error) {
	chat, ok := r.chats[chatID]
	if !ok {
		return nil, ErrChatNotFound
	}
	cp := *chat
	cp.Messages = append([]models.Message{}, chat.Messages...)
	return &cp, nil
}

func (r *memChatRepo) AppendMessages(ctx context.Context, chatID string, newMessages []models.Message, titleOverride string) error {
	r.appends++
	if r.failOn[r.appends] {
		return errors.New("store write failed")
	}
	chat, ok := r.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	chat.Messages = append(chat.Messages, newMessages...)
	chat.UpdatedAt = NowMillis()
	if titleOverride != "" {
		chat.Title = titleOverride
	}
	return nil
}

// stubResponder records prompts and returns a canned reply.
type stubResponder struct {
	reply string
	calls []string
}

func (s *stubResponder) Respond(ctx context.Context, prompt string) string {
	s.calls = append(s.calls, prompt)
	if strings.TrimSpace(prompt) == "" {
		return emptyPromptReply
	}
	return s.reply
}

func TestSubmitTurnAppendsUserAndAssistant(t *testing.T) {
	repo := newMemChatRepo()
	ai := &stubResponder{reply: "Hello back!"}
	svc := NewChatService(repo, ai)

	ctx := context.Background()
	chatID, err := repo.Create(ctx, "owner-1")
	require.NoError(t, err)

	result, err := svc.SubmitTurn(ctx, chatID, "owner-1", "  Hello there  ")
	require.NoError(t, err)

	chat, err := repo.Get(ctx, chatID)
	require.NoError(t, err)
	require.Len(t, chat.Messages, 2)

	assert.Equal(t, models.RoleUser, chat.Messages[0].Role)
	assert.Equal(t, "Hello there", chat.Messages[0].Content)
	assert.Equal(t, models.RoleAssistant, chat.Messages[1].Role)
	assert.Equal(t, "Hello back!", chat.Messages[1].Content)
	assert.GreaterOrEqual(t, chat.Messages[1].Timestamp, chat.Messages[0].Timestamp)

	assert.Equal(t, chatID, result.ChatID)
	assert.Equal(t, chat.Messages[1].ID, result.Reply.ID)

	// The AI and the title both see the raw text as submitted, not the
	// trimmed copy.
	require.Len(t, ai.calls, 1)
	assert.Equal(t, "  Hello there  ", ai.calls[0])
	assert.Equal(t, "  Hello there  ", chat.Title)
}

func TestSubmitTurnCreatesChatWhenIDMissing(t *testing.T) {
	repo := newMemChatRepo()
	svc := NewChatService(repo, &stubResponder{reply: "ok"})

	result, err := svc.SubmitTurn(context.Background(), "", "owner-1", "first message")
	require.NoError(t, err)
	require.NotEmpty(t, result.ChatID)

	chat, err := repo.Get(context.Background(), result.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", chat.OwnerID)
	assert.Len(t, chat.Messages, 2)
}

func TestSubmitTurnRejectsEmptyContent(t *testing.T) {
	repo := newMemChatRepo()
	ai := &stubResponder{reply: "ok"}
	svc := NewChatService(repo, ai)

	_, err := svc.SubmitTurn(context.Background(), "", "owner-1", "   \t\n ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, ai.calls)
	assert.Empty(t, repo.chats)
}

func TestSubmitTurnUnknownChat(t *testing.T) {
	repo := newMemChatRepo()
	svc := NewChatService(repo, &stubResponder{reply: "ok"})

	_, err := svc.SubmitTurn(context.Background(), "nope", "owner-1", "hello")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestSubmitTurnRejectsForeignChat(t *testing.T) {
	repo := newMemChatRepo()
	ai := &stubResponder{reply: "ok"}
	svc := NewChatService(repo, ai)

	ctx := context.Background()
	chatID, err := repo.Create(ctx, "alice-1")
	require.NoError(t, err)

	// Someone else's chat reads as not found, same as the fetch path.
	_, err = svc.SubmitTurn(ctx, chatID, "mallory-1", "injected message")
	assert.ErrorIs(t, err, ErrChatNotFound)
	assert.Empty(t, ai.calls)

	chat, err := repo.Get(ctx, chatID)
	require.NoError(t, err)
	assert.Empty(t, chat.Messages)
}

func TestSubmitTurnTitleOnlyOnFirstExchange(t *testing.T) {
	repo := newMemChatRepo()
	svc := NewChatService(repo, &stubResponder{reply: "ok"})

	ctx := context.Background()
	result, err := svc.SubmitTurn(ctx, "", "owner-1", "What is the capital of France?")
	require.NoError(t, err)

	chat, err := repo.Get(ctx, result.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "What is the capital of France?", chat.Title)

	_, err = svc.SubmitTurn(ctx, result.ChatID, "owner-1", "And of Germany?")
	require.NoError(t, err)

	chat, err = repo.Get(ctx, result.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "What is the capital of France?", chat.Title)
	assert.Len(t, chat.Messages, 4)
}

func TestSubmitTurnAppendsPlaceholderWhenReplyWriteFails(t *testing.T) {
	repo := newMemChatRepo()
	svc := NewChatService(repo, &stubResponder{reply: "a real answer"})

	ctx := context.Background()
	chatID, err := repo.Create(ctx, "owner-1")
	require.NoError(t, err)

	// User append succeeds, reply append fails, placeholder append works.
	repo.failOn[2] = true
	result, err := svc.SubmitTurn(ctx, chatID, "owner-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, turnErrorReply, result.Reply.Content)

	chat, err := repo.Get(ctx, chatID)
	require.NoError(t, err)
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, models.RoleUser, chat.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, chat.Messages[1].Role)
	assert.Equal(t, turnErrorReply, chat.Messages[1].Content)
}

func TestSubmitTurnSurfacesPersistenceFailure(t *testing.T) {
	repo := newMemChatRepo()
	svc := NewChatService(repo, &stubResponder{reply: "ok"})

	ctx := context.Background()
	chatID, err := repo.Create(ctx, "owner-1")
	require.NoError(t, err)

	// Both the reply write and the placeholder write fail.
	repo.failOn[2] = true
	repo.failOn[3] = true
	result, err := svc.SubmitTurn(ctx, chatID, "owner-1", "hello")
	require.Error(t, err)
	assert.Nil(t, result)

	// The user message is still durably recorded.
	chat, err := repo.Get(ctx, chatID)
	require.NoError(t, err)
	require.Len(t, chat.Messages, 1)
	assert.Equal(t, models.RoleUser, chat.Messages[0].Role)
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "New Chat"},
		{"short", "Hello world", "Hello world"},
		{"exactly 50", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"60 chars truncated", strings.Repeat("b", 60), strings.Repeat("b", 47) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveTitle(tt.input)
			assert.Equal(t, tt.want, got)
			if len([]rune(tt.input)) > 50 {
				assert.Len(t, []rune(got), 50)
				assert.True(t, strings.HasSuffix(got, "..."))
			}
		})
	}
}
