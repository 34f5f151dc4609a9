package services

import (
	"context"
	"errors"
	"fmt"

	"backend/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// appendRetries bounds how often an append re-reads and retries after
// losing a conditional write to a concurrent sender.
const appendRetries = 3

// ChatStore persists chat documents in the Chats table.
type ChatStore struct {
	db DynamoAPI
}

func NewChatStore(db DynamoAPI) *ChatStore {
	return &ChatStore{db: db}
}

// Create persists a new empty chat for ownerID and returns its id.
func (s *ChatStore) Create(ctx context.Context, ownerID string) (string, error) {
	now := NowMillis()
	chat := models.Chat{
		ID:        uuid.New().String(),
		Title:     "New Chat",
		Messages:  []models.Message{},
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
		Version:   0,
	}

	item, err := attributevalue.MarshalMap(chat)
	if err != nil {
		return "", fmt.Errorf("marshal chat: %w", err)
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(chatsTable),
		Item:      item,
	})
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	return chat.ID, nil
}

// Get fetches one chat by id. A missing document is ErrChatNotFound; a
// failed round trip comes back as a wrapped transport error so callers
// can tell the two apart.
func (s *ChatStore) Get(ctx context.Context, chatID string) (*models.Chat, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(chatsTable),
		Key: map[string]types.AttributeValue{
			"ID": &types.AttributeValueMemberS{Value: chatID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrChatNotFound
	}

	var chat models.Chat
	if err := attributevalue.UnmarshalMap(out.Item, &chat); err != nil {
		return nil, fmt.Errorf("unmarshal chat: %w", err)
	}
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}
	return &chat, nil
}

// ListByOwner returns the owner's chats, most recently active first.
// Ordering comes from the OwnerIndex range key (UpdatedAt) queried in
// reverse, same as listing recent items off a sort key.
func (s *ChatStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Chat, error) {
	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(chatsTable),
		IndexName:              aws.String(ownerIndex),
		KeyConditionExpression: aws.String("OwnerID = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: ownerID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	chats := make([]models.Chat, 0, len(out.Items))
	for _, item := range out.Items {
		var chat models.Chat
		if err := attributevalue.UnmarshalMap(item, &chat); err != nil {
			return nil, fmt.Errorf("unmarshal chat: %w", err)
		}
		if chat.Messages == nil {
			chat.Messages = []models.Message{}
		}
		chats = append(chats, chat)
	}

	return chats, nil
}

// AppendMessages appends newMessages to the chat's transcript and bumps
// UpdatedAt. A non-empty titleOverride also rewrites the title. The write
// is conditioned on the version read, so two concurrent appends cannot
// clobber each other's messages; the loser re-reads and retries.
func (s *ChatStore) AppendMessages(ctx context.Context, chatID string, newMessages []models.Message, titleOverride string) error {
	for attempt := 0; attempt < appendRetries; attempt++ {
		chat, err := s.Get(ctx, chatID)
		if err != nil {
			return err
		}

		updated := append(append([]models.Message{}, chat.Messages...), newMessages...)
		msgList, err := attributevalue.Marshal(updated)
		if err != nil {
			return fmt.Errorf("marshal messages: %w", err)
		}

		update := "SET #msgs = :msgs, #updated = :now, #ver = :next"
		names := map[string]string{
			"#msgs":    "Messages",
			"#updated": "UpdatedAt",
			"#ver":     "Version",
		}
		values := map[string]types.AttributeValue{
			":msgs": msgList,
			":now":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", NowMillis())},
			":next": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", chat.Version+1)},
			":ver":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", chat.Version)},
		}
		if titleOverride != "" {
			update += ", #title = :title"
			names["#title"] = "Title"
			values[":title"] = &types.AttributeValueMemberS{Value: titleOverride}
		}

		_, err = s.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(chatsTable),
			Key: map[string]types.AttributeValue{
				"ID": &types.AttributeValueMemberS{Value: chatID},
			},
			UpdateExpression:          aws.String(update),
			ConditionExpression:       aws.String("#ver = :ver"),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		})
		if err == nil {
			return nil
		}

		var conditionFailed *types.ConditionalCheckFailedException
		if !errors.As(err, &conditionFailed) {
			return fmt.Errorf("append messages: %w", err)
		}
		// Lost the race, re-read and try again.
	}

	return ErrConflict
}
