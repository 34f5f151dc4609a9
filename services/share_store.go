package services

import (
	"context"
	"fmt"
	"strings"

	"backend/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// UserDirectory is the slice of the identity store sharing needs.
type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// ShareStore records forwarded messages in the SharedMessages table,
// keyed by recipient email.
type ShareStore struct {
	db    DynamoAPI
	users UserDirectory
}

func NewShareStore(db DynamoAPI, users UserDirectory) *ShareStore {
	return &ShareStore{db: db, users: users}
}

// Share appends one record addressed to recipientEmail. The sender must
// resolve to a registered user (ErrUserNotFound otherwise). The recipient
// is not checked: sharing to an unregistered address succeeds and is
// simply never seen by anyone.
func (s *ShareStore) Share(ctx context.Context, senderID, content, recipientEmail string) error {
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return err
	}

	record := models.SharedMessage{
		ID:             uuid.New().String(),
		Content:        content,
		SenderEmail:    sender.Email,
		RecipientEmail: strings.ToLower(recipientEmail),
		SenderID:       senderID,
		Timestamp:      NowMillis(),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal shared message: %w", err)
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(sharedTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("share message: %w", err)
	}
	return nil
}

// ListInbox returns everything addressed to the recipient's own email,
// newest first via the Timestamp range key queried in reverse.
func (s *ShareStore) ListInbox(ctx context.Context, recipientID string) ([]models.SharedMessage, error) {
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(sharedTable),
		KeyConditionExpression: aws.String("RecipientEmail = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: recipient.Email},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}

	messages := make([]models.SharedMessage, 0, len(out.Items))
	for _, item := range out.Items {
		var msg models.SharedMessage
		if err := attributevalue.UnmarshalMap(item, &msg); err != nil {
			return nil, fmt.Errorf("unmarshal shared message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, nil
}
