package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserStore is the identity directory: it maps user ids to emails and
// holds login credentials. Sharing only ever reads from it.
type UserStore struct {
	db DynamoAPI
}

func NewUserStore(db DynamoAPI) *UserStore {
	return &UserStore{db: db}
}

// Create registers a user. Emails are stored lowercased so lookups are
// case-insensitive. Returns ErrEmailTaken on a duplicate email.
//
// A condition can't be placed on the email index, so the user item and a
// marker item reserving the email are written in one transaction; two
// concurrent registrations of the same address race for the marker and
// exactly one wins.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)

	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = s.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(usersTable),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(ID)"),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(usersTable),
					Item: map[string]types.AttributeValue{
						"ID": &types.AttributeValueMemberS{Value: emailMarkerID(user.Email)},
					},
					ConditionExpression: aws.String("attribute_not_exists(ID)"),
				},
			},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
					return ErrEmailTaken
				}
			}
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// emailMarkerID is the key of the item reserving an email address. The
// marker carries no Email attribute, so it never shows up in the email
// index.
func emailMarkerID(email string) string {
	return "EMAIL#" + email
}

// GetByID resolves a user id, with ErrUserNotFound for an absent record.
func (s *UserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(usersTable),
		Key: map[string]types.AttributeValue{
			"ID": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}

// GetByEmail looks a user up through the email index.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(usersTable),
		IndexName:              aws.String(emailIndex),
		KeyConditionExpression: aws.String("Email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: strings.ToLower(email)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}
