package models

// Chat is a titled transcript owned by a single user. Timestamps are
// epoch milliseconds. Version backs the conditional write used when
// appending messages and never leaves the service.
type Chat struct {
	ID        string    `json:"id" dynamodbav:"ID"`
	Title     string    `json:"title" dynamodbav:"Title"`
	Messages  []Message `json:"messages" dynamodbav:"Messages"`
	CreatedAt int64     `json:"createdAt" dynamodbav:"CreatedAt"`
	UpdatedAt int64     `json:"updatedAt" dynamodbav:"UpdatedAt"`
	OwnerID   string    `json:"ownerId" dynamodbav:"OwnerID"`
	Version   int64     `json:"-" dynamodbav:"Version"`
}
