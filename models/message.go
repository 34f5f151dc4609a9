package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a chat transcript. Messages are append-only:
// once written they are never edited or removed.
type Message struct {
	ID        string `json:"id" dynamodbav:"ID"`
	Content   string `json:"content" dynamodbav:"Content"`
	Role      string `json:"role" dynamodbav:"Role"`
	Timestamp int64  `json:"timestamp" dynamodbav:"Timestamp"`
}
