package models

// SharedMessage is one forwarded assistant reply, keyed by the recipient's
// email. Records are append-only and never expire.
type SharedMessage struct {
	ID             string `json:"id" dynamodbav:"ID"`
	Content        string `json:"content" dynamodbav:"Content"`
	SenderEmail    string `json:"senderEmail" dynamodbav:"SenderEmail"`
	RecipientEmail string `json:"recipientEmail" dynamodbav:"RecipientEmail"`
	SenderID       string `json:"senderId" dynamodbav:"SenderID"`
	Timestamp      int64  `json:"timestamp" dynamodbav:"Timestamp"`
}
