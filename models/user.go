package models

type User struct {
	ID           string `json:"id" dynamodbav:"ID"`
	Email        string `json:"email" dynamodbav:"Email"`
	PasswordHash string `json:"-" dynamodbav:"PasswordHash"`
	CreatedAt    int64  `json:"createdAt" dynamodbav:"CreatedAt"`
}
