package services

import (
	"context"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIResponder is the alternative provider, selected with
// AI_PROVIDER=openai. Same contract as GeminiResponder: one stateless
// completion per prompt, failures absorbed into the fixed error reply.
type OpenAIResponder struct {
	client *openai.Client
	model  string
}

func NewOpenAIResponder(apiKey, model string) *OpenAIResponder {
	return &OpenAIResponder{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAIResponderWithBaseURL targets a non-default endpoint, used by
// tests and OpenAI-compatible gateways.
func NewOpenAIResponderWithBaseURL(apiKey, model, baseURL string) *OpenAIResponder {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIResponder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (r *OpenAIResponder) Respond(ctx context.Context, prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return emptyPromptReply
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		log.Printf("OpenAI request failed: %v", err)
		return errorReply
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("OpenAI returned no choices")
		return errorReply
	}

	return resp.Choices[0].Message.Content
}
