package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeminiResponder calls the Gemini generateContent endpoint, one
// stateless request per prompt. No retries, no streaming.
type GeminiResponder struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

func NewGeminiResponder(apiKey, model string) *GeminiResponder {
	return &GeminiResponder{
		client:  resty.New(),
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
	}
}

// NewGeminiResponderWithBaseURL points the responder at a different host,
// used by tests to stand in a local HTTP server.
func NewGeminiResponderWithBaseURL(apiKey, model, baseURL string) *GeminiResponder {
	r := NewGeminiResponder(apiKey, model)
	r.baseURL = baseURL
	return r
}

func (r *GeminiResponder) Respond(ctx context.Context, prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return emptyPromptReply
	}

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", r.baseURL, r.model)

	var result geminiResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("key", r.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(requestBody).
		SetResult(&result).
		Post(url)

	if err != nil {
		log.Printf("Gemini request failed: %v", err)
		return errorReply
	}
	if resp.StatusCode() != http.StatusOK {
		log.Printf("Gemini returned status %d: %s", resp.StatusCode(), resp.String())
		return errorReply
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		log.Printf("Gemini returned no candidates")
		return errorReply
	}

	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		log.Printf("Gemini returned an empty candidate")
		return errorReply
	}

	return text
}
