package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func geminiServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGeminiRespondReturnsGeneratedText(t *testing.T) {
	srv, calls := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Paris is the capital of France."}]}}]}`)
	})

	r := NewGeminiResponderWithBaseURL("test-key", "gemini-pro", srv.URL)
	got := r.Respond(context.Background(), "What is the capital of France?")
	assert.Equal(t, "Paris is the capital of France.", got)
	assert.Equal(t, 1, *calls)
}

func TestGeminiRespondShortCircuitsEmptyPrompt(t *testing.T) {
	srv, calls := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("endpoint must not be called for an empty prompt")
	})

	r := NewGeminiResponderWithBaseURL("test-key", "gemini-pro", srv.URL)
	assert.Equal(t, emptyPromptReply, r.Respond(context.Background(), "   \n\t "))
	assert.Equal(t, 0, *calls)
}

func TestGeminiRespondAbsorbsFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"server error", func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			"no candidates", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"candidates":[]}`)
			},
		},
		{
			"empty text", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := geminiServer(t, tt.handler)
			r := NewGeminiResponderWithBaseURL("test-key", "gemini-pro", srv.URL)
			assert.Equal(t, errorReply, r.Respond(context.Background(), "hello"))
		})
	}
}

func TestGeminiRespondAbsorbsUnreachableEndpoint(t *testing.T) {
	r := NewGeminiResponderWithBaseURL("test-key", "gemini-pro", "http://127.0.0.1:1")
	assert.Equal(t, errorReply, r.Respond(context.Background(), "hello"))
}
