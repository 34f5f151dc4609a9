package services

import "context"

// Responder turns a single prompt into generated text. Implementations
// never return an error: every failure mode collapses into a
// user-displayable string, so a broken model endpoint degrades a reply
// instead of failing the turn.
type Responder interface {
	Respond(ctx context.Context, prompt string) string
}

const (
	// emptyPromptReply is returned for empty or whitespace-only prompts,
	// without touching the network.
	emptyPromptReply = "I didn't receive any message. Please try again."

	// errorReply is returned when the model endpoint fails in any way.
	errorReply = "Sorry, I encountered an error while processing your request. Please try again."
)
