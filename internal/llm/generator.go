// Package llm provides the answer-generator collaborator: an interface the
// query engine calls with a system prompt, conversation history and
// supporting vault snippets, plus two implementations (an OpenAI-compatible
// chat completions API and a local CLI binary).
package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks dory-ai/internal/llm Generator

import (
	"context"
	"errors"
	"fmt"

	"dory-ai/internal/vault"
)

// Turn is one message of a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces an answer from a system prompt, the conversation so far
// and the supporting snippets. Failures are reported as *Error values with a
// category the caller can branch on; the generated text itself never encodes
// an error condition.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, conversation []Turn, snippets []vault.Snippet) (string, error)
}

// FailureCategory classifies generator failures.
type FailureCategory string

// Failure categories, in rough order of how actionable they are for the user.
const (
	FailureTimeout     FailureCategory = "timeout"     // deadline exceeded
	FailureUnavailable FailureCategory = "unavailable" // binary or endpoint unreachable
	FailureProcess     FailureCategory = "process"     // backend ran but reported failure
	FailureTransport   FailureCategory = "transport"   // malformed or unexpected response
)

// Error is a categorized generator failure.
type Error struct {
	Category FailureCategory
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generator %s: %v", e.Category, e.Err)
	}
	return fmt.Sprintf("generator %s", e.Category)
}

func (e *Error) Unwrap() error { return e.Err }

// CategoryOf returns the failure category of err, or "" when err carries
// none.
func CategoryOf(err error) FailureCategory {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Category
	}
	return ""
}

func failure(category FailureCategory, format string, args ...any) *Error {
	return &Error{Category: category, Err: fmt.Errorf(format, args...)}
}
