package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"dory-ai/internal/vault"
)

// Client generates answers through an OpenAI-compatible chat completions
// API (llama.cpp server, OpenAI itself, or any compatible gateway).
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new chat completions client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// ChatChoiceMessage represents the message in a chat choice.
type ChatChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int               `json:"index"`
	Message      ChatChoiceMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
}

// Generate implements Generator. The system prompt goes first, the snippets
// are appended as a trailing system message so the model sees them after the
// conversation.
func (c *Client) Generate(ctx context.Context, systemPrompt string, conversation []Turn, snippets []vault.Snippet) (string, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)

	messages := make([]ChatMessage, 0, len(conversation)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range conversation {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	if len(snippets) > 0 {
		messages = append(messages, ChatMessage{
			Role:    "system",
			Content: "Vault snippets:\n" + FormatSnippets(snippets),
		})
	}

	body, err := json.Marshal(ChatRequest{Model: c.Model, Messages: messages, Temperature: 0.2})
	if err != nil {
		return "", failure(FailureTransport, "failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", failure(FailureTransport, "failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", failure(FailureTimeout, "request timed out: %w", err)
		}
		return "", failure(FailureUnavailable, "failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", failure(FailureProcess, "bad status %d: %s", resp.StatusCode, string(raw))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", failure(FailureTransport, "failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", failure(FailureTransport, "no choices returned")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
