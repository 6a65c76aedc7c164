package llm

import (
	"fmt"
	"strings"

	"dory-ai/internal/vault"
)

// FormatSnippets renders snippets as numbered, citable blocks. The answer is
// expected to cite sources by the path#heading coordinates shown here.
func FormatSnippets(snippets []vault.Snippet) string {
	blocks := make([]string, 0, len(snippets))
	for i, s := range snippets {
		blocks = append(blocks, fmt.Sprintf("[%d] %s#%s (lines %d-%d)\n%s",
			i+1, s.Path, s.Heading, s.LineStart, s.LineEnd, s.Excerpt))
	}
	return strings.Join(blocks, "\n\n")
}

// FlattenPrompt collapses a chat exchange into a single text prompt for
// backends that take plain stdin instead of structured messages.
func FlattenPrompt(systemPrompt string, conversation []Turn, snippets []vault.Snippet) string {
	lines := []string{"SYSTEM:", strings.TrimSpace(systemPrompt), "", "CONVERSATION:"}
	for _, turn := range conversation {
		label := "Assistant"
		if turn.Role == "user" {
			label = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, turn.Content))
	}
	if len(snippets) > 0 {
		lines = append(lines, "", "VAULT SNIPPETS:", FormatSnippets(snippets))
	}
	lines = append(lines, "", "ASSISTANT:")
	return strings.Join(lines, "\n")
}
