package query

import (
	"fmt"
	"strings"

	"dory-ai/internal/price"
	"dory-ai/internal/vault"
)

// IdentityLine is the assistant's fixed self-introduction.
const IdentityLine = "Jeg hedder Dory, jeg er din digitale praktikant."

// NoInfoLine is the fixed reply when the vault has no answer.
const NoInfoLine = "I can't find that in the vault."

// DefaultSnippetBudget caps the excerpt length of an assembled snippet.
const DefaultSnippetBudget = 1600

// brancherIndexSuffix locates the note listing all industry pages.
const brancherIndexSuffix = "gs1dk brancher index.md"

// BuildSnippets turns scored sections into prompt-ready snippets, truncating
// long excerpts to maxChars runes.
func BuildSnippets(sections []vault.Section, maxChars int) []vault.Snippet {
	snippets := make([]vault.Snippet, 0, len(sections))
	for _, section := range sections {
		excerpt := strings.TrimSpace(section.Text)
		if runes := []rune(excerpt); len(runes) > maxChars {
			excerpt = strings.TrimRight(string(runes[:maxChars]), " \t\n") + "\n..."
		}
		snippets = append(snippets, vault.Snippet{
			Path:      section.Path,
			Heading:   section.Heading,
			LineStart: section.LineStart,
			LineEnd:   section.LineEnd,
			Excerpt:   excerpt,
			Score:     section.Score,
		})
	}
	return snippets
}

// PriceSnippets renders extracted price items as one snippet per section,
// one "name — price" line per item. Section order follows the first item
// seen for each section.
func PriceSnippets(items []price.Item) []vault.Snippet {
	type sectionKey struct {
		path    string
		heading string
	}
	var order []sectionKey
	grouped := make(map[sectionKey][]price.Item)
	for _, item := range items {
		key := sectionKey{item.Path, item.Heading}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], item)
	}

	snippets := make([]vault.Snippet, 0, len(order))
	for _, key := range order {
		group := grouped[key]
		lines := make([]string, 0, len(group))
		lineStart, lineEnd := group[0].LineStart, group[0].LineEnd
		for _, item := range group {
			lines = append(lines, fmt.Sprintf("%s — %s", item.Name, item.Price))
			if item.LineStart < lineStart {
				lineStart = item.LineStart
			}
			if item.LineEnd > lineEnd {
				lineEnd = item.LineEnd
			}
		}
		snippets = append(snippets, vault.Snippet{
			Path:      key.path,
			Heading:   key.heading,
			LineStart: lineStart,
			LineEnd:   lineEnd,
			Excerpt:   strings.Join(lines, "\n"),
			Score:     999.0,
		})
	}
	return snippets
}

// BrancherCountSnippets answers "how many industries" questions from the
// industry index note: it counts the wiki-link list items under the Pages
// heading and returns a single authoritative snippet, or nil when the note
// or list is absent.
func BrancherCountSnippets(ix *vault.Index) []vault.Snippet {
	path, ok := ix.FindPathBySuffix(brancherIndexSuffix)
	if !ok {
		return nil
	}
	section, ok := ix.FindSection(path, "Pages")
	if !ok {
		return nil
	}

	var listLines []string
	for _, line := range strings.Split(section.Text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- [[") {
			listLines = append(listLines, line)
		}
	}
	if len(listLines) == 0 {
		return nil
	}

	excerpt := []string{fmt.Sprintf("Antal brancher i index: %d", len(listLines))}
	excerpt = append(excerpt, listLines[:min(len(listLines), 20)]...)

	return []vault.Snippet{{
		Path:      section.Path,
		Heading:   section.Heading,
		LineStart: section.LineStart,
		LineEnd:   section.LineEnd,
		Excerpt:   strings.Join(excerpt, "\n"),
		Score:     999.0,
	}}
}

// SystemPrompt builds the generator's system prompt. Info-seeking questions
// get the grounding rules and the citation format; price questions add the
// instruction to list packages verbatim.
func SystemPrompt(infoSeeking, priceQuery bool) string {
	base := "You are Dory. If asked who you are or your name, reply exactly: '" +
		IdentityLine + "'." +
		" You are an Obsidian-vault-grounded assistant and must not invent corporate facts."
	if !infoSeeking {
		return base
	}
	prompt := base +
		" You will receive extracted facts from the vault. " +
		"Your job is to format those facts clearly without adding, inferring, or omitting information. " +
		"Answer only using the provided vault snippets. " +
		"If the answer is not in the snippets, reply: '" + NoInfoLine + "' " +
		"Include a Sources section with citations in this exact format: " +
		"- <path>#<heading> (lines a-b)"
	if priceQuery {
		prompt += " When asked for prices or packages, list each package name with its price exactly as provided."
	}
	return prompt
}

// ParseSources extracts the citation lines from an answer's Sources section.
// It returns nil when the answer has no Sources section or the section has
// no "- " bullet lines.
func ParseSources(text string) []string {
	if !strings.Contains(text, "Sources:") {
		return nil
	}
	var sources []string
	capture := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Sources:") {
			capture = true
			continue
		}
		if !capture {
			continue
		}
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			sources = append(sources, strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
		} else {
			break
		}
	}
	return sources
}

// EnsureSources guarantees the answer carries citations. If the answer
// already cites sources they are returned as-is; otherwise a Sources section
// built from the top snippets is appended.
func EnsureSources(response string, snippets []vault.Snippet) (string, []string) {
	if sources := ParseSources(response); len(sources) > 0 {
		return response, sources
	}

	base := response
	if i := strings.Index(response, "Sources:"); i >= 0 {
		base = strings.TrimRight(response[:i], " \t\n")
	}

	var fallback []string
	for _, snippet := range snippets[:min(len(snippets), 3)] {
		fallback = append(fallback, fmt.Sprintf("%s#%s (lines %d-%d)",
			snippet.Path, snippet.Heading, snippet.LineStart, snippet.LineEnd))
	}
	if len(fallback) == 0 {
		return response, nil
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(base, " \t\n"))
	b.WriteString("\n\nSources:\n")
	for i, src := range fallback {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + src)
	}
	return b.String(), fallback
}
