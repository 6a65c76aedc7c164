package price

import (
	"strings"

	"dory-ai/internal/tokens"
	"dory-ai/internal/vault"
)

// inclusionMarkers flag a line as describing what a price or membership
// includes rather than a priced item.
var inclusionMarkers = []string{
	"inkl", "inkl.", "inklusive", "gratis", "medlemskab", "medlem", "uden ekstra",
}

// DefaultInclusionLimit caps how many inclusion snippets one query collects.
const DefaultInclusionLimit = 4

// ExtractInclusionSnippets scans the sections for lines that mention both a
// query term and an inclusion marker and returns each hit as a three-line
// snippet (one line of context on either side), stopping at limit. A query
// with no usable tokens yields nothing.
func ExtractInclusionSnippets(sections []vault.Section, query string, limit int) []vault.Snippet {
	queryTokens := tokens.QueryTokens(query)
	if len(queryTokens) == 0 {
		return nil
	}

	var snippets []vault.Snippet
	for _, section := range sections {
		lines := strings.Split(section.Text, "\n")
		for idx, line := range lines {
			lineLower := strings.ToLower(line)
			if !containsAny(lineLower, queryTokens) || !containsAny(lineLower, inclusionMarkers) {
				continue
			}

			startIdx := max(0, idx-1)
			endIdx := min(len(lines)-1, idx+1)
			snippets = append(snippets, vault.Snippet{
				Path:      section.Path,
				Heading:   section.Heading,
				LineStart: section.LineStart + startIdx,
				LineEnd:   section.LineStart + endIdx,
				Excerpt:   strings.TrimSpace(strings.Join(lines[startIdx:endIdx+1], "\n")),
				Score:     section.Score,
			})
			if len(snippets) >= limit {
				return snippets
			}
		}
	}
	return snippets
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
