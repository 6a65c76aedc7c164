// Package price extracts price items from semi-structured Markdown: tables,
// "name — price" lines, and label lines preceding a bare price. It also
// provides an inclusion-snippet fallback for price queries where no priced
// item can be found.
package price

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"dory-ai/internal/tokens"
	"dory-ai/internal/vault"
)

// Item is a price paired with a human-readable name and its source location.
type Item struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	Path      string `json:"path"`
	Heading   string `json:"heading"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
}

var (
	pricePattern   = regexp.MustCompile(`(?i)(\d[\d.,]*)\s*(dkk|kr\.?)`)
	markdownLink   = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	letterPattern  = regexp.MustCompile(`[A-Za-zæøåÆØÅ]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	labelTrimChars = "-:•\t "
)

// labelStop holds generic labels that never identify an item on their own.
var labelStop = map[string]struct{}{
	"pris":          {},
	"price":         {},
	"abonnement":    {},
	"billedpakker":  {},
	"certificering": {},
	"pakker":        {},
	"pakken":        {},
}

// continuationPrefixes mark a label fragment that continues a price rather
// than naming an item ("inkl. moms", "pr. år").
var continuationPrefixes = []string{"inkl", "inkl.", "inklusive", "pr.", "pr", "per", "/"}

// Extract scans the sections for price-bearing lines and table rows, derives
// an item name for each price, and returns the items deduplicated and sorted
// by (path, line start). Items without a usable name are dropped.
func Extract(sections []vault.Section) []Item {
	var items []Item
	for _, section := range sections {
		lines := strings.Split(section.Text, "\n")
		for idx, line := range lines {
			if cells := parseTableRow(line); cells != nil {
				if item, ok := itemFromTableRow(section, lines, idx, cells); ok {
					items = append(items, item)
				}
				continue
			}

			priceText := priceFromLine(line)
			if priceText == "" {
				continue
			}
			name := nameFromLine(line, priceText)
			if name == "" {
				name = collectLabel(lines, idx, 4)
			}
			if name == "" {
				continue
			}
			if hasContinuationPrefix(name) {
				if extended := collectLabel(lines, idx, 4); extended != "" && extended != name {
					name = extended
				}
			}
			items = append(items, Item{
				Name:      name,
				Price:     priceText,
				Path:      section.Path,
				Heading:   section.Heading,
				LineStart: section.LineStart + max(idx-1, 0),
				LineEnd:   section.LineStart + idx,
			})
		}
	}

	return dedupeAndSort(items)
}

func itemFromTableRow(section vault.Section, lines []string, idx int, cells []string) (Item, bool) {
	priceCell := ""
	for _, cell := range cells {
		if pricePattern.MatchString(cell) {
			priceCell = cell
			break
		}
	}
	if priceCell == "" {
		return Item{}, false
	}

	priceText := priceFromLine(priceCell)
	name := ""
	for _, cell := range cells {
		if cell == priceCell {
			continue
		}
		if candidate := nameFromLine(cell, ""); candidate != "" {
			name = candidate
			break
		}
	}
	if name == "" {
		name = collectLabel(lines, idx, 4)
	}
	if name == "" || priceText == "" {
		return Item{}, false
	}

	return Item{
		Name:      name,
		Price:     priceText,
		Path:      section.Path,
		Heading:   section.Heading,
		LineStart: section.LineStart + max(idx-1, 0),
		LineEnd:   section.LineStart + idx,
	}, true
}

// parseTableRow splits a Markdown table row into its non-empty trimmed
// cells. Separator rows (dashes/colons/pipes) and non-table lines yield nil.
func parseTableRow(line string) []string {
	if !strings.Contains(line, "|") {
		return nil
	}
	stripped := strings.TrimSpace(line)
	if stripped == "" || isSeparatorRow(stripped) {
		return nil
	}

	var cells []string
	for _, cell := range strings.Split(strings.Trim(stripped, "|"), "|") {
		if cell = strings.TrimSpace(cell); cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}

func isSeparatorRow(stripped string) bool {
	for _, r := range stripped {
		if !strings.ContainsRune("|-: ", r) {
			return false
		}
	}
	return true
}

// priceFromLine extracts the price token from a line, extending it with up
// to two following words when they qualify the price ("/ md.", "pr. år").
func priceFromLine(line string) string {
	loc := pricePattern.FindStringIndex(line)
	if loc == nil {
		return ""
	}
	priceText := strings.TrimSpace(line[loc[0]:loc[1]])

	suffix := strings.TrimSpace(line[loc[1]:])
	if suffix != "" {
		words := strings.Fields(suffix)
		if len(words) > 0 {
			first := strings.ToLower(words[0])
			if strings.HasPrefix(words[0], "/") || strings.HasPrefix(first, "pr") || strings.HasPrefix(first, "per") {
				if len(words) > 2 {
					words = words[:2]
				}
				priceText = strings.TrimSpace(priceText + " " + strings.Join(words, " "))
			}
		}
	}
	return priceText
}

// nameFromLine derives an item name from a line, with the price substring
// removed and markup stripped. Returns "" for labels that cannot stand alone:
// stoplisted, letterless, or too short.
func nameFromLine(line, priceText string) string {
	if line == "" {
		return ""
	}
	cleaned := cleanText(line)
	if priceText != "" {
		cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, priceText, ""))
	}
	cleaned = strings.Trim(cleaned, labelTrimChars)
	if cleaned == "" {
		return ""
	}

	lowered := strings.ToLower(cleaned)
	if isStopLabel(lowered) {
		return ""
	}
	switch lowered {
	case "/ år", "/ aar", "/år", "pr. år", "pr år":
		return ""
	}
	if !letterPattern.MatchString(cleaned) {
		return ""
	}
	if utf8.RuneCountInString(cleaned) <= 2 {
		return ""
	}
	return cleaned
}

// collectLabel walks backward from idx through up to maxLines non-empty,
// non-heading lines, skipping stoplisted ones, and joins the survivors in
// original order.
func collectLabel(lines []string, idx, maxLines int) string {
	var collected []string
	for j := idx - 1; j >= 0 && len(collected) < maxLines; j-- {
		raw := strings.TrimSpace(lines[j])
		if raw == "" {
			if len(collected) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(raw, "#") {
			continue
		}
		candidate := cleanText(raw)
		if candidate == "" || isStopLabel(candidate) {
			continue
		}
		collected = append([]string{candidate}, collected...)
	}
	return strings.TrimSpace(strings.Join(collected, " "))
}

// cleanText strips Markdown link and emphasis markup and collapses
// whitespace.
func cleanText(text string) string {
	text = markdownLink.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.Trim(strings.TrimSpace(text), labelTrimChars)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

func isStopLabel(text string) bool {
	cleaned := strings.Trim(strings.ToLower(text), " :\t")
	_, ok := labelStop[cleaned]
	return ok
}

func hasContinuationPrefix(name string) bool {
	lowered := strings.ToLower(name)
	for _, prefix := range continuationPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}

func dedupeAndSort(items []Item) []Item {
	type key struct {
		path, heading, name, price string
		lineStart                  int
	}
	seen := make(map[key]struct{}, len(items))
	deduped := make([]Item, 0, len(items))
	for _, item := range items {
		k := key{item.Path, item.Heading, item.Name, item.Price, item.LineStart}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		deduped = append(deduped, item)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].Path != deduped[j].Path {
			return deduped[i].Path < deduped[j].Path
		}
		return deduped[i].LineStart < deduped[j].LineStart
	})
	return deduped
}

// Filter keeps the items whose name contains any query token, deduplicated
// by (lowercased name, price). A tokenless query keeps everything.
func Filter(items []Item, query string) []Item {
	queryTokens := tokens.QueryTokens(query)
	if len(queryTokens) == 0 {
		return items
	}

	type key struct{ name, price string }
	seen := make(map[key]struct{})
	var filtered []Item
	for _, item := range items {
		nameLower := strings.ToLower(item.Name)
		matched := false
		for _, tok := range queryTokens {
			if strings.Contains(nameLower, tok) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		k := key{nameLower, item.Price}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		filtered = append(filtered, item)
	}
	return filtered
}
