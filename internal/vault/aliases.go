package vault

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"dory-ai/internal/tokens"
)

var (
	camelBoundary       = regexp.MustCompile(`([a-zæøå])([A-ZÆØÅ])`)
	digitLetterBoundary = regexp.MustCompile(`([0-9])([A-Za-zæøåÆØÅ])`)
	letterDigitBoundary = regexp.MustCompile(`([A-Za-zæøåÆØÅ])([0-9])`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// splitCamel inserts spaces at camel-case and letter/digit boundaries so
// "GS1Denmark" becomes "GS 1 Denmark".
func splitCamel(text string) string {
	text = camelBoundary.ReplaceAllString(text, "$1 $2")
	text = digitLetterBoundary.ReplaceAllString(text, "$1 $2")
	return letterDigitBoundary.ReplaceAllString(text, "$1 $2")
}

// buildAliases derives the lowercase lookup variants of a note: the title and
// filename, their separator- and camel-split forms, and 2- and 3-token
// prefixes of each. A leading "gs" token followed by digits collapses into a
// single code token ("gs" "1" -> "gs1"), the vault's convention for standards
// like GS1.
func buildAliases(title, filename string) []string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	variants := map[string]struct{}{
		title: {},
		base:  {},
		strings.ReplaceAll(base, "-", " "): {},
		strings.ReplaceAll(base, "_", " "): {},
	}

	expanded := make(map[string]struct{})
	for variant := range variants {
		if variant == "" {
			continue
		}
		expanded[variant] = struct{}{}
		expanded[splitCamel(variant)] = struct{}{}
	}

	aliases := make(map[string]struct{})
	for variant := range expanded {
		cleaned := strings.TrimSpace(whitespaceRun.ReplaceAllString(variant, " "))
		if cleaned == "" {
			continue
		}
		lowered := strings.ToLower(cleaned)
		aliases[lowered] = struct{}{}

		toks := tokens.WordPattern.FindAllString(lowered, -1)
		if len(toks) >= 2 && toks[0] == "gs" && isDigits(toks[1]) {
			toks = append([]string{"gs" + toks[1]}, toks[2:]...)
		}
		if len(toks) >= 2 {
			aliases[strings.Join(toks[:2], " ")] = struct{}{}
		}
		if len(toks) >= 3 {
			aliases[strings.Join(toks[:3], " ")] = struct{}{}
		}
		if len(toks) >= 2 && strings.HasPrefix(toks[0], "gs1") {
			end := 3
			if len(toks) < end {
				end = len(toks)
			}
			aliases[strings.Join(toks[1:end], " ")] = struct{}{}
		}
	}

	out := make([]string, 0, len(aliases))
	for alias := range aliases {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
