package vault

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"dory-ai/internal/tokens"
)

// Search walks the vault on disk, without touching the built index, and
// returns line-level snippets for the query. Each matching line yields a
// window of windowLines lines of context on either side; a file whose name
// matches the query but whose body does not yields a head-of-file snippet.
// Results are sorted by score and capped at maxSnippets.
func (ix *Index) Search(query string, maxSnippets, windowLines int) []Snippet {
	if ix.root == "" {
		return nil
	}
	terms := tokens.Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	var results []Snippet
	_ = filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		relPath, err := filepath.Rel(ix.root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		fileLower := strings.ToLower(d.Name())
		filenameScore := 0
		for _, term := range terms {
			if strings.Contains(fileLower, term) {
				filenameScore += 3
			}
		}

		content := readFileLossy(path)
		lines := splitLines(content)

		type lineHit struct {
			score int
			idx   int
		}
		var hits []lineHit
		for idx, line := range lines {
			if score := scoreLine(line, terms); score > 0 {
				hits = append(hits, lineHit{score: score, idx: idx})
			}
		}
		if len(hits) == 0 && filenameScore == 0 {
			return nil
		}

		sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
		if len(hits) > 3 {
			hits = hits[:3]
		}

		for _, hit := range hits {
			start := hit.idx - windowLines
			if start < 0 {
				start = 0
			}
			end := hit.idx + windowLines
			if end > len(lines)-1 {
				end = len(lines) - 1
			}
			results = append(results, Snippet{
				Path:      relPath,
				Heading:   findHeading(lines, hit.idx),
				LineStart: start + 1,
				LineEnd:   end + 1,
				Excerpt:   strings.TrimSpace(strings.Join(lines[start:end+1], "\n")),
				Score:     float64(hit.score + filenameScore),
			})
		}

		if len(hits) == 0 && filenameScore > 0 {
			end := windowLines * 2
			if end > len(lines) {
				end = len(lines)
			}
			lineEnd := end
			if lineEnd == 0 {
				lineEnd = 1
			}
			excerpt := ""
			if len(lines) > 0 {
				excerpt = strings.TrimSpace(strings.Join(lines[:end], "\n"))
			}
			results = append(results, Snippet{
				Path:      relPath,
				Heading:   findHeading(lines, 0),
				LineStart: 1,
				LineEnd:   lineEnd,
				Excerpt:   excerpt,
				Score:     float64(filenameScore),
			})
		}
		return nil
	})

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > maxSnippets {
		results = results[:maxSnippets]
	}
	return results
}

func scoreLine(line string, terms []string) int {
	lineLower := strings.ToLower(line)
	score := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		score += strings.Count(lineLower, term)
	}
	return score
}

// findHeading scans backward from idx for the nearest heading line.
func findHeading(lines []string, idx int) string {
	if len(lines) == 0 {
		return TopHeading
	}
	if idx >= len(lines) {
		idx = len(lines) - 1
	}
	if idx < 0 {
		return TopHeading
	}
	for i := idx; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "#") {
			if heading := strings.TrimSpace(strings.TrimLeft(line, "#")); heading != "" {
				return heading
			}
			return TopHeading
		}
	}
	return TopHeading
}
