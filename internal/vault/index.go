package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"dory-ai/internal/tokens"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.*)`)

// Index owns the Section and NoteMeta collections for a vault root. A build
// replaces the whole collection behind an atomic pointer, so readers always
// observe a consistent snapshot; rebuilds are not incremental and there is no
// file watching.
type Index struct {
	root string
	snap atomic.Pointer[snapshot]
}

type snapshot struct {
	sections []Section
	notes    map[string]NoteMeta
	paths    []string // sorted note paths, for deterministic iteration
	builtAt  time.Time
}

// NewIndex creates an index over root. An empty root is allowed and yields an
// empty index; call Build to populate.
func NewIndex(root string) *Index {
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	ix := &Index{root: root}
	ix.snap.Store(&snapshot{notes: make(map[string]NoteMeta)})
	return ix
}

// Root returns the configured vault root ("" when unconfigured).
func (ix *Index) Root() string { return ix.root }

// Empty reports whether the current snapshot has no sections.
func (ix *Index) Empty() bool { return len(ix.snap.Load().sections) == 0 }

// NoteCount returns the number of indexed notes.
func (ix *Index) NoteCount() int { return len(ix.snap.Load().notes) }

// SectionCount returns the number of indexed sections.
func (ix *Index) SectionCount() int { return len(ix.snap.Load().sections) }

// Build walks the vault root and rebuilds the section and note collections,
// swapping them in atomically. A missing or unconfigured root produces an
// empty index rather than an error; unreadable files are treated as empty.
func (ix *Index) Build() {
	next := &snapshot{notes: make(map[string]NoteMeta), builtAt: time.Now()}
	defer func() { ix.snap.Store(next) }()

	if ix.root == "" {
		return
	}
	if info, err := os.Stat(ix.root); err != nil || !info.IsDir() {
		return
	}

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

		content := readFileLossy(path)
		lines := splitLines(content)
		filename := d.Name()

		title := detectTitle(content, filename)
		next.notes[relPath] = NoteMeta{
			Path:    relPath,
			Title:   title,
			Aliases: buildAliases(title, filename),
		}
		next.sections = append(next.sections, splitSections(relPath, lines)...)
		return nil
	})

	next.paths = make([]string, 0, len(next.notes))
	for path := range next.notes {
		next.paths = append(next.paths, path)
	}
	sort.Strings(next.paths)
}

// readFileLossy reads a file as UTF-8, dropping invalid byte sequences.
// Unreadable files become empty content.
func readFileLossy(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(data)
}

// splitLines mirrors line splitting without a phantom trailing element, so an
// empty file yields zero lines.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

// splitSections splits a document into heading-delimited sections. The
// sections are contiguous, non-overlapping and cover every line.
func splitSections(path string, lines []string) []Section {
	if len(lines) == 0 {
		return nil
	}

	type boundary struct {
		idx     int
		heading string
	}
	var boundaries []boundary
	for idx, line := range lines {
		if m := headingPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			heading := strings.TrimSpace(m[2])
			if heading == "" {
				heading = TopHeading
			}
			boundaries = append(boundaries, boundary{idx: idx, heading: heading})
		}
	}

	var sections []Section
	if len(boundaries) == 0 {
		return append(sections, Section{
			Path:      path,
			Heading:   TopHeading,
			LineStart: 1,
			LineEnd:   len(lines),
			Text:      strings.TrimSpace(strings.Join(lines, "\n")),
		})
	}

	// Content before the first heading becomes its own top-level section.
	if boundaries[0].idx > 0 {
		sections = append(sections, Section{
			Path:      path,
			Heading:   TopHeading,
			LineStart: 1,
			LineEnd:   boundaries[0].idx,
			Text:      strings.TrimSpace(strings.Join(lines[:boundaries[0].idx], "\n")),
		})
	}

	for i, b := range boundaries {
		endIdx := len(lines) - 1
		if i+1 < len(boundaries) {
			endIdx = boundaries[i+1].idx - 1
		}
		sections = append(sections, Section{
			Path:      path,
			Heading:   b.heading,
			LineStart: b.idx + 1,
			LineEnd:   endIdx + 1,
			Text:      strings.TrimSpace(strings.Join(lines[b.idx:endIdx+1], "\n")),
		})
	}
	return sections
}

// FindSections scores every section against the query and returns the topK
// strictly-positive scorers in descending score order. An alias of the
// owning note appearing verbatim in the query adds a flat boost so direct
// note references outrank incidental term overlap.
func (ix *Index) FindSections(query string, topK int) []Section {
	snap := ix.snap.Load()
	queryLower := strings.ToLower(query)
	toks := tokens.Tokenize(queryLower)
	if len(toks) == 0 {
		return nil
	}

	var results []Section
	for _, section := range snap.sections {
		boost := 0.0
		if meta, ok := snap.notes[section.Path]; ok && anyAliasIn(meta.Aliases, queryLower) {
			boost = 20.0
		}
		score := boost + scoreSection(section, toks, queryLower)
		if score > 0 {
			scored := section
			scored.Score = score
			results = append(results, scored)
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

func scoreSection(section Section, toks []string, queryLower string) float64 {
	textLower := strings.ToLower(section.Text)
	headingLower := strings.ToLower(section.Heading)
	pathLower := strings.ToLower(section.Path)

	score := 0.0
	for _, tok := range toks {
		if tok == "" {
			continue
		}
		score += float64(strings.Count(textLower, tok))
		score += 3.0 * float64(strings.Count(headingLower, tok))
		score += 2.0 * float64(strings.Count(pathLower, tok))
	}
	if strings.Contains(textLower, queryLower) {
		score += 8.0
	}
	return score
}

func anyAliasIn(aliases []string, queryLower string) bool {
	for _, alias := range aliases {
		if strings.Contains(queryLower, alias) {
			return true
		}
	}
	return false
}

// FindPathsByAlias returns the paths of every note with an alias that occurs
// verbatim in the query. The matching direction is alias-in-query, so short
// generic aliases can over-match; that tradeoff is accepted for direct note
// references like "what does GS1 Denmark do".
func (ix *Index) FindPathsByAlias(query string) []string {
	snap := ix.snap.Load()
	queryLower := strings.ToLower(query)

	var matches []string
	for _, path := range snap.paths {
		if anyAliasIn(snap.notes[path].Aliases, queryLower) {
			matches = append(matches, path)
		}
	}
	return matches
}

// SectionsForPaths returns all sections belonging to any of the given paths,
// preserving index order.
func (ix *Index) SectionsForPaths(paths []string) []Section {
	snap := ix.snap.Load()
	want := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		want[p] = struct{}{}
	}

	var out []Section
	for _, section := range snap.sections {
		if _, ok := want[section.Path]; ok {
			out = append(out, section)
		}
	}
	return out
}

// FindPathBySuffix returns the first note path (in sorted order) whose
// lowercased path ends with suffix.
func (ix *Index) FindPathBySuffix(suffix string) (string, bool) {
	snap := ix.snap.Load()
	for _, path := range snap.paths {
		if strings.HasSuffix(strings.ToLower(path), suffix) {
			return path, true
		}
	}
	return "", false
}

// FindSection returns the first section of path whose heading equals heading,
// compared case-insensitively.
func (ix *Index) FindSection(path, heading string) (Section, bool) {
	snap := ix.snap.Load()
	for _, section := range snap.sections {
		if section.Path == path && strings.EqualFold(section.Heading, heading) {
			return section, true
		}
	}
	return Section{}, false
}
