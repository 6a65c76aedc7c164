// Package vault indexes a directory tree of Markdown notes and provides
// lexical search over heading-delimited sections, alias lookup for note
// titles, an index-free disk search and direct note access.
package vault

// TopHeading labels a section that has no heading of its own: content before
// the first heading of a document, a document without headings, or a heading
// marker with no trailing text.
const TopHeading = "(top)"

// Section is a contiguous run of lines within one document, bounded by
// Markdown headings or by document start/end. Line numbers are 1-based and
// inclusive. Score is only meaningful in the context of a single query.
type Section struct {
	Path      string  `json:"path"`
	Heading   string  `json:"heading"`
	LineStart int     `json:"line_start"`
	LineEnd   int     `json:"line_end"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}

// NoteMeta holds per-document metadata derived at index build time.
type NoteMeta struct {
	Path    string
	Title   string
	Aliases []string
}

// Snippet is the citation-bearing excerpt unit handed to the answer
// generator and ultimately to the user. It is the only vault type exposed
// across the collaborator boundary.
type Snippet struct {
	Path      string  `json:"path"`
	Heading   string  `json:"heading"`
	LineStart int     `json:"line_start"`
	LineEnd   int     `json:"line_end"`
	Excerpt   string  `json:"excerpt"`
	Score     float64 `json:"score"`
}
