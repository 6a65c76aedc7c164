package vault

import (
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var titleParser = goldmark.New()

// detectTitle derives a note's title: the first heading in the document with
// non-empty text, else the filename with separators turned into spaces.
func detectTitle(content, filename string) string {
	if title := firstHeading([]byte(content)); title != "" {
		return title
	}
	return titleFromFilename(filename)
}

// firstHeading parses the markdown and returns the text of the first heading
// of any level, or "" when the document has none.
func firstHeading(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	doc := titleParser.Parser().Parse(text.NewReader(content))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			if t := nodeText(heading, content); t != "" {
				title = t
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return title
}

// nodeText collects the text content of a node and its children.
func nodeText(n ast.Node, content []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(content))
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func titleFromFilename(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.ReplaceAll(base, "_", " ")
	return strings.ReplaceAll(base, "-", " ")
}
