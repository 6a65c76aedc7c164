package vault

import (
	"strings"
	"testing"
)

func TestSearchMatchingLines(t *testing.T) {
	ix := newTestIndex(t)

	results := ix.Search("membership", 5, 2)
	if len(results) == 0 {
		t.Fatal("expected snippets for a term present in a note body")
	}
	hit := results[0]
	if hit.Path != "notes/GS1_Denmark-Overview.md" {
		t.Errorf("hit path = %s", hit.Path)
	}
	if !strings.Contains(hit.Excerpt, "Membership is required.") {
		t.Errorf("excerpt missing matching line: %q", hit.Excerpt)
	}
	if hit.LineStart < 1 || hit.LineEnd < hit.LineStart {
		t.Errorf("bad line span %d-%d", hit.LineStart, hit.LineEnd)
	}
}

func TestSearchFilenameOnlyHit(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "Onboarding.md", "Welcome.\nRead the handbook first.\n")
	ix := NewIndex(root)
	ix.Build()

	results := ix.Search("onboarding", 5, 2)
	if len(results) != 1 {
		t.Fatalf("got %d snippets, want 1 head-of-file snippet", len(results))
	}
	if results[0].LineStart != 1 {
		t.Errorf("head snippet starts at line %d, want 1", results[0].LineStart)
	}
	if !strings.Contains(results[0].Excerpt, "Welcome.") {
		t.Errorf("excerpt = %q", results[0].Excerpt)
	}
}

func TestSearchCapsResults(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		writeNote(t, root, name, "support line one\nsupport line two\nsupport line three\n")
	}
	ix := NewIndex(root)
	ix.Build()

	results := ix.Search("support", 2, 1)
	if len(results) != 2 {
		t.Errorf("got %d snippets, want cap of 2", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by score")
		}
	}
}

func TestSearchEmptyQueryAndRoot(t *testing.T) {
	ix := newTestIndex(t)
	if got := ix.Search("...", 5, 2); got != nil {
		t.Errorf("tokenless query returned %v, want nil", got)
	}

	unconfigured := NewIndex("")
	if got := unconfigured.Search("anything", 5, 2); got != nil {
		t.Errorf("unconfigured root returned %v, want nil", got)
	}
}

func TestFindHeading(t *testing.T) {
	lines := []string{"intro", "# Setup", "step one", "step two"}
	if got := findHeading(lines, 3); got != "Setup" {
		t.Errorf("findHeading = %q, want Setup", got)
	}
	if got := findHeading(lines, 0); got != TopHeading {
		t.Errorf("findHeading before any heading = %q, want %q", got, TopHeading)
	}
	if got := findHeading(nil, 0); got != TopHeading {
		t.Errorf("findHeading on empty lines = %q, want %q", got, TopHeading)
	}
}
