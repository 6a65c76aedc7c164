package vault

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		check func(t *testing.T, sections []Section)
	}{
		{
			name:  "empty document produces zero sections",
			lines: nil,
			check: func(t *testing.T, sections []Section) {
				if len(sections) != 0 {
					t.Errorf("got %d sections, want 0", len(sections))
				}
			},
		},
		{
			name:  "no headings produces one top section spanning the file",
			lines: []string{"first line", "second line", "third line"},
			check: func(t *testing.T, sections []Section) {
				if len(sections) != 1 {
					t.Fatalf("got %d sections, want 1", len(sections))
				}
				s := sections[0]
				if s.Heading != TopHeading || s.LineStart != 1 || s.LineEnd != 3 {
					t.Errorf("got %q lines %d-%d, want (top) 1-3", s.Heading, s.LineStart, s.LineEnd)
				}
			},
		},
		{
			name:  "content before first heading becomes its own section",
			lines: []string{"intro", "", "# First", "body", "## Second", "more"},
			check: func(t *testing.T, sections []Section) {
				if len(sections) != 3 {
					t.Fatalf("got %d sections, want 3", len(sections))
				}
				if sections[0].Heading != TopHeading || sections[0].LineStart != 1 || sections[0].LineEnd != 2 {
					t.Errorf("top section = %+v", sections[0])
				}
				if sections[1].Heading != "First" || sections[1].LineStart != 3 || sections[1].LineEnd != 4 {
					t.Errorf("first section = %+v", sections[1])
				}
				if sections[2].Heading != "Second" || sections[2].LineStart != 5 || sections[2].LineEnd != 6 {
					t.Errorf("second section = %+v", sections[2])
				}
			},
		},
		{
			name:  "heading with no text is labeled top",
			lines: []string{"# Real", "body"},
			check: func(t *testing.T, sections []Section) {
				if sections[0].Heading != "Real" {
					t.Errorf("heading = %q", sections[0].Heading)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, splitSections("note.md", tt.lines))
		})
	}
}

func TestSplitSectionsCoversEveryLine(t *testing.T) {
	lines := []string{"intro", "# A", "a1", "a2", "## B", "", "b1", "### C", "c1"}
	sections := splitSections("note.md", lines)

	covered := make(map[int]int)
	prevEnd := 0
	for _, s := range sections {
		if s.LineStart != prevEnd+1 {
			t.Errorf("section %q starts at %d, want %d", s.Heading, s.LineStart, prevEnd+1)
		}
		for i := s.LineStart; i <= s.LineEnd; i++ {
			covered[i]++
		}
		prevEnd = s.LineEnd
	}
	if prevEnd != len(lines) {
		t.Errorf("last section ends at %d, want %d", prevEnd, len(lines))
	}
	for i := 1; i <= len(lines); i++ {
		if covered[i] != 1 {
			t.Errorf("line %d covered %d times", i, covered[i])
		}
	}
}

func TestBuildAliases(t *testing.T) {
	title := titleFromFilename("GS1_Denmark-Overview.md")
	aliases := buildAliases(title, "GS1_Denmark-Overview.md")

	want := []string{
		"gs1 denmark",
		"gs1 denmark overview",
		"denmark overview",
	}
	for _, w := range want {
		found := false
		for _, a := range aliases {
			if a == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("aliases missing %q; got %v", w, aliases)
		}
	}

	for _, a := range aliases {
		if a != strings.ToLower(a) {
			t.Errorf("alias %q is not lowercase", a)
		}
	}
}

func TestSplitCamel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"GS1Denmark", "GS 1 Denmark"},
		{"priceList", "price List"},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		if got := splitCamel(tt.in); got != tt.want {
			t.Errorf("splitCamel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeNote(t *testing.T, root, relPath, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	root := t.TempDir()
	writeNote(t, root, "Pricing.md", "# Pricing\n\n| Basis | 499 kr. |\n\n## Details\nAll packages include support.\n")
	writeNote(t, root, "notes/GS1_Denmark-Overview.md", "GS1 Denmark assigns GLN numbers.\nMembership is required.\n")
	writeNote(t, root, "Empty.md", "")

	ix := NewIndex(root)
	ix.Build()
	return ix
}

func TestIndexBuild(t *testing.T) {
	ix := newTestIndex(t)

	if ix.NoteCount() != 3 {
		t.Errorf("NoteCount() = %d, want 3", ix.NoteCount())
	}
	// Empty.md contributes zero sections.
	if ix.SectionCount() != 3 {
		t.Errorf("SectionCount() = %d, want 3", ix.SectionCount())
	}

	section, ok := ix.FindSection("notes/GS1_Denmark-Overview.md", "(top)")
	if !ok {
		t.Fatal("headingless note should have a (top) section")
	}
	if section.LineStart != 1 || section.LineEnd != 2 {
		t.Errorf("top section spans %d-%d, want 1-2", section.LineStart, section.LineEnd)
	}
}

func TestIndexBuildMissingRoot(t *testing.T) {
	ix := NewIndex(filepath.Join(t.TempDir(), "does-not-exist"))
	ix.Build()
	if !ix.Empty() {
		t.Error("index over a missing root should be empty")
	}

	unconfigured := NewIndex("")
	unconfigured.Build()
	if !unconfigured.Empty() {
		t.Error("index without a root should be empty")
	}
}

func TestFindSections(t *testing.T) {
	ix := newTestIndex(t)

	results := ix.FindSections("pricing details support", 5)
	if len(results) == 0 {
		t.Fatal("expected results for query with matching terms")
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted: %f before %f", results[i-1].Score, results[i].Score)
		}
	}
	for _, r := range results {
		if r.Score <= 0 {
			t.Errorf("result with non-positive score %f", r.Score)
		}
	}

	if got := ix.FindSections("...", 5); got != nil {
		t.Errorf("tokenless query returned %v, want nil", got)
	}
}

func TestFindSectionsAliasBoost(t *testing.T) {
	ix := newTestIndex(t)

	// "gs1 denmark" is an alias of the overview note, so its sections should
	// outrank everything else even with little term overlap.
	results := ix.FindSections("tell me about GS1 Denmark membership", 5)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Path != "notes/GS1_Denmark-Overview.md" {
		t.Errorf("top result = %s, want the aliased note", results[0].Path)
	}
	if results[0].Score < 20.0 {
		t.Errorf("top score = %f, want alias boost included", results[0].Score)
	}
}

func TestFindPathsByAlias(t *testing.T) {
	ix := newTestIndex(t)

	paths := ix.FindPathsByAlias("hvad laver GS1 Denmark?")
	want := []string{"notes/GS1_Denmark-Overview.md"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("FindPathsByAlias = %v, want %v", paths, want)
	}

	if paths := ix.FindPathsByAlias("nothing relevant here"); paths != nil {
		t.Errorf("unexpected alias matches: %v", paths)
	}
}

func TestSectionsForPaths(t *testing.T) {
	ix := newTestIndex(t)

	sections := ix.SectionsForPaths([]string{"Pricing.md"})
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Heading != "Pricing" || sections[1].Heading != "Details" {
		t.Errorf("section order = %q, %q", sections[0].Heading, sections[1].Heading)
	}
}

func TestDetectTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		want     string
	}{
		{"first heading wins", "intro\n\n# My Title\n\n## Sub\n", "note.md", "My Title"},
		{"deep heading counts", "### Only Heading\n", "note.md", "Only Heading"},
		{"fallback to filename", "no headings here\n", "My_Project-Notes.md", "My Project Notes"},
		{"empty file", "", "Weekly_Report.md", "Weekly Report"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectTitle(tt.content, tt.filename); got != tt.want {
				t.Errorf("detectTitle = %q, want %q", got, tt.want)
			}
		})
	}
}
