package query

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dory-ai/internal/price"
	"dory-ai/internal/vault"
)

func TestBuildSnippets(t *testing.T) {
	sections := []vault.Section{
		{Path: "a.md", Heading: "Intro", LineStart: 1, LineEnd: 2, Text: "  hello world  ", Score: 4},
	}

	got := BuildSnippets(sections, 100)

	if len(got) != 1 {
		t.Fatalf("BuildSnippets() returned %d snippets, want 1", len(got))
	}
	if got[0].Excerpt != "hello world" {
		t.Errorf("excerpt = %q, want trimmed text", got[0].Excerpt)
	}
	if got[0].Path != "a.md" || got[0].Heading != "Intro" || got[0].LineStart != 1 || got[0].LineEnd != 2 || got[0].Score != 4 {
		t.Errorf("snippet coordinates not carried over: %+v", got[0])
	}
}

func TestBuildSnippetsTruncates(t *testing.T) {
	long := strings.Repeat("æbler og pærer ", 50)
	sections := []vault.Section{{Path: "a.md", Heading: "(top)", Text: long}}

	got := BuildSnippets(sections, 40)

	if !strings.HasSuffix(got[0].Excerpt, "\n...") {
		t.Errorf("truncated excerpt should end with ellipsis, got %q", got[0].Excerpt)
	}
	body := strings.TrimSuffix(got[0].Excerpt, "\n...")
	if n := len([]rune(body)); n > 40 {
		t.Errorf("truncated excerpt has %d runes, want <= 40", n)
	}
}

func TestPriceSnippets(t *testing.T) {
	items := []price.Item{
		{Name: "Basispakken", Price: "499 kr.", Path: "Pricing.md", Heading: "Pakker", LineStart: 4, LineEnd: 5},
		{Name: "Pluspakken", Price: "999 kr.", Path: "Pricing.md", Heading: "Pakker", LineStart: 6, LineEnd: 7},
		{Name: "GLN", Price: "0 kr.", Path: "GLN.md", Heading: "(top)", LineStart: 2, LineEnd: 3},
	}

	got := PriceSnippets(items)

	if len(got) != 2 {
		t.Fatalf("PriceSnippets() returned %d snippets, want 2", len(got))
	}
	first := got[0]
	if first.Path != "Pricing.md" || first.Heading != "Pakker" {
		t.Errorf("first snippet = %s#%s, want first-seen section", first.Path, first.Heading)
	}
	if first.Excerpt != "Basispakken — 499 kr.\nPluspakken — 999 kr." {
		t.Errorf("excerpt = %q", first.Excerpt)
	}
	if first.LineStart != 4 || first.LineEnd != 7 {
		t.Errorf("line span = %d-%d, want 4-7", first.LineStart, first.LineEnd)
	}
	if first.Score != 999.0 {
		t.Errorf("score = %v, want 999", first.Score)
	}
}

func brancherIndex(t *testing.T, pagesBody string) *vault.Index {
	t.Helper()
	root := t.TempDir()
	content := "# GS1DK Brancher Index\n\n## Pages\n" + pagesBody
	if err := os.WriteFile(filepath.Join(root, "GS1DK Brancher Index.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write note: %v", err)
	}
	ix := vault.NewIndex(root)
	ix.Build()
	return ix
}

func TestBrancherCountSnippets(t *testing.T) {
	ix := brancherIndex(t, "- [[Dagligvarer]]\n- [[Byggeri]]\n- [[Sundhed]]\n")

	got := BrancherCountSnippets(ix)

	if len(got) != 1 {
		t.Fatalf("BrancherCountSnippets() returned %d snippets, want 1", len(got))
	}
	lines := strings.Split(got[0].Excerpt, "\n")
	if lines[0] != "Antal brancher i index: 3" {
		t.Errorf("count line = %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("excerpt has %d lines, want count plus 3 bullets", len(lines))
	}
	if got[0].Score != 999.0 {
		t.Errorf("score = %v, want 999", got[0].Score)
	}
}

func TestBrancherCountSnippetsNoList(t *testing.T) {
	ix := brancherIndex(t, "No links here.\n")

	if got := BrancherCountSnippets(ix); got != nil {
		t.Errorf("BrancherCountSnippets() = %v, want nil without wiki links", got)
	}
}

func TestBrancherCountSnippetsMissingNote(t *testing.T) {
	root := t.TempDir()
	ix := vault.NewIndex(root)
	ix.Build()

	if got := BrancherCountSnippets(ix); got != nil {
		t.Errorf("BrancherCountSnippets() = %v, want nil without the index note", got)
	}
}

func TestSystemPrompt(t *testing.T) {
	base := SystemPrompt(false, false)
	if !strings.Contains(base, IdentityLine) {
		t.Error("base prompt should embed the identity line")
	}
	if strings.Contains(base, "Sources") {
		t.Error("base prompt should not mention sources")
	}

	info := SystemPrompt(true, false)
	if !strings.Contains(info, "Sources section") {
		t.Error("info prompt should require a sources section")
	}
	if strings.Contains(info, "package name with its price") {
		t.Error("info prompt should not carry the price instruction")
	}

	priced := SystemPrompt(true, true)
	if !strings.Contains(priced, "package name with its price") {
		t.Error("price prompt should carry the price instruction")
	}
}

func TestParseSources(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "answer with sources",
			text: "Basispakken koster 499 kr.\n\nSources:\n- Pricing.md#Pakker (lines 3-9)\n- Members.md#(top) (lines 1-5)",
			want: []string{"Pricing.md#Pakker (lines 3-9)", "Members.md#(top) (lines 1-5)"},
		},
		{
			name: "no sources section",
			text: "Basispakken koster 499 kr.",
			want: nil,
		},
		{
			name: "empty sources section",
			text: "Svar.\n\nSources:\n",
			want: nil,
		},
		{
			name: "stops at non-bullet line",
			text: "Svar.\nSources:\n- a.md#x (lines 1-2)\ntrailing prose\n- b.md#y (lines 3-4)",
			want: []string{"a.md#x (lines 1-2)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSources(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSources() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSources()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEnsureSourcesKeepsExisting(t *testing.T) {
	text := "Svar.\n\nSources:\n- Pricing.md#Pakker (lines 3-9)"

	got, sources := EnsureSources(text, nil)

	if got != text {
		t.Errorf("EnsureSources() modified an answer that already cites: %q", got)
	}
	if len(sources) != 1 || sources[0] != "Pricing.md#Pakker (lines 3-9)" {
		t.Errorf("sources = %v", sources)
	}
}

func TestEnsureSourcesAppendsFallback(t *testing.T) {
	snippets := []vault.Snippet{
		{Path: "a.md", Heading: "X", LineStart: 1, LineEnd: 2},
		{Path: "b.md", Heading: "Y", LineStart: 3, LineEnd: 4},
		{Path: "c.md", Heading: "Z", LineStart: 5, LineEnd: 6},
		{Path: "d.md", Heading: "W", LineStart: 7, LineEnd: 8},
	}

	got, sources := EnsureSources("Svar uden kilder.", snippets)

	if len(sources) != 3 {
		t.Fatalf("fallback sources = %v, want top 3", sources)
	}
	if sources[0] != "a.md#X (lines 1-2)" {
		t.Errorf("sources[0] = %q", sources[0])
	}
	if !strings.Contains(got, "Sources:\n- a.md#X (lines 1-2)\n- b.md#Y (lines 3-4)\n- c.md#Z (lines 5-6)") {
		t.Errorf("EnsureSources() = %q, missing appended section", got)
	}
}

func TestEnsureSourcesNoSnippets(t *testing.T) {
	got, sources := EnsureSources("Svar.", nil)

	if got != "Svar." || sources != nil {
		t.Errorf("EnsureSources() = %q, %v; want unchanged answer and no sources", got, sources)
	}
}
