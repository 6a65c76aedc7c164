package price

import (
	"reflect"
	"testing"

	"dory-ai/internal/vault"
)

func pricingSection(text string) vault.Section {
	return vault.Section{
		Path:      "Pricing.md",
		Heading:   "Pricing",
		LineStart: 1,
		LineEnd:   10,
		Text:      text,
	}
}

func TestExtractTableRow(t *testing.T) {
	sections := []vault.Section{pricingSection("| Pakke | Pris |\n| --- | --- |\n| Basis | 499 kr. |\n| Premium | 999 kr. |")}

	items := Extract(sections)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	if items[0].Name != "Basis" || items[0].Price != "499 kr." {
		t.Errorf("first item = %q / %q, want Basis / 499 kr.", items[0].Name, items[0].Price)
	}
	if items[1].Name != "Premium" || items[1].Price != "999 kr." {
		t.Errorf("second item = %q / %q, want Premium / 999 kr.", items[1].Name, items[1].Price)
	}
}

func TestExtractPlainLine(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantName  string
		wantPrice string
	}{
		{
			name:      "name and price on one line",
			text:      "Basispakken: 499 kr.",
			wantName:  "Basispakken",
			wantPrice: "499 kr.",
		},
		{
			name:      "price with per-year qualifier",
			text:      "Medlemskab 1.200 kr. pr. år",
			wantName:  "Medlemskab",
			wantPrice: "1.200 kr. pr. år",
		},
		{
			name:      "label on preceding line",
			text:      "Premiumpakken\n999 kr.",
			wantName:  "Premiumpakken",
			wantPrice: "999 kr.",
		},
		{
			name:      "stoplisted label line is skipped in lookback",
			text:      "Certificeringspakken\nPris\n1.500 kr.",
			wantName:  "Certificeringspakken",
			wantPrice: "1.500 kr.",
		},
		{
			name:      "markdown markup stripped from name",
			text:      "**Basispakken** — 499 kr.",
			wantName:  "Basispakken —",
			wantPrice: "499 kr.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Extract([]vault.Section{pricingSection(tt.text)})
			if len(items) != 1 {
				t.Fatalf("got %d items, want 1: %+v", len(items), items)
			}
			if items[0].Name != tt.wantName || items[0].Price != tt.wantPrice {
				t.Errorf("item = %q / %q, want %q / %q", items[0].Name, items[0].Price, tt.wantName, tt.wantPrice)
			}
		})
	}
}

func TestExtractRejectsUnusableNames(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no name at all", "499 kr."},
		{"letterless name", "42 — 499 kr."},
		{"stoplisted name", "Pris: 499 kr."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if items := Extract([]vault.Section{pricingSection(tt.text)}); len(items) != 0 {
				t.Errorf("got %+v, want no items", items)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	sections := []vault.Section{pricingSection("| Basis | 499 kr. |\n| Basis | 499 kr. |\nPremium: 999 kr.")}

	first := Extract(sections)
	second := Extract(sections)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction is not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}

	// The duplicated table row collapses to one item.
	if len(first) != 2 {
		t.Errorf("got %d items, want 2: %+v", len(first), first)
	}
}

func TestExtractSortsByPathAndLine(t *testing.T) {
	sections := []vault.Section{
		{Path: "b.md", Heading: "Prices", LineStart: 1, Text: "Basis: 499 kr."},
		{Path: "a.md", Heading: "Prices", LineStart: 5, Text: "Premium: 999 kr."},
	}
	items := Extract(sections)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Path != "a.md" || items[1].Path != "b.md" {
		t.Errorf("order = %s, %s; want a.md, b.md", items[0].Path, items[1].Path)
	}
}

func TestFilter(t *testing.T) {
	items := []Item{
		{Name: "Basis", Price: "499 kr."},
		{Name: "Premium", Price: "999 kr."},
		{Name: "basis", Price: "499 kr."}, // dedupe on lowercased name + price
	}

	filtered := Filter(items, "hvad koster Basis pakken")
	if len(filtered) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(filtered), filtered)
	}
	if filtered[0].Name != "Basis" {
		t.Errorf("kept %q, want Basis", filtered[0].Name)
	}

	// A query that reduces to no tokens keeps everything.
	all := Filter(items, "hvad koster det")
	if len(all) != len(items) {
		t.Errorf("tokenless filter kept %d items, want %d", len(all), len(items))
	}
}

func TestPriceFromLine(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"499 kr.", "499 kr."},
		{"499 kr J", "499 kr"},
		{"2.500 DKK", "2.500 DKK"},
		{"499 kr. / md. ekskl. moms", "499 kr. / md."},
		{"no price here", ""},
	}
	for _, tt := range tests {
		if got := priceFromLine(tt.line); got != tt.want {
			t.Errorf("priceFromLine(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestParseTableRow(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"| Basis | 499 kr. |", []string{"Basis", "499 kr."}},
		{"| --- | :--- |", nil},
		{"plain text", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		got := parseTableRow(tt.line)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseTableRow(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
