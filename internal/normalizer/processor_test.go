package normalizer

import (
	"strings"
	"testing"
)

const site = "https://suttacentral.net"

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(site)

	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "emphasis",
			input:    `<p>Hello <strong>world</strong> and <i lang="pli">vinaya</i></p>`,
			contains: []string{"Hello **world** and *vinaya*"},
		},
		{
			name:     "relative link resolved against site",
			input:    `<p>See <a href="/pli-tv-bu-vb-pj1/en/brahmali">Bu Pj 1</a></p>`,
			contains: []string{"[Bu Pj 1](https://suttacentral.net/pli-tv-bu-vb-pj1/en/brahmali)"},
		},
		{
			name:     "lists",
			input:    `<ul><li>one</li><li>two</li></ul>`,
			contains: []string{"one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Process(tt.input)
			if err != nil {
				t.Fatalf("Process returned unexpected error: %v", err)
			}

			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Process() = %q, want it to contain %q", got, want)
				}
			}

			if got != strings.TrimSpace(got) {
				t.Errorf("Process() should be trimmed: %q", got)
			}
		})
	}
}

func TestProcessor_Process_Empty(t *testing.T) {
	got, err := NewProcessor(site).Process("  \n ")
	if err != nil || got != "" {
		t.Errorf("Process(blank) = %q, %v", got, err)
	}
}

func TestStripDefinitionMarker(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading marker", ":   body", "body"},
		{"marker after blank line", "\n:   body\n", "body"},
		{"marker mid text", "a\n:   b", "a\n:   b"},
		{"no marker", "  plain  ", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripDefinitionMarker(tt.in); got != tt.want {
				t.Errorf("stripDefinitionMarker(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFixDoubledSite(t *testing.T) {
	in := "[x](https://suttacentral.nethttps://suttacentral.net/pli-tv-kd1)"
	want := "[x](https://suttacentral.net/pli-tv-kd1)"

	if got := FixDoubledSite(in, site); got != want {
		t.Errorf("FixDoubledSite() = %q, want %q", got, want)
	}

	if got := FixDoubledSite(in, ""); got != in {
		t.Errorf("FixDoubledSite with no site should be a no-op, got %q", got)
	}
}
