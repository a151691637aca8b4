package utils

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Origin of the Vinaya", "Origin of the Vinaya"},
		{"punctuation removed", "Rules: a, b. c", "Rules a b c"},
		{"dashes folded", "Pārājika 1– 4 — notes", "Pārājika 1- 4 - notes"},
		{"nbsp and runs of space", "  one\u00a0two \t three  ", "one two three"},
		{"slash becomes space", "and/or", "and or"},
		{"straight quotes curled", `say "yes"`, "say “yes“"},
		{"decomposed diacritics composed", "pārājika", "pārājika"},
		{"glossary means form", "ajjhārāma means “in a monastery”", "ajjhārāma means “in a monastery”"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncodeSpaces(t *testing.T) {
	if got := EncodeSpaces("./Origin of the Vinaya.md"); got != "./Origin%20of%20the%20Vinaya.md" {
		t.Errorf("EncodeSpaces() = %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("abcdef", 3); got != "abc..." {
		t.Errorf("TruncateString() = %q", got)
	}

	if got := TruncateString("abc", 10); got != "abc" {
		t.Errorf("TruncateString() = %q", got)
	}
}

func TestBuildHeaders(t *testing.T) {
	h := BuildHeaders(map[string]string{"Accept": "application/json"})

	if h.Get("User-Agent") != UserAgent {
		t.Errorf("User-Agent = %q", h.Get("User-Agent"))
	}

	if got := h.Values("Accept"); len(got) != 1 || got[0] != "application/json" {
		t.Errorf("Accept = %v, want custom value to replace default", got)
	}

}
