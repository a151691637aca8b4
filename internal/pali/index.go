package pali

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// nonWord splits a term into words; Pali diacritics count as letters.
var nonWord = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_]+`)

// RootIndex maps word stems to the glossary file that explains them.
type RootIndex struct {
	roots          map[string]string
	otherWordForms map[string][]string
}

// NewRootIndex creates an empty index. otherWordForms lists extra stems that
// should point at the same file as the key stem.
func NewRootIndex(otherWordForms map[string][]string) *RootIndex {
	return &RootIndex{
		roots:          make(map[string]string),
		otherWordForms: otherWordForms,
	}
}

// Add records file under the stem of every word in term.
// A later file for the same stem replaces the earlier one.
func (ri *RootIndex) Add(term, file string) {
	for _, word := range nonWord.Split(term, -1) {
		if word == "" {
			continue
		}

		stem := Stem(word)
		ri.roots[stem] = file

		for _, form := range ri.otherWordForms[stem] {
			ri.roots[form] = file
		}
	}
}

// Len returns the number of stems in the index.
func (ri *RootIndex) Len() int {
	return len(ri.roots)
}

// WriteJSON writes the index as indented JSON with sorted keys.
func (ri *RootIndex) WriteJSON(path string) error {
	data, err := json.MarshalIndent(ri.roots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal root index: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create index dir: %w", err)
		}
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write root index: %w", err)
	}

	return nil
}
