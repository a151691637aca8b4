// Package normalizer turns the HTML fragments cut from the publication into
// Markdown bodies.
package normalizer

import (
	"strings"
)

// definitionMarker is how a leading <dd> comes out of some converters.
const definitionMarker = ":   "

// Processor converts fragments and applies the source-specific fixups.
type Processor struct {
	transformer *Transformer
	siteURL     string
}

// NewProcessor creates a new processor for the given site.
func NewProcessor(siteURL string) *Processor {
	return &Processor{
		transformer: NewTransformer(siteURL),
		siteURL:     siteURL,
	}
}

// Process converts a fragment to Markdown. Empty fragments give "".
func (p *Processor) Process(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	markdown, err := p.transformer.Transform(fragment)
	if err != nil {
		return "", err
	}

	return stripDefinitionMarker(FixDoubledSite(markdown, p.siteURL)), nil
}

func stripDefinitionMarker(markdown string) string {
	markdown = strings.TrimPrefix(strings.TrimSpace(markdown), definitionMarker)

	return strings.TrimSpace(markdown)
}

// FixDoubledSite collapses links whose site prefix was written twice in the
// source data, e.g. https://suttacentral.nethttps://suttacentral.net/x.
func FixDoubledSite(markdown, siteURL string) string {
	if siteURL == "" {
		return markdown
	}

	return strings.ReplaceAll(markdown, siteURL+siteURL, siteURL)
}
