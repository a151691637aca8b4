// Package notes renders sections into Markdown notes and writes them out.
package notes

import (
	"fmt"
	"path/filepath"
	"strings"

	"vinayanotes/internal/models"
	"vinayanotes/pkg/utils"
)

// Part is one converted section waiting for its neighbours to be known.
type Part struct {
	Path     string
	URL      string
	Markdown string
	Anchors  []string
}

// Chain is an ordered run of essay parts linked previous/next.
type Chain struct {
	author string
	parts  []Part
}

// NewChain creates an empty chain whose notes are credited to author.
func NewChain(author string) *Chain {
	return &Chain{author: author}
}

// Append adds a part at the end of the chain.
func (c *Chain) Append(p Part) {
	c.parts = append(c.parts, p)
}

// Len returns the number of parts.
func (c *Chain) Len() int {
	return len(c.parts)
}

// Notes renders every part with links to its neighbours.
func (c *Chain) Notes() []models.Note {
	notes := make([]models.Note, 0, len(c.parts))

	for i, p := range c.parts {
		var prev, next *Part
		if i > 0 {
			prev = &c.parts[i-1]
		}

		if i+1 < len(c.parts) {
			next = &c.parts[i+1]
		}

		notes = append(notes, models.Note{
			Path:    p.Path,
			URL:     p.URL,
			Anchors: p.Anchors,
			Content: RenderEssay(c.author, p, prev, next),
		})
	}

	return notes
}

// RenderEssay renders one essay part. prev and next may be nil.
func RenderEssay(author string, p Part, prev, next *Part) string {
	previousLink := ""
	if prev != nil {
		previousLink = "\n\nPrevious: " + siblingLink(prev.Path)
	}

	nextLink := ""
	if next != nil {
		nextLink = "## Next section: " + siblingLink(next.Path)
	}

	return fmt.Sprintf("%s\n\nSource: <%s>%s\n\n%s\n\n%s\n",
		Byline(author), p.URL, previousLink, p.Markdown, nextLink)
}

// RenderGlossary renders one glossary entry.
func RenderGlossary(author, url, markdown string) string {
	return fmt.Sprintf("%s\n\nSource: <%s>\n\n%s\n", Byline(author), url, markdown)
}

// Byline returns the heading every note starts with.
func Byline(author string) string {
	return "## By " + author
}

// siblingLink links to a file in the same folder.
func siblingLink(path string) string {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	return fmt.Sprintf("[%s](./%s)", stem, utils.EncodeSpaces(name))
}
