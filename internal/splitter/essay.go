package splitter

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"vinayanotes/internal/models"
)

// EssaySplitter cuts an essay page into a chain of sections, one per split
// heading plus the untitled lead-in named after the page's h1.
type EssaySplitter struct {
	titleOverrides map[string]string
}

// NewEssaySplitter creates a splitter that renames sections whose URL has an
// entry in titleOverrides.
func NewEssaySplitter(titleOverrides map[string]string) *EssaySplitter {
	return &EssaySplitter{titleOverrides: titleOverrides}
}

// Split walks the siblings that follow the page's nav (or its h1 when there
// is no nav) and starts a new section at every splitTag element.
// The walk stops at the endnotes section.
func (s *EssaySplitter) Split(pageHTML, pageURL, splitTag, folder string) ([]models.Section, error) {
	doc, err := parse(pageHTML)
	if err != nil {
		return nil, err
	}

	h1 := doc.Find("h1")
	if h1.Length() != 1 {
		return nil, fmt.Errorf("%w: found %d", ErrTitleCount, h1.Length())
	}

	var anchor *html.Node

	switch nav := doc.Find("nav"); nav.Length() {
	case 0:
		anchor = h1.Nodes[0]
	case 1:
		anchor = nav.Nodes[0]
	default:
		return nil, fmt.Errorf("%w: found %d", ErrNavCount, nav.Length())
	}

	current := models.Section{
		Title:   s.title(pageURL, h1.Text()),
		URL:     pageURL,
		Anchors: collectIDs(h1.Nodes[0], nil),
	}

	var (
		sections []models.Section
		content  strings.Builder
	)

	for n := anchor.NextSibling; n != nil; n = n.NextSibling {
		if isElement(n, splitTag) {
			current.HTML = content.String()
			sections = append(sections, current)
			content.Reset()

			id := attr(n, "id")
			if id == "" {
				return nil, fmt.Errorf("%w: <%s>%s</%s>", ErrMissingID, splitTag, nodeText(n), splitTag)
			}

			url := pageURL + "#" + id
			current = models.Section{
				Title:   s.title(url, nodeText(n)),
				URL:     url,
				Anchors: collectIDs(n, nil),
			}

			continue
		}

		if isContent(n) {
			rendered, err := sanitizeNode(n)
			if err != nil {
				return nil, err
			}

			content.WriteString(rendered)
			current.Anchors = collectIDs(n, current.Anchors)

			continue
		}

		if isElement(n, "section") && attr(n, "role") == "doc-endnotes" {
			break
		}

		return nil, fmt.Errorf("%w: %q found in %q", ErrUnexpectedTag, describe(n), folder)
	}

	current.HTML = content.String()
	sections = append(sections, current)

	return sections, nil
}

func (s *EssaySplitter) title(url, heading string) string {
	if override, ok := s.titleOverrides[url]; ok {
		return override
	}

	return heading
}
