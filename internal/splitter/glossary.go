package splitter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"vinayanotes/internal/models"
	"vinayanotes/pkg/utils"
)

// GlossarySplitter cuts a glossary appendix into one entry per term.
type GlossarySplitter struct {
	minContentLength int
}

// NewGlossarySplitter creates a splitter that drops entries whose body HTML
// is shorter than minContentLength characters.
func NewGlossarySplitter(minContentLength int) *GlossarySplitter {
	return &GlossarySplitter{minContentLength: minContentLength}
}

// Split returns the entries of the page and the number of entries dropped
// for being too short.
func (s *GlossarySplitter) Split(pageHTML, pageURL, splitTag string) ([]models.GlossaryEntry, int, error) {
	doc, err := parse(pageHTML)
	if err != nil {
		return nil, 0, err
	}

	article := doc.Find("article").First()
	if article.Length() == 0 {
		return nil, 0, ErrNoArticle
	}

	var (
		entries []models.GlossaryEntry
		skipped int
	)

	for _, subhead := range article.Find(splitTag).Nodes {
		entry, err := s.entry(subhead, pageURL, splitTag)
		if err != nil {
			return nil, 0, err
		}

		if utf8.RuneCountInString(entry.HTML) < s.minContentLength {
			skipped++

			continue
		}

		entries = append(entries, entry)
	}

	return entries, skipped, nil
}

func (s *GlossarySplitter) entry(subhead *html.Node, pageURL, splitTag string) (models.GlossaryEntry, error) {
	id := attr(subhead, "id")
	if id == "" {
		return models.GlossaryEntry{}, fmt.Errorf("%w: <%s>%s</%s>", ErrMissingID, splitTag, nodeText(subhead), splitTag)
	}

	terms := goquery.NewDocumentFromNode(subhead).Find(`i[lang="pli"]`)
	if terms.Length() == 0 {
		return models.GlossaryEntry{}, fmt.Errorf("%w: %q", ErrNoPaliTerm, nodeText(subhead))
	}

	parts := make([]string, 0, terms.Length())
	for _, n := range terms.Nodes {
		parts = append(parts, nodeText(n))
	}

	term := strings.Join(parts, " ")

	gloss := ""
	if next := terms.Nodes[len(terms.Nodes)-1].NextSibling; next != nil {
		gloss = nodeText(next)
	}

	// A quoted term carries its own gloss after the colon.
	if strings.Contains(term, "“") {
		term = strings.TrimSpace(strings.SplitN(term, ":", 2)[0])
		gloss = "“" + gloss
	}

	fileName := utils.SanitizeFileName(term)
	if strings.Contains(gloss, "“") {
		fileName = utils.SanitizeFileName(term + " means " + gloss)
	}

	var body strings.Builder

	anchors := collectIDs(subhead, nil)

	for n := subhead.NextSibling; n != nil; n = n.NextSibling {
		if isElement(n, splitTag) || isElement(n, "section") {
			break
		}

		if !isContent(n) {
			return models.GlossaryEntry{}, fmt.Errorf("%w: %q found under %q in %s", ErrUnexpectedTag, describe(n), term, pageURL)
		}

		rendered, err := sanitizeNode(n)
		if err != nil {
			return models.GlossaryEntry{}, err
		}

		body.WriteString(rendered)
		anchors = collectIDs(n, anchors)
	}

	return models.GlossaryEntry{
		ID:       id,
		Term:     term,
		Gloss:    gloss,
		FileName: fileName + ".md",
		HTML:     body.String(),
		Anchors:  anchors,
	}, nil
}
