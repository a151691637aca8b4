// Package splitter cuts publication pages into per-heading sections and
// glossary entries.
package splitter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Splitter errors.
var (
	ErrTitleCount    = errors.New("expected exactly one h1")
	ErrNavCount      = errors.New("expected at most one nav")
	ErrMissingID     = errors.New("split heading has no id")
	ErrUnexpectedTag = errors.New("unexpected tag")
	ErrNoArticle     = errors.New("no article element")
	ErrNoPaliTerm    = errors.New("entry has no Pali term")
)

// contentTags are the elements copied into a section verbatim.
// Text and comment nodes are always content.
var contentTags = map[string]bool{
	"p":          true,
	"ul":         true,
	"ol":         true,
	"h3":         true,
	"h4":         true,
	"dl":         true,
	"blockquote": true,
	"hr":         true,
	"dd":         true,
}

const noteRefSelector = `a[role="doc-noteref"]`

func parse(pageHTML string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

func isContent(n *html.Node) bool {
	switch n.Type {
	case html.TextNode, html.CommentNode:
		return true
	case html.ElementNode:
		return contentTags[n.Data]
	default:
		return false
	}
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	return goquery.NewDocumentFromNode(n).Text()
}

// describe names a node for error messages.
func describe(n *html.Node) string {
	if n.Type == html.ElementNode {
		return n.Data
	}

	return fmt.Sprintf("node type %d", n.Type)
}

// sanitizeNode renders n without its footnote reference markers.
func sanitizeNode(n *html.Node) (string, error) {
	if n.Type == html.ElementNode {
		goquery.NewDocumentFromNode(n).Find(noteRefSelector).Remove()
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", describe(n), err)
	}

	return buf.String(), nil
}

// collectIDs appends the id of n and of every element below it.
func collectIDs(n *html.Node, ids []string) []string {
	if n.Type != html.ElementNode {
		return ids
	}

	if id := attr(n, "id"); id != "" {
		ids = append(ids, id)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ids = collectIDs(c, ids)
	}

	return ids
}
