// Package links points publication and SuttaCentral links in the generated
// notes at the local files that hold the same text.
package links

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LinkKind tells inline links from autolinks.
type LinkKind string

// Link kinds.
const (
	LinkKindInline LinkKind = "inline"
	LinkKindAuto   LinkKind = "auto"
)

// Link is one link destination found in a Markdown document.
type Link struct {
	Kind        LinkKind
	Destination string
}

// ExtractLinks returns every link and autolink destination in document order.
func ExtractLinks(markdown []byte) []Link {
	doc := goldmark.DefaultParser().Parse(text.NewReader(markdown))

	var links []Link

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		case *ast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(markdown))})
		}

		return ast.WalkContinue, nil
	})

	return links
}
