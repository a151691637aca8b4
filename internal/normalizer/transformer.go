package normalizer

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// Transformer converts HTML fragments to CommonMark.
type Transformer struct {
	conv   *converter.Converter
	domain string
}

// NewTransformer creates a transformer that resolves relative links
// against domain.
func NewTransformer(domain string) *Transformer {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHorizontalRule("---"),
			),
			table.NewTablePlugin(),
		),
	)

	return &Transformer{conv: conv, domain: domain}
}

// Transform converts one HTML fragment.
func (t *Transformer) Transform(fragment string) (string, error) {
	var (
		markdown string
		err      error
	)

	if t.domain != "" {
		markdown, err = t.conv.ConvertString(fragment, converter.WithDomain(t.domain))
	} else {
		markdown, err = t.conv.ConvertString(fragment)
	}

	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}

	return markdown, nil
}
