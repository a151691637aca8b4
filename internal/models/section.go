// Package models defines the data passed between the importer stages.
package models

// Section is one sub-document cut from an essay page at a heading boundary.
type Section struct {
	Title string
	// URL is the page URL, plus #id for every section after the first.
	URL  string
	HTML string
	// Anchors lists every element id that lives inside this section.
	Anchors []string
}

// GlossaryEntry is one term cut from a glossary page.
type GlossaryEntry struct {
	ID       string
	Term     string
	Gloss    string
	FileName string
	HTML     string
	// Anchors lists the heading id and every id inside the entry body.
	Anchors []string
}

// Note is a rendered Markdown file waiting to be written.
type Note struct {
	Path    string
	URL     string
	Content string
	Anchors []string
}
