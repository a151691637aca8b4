package models

// Page is one file of the publication as returned by the API.
type Page struct {
	// Path is the publication-relative path, e.g. ./matter/preface.html.
	Path string `json:"path"`
	HTML string `json:"html"`
}

// Publication is the ordered page set of one edition.
type Publication struct {
	SourceURL string `json:"sourceUrl"`
	Pages     []Page `json:"pages"`
}
