package links

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// matterPrefix is how the publication names its own pages.
const matterPrefix = "matter/"

// Index knows which local file holds each publication anchor and each
// SuttaCentral text.
type Index struct {
	pages    map[string]string
	anchors  map[string]map[string]string
	scids    map[string]string
	siteHost string
	edition  string
}

// NewIndex creates an index for the given site and edition URLs.
func NewIndex(siteURL, editionURL string) (*Index, error) {
	site, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site URL: %w", err)
	}

	edition, err := url.Parse(editionURL)
	if err != nil {
		return nil, fmt.Errorf("invalid edition URL: %w", err)
	}

	return &Index{
		pages:    make(map[string]string),
		anchors:  make(map[string]map[string]string),
		scids:    make(map[string]string),
		siteHost: site.Host,
		edition:  strings.TrimSuffix(edition.Path, "/") + "/",
	}, nil
}

// AddNote records file as the home of noteURL and of every anchor in it.
// The first note added for a page becomes the page's landing file.
func (ix *Index) AddNote(noteURL string, anchors []string, file string) {
	ix.add(noteURL, anchors, file, true)
}

// AddEntry records file as the home of noteURL and its anchors without
// making it the page's landing file. Glossary pages have no landing file,
// so links to entries that were not imported stay untouched.
func (ix *Index) AddEntry(noteURL string, anchors []string, file string) {
	ix.add(noteURL, anchors, file, false)
}

func (ix *Index) add(noteURL string, anchors []string, file string, landing bool) {
	page, fragment, ok := ix.publicationPage(noteURL)
	if !ok {
		return
	}

	if _, exists := ix.pages[page]; !exists && landing {
		ix.pages[page] = file
	}

	if ix.anchors[page] == nil {
		ix.anchors[page] = make(map[string]string)
	}

	if fragment != "" {
		ix.anchors[page][fragment] = file
	}

	for _, a := range anchors {
		if _, exists := ix.anchors[page][a]; !exists {
			ix.anchors[page][a] = file
		}
	}
}

// LoadScidMap reads a JSON object of SuttaCentral id to file path. Keys are
// either a text uid or uid:segment; relative paths are taken from baseDir.
func (ix *Index) LoadScidMap(path, baseDir string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read scid map: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("failed to parse scid map: %w", err)
	}

	for scid, file := range raw {
		if !filepath.IsAbs(file) {
			file = filepath.Join(baseDir, filepath.FromSlash(file))
		}

		ix.scids[scid] = file
	}

	return len(raw), nil
}

// Resolve returns the local file a link destination should point at.
func (ix *Index) Resolve(dest string) (string, bool) {
	if page, fragment, ok := ix.publicationPage(dest); ok {
		if file, found := ix.anchors[page][fragment]; found && fragment != "" {
			return file, true
		}

		file, found := ix.pages[page]

		return file, found
	}

	return ix.resolveText(dest)
}

// publicationPage extracts the page name and fragment from an edition URL,
// a site-relative /matter/ URL or a ./matter/ path.
func (ix *Index) publicationPage(dest string) (string, string, bool) {
	u, err := url.Parse(dest)
	if err != nil {
		return "", "", false
	}

	var name string

	switch {
	case u.Host == "" && u.Scheme == "":
		rel := strings.TrimPrefix(u.Path, "./")
		if !strings.HasPrefix(rel, matterPrefix) {
			return "", "", false
		}

		name = strings.TrimPrefix(rel, matterPrefix)
	case u.Host == ix.siteHost && strings.HasPrefix(u.Path, ix.edition):
		name = strings.TrimPrefix(u.Path, ix.edition)
	case u.Host == ix.siteHost && strings.HasPrefix(u.Path, "/"+matterPrefix):
		name = strings.TrimPrefix(u.Path, "/"+matterPrefix)
	default:
		return "", "", false
	}

	name = strings.TrimSuffix(strings.Trim(name, "/"), ".html")
	if name == "" {
		return "", "", false
	}

	return name, u.Fragment, true
}

// resolveText handles https://suttacentral.net/<uid>[/lang/author][#segment].
func (ix *Index) resolveText(dest string) (string, bool) {
	if len(ix.scids) == 0 {
		return "", false
	}

	u, err := url.Parse(dest)
	if err != nil || u.Host != ix.siteHost {
		return "", false
	}

	uid, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if uid == "" {
		return "", false
	}

	if u.Fragment != "" {
		if file, ok := ix.scids[uid+":"+u.Fragment]; ok {
			return file, true
		}

		// Segment anchors sometimes carry the uid already
		if file, ok := ix.scids[u.Fragment]; ok && strings.Contains(u.Fragment, ":") {
			return file, true
		}
	}

	file, ok := ix.scids[uid]

	return file, ok
}
