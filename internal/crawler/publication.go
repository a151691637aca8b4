package crawler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"vinayanotes/internal/models"
)

// Publication decoding errors.
var (
	ErrNotAnObject   = errors.New("publication response is not a JSON object")
	ErrDuplicatePath = errors.New("duplicate page path in publication")
)

// DecodePublication decodes the API's {path: html} object, keeping the
// order in which the API lists the pages.
func DecodePublication(data []byte) ([]models.Page, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read publication: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotAnObject
	}

	var pages []models.Page

	seen := make(map[string]bool)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read page path: %w", err)
		}

		path, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key %v", ErrNotAnObject, keyTok)
		}

		var html string
		if err := dec.Decode(&html); err != nil {
			return nil, fmt.Errorf("failed to decode page %s: %w", path, err)
		}

		if seen[path] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, path)
		}

		seen[path] = true

		pages = append(pages, models.Page{Path: path, HTML: html})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read publication end: %w", err)
	}

	return pages, nil
}
