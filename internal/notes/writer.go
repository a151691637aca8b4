package notes

import (
	"fmt"
	"os"
	"path/filepath"

	"vinayanotes/internal/formatter"
	"vinayanotes/internal/models"
)

// Writer writes notes to disk and counts the distinct files it produced.
type Writer struct {
	seen map[string]bool
}

// NewWriter creates a new writer.
func NewWriter() *Writer {
	return &Writer{seen: make(map[string]bool)}
}

// Write formats and writes a note, creating its folder. Writing the same
// path twice replaces the earlier file.
func (w *Writer) Write(note models.Note) error {
	if err := os.MkdirAll(filepath.Dir(note.Path), 0755); err != nil {
		return fmt.Errorf("failed to create folder for %s: %w", note.Path, err)
	}

	content := formatter.FormatMarkdown(note.Content)

	if err := os.WriteFile(note.Path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", note.Path, err)
	}

	w.seen[note.Path] = true

	return nil
}

// Count returns the number of distinct files written.
func (w *Writer) Count() int {
	return len(w.seen)
}
