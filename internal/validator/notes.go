// Package validator checks generated notes before they are handed over.
package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"vinayanotes/internal/links"
	"vinayanotes/internal/notes"
	"vinayanotes/pkg/utils"
)

// Validation errors.
var (
	ErrMissingByline = errors.New("note does not start with the author byline")
	ErrMissingSource = errors.New("note has no Source line")
	ErrBrokenLink    = errors.New("relative link does not resolve")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Err     error
	File    string
	Field   string
	Value   string
	Message string
	Line    int
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	TotalNotes   int
	ValidNotes   int
	InvalidNotes int
	LinksChecked int
	BrokenLinks  int
}

// NotesValidator validates rendered notes.
type NotesValidator struct {
	byline     string
	editionURL string
}

// NewNotesValidator creates a validator for notes credited to author.
// Links still pointing at editionURL are reported as warnings.
func NewNotesValidator(author, editionURL string) *NotesValidator {
	return &NotesValidator{
		byline:     notes.Byline(author),
		editionURL: editionURL,
	}
}

func newResult() *ValidationResult {
	return &ValidationResult{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
	}
}

// ValidateNote validates the content of the note stored at path.
func (v *NotesValidator) ValidateNote(path, content string) *ValidationResult {
	result := newResult()
	result.Stats.TotalNotes = 1

	lines := strings.Split(content, "\n")

	if strings.TrimSpace(lines[0]) != v.byline {
		result.add(ValidationError{
			Err:     ErrMissingByline,
			File:    path,
			Field:   "byline",
			Value:   utils.TruncateString(lines[0], 50),
			Line:    1,
			Message: fmt.Sprintf("expected %q", v.byline),
		})
	}

	if !hasSourceLine(lines) {
		result.add(ValidationError{
			Err:     ErrMissingSource,
			File:    path,
			Field:   "source",
			Message: "no line starts with \"Source: \"",
		})
	}

	for _, link := range links.ExtractLinks([]byte(content)) {
		if link.Kind != links.LinkKindInline {
			continue
		}

		if v.editionURL != "" && strings.HasPrefix(link.Destination, v.editionURL) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: unresolved publication link %s", path, link.Destination))

			continue
		}

		if !isRelative(link.Destination) {
			continue
		}

		result.Stats.LinksChecked++

		if linkResolves(path, link.Destination) {
			continue
		}

		result.Stats.BrokenLinks++
		result.add(ValidationError{
			Err:     ErrBrokenLink,
			File:    path,
			Field:   "link",
			Value:   link.Destination,
			Line:    lineOf(content, "]("+link.Destination),
			Message: ErrBrokenLink.Error(),
		})
	}

	if result.IsValid {
		result.Stats.ValidNotes = 1
	} else {
		result.Stats.InvalidNotes = 1
	}

	return result
}

// ValidateFolder validates every .md file under root.
func (v *NotesValidator) ValidateFolder(root string) (*ValidationResult, error) {
	result := newResult()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".md" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		result.merge(v.ValidateNote(path, string(data)))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", root, err)
	}

	return result, nil
}

func (r *ValidationResult) add(e ValidationError) {
	r.IsValid = false
	r.Errors = append(r.Errors, e)
}

func (r *ValidationResult) merge(other *ValidationResult) {
	r.IsValid = r.IsValid && other.IsValid
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Stats.TotalNotes += other.Stats.TotalNotes
	r.Stats.ValidNotes += other.Stats.ValidNotes
	r.Stats.InvalidNotes += other.Stats.InvalidNotes
	r.Stats.LinksChecked += other.Stats.LinksChecked
	r.Stats.BrokenLinks += other.Stats.BrokenLinks
}

func hasSourceLine(lines []string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, "Source: ") {
			return true
		}
	}

	return false
}

// isRelative reports whether dest points at a local file.
func isRelative(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return false
	}

	u, err := url.Parse(dest)

	return err == nil && u.Scheme == "" && u.Host == ""
}

func linkResolves(from, dest string) bool {
	dest, _, _ = strings.Cut(dest, "#")

	unescaped, err := url.PathUnescape(dest)
	if err != nil {
		return false
	}

	_, err = os.Stat(filepath.Join(filepath.Dir(from), filepath.FromSlash(unescaped)))

	return err == nil
}

// lineOf returns the 1-based line of the first occurrence of needle.
func lineOf(content, needle string) int {
	i := strings.Index(content, needle)
	if i < 0 {
		return 0
	}

	return strings.Count(content[:i], "\n") + 1
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Notes: %d | Valid: %d | Invalid: %d | Links: %d | Broken: %d | Warnings: %d",
		status,
		r.Stats.TotalNotes,
		r.Stats.ValidNotes,
		r.Stats.InvalidNotes,
		r.Stats.LinksChecked,
		r.Stats.BrokenLinks,
		len(r.Warnings),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *ValidationResult) PrintErrors() {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Println("❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Line > 0 {
			fmt.Printf("  %s:%d", err.File, err.Line)
		} else {
			fmt.Printf("  %s", err.File)
		}

		if err.Field != "" {
			fmt.Printf(" [%s]", err.Field)
		}

		fmt.Printf(": %s\n", err.Message)

		if err.Value != "" {
			fmt.Printf("    Found: %q\n", err.Value)
		}
	}
}

// PrintWarnings prints validation warnings.
func (r *ValidationResult) PrintWarnings() {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Println("⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Printf("  %s\n", warn)
	}
}
