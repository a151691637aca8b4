package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var fileNameReplacer = strings.NewReplacer(
	"\u00a0", " ",
	"\u2013", "-",
	"\u2014", "-",
	":", "",
	".", "",
	",", "",
	"/", " ",
	"\"", "“",
)

// NormalizeWhitespace replaces multiple whitespace with single space.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// SanitizeFileName turns a heading or glossary term into a file name stem.
// Dashes are folded to '-', path separators become spaces and straight
// double quotes become curly ones so the result is safe on every filesystem.
func SanitizeFileName(title string) string {
	return NormalizeWhitespace(fileNameReplacer.Replace(norm.NFC.String(title)))
}

// EncodeSpaces escapes spaces in a relative Markdown link target.
func EncodeSpaces(path string) string {
	return strings.ReplaceAll(path, " ", "%20")
}

// TruncateString truncates string to max length.
func TruncateString(str string, maxLength int) string {
	if len(str) <= maxLength {
		return str
	}

	return str[:maxLength] + "..."
}
