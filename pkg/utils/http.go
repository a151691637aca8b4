// Package utils provides common utility functions.
package utils

import "net/http"

// UserAgent identifies the importer to the publication API.
const UserAgent = "vinayanotes/1.0"

// BuildHeaders creates HTTP headers with defaults.
func BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	headers.Set("User-Agent", UserAgent)
	headers.Set("Accept", "application/json, text/html")

	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
