package crawler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// URL manager errors.
var (
	ErrNoSourcesAvailable  = errors.New("no sources available")
	ErrAllSourcesExhausted = errors.New("all sources exhausted")
)

// URLManager walks the primary API URL and then its mirrors.
type URLManager struct {
	attemptLog []AttemptResult
	urls       []string
	current    int
}

// AttemptResult records the result of a URL fetch attempt.
type AttemptResult struct {
	Timestamp  time.Time
	URL        string
	Error      string
	Duration   time.Duration
	StatusCode int
	Success    bool
}

// NewURLManager creates a new URL manager over the given URLs.
func NewURLManager(urls []string) *URLManager {
	var nonEmpty []string

	for _, u := range urls {
		if u != "" {
			nonEmpty = append(nonEmpty, u)
		}
	}

	return &URLManager{urls: nonEmpty}
}

// NextURL returns the next URL to try.
func (um *URLManager) NextURL() (string, error) {
	if len(um.urls) == 0 {
		return "", ErrNoSourcesAvailable
	}

	if um.current >= len(um.urls) {
		return "", fmt.Errorf("%w: %d", ErrAllSourcesExhausted, len(um.urls))
	}

	url := um.urls[um.current]
	um.current++

	return url, nil
}

// RecordAttempt records the outcome of fetching url.
func (um *URLManager) RecordAttempt(url string, success bool, err error, statusCode int, duration time.Duration) {
	result := AttemptResult{
		Timestamp:  time.Now(),
		URL:        url,
		Success:    success,
		StatusCode: statusCode,
		Duration:   duration,
	}

	if err != nil {
		result.Error = err.Error()
	}

	um.attemptLog = append(um.attemptLog, result)
}

// Attempts returns every recorded attempt in order.
func (um *URLManager) Attempts() []AttemptResult {
	return um.attemptLog
}

// Summary describes the failed attempts, e.g. "https://a (503); https://b (transport error)".
func (um *URLManager) Summary() string {
	var parts []string

	for _, a := range um.attemptLog {
		if a.Success {
			continue
		}

		status := "transport error"
		if a.StatusCode != 0 {
			status = strconv.Itoa(a.StatusCode)
		}

		parts = append(parts, fmt.Sprintf("%s (%s)", a.URL, status))
	}

	return strings.Join(parts, "; ")
}
