package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// overrideConfigYAML replaces the page list and tweaks a few settings.
const overrideConfigYAML = `
author: "Bhante Test"
pages:
  - path: "./matter/intro.html"
    kind: essay
    folder: "Intro"
  - path: "./matter/terms.html"
    kind: glossary
    link_to: true
retry:
  max_attempts: 5
cache:
  enabled: false
logging:
  level: "debug"
title_overrides:
  "https://example.com/x": "X"
`

// validConfig returns a minimal valid configuration.
func validConfig() *Config {
	return &Config{
		Source: SourceConfig{
			APIURL:     "http://example.com/api",
			EditionURL: "http://example.com/edition/",
		},
		Author: "Ajahn Test",
		Pages: []PageConfig{
			{Path: "./matter/a.html", Kind: KindEssay, Folder: "A"},
			{Path: "./matter/b.html", Kind: KindSkip},
		},
		Retry:   RetryPolicy{MaxAttempts: 1, InitialDelayMs: 100, MaxDelayMs: 1000, BackoffMultiplier: 1.0, TimeoutSec: 10},
		Cache:   CacheConfig{Enabled: true, Dir: ".cache"},
		Logging: LoggingConfig{Level: "info"},
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Embedded defaults do not validate: %v", err)
	}

	if len(cfg.Pages) != 18 {
		t.Errorf("Expected 18 pages, got %d", len(cfg.Pages))
	}

	if cfg.Author != "Ajahn Brahmali" {
		t.Errorf("Expected author 'Ajahn Brahmali', got '%s'", cfg.Author)
	}

	page, ok := cfg.Page("./matter/appendix-furniture.html")
	if !ok {
		t.Fatal("Expected furniture appendix page")
	}

	if page.SplitTag() != "dt" || page.OutputFolder() != "Furniture" {
		t.Errorf("Unexpected furniture page config: %+v", page)
	}

	terms, _ := cfg.Page("./matter/appendix-terms.html")
	if !terms.LinkTo || terms.OutputFolder() != DefaultGlossaryFolder || terms.SplitTag() != "h3" {
		t.Errorf("Unexpected terms page config: %+v", terms)
	}

	if forms := cfg.OtherWordForms["dūs"]; len(forms) != 3 {
		t.Errorf("Expected 3 other forms for dūs, got %v", forms)
	}

	if len(cfg.TitleOverrides) != 3 {
		t.Errorf("Expected 3 title overrides, got %d", len(cfg.TitleOverrides))
	}
}

func TestLoadConfig_Override(t *testing.T) {
	configPath := createTempConfigFile(t, overrideConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.Pages) != 2 {
		t.Errorf("Expected pages to be replaced with 2 entries, got %d", len(cfg.Pages))
	}

	if cfg.Author != "Bhante Test" {
		t.Errorf("Expected overridden author, got '%s'", cfg.Author)
	}

	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("Expected MaxAttempts 5, got %d", cfg.Retry.MaxAttempts)
	}

	// Fields absent from the file keep their defaults.
	if cfg.Retry.BackoffMultiplier != 2.0 {
		t.Errorf("Expected default BackoffMultiplier 2.0, got %v", cfg.Retry.BackoffMultiplier)
	}

	if cfg.Source.APIURL == "" {
		t.Error("Expected default API URL to survive the overlay")
	}

	if cfg.Cache.Enabled {
		t.Error("Expected cache to be disabled")
	}

	if cfg.TitleOverrides["https://example.com/x"] != "X" {
		t.Error("Expected added title override")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_InvalidPageKind(t *testing.T) {
	configPath := createTempConfigFile(t, `
pages:
  - path: "./matter/x.html"
    kind: poem
`)

	_, err := LoadConfig(configPath)
	if !errors.Is(err, ErrInvalidPageKind) {
		t.Fatalf("Expected ErrInvalidPageKind, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing api url", func(c *Config) { c.Source.APIURL = "" }, ErrMissingAPIURL},
		{"missing edition url", func(c *Config) { c.Source.EditionURL = "" }, ErrMissingEditionURL},
		{"missing author", func(c *Config) { c.Author = "" }, ErrMissingAuthor},
		{"no pages", func(c *Config) { c.Pages = nil }, ErrNoPages},
		{"page without path", func(c *Config) { c.Pages[0].Path = "" }, ErrPageMissingPath},
		{"duplicate page", func(c *Config) { c.Pages[1].Path = c.Pages[0].Path }, ErrDuplicatePage},
		{"essay without folder", func(c *Config) { c.Pages[0].Folder = "" }, ErrPageMissingFolder},
		{"bad kind", func(c *Config) { c.Pages[1].Kind = "" }, ErrInvalidPageKind},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"negative delay", func(c *Config) { c.Retry.InitialDelayMs = -1 }, ErrInvalidInitialDelay},
		{"max delay below initial", func(c *Config) { c.Retry.MaxDelayMs = 50 }, ErrInvalidMaxDelay},
		{"shrinking backoff", func(c *Config) { c.Retry.BackoffMultiplier = 0.5 }, ErrInvalidBackoffMultiplier},
		{"zero timeout", func(c *Config) { c.Retry.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"negative min length", func(c *Config) { c.Glossary.MinContentLength = -5 }, ErrInvalidMinContentLength},
		{"cache without dir", func(c *Config) { c.Cache.Dir = "" }, ErrMissingCacheDir},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPageConfig_URL(t *testing.T) {
	page := PageConfig{Path: "./matter/general-introduction.html", Kind: KindEssay}

	got := page.URL("https://suttacentral.net/edition/pli-tv-vi/en/brahmali/")
	want := "https://suttacentral.net/edition/pli-tv-vi/en/brahmali/general-introduction?lang=en"

	if got != want {
		t.Errorf("URL() = %v, want %v", got, want)
	}
}

func TestPageConfig_SplitTag(t *testing.T) {
	tests := []struct {
		name     string
		page     PageConfig
		expected string
	}{
		{"essay default", PageConfig{Kind: KindEssay}, "h2"},
		{"glossary default", PageConfig{Kind: KindGlossary}, "h3"},
		{"explicit", PageConfig{Kind: KindGlossary, Split: "dt"}, "dt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.SplitTag(); got != tt.expected {
				t.Errorf("SplitTag() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSourceConfig_SourceURLs(t *testing.T) {
	src := SourceConfig{
		APIURL:     "http://primary.com",
		BackupURLs: []string{"http://backup1.com", "http://backup2.com"},
	}

	urls := src.SourceURLs()
	if len(urls) != 3 {
		t.Fatalf("Expected 3 URLs, got %d", len(urls))
	}

	if urls[0] != "http://primary.com" {
		t.Errorf("Expected primary URL first, got %s", urls[0])
	}
}

// --- RetryPolicy Tests ---

func TestRetryPolicy_GetRetryDelay(t *testing.T) {
	rp := RetryPolicy{
		InitialDelayMs:    100,
		MaxDelayMs:        1000,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 0},                        // First attempt, no delay
		{2, 200 * time.Millisecond},   // 100 * 2
		{3, 400 * time.Millisecond},   // 100 * 2 * 2
		{4, 800 * time.Millisecond},   // 100 * 2 * 2 * 2
		{5, 1000 * time.Millisecond},  // Capped at max
		{10, 1000 * time.Millisecond}, // Still capped
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := rp.GetRetryDelay(tt.attempt)
			if got != tt.expected {
				t.Errorf("GetRetryDelay(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestRetryPolicy_GetTimeout(t *testing.T) {
	rp := RetryPolicy{TimeoutSec: 45}

	expected := 45 * time.Second
	if got := rp.GetTimeout(); got != expected {
		t.Errorf("GetTimeout() = %v, want %v", got, expected)
	}
}

func TestConfig_String(t *testing.T) {
	s := validConfig().String()
	if !strings.Contains(s, "Pages: 2") {
		t.Errorf("String() = %s, expected page count", s)
	}
}

func TestConfig_SaveConfig(t *testing.T) {
	cfg := validConfig()
	path := filepath.Join(t.TempDir(), "saved.yaml")

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig of saved file failed: %v", err)
	}

	if loaded.Author != cfg.Author || len(loaded.Pages) != len(cfg.Pages) {
		t.Errorf("Round trip mismatch: %s", loaded)
	}
}
