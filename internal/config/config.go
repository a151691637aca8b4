// Package config provides configuration management for the notes importer.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Page kinds.
const (
	KindSkip     = "skip"
	KindEssay    = "essay"
	KindGlossary = "glossary"
)

// Default split tags and folders.
const (
	DefaultEssaySplit     = "h2"
	DefaultGlossarySplit  = "h3"
	DefaultGlossaryFolder = "Glosses"
)

// Configuration validation errors.
var (
	ErrMissingAPIURL            = errors.New("source.api_url is required")
	ErrMissingEditionURL        = errors.New("source.edition_url is required")
	ErrMissingAuthor            = errors.New("author is required")
	ErrNoPages                  = errors.New("at least one page is required")
	ErrPageMissingPath          = errors.New("page path is required")
	ErrDuplicatePage            = errors.New("duplicate page path")
	ErrInvalidPageKind          = errors.New("page kind must be one of: skip, essay, glossary")
	ErrPageMissingFolder        = errors.New("essay pages require a folder")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidMaxDelay          = errors.New("retry.max_delay_ms must be >= retry.initial_delay_ms")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidMinContentLength  = errors.New("glossary.min_content_length must be non-negative")
	ErrMissingCacheDir          = errors.New("cache.dir is required when caching is enabled")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete importer configuration.
type Config struct {
	TitleOverrides map[string]string   `yaml:"title_overrides"`
	OtherWordForms map[string][]string `yaml:"other_word_forms"`
	Source         SourceConfig        `yaml:"source"`
	Author         string              `yaml:"author"`
	Links          LinksConfig         `yaml:"links"`
	Cache          CacheConfig         `yaml:"cache"`
	Logging        LoggingConfig       `yaml:"logging"`
	Pages          []PageConfig        `yaml:"pages"`
	Glossary       GlossaryConfig      `yaml:"glossary"`
	Retry          RetryPolicy         `yaml:"retry"`
}

// SourceConfig describes the publication API.
type SourceConfig struct {
	APIURL       string   `yaml:"api_url"`
	SiteURL      string   `yaml:"site_url"`
	EditionURL   string   `yaml:"edition_url"`
	BackupURLs   []string `yaml:"backup_urls"`
	BufferSizeKb int      `yaml:"buffer_size_kb"`
}

// PageConfig describes how one page of the publication is imported.
type PageConfig struct {
	Path   string `yaml:"path"`
	Kind   string `yaml:"kind"`
	Folder string `yaml:"folder"`
	Split  string `yaml:"split"`
	LinkTo bool   `yaml:"link_to"`
}

// GlossaryConfig contains glossary import settings.
type GlossaryConfig struct {
	IndexPath        string `yaml:"index_path"`
	MinContentLength int    `yaml:"min_content_length"`
}

// RetryPolicy defines retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// CacheConfig controls the on-disk API response cache.
type CacheConfig struct {
	Dir     string `yaml:"dir"`
	Enabled bool   `yaml:"enabled"`
}

// LinksConfig controls link rewriting.
type LinksConfig struct {
	ScidMapPath string `yaml:"scidmap_path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}

	return &cfg, nil
}

// LoadConfig loads a YAML file on top of the embedded defaults.
// A pages list in the file replaces the default list entirely.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Source.APIURL == "" {
		return ErrMissingAPIURL
	}

	if c.Source.EditionURL == "" {
		return ErrMissingEditionURL
	}

	if c.Author == "" {
		return ErrMissingAuthor
	}

	if len(c.Pages) == 0 {
		return ErrNoPages
	}

	seen := make(map[string]bool, len(c.Pages))

	for i, page := range c.Pages {
		if page.Path == "" {
			return fmt.Errorf("%w: pages[%d]", ErrPageMissingPath, i)
		}

		if seen[page.Path] {
			return fmt.Errorf("%w: %s", ErrDuplicatePage, page.Path)
		}

		seen[page.Path] = true

		switch page.Kind {
		case KindSkip, KindGlossary:
		case KindEssay:
			if page.Folder == "" {
				return fmt.Errorf("%w: pages[%d]", ErrPageMissingFolder, i)
			}
		default:
			return fmt.Errorf("%w: pages[%d] has %q", ErrInvalidPageKind, i, page.Kind)
		}
	}

	// Validate retry policy
	if c.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Retry.MaxDelayMs < c.Retry.InitialDelayMs {
		return ErrInvalidMaxDelay
	}

	if c.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Glossary.MinContentLength < 0 {
		return ErrInvalidMinContentLength
	}

	if c.Cache.Enabled && c.Cache.Dir == "" {
		return ErrMissingCacheDir
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// Page returns the configuration for the given publication path.
func (c *Config) Page(path string) (PageConfig, bool) {
	for _, page := range c.Pages {
		if page.Path == path {
			return page, true
		}
	}

	return PageConfig{}, false
}

// SourceURLs returns the primary API URL followed by the backups.
func (s *SourceConfig) SourceURLs() []string {
	urls := []string{s.APIURL}
	urls = append(urls, s.BackupURLs...)

	return urls
}

// IsSkipped reports whether the page produces no output.
func (p PageConfig) IsSkipped() bool {
	return p.Kind == KindSkip
}

// SplitTag returns the heading tag the page is split at.
func (p PageConfig) SplitTag() string {
	if p.Split != "" {
		return p.Split
	}

	if p.Kind == KindGlossary {
		return DefaultGlossarySplit
	}

	return DefaultEssaySplit
}

// OutputFolder returns the folder name under the output directory.
func (p PageConfig) OutputFolder() string {
	if p.Folder == "" && p.Kind == KindGlossary {
		return DefaultGlossaryFolder
	}

	return p.Folder
}

// URL follows structure: ./matter/{name}.html -> {edition_url}{name}?lang=en.
func (p PageConfig) URL(editionURL string) string {
	name := strings.TrimPrefix(p.Path, "./matter/")
	name = strings.TrimSuffix(name, ".html")

	return editionURL + name + "?lang=en"
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Pages: %d, MaxAttempts: %d, Cache: %t}",
		len(c.Pages),
		c.Retry.MaxAttempts,
		c.Cache.Enabled,
	)
}
