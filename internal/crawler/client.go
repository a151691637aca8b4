// Package crawler fetches the publication's pages from the remote API.
package crawler

import (
	"context"
	"fmt"

	"vinayanotes/internal/cache"
	"vinayanotes/internal/config"
	"vinayanotes/internal/logger"
	"vinayanotes/internal/models"
)

// Client fetches the publication, going through the response cache.
type Client struct {
	scraper    *Scraper
	cache      *cache.Cache
	log        *logger.Logger
	urls       []string
	readCache  bool
	writeCache bool
}

// NewClient creates a client from configuration.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	var c *cache.Cache
	if cfg.Cache.Enabled {
		c = cache.New(cfg.Cache.Dir)
	}

	return NewClientWithDeps(
		NewScraperWithConfig(&cfg.Retry, cfg.Source.BufferSizeKb),
		c,
		cfg.Source.SourceURLs(),
		log,
	)
}

// NewClientWithDeps creates a new client with injected dependencies.
// A nil cache disables caching.
func NewClientWithDeps(scraper *Scraper, c *cache.Cache, urls []string, log *logger.Logger) *Client {
	return &Client{
		scraper:    scraper,
		cache:      c,
		log:        log,
		urls:       urls,
		readCache:  c != nil,
		writeCache: c != nil,
	}
}

// SetCacheMode toggles cache reads and writes independently.
func (c *Client) SetCacheMode(read, write bool) {
	c.readCache = read && c.cache != nil
	c.writeCache = write && c.cache != nil
}

// ClearCache removes every cached response.
func (c *Client) ClearCache() error {
	if c.cache == nil {
		return nil
	}

	return c.cache.Clear()
}

// FetchPublication returns every page of the edition in API order.
func (c *Client) FetchPublication(ctx context.Context) (*models.Publication, error) {
	body, source, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	pages, err := DecodePublication(body)
	if err != nil {
		return nil, err
	}

	c.log.Info("📦 Publication loaded", "pages", len(pages), "source", source)

	return &models.Publication{SourceURL: source, Pages: pages}, nil
}

func (c *Client) fetch(ctx context.Context) ([]byte, string, error) {
	urlManager := NewURLManager(c.urls)

	key, err := urlManager.NextURL()
	if err != nil {
		return nil, "", err
	}

	if c.readCache {
		body, ok, cacheErr := c.cache.Get(key)

		switch {
		case cacheErr != nil:
			c.log.Warn("⚠️  Ignoring damaged cache entry", "url", key, "error", cacheErr)
		case ok:
			c.log.Debug("Cache hit", "url", key, "dir", c.cache.Dir())

			return body, key, nil
		}
	}

	for url := key; ; {
		c.log.Info("⏳ Fetching publication", "url", url)

		body, statusCode, duration, fetchErr := c.scraper.ScrapeWithMetrics(ctx, url)
		urlManager.RecordAttempt(url, fetchErr == nil, fetchErr, statusCode, duration)

		if fetchErr == nil {
			c.log.Info("✅ Fetched publication", "bytes", len(body), "duration", duration)

			if c.writeCache {
				if putErr := c.cache.Put(key, body); putErr != nil {
					c.log.Warn("⚠️  Could not cache response", "error", putErr)
				}
			}

			return body, url, nil
		}

		c.log.Error("❌ Fetch failed", "url", url, "status", statusCode, "error", fetchErr)

		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}

		next, nextErr := urlManager.NextURL()
		if nextErr != nil {
			return nil, "", fmt.Errorf("failed to fetch publication from %d sources [%s]: %w",
				len(urlManager.Attempts()), urlManager.Summary(), fetchErr)
		}

		url = next
	}
}
