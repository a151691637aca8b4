// Package cache keeps compressed copies of API responses on disk so repeated
// runs do not hit the publication API.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Cache errors.
var (
	ErrHashMismatch = errors.New("cache entry hash mismatch")
	ErrURLMismatch  = errors.New("cache entry belongs to another URL")
)

const entryExt = ".json.zst"

// Entry is the envelope stored for one URL.
type Entry struct {
	FetchedAt time.Time `json:"fetched_at"`
	URL       string    `json:"url"`
	Hash      string    `json:"hash"`
	Body      string    `json:"body"`
}

// Cache is a directory of zstd-compressed entries keyed by URL.
type Cache struct {
	now func() time.Time
	dir string
}

// New creates a cache rooted at dir. The directory is created lazily.
func New(dir string) *Cache {
	return &Cache{dir: dir, now: time.Now}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Key returns the file name stem used for url.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))

	return hex.EncodeToString(sum[:])[:16]
}

// CalculateHash computes the SHA-256 hash of a response body.
func CalculateHash(body []byte) string {
	sum := sha256.Sum256(body)

	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(url string) string {
	return filepath.Join(c.dir, Key(url)+entryExt)
}

// Get returns the cached body for url. A missing entry is reported as
// (nil, false, nil); a damaged one as an error.
func (c *Cache) Get(url string) ([]byte, bool, error) {
	entry, err := c.load(url)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return []byte(entry.Body), true, nil
}

func (c *Cache) load(url string) (*Entry, error) {
	f, err := os.Open(c.path(url))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache entry: %w", err)
	}
	defer dec.Close()

	var entry Entry
	if err := json.NewDecoder(dec).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	if entry.URL != url {
		return nil, fmt.Errorf("%w: %s", ErrURLMismatch, entry.URL)
	}

	if calculated := CalculateHash([]byte(entry.Body)); calculated != entry.Hash {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, entry.Hash, calculated)
	}

	return &entry, nil
}

// Put stores body for url, replacing any previous entry.
func (c *Cache) Put(url string, body []byte) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	entry := Entry{
		URL:       url,
		FetchedAt: c.now().UTC(),
		Hash:      CalculateHash(body),
		Body:      string(body),
	}

	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache entry: %w", err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := writeEntry(tmp, &entry); err != nil {
		tmp.Close()

		return err
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache entry: %w", err)
	}

	if err := os.Rename(tmpName, c.path(url)); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

func writeEntry(f *os.File, entry *Entry) error {
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}

	enc := json.NewEncoder(zw)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(entry); err != nil {
		zw.Close()

		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush cache entry: %w", err)
	}

	return nil
}

// Clear removes every entry from the cache directory.
func (c *Cache) Clear() error {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*"+entryExt))
	if err != nil {
		return err
	}

	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("failed to remove %s: %w", m, err)
		}
	}

	return nil
}
