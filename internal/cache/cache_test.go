package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testURL = "https://example.com/api/publication/files"

func TestCache_PutGet(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache"))
	body := []byte(`{"./matter/a.html":"<h1>A &amp; B</h1>"}`)

	if err := c.Put(testURL, body); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := c.Get(testURL)
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}

	if string(got) != string(body) {
		t.Errorf("Get() = %s, want %s", got, body)
	}
}

func TestCache_Miss(t *testing.T) {
	c := New(t.TempDir())

	got, ok, err := c.Get(testURL)
	if err != nil || ok || got != nil {
		t.Errorf("Get() on empty cache = %v, %v, %v", got, ok, err)
	}
}

func TestCache_HashMismatch(t *testing.T) {
	c := New(t.TempDir())

	f, err := os.Create(c.path(testURL))
	if err != nil {
		t.Fatal(err)
	}

	entry := &Entry{URL: testURL, Hash: "deadbeef", Body: "{}", FetchedAt: time.Now()}
	if err := writeEntry(f, entry); err != nil {
		t.Fatal(err)
	}

	f.Close()

	_, ok, err := c.Get(testURL)
	if ok || !errors.Is(err, ErrHashMismatch) {
		t.Errorf("Get() = ok %v, err %v; want ErrHashMismatch", ok, err)
	}
}

func TestCache_EnvelopeAndClear(t *testing.T) {
	c := New(t.TempDir())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	if err := c.Put(testURL, []byte("{}")); err != nil {
		t.Fatal(err)
	}

	entry, err := c.load(testURL)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !entry.FetchedAt.Equal(fixed) {
		t.Errorf("FetchedAt = %v, want %v", entry.FetchedAt, fixed)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, ok, _ := c.Get(testURL); ok {
		t.Error("entry survived Clear")
	}
}

func TestKey_Stable(t *testing.T) {
	if Key(testURL) != Key(testURL) || len(Key(testURL)) != 16 {
		t.Errorf("Key() = %s", Key(testURL))
	}

	if Key(testURL) == Key(testURL+"?x") {
		t.Error("different URLs share a key")
	}
}
