package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"vinayanotes/internal/config"
	"vinayanotes/internal/crawler"
	"vinayanotes/internal/logger"
	"vinayanotes/internal/pipeline"
)

func newPublicationServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	// Path to fixture
	content, err := os.ReadFile(filepath.Join("..", "fixtures", "publication.json"))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(content)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestImportFlow_FullPublication(t *testing.T) {
	var hits atomic.Int32

	srv := newPublicationServer(t, &hits)
	root := t.TempDir()
	out := filepath.Join(root, "Ajahn Brahmali")

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}

	cfg.Source.APIURL = srv.URL
	cfg.Cache.Dir = filepath.Join(root, ".cache")
	cfg.Retry.MaxAttempts = 1

	opts := pipeline.Options{
		GlossaryOut: filepath.Join(root, "glossary.json"),
		Validate:    true,
		Strict:      true,
	}

	// Run twice; the second run is served from the cache.
	var summary *pipeline.Summary

	for i := 0; i < 2; i++ {
		client := crawler.NewClient(cfg, logger.Discard())
		importer := pipeline.NewImporter(cfg, client, logger.Discard(), opts)

		summary, err = importer.Run(context.Background(), out)
		if err != nil {
			t.Fatalf("Run #%d failed: %v", i+1, err)
		}
	}

	if hits.Load() != 1 {
		t.Errorf("Expected a single API request, got %d", hits.Load())
	}

	if summary.PagesImported != 3 || summary.PagesSkipped != 1 {
		t.Errorf("Expected 3 imported and 1 skipped page, got %d and %d", summary.PagesImported, summary.PagesSkipped)
	}

	if summary.EssayNotes != 3 || summary.GlossaryNotes != 2 || summary.EntriesSkipped != 1 {
		t.Errorf("Unexpected note counts: %+v", summary)
	}

	if summary.Roots != 1 {
		t.Errorf("Expected 1 root, got %d", summary.Roots)
	}

	if summary.Links.LinksRewritten != 2 {
		t.Errorf("Expected 2 rewritten links, got %+v", summary.Links)
	}

	if !summary.Validation.IsValid {
		t.Errorf("Expected valid notes: %s", summary.Validation)
	}

	expectedFiles := []string{
		filepath.Join("General", "General Introduction.md"),
		filepath.Join("General", "Origin of the Vinaya.md"),
		filepath.Join("General", "Contents of the Vinaya.md"),
		filepath.Join("Glosses", "ajjhārāma means “inside a monastery”.md"),
		filepath.Join("Furniture", "mañca.md"),
	}
	for _, name := range expectedFiles {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}

	intro, err := os.ReadFile(filepath.Join(out, "General", "General Introduction.md"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(intro), "[inside a monastery](../Glosses/ajjhārāma%20means%20“inside%20a%20monastery”.md)") {
		t.Errorf("Intro link was not rewritten:\n%s", intro)
	}

	if strings.Contains(string(intro), "note-1") {
		t.Errorf("Note references should be removed:\n%s", intro)
	}

	contents, err := os.ReadFile(filepath.Join(out, "General", "Contents of the Vinaya.md"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(contents), "[origin](./Origin%20of%20the%20Vinaya.md)") {
		t.Errorf("Anchor link was not rewritten:\n%s", contents)
	}

	if !strings.Contains(string(contents), "Previous: [Origin of the Vinaya](./Origin%20of%20the%20Vinaya.md)") {
		t.Errorf("Missing previous link:\n%s", contents)
	}
}
