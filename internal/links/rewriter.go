package links

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"vinayanotes/pkg/utils"
)

// Stats summarizes a rewrite pass.
type Stats struct {
	Files          int
	FilesChanged   int
	LinksRewritten int
}

// Rewriter replaces resolvable inline link destinations with relative paths.
// Autolinks are left alone; notes use them for their source URL.
type Rewriter struct {
	index *Index
}

// NewRewriter creates a rewriter backed by index.
func NewRewriter(index *Index) *Rewriter {
	return &Rewriter{index: index}
}

// Rewrite returns markdown with every resolvable inline link pointed at a
// path relative to fromPath, and the number of links changed.
func (r *Rewriter) Rewrite(markdown, fromPath string) (string, int) {
	done := make(map[string]bool)
	count := 0

	for _, link := range ExtractLinks([]byte(markdown)) {
		if link.Kind != LinkKindInline || done[link.Destination] {
			continue
		}

		done[link.Destination] = true

		target, ok := r.index.Resolve(link.Destination)
		if !ok {
			continue
		}

		rel := RelativeLink(fromPath, target)

		for _, suffix := range []string{")", " "} {
			old := "](" + link.Destination + suffix
			if n := strings.Count(markdown, old); n > 0 {
				markdown = strings.ReplaceAll(markdown, old, "]("+rel+suffix)
				count += n
			}
		}
	}

	return markdown, count
}

// RewriteFile rewrites one file in place.
func (r *Rewriter) RewriteFile(path string) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	rewritten, count := r.Rewrite(string(data), abs)
	if count == 0 {
		return 0, nil
	}

	if err := os.WriteFile(abs, []byte(rewritten), 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return count, nil
}

// RewriteFolder rewrites every .md file below root.
func (r *Rewriter) RewriteFolder(root string) (Stats, error) {
	var stats Stats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".md" {
			return nil
		}

		stats.Files++

		count, err := r.RewriteFile(path)
		if err != nil {
			return err
		}

		if count > 0 {
			stats.FilesChanged++
			stats.LinksRewritten += count
		}

		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("failed to rewrite links under %s: %w", root, err)
	}

	return stats, nil
}

// RelativeLink returns the Markdown link target for target as seen from the
// file at fromPath.
func RelativeLink(fromPath, target string) string {
	rel, err := filepath.Rel(filepath.Dir(fromPath), target)
	if err != nil {
		rel = target
	}

	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") && !strings.HasPrefix(rel, "/") {
		rel = "./" + rel
	}

	return utils.EncodeSpaces(rel)
}
