// Package pipeline runs the whole import: fetch, split, convert, write,
// index, link and validate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"vinayanotes/internal/config"
	"vinayanotes/internal/links"
	"vinayanotes/internal/logger"
	"vinayanotes/internal/models"
	"vinayanotes/internal/normalizer"
	"vinayanotes/internal/notes"
	"vinayanotes/internal/pali"
	"vinayanotes/internal/splitter"
	"vinayanotes/internal/validator"
	"vinayanotes/pkg/utils"
)

// Pipeline errors.
var (
	ErrNoPageConfig     = errors.New("no config for page")
	ErrValidationFailed = errors.New("generated notes failed validation")
)

// Fetcher returns the publication's pages in API order.
type Fetcher interface {
	FetchPublication(ctx context.Context) (*models.Publication, error)
}

// Options are per-run settings that do not live in the config file.
type Options struct {
	// ScidMapPath overrides links.scidmap_path.
	ScidMapPath string
	// GlossaryOut overrides glossary.index_path.
	GlossaryOut string
	Validate    bool
	Strict      bool
}

// Summary reports what a run produced.
type Summary struct {
	Validation     *validator.ValidationResult
	Links          links.Stats
	PagesImported  int
	PagesSkipped   int
	EssayNotes     int
	GlossaryNotes  int
	EntriesSkipped int
	FilesWritten   int
	Roots          int
	ScidsLoaded    int
	Duration       time.Duration
}

// Importer turns the publication into a folder of Markdown notes.
type Importer struct {
	cfg        *config.Config
	fetcher    Fetcher
	log        *logger.Logger
	processor  *normalizer.Processor
	essays     *splitter.EssaySplitter
	glossaries *splitter.GlossarySplitter
	opts       Options
}

// NewImporter creates an importer.
func NewImporter(cfg *config.Config, fetcher Fetcher, log *logger.Logger, opts Options) *Importer {
	if opts.ScidMapPath == "" {
		opts.ScidMapPath = cfg.Links.ScidMapPath
	}

	if opts.GlossaryOut == "" {
		opts.GlossaryOut = cfg.Glossary.IndexPath
	}

	return &Importer{
		cfg:        cfg,
		fetcher:    fetcher,
		log:        log,
		processor:  normalizer.NewProcessor(cfg.Source.SiteURL),
		essays:     splitter.NewEssaySplitter(cfg.TitleOverrides),
		glossaries: splitter.NewGlossarySplitter(cfg.Glossary.MinContentLength),
		opts:       opts,
	}
}

// run holds the state shared by the pages of one import.
// outputDir is absolute; rootDir is the output dir as the caller named it
// and prefixes the paths stored in the root index.
type run struct {
	outputDir string
	rootDir   string
	writer    *notes.Writer
	roots     *pali.RootIndex
	index     *links.Index
	summary   *Summary
}

// Run imports every configured page into outputDir.
func (im *Importer) Run(ctx context.Context, outputDir string) (*Summary, error) {
	startTime := time.Now()

	rootDir := filepath.Clean(outputDir)

	outputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("invalid output dir: %w", err)
	}

	index, err := links.NewIndex(im.cfg.Source.SiteURL, im.cfg.Source.EditionURL)
	if err != nil {
		return nil, err
	}

	r := &run{
		outputDir: outputDir,
		rootDir:   rootDir,
		writer:    notes.NewWriter(),
		roots:     pali.NewRootIndex(im.cfg.OtherWordForms),
		index:     index,
		summary:   &Summary{},
	}

	if im.opts.ScidMapPath != "" {
		n, err := index.LoadScidMap(im.opts.ScidMapPath, filepath.Dir(outputDir))
		if err != nil {
			return nil, err
		}

		r.summary.ScidsLoaded = n
		im.log.Info("🗺️  Loaded scid map", "path", im.opts.ScidMapPath, "ids", n)
	}

	pub, err := im.fetcher.FetchPublication(ctx)
	if err != nil {
		return nil, err
	}

	im.log.Info("Generating files from the publication...", "output", outputDir)

	for _, page := range pub.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pc, ok := im.cfg.Page(page.Path)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoPageConfig, page.Path)
		}

		if pc.IsSkipped() {
			im.log.Debug("Skipping page", "path", page.Path)

			r.summary.PagesSkipped++

			continue
		}

		if err := im.importPage(r, pc, page); err != nil {
			im.log.Error(fmt.Sprintf("❌ failed to generate %s", page.Path), "error", err)

			return nil, fmt.Errorf("failed to generate %s: %w", page.Path, err)
		}

		r.summary.PagesImported++
	}

	if err := r.roots.WriteJSON(im.opts.GlossaryOut); err != nil {
		return nil, err
	}

	r.summary.Roots = r.roots.Len()
	r.summary.FilesWritten = r.writer.Count()
	im.log.Info("✅ Wrote root index", "path", im.opts.GlossaryOut, "roots", r.roots.Len())

	stats, err := links.NewRewriter(index).RewriteFolder(outputDir)
	if err != nil {
		return nil, err
	}

	r.summary.Links = stats
	im.log.Info("🔗 Linked publication URLs to local files",
		"files", stats.Files, "changed", stats.FilesChanged, "links", stats.LinksRewritten)

	if im.opts.Validate {
		result, err := validator.NewNotesValidator(im.cfg.Author, im.cfg.Source.EditionURL).ValidateFolder(outputDir)
		if err != nil {
			return nil, err
		}

		r.summary.Validation = result
		im.log.Info("🔍 Validation finished", "result", result.String())

		if !result.IsValid && im.opts.Strict {
			r.summary.Duration = time.Since(startTime)

			return r.summary, fmt.Errorf("%w: %d errors", ErrValidationFailed, len(result.Errors))
		}
	}

	r.summary.Duration = time.Since(startTime)

	return r.summary, nil
}

func (im *Importer) importPage(r *run, pc config.PageConfig, page models.Page) error {
	pageURL := pc.URL(im.cfg.Source.EditionURL)
	folder := filepath.Join(r.outputDir, pc.OutputFolder())

	switch pc.Kind {
	case config.KindEssay:
		return im.importEssay(r, pc, page, pageURL, folder)
	case config.KindGlossary:
		return im.importGlossary(r, pc, page, pageURL, folder)
	default:
		return fmt.Errorf("%w: %s", config.ErrInvalidPageKind, pc.Kind)
	}
}

func (im *Importer) importEssay(r *run, pc config.PageConfig, page models.Page, pageURL, folder string) error {
	sections, err := im.essays.Split(page.HTML, pageURL, pc.SplitTag(), pc.Folder)
	if err != nil {
		return err
	}

	chain := notes.NewChain(im.cfg.Author)

	for _, section := range sections {
		md, err := im.processor.Process(section.HTML)
		if err != nil {
			return fmt.Errorf("failed to convert %q: %w", section.Title, err)
		}

		chain.Append(notes.Part{
			Path:     filepath.Join(folder, utils.SanitizeFileName(section.Title)+".md"),
			URL:      section.URL,
			Markdown: md,
			Anchors:  section.Anchors,
		})
	}

	for _, note := range chain.Notes() {
		if err := r.writer.Write(note); err != nil {
			return err
		}

		r.index.AddNote(note.URL, note.Anchors, note.Path)
	}

	r.summary.EssayNotes += chain.Len()
	im.log.Info("📝 Imported essay", "page", page.Path, "sections", chain.Len(), "folder", pc.Folder)

	return nil
}

func (im *Importer) importGlossary(r *run, pc config.PageConfig, page models.Page, pageURL, folder string) error {
	entries, skipped, err := im.glossaries.Split(page.HTML, pageURL, pc.SplitTag())
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(folder, entry.FileName)
		url := pageURL + "#" + entry.ID

		if pc.LinkTo {
			r.roots.Add(entry.Term, filepath.ToSlash(filepath.Join(r.rootDir, pc.OutputFolder(), entry.FileName)))
		}

		md, err := im.processor.Process(entry.HTML)
		if err != nil {
			return fmt.Errorf("failed to convert %q: %w", entry.Term, err)
		}

		note := models.Note{
			Path:    path,
			URL:     url,
			Content: notes.RenderGlossary(im.cfg.Author, url, md),
		}

		if err := r.writer.Write(note); err != nil {
			return err
		}

		r.index.AddEntry(url, entry.Anchors, path)
	}

	r.summary.GlossaryNotes += len(entries)
	r.summary.EntriesSkipped += skipped
	im.log.Info("📖 Imported glossary", "page", page.Path, "entries", len(entries), "short", skipped)

	return nil
}
