// Package main provides the command that generates Ajahn Brahmali's Vinaya
// notes as Markdown files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"vinayanotes/internal/config"
	"vinayanotes/internal/crawler"
	"vinayanotes/internal/logger"
	"vinayanotes/internal/pipeline"
)

const defaultOutputDir = "./Ajahn Brahmali"

func main() {
	configPath := flag.String("config", "", "YAML file overriding the embedded configuration")
	scidMap := flag.String("scidmap", "", "JSON map of SuttaCentral ids to local files")
	glossaryOut := flag.String("glossary-out", "", "Where to write the root-to-glossary index")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	noCache := flag.Bool("no-cache", false, "Neither read nor write the response cache")
	refresh := flag.Bool("refresh", false, "Ignore cached responses but store fresh ones")
	clearCache := flag.Bool("clear-cache", false, "Delete every cached response before importing")
	validate := flag.Bool("validate", false, "Check the generated notes after linking")
	strict := flag.Bool("strict", false, "Exit with an error when validation fails")
	help := flag.Bool("help", false, "Show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [output_dir]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Generates Ajahn Brahmali's Vinaya notes as .md files.")
		fmt.Fprintf(os.Stderr, "output_dir defaults to %q.\n\nFlags:\n", defaultOutputDir)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "❌ Expected at most one output directory, got %d arguments\n", flag.NArg())
		flag.Usage()
		os.Exit(1)
	}

	outputDir := defaultOutputDir
	if flag.NArg() == 1 {
		outputDir = flag.Arg(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	log := logger.NewLogger(cfg.Logging.Level).With("run", uuid.NewString())

	log.Info("🚀 Generating files from Ajahn Brahmali's appendices", "output", outputDir)

	client := crawler.NewClient(cfg, log)

	if *clearCache {
		if err := client.ClearCache(); err != nil {
			log.Error(fmt.Sprintf("❌ Failed to clear cache: %v", err))
			os.Exit(1)
		}

		log.Info("🧹 Cache cleared", "dir", cfg.Cache.Dir)
	}

	switch {
	case *noCache:
		client.SetCacheMode(false, false)
	case *refresh:
		client.SetCacheMode(false, true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	importer := pipeline.NewImporter(cfg, client, log, pipeline.Options{
		ScidMapPath: *scidMap,
		GlossaryOut: *glossaryOut,
		Validate:    *validate || *strict,
		Strict:      *strict,
	})

	summary, err := importer.Run(ctx, outputDir)
	if summary != nil && summary.Validation != nil {
		summary.Validation.PrintErrors()
		summary.Validation.PrintWarnings()
	}

	if err != nil {
		log.Error(fmt.Sprintf("❌ Import failed: %v", err))
		stop()
		os.Exit(1)
	}

	log.Info("✨ Done!")
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Pages imported:   %d (skipped %d)\n", summary.PagesImported, summary.PagesSkipped)
	fmt.Printf("Essay notes:      %d\n", summary.EssayNotes)
	fmt.Printf("Glossary notes:   %d (too short %d)\n", summary.GlossaryNotes, summary.EntriesSkipped)
	fmt.Printf("Glossary roots:   %d\n", summary.Roots)
	fmt.Printf("Files written:    %d\n", summary.FilesWritten)
	fmt.Printf("Links rewritten:  %d in %d files\n", summary.Links.LinksRewritten, summary.Links.FilesChanged)

	if summary.Validation != nil {
		fmt.Printf("Validation:       %s\n", summary.Validation)
	}

	fmt.Printf("Total Duration:   %v\n", summary.Duration)
	fmt.Println("------------------------------------------------")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg, err := config.Default()
		if err != nil {
			return nil, err
		}

		return cfg, cfg.Validate()
	}

	return config.LoadConfig(path)
}
