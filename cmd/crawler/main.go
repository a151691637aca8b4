// Package main provides the command that fetches the publication, warms the
// response cache and reports how each page will be imported.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vinayanotes/internal/config"
	"vinayanotes/internal/crawler"
	"vinayanotes/internal/logger"
	"vinayanotes/internal/models"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	targetURL := flag.String("url", "", "Publication API URL (overrides config)")
	dumpDir := flag.String("dump", "", "Write every page's HTML into this directory")
	refresh := flag.Bool("refresh", false, "Ignore cached responses but store fresh ones")
	saveConfig := flag.String("save-config", "", "Write the effective configuration to this YAML file and exit")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	if *targetURL != "" {
		cfg.Source.APIURL = *targetURL
	}

	fmt.Printf("✅ Configuration loaded: %s\n\n", cfg)

	if *saveConfig != "" {
		if err := cfg.SaveConfig(*saveConfig); err != nil {
			log.Fatalf("❌ Failed to save config: %v\n", err)
		}

		fmt.Printf("💾 Configuration written to %s\n", *saveConfig)

		return
	}

	printCrawlerHeader(cfg)

	client := crawler.NewClient(cfg, logger.NewLogger(cfg.Logging.Level))
	if *refresh {
		client.SetCacheMode(false, true)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pub, err := client.FetchPublication(ctx)
	if err != nil {
		log.Fatalf("❌ Fetch failed: %v\n", err)
	}

	unknown := 0

	fmt.Println("📄 Pages:")

	for _, page := range pub.Pages {
		pc, ok := cfg.Page(page.Path)
		if !ok {
			unknown++

			fmt.Printf("  ❓ %-45s no config\n", page.Path)

			continue
		}

		fmt.Printf("  %s %-45s %-8s %s\n", kindIcon(pc), page.Path, pc.Kind, pc.OutputFolder())
	}

	if *dumpDir != "" {
		if err := dumpPages(*dumpDir, pub.Pages); err != nil {
			log.Fatalf("❌ Dump failed: %v\n", err)
		}

		fmt.Printf("\n💾 Wrote %d pages to %s\n", len(pub.Pages), *dumpDir)
	}

	fmt.Println("\n----------------------------------------------------------------")
	fmt.Printf("📈 Summary:\n")
	fmt.Printf("  Source:   %s\n", pub.SourceURL)
	fmt.Printf("  Pages:    %d\n", len(pub.Pages))
	fmt.Printf("  Unknown:  %d\n", unknown)

	if unknown > 0 {
		fmt.Println("\n💡 Add the unknown pages to the config before importing.")
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}

	fmt.Printf("⚙️  Loading configuration from: %s\n", path)

	return config.LoadConfig(path)
}

func kindIcon(pc config.PageConfig) string {
	switch pc.Kind {
	case config.KindEssay:
		return "📝"
	case config.KindGlossary:
		return "📖"
	default:
		return "⏭️ "
	}
}

func dumpPages(dir string, pages []models.Page) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, page := range pages {
		name := filepath.Base(strings.TrimPrefix(page.Path, "./"))

		if err := os.WriteFile(filepath.Join(dir, name), []byte(page.HTML), 0644); err != nil {
			return err
		}
	}

	return nil
}

func printCrawlerHeader(cfg *config.Config) {
	fmt.Println("🕷️  Publication Crawler")
	fmt.Println("================================================================")
	fmt.Printf("  API:      %s\n", cfg.Source.APIURL)
	fmt.Printf("  Backups:  %d\n", len(cfg.Source.BackupURLs))
	fmt.Printf("  Cache:    %t (%s)\n", cfg.Cache.Enabled, cfg.Cache.Dir)
	fmt.Println()
}

func printUsage() {
	fmt.Println("Usage: ./bin/crawler [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/crawler")
	fmt.Println("  ./bin/crawler -refresh -dump pages")
	fmt.Println("  ./bin/crawler -save-config vinaya.yaml")
}
