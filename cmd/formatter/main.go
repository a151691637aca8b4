// Package main provides the command that reformats and checks a folder of
// generated notes after they have been edited by hand.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"vinayanotes/internal/config"
	"vinayanotes/internal/formatter"
	"vinayanotes/internal/validator"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	targetPath := flag.String("path", "./Ajahn Brahmali", "Path to file or directory to format")
	write := flag.Bool("write", false, "Write changes to file (default: false, dry-run)")
	validate := flag.Bool("validate", false, "Check bylines, sources and relative links")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	fmt.Printf("📂 Scanning path: %s\n", *targetPath)

	if *write {
		fmt.Println("✍️  Write mode ENABLED (files will be modified)")
	} else {
		fmt.Println("👀 Dry-run mode (no changes will be written)")
	}

	fmt.Println()

	count := 0
	changed := 0
	errors := 0

	err = filepath.WalkDir(*targetPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Printf("❌ Error accessing path %s: %v\n", path, err)

			errors++

			return nil
		}

		if d.IsDir() {
			// Skip .cache, .git, etc.
			if strings.HasPrefix(d.Name(), ".") && path != *targetPath {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.ToLower(filepath.Ext(path)) != ".md" {
			return nil
		}

		count++

		wasChanged, procErr := processFile(path, *write)
		if procErr != nil {
			fmt.Printf("❌ Failed to process %s: %v\n", path, procErr)

			errors++
		} else if wasChanged {
			changed++

			if *write {
				fmt.Printf("✅ Formatted: %s\n", path)
			} else {
				fmt.Printf("📝 Would format: %s\n", path)
			}
		}

		return nil
	})
	if err != nil {
		log.Fatalf("❌ Error walking path: %v\n", err)
	}

	invalid := false

	if *validate {
		result, valErr := validator.NewNotesValidator(cfg.Author, cfg.Source.EditionURL).ValidateFolder(*targetPath)
		if valErr != nil {
			log.Fatalf("❌ Validation failed to run: %v\n", valErr)
		}

		fmt.Println()
		result.PrintErrors()
		result.PrintWarnings()
		fmt.Println(result)

		invalid = !result.IsValid
	}

	fmt.Println("\n----------------------------------------------------------------")
	fmt.Printf("📈 Summary:\n")
	fmt.Printf("  Scanned: %d files\n", count)
	fmt.Printf("  Changed: %d files\n", changed)
	fmt.Printf("  Errors:  %d\n", errors)

	if changed > 0 && !*write {
		fmt.Println("\n💡 Run with -write to apply changes.")
		os.Exit(1)
	}

	if invalid || errors > 0 {
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

func processFile(path string, write bool) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	original := string(content)

	formatted := formatter.FormatMarkdown(original)
	if formatted == original {
		return false, nil
	}

	if write {
		if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
			return false, err
		}
	}

	return true, nil
}

func printUsage() {
	fmt.Println("Usage: ./bin/formatter [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/formatter -path \"Ajahn Brahmali\" -validate")
	fmt.Println("  ./bin/formatter -path \"Ajahn Brahmali/General\" -write")
}
