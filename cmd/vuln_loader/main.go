package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vulnguard/vulnguard/internal/adapters/vulndb"
)

func main() {
	seedFile := flag.String("seed-file", "./configs/vuln_seed.json", "Path to vulnerability seed JSON file")
	dbPath := flag.String("db-path", "./data/vulns.db", "Path to vulnerability database")
	flag.Parse()

	log.Println("=== Vulnerability Seed Loader ===")
	log.Printf("Seed file: %s", *seedFile)
	log.Printf("Database: %s", *dbPath)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Create repository
	repo, err := vulndb.NewSQLiteRepository(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}
	defer repo.Close()

	// Load seed data
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	loader := vulndb.NewSeedLoader(repo, logger)
	ctx := context.Background()

	if err := loader.LoadFromFile(ctx, *seedFile); err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	// Show stats
	count, _ := repo.GetTotalCount(ctx)
	log.Printf("Database now contains %d vulnerability records", count)
}
