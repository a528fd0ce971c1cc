package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Addr            string
	AssetDBPath     string
	VulnDBPath      string
	SeedFile        string
	RebuildInterval time.Duration
	Debug           bool
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("VULNGUARD_ADDR", ":8080")
	cfg.AssetDBPath = getEnv("VULNGUARD_ASSET_DB", getDefaultDBPath("assets.db"))
	cfg.VulnDBPath = getEnv("VULNGUARD_VULN_DB", getDefaultDBPath("vulns.db"))
	cfg.SeedFile = getEnv("VULNGUARD_SEED", "")
	cfg.RebuildInterval = getEnvDuration("VULNGUARD_REBUILD_INTERVAL", 5*time.Minute)
	cfg.Debug = getEnvBool("VULNGUARD_DEBUG", false)

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.AssetDBPath, "asset-db", cfg.AssetDBPath, "Path to the asset SQLite database")
	flag.StringVar(&cfg.VulnDBPath, "vuln-db", cfg.VulnDBPath, "Path to the vulnerability SQLite database")
	flag.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "Path to a vulnerability seed file to load at startup (empty to skip)")
	flag.DurationVar(&cfg.RebuildInterval, "rebuild-interval", cfg.RebuildInterval, "Interval between scheduled matching runs and graph rebuilds")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable verbose debug logging")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getDefaultDBPath returns the default database path in the user's home
// directory, creating ~/.vulnguard if needed.
func getDefaultDBPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return name
	}

	dir := filepath.Join(home, ".vulnguard")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create .vulnguard directory, using current dir: %v", err)
		return name
	}

	return filepath.Join(dir, name)
}
