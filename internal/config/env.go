package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env and .env.local from the working directory and from dir.
// Variables already set in the process environment win. Missing files are skipped.
func loadEnvFiles(dir string) {
	candidates := []string{".env", ".env.local"}
	if dir != "" {
		candidates = append(candidates, filepath.Join(dir, ".env"), filepath.Join(dir, ".env.local"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("path", path))
	}
}
