package ingest

import (
	"os"
	"path/filepath"

	"github.com/mlevkov/glucodip/internal/contract"
)

// Substrings that identify export files by source. LibreView names carry
// the patient name around "glucose"; Cronometer always exports
// "servings.csv".
const (
	GlucosePattern = "glucose"
	FoodPattern    = "servings"
)

// FindLatestExport returns the newest CSV file under dir whose base name
// contains pattern, judged by modification time. Returns ErrNoExportFiles
// when nothing matches, so callers can fall back to stored data.
func FindLatestExport(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+pattern+"*.csv"))
	if err != nil {
		return "", err
	}

	newest := ""
	var newestMod int64
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if mod := info.ModTime().UnixMilli(); newest == "" || mod > newestMod {
			newest = m
			newestMod = mod
		}
	}
	if newest == "" {
		return "", contract.ErrNoExportFiles
	}
	return newest, nil
}
