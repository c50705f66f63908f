package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touchFile(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestFindLatestExport(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	touchFile(t, dir, "JaneDoe_glucose_1-10-2024.csv", base)
	want := touchFile(t, dir, "JaneDoe_glucose_1-15-2024.csv", base.Add(48*time.Hour))
	touchFile(t, dir, "servings_export.csv", base.Add(72*time.Hour))
	touchFile(t, dir, "glucose_notes.txt", base.Add(96*time.Hour))

	got, err := FindLatestExport(dir, GlucosePattern)
	require.NoError(t, err)
	assert.Equal(t, want, got, "Newest matching CSV wins; other patterns and non-CSV files are ignored")
}

func TestFindLatestExportNoMatches(t *testing.T) {
	dir := t.TempDir()
	touchFile(t, dir, "unrelated.csv", time.Now())

	_, err := FindLatestExport(dir, FoodPattern)
	assert.ErrorIs(t, err, contract.ErrNoExportFiles)
}

func TestFindLatestExportMissingDir(t *testing.T) {
	_, err := FindLatestExport(filepath.Join(t.TempDir(), "nope"), GlucosePattern)
	assert.ErrorIs(t, err, contract.ErrNoExportFiles, "A missing directory simply has no exports")
}
