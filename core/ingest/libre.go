// Package ingest parses CGM and food log exports into schema rows and
// discovers the latest export files on disk.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mlevkov/glucodip/schema"
)

// timestampLayouts covers the formats seen in LibreView and Cronometer
// exports, tried in order. LibreView ships month-first dates; the
// non-padded layouts accept zero-padded values as well.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 3:04 PM",
	"1-2-2006 3:04 PM",
	"1-2-2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	time.RFC3339,
}

// ParseLibreCSV parses a FreeStyle Libre glucose export. LibreView files
// carry metadata lines before the real header, so the header row is located
// by searching for a timestamp column. Rows without a numeric glucose value
// (scan records, notes) are skipped. Output is sorted by timestamp.
func ParseLibreCSV(r io.Reader) ([]schema.GlucoseReading, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read glucose export: %w", err)
	}

	headerIdx := findHeaderRow(records)
	if headerIdx < 0 {
		return nil, errors.New("no timestamp column found in glucose export")
	}

	header := normalizeHeader(records[headerIdx])
	timestampCol := findColumn(header, func(c string) bool {
		return strings.Contains(c, "timestamp")
	})
	glucoseCol := findColumn(header, func(c string) bool {
		return strings.Contains(c, "glucose") && strings.Contains(c, "historic")
	})
	if glucoseCol < 0 {
		glucoseCol = findColumn(header, func(c string) bool {
			return strings.Contains(c, "glucose")
		})
	}
	if timestampCol < 0 || glucoseCol < 0 {
		return nil, errors.New("could not identify timestamp and glucose columns")
	}

	readings := []schema.GlucoseReading{}
	for _, row := range records[headerIdx+1:] {
		if len(row) <= timestampCol || len(row) <= glucoseCol {
			continue
		}
		ts, err := parseTimestamp(row[timestampCol])
		if err != nil {
			continue
		}
		glucose, err := strconv.ParseFloat(strings.TrimSpace(row[glucoseCol]), 64)
		if err != nil {
			continue
		}
		readings = append(readings, schema.GlucoseReading{Timestamp: ts, GlucoseMgDl: glucose})
	}

	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
	return readings, nil
}

// ParseLibreFile opens and parses a glucose export from disk.
func ParseLibreFile(path string) ([]schema.GlucoseReading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open glucose export: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseLibreCSV(f)
}

// findHeaderRow returns the index of the first row that names a timestamp
// column, or -1 when none does.
func findHeaderRow(records [][]string) int {
	for i, row := range records {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), "timestamp") {
				return i
			}
		}
	}
	return -1
}

// normalizeHeader lowercases column names and joins words with underscores,
// matching the loose naming across export generations.
func normalizeHeader(row []string) []string {
	normalized := make([]string, len(row))
	for i, cell := range row {
		normalized[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(cell)), " ", "_")
	}
	return normalized
}

// findColumn returns the index of the first column matching the predicate,
// or -1 when none does.
func findColumn(header []string, match func(string) bool) int {
	for i, col := range header {
		if match(col) {
			return i
		}
	}
	return -1
}

// parseTimestamp tries each known export layout in order.
func parseTimestamp(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
