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

// macroVariants maps each macro field to the column names Cronometer has
// used across export generations, in preference order.
var macroVariants = map[string][]string{
	"calories": {"energy_(kcal)", "calories", "kcal", "energy"},
	"protein":  {"protein_(g)", "protein", "protein_g"},
	"carbs":    {"carbs_(g)", "carbohydrates_(g)", "carbs", "carbohydrates", "carbs_g"},
	"fat":      {"fat_(g)", "fat", "total_fat", "fat_g"},
	"fiber":    {"fiber_(g)", "fiber", "dietary_fiber", "fiber_g"},
	"sugar":    {"sugars_(g)", "sugar_(g)", "sugars", "sugar", "sugar_g"},
}

var foodNameVariants = []string{"food_name", "food", "name", "description"}

// cronometerLayout holds resolved column indices for one export file.
// An index of -1 means the export has no such column.
type cronometerLayout struct {
	day, timeOfDay, timestamp int
	group, foodName           int
	macros                    map[string]int
}

// ParseCronometerCSV parses a Cronometer food log export. Dates arrive as
// either a day plus time-of-day pair or a single timestamp column; macro
// columns vary by export generation and default to zero when absent or
// blank. Output is sorted by timestamp.
func ParseCronometerCSV(r io.Reader) ([]schema.FoodEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read food export: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("food export is empty")
	}

	layout, err := resolveCronometerLayout(normalizeHeader(records[0]))
	if err != nil {
		return nil, err
	}

	entries := []schema.FoodEntry{}
	for _, row := range records[1:] {
		entry, ok := parseCronometerRow(row, layout)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// ParseCronometerFile opens and parses a food log export from disk.
func ParseCronometerFile(path string) ([]schema.FoodEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open food export: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseCronometerCSV(f)
}

func resolveCronometerLayout(header []string) (cronometerLayout, error) {
	layout := cronometerLayout{
		day:       findExactColumn(header, "day", "date"),
		timeOfDay: findExactColumn(header, "time"),
		timestamp: findExactColumn(header, "timestamp"),
		group:     findExactColumn(header, "group"),
		foodName:  findExactColumn(header, foodNameVariants...),
		macros:    make(map[string]int, len(macroVariants)),
	}
	for field, variants := range macroVariants {
		layout.macros[field] = findExactColumn(header, variants...)
	}

	hasDayTime := layout.day >= 0 && layout.timeOfDay >= 0
	if !hasDayTime && layout.timestamp < 0 {
		return layout, errors.New("could not identify date and time columns in food export")
	}
	return layout, nil
}

// parseCronometerRow builds one entry, reporting false for rows whose
// date cannot be parsed.
func parseCronometerRow(row []string, layout cronometerLayout) (schema.FoodEntry, bool) {
	ts, ok := rowTimestamp(row, layout)
	if !ok {
		return schema.FoodEntry{}, false
	}

	entry := schema.FoodEntry{
		Timestamp: ts,
		Day:       schema.DayOf(ts),
		FoodName:  cellAt(row, layout.foodName),
		Group:     cellAt(row, layout.group),
		Calories:  macroAt(row, layout.macros["calories"]),
		ProteinG:  macroAt(row, layout.macros["protein"]),
		CarbsG:    macroAt(row, layout.macros["carbs"]),
		FatG:      macroAt(row, layout.macros["fat"]),
		FiberG:    macroAt(row, layout.macros["fiber"]),
		SugarG:    macroAt(row, layout.macros["sugar"]),
	}
	if entry.Group == "" {
		entry.Group = schema.DefaultMealGroup
	}
	return entry, true
}

func rowTimestamp(row []string, layout cronometerLayout) (time.Time, bool) {
	if layout.day >= 0 && layout.timeOfDay >= 0 {
		combined := cellAt(row, layout.day) + " " + cellAt(row, layout.timeOfDay)
		if ts, err := parseTimestamp(combined); err == nil {
			return ts, true
		}
		return time.Time{}, false
	}
	ts, err := parseTimestamp(cellAt(row, layout.timestamp))
	return ts, err == nil
}

// findExactColumn returns the index of the first header cell equal to any
// of the given names, or -1.
func findExactColumn(header []string, names ...string) int {
	for _, name := range names {
		for i, col := range header {
			if col == name {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// macroAt parses a numeric cell, defaulting to zero for absent columns and
// blank or malformed values. Meals logged without macro detail still count.
func macroAt(row []string, idx int) float64 {
	v, err := strconv.ParseFloat(cellAt(row, idx), 64)
	if err != nil {
		return 0
	}
	return v
}
