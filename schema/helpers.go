package schema

import (
	"strconv"
	"strings"
	"time"
)

// DayLayout is the canonical day format used for grouping keys and display.
const DayLayout = "2006-01-02"

// DayOf formats a timestamp as its canonical day string.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// MealKey builds the stable identity of a meal from its day and group, e.g.
// "2024-01-15_Breakfast". Assessments and lookups key on this value, so the
// format must never change between releases.
func MealKey(day, group string) string {
	return day + "_" + group
}

// Key returns the meal's stable identity.
func (m *Meal) Key() string {
	return MealKey(m.Day, m.Group)
}

// FormatFoods joins up to max food names for compact table cells, appending
// a "+N more" suffix when the list is longer.
func FormatFoods(foods []string, max int) string {
	if len(foods) == 0 {
		return "-"
	}
	if max <= 0 || len(foods) <= max {
		return strings.Join(foods, ", ")
	}
	shown := strings.Join(foods[:max], ", ")
	return shown + " (+" + strconv.Itoa(len(foods)-max) + " more)"
}
