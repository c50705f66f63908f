package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/mlevkov/glucodip/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cronometerSample = `Day,Time,Group,Food Name,Amount,Energy (kcal),Protein (g),Carbs (g),Fat (g),Fiber (g),Sugars (g)
2024-01-15,12:40:00,Lunch,Grilled chicken,150 g,240,45,0,6,0,0
2024-01-15,12:30:00,Lunch,White rice,1 cup,205,4.2,44.5,0.4,0.6,0.1
2024-01-15,08:00:00,,Black coffee,1 cup,2,0.3,0,0,0,0
2024-01-16,19:15:00,Dinner,Pasta,2 cups,440,16,88,2.6,5,3
`

func TestParseCronometerCSV(t *testing.T) {
	entries, err := ParseCronometerCSV(strings.NewReader(cronometerSample))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	t.Run("sorted by timestamp", func(t *testing.T) {
		assert.Equal(t, "Black coffee", entries[0].FoodName)
		assert.Equal(t, "White rice", entries[1].FoodName)
		assert.Equal(t, "Grilled chicken", entries[2].FoodName)
		assert.Equal(t, "Pasta", entries[3].FoodName)
	})

	t.Run("macros mapped", func(t *testing.T) {
		rice := entries[1]
		assert.Equal(t, time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC), rice.Timestamp)
		assert.Equal(t, "2024-01-15", rice.Day)
		assert.Equal(t, "Lunch", rice.Group)
		assert.InDelta(t, 205.0, rice.Calories, 1e-9)
		assert.InDelta(t, 4.2, rice.ProteinG, 1e-9)
		assert.InDelta(t, 44.5, rice.CarbsG, 1e-9)
		assert.InDelta(t, 0.4, rice.FatG, 1e-9)
		assert.InDelta(t, 0.6, rice.FiberG, 1e-9)
		assert.InDelta(t, 0.1, rice.SugarG, 1e-9)
	})

	t.Run("blank group gets the default", func(t *testing.T) {
		assert.Equal(t, schema.DefaultMealGroup, entries[0].Group)
	})
}

func TestParseCronometerCSVHeaderVariants(t *testing.T) {
	t.Run("plain calorie and macro names", func(t *testing.T) {
		content := `Date,Time,Food,Calories,Protein,Carbohydrates,Fat
2024-01-15,09:00:00,Oatmeal,150,5,27,3
`
		entries, err := ParseCronometerCSV(strings.NewReader(content))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Oatmeal", entries[0].FoodName)
		assert.InDelta(t, 150.0, entries[0].Calories, 1e-9)
		assert.InDelta(t, 27.0, entries[0].CarbsG, 1e-9)
		assert.Zero(t, entries[0].FiberG, "Absent macro columns default to zero")
	})

	t.Run("single timestamp column", func(t *testing.T) {
		content := `Timestamp,Name,Calories
2024-01-15 09:00:00,Toast,120
`
		entries, err := ParseCronometerCSV(strings.NewReader(content))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "2024-01-15", entries[0].Day)
	})
}

func TestParseCronometerCSVErrors(t *testing.T) {
	t.Run("no date columns", func(t *testing.T) {
		_, err := ParseCronometerCSV(strings.NewReader("Food,Calories\nRice,205\n"))
		assert.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseCronometerCSV(strings.NewReader(""))
		assert.Error(t, err)
	})

	t.Run("unparseable date rows are skipped", func(t *testing.T) {
		content := `Day,Time,Food Name,Calories
2024-01-15,12:00:00,Rice,205
yesterday,noonish,Mystery,100
`
		entries, err := ParseCronometerCSV(strings.NewReader(content))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestParseCronometerCSVBlankMacros(t *testing.T) {
	content := `Day,Time,Food Name,Energy (kcal),Protein (g),Carbs (g)
2024-01-15,12:00:00,Unlabeled snack,,,
`
	entries, err := ParseCronometerCSV(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Zero(t, entries[0].Calories)
	assert.Zero(t, entries[0].ProteinG)
	assert.Zero(t, entries[0].CarbsG)
}
