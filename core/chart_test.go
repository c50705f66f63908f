package core

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/glucodip/internal/chart"
	"github.com/mlevkov/glucodip/schema"
)

func TestExecuteChart(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	cfg, mockMgr := executeScenario(t)
	cfg.Day = "2024-03-01"
	cfg.ChartFile = filepath.Join(t.TempDir(), "day.png")

	require.NoError(t, ExecuteChart(ctx, cfg, mockMgr))

	data, err := os.ReadFile(cfg.ChartFile)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, chart.DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, chart.DefaultHeight, img.Bounds().Dy())
}

func TestExecuteChartRequiresDay(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	cfg, mockMgr := executeScenario(t)

	err := ExecuteChart(ctx, cfg, mockMgr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--day is required")
}

// A day outside the loaded data has nothing to draw.
func TestExecuteChartEmptyDay(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	cfg, mockMgr := executeScenario(t)
	cfg.Day = "2024-03-05"
	cfg.ChartFile = filepath.Join(t.TempDir(), "day.png")

	err := ExecuteChart(ctx, cfg, mockMgr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no glucose readings on 2024-03-05")
}

func TestDayOf(t *testing.T) {
	dayStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	readings := ComputeVelocity([]schema.GlucoseReading{
		{Timestamp: dayStart.Add(-time.Minute), GlucoseMgDl: 90},
		{Timestamp: dayStart, GlucoseMgDl: 95},
		{Timestamp: dayStart.Add(23*time.Hour + 59*time.Minute), GlucoseMgDl: 100},
		{Timestamp: dayStart.AddDate(0, 0, 1), GlucoseMgDl: 105},
	}, 15, 2.0)

	day := dayOf(readings, dayStart)

	require.Len(t, day, 2)
	assert.Equal(t, 95.0, day[0].GlucoseMgDl)
	assert.Equal(t, 100.0, day[1].GlucoseMgDl)
}

// The chart honors day filters applied by the meal pipeline without them
// hiding the glucose series itself.
func TestExecuteChartWithGroupFilter(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	cfg, mockMgr := executeScenario(t)
	cfg.Day = "2024-03-01"
	cfg.GroupFilter = "Dinner"
	cfg.ChartFile = filepath.Join(t.TempDir(), "day.png")

	require.NoError(t, ExecuteChart(ctx, cfg, mockMgr), "No meal markers is not an error")

	_, err := os.Stat(cfg.ChartFile)
	require.NoError(t, err)
}
