//go:build basic || database || integration

package integration

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

var (
	// sharedGlucodipPath holds the path to a shared glucodip binary built once for all tests.
	sharedGlucodipPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getGlucodipBinary returns the path to the glucodip binary, building it once if needed.
func getGlucodipBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "glucodip-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		glucodipPath := filepath.Join(tempDir, "glucodip")
		buildCmd := exec.Command("go", "build", "-o", glucodipPath, "./cmd/glucodip")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build glucodip: %v", err))
		}

		sharedGlucodipPath = glucodipPath
	})

	return sharedGlucodipPath
}

// writeTestDataset writes a deterministic glucose export and a matching food
// export into dir, covering the given number of recent days. Each day has a
// breakfast, lunch and dinner entry; the lunch spike decays fast enough to
// produce at least one crash per day with default settings.
func writeTestDataset(t *testing.T, dir string, days int) {
	t.Helper()

	if err := writeGlucoseFixture(filepath.Join(dir, "test_glucose_export.csv"), days); err != nil {
		t.Fatalf("failed to write glucose fixture: %v", err)
	}
	if err := writeFoodFixture(filepath.Join(dir, "test_servings.csv"), days); err != nil {
		t.Fatalf("failed to write food fixture: %v", err)
	}
}

func writeGlucoseFixture(path string, days int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Device Timestamp", "Historic Glucose mg/dL"}); err != nil {
		return err
	}

	base := fixtureBase(days)
	for day := range days {
		dayStart := base.AddDate(0, 0, day)
		// 288 samples per day at five minute cadence
		for i := range 288 {
			ts := dayStart.Add(time.Duration(i) * 5 * time.Minute)
			minutes := float64(i * 5)

			glucose := 95.0
			glucose += 45 * fixtureBump(minutes, 8*60, 90)
			glucose += 70 * fixtureBump(minutes, 13*60, 55)
			glucose += 35 * fixtureBump(minutes, 19*60, 100)

			row := []string{ts.Format("2006-01-02 15:04"), fmt.Sprintf("%.0f", glucose)}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	return writer.Error()
}

func writeFoodFixture(path string, days int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Day", "Time", "Group", "Food Name", "Energy (kcal)", "Protein (g)", "Carbs (g)", "Fat (g)", "Fiber (g)", "Sugars (g)"}
	if err := writer.Write(header); err != nil {
		return err
	}

	meals := []struct {
		clock, group, food string
		kcal, carbs        float64
	}{
		{"08:00", "Breakfast", "Oatmeal with banana", 420, 72},
		{"13:00", "Lunch", "White rice with chicken", 680, 95},
		{"19:00", "Dinner", "Salmon with vegetables", 540, 28},
	}

	base := fixtureBase(days)
	for day := range days {
		dayStr := base.AddDate(0, 0, day).Format("2006-01-02")
		for _, m := range meals {
			row := []string{
				dayStr, m.clock, m.group, m.food,
				fmt.Sprintf("%.0f", m.kcal), "20", fmt.Sprintf("%.0f", m.carbs), "15", "5", "10",
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	return writer.Error()
}

// fixtureBase anchors the dataset so the most recent day ends yesterday,
// keeping all samples inside the default lookback window.
func fixtureBase(days int) time.Time {
	return time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)
}

// fixtureBump is a skewed pulse: rises over ~40 minutes, decays over the
// given tail. Zero outside the response region.
func fixtureBump(minutes, mealStart, tail float64) float64 {
	offset := minutes - mealStart
	if offset < 0 || offset > 40+3*tail {
		return 0
	}
	if offset <= 40 {
		return offset / 40
	}
	return math.Exp(-(offset - 40) / tail)
}
