package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlevkov/glucodip/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRiskColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		level schema.RiskLevel
	}{
		{"crash", schema.CrashLevel},
		{"fast drop", schema.FastDropLevel},
		{"spike", schema.SpikeLevel},
		{"good", schema.GoodLevel},
		{"partial", schema.PartialLevel},
		{"awaiting", schema.AwaitingLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetRiskColorLabel(tt.level)
			// Should contain the plain label
			assert.Contains(t, result, string(tt.level))
		})
	}
}

func TestGetCrashColorLabel(t *testing.T) {
	tests := []struct {
		name     string
		velocity float64
		label    string
	}{
		{"severe", -3.5, schema.SevereLabel},
		{"high", -2.7, schema.HighLabel},
		{"moderate", -2.2, schema.ModerateLabel},
		{"mild", -1.0, schema.MildLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetCrashColorLabel(tt.velocity)
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetStoreDBFilePath(t *testing.T) {
	path := GetStoreDBFilePath()

	// Should not be empty
	assert.NotEmpty(t, path)

	// Should contain the database name
	assert.Contains(t, path, ".glucodip.db")

	// Should be in home directory
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		expected string
	}{
		{
			name:     "short text unchanged",
			text:     "eggs, toast",
			maxWidth: 20,
			expected: "eggs, toast",
		},
		{
			name:     "exactly at width",
			text:     "eggs",
			maxWidth: 4,
			expected: "eggs",
		},
		{
			name:     "long text keeps head",
			text:     "scrambled eggs with cheese and spinach",
			maxWidth: 20,
			expected: "scrambled eggs wi...",
		},
		{
			name:     "tiny width does not truncate",
			text:     "eggs and toast",
			maxWidth: 3,
			expected: "eggs and toast",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.text, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", "yes", true, false},
		{"no", "no", false, false},
		{"true", "true", true, false},
		{"false", "false", false, false},
		{"one", "1", true, false},
		{"zero", "0", false, false},
		{"mixed case", "YeS", true, false},
		{"invalid word", "maybe", false, true},
		{"empty", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err, "Expected an error for input %q", tt.input)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}
