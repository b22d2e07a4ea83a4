package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	cachePath := GetCacheDBFilePath()
	assert.Contains(t, cachePath, ".tomato_cache.db")
	assert.True(t, strings.HasPrefix(cachePath, homeDir), "path %s should start with home dir %s", cachePath, homeDir)

	historyPath := GetHistoryDBFilePath()
	assert.Contains(t, historyPath, ".tomato_history.db")
	assert.NotEqual(t, cachePath, historyPath)
}

func TestNormalizeDocumentPath(t *testing.T) {
	vaultPath := "/home/user/vault"

	tests := []struct {
		name        string
		userPath    string
		expected    string
		expectError bool
	}{
		{
			name:     "relative path",
			userPath: "reports/time.csv",
			expected: "reports/time.csv",
		},
		{
			name:     "relative path with dot",
			userPath: "./time_statistics_report.csv",
			expected: "time_statistics_report.csv",
		},
		{
			name:     "absolute path within vault",
			userPath: "/home/user/vault/reports/time.csv",
			expected: "reports/time.csv",
		},
		{
			name:     "path with parent directory",
			userPath: "a/../b/time.csv",
			expected: "b/time.csv",
		},
		{
			name:        "absolute path outside vault",
			userPath:    "/tmp/time.csv",
			expectError: true,
		},
		{
			name:        "path going outside vault",
			userPath:    "../../outside.csv",
			expectError: true,
		},
		{
			name:        "empty path",
			userPath:    "",
			expectError: true,
		},
		{
			name:        "vault root",
			userPath:    ".",
			expectError: true,
		},
		{
			name:     "dotdot prefixed file name",
			userPath: "..report.csv",
			expected: "..report.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeDocumentPath(vaultPath, tt.userPath)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "notes/a.md", TruncatePath("notes/a.md", 20))
	assert.Equal(t, "...ts/a.md", TruncatePath("projects/a.md", 10))
	assert.Equal(t, "projects/a.md", TruncatePath("projects/a.md", 3))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"YES", true, false},
		{"true", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
