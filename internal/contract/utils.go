package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	ErrorColor   = color.New(color.FgRed, color.Bold) // failures
	WarnColor    = color.New(color.FgYellow)          // skipped documents
	SuccessColor = color.New(color.FgGreen)           // finished notices
	InfoColor    = color.New(color.FgCyan)            // informational / low-priority signal
)

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the metadata cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tomato_cache.db"
	}
	return filepath.Join(homeDir, ".tomato_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for report history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tomato_history.db"
	}
	return filepath.Join(homeDir, ".tomato_history.db")
}

// NormalizeDocumentPath normalizes a user-provided path relative to the vault root
// and ensures it stays within the vault. The result uses forward slashes.
func NormalizeDocumentPath(vaultPath, userPath string) (string, error) {
	if strings.TrimSpace(userPath) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	// Handle absolute paths by making them relative to the vault
	if filepath.IsAbs(userPath) {
		relPath, err := filepath.Rel(vaultPath, userPath)
		if err != nil {
			return "", fmt.Errorf("path is outside vault: %s", userPath)
		}
		userPath = relPath
	}

	cleanPath := filepath.Clean(userPath)
	if cleanPath == "." || cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside vault: %s", userPath)
	}

	normalized := strings.ReplaceAll(cleanPath, string(filepath.Separator), "/")
	return strings.TrimPrefix(normalized, "./"), nil
}

// TruncatePath truncates a document path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for the prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
