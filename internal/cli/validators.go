package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{"text", "json", "yaml"}
	if Contains(validFormats, format) {
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateRange validates an A1 range argument
func ValidateRange(ref string) error {
	if ref == "" {
		return nil
	}
	if _, err := host.ParseRange(ref); err != nil {
		return fmt.Errorf("invalid range %q: %w", ref, err)
	}
	return nil
}

// ValidateSegment validates a 1-based segment number
func ValidateSegment(n int) error {
	if n < 1 || n > models.SegmentCount {
		return fmt.Errorf("segment must be between 1 and %d, got %d", models.SegmentCount, n)
	}
	return nil
}

// ValidateSheetName validates a sheet name for import
func ValidateSheetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("sheet name cannot be empty")
	}

	invalidChars := []string{"[", "]", "*", "?", "/", "\\", ":"}
	for _, char := range invalidChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("sheet name contains invalid character: %s", char)
		}
	}

	return nil
}

// Contains checks if a string is in a slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
