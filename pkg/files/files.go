package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

const (
	TaxoDir      = ".taxo"
	LogsDir      = "logs"
	LocalesDir   = "locales"
	RecipesDir   = "recipes"
	SettingsFile = "settings.yaml"
)

func InitProjectStructure() error {
	dirs := []string{
		TaxoDir,
		filepath.Join(TaxoDir, LogsDir),
		filepath.Join(TaxoDir, LocalesDir),
		filepath.Join(TaxoDir, RecipesDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(SettingsPath()); os.IsNotExist(err) {
		if err := WriteSettings(models.DefaultSettings()); err != nil {
			return err
		}
	}

	return nil
}

// ProjectExists reports whether the current directory holds a .taxo project
func ProjectExists() bool {
	info, err := os.Stat(TaxoDir)
	return err == nil && info.IsDir()
}

func SettingsPath() string {
	return filepath.Join(TaxoDir, SettingsFile)
}

// ReadSettings loads .taxo/settings.yaml. A missing file yields the defaults.
func ReadSettings() (*models.Settings, error) {
	content, err := os.ReadFile(SettingsPath())
	if os.IsNotExist(err) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var settings models.Settings
	if err := yaml.Unmarshal(content, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	settings.ApplyDefaults()

	return &settings, nil
}

// WriteSettings saves settings atomically through a temp file and rename
func WriteSettings(settings *models.Settings) error {
	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	return writeAtomic(SettingsPath(), content)
}

// ResolvePath anchors a path from settings inside the project directory
func ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || path == ":memory:" {
		return path
	}
	return filepath.Join(TaxoDir, path)
}

// WorkbookPath returns the workbook database location from settings
func WorkbookPath(settings *models.Settings) string {
	return ResolvePath(settings.Workbook.Path)
}

// LocalesPath returns the directory holding locale overrides
func LocalesPath() string {
	return filepath.Join(TaxoDir, LocalesDir)
}

// ListRecipes returns recipe file names under .taxo/recipes
func ListRecipes() ([]string, error) {
	dir := filepath.Join(TaxoDir, RecipesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read recipes directory: %w", err)
	}

	var recipes []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && (strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			recipes = append(recipes, name)
		}
	}
	sort.Strings(recipes)

	return recipes, nil
}

// RecipePath resolves a recipe argument: an existing path wins, otherwise
// the name is looked up under .taxo/recipes.
func RecipePath(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(TaxoDir, RecipesDir, name)
}

// WriteFile writes content to path, creating parent directories
func WriteFile(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}

func writeAtomic(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	return nil
}
