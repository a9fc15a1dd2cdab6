package examples

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pluqqy/taxo-terminal/pkg/files"
)

// ExampleSet represents a collection of related examples
type ExampleSet struct {
	Category    string
	Name        string
	Description string
	Sheets      []ExampleSheet
	Recipes     []ExampleRecipe
}

// ExampleSheet is sample workbook data imported as CSV
type ExampleSheet struct {
	Name        string
	Description string
	CSV         string
}

// ExampleRecipe is a recipe file written to .taxo/recipes
type ExampleRecipe struct {
	Name     string
	Filename string
	Content  string
}

// SheetImporter is the part of the workbook the installer needs
type SheetImporter interface {
	Bounds(ctx context.Context, sheet string) (rows, cols int, err error)
	ImportCSV(ctx context.Context, r io.Reader, sheet string) (int, error)
}

// Categories lists the valid category arguments
func Categories() []string {
	return []string{"campaigns", "targeting", "all"}
}

// GetExamples returns example sets for the given category
func GetExamples(category string) []ExampleSet {
	switch category {
	case "campaigns":
		return withCategory(getCampaignExamples(), "campaigns")
	case "targeting":
		return withCategory(getTargetingExamples(), "targeting")
	case "all":
		var all []ExampleSet
		all = append(all, withCategory(getCampaignExamples(), "campaigns")...)
		all = append(all, withCategory(getTargetingExamples(), "targeting")...)
		return all
	default:
		return []ExampleSet{}
	}
}

func withCategory(sets []ExampleSet, category string) []ExampleSet {
	for i := range sets {
		sets[i].Category = category
	}
	return sets
}

// InstallSheet imports an example sheet into the workbook. A sheet that
// already holds data is left alone unless force is set.
func InstallSheet(ctx context.Context, wb SheetImporter, sheet ExampleSheet, force bool) (bool, error) {
	if !force {
		rows, _, err := wb.Bounds(ctx, sheet.Name)
		if err == nil && rows > 0 {
			return false, fmt.Errorf("sheet already exists: %s", sheet.Name)
		}
	}

	if _, err := wb.ImportCSV(ctx, strings.NewReader(sheet.CSV), sheet.Name); err != nil {
		return false, err
	}

	return true, nil
}

// InstallRecipe writes a recipe example to the user's .taxo directory
func InstallRecipe(recipe ExampleRecipe, force bool) (bool, error) {
	path := filepath.Join(files.TaxoDir, files.RecipesDir, recipe.Filename)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, fmt.Errorf("recipe already exists at %s", recipe.Filename)
		}
	}

	if err := files.WriteFile(path, recipe.Content); err != nil {
		return false, err
	}

	return true, nil
}
