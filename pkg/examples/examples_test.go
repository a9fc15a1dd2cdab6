package examples

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/taxo-terminal/pkg/files"
	"github.com/pluqqy/taxo-terminal/pkg/recipe"
	"github.com/pluqqy/taxo-terminal/pkg/workbook"
)

func TestGetExamples(t *testing.T) {
	assert.Len(t, GetExamples("campaigns"), 1)
	assert.Len(t, GetExamples("targeting"), 1)
	assert.Empty(t, GetExamples("unknown"))

	all := GetExamples("all")
	require.Len(t, all, 2)
	assert.Equal(t, "campaigns", all[0].Category)
	assert.Equal(t, "targeting", all[1].Category)
}

func TestExampleRecipesParse(t *testing.T) {
	for _, set := range GetExamples("all") {
		for _, r := range set.Recipes {
			t.Run(r.Filename, func(t *testing.T) {
				_, err := recipe.Parse([]byte(r.Content))
				assert.NoError(t, err)
			})
		}
	}
}

func TestInstall(t *testing.T) {
	tempDir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	defer os.Chdir(oldWd)
	require.NoError(t, files.InitProjectStructure())

	ctx := context.Background()
	wb, err := workbook.Open(ctx, filepath.Join(tempDir, "book.db"))
	require.NoError(t, err)
	defer wb.Close()

	set := GetExamples("campaigns")[0]
	sheet := set.Sheets[0]

	installed, err := InstallSheet(ctx, wb, sheet, false)
	require.NoError(t, err)
	assert.True(t, installed)

	rows, cols, err := wb.Bounds(ctx, sheet.Name)
	require.NoError(t, err)
	assert.Equal(t, 5, rows)
	assert.Equal(t, 3, cols)

	_, err = InstallSheet(ctx, wb, sheet, false)
	assert.ErrorContains(t, err, "already exists")

	installed, err = InstallSheet(ctx, wb, sheet, true)
	require.NoError(t, err)
	assert.True(t, installed)

	rec := set.Recipes[0]
	installed, err = InstallRecipe(rec, false)
	require.NoError(t, err)
	assert.True(t, installed)

	recipes, err := files.ListRecipes()
	require.NoError(t, err)
	assert.Equal(t, []string{rec.Filename}, recipes)

	_, err = InstallRecipe(rec, false)
	assert.ErrorContains(t, err, "already exists")
}
