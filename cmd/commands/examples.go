package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/internal/cli"
	"github.com/pluqqy/taxo-terminal/pkg/examples"
)

func NewExamplesCommand() *cobra.Command {
	var category string
	var listOnly bool
	var force bool

	cmd := &cobra.Command{
		Use:   "examples [category]",
		Short: "Add example sheets and recipes to your project",
		Long: `Add sample workbook sheets and recipes to your .taxo directory.

Categories:
  campaigns    - Campaign taxonomy strings with activation ids (default)
  targeting    - Audience names carrying ^CODE^ targeting patterns
  all          - Install all example categories

Sheets are imported into the workbook. Recipes are written to
.taxo/recipes with an 'example-' prefix.`,
		Example: `  # Add campaign examples
  taxo examples

  # List available examples without installing
  taxo examples --list

  # Re-import every example sheet
  taxo examples all --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				category = args[0]
			} else if category == "" {
				if listOnly {
					category = "all"
				} else {
					category = "campaigns"
				}
			}

			validCategories := examples.Categories()
			if !cli.Contains(validCategories, category) {
				return fmt.Errorf("invalid category '%s'. Valid categories: %s",
					category, strings.Join(validCategories, ", "))
			}

			if listOnly {
				return listExamples(cmd, category)
			}

			return installExamples(cmd, category, force)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category of examples to add")
	cmd.Flags().BoolVarP(&listOnly, "list", "l", false, "List available examples without installing")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing example sheets and recipes")

	return cmd
}

func listExamples(cmd *cobra.Command, category string) error {
	out := cmd.OutOrStdout()

	if category == "all" {
		fmt.Fprintf(out, "Available examples (all categories):\n\n")
	} else {
		fmt.Fprintf(out, "Available examples in category '%s':\n\n", category)
	}

	for _, set := range examples.GetExamples(category) {
		if category == "all" {
			fmt.Fprintf(out, "📦 [%s] %s\n", set.Category, set.Name)
		} else {
			fmt.Fprintf(out, "📦 %s\n", set.Name)
		}
		fmt.Fprintf(out, "   %s\n\n", set.Description)

		if len(set.Sheets) > 0 {
			fmt.Fprintf(out, "   Sheets:\n")
			for _, sheet := range set.Sheets {
				fmt.Fprintf(out, "   • %s - %s\n", sheet.Name, sheet.Description)
			}
			fmt.Fprintln(out)
		}

		if len(set.Recipes) > 0 {
			fmt.Fprintf(out, "   Recipes:\n")
			for _, r := range set.Recipes {
				fmt.Fprintf(out, "   • %s (%s)\n", r.Name, r.Filename)
			}
			fmt.Fprintln(out)
		}
	}

	if category == "all" {
		fmt.Fprintf(out, "To install all examples, run: taxo examples all\n")
	} else {
		fmt.Fprintf(out, "To install these examples, run: taxo examples %s\n", category)
	}

	return nil
}

func installExamples(cmd *cobra.Command, category string, force bool) error {
	out := cmd.OutOrStdout()

	session, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer session.Close()
	ctx := commandContext(cmd)

	fmt.Fprintf(out, "Installing %s examples...\n\n", category)

	totalSheets := 0
	totalRecipes := 0
	skipped := 0

	for _, set := range examples.GetExamples(category) {
		fmt.Fprintf(out, "📦 Installing %s...\n", set.Name)

		for _, sheet := range set.Sheets {
			installed, err := examples.InstallSheet(ctx, session.Workbook, sheet, force)
			if err != nil {
				if !force && strings.Contains(err.Error(), "already exists") {
					skipped++
					fmt.Fprintf(out, "   ⚠️  Skipped sheet %s (already exists, use --force to overwrite)\n", sheet.Name)
					continue
				}
				return fmt.Errorf("failed to install sheet %s: %w", sheet.Name, err)
			}
			if installed {
				totalSheets++
				fmt.Fprintf(out, "   ✓ Imported sheet %s\n", sheet.Name)
			}
		}

		for _, r := range set.Recipes {
			installed, err := examples.InstallRecipe(r, force)
			if err != nil {
				if !force && strings.Contains(err.Error(), "already exists") {
					skipped++
					fmt.Fprintf(out, "   ⚠️  Skipped recipe %s (already exists, use --force to overwrite)\n", r.Filename)
					continue
				}
				return fmt.Errorf("failed to install recipe %s: %w", r.Name, err)
			}
			if installed {
				totalRecipes++
				fmt.Fprintf(out, "   ✓ Installed recipe %s\n", r.Filename)
			}
		}

		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "✨ Installation complete!\n\n")
	fmt.Fprintf(out, "Installed:\n")
	fmt.Fprintf(out, "  • %d sheets\n", totalSheets)
	fmt.Fprintf(out, "  • %d recipes\n", totalRecipes)
	if skipped > 0 {
		fmt.Fprintf(out, "  • %d items skipped (already exist)\n", skipped)
	}

	fmt.Fprintf(out, "\n💡 Tips:\n")
	fmt.Fprintf(out, "  • Run 'taxo' and press g to jump to a sheet\n")
	fmt.Fprintf(out, "  • Run 'taxo run <recipe>' to replay a recipe\n")

	return nil
}
