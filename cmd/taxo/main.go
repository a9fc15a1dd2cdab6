package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pluqqy/taxo-terminal/cmd/commands"
	"github.com/pluqqy/taxo-terminal/internal/cli"
	"github.com/pluqqy/taxo-terminal/pkg/files"
	"github.com/pluqqy/taxo-terminal/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "taxo",
	Short: "Terminal tools for campaign taxonomy strings",
	Long: `Taxo parses pipe-delimited campaign taxonomy strings and caret-delimited
targeting patterns held in a workbook. Extract segments or activation IDs
over a range, trim or keep targeting patterns, and undo the last ten batch
changes. Run without a subcommand to open the interactive workbook view.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		noColor, _ := cmd.Flags().GetBool("no-color")
		yes, _ := cmd.Flags().GetBool("yes")
		verbose, _ := cmd.Flags().GetBool("verbose")
		cli.SetGlobalFlags(quiet, noColor, yes, verbose)

		workbookPath, _ := cmd.Flags().GetString("workbook")
		locale, _ := cmd.Flags().GetString("locale")
		cli.SetSettingsOverrides(workbookPath, locale)

		output, _ := cmd.Flags().GetString("output")
		return cli.ValidateOutputFormat(output)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmdCtx, err := cli.NewCommandContext()
		if err != nil {
			return err
		}
		if err := cmdCtx.ValidateProject(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: No .taxo directory found in the current directory.\n")
			fmt.Fprintf(os.Stderr, "Please run 'taxo init' first to initialize a new project.\n")
			os.Exit(1)
		}
		if err := cmdCtx.InitLogger(); err != nil {
			return err
		}

		ctx := cmd.Context()
		session, err := cmdCtx.OpenSession(ctx)
		if err != nil {
			return err
		}
		defer session.Close()

		watcher, err := files.NewWatcher(files.LocalesPath(), session.Logger)
		if err == nil {
			err = watcher.Start(ctx)
		}
		if err != nil {
			session.Logger.Warn("Locale watcher disabled", zap.Error(err))
			watcher = nil
		} else {
			defer watcher.Stop()
		}

		app := tui.NewApp(tui.Config{
			Workbook:  session.Workbook,
			Processor: session.Processor,
			Catalog:   session.Catalog,
			Watcher:   watcher,
			Settings:  cmdCtx.Settings,
			Logger:    session.Logger,
		})
		defer app.Close()

		p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to start the terminal user interface: %v\n", err)
			fmt.Fprintf(os.Stderr, "This could be due to terminal compatibility issues. Try running in a different terminal.\n")
			os.Exit(1)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new taxo project",
	Long:  `Creates the .taxo folder structure with default settings in the current directory`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to determine current directory: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Initializing taxo project in %s...\n", cwd)

		if err := files.InitProjectStructure(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to initialize project structure: %v\n", err)
			fmt.Fprintf(os.Stderr, "Make sure you have write permissions in the current directory.\n")
			os.Exit(1)
		}

		fmt.Println("✓ Created .taxo folder structure")
		fmt.Println("✓ Import a CSV with 'taxo import' or install samples with 'taxo examples'")
		fmt.Println("\nRun 'taxo' to start the interactive workbook view.")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of taxo",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taxo version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug details")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().String("workbook", "", "Workbook file (overrides workbook.path; :memory: for a scratch workbook)")
	rootCmd.PersistentFlags().String("locale", "", "Message locale (overrides ui.locale)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewShowCommand())
	rootCmd.AddCommand(commands.NewExtractCommand())
	rootCmd.AddCommand(commands.NewTargetingCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewExamplesCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
