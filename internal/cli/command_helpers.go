package cli

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pluqqy/taxo-terminal/pkg/files"
	"github.com/pluqqy/taxo-terminal/pkg/i18n"
	"github.com/pluqqy/taxo-terminal/pkg/logging"
	"github.com/pluqqy/taxo-terminal/pkg/models"
	"github.com/pluqqy/taxo-terminal/pkg/mutators"
	"github.com/pluqqy/taxo-terminal/pkg/state"
	"github.com/pluqqy/taxo-terminal/pkg/undo"
	"github.com/pluqqy/taxo-terminal/pkg/validation"
	"github.com/pluqqy/taxo-terminal/pkg/workbook"
)

// CommandContext manages project validation and common command context
type CommandContext struct {
	ProjectPath string
	Settings    *models.Settings
	Logger      *zap.Logger
	validated   bool
}

// NewCommandContext creates a new command context
func NewCommandContext() (*CommandContext, error) {
	return &CommandContext{
		ProjectPath: files.TaxoDir,
		Logger:      zap.NewNop(),
	}, nil
}

// ValidateProject ensures the project is initialized
func (c *CommandContext) ValidateProject() error {
	if c.validated {
		return nil
	}

	if _, err := os.Stat(c.ProjectPath); os.IsNotExist(err) {
		return fmt.Errorf("no .taxo directory found. Run 'taxo init' first")
	}

	c.validated = true
	return nil
}

// LoadSettingsWithDefault loads settings or returns default if error
func (c *CommandContext) LoadSettingsWithDefault() *models.Settings {
	if c.Settings != nil {
		return c.Settings
	}

	settings, err := files.ReadSettings()
	if err != nil {
		c.Logger.Warn("Using default settings", zap.Error(err))
		settings = models.DefaultSettings()
	}
	if workbookOverride != "" {
		settings.Workbook.Path = workbookOverride
	}
	if localeOverride != "" {
		settings.UI.Locale = localeOverride
	}

	c.Settings = settings
	return settings
}

// InitLogger replaces the no-op logger with the project file logger
func (c *CommandContext) InitLogger() error {
	settings := c.LoadSettingsWithDefault()
	logger, err := logging.New(settings.Logging, c.ProjectPath, verbose)
	if err != nil {
		return err
	}
	c.Logger = logger
	return nil
}

// Session is an open workbook with the state store, undo engine and
// processor bound to it.
type Session struct {
	Workbook  *workbook.Store
	Store     *state.Store
	Undo      *undo.Engine
	Processor *mutators.Processor
	Catalog   *i18n.Catalog
	Logger    *zap.Logger
	unbind    func()
}

// OpenSession opens the configured workbook and binds a processor to it
func (c *CommandContext) OpenSession(ctx context.Context) (*Session, error) {
	if err := c.ValidateProject(); err != nil {
		return nil, err
	}
	settings := c.LoadSettingsWithDefault()
	logger := c.Logger

	wb, err := workbook.Open(ctx, files.WorkbookPath(settings),
		workbook.WithLogger(logger),
		workbook.WithDefaultSheet(settings.Workbook.DefaultSheet))
	if err != nil {
		return nil, err
	}

	catalog, err := i18n.New(settings.UI.Locale,
		i18n.WithOverrideDir(files.LocalesPath()),
		i18n.WithLogger(logger))
	if err != nil {
		wb.Close()
		return nil, err
	}

	store := state.NewStore(
		state.WithLogger(logger),
		state.WithUndoCapacity(settings.Undo.MaxOperations))
	engine := undo.New(store, wb, undo.WithLogger(logger))
	proc := mutators.NewProcessor(wb, store, engine, catalog,
		mutators.WithRules(validation.RulesFromSettings(settings.Validation)),
		mutators.WithLogger(logger))

	s := &Session{
		Workbook:  wb,
		Store:     store,
		Undo:      engine,
		Processor: proc,
		Catalog:   catalog,
		Logger:    logger,
	}
	s.unbind = proc.Bind(ctx, wb)
	return s, nil
}

// Select moves the selection when ref is set
func (s *Session) Select(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return s.Workbook.Select(ctx, ref)
}

// Close unbinds the processor and closes the workbook
func (s *Session) Close() error {
	if s.unbind != nil {
		s.unbind()
	}
	_ = s.Logger.Sync()
	return s.Workbook.Close()
}
