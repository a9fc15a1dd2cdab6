package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pluqqy/taxo-terminal/pkg/files"
	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/i18n"
	"github.com/pluqqy/taxo-terminal/pkg/models"
	"github.com/pluqqy/taxo-terminal/pkg/mutators"
	"github.com/pluqqy/taxo-terminal/pkg/state"
)

var clipboardWrite = clipboard.WriteAll

const helpText = "←↓↑→ move • shift extend • 1-9 segment • a activation • t/T targeting • u undo • y/c copy • g go to • p review • [ ] sheet • q quit"

// Config wires the app to an open session. Catalog and Watcher are optional.
type Config struct {
	Workbook  host.Workbook
	Processor *mutators.Processor
	Catalog   *i18n.Catalog
	Watcher   *files.Watcher
	Settings  *models.Settings
	Logger    *zap.Logger
}

// App is the interactive workbook view
type App struct {
	cfg    Config
	ctx    context.Context
	loc    i18n.Localizer
	logger *zap.Logger

	grid    *GridModel
	status  *StatusManager
	confirm *ConfirmationModel

	gotoInput  textinput.Model
	gotoActive bool

	diffView    viewport.Model
	diffActive  bool
	reviewFirst bool

	snapshot    models.AppState
	changes     chan state.Change
	done        chan struct{}
	unsubscribe func()

	width  int
	height int
}

// NewApp creates the app and subscribes it to the processor's store
func NewApp(cfg Config) *App {
	if cfg.Settings == nil {
		cfg.Settings = models.DefaultSettings()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	a := &App{
		cfg:      cfg,
		ctx:      context.Background(),
		loc:      cfg.Processor.Localizer(),
		logger:   cfg.Logger,
		status:   NewStatusManager(),
		confirm:  NewConfirmation(),
		diffView: viewport.New(0, 0),
		changes:  make(chan state.Change, 32),
		done:     make(chan struct{}),
	}

	a.gotoInput = textinput.New()
	a.gotoInput.Placeholder = "Sheet1!A1:A10"
	a.gotoInput.CharLimit = 64

	sheet := cfg.Settings.Workbook.DefaultSheet
	var start host.Range
	if sel, err := cfg.Workbook.GetSelection(a.ctx); err == nil {
		if r, err := host.ParseRange(sel.Address); err == nil {
			start = r
			if r.Sheet != "" {
				sheet = r.Sheet
			}
		}
	}
	a.grid = NewGridModel(cfg.Workbook, sheet, cfg.Settings.UI.ColumnWidth, cfg.Settings.UI.VisibleRows)
	a.grid.GoTo(start.WithSheet(sheet))
	if err := a.grid.Load(a.ctx); err != nil {
		a.logger.Error("Failed to load grid", zap.String("sheet", sheet), zap.Error(err))
	}

	a.unsubscribe = cfg.Processor.Store().Subscribe(func(change state.Change) {
		select {
		case a.changes <- change:
		default:
		}
	})
	a.snapshot = cfg.Processor.Store().GetState()
	return a
}

// Close detaches the app from the store and stops its background commands
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
		close(a.done)
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForStateChange(a.changes, a.done)}
	if a.cfg.Watcher != nil {
		cmds = append(cmds, waitForLocaleChange(a.cfg.Watcher.Changes(), a.done))
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, a.reloadGrid()

	case StateChangedMsg:
		a.snapshot = msg.Change.CurrentState
		var cmd tea.Cmd
		if msg.Change.Has(state.FieldUndoStack) {
			cmd = a.reloadGrid()
		}
		return a, tea.Batch(cmd, waitForStateChange(a.changes, a.done))

	case LocaleChangedMsg:
		var next tea.Cmd
		if a.cfg.Watcher != nil {
			next = waitForLocaleChange(a.cfg.Watcher.Changes(), a.done)
		}
		if a.cfg.Catalog == nil {
			return a, next
		}
		if err := a.cfg.Catalog.Reload(); err != nil {
			a.logger.Warn("Failed to reload locale", zap.String("path", msg.Path), zap.Error(err))
			return a, tea.Batch(a.status.ShowError(err.Error()), next)
		}
		return a, tea.Batch(a.status.ShowInfo(a.loc.GetString("status.locale_reloaded", nil)), next)

	case ClearStatusMsg:
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	if a.confirm.Active() {
		if a.diffActive {
			switch msg.String() {
			case "up", "down", "pgup", "pgdown", "k", "j":
				var cmd tea.Cmd
				a.diffView, cmd = a.diffView.Update(msg)
				return cmd
			}
		}
		return a.confirm.Update(msg)
	}

	if a.gotoActive {
		return a.handleGoto(msg)
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		return a.move(-1, 0, false)
	case "down", "j":
		return a.move(1, 0, false)
	case "left", "h":
		return a.move(0, -1, false)
	case "right", "l":
		return a.move(0, 1, false)
	case "shift+up", "K":
		return a.move(-1, 0, true)
	case "shift+down", "J":
		return a.move(1, 0, true)
	case "shift+left", "H":
		return a.move(0, -1, true)
	case "shift+right", "L":
		return a.move(0, 1, true)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return a.runOperation(mutators.ExtractSegment(int(msg.String()[0] - '0')))
	case "a":
		return a.runOperation(mutators.ExtractActivation())
	case "t":
		return a.runOperation(mutators.TrimTargeting())
	case "T":
		return a.runOperation(mutators.KeepTargeting())
	case "u", "ctrl+z":
		return a.confirmUndo()
	case "y":
		return a.copyOriginal()
	case "c":
		return a.copyExtract()
	case "g":
		a.gotoActive = true
		a.gotoInput.SetValue("")
		return a.gotoInput.Focus()
	case "p":
		a.reviewFirst = !a.reviewFirst
		if a.reviewFirst {
			a.status.SetSticky(StatusTypeInfo, a.loc.GetString("status.review_first", nil))
			return nil
		}
		a.status.ClearSticky()
		return nil
	case "[":
		return a.switchSheet(-1)
	case "]":
		return a.switchSheet(1)
	case "r":
		return a.reloadGrid()
	}
	return nil
}

func (a *App) handleGoto(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.gotoActive = false
		a.gotoInput.Blur()
		return nil
	case "enter":
		a.gotoActive = false
		a.gotoInput.Blur()
		r, err := host.ParseRange(a.gotoInput.Value())
		if err != nil {
			return a.status.ShowError(err.Error())
		}
		a.grid.GoTo(r.WithSheet(a.grid.Sheet()))
		return a.selectGrid()
	}
	var cmd tea.Cmd
	a.gotoInput, cmd = a.gotoInput.Update(msg)
	return cmd
}

func (a *App) move(dRow, dCol int, extend bool) tea.Cmd {
	a.grid.Move(dRow, dCol, extend)
	return a.selectGrid()
}

// selectGrid pushes the grid selection to the workbook. The processor's
// selection listener republishes the parsed record.
func (a *App) selectGrid() tea.Cmd {
	if err := a.cfg.Workbook.Select(a.ctx, a.grid.Selection().String()); err != nil {
		return a.status.ShowError(err.Error())
	}
	a.snapshot = a.cfg.Processor.Store().GetState()
	return a.reloadGrid()
}

func (a *App) reloadGrid() tea.Cmd {
	if err := a.grid.Load(a.ctx); err != nil {
		a.logger.Error("Failed to load grid", zap.String("sheet", a.grid.Sheet()), zap.Error(err))
		return a.status.ShowError(err.Error())
	}
	return nil
}

func (a *App) runOperation(op mutators.Operation) tea.Cmd {
	if !a.reviewFirst {
		return a.apply(op)
	}

	preview, err := a.cfg.Processor.Preview(a.ctx, op)
	if err != nil {
		return a.status.ShowError(err.Error())
	}
	if !preview.Allowed {
		return a.apply(op)
	}
	if len(preview.Changed()) == 0 {
		return a.status.ShowInfo(preview.Message)
	}

	a.diffActive = true
	a.diffView.SetContent(colorDiff(preview.Diff))
	a.diffView.GotoTop()
	a.confirm.ShowInline(preview.Message+". Apply?", false,
		func() tea.Cmd {
			a.diffActive = false
			return a.apply(op)
		},
		func() tea.Cmd {
			a.diffActive = false
			return nil
		},
	)
	return nil
}

func (a *App) apply(op mutators.Operation) tea.Cmd {
	res := a.cfg.Processor.Apply(a.ctx, op)
	a.snapshot = a.cfg.Processor.Store().GetState()
	return tea.Batch(a.reloadGrid(), a.status.ShowResult(res))
}

func (a *App) confirmUndo() tea.Cmd {
	top, ok := a.cfg.Processor.Store().PeekUndoOperation()
	if !ok {
		return a.undo()
	}
	a.confirm.Show(ConfirmationConfig{
		Title:   "Undo",
		Message: a.loc.GetString("undo.confirm", i18n.Params{"description": top.Description}),
		Details: []string{
			fmt.Sprintf("%d cell(s)", top.CellCount),
			top.Timestamp.Local().Format("15:04:05"),
		},
		Destructive: true,
		Type:        ConfirmTypeDialog,
		Width:       min(60, max(a.width-4, 20)),
	}, a.undo, nil)
	return nil
}

func (a *App) undo() tea.Cmd {
	res := a.cfg.Processor.Undo(a.ctx)
	a.snapshot = a.cfg.Processor.Store().GetState()
	return tea.Batch(a.reloadGrid(), a.status.ShowResult(res))
}

func (a *App) copyOriginal() tea.Cmd {
	record := a.snapshot.ParsedData
	if record == nil {
		return a.status.ShowWarning(a.loc.GetString("preview.empty", nil))
	}
	return a.copy(record.OriginalText)
}

func (a *App) copyExtract() tea.Cmd {
	record := a.snapshot.ParsedData
	if record == nil {
		return a.status.ShowWarning(a.loc.GetString("preview.empty", nil))
	}
	if record.HasTargetingPattern {
		return a.copy(record.TargetingText)
	}
	if record.ActivationID == "" {
		return a.status.ShowWarning("No activation ID in selection")
	}
	return a.copy(record.ActivationID)
}

func (a *App) copy(text string) tea.Cmd {
	if err := clipboardWrite(text); err != nil {
		return a.status.ShowError(fmt.Sprintf("Failed to copy: %v", err))
	}
	return a.status.ShowSuccess(a.loc.GetString("status.copied", nil))
}

func (a *App) switchSheet(step int) tea.Cmd {
	names, err := a.cfg.Workbook.SheetNames(a.ctx)
	if err != nil {
		return a.status.ShowError(err.Error())
	}
	if len(names) < 2 {
		return nil
	}
	idx := 0
	for i, name := range names {
		if name == a.grid.Sheet() {
			idx = i
			break
		}
	}
	idx = (idx + step + len(names)) % len(names)
	a.grid.SetSheet(names[idx])
	return a.selectGrid()
}

func (a *App) showPreview() bool {
	return a.cfg.Settings.UI.ShowPreview || a.diffActive
}

func (a *App) paneWidths() (grid, side int) {
	if !a.showPreview() {
		return a.width - 2, 0
	}
	side = a.width * 2 / 5
	return a.width - side - 4, side - 2
}

// layout sizes the grid and the review pane; the header takes two lines and
// the footer three.
func (a *App) layout() {
	gridWidth, sideWidth := a.paneWidths()
	bodyHeight := a.height - 7
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	a.grid.SetSize(gridWidth, bodyHeight)
	a.diffView.Width = sideWidth
	a.diffView.Height = bodyHeight
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}
	a.layout()

	header := renderHeader(a.width, a.grid.Sheet(), modeLabel(a.loc, a.snapshot.CurrentMode), a.snapshot.CurrentMode)

	gridWidth, sideWidth := a.paneWidths()
	gridPane := ActiveBorderStyle.Width(gridWidth).Render(a.grid.View())
	body := gridPane
	if a.showPreview() {
		var side string
		if a.diffActive {
			side = a.diffView.View()
		} else {
			side = renderPreview(a.loc, a.snapshot, a.cfg.Processor.Store().UndoCapacity(), sideWidth)
		}
		sidePane := InactiveBorderStyle.
			Width(sideWidth).
			Height(lipgloss.Height(gridPane) - 2).
			Render(ContentPaddingStyle.Render(side))
		body = lipgloss.JoinHorizontal(lipgloss.Top, gridPane, sidePane)
	}

	if a.confirm.Active() && !a.diffActive {
		body = lipgloss.Place(a.width, lipgloss.Height(body), lipgloss.Center, lipgloss.Center, a.confirm.View())
	}

	footer := []string{a.footerLine()}
	if text, ok := a.status.Text(); ok {
		footer = append(footer, GetStatusStyle(a.status.Type()).Width(a.width).Render(text))
	}
	footer = append(footer, HelpStyle.Render(a.selectionSummary()+"  "+helpText))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, strings.Join(footer, "\n"))
}

func (a *App) footerLine() string {
	switch {
	case a.gotoActive:
		return InputStyle.Render(a.loc.GetString("status.goto", nil) + ": " + a.gotoInput.View())
	case a.confirm.Active() && a.diffActive:
		return a.confirm.View()
	default:
		return ""
	}
}

func (a *App) selectionSummary() string {
	summary := a.grid.Selection().String()
	if a.reviewFirst {
		summary += " [review]"
	}
	return summary
}
