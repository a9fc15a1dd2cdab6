// Package mutators runs the selection-scoped batch transformations. Every
// mutation follows one transaction: guard, mark processing, read the
// selection, record an undo snapshot, transform, write the grid back, and
// publish the outcome. Host failures never escape as errors; they come back
// as a failed Result with a localized message.
package mutators

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pluqqy/taxo-terminal/pkg/diff"
	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/i18n"
	"github.com/pluqqy/taxo-terminal/pkg/models"
	"github.com/pluqqy/taxo-terminal/pkg/state"
	"github.com/pluqqy/taxo-terminal/pkg/taxonomy"
	"github.com/pluqqy/taxo-terminal/pkg/undo"
	"github.com/pluqqy/taxo-terminal/pkg/validation"
)

// ErrBusy is reported when a mutation or undo is already running
var ErrBusy = errors.New("operation in progress")

// Result is the outcome of a mutation or an undo
type Result struct {
	Success bool
	// Blocked is set when the guard refused to start: busy or wrong mode
	Blocked        bool
	ProcessedCount int
	// Rejected counts cells skipped because they failed validation
	Rejected    int
	OperationID int64
	Description string
	Message     string
	Error       error
}

// Processor wires the host, the state store, the undo engine and the
// localization catalog together.
type Processor struct {
	host   host.Host
	store  *state.Store
	undo   *undo.Engine
	loc    i18n.Localizer
	rules  validation.Rules
	logger *zap.Logger
}

// Option configures a Processor
type Option func(*Processor)

// WithRules sets the validation rules applied to every cell
func WithRules(r validation.Rules) Option {
	return func(p *Processor) {
		p.rules = r
	}
}

// WithLogger sets the logger for mutation diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProcessor creates a processor. The undo engine must record onto store.
func NewProcessor(h host.Host, store *state.Store, engine *undo.Engine, loc i18n.Localizer, opts ...Option) *Processor {
	p := &Processor{
		host:   h,
		store:  store,
		undo:   engine,
		loc:    loc,
		rules:  validation.DefaultRules(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Store returns the state store the processor publishes to
func (p *Processor) Store() *state.Store {
	return p.store
}

// Localizer returns the catalog used for messages
func (p *Processor) Localizer() i18n.Localizer {
	return p.loc
}

// Bind subscribes the processor to selection changes of wb and publishes the
// current selection once. It returns the unsubscribe function.
func (p *Processor) Bind(ctx context.Context, wb host.Workbook) func() {
	unsubscribe := wb.OnSelectionChanged(p.HandleSelectionChange)
	if err := p.RefreshSelection(ctx); err != nil {
		p.logger.Error("Failed to read initial selection", zap.Error(err))
	}
	p.store.SetInitialized(true)
	return unsubscribe
}

// HandleSelectionChange is the host callback for selection changes. It runs
// even while a mutation is processing; classification is read-only.
func (p *Processor) HandleSelectionChange() {
	if err := p.RefreshSelection(context.Background()); err != nil {
		p.logger.Error("Failed to refresh selection", zap.Error(err))
	}
}

// RefreshSelection reads the selection and publishes its parsed record
func (p *Processor) RefreshSelection(ctx context.Context) error {
	sel, err := p.host.GetSelection(ctx)
	if err != nil {
		return err
	}
	record, ok := taxonomy.Aggregate(sel.Values)
	if !ok {
		p.store.SetParsedData(nil)
		return nil
	}
	record, errs, warnings := validation.CheckRecord(record, p.rules)
	for _, e := range errs {
		p.logger.Debug("Dropped parsed field", zap.Error(e))
	}
	for _, w := range warnings {
		p.logger.Warn("Parsed field out of bounds", zap.Error(w))
	}
	p.store.SetParsedData(&record)
	return nil
}

// Apply runs op over the current selection
func (p *Processor) Apply(ctx context.Context, op Operation) Result {
	if err := op.Validate(); err != nil {
		return Result{Blocked: true, Message: p.loc.GetString("error.invalid_segment", nil), Error: err}
	}
	if res, ok := p.guard(op); !ok {
		return res
	}
	if !p.begin() {
		return p.busy()
	}

	res := p.apply(ctx, op)

	p.store.SetProcessing(false)
	if err := p.RefreshSelection(ctx); err != nil {
		p.logger.Error("Failed to refresh selection after mutation", zap.Error(err))
	}
	p.logResult(op.Kind.String(), res)
	return res
}

func (p *Processor) apply(ctx context.Context, op Operation) Result {
	description := op.Description(p.loc)
	res := Result{Description: description}

	sel, err := p.host.GetSelection(ctx)
	if err != nil {
		return p.failed(res, err)
	}
	if len(sel.Values) == 0 {
		res.Message = p.loc.GetString("error.no_selection", nil)
		return res
	}

	recorded, err := p.undo.AddOperation(ctx, description, sel)
	if err != nil {
		return p.failed(res, err)
	}
	res.OperationID = recorded.OperationID

	pl := p.plan(sel, op)
	res.Rejected = pl.rejected
	if pl.processed == 0 {
		p.undo.Discard(recorded)
		res.OperationID = 0
		res.Success = true
		res.Message = p.message("result.unchanged", 0, pl.rejected)
		return res
	}

	if err := p.host.SetValues(ctx, sel.Address, pl.grid); err != nil {
		p.undo.Discard(recorded)
		res.OperationID = 0
		return p.failed(res, err)
	}

	res.Success = true
	res.ProcessedCount = pl.processed
	res.Message = p.message("result.processed", pl.processed, pl.rejected)
	return res
}

// Undo restores the most recent operation
func (p *Processor) Undo(ctx context.Context) Result {
	if p.store.GetState().IsProcessing {
		return p.busy()
	}
	if !p.begin() {
		return p.busy()
	}

	res := p.undoLast(ctx)

	p.store.SetProcessing(false)
	if err := p.RefreshSelection(ctx); err != nil {
		p.logger.Error("Failed to refresh selection after undo", zap.Error(err))
	}
	p.logResult("undo", res)
	return res
}

func (p *Processor) undoLast(ctx context.Context) Result {
	report, err := p.undo.UndoLast(ctx)
	res := Result{
		Description:    report.Operation.Description,
		OperationID:    report.Operation.OperationID,
		ProcessedCount: report.Restored,
	}

	var partial *undo.PartialRestoreError
	switch {
	case errors.Is(err, undo.ErrNothingToUndo):
		res.Message = p.loc.GetString("undo.empty", nil)
	case errors.As(err, &partial):
		res.Success = true
		res.Error = err
		res.Message = p.loc.GetString("undo.partial", i18n.Params{
			"description": res.Description,
			"failed":      report.Failed,
		})
	case err != nil:
		return p.failed(res, err)
	default:
		res.Success = true
		res.Message = p.loc.GetString("undo.done", i18n.Params{"description": res.Description})
	}
	return res
}

// guard refuses to start when busy or when the preview mode disallows op
func (p *Processor) guard(op Operation) (Result, bool) {
	st := p.store.GetState()
	if st.IsProcessing {
		return p.busy(), false
	}
	if !op.AllowedIn(st.CurrentMode) {
		key := "error.targeting_mode"
		if op.IsTargeting() {
			key = "error.normal_mode"
		}
		return Result{Blocked: true, Message: p.loc.GetString(key, nil)}, false
	}
	return Result{}, true
}

// begin sets the processing flag and confirms the commit landed
func (p *Processor) begin() bool {
	p.store.SetProcessing(true)
	return p.store.GetState().IsProcessing
}

func (p *Processor) busy() Result {
	return Result{Blocked: true, Message: p.loc.GetString("error.busy", nil), Error: ErrBusy}
}

func (p *Processor) failed(res Result, err error) Result {
	p.logger.Error("Mutation failed", zap.String("description", res.Description), zap.Error(err))
	res.Success = false
	res.Error = err
	res.Message = p.loc.GetString("error.operation_failed", nil)
	return res
}

func (p *Processor) message(key string, processed, rejected int) string {
	msg := p.loc.GetString(key, i18n.Params{"count": processed})
	if rejected > 0 {
		msg += "; " + p.loc.GetString("result.rejected", i18n.Params{"count": rejected})
	}
	return msg
}

func (p *Processor) logResult(action string, res Result) {
	p.logger.Info("Mutation result",
		zap.String("action", action),
		zap.Bool("success", res.Success),
		zap.Bool("blocked", res.Blocked),
		zap.Int("processed", res.ProcessedCount),
		zap.Int("rejected", res.Rejected),
		zap.Int64("operation_id", res.OperationID))
}

type plan struct {
	grid      models.Grid
	cells     []diff.Cell
	processed int
	rejected  int
}

type outcome int

const (
	unchanged outcome = iota
	changed
	rejected
)

// plan computes the mutated grid for sel without touching the host. Cells
// that are not text, fail validation of the field the operation produces, or
// are not changed by the transform keep their original value.
func (p *Processor) plan(sel models.RawSelection, op Operation) plan {
	transform := op.Transform()
	out := plan{grid: sel.Values.Clone()}

	for r, row := range sel.Values {
		for c, v := range row {
			if v.IsEmpty() {
				continue
			}
			after := v
			if text, ok := v.Text(); ok {
				result, o := p.transformCell(text, op, transform)
				switch o {
				case changed:
					after = models.StringCell(result)
					out.grid[r][c] = after
					out.processed++
				case rejected:
					out.rejected++
				}
			}
			if addr, err := p.host.ResolveAddress(sel.Address, r, c); err == nil {
				out.cells = append(out.cells, diff.Cell{Address: addr, Before: v, After: after})
			}
		}
	}
	return out
}

func (p *Processor) transformCell(text string, op Operation, transform taxonomy.Transform) (string, outcome) {
	if strings.TrimSpace(text) == "" {
		return "", unchanged
	}
	check := validation.ValidateCell(models.StringCell(text), p.rules)
	if !check.IsValid {
		p.logger.Debug("Skipping invalid cell", zap.Error(check.Errors[0]))
		return "", rejected
	}
	sanitized := check.Sanitized

	if !op.IsTargeting() && taxonomy.HasPipe(sanitized) {
		tax := validation.ValidateTaxonomyData(sanitized, p.rules)
		if errs := tax.FieldErrors(op.Field()); len(errs) > 0 {
			p.logger.Debug("Skipping invalid taxonomy cell", zap.Error(errs[0]))
			return "", rejected
		}
	}

	result, ok := transform(sanitized)
	if !ok || result == text {
		return "", unchanged
	}
	return result, changed
}
