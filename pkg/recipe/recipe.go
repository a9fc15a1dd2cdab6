// Package recipe runs a YAML list of selection and mutation steps against a
// workbook in one session, so undo can be exercised outside the TUI.
package recipe

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/mutators"
)

// ActionUndo undoes the most recent step
const ActionUndo = "undo"

// Step is one recipe entry. Select is optional; without it the step runs on
// the current selection.
type Step struct {
	Select  string `yaml:"select,omitempty"`
	Action  string `yaml:"action"`
	Segment int    `yaml:"segment,omitempty"`
}

// Recipe is a named list of steps
type Recipe struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description,omitempty"`
	ContinueOnError bool   `yaml:"continue_on_error,omitempty"`
	Steps           []Step `yaml:"steps"`
}

// Parse decodes and validates a recipe
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads a recipe file
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	return Parse(data)
}

// Validate checks every step names a known action and a valid range
func (r *Recipe) Validate() error {
	if len(r.Steps) == 0 {
		return fmt.Errorf("recipe %q has no steps", r.Name)
	}
	for i, step := range r.Steps {
		if step.Select != "" {
			if _, err := host.ParseRange(step.Select); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if strings.EqualFold(step.Action, ActionUndo) {
			continue
		}
		if _, err := mutators.ParseAction(step.Action, step.Segment); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// StepReport is the outcome of one step
type StepReport struct {
	Index  int             `json:"index" yaml:"index"`
	Action string          `json:"action" yaml:"action"`
	Select string          `json:"select,omitempty" yaml:"select,omitempty"`
	Result mutators.Result `json:"-" yaml:"-"`
	Status string          `json:"status" yaml:"status"`
	Detail string          `json:"message" yaml:"message"`
}

// Report summarizes a run
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Name      string        `json:"name" yaml:"name"`
	Started   time.Time     `json:"started" yaml:"started"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Steps     []StepReport  `json:"steps" yaml:"steps"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	Failed    int           `json:"failed" yaml:"failed"`
}

// Runner executes recipes through a processor
type Runner struct {
	workbook host.Workbook
	proc     *mutators.Processor
	logger   *zap.Logger
}

// NewRunner creates a runner. The processor must be bound to workbook so
// selection changes reach the preview.
func NewRunner(wb host.Workbook, proc *mutators.Processor, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{workbook: wb, proc: proc, logger: logger}
}

// Run executes r step by step. It stops at the first failed or blocked step
// unless the recipe sets continue_on_error.
func (rn *Runner) Run(ctx context.Context, r *Recipe) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Name:    r.Name,
		Started: time.Now(),
	}
	logger := rn.logger.With(zap.String("run_id", report.RunID), zap.String("recipe", r.Name))

	for i, step := range r.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sr := StepReport{Index: i + 1, Action: step.Action, Select: step.Select}

		if step.Select != "" {
			if err := rn.workbook.Select(ctx, step.Select); err != nil {
				sr.Status = "failed"
				sr.Detail = err.Error()
				report.Steps = append(report.Steps, sr)
				report.Failed++
				logger.Error("Recipe step failed", zap.Int("step", sr.Index), zap.Error(err))
				if !r.ContinueOnError {
					break
				}
				continue
			}
		}

		sr.Result = rn.runStep(ctx, step)
		sr.Detail = sr.Result.Message
		switch {
		case sr.Result.Success:
			sr.Status = "ok"
			report.Succeeded++
		case sr.Result.Blocked:
			sr.Status = "blocked"
			report.Failed++
		default:
			sr.Status = "failed"
			report.Failed++
		}
		report.Steps = append(report.Steps, sr)
		logger.Info("Recipe step",
			zap.Int("step", sr.Index),
			zap.String("action", step.Action),
			zap.String("status", sr.Status))

		if sr.Status != "ok" && !r.ContinueOnError {
			break
		}
	}

	report.Duration = time.Since(report.Started)
	return report, nil
}

func (rn *Runner) runStep(ctx context.Context, step Step) mutators.Result {
	if strings.EqualFold(step.Action, ActionUndo) {
		return rn.proc.Undo(ctx)
	}
	op, err := mutators.ParseAction(step.Action, step.Segment)
	if err != nil {
		return mutators.Result{Blocked: true, Message: err.Error(), Error: err}
	}
	return rn.proc.Apply(ctx, op)
}
