package recipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/i18n"
	"github.com/pluqqy/taxo-terminal/pkg/models"
	"github.com/pluqqy/taxo-terminal/pkg/mutators"
	"github.com/pluqqy/taxo-terminal/pkg/state"
	"github.com/pluqqy/taxo-terminal/pkg/undo"
)

func newRunner(t *testing.T) (*Runner, *host.MemoryHost) {
	t.Helper()
	h := host.NewMemoryHost("Sheet1")
	require.NoError(t, h.Load("A1", models.StringGrid(
		[]string{"FY24|Q1|Tourism WA:ABC123"},
		[]string{"FY25|Q2|Brand:XYZ9"},
		[]string{"^AT^ testing string"},
	)))
	loc, err := i18n.New("en")
	require.NoError(t, err)
	store := state.NewStore()
	proc := mutators.NewProcessor(h, store, undo.New(store, h), loc)
	t.Cleanup(proc.Bind(context.Background(), h))
	return NewRunner(h, proc, nil), h
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid",
			yaml: `
name: cleanup
steps:
  - select: A1:A2
    action: extract-segment
    segment: 3
  - action: undo
`,
		},
		{name: "no steps", yaml: "name: empty\n", wantErr: "no steps"},
		{name: "bad action", yaml: "steps:\n  - action: explode\n", wantErr: "unknown action"},
		{name: "bad segment", yaml: "steps:\n  - action: extract-segment\n    segment: 12\n", wantErr: "out of range"},
		{name: "bad range", yaml: "steps:\n  - select: 'A0'\n    action: undo\n", wantErr: "step 1"},
		{name: "bad yaml", yaml: "steps: [", wantErr: "failed to parse recipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, r.Steps, 2)
		})
	}
}

func TestRun_ExtractThenUndo(t *testing.T) {
	rn, h := newRunner(t)
	r := &Recipe{Name: "roundtrip", Steps: []Step{
		{Select: "A1:A2", Action: mutators.ActionExtractSegment, Segment: 3},
		{Select: "A3", Action: mutators.ActionTrimTargeting},
		{Action: ActionUndo},
		{Action: ActionUndo},
	}}

	report, err := rn.Run(context.Background(), r)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 4, report.Succeeded)
	assert.Zero(t, report.Failed)

	got, err := h.ReadRange(context.Background(), "A1:A3")
	require.NoError(t, err)
	assert.Equal(t, models.StringGrid(
		[]string{"FY24|Q1|Tourism WA:ABC123"},
		[]string{"FY25|Q2|Brand:XYZ9"},
		[]string{"^AT^ testing string"},
	), got)
}

func TestRun_StopsOnBlockedStep(t *testing.T) {
	rn, h := newRunner(t)
	r := &Recipe{Name: "blocked", Steps: []Step{
		{Select: "A3", Action: mutators.ActionExtractActivation},
		{Select: "A1", Action: mutators.ActionExtractActivation},
	}}

	report, err := rn.Run(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, report.Steps, 1)
	assert.Equal(t, "blocked", report.Steps[0].Status)

	got, err := h.ReadRange(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, "FY24|Q1|Tourism WA:ABC123", got[0][0].Str)

	r.ContinueOnError = true
	report, err = rn.Run(context.Background(), r)
	require.NoError(t, err)
	assert.Len(t, report.Steps, 2)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, "Processed 1 cell(s)", report.Steps[1].Detail)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: one\nsteps:\n  - action: extract-activation\n"), 0644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "one", r.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
