package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/pluqqy/taxo-terminal/pkg/i18n"
	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// renderPreview draws the parsed record of the selection with the session counters
func renderPreview(loc i18n.Localizer, st models.AppState, undoCapacity, width int) string {
	wrapWidth := width - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(loc.GetString("preview.title", nil)))
	b.WriteString("\n\n")

	field := func(key string, params i18n.Params, value string) {
		label := LabelStyle.Render(loc.GetString(key, params) + ":")
		b.WriteString(wordwrap.String(label+" "+NormalStyle.Render(value), wrapWidth))
		b.WriteString("\n")
	}

	field("preview.mode", nil, modeLabel(loc, st.CurrentMode))
	field("preview.selected", nil, fmt.Sprintf("%d", st.SelectedCellCount))
	field("preview.undo_depth", nil, fmt.Sprintf("%d/%d", st.UndoDepth(), undoCapacity))
	if st.IsProcessing {
		b.WriteString(LabelStyle.Render(loc.GetString("preview.processing", nil) + "…"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	record := st.ParsedData
	if record == nil {
		b.WriteString(EmptyStyle.Render(loc.GetString("preview.empty", nil)))
		return b.String()
	}

	b.WriteString(wordwrap.String(record.OriginalText, wrapWidth))
	b.WriteString("\n\n")

	if record.HasTargetingPattern {
		field("preview.targeting", nil, record.TargetingText)
		return strings.TrimRight(b.String(), "\n")
	}

	for n := 1; n <= models.SegmentCount; n++ {
		value := record.Segment(n)
		if value == "" {
			value = "-"
		}
		field("preview.segment", i18n.Params{"n": n}, value)
	}
	activation := record.ActivationID
	if activation == "" {
		activation = "-"
	}
	field("preview.activation", nil, activation)
	return strings.TrimRight(b.String(), "\n")
}

func modeLabel(loc i18n.Localizer, mode models.Mode) string {
	if mode == models.ModeTargeting {
		return loc.GetString("mode.targeting", nil)
	}
	return loc.GetString("mode.normal", nil)
}

// colorDiff styles unified diff lines for the review pane
func colorDiff(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = LabelStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = DiffHunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = DiffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = DiffRemoveStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
