package models

import "time"

// SegmentCount is the number of pipe-delimited fields a taxonomy string carries
const SegmentCount = 9

// Mode is derived from the parsed preview record
type Mode int

const (
	ModeNormal Mode = iota
	ModeTargeting
)

func (m Mode) String() string {
	if m == ModeTargeting {
		return "targeting"
	}
	return "normal"
}

// RawSelection is the host's current selection. It is recreated on every
// selection change and never cached across changes.
type RawSelection struct {
	Address     string `json:"address" yaml:"address"`
	Values      Grid   `json:"values" yaml:"values"`
	RowCount    int    `json:"row_count" yaml:"row_count"`
	ColumnCount int    `json:"column_count" yaml:"column_count"`
}

// ParsedRecord is the classification of the first non-empty text cell of a selection
type ParsedRecord struct {
	OriginalText        string               `json:"original_text" yaml:"original_text"`
	SelectedCellCount   int                  `json:"selected_cell_count" yaml:"selected_cell_count"`
	Segments            [SegmentCount]string `json:"segments" yaml:"segments"`
	ActivationID        string               `json:"activation_id" yaml:"activation_id"`
	HasTargetingPattern bool                 `json:"has_targeting_pattern" yaml:"has_targeting_pattern"`
	TargetingText       string               `json:"targeting_text" yaml:"targeting_text"`
}

// Segment returns the 1-indexed segment, or "" when n is out of range
func (p ParsedRecord) Segment(n int) string {
	if n < 1 || n > SegmentCount {
		return ""
	}
	return p.Segments[n-1]
}

// HasSegments reports whether any segment was populated
func (p ParsedRecord) HasSegments() bool {
	for _, s := range p.Segments {
		if s != "" {
			return true
		}
	}
	return false
}

// CellChange is one captured pre-mutation cell
type CellChange struct {
	CellAddress   string    `json:"cell_address" yaml:"cell_address"`
	OriginalValue CellValue `json:"original_value" yaml:"original_value"`
}

// UndoOperation is one reversible batch mutation with its snapshot
type UndoOperation struct {
	Description string       `json:"description" yaml:"description"`
	CellChanges []CellChange `json:"cell_changes" yaml:"cell_changes"`
	CellCount   int          `json:"cell_count" yaml:"cell_count"`
	OperationID int64        `json:"operation_id" yaml:"operation_id"`
	Timestamp   time.Time    `json:"timestamp" yaml:"timestamp"`
}

// AppState is the single authoritative application state. Consumers only ever
// see copies of it; mutation goes through the state store.
type AppState struct {
	SelectedCellCount int
	ParsedData        *ParsedRecord
	UndoStack         []UndoOperation
	CurrentMode       Mode
	IsProcessing      bool
	IsInitialized     bool
}

// Clone returns a deep copy so callers can never alias store internals
func (s AppState) Clone() AppState {
	out := s
	if s.ParsedData != nil {
		pd := *s.ParsedData
		out.ParsedData = &pd
	}
	if s.UndoStack != nil {
		out.UndoStack = make([]UndoOperation, len(s.UndoStack))
		for i, op := range s.UndoStack {
			op.CellChanges = append([]CellChange(nil), op.CellChanges...)
			out.UndoStack[i] = op
		}
	}
	return out
}

// UndoDepth is the number of operations currently recoverable
func (s AppState) UndoDepth() int {
	return len(s.UndoStack)
}
