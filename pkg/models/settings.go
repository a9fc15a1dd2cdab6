package models

// Settings represents the application configuration
type Settings struct {
	Undo       UndoSettings       `yaml:"undo"`
	Validation ValidationSettings `yaml:"validation"`
	UI         UISettings         `yaml:"ui"`
	Logging    LoggingSettings    `yaml:"logging"`
	Workbook   WorkbookSettings   `yaml:"workbook"`
}

// UndoSettings controls the operation history
type UndoSettings struct {
	MaxOperations int `yaml:"max_operations"`
}

// ValidationSettings bounds cell content before it enters state or the sheet
type ValidationSettings struct {
	MaxSegmentLength      int    `yaml:"max_segment_length"`
	MaxActivationIDLength int    `yaml:"max_activation_id_length"`
	MaxCellLength         int    `yaml:"max_cell_length"`
	SegmentOverflow       string `yaml:"segment_overflow"`    // "error" or "warning"
	ActivationOverflow    string `yaml:"activation_overflow"` // "error" or "warning"
}

// UISettings controls UI preferences
type UISettings struct {
	Locale      string `yaml:"locale"`
	ShowPreview bool   `yaml:"show_preview"`
	ColumnWidth int    `yaml:"column_width"`
	VisibleRows int    `yaml:"visible_rows"`
}

// LoggingSettings controls the structured log file
type LoggingSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// WorkbookSettings points at the workbook the CLI and TUI operate on
type WorkbookSettings struct {
	Path         string `yaml:"path"`
	DefaultSheet string `yaml:"default_sheet"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Undo: UndoSettings{
			MaxOperations: 10,
		},
		Validation: ValidationSettings{
			MaxSegmentLength:      100,
			MaxActivationIDLength: 50,
			MaxCellLength:         1000,
			SegmentOverflow:       "warning",
			ActivationOverflow:    "error",
		},
		UI: UISettings{
			Locale:      "en",
			ShowPreview: true,
			ColumnWidth: 24,
			VisibleRows: 20,
		},
		Logging: LoggingSettings{
			Level: "info",
			File:  "logs/taxo.log",
		},
		Workbook: WorkbookSettings{
			Path:         "workbook.db",
			DefaultSheet: "Sheet1",
		},
	}
}

// ApplyDefaults fills zero values left by a partial settings file
func (s *Settings) ApplyDefaults() {
	d := DefaultSettings()
	if s.Undo.MaxOperations <= 0 {
		s.Undo.MaxOperations = d.Undo.MaxOperations
	}
	if s.Validation.MaxSegmentLength <= 0 {
		s.Validation.MaxSegmentLength = d.Validation.MaxSegmentLength
	}
	if s.Validation.MaxActivationIDLength <= 0 {
		s.Validation.MaxActivationIDLength = d.Validation.MaxActivationIDLength
	}
	if s.Validation.MaxCellLength <= 0 {
		s.Validation.MaxCellLength = d.Validation.MaxCellLength
	}
	if s.Validation.SegmentOverflow == "" {
		s.Validation.SegmentOverflow = d.Validation.SegmentOverflow
	}
	if s.Validation.ActivationOverflow == "" {
		s.Validation.ActivationOverflow = d.Validation.ActivationOverflow
	}
	if s.UI.Locale == "" {
		s.UI.Locale = d.UI.Locale
	}
	if s.UI.ColumnWidth <= 0 {
		s.UI.ColumnWidth = d.UI.ColumnWidth
	}
	if s.UI.VisibleRows <= 0 {
		s.UI.VisibleRows = d.UI.VisibleRows
	}
	if s.Logging.Level == "" {
		s.Logging.Level = d.Logging.Level
	}
	if s.Logging.File == "" {
		s.Logging.File = d.Logging.File
	}
	if s.Workbook.Path == "" {
		s.Workbook.Path = d.Workbook.Path
	}
	if s.Workbook.DefaultSheet == "" {
		s.Workbook.DefaultSheet = d.Workbook.DefaultSheet
	}
}
