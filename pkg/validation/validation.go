// Package validation sanitizes and bounds-checks cell content before it is
// parsed into state or written back to the sheet. Validators never modify
// their input; they return a sanitized copy together with the issues found.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pluqqy/taxo-terminal/pkg/models"
	"github.com/pluqqy/taxo-terminal/pkg/taxonomy"
)

// Severity decides whether an issue rejects the value or only flags it
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// ParseSeverity maps a settings string to a Severity. Anything but
// "warning" is treated as an error.
func ParseSeverity(s string) Severity {
	if strings.EqualFold(strings.TrimSpace(s), "warning") {
		return SeverityWarning
	}
	return SeverityError
}

// Rule names reported in Error.Rule
const (
	RuleRequired = "required"
	RuleLength   = "length"
	RuleFormat   = "format"
	RuleMarkup   = "markup"
)

// Field names reported in Error.Field
const (
	FieldCell         = "cell"
	FieldActivationID = "activation id"
)

// SegmentField names the 1-indexed segment n
func SegmentField(n int) string {
	return fmt.Sprintf("segment %d", n)
}

// Error describes one validation issue for one field
type Error struct {
	Field    string
	Rule     string
	Limit    int
	Actual   int
	Severity Severity
	Message  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Rule == RuleLength {
		return fmt.Sprintf("%s: length %d exceeds %d", e.Field, e.Actual, e.Limit)
	}
	return fmt.Sprintf("%s: failed %s rule", e.Field, e.Rule)
}

// Rules bounds field lengths and picks the severity of overflows
type Rules struct {
	MaxSegmentLength      int
	MaxActivationIDLength int
	MaxCellLength         int
	SegmentOverflow       Severity
	ActivationOverflow    Severity
}

// DefaultRules mirrors models.DefaultSettings
func DefaultRules() Rules {
	return RulesFromSettings(models.DefaultSettings().Validation)
}

// RulesFromSettings builds rules from the validation section of settings
func RulesFromSettings(s models.ValidationSettings) Rules {
	return Rules{
		MaxSegmentLength:      s.MaxSegmentLength,
		MaxActivationIDLength: s.MaxActivationIDLength,
		MaxCellLength:         s.MaxCellLength,
		SegmentOverflow:       ParseSeverity(s.SegmentOverflow),
		ActivationOverflow:    ParseSeverity(s.ActivationOverflow),
	}
}

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<\s*script[^>]*>.*?<\s*/\s*script\s*>`)
	scriptLikePattern  = regexp.MustCompile(`(?i)(java|vb)script\s*:|data\s*:\s*text/html|\bon[a-z]+\s*=`)
)

// Sanitize strips angle brackets and script-like substrings so cell content
// can never be rendered as markup downstream.
func Sanitize(s string) string {
	out := scriptBlockPattern.ReplaceAllString(s, "")
	out = strings.NewReplacer("<", "", ">", "").Replace(out)
	return scriptLikePattern.ReplaceAllString(out, "")
}

// CellResult is the outcome of ValidateCell
type CellResult struct {
	IsValid   bool
	Sanitized string
	Errors    []*Error
	Warnings  []*Error
}

// ValidateCell checks a raw host value. Empty values are rejected; non-text
// values are valid but carry no taxonomy meaning.
func ValidateCell(v models.CellValue, rules Rules) CellResult {
	var res CellResult
	if v.IsEmpty() {
		res.Errors = append(res.Errors, &Error{Field: FieldCell, Rule: RuleRequired, Message: "value is empty"})
		return res
	}
	if v.Kind != models.CellString {
		res.IsValid = true
		res.Sanitized = v.String()
		return res
	}
	if strings.TrimSpace(v.Str) == "" {
		res.Errors = append(res.Errors, &Error{Field: FieldCell, Rule: RuleRequired, Message: "value is blank"})
		return res
	}

	res.Sanitized = Sanitize(v.Str)
	if res.Sanitized != v.Str {
		res.Warnings = append(res.Warnings, &Error{
			Field:    FieldCell,
			Rule:     RuleMarkup,
			Severity: SeverityWarning,
			Message:  "markup removed",
		})
	}
	if n := utf8.RuneCountInString(res.Sanitized); rules.MaxCellLength > 0 && n > rules.MaxCellLength {
		res.Errors = append(res.Errors, &Error{Field: FieldCell, Rule: RuleLength, Limit: rules.MaxCellLength, Actual: n})
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

// TaxonomyResult is the outcome of ValidateTaxonomyData
type TaxonomyResult struct {
	Segments     [models.SegmentCount]string
	ActivationID string
	IsValid      bool
	Errors       []*Error
	Warnings     []*Error
}

func (r *TaxonomyResult) report(issue *Error) {
	if issue.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, issue)
		return
	}
	r.Errors = append(r.Errors, issue)
}

// ValidateTaxonomyData sanitizes text, decomposes it as taxonomy data, and
// checks every segment and the activation id against rules.
func ValidateTaxonomyData(text string, rules Rules) TaxonomyResult {
	var res TaxonomyResult
	cell := ValidateCell(models.StringCell(text), rules)
	res.Errors = append(res.Errors, cell.Errors...)
	res.Warnings = append(res.Warnings, cell.Warnings...)
	if cell.Sanitized == "" {
		return res
	}
	if !taxonomy.HasPipe(cell.Sanitized) {
		res.Errors = append(res.Errors, &Error{Field: FieldCell, Rule: RuleFormat, Message: "no segment delimiter"})
		return res
	}

	main, activationID := taxonomy.SplitActivation(cell.Sanitized)
	res.Segments = taxonomy.SplitSegments(main)
	res.ActivationID = activationID

	for i, seg := range res.Segments {
		if n := utf8.RuneCountInString(seg); rules.MaxSegmentLength > 0 && n > rules.MaxSegmentLength {
			res.report(&Error{
				Field:    SegmentField(i + 1),
				Rule:     RuleLength,
				Limit:    rules.MaxSegmentLength,
				Actual:   n,
				Severity: rules.SegmentOverflow,
			})
		}
	}
	if n := utf8.RuneCountInString(activationID); rules.MaxActivationIDLength > 0 && n > rules.MaxActivationIDLength {
		res.report(&Error{
			Field:    FieldActivationID,
			Rule:     RuleLength,
			Limit:    rules.MaxActivationIDLength,
			Actual:   n,
			Severity: rules.ActivationOverflow,
		})
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

// FieldErrors returns the errors reported for field and for the cell as a whole
func (r TaxonomyResult) FieldErrors(field string) []*Error {
	var out []*Error
	for _, e := range r.Errors {
		if e.Field == field || e.Field == FieldCell {
			out = append(out, e)
		}
	}
	return out
}

// CheckRecord bounds-checks a parsed record before it is published. A cell
// that fails the cell-level checks keeps only its count and mode; otherwise
// each field with an error is blanked and fields with warnings are kept.
func CheckRecord(record models.ParsedRecord, rules Rules) (models.ParsedRecord, []*Error, []*Error) {
	out := SanitizeRecord(record)

	cell := ValidateCell(models.StringCell(record.OriginalText), rules)
	if !cell.IsValid {
		out.OriginalText = ""
		out.Segments = [models.SegmentCount]string{}
		out.ActivationID = ""
		out.TargetingText = ""
		return out, cell.Errors, cell.Warnings
	}
	if record.HasTargetingPattern || !taxonomy.HasPipe(out.OriginalText) {
		return out, nil, cell.Warnings
	}

	tax := ValidateTaxonomyData(record.OriginalText, rules)
	for _, e := range tax.Errors {
		if e.Field == FieldActivationID {
			out.ActivationID = ""
			continue
		}
		for i := range out.Segments {
			if e.Field == SegmentField(i+1) {
				out.Segments[i] = ""
			}
		}
	}
	return out, tax.Errors, tax.Warnings
}

// TargetingResult is the outcome of ValidateTargetingPattern
type TargetingResult struct {
	Patterns []string
	IsValid  bool
	Errors   []*Error
}

// ValidateTargetingPattern extracts the caret patterns of a targeting cell.
// Text with a pipe is taxonomy data and is rejected here.
func ValidateTargetingPattern(text string) TargetingResult {
	var res TargetingResult
	sanitized := Sanitize(text)
	switch {
	case strings.TrimSpace(sanitized) == "":
		res.Errors = append(res.Errors, &Error{Field: FieldCell, Rule: RuleRequired, Message: "value is blank"})
	case taxonomy.HasPipe(sanitized):
		res.Errors = append(res.Errors, &Error{Field: FieldCell, Rule: RuleFormat, Message: "taxonomy data is not a targeting pattern"})
	default:
		for _, m := range taxonomy.FindTargeting(sanitized) {
			res.Patterns = append(res.Patterns, strings.TrimSpace(m))
		}
		if len(res.Patterns) == 0 {
			res.Errors = append(res.Errors, &Error{Field: FieldCell, Rule: RuleFormat, Message: "no targeting pattern"})
		}
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

// SanitizeRecord returns a copy of record with every text field sanitized
func SanitizeRecord(record models.ParsedRecord) models.ParsedRecord {
	out := record
	out.OriginalText = Sanitize(record.OriginalText)
	for i, seg := range record.Segments {
		out.Segments[i] = Sanitize(seg)
	}
	out.ActivationID = Sanitize(record.ActivationID)
	out.TargetingText = Sanitize(record.TargetingText)
	return out
}
