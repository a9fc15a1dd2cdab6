// Package taxonomy classifies and decomposes pipe-delimited taxonomy strings
// and caret-delimited targeting patterns. Everything here is pure: no I/O,
// no logging, and no function returns an error. Input that fits neither shape
// yields an empty record.
package taxonomy

import (
	"regexp"
	"strings"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

const (
	// SegmentDelimiter separates taxonomy segments
	SegmentDelimiter = "|"
	// ActivationDelimiter separates the main content from the activation id
	ActivationDelimiter = ":"
)

// targetingPattern matches an acronym enclosed in carets with one optional trailing space
var targetingPattern = regexp.MustCompile(`\^[^\^]+\^ ?`)

// MatchTargeting returns the first targeting match verbatim, including its
// trailing space when present.
func MatchTargeting(text string) (string, bool) {
	loc := targetingPattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}

// FindTargeting returns every targeting match in order of appearance
func FindTargeting(text string) []string {
	return targetingPattern.FindAllString(text, -1)
}

// HasPipe reports whether text carries taxonomy segments
func HasPipe(text string) bool {
	return strings.Contains(text, SegmentDelimiter)
}

// IsTargeting reports whether text is classified as a targeting pattern:
// a caret match with no pipe anywhere in the string.
func IsTargeting(text string) bool {
	if HasPipe(text) {
		return false
	}
	_, ok := MatchTargeting(text)
	return ok
}

// SplitActivation splits text on its first colon. The left side is the main
// content; the right side, trimmed, is the activation id. A colon that sits
// before the first pipe therefore truncates the content used for segments.
func SplitActivation(text string) (main, activationID string) {
	before, after, found := strings.Cut(text, ActivationDelimiter)
	if !found {
		return text, ""
	}
	return before, strings.TrimSpace(after)
}

// SplitSegments splits main content on pipes into exactly SegmentCount trimmed
// segments. Missing segments are empty; anything past the ninth is dropped.
func SplitSegments(main string) [models.SegmentCount]string {
	var segments [models.SegmentCount]string
	for i, part := range strings.Split(main, SegmentDelimiter) {
		if i >= models.SegmentCount {
			break
		}
		segments[i] = strings.TrimSpace(part)
	}
	return segments
}

// Parse classifies a single cell's text. Targeting wins over taxonomy whenever
// the text has no pipe; a pipe always means taxonomy.
//
// SelectedCellCount is left at zero; Aggregate fills it for a whole selection.
func Parse(text string) models.ParsedRecord {
	if strings.TrimSpace(text) == "" {
		return models.ParsedRecord{}
	}

	record := models.ParsedRecord{OriginalText: text}

	if !HasPipe(text) {
		if match, ok := MatchTargeting(text); ok {
			record.HasTargetingPattern = true
			record.TargetingText = match
		}
		return record
	}

	main, activationID := SplitActivation(text)
	record.Segments = SplitSegments(main)
	record.ActivationID = activationID
	return record
}

// Aggregate derives the preview record for a selection: it scans row-major,
// parses the first string cell with visible text, and counts every such
// cell independently of which one was previewed. ok is false when the
// selection holds no text at all.
func Aggregate(values models.Grid) (record models.ParsedRecord, ok bool) {
	count := 0
	var first string
	for _, row := range values {
		for _, cell := range row {
			text, isText := cell.Text()
			if !isText || strings.TrimSpace(text) == "" {
				continue
			}
			if count == 0 {
				first = text
			}
			count++
		}
	}
	if count == 0 {
		return models.ParsedRecord{}, false
	}
	record = Parse(first)
	record.SelectedCellCount = count
	return record, true
}
