package taxonomy

import (
	"strings"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// Transform maps one cell's text to its replacement. ok=false means the cell
// is left untouched.
type Transform func(text string) (result string, ok bool)

// ExtractSegment returns the n-th (1-indexed) trimmed segment of the content
// before the first colon. An absent or blank segment leaves the cell alone.
func ExtractSegment(text string, n int) (string, bool) {
	if n < 1 || n > models.SegmentCount {
		return "", false
	}
	main, _ := SplitActivation(text)
	parts := strings.Split(main, SegmentDelimiter)
	if n > len(parts) {
		return "", false
	}
	segment := strings.TrimSpace(parts[n-1])
	if segment == "" {
		return "", false
	}
	return segment, true
}

// SegmentTransform binds ExtractSegment to a fixed segment number
func SegmentTransform(n int) Transform {
	return func(text string) (string, bool) {
		return ExtractSegment(text, n)
	}
}

// ExtractActivationID returns the trimmed text after the first colon when it is non-empty
func ExtractActivationID(text string) (string, bool) {
	_, after, found := strings.Cut(text, ActivationDelimiter)
	if !found {
		return "", false
	}
	id := strings.TrimSpace(after)
	if id == "" {
		return "", false
	}
	return id, true
}

// TrimTargeting removes every targeting pattern from text. It never blanks a
// cell: an empty or unchanged remainder leaves the cell alone.
func TrimTargeting(text string) (string, bool) {
	result := strings.TrimSpace(targetingPattern.ReplaceAllString(text, ""))
	if result == "" || result == text {
		return "", false
	}
	return result, true
}

// KeepTargeting keeps only the targeting patterns, joined by single spaces.
// A cell that differs from the result only in surrounding whitespace is left alone.
func KeepTargeting(text string) (string, bool) {
	matches := FindTargeting(text)
	if len(matches) == 0 {
		return "", false
	}
	kept := make([]string, len(matches))
	for i, m := range matches {
		kept[i] = strings.TrimSpace(m)
	}
	result := strings.Join(kept, " ")
	if result == strings.TrimSpace(text) {
		return "", false
	}
	return result, true
}
