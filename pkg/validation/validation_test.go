package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/taxo-terminal/pkg/models"
	"github.com/pluqqy/taxo-terminal/pkg/taxonomy"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain taxonomy untouched", "FY24|Q1|Brand:ID1", "FY24|Q1|Brand:ID1"},
		{"angle brackets", "a<b>c", "abc"},
		{"script block", "x<script>alert(1)</script>y", "xy"},
		{"javascript protocol", "JavaScript:alert(1)", "alert(1)"},
		{"event handler", "img onerror=boom", "img boom"},
		{"caret pattern untouched", "^AT^ text", "^AT^ text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestValidateCell(t *testing.T) {
	rules := DefaultRules()

	t.Run("empty is rejected", func(t *testing.T) {
		res := ValidateCell(models.EmptyCell(), rules)
		assert.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, RuleRequired, res.Errors[0].Rule)
	})

	t.Run("blank string is rejected", func(t *testing.T) {
		res := ValidateCell(models.StringCell("   "), rules)
		assert.False(t, res.IsValid)
	})

	t.Run("number is valid and inert", func(t *testing.T) {
		res := ValidateCell(models.NumberCell(3.5), rules)
		assert.True(t, res.IsValid)
		assert.Equal(t, "3.5", res.Sanitized)
	})

	t.Run("markup is stripped with a warning", func(t *testing.T) {
		input := models.StringCell("<b>FY24</b>|Q1")
		res := ValidateCell(input, rules)
		assert.True(t, res.IsValid)
		assert.Equal(t, "bFY24/b|Q1", res.Sanitized)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, RuleMarkup, res.Warnings[0].Rule)
		assert.Equal(t, "<b>FY24</b>|Q1", input.Str, "input must not change")
	})

	t.Run("overlong cell is rejected", func(t *testing.T) {
		res := ValidateCell(models.StringCell(strings.Repeat("x", 1001)), rules)
		assert.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, RuleLength, res.Errors[0].Rule)
		assert.Equal(t, 1000, res.Errors[0].Limit)
		assert.Equal(t, 1001, res.Errors[0].Actual)
	})
}

func TestValidateTaxonomyData(t *testing.T) {
	rules := DefaultRules()

	t.Run("valid taxonomy", func(t *testing.T) {
		res := ValidateTaxonomyData("FY24|Q1|Tourism WA:ABC123", rules)
		assert.True(t, res.IsValid)
		assert.Equal(t, "Tourism WA", res.Segments[2])
		assert.Equal(t, "ABC123", res.ActivationID)
		assert.Empty(t, res.Warnings)
	})

	t.Run("long segment only warns by default", func(t *testing.T) {
		res := ValidateTaxonomyData("FY24|"+strings.Repeat("s", 101), rules)
		assert.True(t, res.IsValid)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, "segment 2", res.Warnings[0].Field)
	})

	t.Run("long segment rejects when configured", func(t *testing.T) {
		strict := rules
		strict.SegmentOverflow = SeverityError
		res := ValidateTaxonomyData("FY24|"+strings.Repeat("s", 101), strict)
		assert.False(t, res.IsValid)
	})

	t.Run("long activation id is rejected", func(t *testing.T) {
		res := ValidateTaxonomyData("FY24|Q1:"+strings.Repeat("9", 51), rules)
		assert.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "activation id", res.Errors[0].Field)
		assert.Contains(t, res.Errors[0].Error(), "exceeds 50")
	})

	t.Run("no pipe is a format error", func(t *testing.T) {
		res := ValidateTaxonomyData("no delimiters here", rules)
		assert.False(t, res.IsValid)
		assert.Equal(t, RuleFormat, res.Errors[0].Rule)
	})
}

func TestValidateTargetingPattern(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantValid    bool
		wantPatterns []string
	}{
		{"single pattern", "^AT^ testing string", true, []string{"^AT^"}},
		{"multiple patterns", "^A^ x ^BC^", true, []string{"^A^", "^BC^"}},
		{"pipe is taxonomy", "^A^|b", false, nil},
		{"no pattern", "plain", false, nil},
		{"blank", "  ", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateTargetingPattern(tt.input)
			assert.Equal(t, tt.wantValid, res.IsValid)
			assert.Equal(t, tt.wantPatterns, res.Patterns)
		})
	}
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityWarning, ParseSeverity(" Warning "))
	assert.Equal(t, SeverityError, ParseSeverity("error"))
	assert.Equal(t, SeverityError, ParseSeverity(""))
}

func TestSanitizeRecord(t *testing.T) {
	record := models.ParsedRecord{OriginalText: "<x>|y", ActivationID: "<id>"}
	record.Segments[0] = "<x>"
	out := SanitizeRecord(record)
	assert.Equal(t, "x|y", out.OriginalText)
	assert.Equal(t, "x", out.Segments[0])
	assert.Equal(t, "id", out.ActivationID)
	assert.Equal(t, "<x>", record.Segments[0])
}

func TestFieldErrors(t *testing.T) {
	rules := DefaultRules()
	res := ValidateTaxonomyData("FY24|Q1|Brand:"+strings.Repeat("X", 60), rules)
	require.False(t, res.IsValid)

	assert.Empty(t, res.FieldErrors(SegmentField(3)))
	errs := res.FieldErrors(FieldActivationID)
	require.Len(t, errs, 1)
	assert.Equal(t, 60, errs[0].Actual)
}

func TestCheckRecord(t *testing.T) {
	rules := DefaultRules()
	rules.SegmentOverflow = SeverityError
	longSegment := strings.Repeat("S", 150)

	t.Run("blanks failing fields only", func(t *testing.T) {
		record := taxonomy.Parse("FY24|" + longSegment + "|<b>Brand:" + strings.Repeat("9", 51))
		out, errs, warnings := CheckRecord(record, rules)

		assert.Len(t, errs, 2)
		assert.Len(t, warnings, 1, "markup removal warns")
		assert.Equal(t, "FY24", out.Segment(1))
		assert.Empty(t, out.Segment(2))
		assert.Equal(t, "bBrand", out.Segment(3))
		assert.Empty(t, out.ActivationID)
		assert.Equal(t, longSegment, record.Segment(2), "input is not modified")
	})

	t.Run("warnings keep the field", func(t *testing.T) {
		record := taxonomy.Parse("FY24|" + longSegment)
		out, errs, warnings := CheckRecord(record, DefaultRules())
		assert.Empty(t, errs)
		assert.Len(t, warnings, 1)
		assert.Equal(t, longSegment, out.Segment(2))
	})

	t.Run("oversized cell", func(t *testing.T) {
		record := taxonomy.Parse("^AT^ " + strings.Repeat("x", 1001))
		record.SelectedCellCount = 4
		out, errs, _ := CheckRecord(record, rules)
		require.Len(t, errs, 1)
		assert.Equal(t, FieldCell, errs[0].Field)
		assert.True(t, out.HasTargetingPattern)
		assert.Empty(t, out.TargetingText)
		assert.Empty(t, out.OriginalText)
		assert.Equal(t, 4, out.SelectedCellCount)
	})

	t.Run("targeting record passes", func(t *testing.T) {
		record := taxonomy.Parse("^AT^ Adults")
		out, errs, _ := CheckRecord(record, rules)
		assert.Empty(t, errs)
		assert.Equal(t, "^AT^ ", out.TargetingText)
	})
}
