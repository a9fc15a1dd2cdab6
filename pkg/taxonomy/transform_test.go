package taxonomy

import (
	"testing"
)

func TestExtractSegment(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		n      int
		want   string
		wantOK bool
	}{
		{"third segment", scenarioA, 3, "Tourism WA", true},
		{"ninth segment stops at colon", scenarioA, 9, "Conversions", true},
		{"trimmed segment", scenarioA, 6, "4LAOSO", true},
		{"blank segment is absent", "FY24|Q1|||Campaign Name", 3, "", false},
		{"missing segment", "a|b", 5, "", false},
		{"no pipe yields whole content", "Conversions:ABC", 1, "Conversions", true},
		{"segment zero", "a|b", 0, "", false},
		{"segment ten", "1|2|3|4|5|6|7|8|9|10", 10, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSegment(tt.input, tt.n)
			if ok != tt.wantOK {
				t.Fatalf("ExtractSegment(%q, %d) ok = %v, want %v", tt.input, tt.n, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractSegment(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
			}
		})
	}
}

func TestSegmentTransform(t *testing.T) {
	transform := SegmentTransform(2)
	got, ok := transform("alpha | beta | gamma")
	if !ok || got != "beta" {
		t.Errorf("SegmentTransform(2) = %q, %v; want beta, true", got, ok)
	}
}

func TestExtractActivationID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"taxonomy with id", scenarioA, "DJTDOM060725", true},
		{"trailing whitespace", "a|b:  ID42  ", "ID42", true},
		{"only first colon splits", "a: b:c", "b:c", true},
		{"empty suffix", "a|b:", "", false},
		{"whitespace suffix", "a|b:   ", "", false},
		{"no colon", "a|b", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractActivationID(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractActivationID(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTrimTargeting(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"leading pattern", "^AT^ testing string", "testing string", true},
		{"several patterns", "^A^ ^B^ rest ^C^", "rest", true},
		{"pattern only never blanks", "^AT^ ", "", false},
		{"nothing to trim", "plain text", "", false},
		{"trailing pattern", "campaign ^XYZ^", "campaign", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TrimTargeting(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("TrimTargeting(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKeepTargeting(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"keeps all patterns", "^A^ hello ^B^ world", "^A^ ^B^", true},
		{"single pattern with text", "^AT^ testing string", "^AT^", true},
		{"already only a pattern", "^AT^", "", false},
		{"only surrounding whitespace differs", "^AT^ ", "", false},
		{"padded patterns", "  ^A^ ^B^ ", "", false},
		{"no pattern", "hello", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeepTargeting(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("KeepTargeting(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
