package model

import "testing"

// TestStripLeadingNumber tests removal of designer numbering from titles.
func TestStripLeadingNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple number", "1. What is your name?", "What is your name?"},
		{"dotted number", "2.3. Project costs", "Project costs"},
		{"count without trailing dot", "1 to 5", "1 to 5"},
		{"quantity answer", "10 or more employees", "10 or more employees"},
		{"year", "2024 grant round", "2024 grant round"},
		{"decimal without trailing dot", "2.5 hectares", "2.5 hectares"},
		{"leading whitespace", "  10. Budget", "Budget"},
		{"no number", "Eligibility", "Eligibility"},
		{"number inside text", "Year 2024 plans", "Year 2024 plans"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StripLeadingNumber(tt.input); got != tt.expected {
				t.Errorf("StripLeadingNumber(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
