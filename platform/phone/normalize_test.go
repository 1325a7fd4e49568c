package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"us national", "(415) 555-2671", "US", "+14155552671"},
		{"already e164", "+14155552671", "US", "+14155552671"},
		{"lowercase region", "415-555-2671", "us", "+14155552671"},
		{"garbage kept", "  call me  ", "US", "call me"},
		{"empty", "   ", "US", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input, tc.region); got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseE164ReportsValidity(t *testing.T) {
	if got, ok := ParseE164("(650) 253-0000", "US"); !ok || got != "+16502530000" {
		t.Fatalf("ParseE164 valid = (%q, %v)", got, ok)
	}
	for _, input := range []string{"+1", "16502", "", "call me"} {
		if got, ok := ParseE164(input, "US"); ok || got != "" {
			t.Fatalf("ParseE164(%q) = (%q, %v), want invalid", input, got, ok)
		}
	}
}
