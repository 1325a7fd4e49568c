package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct{ in, want string }{
		{"<b>hot lead</b>", "hot lead"},
		{"  plain  ", "plain"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
		{"a &amp; b", "a & b"},
	}
	for _, tc := range tests {
		if got := StripHTML(tc.in); got != tc.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTextPtrNil(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatal("expected nil")
	}
}
