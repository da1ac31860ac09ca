package quote

import "testing"

func TestMapToPurchaseID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"D-30", "M-30"},
		{"D-100", "M-100"},
		{"M-30", "M-30"},
		{"X-5", "X-5"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MapToPurchaseID(tt.in); got != tt.want {
			t.Errorf("MapToPurchaseID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapToQuoteID(t *testing.T) {
	if got := MapToQuoteID("M-30"); got != "D-30" {
		t.Errorf("MapToQuoteID(M-30) = %q", got)
	}
	if got := MapToQuoteID("D-30"); got != "D-30" {
		t.Errorf("MapToQuoteID(D-30) = %q", got)
	}
}

func TestPlanIDMapping_RoundTrip(t *testing.T) {
	for _, id := range []string{"D-15", "D-30", "D-60", "D-100"} {
		if got := MapToQuoteID(MapToPurchaseID(id)); got != id {
			t.Errorf("round trip of %q = %q", id, got)
		}
	}
}
