package fieldpath

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"root[quotes][0][breakdowns][2][passenger][first_name]",
			[]string{"root", "quotes", "0", "breakdowns", "2", "passenger", "first_name"}},
		{"email", []string{"email"}},
		{"root[contact][email]", []string{"root", "contact", "email"}},
		{"root[]", []string{"root", ""}},
		{"", nil},
		// Unclosed bracket keeps what parsed before it
		{"root[quotes][0][oops", []string{"root", "quotes", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.name)
			if !reflect.DeepEqual(got.Segments, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.name, got.Segments, tt.want)
			}
		})
	}
}

func TestPath_Last(t *testing.T) {
	if got := Parse("root[contact][email]").Last(); got != "email" {
		t.Errorf("Last() = %q", got)
	}
	if got := Parse("").Last(); got != "" {
		t.Errorf("empty Last() = %q", got)
	}
}

func TestPath_Contains(t *testing.T) {
	p := Parse("root[quotes][0][Riders][3]")

	if !p.Contains("riders") {
		t.Error("Contains must be case-insensitive")
	}
	if p.Contains("passenger") {
		t.Error("absent segment reported present")
	}
}

func TestPath_IndexAfter(t *testing.T) {
	p := Parse("root[quotes][0][breakdowns][2][passenger][first_name]")

	idx, ok := p.IndexAfter("breakdowns")
	if !ok || idx != 2 {
		t.Errorf("IndexAfter(breakdowns) = %d, %v", idx, ok)
	}

	if _, ok := p.IndexAfter("riders"); ok {
		t.Error("absent marker must not resolve")
	}

	// Marker followed by a non-integer
	q := Parse("root[breakdowns][passenger]")
	if _, ok := q.IndexAfter("breakdowns"); ok {
		t.Error("non-integer follower must not resolve")
	}
}
