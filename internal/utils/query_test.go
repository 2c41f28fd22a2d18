package utils

import (
	"errors"
	"testing"
)

func TestOptionalInt(t *testing.T) {
	cases := []struct {
		s       string
		want    int
		present bool
		bad     bool
	}{
		{"", 0, false, false},
		{"   ", 0, false, false},
		{"42", 42, true, false},
		{" 7 ", 7, true, false},
		{"-13", -13, true, false},
		{"0012", 12, true, false},
		{"x", 0, true, true},
		{"999999999999999999999999", 0, true, true},
	}
	for _, tc := range cases {
		n, present, err := OptionalInt(tc.s)
		if present != tc.present || (err != nil) != tc.bad || n != tc.want {
			t.Fatalf("OptionalInt(%q) = (%d, %v, %v)", tc.s, n, present, err)
		}
		if tc.bad && !errors.Is(err, ErrNotInteger) {
			t.Fatalf("OptionalInt(%q): expected ErrNotInteger, got %v", tc.s, err)
		}
	}
}

func TestSortDesc(t *testing.T) {
	cases := []struct {
		in       string
		def      bool
		wantDesc bool
		wantOK   bool
	}{
		{"", true, true, true},
		{"", false, false, true},
		{"DESC", false, true, true},
		{"newest", false, true, true},
		{"asc", true, false, true},
		{" Oldest ", true, false, true},
		{"sideways", true, true, false},
	}
	for _, tc := range cases {
		desc, ok := SortDesc(tc.in, tc.def)
		if desc != tc.wantDesc || ok != tc.wantOK {
			t.Fatalf("SortDesc(%q, %v) = (%v, %v); want (%v, %v)", tc.in, tc.def, desc, ok, tc.wantDesc, tc.wantOK)
		}
	}
}
