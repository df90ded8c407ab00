package core

import "testing"

func TestLastLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"empty", "", 3, ""},
		{"whitespace only", "  \n\n  ", 3, ""},
		{"fewer than n", "one\ntwo", 3, "one\ntwo"},
		{"trims to n", "a\nb\nc\nd", 2, "c\nd"},
		{"skips blank lines", "a\n\n\nb\n", 2, "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastLines(tt.in, tt.n); got != tt.want {
				t.Errorf("lastLines(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
