package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Kej 13 Noemvri", "Kej 13 Noemvri"},
		{"  Partizanska   Blvd  ", "Partizanska Blvd"},
		{"one\t\ttwo\nthree", "one two three"},
	}
	for _, tt := range tests {
		if got := TrimAndNormalize(tt.in); got != tt.want {
			t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
