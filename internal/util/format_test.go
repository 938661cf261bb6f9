package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: -time.Second, want: "0:00"},
		{in: 0, want: "0:00"},
		{in: 113 * time.Second, want: "1:53"},
		{in: 164*time.Second + 900*time.Millisecond, want: "2:44"},
		{in: time.Hour + 123*time.Second, want: "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
