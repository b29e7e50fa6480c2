package cmd

import (
	"testing"

	"github.com/fatih/color"
)

func TestFormatAnswerWithColor(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{name: "yes", answer: "yes", want: "yes"},
		{name: "mixed case", answer: "Partial", want: "Partial"},
		{name: "no", answer: "no", want: "no"},
		{name: "unknown passthrough", answer: "unanswered", want: "unanswered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAnswerWithColor(tt.answer); got != tt.want {
				t.Fatalf("formatAnswerWithColor(%q) = %q, want %q", tt.answer, got, tt.want)
			}
		})
	}
}
