package report

import (
	"strings"
	"testing"
	"time"

	"github.com/cybercaution/cybercaution/internal/results"
	"github.com/cybercaution/cybercaution/internal/scoring"
)

func testSummary() results.Summary {
	return results.Summary{
		OverallScore:   76,
		AssessmentType: "ransomware",
		FrameworkName:  "NIST IR 8374",
		CompletedAt:    time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC),
		SectionScores: []scoring.SectionScore{
			{Title: "Risk Management", Percentage: 80, Completed: true, Answered: 4, QuestionCount: 4, PointsEarned: 6, MaxPoints: 8},
			{Title: "Backups & Recovery", Percentage: 70, Completed: false, Answered: 2, QuestionCount: 4, PointsEarned: 5, MaxPoints: 8},
		},
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "A"}, {90, "A"},
		{89, "B"}, {75, "B"},
		{74, "C"}, {60, "C"},
		{59, "D"}, {40, "D"},
		{39, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		if got := gradeFor(tt.score); got != tt.want {
			t.Errorf("gradeFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestBuildTemplateData(t *testing.T) {
	data := BuildTemplateData("Ransomware Report", testSummary())

	if data.Grade != "B" {
		t.Errorf("grade = %q, want B", data.Grade)
	}
	if data.Completed != 1 || data.SectionCount != 2 {
		t.Errorf("section counts wrong: completed=%d total=%d", data.Completed, data.SectionCount)
	}
	if data.QuestionCount != 8 || data.Answered != 6 {
		t.Errorf("question counts wrong: questions=%d answered=%d", data.QuestionCount, data.Answered)
	}
	if data.CompletedAt == "" {
		t.Error("expected a formatted completion time")
	}
	if len(data.Frameworks) == 0 {
		t.Error("expected framework info for NIST IR 8374")
	}
}

func TestBuildTemplateData_NoCompletionTime(t *testing.T) {
	s := testSummary()
	s.CompletedAt = time.Time{}
	data := BuildTemplateData("t", s)
	if data.CompletedAt != "" {
		t.Errorf("zero completion time must render empty, got %q", data.CompletedAt)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown(BuildTemplateData("Ransomware Report", testSummary()))
	if err != nil {
		t.Fatalf("RenderMarkdown returned error: %v", err)
	}

	for _, want := range []string{"Ransomware Report", "76", "Risk Management", "Backups & Recovery"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(BuildTemplateData("Ransomware Report", testSummary()))
	if err != nil {
		t.Fatalf("RenderHTML returned error: %v", err)
	}

	if !strings.Contains(out, "Ransomware Report") {
		t.Error("html output missing title")
	}
	if !strings.Contains(out, "Risk Management") {
		t.Error("html output missing section title")
	}
	// html/template must escape the ampersand in the section title.
	if !strings.Contains(out, "Backups &amp; Recovery") {
		t.Error("expected escaped section title in html output")
	}
}

func TestGeneratePDFBytes(t *testing.T) {
	data, err := GeneratePDFBytes("Ransomware Report", testSummary(), "2026-05-10 09:30")
	if err != nil {
		t.Fatalf("GeneratePDFBytes returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected PDF bytes")
	}
	if !strings.HasPrefix(string(data[:5]), "%PDF-") {
		t.Errorf("output does not look like a PDF: %q", data[:5])
	}
}

func TestGeneratePDFBytes_ManySections(t *testing.T) {
	s := testSummary()
	for i := 0; i < 60; i++ {
		s.SectionScores = append(s.SectionScores, scoring.SectionScore{
			Title: "Extra Section", Percentage: 50, Answered: 1, QuestionCount: 2,
		})
	}
	if _, err := GeneratePDFBytes("Long Report", s, "2026-05-10 09:30"); err != nil {
		t.Fatalf("long report failed: %v", err)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := statusLabel(true); got != "Complete" {
		t.Errorf("statusLabel(true) = %q", got)
	}
	if got := statusLabel(false); got != "In progress" {
		t.Errorf("statusLabel(false) = %q", got)
	}
}
