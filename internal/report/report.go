// Package report renders a result summary as PDF, Markdown, or HTML.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/cybercaution/cybercaution/internal/catalog"
	"github.com/cybercaution/cybercaution/internal/results"
	"github.com/cybercaution/cybercaution/internal/scoring"
)

//go:embed templates/report.md templates/report.html
var templateFS embed.FS

var templateFuncs = map[string]interface{}{
	"statusLabel": statusLabel,
	"gradeFor":    gradeFor,
	"formatTime":  formatShortTimestamp,
}

var (
	markdownTemplate = texttemplate.Must(
		texttemplate.New("report.md").Funcs(templateFuncs).ParseFS(templateFS, "templates/report.md"),
	)
	htmlTemplate = template.Must(
		template.New("report.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/report.html"),
	)
)

// TemplateData holds everything the Markdown/HTML templates render.
type TemplateData struct {
	Title         string
	Summary       results.Summary
	Grade         string
	GeneratedAt   string
	CompletedAt   string
	Completed     int
	SectionCount  int
	QuestionCount int
	Answered      int
	Frameworks    []catalog.FrameworkInfo
}

// BuildTemplateData derives the render-ready fields from a summary.
func BuildTemplateData(title string, summary results.Summary) TemplateData {
	completed := scoring.CompletedSections(summary.SectionScores)
	questions, answered := 0, 0
	for _, s := range summary.SectionScores {
		questions += s.QuestionCount
		answered += s.Answered
	}

	completedAt := ""
	if !summary.CompletedAt.IsZero() {
		completedAt = summary.CompletedAt.Format(time.RFC1123)
	}

	return TemplateData{
		Title:         title,
		Summary:       summary,
		Grade:         gradeFor(summary.OverallScore),
		GeneratedAt:   time.Now().Format(time.RFC1123),
		CompletedAt:   completedAt,
		Completed:     completed,
		SectionCount:  len(summary.SectionScores),
		QuestionCount: questions,
		Answered:      answered,
		Frameworks:    frameworksFor(summary),
	}
}

func frameworksFor(summary results.Summary) []catalog.FrameworkInfo {
	known := catalog.GetFrameworkInfo()
	var out []catalog.FrameworkInfo
	for key, info := range known {
		if strings.Contains(summary.FrameworkName, key) ||
			strings.Contains(summary.FrameworkName, info.Name) {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// RenderMarkdown produces the Markdown report body.
func RenderMarkdown(data TemplateData) (string, error) {
	var buf strings.Builder
	if err := markdownTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute report.md template: %w", err)
	}
	return buf.String(), nil
}

// RenderHTML produces the HTML report body.
func RenderHTML(data TemplateData) (string, error) {
	var buf strings.Builder
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute report.html template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDFBytes renders the summary as a PDF document: title, overall
// score, a row per section, and the formatted completion date.
func GeneratePDFBytes(title string, summary results.Summary, formattedDate string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Assessment: %s", summary.AssessmentType), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Framework: %s", summary.FrameworkName), "", 1, "", false, 0, "")
	if formattedDate != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Completed: %s", formattedDate), "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("Overall Score: %d%% (Grade %s)", summary.OverallScore, gradeFor(summary.OverallScore)), "", 1, "", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Section Breakdown", "", 1, "", false, 0, "")
	pdf.Ln(1)

	// Table header
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(110, 6, "Section", "1", 0, "", true, 0, "")
	pdf.CellFormat(25, 6, "Score", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 6, "Answered", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 6, "Status", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, s := range summary.SectionScores {
		if pdf.GetY() > 265 {
			pdf.AddPage()
		}
		pdf.CellFormat(110, 6, s.Title, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d%%", s.Percentage), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d/%d", s.Answered, s.QuestionCount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, statusLabel(s.Completed), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	// Framework references
	frameworks := frameworksFor(summary)
	if len(frameworks) > 0 {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, "Framework References", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, fw := range frameworks {
			pdf.MultiCell(0, 5, fmt.Sprintf("%s %s - %s", fw.Publisher, fw.Key, fw.Description), "", "", false)
		}
		pdf.Ln(2)
	}

	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04:05")), "", 1, "", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func statusLabel(completed bool) string {
	if completed {
		return "Complete"
	}
	return "In progress"
}

// gradeFor maps an overall percentage onto a coarse letter grade for display.
func gradeFor(percentage int) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 75:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 40:
		return "D"
	default:
		return "F"
	}
}

func formatShortTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 02 15:04")
}
