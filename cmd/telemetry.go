package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cybercaution/cybercaution/internal/results"
	"github.com/cybercaution/cybercaution/internal/scoring"
)

type telemetryRecord struct {
	Timestamp        time.Time `json:"timestamp"`
	Command          string    `json:"command"`
	AssessmentType   string    `json:"assessment_type"`
	OverallScore     int       `json:"overall_score"`
	SectionsComplete int       `json:"sections_complete"`
	SectionCount     int       `json:"section_count"`
	DurationSeconds  float64   `json:"duration_seconds"`
}

func recordTelemetry(appCtx *AppContext, assessmentType string, command string, summary results.Summary, duration time.Duration) error {
	record := telemetryRecord{
		Timestamp:        time.Now().UTC(),
		Command:          command,
		AssessmentType:   assessmentType,
		OverallScore:     summary.OverallScore,
		SectionsComplete: scoring.CompletedSections(summary.SectionScores),
		SectionCount:     len(summary.SectionScores),
		DurationSeconds:  duration.Seconds(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	telemetryPath := filepath.Join(appCtx.DataDir, "telemetry.jsonl")
	f, err := os.OpenFile(telemetryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) // #nosec G304 -- path rooted in the app data dir.
	if err != nil {
		return fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write telemetry: %w", err)
	}

	return nil
}

// loadTelemetryHistory returns the most recent records for one assessment
// type, oldest first. Malformed lines are skipped.
func loadTelemetryHistory(dataDir, assessmentType string, limit int) ([]telemetryRecord, error) {
	telemetryPath := filepath.Join(dataDir, "telemetry.jsonl")
	f, err := os.Open(telemetryPath) // #nosec G304 -- path rooted in the app data dir.
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	var records []telemetryRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec telemetryRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if assessmentType != "" && rec.AssessmentType != assessmentType {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read telemetry file: %w", err)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

func printScoreTrendASCII(records []telemetryRecord) {
	const barWidth = 40
	fmt.Println(colorInfo("Assessment Score Trend"))
	for _, rec := range records {
		barLen := int(math.Round((float64(rec.OverallScore) / 100.0) * barWidth))
		if barLen < 0 {
			barLen = 0
		}
		if barLen > barWidth {
			barLen = barWidth
		}
		if barLen == 0 && rec.OverallScore > 0 {
			barLen = 1
		}
		bar := strings.Repeat("#", barLen)
		fmt.Printf("%s | %3d%% | %-*s | %s (%d/%d sections)\n",
			rec.Timestamp.Format("2006-01-02 15:04"),
			rec.OverallScore,
			barWidth,
			bar,
			rec.AssessmentType,
			rec.SectionsComplete,
			rec.SectionCount,
		)
	}
}

var resultsHistoryCmd = &cobra.Command{
	Use:   "history <type>",
	Short: "Graph the score trend of submitted results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext()

		format, _ := cmd.Flags().GetString("format")
		limit, _ := cmd.Flags().GetInt("limit")

		history, err := loadTelemetryHistory(appCtx.DataDir, args[0], limit)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Printf("%s submission records found for %s\n", colorWarn("No"), args[0])
			return nil
		}

		switch strings.ToLower(format) {
		case "json":
			out, err := json.MarshalIndent(history, jsonPrefix, jsonIndent)
			if err != nil {
				return fmt.Errorf("marshal telemetry: %w", err)
			}
			fmt.Println(string(out))
		case "ascii":
			printScoreTrendASCII(history)
		default:
			return fmt.Errorf("unsupported format %s (use ascii or json)", format)
		}

		return nil
	},
}

func init() {
	resultsHistoryCmd.Flags().String("format", "ascii", "Output format: ascii|json")
	resultsHistoryCmd.Flags().Int("limit", 10, "Number of recent submissions to display")
}
