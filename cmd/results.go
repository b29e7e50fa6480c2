package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cybercaution/cybercaution/internal/account"
	"github.com/cybercaution/cybercaution/internal/report"
	"github.com/cybercaution/cybercaution/internal/results"
	"github.com/cybercaution/cybercaution/internal/scoring"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "View, export, and submit assessment results",
}

// buildSummary computes the result summary for an assessment, enforcing the
// completion gate. A session with no recorded answers yields a placeholder
// summary and ok=false instead of an error.
func buildSummary(ctx context.Context, appCtx *AppContext, assessmentType string) (results.Summary, bool, error) {
	sess, cat, err := loadSessionState(ctx, appCtx, assessmentType)
	if err != nil {
		return results.Summary{}, false, err
	}

	if sess.AnsweredCount() == 0 {
		return results.Placeholder(assessmentType), false, nil
	}

	_, scores := scoring.ScoreCatalog(cat, sess.Answers())
	if !scoring.GateMet(scores) {
		return results.Summary{}, false, fmt.Errorf("%w: complete at least %d of %d sections",
			sharedErrors.ErrResultsNotReady, scoring.RequiredSections(len(scores)), len(scores))
	}

	return results.Build(cat, sess.Answers(), time.Now().UTC()), true, nil
}

var resultsShowCmd = &cobra.Command{
	Use:   "show <type>",
	Short: "Show the result summary for an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		appCtx := getAppContext()
		asJSON, _ := cmd.Flags().GetBool("json")

		summary, ready, err := buildSummary(ctx, appCtx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if asJSON {
			b, _ := json.MarshalIndent(summary, jsonPrefix, jsonIndent)
			fmt.Fprintln(out, string(b))
			return nil
		}

		if !ready {
			fmt.Fprintf(out, "%s no assessment data found for %s; showing an empty summary\n\n",
				colorWarn("!"), args[0])
		}

		fmt.Fprintf(out, "%s\n", summary.FrameworkName)
		fmt.Fprintf(out, "Overall score: %d%%\n\n", summary.OverallScore)
		for _, sc := range summary.SectionScores {
			status := colorWarn("in progress")
			if sc.Completed {
				status = colorSuccess("complete")
			}
			fmt.Fprintf(out, "  %-52s %3d%%  %s\n", sc.Title, sc.Percentage, status)
		}
		if !summary.CompletedAt.IsZero() {
			fmt.Fprintf(out, "\nCompleted: %s\n", summary.CompletedAt.Format(time.RFC3339))
		}
		return nil
	},
}

var resultsExportCmd = &cobra.Command{
	Use:   "export <type>",
	Short: "Export the result summary as json, md, html, or pdf",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		appCtx := getAppContext()
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		summary, _, err := buildSummary(ctx, appCtx, args[0])
		if err != nil {
			return err
		}

		format = strings.ToLower(format)
		title := summary.FrameworkName + " Assessment Report"

		var data []byte
		switch format {
		case "json":
			data, err = json.MarshalIndent(summary, jsonPrefix, jsonIndent)
		case "md", "markdown":
			format = "md"
			var s string
			s, err = report.RenderMarkdown(report.BuildTemplateData(title, summary))
			data = []byte(s)
		case "html":
			var s string
			s, err = report.RenderHTML(report.BuildTemplateData(title, summary))
			data = []byte(s)
		case "pdf":
			data, err = report.GeneratePDFBytes(title, summary, time.Now().Format("2006-01-02 15:04"))
		default:
			return fmt.Errorf("unsupported format %q (expected json, md, html, or pdf)", format)
		}
		if err != nil {
			return fmt.Errorf("failed to render %s report: %w", format, err)
		}

		if output == "" {
			exportsDir, err := getExportsDir(appCtx.DataDir)
			if err != nil {
				return err
			}
			filename := fmt.Sprintf("%s_%s.%s", args[0], time.Now().Format("20060102_150405"), format)
			output = filepath.Join(exportsDir, filename)
		}

		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s exported %s report to %s\n", colorSuccess("✓"), format, output)
		return nil
	},
}

var resultsSubmitCmd = &cobra.Command{
	Use:   "submit <type>",
	Short: "Save the result to your account on the configured server",
	Long: `Submit the completed assessment to the account server. On success the
local saved progress is cleared; on failure it is kept so the submission
can be retried.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		appCtx := getAppContext()

		serverURL, _ := cmd.Flags().GetString("url")
		token, _ := cmd.Flags().GetString("token")
		userID, _ := cmd.Flags().GetString("user")

		if serverURL == "" {
			serverURL = viper.GetString("account.url")
		}
		if token == "" {
			token = viper.GetString("account.token")
		}
		if userID == "" {
			userID = appCtx.Operator
		}

		summary, ready, err := buildSummary(ctx, appCtx, args[0])
		if err != nil {
			return err
		}
		if !ready {
			return fmt.Errorf("no assessment data found for %s", args[0])
		}

		client, err := account.NewClient(serverURL, token, appCtx.Logger)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := client.SaveResult(ctx, userID, summary); err != nil {
			if errors.Is(err, sharedErrors.ErrUnauthenticated) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s not authenticated - please log in (set account.token in ~/.cybercaution.yaml or pass --token)\n",
					colorError("✗"))
				fmt.Fprintf(cmd.OutOrStdout(), "Your progress is kept locally; retry after logging in.\n")
				return err
			}
			return fmt.Errorf("failed to save result (progress kept locally): %w", err)
		}

		// Remote save succeeded; the local snapshot is no longer the source
		// of truth.
		if err := appCtx.Snapshots.Delete(ctx, args[0]); err != nil {
			appCtx.Logger.Warnw("could not clear local progress after submit",
				"assessment_type", args[0], "error", err)
		}

		if err := recordTelemetry(appCtx, args[0], "results submit", summary, time.Since(start)); err != nil {
			appCtx.Logger.Warnw("could not record telemetry", "error", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s result saved to account for %s (overall %d%%)\n",
			colorSuccess("✓"), userID, summary.OverallScore)
		return nil
	},
}

func init() {
	resultsShowCmd.Flags().Bool("json", false, "Output as JSON")

	resultsExportCmd.Flags().StringP("format", "f", "pdf", "Export format: json, md, html, pdf")
	resultsExportCmd.Flags().StringP("output", "O", "", "Output file (default: exports dir with timestamped name)")

	resultsSubmitCmd.Flags().String("url", "", "Account server base URL (or account.url in config)")
	resultsSubmitCmd.Flags().String("token", "", "Auth token (or account.token in config)")
	resultsSubmitCmd.Flags().String("user", "", "User ID to save under (default: operator)")

	resultsCmd.AddCommand(resultsShowCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	resultsCmd.AddCommand(resultsSubmitCmd)
	resultsCmd.AddCommand(resultsHistoryCmd)
}
