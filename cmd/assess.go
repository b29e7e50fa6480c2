package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cybercaution/cybercaution/internal/catalog"
	jsonrepo "github.com/cybercaution/cybercaution/internal/persistence/json"
	"github.com/cybercaution/cybercaution/internal/scoring"
	"github.com/cybercaution/cybercaution/internal/session"
	consts "github.com/cybercaution/cybercaution/internal/shared/constants"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Start, answer, and track security assessments",
}

// loadSessionState restores the in-progress session for an assessment type,
// or starts a fresh one when no usable snapshot exists.
func loadSessionState(ctx context.Context, appCtx *AppContext, assessmentType string) (*session.Session, *catalog.Catalog, error) {
	cat, err := appCtx.Registry.Get(assessmentType)
	if err != nil {
		return nil, nil, err
	}

	if snap, ok := appCtx.Snapshots.Load(ctx, assessmentType, cat.Checksum()); ok {
		// CLI sessions are identified by assessment type; one in-progress
		// assessment per type.
		sess := session.Reconstruct(
			assessmentType, assessmentType,
			snap.TypedAnswers(),
			clampSection(snap.Section, len(cat.Sections)),
			snap.Timestamp, snap.Timestamp,
		)
		return sess, cat, nil
	}

	sess, err := session.NewSession(assessmentType)
	if err != nil {
		return nil, nil, err
	}
	return sess, cat, nil
}

// persistSession writes the session state as the snapshot for its type.
func persistSession(ctx context.Context, appCtx *AppContext, cat *catalog.Catalog, sess *session.Session) error {
	snap := jsonrepo.NewSnapshot(sess.AssessmentType(), cat.Checksum(), sess.Answers(), sess.Section())
	return appCtx.Snapshots.Save(ctx, snap)
}

func clampSection(index, sectionCount int) int {
	if index < 0 {
		return 0
	}
	if index >= sectionCount {
		return sectionCount - 1
	}
	return index
}

var assessStartCmd = &cobra.Command{
	Use:   "start <type>",
	Short: "Start an assessment (resumes saved progress when present)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		appCtx := getAppContext()
		fresh, _ := cmd.Flags().GetBool("fresh")

		assessmentType := args[0]
		if fresh {
			if err := appCtx.Snapshots.Delete(ctx, assessmentType); err != nil {
				return fmt.Errorf("failed to discard saved progress: %w", err)
			}
		}

		sess, cat, err := loadSessionState(ctx, appCtx, assessmentType)
		if err != nil {
			return err
		}

		if err := persistSession(ctx, appCtx, cat, sess); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		out := cmd.OutOrStdout()
		if sess.AnsweredCount() > 0 {
			fmt.Fprintf(out, "%s resumed %s: %d/%d answered, section %d of %d\n",
				colorInfo("→"), cat.Name, sess.AnsweredCount(), cat.QuestionCount(),
				sess.Section()+1, len(cat.Sections))
		} else {
			fmt.Fprintf(out, "%s started %s: %d sections, %d questions\n",
				colorSuccess("✓"), cat.Name, len(cat.Sections), cat.QuestionCount())
		}
		fmt.Fprintf(out, "Answer with: cybercaution assess answer %s <question-id> <yes|partial|no>\n", assessmentType)
		return nil
	},
}

var assessAnswerCmd = &cobra.Command{
	Use:   "answer <type> <question-id> <yes|partial|no>",
	Short: "Record one answer and save progress",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		appCtx := getAppContext()

		assessmentType, questionID, value := args[0], args[1], args[2]

		sess, cat, err := loadSessionState(ctx, appCtx, assessmentType)
		if err != nil {
			return err
		}

		answer, err := scoring.ParseAnswer(value)
		if err != nil {
			return err
		}
		if !cat.HasQuestion(questionID) {
			appCtx.Logger.Warnw("answer recorded for unknown question",
				"assessment_type", assessmentType, "question_id", questionID)
		}
		if err := sess.SetAnswer(questionID, answer); err != nil {
			return err
		}

		if err := persistSession(ctx, appCtx, cat, sess); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s (%d/%d answered)\n",
			colorSuccess("✓"), questionID, formatAnswerWithColor(string(answer)),
			sess.AnsweredCount(), cat.QuestionCount())
		return nil
	},
}

var assessSectionCmd = &cobra.Command{
	Use:   "section <type> <number>",
	Short: "Move to a section (1-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		appCtx := getAppContext()

		assessmentType := args[0]
		number, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid section number %q", args[1])
		}

		sess, cat, err := loadSessionState(ctx, appCtx, assessmentType)
		if err != nil {
			return err
		}

		sess.SetSection(clampSection(number-1, len(cat.Sections)))
		if err := persistSession(ctx, appCtx, cat, sess); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		sec := cat.Sections[sess.Section()]
		fmt.Fprintf(cmd.OutOrStdout(), "%s section %d: %s\n",
			colorInfo("→"), sess.Section()+1, sec.Title)
		return nil
	},
}

var assessStatusCmd = &cobra.Command{
	Use:   "status <type>",
	Short: "Show per-section progress and the current overall score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		appCtx := getAppContext()

		sess, cat, err := loadSessionState(ctx, appCtx, args[0])
		if err != nil {
			return err
		}

		answers := sess.Answers()
		overall, scores := scoring.ScoreCatalog(cat, answers)
		completed := scoring.CompletedSections(scores)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s — %s\n\n", cat.Name, cat.Framework)
		for i, sc := range scores {
			marker := " "
			if i == sess.Section() {
				marker = colorInfo("→")
			}
			status := colorWarn(fmt.Sprintf("%d/%d", sc.Answered, sc.QuestionCount))
			if sc.Completed {
				status = colorSuccess(fmt.Sprintf("done %d%%", sc.Percentage))
			}
			fmt.Fprintf(out, "%s [%d] %-52s %s\n", marker, i+1, sc.Title, status)
		}

		fmt.Fprintf(out, "\nSections complete: %d/%d\n", completed, len(scores))
		fmt.Fprintf(out, "Overall score:     %d%%\n", overall)
		if scoring.GateMet(scores) {
			fmt.Fprintf(out, "%s results available: cybercaution results show %s\n",
				colorSuccess("✓"), args[0])
		} else {
			fmt.Fprintf(out, "%s complete at least %d sections to view results\n",
				colorWarn("!"), scoring.RequiredSections(len(scores)))
		}
		return nil
	},
}

var assessResetCmd = &cobra.Command{
	Use:   "reset <type>",
	Short: "Discard saved progress for an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		appCtx := getAppContext()

		if err := appCtx.Snapshots.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to discard saved progress: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s progress for %s discarded\n", colorSuccess("✓"), args[0])
		return nil
	},
}

var assessRunCmd = &cobra.Command{
	Use:   "run <type>",
	Short: "Answer questions interactively with debounced autosave",
	Long: `Walk through the catalog question by question. Answers are saved
automatically shortly after you stop typing; 'save' forces an immediate
write and 'quit' saves and exits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		appCtx := getAppContext()

		sess, cat, err := loadSessionState(ctx, appCtx, args[0])
		if err != nil {
			return err
		}

		saver := session.NewAutosaver(consts.AutosaveDebounce, func() error {
			return persistSession(context.Background(), appCtx, cat, sess)
		}, appCtx.Logger)
		defer saver.Close()

		in := bufio.NewScanner(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%s — answer yes/partial/no (y/p/n), 'skip', 'save', or 'quit'\n\n", cat.Name)

		if err := runInteractive(in, out, cat, sess, saver); err != nil {
			return err
		}

		// Final flush so nothing typed in the last debounce window is lost.
		if err := saver.Flush(); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		overall, scores := scoring.ScoreCatalog(cat, sess.Answers())
		fmt.Fprintf(out, "\nProgress saved. %d/%d answered, overall score %d%%.\n",
			sess.AnsweredCount(), cat.QuestionCount(), overall)
		if scoring.GateMet(scores) {
			fmt.Fprintf(out, "%s results available: cybercaution results show %s\n",
				colorSuccess("✓"), args[0])
		}
		return nil
	},
}

// runInteractive drives the question loop. It returns on end of input or
// when the operator quits.
func runInteractive(in *bufio.Scanner, out io.Writer, cat *catalog.Catalog, sess *session.Session, saver *session.Autosaver) error {
	for si := sess.Section(); si < len(cat.Sections); si++ {
		sec := cat.Sections[si]
		sess.SetSection(si)
		saver.Notify()

		fmt.Fprintf(out, "%s Section %d/%d: %s\n", colorInfo("→"), si+1, len(cat.Sections), sec.Title)
		if sec.Description != "" {
			fmt.Fprintf(out, "  %s\n", sec.Description)
		}

		for _, q := range sec.Questions {
			current := ""
			if a, ok := sess.AnswerFor(q.ID); ok {
				current = fmt.Sprintf(" [%s]", formatAnswerWithColor(string(a)))
			}
			fmt.Fprintf(out, "\n%s %s%s\n> ", colorInfo(q.ID), q.Prompt, current)

			answered := false
			for !answered {
				if !in.Scan() {
					return in.Err()
				}
				input := strings.ToLower(strings.TrimSpace(in.Text()))

				switch input {
				case "quit", "q":
					return nil
				case "save":
					if err := saver.Flush(); err != nil {
						fmt.Fprintf(out, "%s save failed: %v\n> ", colorError("✗"), err)
						continue
					}
					fmt.Fprintf(out, "%s saved\n> ", colorSuccess("✓"))
				case "skip", "s", "":
					answered = true
				case "yes", "y":
					recordInteractiveAnswer(out, sess, saver, q.ID, scoring.AnswerYes)
					answered = true
				case "partial", "p":
					recordInteractiveAnswer(out, sess, saver, q.ID, scoring.AnswerPartial)
					answered = true
				case "no", "n":
					recordInteractiveAnswer(out, sess, saver, q.ID, scoring.AnswerNo)
					answered = true
				default:
					fmt.Fprintf(out, "%s answer yes/partial/no, 'skip', 'save', or 'quit'\n> ", colorWarn("?"))
				}
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}

func recordInteractiveAnswer(out io.Writer, sess *session.Session, saver *session.Autosaver, questionID string, a scoring.Answer) {
	if err := sess.SetAnswer(questionID, a); err != nil {
		fmt.Fprintf(out, "%s %v\n", colorError("✗"), err)
		return
	}
	saver.Notify()
}

func init() {
	assessStartCmd.Flags().Bool("fresh", false, "Discard any saved progress and start over")

	assessCmd.AddCommand(assessStartCmd)
	assessCmd.AddCommand(assessAnswerCmd)
	assessCmd.AddCommand(assessSectionCmd)
	assessCmd.AddCommand(assessStatusCmd)
	assessCmd.AddCommand(assessResetCmd)
	assessCmd.AddCommand(assessRunCmd)
}
