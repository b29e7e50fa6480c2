// Package scoring converts recorded answers into section and overall
// completion percentages.
//
// Points are no/unanswered=0, partial=1, yes=2. A section's percentage is
// earned points over maximum points; the overall score is question-weighted
// across sections, so a larger section moves the overall score more than a
// smaller one.
package scoring

import (
	"fmt"
	"math"

	"github.com/cybercaution/cybercaution/internal/catalog"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

// Answer is a recorded response to a single question.
type Answer string

const (
	AnswerYes     Answer = "yes"
	AnswerPartial Answer = "partial"
	AnswerNo      Answer = "no"
)

// ParseAnswer validates a raw answer value.
func ParseAnswer(s string) (Answer, error) {
	switch Answer(s) {
	case AnswerYes, AnswerPartial, AnswerNo:
		return Answer(s), nil
	}
	return "", fmt.Errorf("%w: %q", sharedErrors.ErrInvalidAnswer, s)
}

// Points returns the score contribution of an answer. Unknown values score
// zero, same as an unanswered question.
func (a Answer) Points() int {
	switch a {
	case AnswerYes:
		return 2
	case AnswerPartial:
		return 1
	}
	return 0
}

// SectionScore is the derived score for one catalog section. PointsEarned and
// Answered are tracked separately: an unanswered question and a "no" both
// score zero points, but only the answered one counts toward completion.
type SectionScore struct {
	Title         string `json:"title"`
	Percentage    int    `json:"percentage"`
	Completed     bool   `json:"completed"`
	Answered      int    `json:"answered"`
	QuestionCount int    `json:"question_count"`
	PointsEarned  int    `json:"points_earned"`
	MaxPoints     int    `json:"max_points"`
}

// ScoreSection computes the score for a single section against the recorded
// answers. Sections always carry at least one question (catalog invariant),
// so MaxPoints is never zero for a validated catalog.
func ScoreSection(sec catalog.Section, answers map[string]Answer) SectionScore {
	score := SectionScore{
		Title:         sec.Title,
		QuestionCount: len(sec.Questions),
		MaxPoints:     2 * len(sec.Questions),
	}
	for _, q := range sec.Questions {
		a, ok := answers[q.ID]
		if ok {
			score.Answered++
		}
		score.PointsEarned += a.Points()
	}
	score.Completed = score.QuestionCount > 0 && score.Answered == score.QuestionCount
	score.Percentage = percentage(score.PointsEarned, score.MaxPoints)
	return score
}

// ScoreCatalog scores every section in catalog order and returns the
// question-weighted overall percentage.
func ScoreCatalog(cat *catalog.Catalog, answers map[string]Answer) (int, []SectionScore) {
	scores := make([]SectionScore, 0, len(cat.Sections))
	totalEarned, totalMax := 0, 0
	for _, sec := range cat.Sections {
		s := ScoreSection(sec, answers)
		totalEarned += s.PointsEarned
		totalMax += s.MaxPoints
		scores = append(scores, s)
	}
	return percentage(totalEarned, totalMax), scores
}

// CompletedSections counts the sections whose every question is answered.
func CompletedSections(scores []SectionScore) int {
	n := 0
	for _, s := range scores {
		if s.Completed {
			n++
		}
	}
	return n
}

// RequiredSections is the completion-gate threshold for a catalog of the
// given size: a majority of sections, ceil(n/2).
func RequiredSections(total int) int {
	return (total + 1) / 2
}

// GateMet reports whether results may be viewed: at least RequiredSections
// of the sections must be individually complete. This is a deliberately low
// bar so users can see partial results early.
func GateMet(scores []SectionScore) bool {
	if len(scores) == 0 {
		return false
	}
	return CompletedSections(scores) >= RequiredSections(len(scores))
}

// percentage rounds half-up; inputs are small non-negative integers.
func percentage(earned, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(earned) / float64(max)))
}
