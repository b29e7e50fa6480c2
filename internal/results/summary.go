// Package results builds and hands off the computed assessment summary.
package results

import (
	"sync"
	"time"

	"github.com/cybercaution/cybercaution/internal/catalog"
	"github.com/cybercaution/cybercaution/internal/scoring"
)

// Summary is the display-ready aggregate handed to the results view and to
// the account service. Section scores follow catalog order.
type Summary struct {
	OverallScore   int                    `json:"overall_score"`
	SectionScores  []scoring.SectionScore `json:"section_scores"`
	AssessmentType string                 `json:"assessment_type"`
	FrameworkName  string                 `json:"framework_name"`
	CompletedAt    time.Time              `json:"completed_at"`
}

// Build computes a summary for the given catalog and answers.
func Build(cat *catalog.Catalog, answers map[string]scoring.Answer, completedAt time.Time) Summary {
	overall, sections := scoring.ScoreCatalog(cat, answers)
	return Summary{
		OverallScore:   overall,
		SectionScores:  sections,
		AssessmentType: cat.Type,
		FrameworkName:  cat.Framework,
		CompletedAt:    completedAt,
	}
}

// Placeholder is the zero-score summary shown when a results view is reached
// with no handoff state. Rendering it instead of erroring keeps the view
// alive on refresh or a direct visit.
func Placeholder(assessmentType string) Summary {
	return Summary{
		OverallScore:   0,
		SectionScores:  []scoring.SectionScore{},
		AssessmentType: assessmentType,
	}
}

// HandoffStore carries a summary from the assessment flow to the results
// view within the same process. Take is one-shot and explicit about absence:
// the boolean distinguishes "no data" from a genuinely zero score.
type HandoffStore struct {
	mu      sync.Mutex
	pending map[string]Summary
}

func NewHandoffStore() *HandoffStore {
	return &HandoffStore{pending: make(map[string]Summary)}
}

// Put stages a summary under the given key (session id or assessment type).
func (h *HandoffStore) Put(key string, s Summary) {
	h.mu.Lock()
	h.pending[key] = s
	h.mu.Unlock()
}

// Take removes and returns the staged summary. When nothing is staged it
// returns a placeholder and false.
func (h *HandoffStore) Take(key string) (Summary, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.pending[key]
	if !ok {
		return Placeholder(key), false
	}
	delete(h.pending, key)
	return s, true
}
