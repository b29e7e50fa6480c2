// Package session holds the in-progress answer set and section pointer for
// one assessment.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cybercaution/cybercaution/internal/scoring"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

// Session is the mutable state of one in-progress assessment: the recorded
// answers and the current section pointer. It is an aggregate root; all
// mutation goes through its methods. Safe for concurrent use: API handlers
// read a live session while another request mutates it, and the autosaver
// reads answers from its timer goroutine.
type Session struct {
	mu             sync.RWMutex
	id             string
	assessmentType string
	answers        map[string]scoring.Answer
	section        int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewSession creates an empty session for the given assessment type.
func NewSession(assessmentType string) (*Session, error) {
	if assessmentType == "" {
		return nil, sharedErrors.ErrEmptyCatalogType
	}
	now := time.Now().UTC()
	return &Session{
		id:             uuid.NewString(),
		assessmentType: assessmentType,
		answers:        make(map[string]scoring.Answer),
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstruct rebuilds a session from persisted data (for repository use).
func Reconstruct(id, assessmentType string, answers map[string]scoring.Answer, section int, createdAt, updatedAt time.Time) *Session {
	if answers == nil {
		answers = make(map[string]scoring.Answer)
	}
	return &Session{
		id:             id,
		assessmentType: assessmentType,
		answers:        answers,
		section:        section,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// SetAnswer records or overwrites the answer for a question. The value must
// be yes, partial, or no; question ids are not validated against the catalog
// (unknown ids are accepted and simply never scored).
func (s *Session) SetAnswer(questionID string, value scoring.Answer) error {
	if questionID == "" {
		return sharedErrors.ErrEmptyQuestionID
	}
	if _, err := scoring.ParseAnswer(string(value)); err != nil {
		return err
	}
	s.mu.Lock()
	s.answers[questionID] = value
	s.updatedAt = time.Now().UTC()
	s.mu.Unlock()
	return nil
}

// SetSection moves the current section pointer. Bounds are the caller's
// responsibility; callers clamp against the active catalog's section count.
func (s *Session) SetSection(index int) {
	s.mu.Lock()
	s.section = index
	s.updatedAt = time.Now().UTC()
	s.mu.Unlock()
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) AssessmentType() string {
	return s.assessmentType
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() map[string]scoring.Answer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]scoring.Answer, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// AnswerFor returns the recorded answer for a question, if any.
func (s *Session) AnswerFor(questionID string) (scoring.Answer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.answers[questionID]
	return a, ok
}

func (s *Session) AnsweredCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}

func (s *Session) Section() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.section
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
