package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cybercaution/cybercaution/internal/scoring"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

func TestNewSession(t *testing.T) {
	s, err := NewSession("ransomware")
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if s.ID() == "" {
		t.Error("expected a generated session id")
	}
	if s.AssessmentType() != "ransomware" {
		t.Errorf("unexpected assessment type %q", s.AssessmentType())
	}
	if s.AnsweredCount() != 0 || s.Section() != 0 {
		t.Errorf("new session should start empty at section 0")
	}

	if _, err := NewSession(""); !errors.Is(err, sharedErrors.ErrEmptyCatalogType) {
		t.Errorf("expected ErrEmptyCatalogType, got %v", err)
	}
}

func TestSetAnswer(t *testing.T) {
	s, _ := NewSession("ransomware")

	if err := s.SetAnswer("RM-1", scoring.AnswerYes); err != nil {
		t.Fatalf("SetAnswer returned error: %v", err)
	}
	if a, ok := s.AnswerFor("RM-1"); !ok || a != scoring.AnswerYes {
		t.Fatalf("AnswerFor(RM-1) = %q, %v", a, ok)
	}

	// Overwriting is allowed.
	if err := s.SetAnswer("RM-1", scoring.AnswerNo); err != nil {
		t.Fatalf("overwrite returned error: %v", err)
	}
	if a, _ := s.AnswerFor("RM-1"); a != scoring.AnswerNo {
		t.Fatalf("overwrite not applied, got %q", a)
	}
	if s.AnsweredCount() != 1 {
		t.Fatalf("overwrite must not grow the answer count, got %d", s.AnsweredCount())
	}

	if err := s.SetAnswer("", scoring.AnswerYes); !errors.Is(err, sharedErrors.ErrEmptyQuestionID) {
		t.Errorf("expected ErrEmptyQuestionID, got %v", err)
	}
	if err := s.SetAnswer("RM-2", scoring.Answer("maybe")); !errors.Is(err, sharedErrors.ErrInvalidAnswer) {
		t.Errorf("expected ErrInvalidAnswer, got %v", err)
	}
}

func TestAnswersReturnsCopy(t *testing.T) {
	s, _ := NewSession("ransomware")
	_ = s.SetAnswer("RM-1", scoring.AnswerYes)

	answers := s.Answers()
	answers["RM-1"] = scoring.AnswerNo
	answers["RM-2"] = scoring.AnswerYes

	if a, _ := s.AnswerFor("RM-1"); a != scoring.AnswerYes {
		t.Error("mutating the returned map must not affect the session")
	}
	if s.AnsweredCount() != 1 {
		t.Errorf("expected 1 answer, got %d", s.AnsweredCount())
	}
}

func TestReconstruct(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	answers := map[string]scoring.Answer{"RM-1": scoring.AnswerPartial}

	s := Reconstruct("id-1", "ransomware", answers, 2, created, updated)

	if s.ID() != "id-1" || s.AssessmentType() != "ransomware" {
		t.Errorf("identity not restored: %s %s", s.ID(), s.AssessmentType())
	}
	if s.Section() != 2 {
		t.Errorf("section not restored, got %d", s.Section())
	}
	if a, _ := s.AnswerFor("RM-1"); a != scoring.AnswerPartial {
		t.Errorf("answers not restored, got %q", a)
	}
	if !s.CreatedAt().Equal(created) || !s.UpdatedAt().Equal(updated) {
		t.Error("timestamps not restored")
	}

	// nil answers must not panic on use
	s2 := Reconstruct("id-2", "ransomware", nil, 0, created, updated)
	if err := s2.SetAnswer("RM-1", scoring.AnswerYes); err != nil {
		t.Fatalf("SetAnswer on reconstructed session: %v", err)
	}
}

func TestManager(t *testing.T) {
	m := NewManager()

	s1, err := m.Create("ransomware")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	s2, err := m.Create("zero-trust")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := m.Get(s1.ID())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.ID() != s1.ID() {
		t.Errorf("Get returned wrong session")
	}

	if _, err := m.Get("missing"); !errors.Is(err, sharedErrors.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	if len(m.List()) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(m.List()))
	}

	m.Remove(s2.ID())
	if _, err := m.Get(s2.ID()); err == nil {
		t.Error("removed session still retrievable")
	}
}

func TestManagerWithSession(t *testing.T) {
	m := NewManager()
	s, _ := m.Create("ransomware")

	err := m.WithSession(s.ID(), func(sess *Session) error {
		return sess.SetAnswer("RM-1", scoring.AnswerYes)
	})
	if err != nil {
		t.Fatalf("WithSession returned error: %v", err)
	}

	got, _ := m.Get(s.ID())
	if got.AnsweredCount() != 1 {
		t.Error("mutation inside WithSession not visible")
	}

	if err := m.WithSession("missing", func(*Session) error { return nil }); !errors.Is(err, sharedErrors.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

// Run with -race: API handlers read a live session returned by Get while
// another request mutates it through WithSession, and the autosaver reads
// answers from its timer goroutine.
func TestSessionConcurrentReadWrite(t *testing.T) {
	m := NewManager()
	s, _ := m.Create("ransomware")
	id := s.ID()

	var wg sync.WaitGroup
	const iterations = 500

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			err := m.WithSession(id, func(sess *Session) error {
				if err := sess.SetAnswer("RM-1", scoring.AnswerYes); err != nil {
					return err
				}
				sess.SetSection(i % 7)
				return nil
			})
			if err != nil {
				t.Errorf("WithSession returned error: %v", err)
				return
			}
		}
	}()

	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				got, err := m.Get(id)
				if err != nil {
					t.Errorf("Get returned error: %v", err)
					return
				}
				_ = got.Answers()
				_, _ = got.AnswerFor("RM-1")
				_ = got.Section()
				_ = got.UpdatedAt()
				_ = got.AnsweredCount()
			}
		}()
	}

	wg.Wait()

	got, _ := m.Get(id)
	if a, ok := got.AnswerFor("RM-1"); !ok || a != scoring.AnswerYes {
		t.Errorf("expected RM-1 answered yes after concurrent writes, got %q (%v)", a, ok)
	}
}
