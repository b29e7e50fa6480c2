package json

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cybercaution/cybercaution/internal/results"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

func sampleSummary(score int) results.Summary {
	return results.Summary{
		OverallScore:   score,
		AssessmentType: "ransomware",
		FrameworkName:  "NIST IR 8374",
	}
}

func TestResultRepositorySaveAndFind(t *testing.T) {
	repo, err := NewResultRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewResultRepository returned error: %v", err)
	}
	ctx := context.Background()

	first, err := repo.Save(ctx, "user-1", sampleSummary(72))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if first.ID == "" {
		t.Error("expected a generated record id")
	}
	if first.SavedAt.IsZero() {
		t.Error("expected SavedAt to be set")
	}

	if _, err := repo.Save(ctx, "user-1", sampleSummary(85)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := repo.Save(ctx, "user-2", sampleSummary(40)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	mine, err := repo.FindByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindByUser returned error: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 results for user-1, got %d", len(mine))
	}
	if mine[0].Summary.OverallScore != 72 || mine[1].Summary.OverallScore != 85 {
		t.Errorf("results out of order: %+v", mine)
	}

	none, err := repo.FindByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("FindByUser returned error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no results for unknown user, got %d", len(none))
	}

	got, err := repo.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("FindByID returned wrong record: %+v", got)
	}

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, sharedErrors.ErrResultNotFound) {
		t.Errorf("expected ErrResultNotFound, got %v", err)
	}
}

func TestResultRepositoryRejectsEmptyUser(t *testing.T) {
	repo, err := NewResultRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewResultRepository returned error: %v", err)
	}

	if _, err := repo.Save(context.Background(), "", sampleSummary(50)); !errors.Is(err, sharedErrors.ErrEmptyUserID) {
		t.Fatalf("expected ErrEmptyUserID, got %v", err)
	}
}

func TestResultRepositoryPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo1, err := NewResultRepository(dir)
	if err != nil {
		t.Fatalf("NewResultRepository returned error: %v", err)
	}
	saved, err := repo1.Save(ctx, "user-1", sampleSummary(90))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	repo2, err := NewResultRepository(dir)
	if err != nil {
		t.Fatalf("NewResultRepository (reopen) returned error: %v", err)
	}
	got, err := repo2.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID after reopen returned error: %v", err)
	}
	if got.Summary.OverallScore != 90 {
		t.Errorf("unexpected score after reopen: %d", got.Summary.OverallScore)
	}
}

func TestResultRepositoryInitializesFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewResultRepository(dir); err != nil {
		t.Fatalf("NewResultRepository returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "results.json")); err != nil {
		t.Fatalf("results.json not initialized: %v", err)
	}
}
