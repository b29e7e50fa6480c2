package json

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cybercaution/cybercaution/internal/scoring"
	consts "github.com/cybercaution/cybercaution/internal/shared/constants"
)

func newTestSnapshotRepo(t *testing.T) (*SnapshotRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewSnapshotRepository(dir, nil)
	if err != nil {
		t.Fatalf("NewSnapshotRepository returned error: %v", err)
	}
	return repo, dir
}

func TestSnapshotSaveLoadRoundTrip(t *testing.T) {
	repo, _ := newTestSnapshotRepo(t)
	ctx := context.Background()

	answers := map[string]scoring.Answer{
		"RM-1": scoring.AnswerYes,
		"RM-2": scoring.AnswerPartial,
	}
	snap := NewSnapshot("ransomware", "checksum-a", answers, 3)

	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, ok := repo.Load(ctx, "ransomware", "checksum-a")
	if !ok {
		t.Fatal("Load failed to find saved snapshot")
	}
	if got.Section != 3 {
		t.Errorf("section = %d, want 3", got.Section)
	}
	if got.SchemaVersion != consts.SnapshotSchemaVersion {
		t.Errorf("schema version = %d, want %d", got.SchemaVersion, consts.SnapshotSchemaVersion)
	}

	typed := got.TypedAnswers()
	if len(typed) != 2 || typed["RM-1"] != scoring.AnswerYes || typed["RM-2"] != scoring.AnswerPartial {
		t.Errorf("unexpected answers: %+v", typed)
	}
}

func TestSnapshotLoad_AbsentFile(t *testing.T) {
	repo, _ := newTestSnapshotRepo(t)
	if _, ok := repo.Load(context.Background(), "ransomware", ""); ok {
		t.Fatal("Load reported a snapshot for an empty repository")
	}
}

func TestSnapshotLoad_MalformedFile(t *testing.T) {
	repo, dir := newTestSnapshotRepo(t)
	path := filepath.Join(dir, "ransomware"+consts.SnapshotFileSuffix)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	if _, ok := repo.Load(context.Background(), "ransomware", ""); ok {
		t.Fatal("Load accepted a malformed snapshot; it must start fresh")
	}
}

func TestSnapshotLoad_ChecksumMismatchDiscards(t *testing.T) {
	repo, _ := newTestSnapshotRepo(t)
	ctx := context.Background()

	snap := NewSnapshot("ransomware", "old-catalog", map[string]scoring.Answer{"RM-1": scoring.AnswerYes}, 1)
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if _, ok := repo.Load(ctx, "ransomware", "new-catalog"); ok {
		t.Fatal("snapshot for a different catalog revision must be discarded")
	}

	// An empty expected checksum skips the check.
	if _, ok := repo.Load(ctx, "ransomware", ""); !ok {
		t.Fatal("empty expected checksum should load the snapshot")
	}
}

func TestSnapshotLoad_SchemaVersionMismatch(t *testing.T) {
	repo, _ := newTestSnapshotRepo(t)
	ctx := context.Background()

	snap := NewSnapshot("ransomware", "c", nil, 0)
	snap.SchemaVersion = consts.SnapshotSchemaVersion + 1
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if _, ok := repo.Load(ctx, "ransomware", "c"); ok {
		t.Fatal("snapshot with a future schema version must be discarded")
	}
}

func TestSnapshotIsolationPerType(t *testing.T) {
	repo, _ := newTestSnapshotRepo(t)
	ctx := context.Background()

	a := NewSnapshot("ransomware", "c1", map[string]scoring.Answer{"RM-1": scoring.AnswerYes}, 0)
	b := NewSnapshot("zero-trust", "c2", map[string]scoring.Answer{"ZT-1": scoring.AnswerNo}, 2)
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := repo.Save(ctx, b); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	gotA, ok := repo.Load(ctx, "ransomware", "c1")
	if !ok || len(gotA.Answers) != 1 || gotA.Answers["RM-1"] != "yes" {
		t.Fatalf("ransomware snapshot polluted: %+v", gotA)
	}
	gotB, ok := repo.Load(ctx, "zero-trust", "c2")
	if !ok || gotB.Section != 2 {
		t.Fatalf("zero-trust snapshot polluted: %+v", gotB)
	}
}

func TestSnapshotDelete(t *testing.T) {
	repo, _ := newTestSnapshotRepo(t)
	ctx := context.Background()

	snap := NewSnapshot("ransomware", "c", nil, 0)
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := repo.Delete(ctx, "ransomware"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := repo.Load(ctx, "ransomware", ""); ok {
		t.Fatal("snapshot still loadable after Delete")
	}

	// Deleting an absent snapshot is not an error.
	if err := repo.Delete(ctx, "ransomware"); err != nil {
		t.Fatalf("Delete of absent snapshot returned error: %v", err)
	}
}

func TestSnapshotTypedAnswersDropsInvalid(t *testing.T) {
	snap := Snapshot{Answers: map[string]string{
		"RM-1": "yes",
		"RM-2": "banana",
		"RM-3": "partial",
	}}

	typed := snap.TypedAnswers()
	if len(typed) != 2 {
		t.Fatalf("expected invalid values dropped, got %+v", typed)
	}
	if _, exists := typed["RM-2"]; exists {
		t.Error("invalid answer value survived TypedAnswers")
	}
}

func TestSnapshotPathTraversalRejected(t *testing.T) {
	repo, dir := newTestSnapshotRepo(t)
	ctx := context.Background()

	snap := NewSnapshot("../escape", "c", nil, 0)
	if err := repo.Save(ctx, snap); err == nil {
		t.Fatal("expected error for traversal in assessment type")
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape"+consts.SnapshotFileSuffix)); err == nil {
		t.Fatal("snapshot escaped the data directory")
	}
}
