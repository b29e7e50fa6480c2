// Package json implements file-backed repositories for progress snapshots
// and saved results.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cybercaution/cybercaution/internal/scoring"
	consts "github.com/cybercaution/cybercaution/internal/shared/constants"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
	"github.com/cybercaution/cybercaution/internal/shared/security"
)

// Snapshot is the persisted form of an in-progress assessment: the answers,
// the current section index, and when it was written. SchemaVersion and
// CatalogChecksum guard against restoring state taken against a different
// catalog revision.
type Snapshot struct {
	SchemaVersion   int               `json:"schema_version"`
	AssessmentType  string            `json:"assessment_type"`
	CatalogChecksum string            `json:"catalog_checksum"`
	Answers         map[string]string `json:"answers"`
	Section         int               `json:"section"`
	Timestamp       time.Time         `json:"timestamp"`
}

// NewSnapshot captures answers and position for persistence.
func NewSnapshot(assessmentType, catalogChecksum string, answers map[string]scoring.Answer, section int) Snapshot {
	raw := make(map[string]string, len(answers))
	for id, a := range answers {
		raw[id] = string(a)
	}
	return Snapshot{
		SchemaVersion:   consts.SnapshotSchemaVersion,
		AssessmentType:  assessmentType,
		CatalogChecksum: catalogChecksum,
		Answers:         raw,
		Section:         section,
		Timestamp:       time.Now().UTC(),
	}
}

// TypedAnswers converts the raw stored answers back into scoring answers.
// Values outside the known set are dropped.
func (s Snapshot) TypedAnswers() map[string]scoring.Answer {
	out := make(map[string]scoring.Answer, len(s.Answers))
	for id, raw := range s.Answers {
		a, err := scoring.ParseAnswer(raw)
		if err != nil {
			continue
		}
		out[id] = a
	}
	return out
}

// SnapshotRepository stores one snapshot file per assessment type under the
// data directory, so assessments of different types never share state.
type SnapshotRepository struct {
	dir    string
	mu     sync.RWMutex
	logger *zap.SugaredLogger
}

// NewSnapshotRepository creates the repository, ensuring the data directory
// exists.
func NewSnapshotRepository(dataDir string, logger *zap.SugaredLogger) (*SnapshotRepository, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if err := os.MkdirAll(dataDir, consts.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &SnapshotRepository{dir: dataDir, logger: logger}, nil
}

func (r *SnapshotRepository) filePath(assessmentType string) (string, error) {
	return security.ResolveWithin(r.dir, assessmentType+consts.SnapshotFileSuffix)
}

// Save writes the snapshot for its assessment type, replacing any prior one.
func (r *SnapshotRepository) Save(ctx context.Context, snap Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, err := r.filePath(snap.AssessmentType)
	if err != nil {
		return fmt.Errorf("resolve snapshot path: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, consts.DefaultFilePerm); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot for an assessment type. An absent file, malformed
// JSON, a schema version mismatch, or a catalog checksum mismatch all yield
// (zero, false): the session starts fresh rather than failing to load.
// Failures other than absence are logged.
func (r *SnapshotRepository) Load(ctx context.Context, assessmentType, catalogChecksum string) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, err := r.filePath(assessmentType)
	if err != nil {
		r.warn("resolve snapshot path", assessmentType, err)
		return Snapshot{}, false
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path resolved within the repository data dir.
	if err != nil {
		if !os.IsNotExist(err) {
			r.warn("read snapshot", assessmentType, err)
		}
		return Snapshot{}, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.warn("parse snapshot", assessmentType, err)
		return Snapshot{}, false
	}

	if snap.SchemaVersion != consts.SnapshotSchemaVersion {
		r.warn("snapshot schema version mismatch", assessmentType, nil)
		return Snapshot{}, false
	}
	if catalogChecksum != "" && snap.CatalogChecksum != catalogChecksum {
		r.warn("discarding snapshot", assessmentType, sharedErrors.ErrSnapshotMismatch)
		return Snapshot{}, false
	}

	return snap, true
}

// Delete removes the snapshot for an assessment type. Deleting an absent
// snapshot is not an error.
func (r *SnapshotRepository) Delete(ctx context.Context, assessmentType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, err := r.filePath(assessmentType)
	if err != nil {
		return fmt.Errorf("resolve snapshot path: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) warn(msg, assessmentType string, err error) {
	if r.logger == nil {
		return
	}
	if err != nil {
		r.logger.Warnw(msg, "assessment_type", assessmentType, "error", err)
		return
	}
	r.logger.Warnw(msg, "assessment_type", assessmentType)
}
