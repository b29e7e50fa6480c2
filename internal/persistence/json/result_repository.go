package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cybercaution/cybercaution/internal/results"
	consts "github.com/cybercaution/cybercaution/internal/shared/constants"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

// StoredResult is a result summary saved to an account, server-side.
type StoredResult struct {
	ID      string          `json:"id"`
	UserID  string          `json:"user_id"`
	Summary results.Summary `json:"summary"`
	SavedAt time.Time       `json:"saved_at"`
}

// ResultRepository persists saved results in a single JSON file.
type ResultRepository struct {
	filePath string
	mu       sync.RWMutex
}

// NewResultRepository creates a file-backed result store under dataDir.
func NewResultRepository(dataDir string) (*ResultRepository, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if err := os.MkdirAll(dataDir, consts.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &ResultRepository{filePath: filepath.Join(dataDir, "results.json")}

	if _, err := os.Stat(repo.filePath); os.IsNotExist(err) {
		if err := repo.saveToFile([]StoredResult{}); err != nil {
			return nil, fmt.Errorf("failed to initialize results file: %w", err)
		}
	}

	return repo, nil
}

// Save appends a result for the given user and returns the stored record.
func (r *ResultRepository) Save(ctx context.Context, userID string, summary results.Summary) (*StoredResult, error) {
	if userID == "" {
		return nil, sharedErrors.ErrEmptyUserID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.loadFromFile()
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	rec := StoredResult{
		ID:      uuid.NewString(),
		UserID:  userID,
		Summary: summary,
		SavedAt: time.Now().UTC(),
	}
	stored = append(stored, rec)

	if err := r.saveToFile(stored); err != nil {
		return nil, fmt.Errorf("failed to save results: %w", err)
	}

	return &rec, nil
}

// FindByUser returns all results saved for a user, newest last.
func (r *ResultRepository) FindByUser(ctx context.Context, userID string) ([]StoredResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, err := r.loadFromFile()
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	out := make([]StoredResult, 0)
	for _, rec := range stored {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindByID returns a single stored result.
func (r *ResultRepository) FindByID(ctx context.Context, id string) (*StoredResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, err := r.loadFromFile()
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	for _, rec := range stored {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, sharedErrors.ErrResultNotFound
}

func (r *ResultRepository) loadFromFile() ([]StoredResult, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []StoredResult{}, nil
		}
		return nil, err
	}

	var stored []StoredResult
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *ResultRepository) saveToFile(stored []StoredResult) error {
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.filePath, data, consts.DefaultFilePerm)
}
