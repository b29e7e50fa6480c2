// Package catalog defines the static question catalogs that drive each
// assessment type: ordered sections of yes/partial/no questions mapped to
// compliance-framework controls.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

// Complexity is a display-only difficulty hint for a section.
type Complexity string

const (
	ComplexityLow    Complexity = "Low"
	ComplexityMedium Complexity = "Medium"
	ComplexityHigh   Complexity = "High"
)

// Question is a single assessment prompt. Questions are defined at build time
// (or loaded from a catalog file) and never mutated at runtime.
type Question struct {
	ID         string `json:"id" yaml:"id"`
	Prompt     string `json:"prompt" yaml:"prompt"`
	ControlRef string `json:"control_ref" yaml:"control_ref"`
	Guidance   string `json:"guidance,omitempty" yaml:"guidance,omitempty"`
}

// Category derives a coarse framework category from the control reference.
// "NIST IR 8374 2.1 | CSF ID.RA-1" yields "NIST IR 8374"; references without
// a recognizable control number are returned trimmed as-is.
func (q Question) Category() string {
	ref := q.ControlRef
	if idx := strings.Index(ref, "|"); idx >= 0 {
		ref = ref[:idx]
	}
	fields := strings.Fields(ref)
	// A trailing dotted token containing a digit is a control identifier
	// ("2.1", "ID.RA-1"), not part of the framework name ("800-161").
	if len(fields) > 1 {
		last := fields[len(fields)-1]
		if strings.Contains(last, ".") && containsDigit(last) {
			fields = fields[:len(fields)-1]
		}
	}
	return strings.Join(fields, " ")
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// Section is a named, ordered group of questions. Question order is the
// display and navigation order.
type Section struct {
	Title         string     `json:"title" yaml:"title"`
	Description   string     `json:"description" yaml:"description"`
	Complexity    Complexity `json:"complexity" yaml:"complexity"`
	EstimatedTime string     `json:"estimated_time" yaml:"estimated_time"`
	Questions     []Question `json:"questions" yaml:"questions"`
}

// Catalog is the complete question set for one assessment type.
type Catalog struct {
	Type      string    `json:"type" yaml:"type"`
	Name      string    `json:"name" yaml:"name"`
	Framework string    `json:"framework" yaml:"framework"`
	Sections  []Section `json:"sections" yaml:"sections"`
}

// Validate enforces the static-catalog invariants: at least one section,
// every section has at least one question, and question IDs are unique
// across the whole catalog.
func (c *Catalog) Validate() error {
	if strings.TrimSpace(c.Type) == "" {
		return sharedErrors.ErrEmptyCatalogType
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("catalog %s: %w", c.Type, sharedErrors.ErrCatalogEmpty)
	}
	seen := make(map[string]struct{})
	for _, sec := range c.Sections {
		if len(sec.Questions) == 0 {
			return fmt.Errorf("catalog %s section %q: %w", c.Type, sec.Title, sharedErrors.ErrSectionEmpty)
		}
		for _, q := range sec.Questions {
			if q.ID == "" {
				return fmt.Errorf("catalog %s section %q: %w", c.Type, sec.Title, sharedErrors.ErrEmptyQuestionID)
			}
			if _, dup := seen[q.ID]; dup {
				return fmt.Errorf("catalog %s question %s: %w", c.Type, q.ID, sharedErrors.ErrDuplicateQuestion)
			}
			seen[q.ID] = struct{}{}
		}
	}
	return nil
}

// QuestionCount returns the total number of questions across all sections.
func (c *Catalog) QuestionCount() int {
	total := 0
	for _, sec := range c.Sections {
		total += len(sec.Questions)
	}
	return total
}

// HasQuestion reports whether the given question id belongs to this catalog.
func (c *Catalog) HasQuestion(id string) bool {
	for _, sec := range c.Sections {
		for _, q := range sec.Questions {
			if q.ID == id {
				return true
			}
		}
	}
	return false
}

// Checksum fingerprints the catalog shape (type, section titles, question
// ids, in order). Progress snapshots record it so that a snapshot taken
// against an older catalog revision is discarded instead of silently
// desynchronizing the section index.
func (c *Catalog) Checksum() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", c.Type)
	for _, sec := range c.Sections {
		fmt.Fprintf(h, "%s\n", sec.Title)
		for _, q := range sec.Questions {
			fmt.Fprintf(h, "%s\n", q.ID)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Registry holds the available catalogs, keyed by assessment type. It is
// seeded with the built-in catalogs and may be extended with catalogs loaded
// from files.
type Registry struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
}

// NewRegistry creates a registry pre-populated with the built-in catalogs.
func NewRegistry() *Registry {
	r := &Registry{catalogs: make(map[string]*Catalog)}
	for _, c := range Builtin() {
		r.catalogs[c.Type] = c
	}
	return r
}

// Get returns the catalog for the given assessment type.
func (r *Registry) Get(assessmentType string) (*Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.catalogs[assessmentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sharedErrors.ErrCatalogNotFound, assessmentType)
	}
	return c, nil
}

// List returns all registered catalogs ordered by assessment type.
func (r *Registry) List() []*Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Catalog, 0, len(r.catalogs))
	for _, c := range r.catalogs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Register validates and adds a catalog, replacing any existing catalog of
// the same type.
func (r *Registry) Register(c *Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[c.Type] = c
	return nil
}
