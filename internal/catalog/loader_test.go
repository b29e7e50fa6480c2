package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalogYAML = `type: phishing
name: Phishing Readiness
framework: Test Framework
sections:
  - title: Awareness
    complexity: low
    estimated_time: 10 minutes
    questions:
      - id: PH-1
        prompt: Do you run phishing awareness training?
        control_ref: Test Framework 1.1
      - id: PH-2
        prompt: Are simulated phishing campaigns conducted?
        control_ref: Test Framework 1.2
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "phishing.yaml", sampleCatalogYAML)

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if c.Type != "phishing" {
		t.Errorf("unexpected type %q", c.Type)
	}
	if c.QuestionCount() != 2 {
		t.Errorf("expected 2 questions, got %d", c.QuestionCount())
	}
	if c.Sections[0].Complexity != "low" {
		t.Errorf("unexpected complexity %q", c.Sections[0].Complexity)
	}
}

func TestLoadFile_InvalidCatalog(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "not yaml", content: "{{{{"},
		{name: "missing sections", content: "type: empty\nname: Empty\nframework: F\n"},
		{name: "duplicate ids", content: `type: dup
name: Dup
framework: F
sections:
  - title: A
    questions:
      - id: D-1
        prompt: one
      - id: D-1
        prompt: two
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "bad.yaml", tt.content)
			if _, err := LoadFile(path); err == nil {
				t.Fatal("expected error for invalid catalog file")
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "phishing.yaml", sampleCatalogYAML)
	writeFile(t, dir, "broken.yaml", "{{{{")
	writeFile(t, dir, "notes.txt", "ignored")

	r := NewRegistry()
	before := len(r.List())

	loaded := r.LoadDir(dir, nil)
	if loaded != 1 {
		t.Fatalf("expected 1 catalog loaded, got %d", loaded)
	}
	if len(r.List()) != before+1 {
		t.Fatalf("registry should grow by 1, got %d -> %d", before, len(r.List()))
	}
	if _, err := r.Get("phishing"); err != nil {
		t.Fatalf("loaded catalog not retrievable: %v", err)
	}
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	r := NewRegistry()
	if loaded := r.LoadDir(filepath.Join(t.TempDir(), "nope"), nil); loaded != 0 {
		t.Fatalf("expected 0 from missing directory, got %d", loaded)
	}
}
