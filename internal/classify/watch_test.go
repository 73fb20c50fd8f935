package classify

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTable(t *testing.T, path, keyword string) {
	t.Helper()
	table := `
default: fallback
rules:
  - keywords: [` + keyword + `]
    response: hit
responses:
  hit:
    body: matched
  fallback:
    body: no match
`
	if err := os.WriteFile(path, []byte(table), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	writeTable(t, path, "alpha")

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	c := New(rs, nil)

	w, err := Watch(path, c, nil)
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer w.Close()

	if got := c.Classify("alpha beta"); got.ID != "hit" {
		t.Fatalf("unexpected initial classification: %s", got.ID)
	}

	writeTable(t, path, "beta")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if c.Classify("beta only").ID == "hit" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("rules were not reloaded after file write")
}

func TestWatcherKeepsTableOnBadUpdate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	writeTable(t, path, "alpha")

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	c := New(rs, nil)

	w, err := Watch(path, c, nil)
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("default: [broken"), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	// Give the watcher a moment to see the event, then confirm the old
	// table still answers.
	time.Sleep(200 * time.Millisecond)
	if got := c.Classify("alpha"); got.ID != "hit" {
		t.Fatalf("valid table was replaced by a broken one: %s", got.ID)
	}
}
