package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ctxchat/cmd/ctxchat/config"
	"ctxchat/internal/scope"
)

func TestToScopes(t *testing.T) {
	got := toScopes([]string{"preferences.news", " ", "", "location"})
	if len(got) != 2 {
		t.Fatalf("expected blank entries dropped, got %v", got)
	}
	if got[0] != scope.PreferencesNews || got[1] != scope.Location {
		t.Fatalf("unexpected scopes: %v", got)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	themeFlag = "light"
	delayFlag = 250 * time.Millisecond
	defer func() {
		themeFlag = ""
		delayFlag = 0
	}()

	cfg := loadConfig()
	if cfg.Theme != "light" {
		t.Fatalf("theme flag not applied: %s", cfg.Theme)
	}
	if cfg.Delay() != 250*time.Millisecond {
		t.Fatalf("delay flag not applied: %s", cfg.Delay())
	}
}

func TestBuildClassifierDefaultRules(t *testing.T) {
	classifier, policy, watcher, err := buildClassifier(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("build classifier: %v", err)
	}
	if watcher != nil {
		t.Fatalf("no rules path, no watcher expected")
	}
	if policy == nil {
		t.Fatalf("expected a policy")
	}
	if got := classifier.Classify("washing machine"); got.ID != "washing_machine" {
		t.Fatalf("unexpected classification: %s", got.ID)
	}
}

func TestBuildClassifierWithRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	table := `
default: fallback
rules:
  - keywords: [hello]
    response: greet
responses:
  greet:
    body: hi there
  fallback:
    body: dunno
`
	if err := os.WriteFile(path, []byte(table), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.RulesPath = path
	classifier, _, watcher, err := buildClassifier(cfg, nil)
	if err != nil {
		t.Fatalf("build classifier: %v", err)
	}
	if watcher == nil {
		t.Fatalf("expected a rules watcher")
	}
	defer watcher.Close()

	if got := classifier.Classify("hello there"); got.ID != "greet" {
		t.Fatalf("unexpected classification: %s", got.ID)
	}
}

func TestBuildClassifierBadRulesFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RulesPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, _, _, err := buildClassifier(cfg, nil); err == nil {
		t.Fatalf("expected error for missing rules file")
	}
}
