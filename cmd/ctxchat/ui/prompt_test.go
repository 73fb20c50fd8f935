package ui

import (
	"strings"
	"testing"

	"ctxchat/internal/scope"
)

func TestRenderPermissionCardListsScopes(t *testing.T) {
	s := NewStyles(DarkTheme())
	out := s.RenderPermissionCard(PermissionCard{
		MessageID: 3,
		Scopes:    []scope.Scope{scope.PreferencesNews},
		Focused:   true,
	})
	if !strings.Contains(out, "preferences.news") {
		t.Fatalf("requested scope missing from card:\n%s", out)
	}
	if !strings.Contains(out, "Allow") || !strings.Contains(out, "Deny") {
		t.Fatalf("buttons missing from card:\n%s", out)
	}
	if !strings.Contains(out, "Enter confirm") {
		t.Fatalf("focused card should show key help:\n%s", out)
	}
}

func TestRenderPermissionCardUnfocused(t *testing.T) {
	s := NewStyles(LightTheme())
	out := s.RenderPermissionCard(PermissionCard{
		Scopes: []scope.Scope{scope.Location},
	})
	if strings.Contains(out, "Enter confirm") {
		t.Fatalf("unfocused card should not show key help:\n%s", out)
	}
}

func TestRenderAccessBadges(t *testing.T) {
	s := NewStyles(DarkTheme())
	out := s.RenderAccessBadges(scope.Access{
		Allowed: []scope.Scope{scope.PreferencesShopping},
		Denied:  []scope.Scope{scope.PreferencesNews},
	})
	if !strings.Contains(out, "preferences.shopping") || !strings.Contains(out, "preferences.news") {
		t.Fatalf("badges missing scopes:\n%s", out)
	}
	if s.RenderAccessBadges(scope.Access{}) != "" {
		t.Fatalf("zero triple should render nothing")
	}
}

func TestDetectThemeEnvOverride(t *testing.T) {
	t.Setenv("CTXCHAT_THEME", "light")
	if DetectTheme().IsDark {
		t.Fatalf("expected light theme from env")
	}
	t.Setenv("CTXCHAT_THEME", "dark")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme from env")
	}
}

func TestRenderDividerZeroWidth(t *testing.T) {
	s := DefaultStyles()
	if s.RenderDivider(0) != "" {
		t.Fatalf("zero width divider should be empty")
	}
}
