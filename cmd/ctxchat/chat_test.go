package main

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"ctxchat/cmd/ctxchat/config"
	"ctxchat/internal/classify"
	"ctxchat/internal/conversation"
	"ctxchat/internal/scope"
)

func newTestChat(t *testing.T) chatModel {
	t.Helper()
	policy := scope.NewPolicy(nil, nil, nil)
	controller := conversation.NewController(
		conversation.NewStore(),
		classify.Default(policy),
		policy,
		conversation.WithDelay(time.Millisecond),
	)
	return initChat(config.DefaultConfig(), controller, zap.NewNop())
}

func TestRenderHistoryShowsRolesAndBadges(t *testing.T) {
	m := newTestChat(t)
	m.controller.Store().Append(conversation.RoleUser, "washing machine?", scope.Access{})
	m.controller.Store().Append(conversation.RoleAssistant, "try this one",
		scope.Access{Allowed: []scope.Scope{scope.PreferencesShopping}})

	out := m.renderHistory()
	if !strings.Contains(out, "You") {
		t.Fatalf("user label missing:\n%s", out)
	}
	if !strings.Contains(out, m.cfg.AssistantName) {
		t.Fatalf("assistant label missing:\n%s", out)
	}
	if !strings.Contains(out, "preferences.shopping") {
		t.Fatalf("scope badge missing:\n%s", out)
	}
}

func TestRenderHistoryIncludesPendingCard(t *testing.T) {
	m := newTestChat(t)
	msg := m.controller.Store().Append(conversation.RoleAssistant, "may I?",
		scope.Access{Requested: []scope.Scope{scope.PreferencesNews}})
	m.controller.Store().AddPending(conversation.Pending{
		MessageID: msg.ID,
		Scopes:    []scope.Scope{scope.PreferencesNews},
	})

	out := m.renderHistory()
	if !strings.Contains(out, "Context access request") {
		t.Fatalf("permission card missing:\n%s", out)
	}
}

func TestCycleFocusWithoutPendings(t *testing.T) {
	m := newTestChat(t)
	m = m.cycleFocus()
	if m.promptFocused {
		t.Fatalf("nothing pending, focus should stay on the input")
	}
}

func TestCycleFocusThroughPendings(t *testing.T) {
	m := newTestChat(t)
	msg := m.controller.Store().Append(conversation.RoleAssistant, "may I?",
		scope.Access{Requested: []scope.Scope{scope.PreferencesNews}})
	m.controller.Store().AddPending(conversation.Pending{
		MessageID: msg.ID,
		Scopes:    []scope.Scope{scope.PreferencesNews},
	})

	m = m.cycleFocus()
	if !m.promptFocused || m.promptIndex != 0 {
		t.Fatalf("expected first prompt focused")
	}
	m = m.cycleFocus()
	if m.promptFocused {
		t.Fatalf("expected focus back on the input after the last prompt")
	}
}

func TestScopesTextReflectsLedger(t *testing.T) {
	m := newTestChat(t)
	m.controller.Policy().Ledger().Grant(scope.PreferencesNews)
	m.controller.Policy().Ledger().Deny(scope.Location)

	out := m.scopesText()
	if !strings.Contains(out, "granted") || !strings.Contains(out, "denied") {
		t.Fatalf("ledger state missing from scopes text:\n%s", out)
	}
	if !strings.Contains(out, "not requested") {
		t.Fatalf("untouched scopes should be listed too:\n%s", out)
	}
}

func TestStatusTextCounts(t *testing.T) {
	m := newTestChat(t)
	m.controller.Store().Append(conversation.RoleUser, "hi", scope.Access{})

	out := m.statusText()
	if !strings.Contains(out, "**Messages**: 1") {
		t.Fatalf("message count missing:\n%s", out)
	}
	if !strings.Contains(out, "Open permission prompts**: 0") {
		t.Fatalf("pending count missing:\n%s", out)
	}
}

func TestSafeRenderMarkdownNilRenderer(t *testing.T) {
	m := newTestChat(t)
	m.renderer = nil
	if got := m.safeRenderMarkdown("**bold**"); got != "**bold**" {
		t.Fatalf("nil renderer should pass content through, got %q", got)
	}
}
