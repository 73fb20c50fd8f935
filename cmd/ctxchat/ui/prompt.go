package ui

import (
	"fmt"
	"strings"

	"ctxchat/internal/scope"
)

// PromptChoice is the highlighted button in a permission card.
type PromptChoice int

const (
	ChoiceAllow PromptChoice = iota
	ChoiceDeny
)

// PermissionCard describes one pending scope request for rendering.
type PermissionCard struct {
	MessageID int64
	Scopes    []scope.Scope
	Choice    PromptChoice
	Focused   bool
}

// RenderPermissionCard draws a pending permission prompt: the requested
// scopes and an Allow/Deny button pair. The focused card shows which
// button Enter would press.
func (s Styles) RenderPermissionCard(card PermissionCard) string {
	var b strings.Builder

	b.WriteString(s.Warning.Render("Context access request"))
	b.WriteString("\n")
	for _, sc := range card.Scopes {
		b.WriteString(s.ScopeRequested.Render(fmt.Sprintf("  • %s", sc)))
		b.WriteString("\n")
	}

	allow := s.ButtonInactive.Render("Allow")
	deny := s.ButtonInactive.Render("Deny")
	if card.Focused {
		switch card.Choice {
		case ChoiceAllow:
			allow = s.ButtonActive.Render("Allow")
		case ChoiceDeny:
			deny = s.ButtonActive.Render("Deny")
		}
	}
	b.WriteString(allow + "  " + deny)
	if card.Focused {
		b.WriteString(s.Muted.Render("  ←/→ choose, Enter confirm, or press y / n"))
	}

	return s.Card.Render(b.String())
}

// RenderAccessBadges summarizes a message's access triple as one line of
// colored scope badges. Returns "" for a zero triple.
func (s Styles) RenderAccessBadges(a scope.Access) string {
	var parts []string
	for _, sc := range a.Allowed {
		parts = append(parts, s.ScopeAllowed.Render("✓ "+string(sc)))
	}
	for _, sc := range a.Requested {
		parts = append(parts, s.ScopeRequested.Render("? "+string(sc)))
	}
	for _, sc := range a.Denied {
		parts = append(parts, s.ScopeDenied.Render("✗ "+string(sc)))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ")
}
