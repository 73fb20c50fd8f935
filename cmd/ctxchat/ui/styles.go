// Package ui provides the visual styling for the ctxchat terminal
// interface, with light and dark palettes.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, shared by both palettes.
var (
	ColorSuccess = lipgloss.Color("#7BC96F")
	ColorDanger  = lipgloss.Color("#E5534B")
	ColorWarning = lipgloss.Color("#E3B341")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#f6f7f8"),
		Foreground: lipgloss.Color("#1b2733"),
		Primary:    lipgloss.Color("#2b5fad"),
		Accent:     lipgloss.Color("#7a4bc9"),
		Muted:      lipgloss.Color("#8a939e"),
		Border:     lipgloss.Color("#d8dde3"),
		Card:       lipgloss.Color("#ffffff"),
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#14191f"),
		Foreground: lipgloss.Color("#e8ebef"),
		Primary:    lipgloss.Color("#6ea8ff"),
		Accent:     lipgloss.Color("#b28aff"),
		Muted:      lipgloss.Color("#6b7682"),
		Border:     lipgloss.Color("#2c3540"),
		Card:       lipgloss.Color("#1d242c"),
		IsDark:     true,
	}
}

// DetectTheme picks a theme from the terminal environment, defaulting
// to dark.
func DetectTheme() Theme {
	if v := os.Getenv("CTXCHAT_THEME"); v == "light" {
		return LightTheme()
	} else if v == "dark" {
		return DarkTheme()
	}

	// COLORFGBG is "foreground;background"; low background indexes mean
	// a dark terminal.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if bgIdx >= 7 && bgIdx != 8 {
					return LightTheme()
				}
			}
		}
	}
	return DarkTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Chat
	Prompt         lipgloss.Style
	UserInput      lipgloss.Style
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Scope badges
	ScopeAllowed   lipgloss.Style
	ScopeRequested lipgloss.Style
	ScopeDenied    lipgloss.Style

	// Permission prompt card
	Card           lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		UserInput: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		UserLabel: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginTop(1),

		AssistantLabel: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			MarginTop(1),

		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true),

		ScopeAllowed: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		ScopeRequested: lipgloss.NewStyle().
			Foreground(ColorWarning),

		ScopeDenied: lipgloss.NewStyle().
			Foreground(ColorDanger),

		Card: lipgloss.NewStyle().
			Background(theme.Card).
			Foreground(theme.Foreground).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		ButtonActive: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		ButtonInactive: lipgloss.NewStyle().
			Background(theme.Card).
			Foreground(theme.Muted).
			Padding(0, 2),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
	}
}

// DefaultStyles returns styles with the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider of the given width.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
