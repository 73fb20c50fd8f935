// Interactive chat interface for ctxchat, built on bubbletea.
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ctxchat/cmd/ctxchat/config"
	"ctxchat/cmd/ctxchat/ui"
	"ctxchat/internal/conversation"
	"ctxchat/internal/scope"
)

// chatModel is the bubbletea model for the interactive chat.
type chatModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// Conversation backend
	controller *conversation.Controller
	cfg        config.Config
	logger     *zap.Logger

	// Pending prompt focus. When a permission card is focused, arrow
	// keys pick the button and Enter confirms; otherwise Enter submits
	// the text input.
	promptFocused bool
	promptIndex   int
	promptChoice  ui.PromptChoice

	// State
	isLoading bool
	err       error
	width     int
	height    int
	ready     bool
	sessionID string
	turnCount int

	// Cancels an in-flight submission when the program exits.
	submitCtx    context.Context
	submitCancel context.CancelFunc
}

// Messages for tea updates.
type (
	turnMsg  conversation.Message
	errorMsg error
)

// initChat initializes the interactive chat model.
func initChat(cfg config.Config, controller *conversation.Controller, logger *zap.Logger) chatModel {
	styles := ui.DefaultStyles()
	if cfg.Theme == "light" {
		styles = ui.NewStyles(ui.LightTheme())
	} else if cfg.Theme == "dark" {
		styles = ui.NewStyles(ui.DarkTheme())
	}

	ti := textinput.New()
	ti.Placeholder = "Ask me anything... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 2048
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(80),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return chatModel{
		textinput:    ti,
		viewport:     vp,
		spinner:      sp,
		styles:       styles,
		renderer:     renderer,
		controller:   controller,
		cfg:          cfg,
		logger:       logger,
		sessionID:    uuid.NewString(),
		submitCtx:    ctx,
		submitCancel: cancel,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.submitCancel()
			return m, tea.Quit

		case tea.KeyTab:
			// Tab moves focus between the input and open permission
			// prompts, even while a submission is in flight.
			return m.cycleFocus(), nil

		case tea.KeyLeft, tea.KeyRight:
			if m.promptFocused {
				if m.promptChoice == ui.ChoiceAllow {
					m.promptChoice = ui.ChoiceDeny
				} else {
					m.promptChoice = ui.ChoiceAllow
				}
				m.refreshViewport()
				return m, nil
			}

		case tea.KeyEnter:
			if m.promptFocused {
				return m.resolveFocusedPrompt(m.promptChoice == ui.ChoiceAllow)
			}
			if !m.isLoading {
				return m.handleSubmit()
			}
			return m, nil
		}

		// Shortcut keys for a focused permission prompt.
		if m.promptFocused {
			switch msg.String() {
			case "y", "a":
				return m.resolveFocusedPrompt(true)
			case "n", "d":
				return m.resolveFocusedPrompt(false)
			}
			return m, nil
		}

		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}
		m.textinput.Width = msg.Width - 4

		if m.renderer != nil {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}
		m.refreshViewport()

	case spinner.TickMsg:
		if m.isLoading {
			m.refreshViewport()
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case turnMsg:
		m.isLoading = false
		m.turnCount++
		// A fresh request steals focus so y/n answer it directly.
		if _, ok := m.controller.Store().PendingFor(conversation.Message(msg).ID); ok {
			m.promptFocused = true
			m.promptIndex = len(m.controller.Store().Pendings()) - 1
			m.promptChoice = ui.ChoiceAllow
			m.textinput.Blur()
		}
		m.refreshViewport()

	case errorMsg:
		m.isLoading = false
		// Guarded no-ops and shutdown cancellation stay silent.
		if !errors.Is(msg, conversation.ErrBusy) &&
			!errors.Is(msg, conversation.ErrEmptyInput) &&
			!errors.Is(msg, context.Canceled) {
			m.err = msg
		}
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// cycleFocus moves focus input -> prompt 0 -> prompt 1 -> ... -> input.
func (m chatModel) cycleFocus() chatModel {
	pendings := m.controller.Store().Pendings()
	if len(pendings) == 0 {
		m.promptFocused = false
		m.textinput.Focus()
		return m
	}
	if !m.promptFocused {
		m.promptFocused = true
		m.promptIndex = 0
		m.promptChoice = ui.ChoiceAllow
		m.textinput.Blur()
	} else if m.promptIndex+1 < len(pendings) {
		m.promptIndex++
		m.promptChoice = ui.ChoiceAllow
	} else {
		m.promptFocused = false
		m.textinput.Focus()
	}
	m.refreshViewport()
	return m
}

// resolveFocusedPrompt answers the focused permission card.
func (m chatModel) resolveFocusedPrompt(allow bool) (tea.Model, tea.Cmd) {
	pendings := m.controller.Store().Pendings()
	if m.promptIndex >= len(pendings) {
		m.promptFocused = false
		m.textinput.Focus()
		return m, nil
	}
	id := pendings[m.promptIndex].MessageID

	if allow {
		if _, err := m.controller.Approve(id); err != nil {
			m.logger.Debug("approve ignored", zap.Int64("message_id", id), zap.Error(err))
		}
	} else {
		if err := m.controller.Deny(id); err != nil {
			m.logger.Debug("deny ignored", zap.Int64("message_id", id), zap.Error(err))
		}
	}

	m.promptFocused = false
	m.promptIndex = 0
	m.textinput.Focus()
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	m.textinput.Reset()
	m.isLoading = true
	m.err = nil

	return m, tea.Batch(
		m.spinner.Tick,
		m.processInput(input),
	)
}

// processInput runs the submission on a background goroutine. The
// controller appends the user message immediately and the assistant
// message after the simulated latency; spinner ticks repaint the
// viewport in between, so the user message shows while waiting.
func (m chatModel) processInput(input string) tea.Cmd {
	return func() tea.Msg {
		msg, err := m.controller.Submit(m.submitCtx, input)
		if err != nil {
			return errorMsg(err)
		}
		return turnMsg(msg)
	}
}

func (m chatModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]
	m.textinput.Reset()

	switch cmd {
	case "/quit", "/exit", "/q":
		m.submitCancel()
		return m, tea.Quit

	case "/clear":
		m.controller.Reset()
		m.promptFocused = false
		m.refreshViewport()
		return m, nil

	case "/help":
		m.appendNotice(helpText)
		return m, nil

	case "/scopes":
		m.appendNotice(m.scopesText())
		return m, nil

	case "/status":
		m.appendNotice(m.statusText())
		return m, nil

	default:
		m.appendNotice(fmt.Sprintf("Unknown command: `%s`. Type `/help` for available commands.", cmd))
		return m, nil
	}
}

const helpText = `## Commands

| Command | Description |
|---------|-------------|
| /help | Show this help message |
| /scopes | Show context scopes and session grants |
| /status | Show session status |
| /clear | Clear the conversation and session grants |
| /quit, /exit, /q | Exit |

## Keys

- **Enter** sends a message
- **Tab** moves between the input and open permission prompts
- On a focused prompt: **←/→** pick a button, **Enter** confirms,
  **y** allows, **n** denies
- **Ctrl+C** or **Esc** exits
`

// scopesText lists the vocabulary with this session's decisions.
func (m chatModel) scopesText() string {
	granted, denied := m.controller.Policy().Ledger().Snapshot()
	grantedSet := make(map[scope.Scope]bool, len(granted))
	for _, s := range granted {
		grantedSet[s] = true
	}
	deniedSet := make(map[scope.Scope]bool, len(denied))
	for _, s := range denied {
		deniedSet[s] = true
	}

	var sb strings.Builder
	sb.WriteString("## Context scopes\n\n")
	sb.WriteString("| Scope | This session |\n")
	sb.WriteString("|-------|-------------|\n")
	for _, s := range scope.All() {
		state := "not requested"
		switch {
		case grantedSet[s]:
			state = "granted"
		case deniedSet[s]:
			state = "denied"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", s, state))
	}
	sb.WriteString("\nGrants last only for this session; nothing is stored.\n")
	return sb.String()
}

func (m chatModel) statusText() string {
	return fmt.Sprintf(`## Session status

- **Session**: %s
- **Turns**: %d
- **Messages**: %d
- **Open permission prompts**: %d
- **Simulated latency**: %s
- **Time**: %s
`,
		m.sessionID[:8],
		m.turnCount,
		m.controller.Store().Len(),
		len(m.controller.Store().Pendings()),
		m.cfg.Delay(),
		time.Now().Format(time.RFC3339),
	)
}

// appendNotice adds a local assistant-style message that does not go
// through the classifier.
func (m *chatModel) appendNotice(content string) {
	m.controller.Store().Append(conversation.RoleAssistant, content, scope.Access{})
	m.refreshViewport()
	m.viewport.GotoBottom()
}

func (m *chatModel) refreshViewport() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m chatModel) renderHistory() string {
	var sb strings.Builder

	pendings := m.controller.Store().Pendings()
	pendingIndex := make(map[int64]int, len(pendings))
	for i, p := range pendings {
		pendingIndex[p.MessageID] = i
	}

	for _, msg := range m.controller.Store().Messages() {
		if msg.Role == conversation.RoleUser {
			sb.WriteString(m.styles.UserLabel.Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(msg.Content))
			sb.WriteString("\n\n")
			continue
		}

		sb.WriteString(m.styles.AssistantLabel.Render(m.cfg.AssistantName) + "\n")
		sb.WriteString(m.safeRenderMarkdown(msg.Content))
		if badges := m.styles.RenderAccessBadges(msg.Access); badges != "" {
			sb.WriteString(badges + "\n")
		}

		if idx, ok := pendingIndex[msg.ID]; ok {
			card := ui.PermissionCard{
				MessageID: msg.ID,
				Scopes:    pendings[idx].Scopes,
				Focused:   m.promptFocused && idx == m.promptIndex,
				Choice:    m.promptChoice,
			}
			sb.WriteString(m.styles.RenderPermissionCard(card))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery; glamour can
// panic on odd terminal widths.
func (m chatModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m chatModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	chatView := m.styles.Content.Render(m.viewport.View())

	if m.isLoading {
		chatView += "\n" + m.styles.Spinner.Render(m.spinner.View()) + " Thinking..."
	}
	if m.err != nil {
		chatView += "\n" + m.styles.Error.Render("Error: "+m.err.Error())
	}

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	inputArea := inputStyle.Render(m.textinput.View())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		chatView,
		inputArea,
		m.renderFooter(),
	)
}

func (m chatModel) renderHeader() string {
	title := m.styles.Header.Render(" " + m.cfg.AssistantName + " ")
	badge := m.styles.Badge.Render("context demo")

	var status string
	if m.isLoading {
		status = m.styles.Warning.Render("● Thinking")
	} else if len(m.controller.Store().Pendings()) > 0 {
		status = m.styles.Warning.Render("● Awaiting permission")
	} else {
		status = m.styles.Success.Render("● Ready")
	}

	headerLine := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge, "  ", status)
	return lipgloss.JoinVertical(lipgloss.Left, headerLine, m.styles.RenderDivider(m.width))
}

func (m chatModel) renderFooter() string {
	help := "Enter: send • Tab: prompts • /help: commands • Ctrl+C: exit"
	if m.promptFocused {
		help = "←/→: choose • Enter: confirm • y: allow • n: deny • Tab: next"
	}
	return m.styles.Footer.Render(help)
}

// runInteractiveChat starts the TUI.
func runInteractiveChat(cfg config.Config, controller *conversation.Controller, logger *zap.Logger) error {
	m := initChat(cfg, controller, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface error: %w", err)
	}
	return nil
}
