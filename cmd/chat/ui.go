package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"carechat-backend/internal/chatui"
	"carechat-backend/internal/models"
)

const defaultWrapWidth = 80

var (
	Background = lipgloss.Color("#1b2631")
	Muted      = lipgloss.Color("#6b7f8e")
	UserGreen  = lipgloss.Color("#c8e6c9")
	BotBlue    = lipgloss.Color("#90caf9")
)

var speakerStyle = map[models.Speaker]lipgloss.Style{
	models.SpeakerUser: lipgloss.NewStyle().Padding(0, 1).Margin(1, 0, 0, 0).Background(Background).Foreground(UserGreen),
	models.SpeakerBot:  lipgloss.NewStyle().Padding(0, 1).Margin(1, 0, 0, 0).Background(Background).Foreground(BotBlue),
}

var speakerLabel = map[models.Speaker]string{
	models.SpeakerUser: "You",
	models.SpeakerBot:  "Bot",
}

var timeStyle = lipgloss.NewStyle().Foreground(Muted)

// sessionMsg carries a session snapshot into the program.
type sessionMsg struct {
	turns  []models.ChatTurn
	typing bool
}

type model struct {
	ctx      context.Context
	session  *chatui.Session
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	turns    []models.ChatTurn
	typing   bool
	width    int
}

func newModel(ctx context.Context, session *chatui.Session) model {
	ta := textarea.New()
	ta.Placeholder = "Ask a health question..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 1000
	ta.SetHeight(2)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Ellipsis

	vp := viewport.New(defaultWrapWidth, 20)
	vp.SetContent(timeStyle.Render("General health information only. Consult a doctor for serious issues."))

	return model{
		ctx:      ctx,
		session:  session,
		viewport: vp,
		textarea: ta,
		spinner:  sp,
		width:    defaultWrapWidth,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// submit runs the request off the update loop. Each submit is independent, so
// a second line can be sent before the first reply arrives.
func (m model) submit(text string) tea.Cmd {
	return func() tea.Msg {
		m.session.Submit(m.ctx, text)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		m.turns = msg.turns
		m.typing = msg.typing
		m.viewport.SetContent(renderTurns(m.turns, m.width))
		m.viewport.GotoBottom()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - m.textarea.Height() - 3
		m.textarea.SetWidth(msg.Width)
		if len(m.turns) > 0 {
			m.viewport.SetContent(renderTurns(m.turns, m.width))
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			v := m.textarea.Value()
			m.textarea.Reset()
			return m, m.submit(v)
		}
	}

	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

func (m model) View() string {
	status := ""
	if m.typing {
		status = timeStyle.Render("Bot is typing" + m.spinner.View())
	}
	return m.viewport.View() + "\n" + status + "\n" + m.textarea.View()
}

func renderTurns(turns []models.ChatTurn, width int) string {
	var sb strings.Builder
	for _, turn := range turns {
		sb.WriteString(formatTurn(turn, width))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatTurn(turn models.ChatTurn, width int) string {
	if width <= 4 {
		width = defaultWrapWidth
	}
	label, ok := speakerLabel[turn.Speaker]
	if !ok {
		label = string(turn.Speaker)
	}
	header := label + " " + timeStyle.Render(turn.Timestamp.Format("15:04"))
	wrapped := wordwrap.String(strings.TrimSpace(turn.Text), width-4)

	style, ok := speakerStyle[turn.Speaker]
	if !ok {
		return header + "\n" + wrapped
	}
	return header + "\n" + style.Render(wrapped)
}
