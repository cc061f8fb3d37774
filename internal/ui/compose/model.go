// Package compose is the email drafting view: a text area whose
// content (or embedded /aw: instruction) is sent to the assistant when
// the user presses the configured hotkey, with the generated text
// inserted back at the cursor.
package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nhle/mail-assistant/internal/keys"
	"github.com/nhle/mail-assistant/internal/llm"
	"github.com/nhle/mail-assistant/internal/mail"
	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/store"
	"github.com/nhle/mail-assistant/internal/theme"
)

// GenerateResultMsg carries the outcome of a generation call.
type GenerateResultMsg struct {
	Request *model.GenerationRequest
	Err     error
}

// draftRecordedMsg is sent after a generation has been written to the
// history store.
type draftRecordedMsg struct {
	err error
}

// Model is the compose view Bubble Tea model.
type Model struct {
	client *llm.Client
	store  store.Store
	cfg    model.Config

	input   textarea.Model
	spinner spinner.Model

	reply *mail.ReplyContext

	generating bool
	statusMsg  string
	statusErr  bool

	keys          *keys.KeyMap
	width, height int
}

// New creates the compose view.
func New(
	client *llm.Client,
	s store.Store,
	cfg model.Config,
	k *keys.KeyMap,
	width, height int,
) Model {
	ta := textarea.New()
	ta.Placeholder = "Write your email, or type /aw: <instruction> and press the hotkey..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width - 4)
	ta.SetHeight(height - 6)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:  client,
		store:   s,
		cfg:     cfg,
		input:   ta,
		spinner: sp,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init returns the initial command for the compose view.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// SetConfig replaces the configuration used for subsequent
// generations. A call already in flight keeps the value it started
// with.
func (m *Model) SetConfig(cfg model.Config) {
	m.cfg = cfg
}

// SetKeys swaps the keymap after the hotkey changes.
func (m *Model) SetKeys(k *keys.KeyMap) {
	m.keys = k
}

// SetReply seeds the compose area with a quoted original message.
func (m *Model) SetReply(rc *mail.ReplyContext) {
	m.reply = rc
	m.input.SetValue("\n\n" + rc.QuotedBlock())
	m.statusMsg = fmt.Sprintf("Replying to %s", replyLabel(rc))
	m.statusErr = false
}

// InsertText inserts text at the cursor, e.g. a draft picked from the
// history view.
func (m *Model) InsertText(text string) {
	m.input.InsertString(text)
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case GenerateResultMsg:
		return m.handleGenerateResult(msg)

	case draftRecordedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("History not recorded: %v", msg.err)
			m.statusErr = true
		}
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Generate) {
			return m.startGenerate()
		}
		if m.generating {
			// Input stays disabled while a call is outstanding.
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startGenerate builds a GenerationRequest from the compose buffer and
// fires the chat-completion call. At most one call is in flight at a
// time; further hotkey presses are ignored until it returns.
func (m Model) startGenerate() (Model, tea.Cmd) {
	if m.generating {
		return m, nil
	}

	if !m.cfg.IsValid() {
		m.statusMsg = "OpenAI API key is not configured. Press ctrl+p to open preferences."
		m.statusErr = true
		return m, nil
	}

	text := m.input.Value()

	// An inline /aw: instruction takes over as the prompt; otherwise
	// the whole buffer is sent verbatim.
	prompt, ok := llm.ExtractPrompt(text)
	if !ok {
		prompt = strings.TrimSpace(text)
	}
	if prompt == "" {
		m.statusMsg = "Nothing to send: the compose area is empty."
		m.statusErr = true
		return m, nil
	}

	req := &model.GenerationRequest{Prompt: prompt}
	if m.reply != nil {
		req.OriginalEmail = m.reply.QuotedBlock()
		req.SenderName = m.reply.SenderName
		req.SenderEmail = m.reply.SenderAddress
	} else if quoted, found := llm.ExtractQuotedOriginal(text); found {
		req.OriginalEmail = quoted
	}

	m.generating = true
	m.statusMsg = ""
	m.statusErr = false

	return m, tea.Batch(
		m.spinner.Tick,
		m.generateCmd(m.cfg, req),
	)
}

// generateCmd runs the blocking generation call off the UI loop. The
// config is captured by value so a preferences save during the call
// cannot affect it.
func (m Model) generateCmd(
	cfg model.Config,
	req *model.GenerationRequest,
) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.Generate(context.Background(), cfg, req)
		return GenerateResultMsg{Request: req, Err: err}
	}
}

// handleGenerateResult inserts the generated text at the cursor and
// records it in the history.
func (m Model) handleGenerateResult(msg GenerateResultMsg) (Model, tea.Cmd) {
	m.generating = false

	if msg.Err != nil {
		m.statusMsg = fmt.Sprintf("Generation failed: %v", msg.Err)
		m.statusErr = true
		return m, nil
	}

	m.input.InsertString("\n" + msg.Request.Response + "\n")
	m.statusMsg = "Draft inserted."
	m.statusErr = false

	if m.store == nil {
		return m, nil
	}
	return m, m.recordDraft(msg.Request)
}

// recordDraft persists the completed generation to the history store.
func (m Model) recordDraft(req *model.GenerationRequest) tea.Cmd {
	s := m.store
	draft := model.Draft{
		ID:        uuid.New().String(),
		Prompt:    req.Prompt,
		Response:  req.Response,
		Model:     m.cfg.Model,
		CreatedAt: time.Now().UTC(),
	}
	return func() tea.Msg {
		err := s.CreateDraft(context.Background(), draft)
		return draftRecordedMsg{err: err}
	}
}

// Generating reports whether a call is currently outstanding.
func (m Model) Generating() bool {
	return m.generating
}

// View renders the compose view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := "Compose"
	if m.reply != nil && m.reply.Subject != "" {
		title = "Compose: " + m.reply.ReplySubject()
	}

	var status string
	switch {
	case m.generating:
		status = m.spinner.View() + " Generating..."
	case m.statusErr:
		status = theme.ErrorStyle.Render(m.statusMsg)
	case m.statusMsg != "":
		status = theme.SuccessStyle.Render(m.statusMsg)
	default:
		status = theme.HelpStyle.Render(
			fmt.Sprintf("%s generate | ctrl+p preferences", m.generateKeyHint()),
		)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		m.input.View(),
		"",
		status,
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m Model) generateKeyHint() string {
	return m.keys.Generate.Help().Key
}

// SetSize updates the compose view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(width - 4)

	taHeight := height - 6
	if taHeight < 4 {
		taHeight = 4
	}
	m.input.SetHeight(taHeight)
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

func replyLabel(rc *mail.ReplyContext) string {
	if rc.SenderName != "" {
		return rc.SenderName
	}
	if rc.SenderAddress != "" {
		return rc.SenderAddress
	}
	return "message"
}
