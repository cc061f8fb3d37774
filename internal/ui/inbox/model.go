// Package inbox lists recent messages from the configured IMAP
// account so a reply draft can be started from one of them.
package inbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-assistant/internal/keys"
	"github.com/nhle/mail-assistant/internal/mail"
	"github.com/nhle/mail-assistant/internal/source/imap"
	"github.com/nhle/mail-assistant/internal/theme"
)

const fetchLimit = 25

// ReplySelectedMsg carries the parsed message the user chose to reply to.
type ReplySelectedMsg struct {
	Reply *mail.ReplyContext
}

// InboxCloseMsg signals the inbox view should close.
type InboxCloseMsg struct{}

// envelopesLoadedMsg carries the fetched envelope list.
type envelopesLoadedMsg struct {
	envelopes []imap.Envelope
	err       error
}

// replyLoadedMsg carries the full message body for the chosen envelope.
type replyLoadedMsg struct {
	reply *mail.ReplyContext
	err   error
}

// Model is the inbox Bubble Tea model.
type Model struct {
	client *imap.Client

	envelopes []imap.Envelope
	cursor    int

	loading bool
	spinner spinner.Model
	errMsg  string

	keys          *keys.KeyMap
	width, height int
}

// New creates the inbox view. A nil client means no IMAP account is
// configured; the view renders setup guidance instead of a list.
func New(client *imap.Client, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:  client,
		loading: client != nil,
		spinner: sp,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init kicks off the envelope fetch.
func (m Model) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.loadEnvelopes())
}

// SetClient swaps the IMAP client after the account settings change.
func (m *Model) SetClient(client *imap.Client) {
	m.client = client
	m.envelopes = nil
	m.cursor = 0
	m.errMsg = ""
}

// SetKeys updates the key bindings after the hotkey changes.
func (m *Model) SetKeys(k *keys.KeyMap) {
	m.keys = k
}

// Reload re-fetches the envelope list.
func (m *Model) Reload() tea.Cmd {
	if m.client == nil {
		return nil
	}
	m.loading = true
	m.errMsg = ""
	return tea.Batch(m.spinner.Tick, m.loadEnvelopes())
}

func (m Model) loadEnvelopes() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		envs, err := client.FetchEnvelopes(context.Background(), fetchLimit)
		return envelopesLoadedMsg{envelopes: envs, err: err}
	}
}

func (m Model) loadReply(uid uint32) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		reply, err := client.FetchReplyContext(context.Background(), uid)
		return replyLoadedMsg{reply: reply, err: err}
	}
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case envelopesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Failed to load inbox: %v", msg.err)
			return m, nil
		}
		m.envelopes = msg.envelopes
		if m.cursor >= len(m.envelopes) {
			m.cursor = 0
		}
		return m, nil

	case replyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Failed to load message: %v", msg.err)
			return m, nil
		}
		reply := msg.reply
		return m, func() tea.Msg { return ReplySelectedMsg{Reply: reply} }

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.loading {
		if msg.String() == "esc" {
			return m, func() tea.Msg { return InboxCloseMsg{} }
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return InboxCloseMsg{} }

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.envelopes)-1 {
			m.cursor++
		}

	case "r":
		return m, m.Reload()

	case "enter":
		if m.client == nil || len(m.envelopes) == 0 {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadReply(m.envelopes[m.cursor].UID))
	}

	return m, nil
}

// View renders the inbox view.
func (m Model) View() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	if m.client == nil {
		return style.Render(
			"No IMAP account configured.\n\n" +
				"Open preferences (ctrl+p) and fill in the IMAP host,\n" +
				"port, and username to enable the inbox view.\n\n" +
				"Press esc to go back.",
		)
	}

	if m.loading {
		return style.Render(fmt.Sprintf("%s Loading inbox...", m.spinner.View()))
	}

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render("Inbox") + "\n\n")

	if m.errMsg != "" {
		b.WriteString(theme.ErrorStyle.Render(m.errMsg) + "\n\n")
	}

	if len(m.envelopes) == 0 {
		b.WriteString("No recent messages.\n")
	}

	for i, env := range m.envelopes {
		line := fmt.Sprintf(
			"%s  %s  %s",
			env.Date.Format("Jan 02"),
			truncate(env.From, 28),
			truncate(env.Subject, 50),
		)
		if !env.Seen {
			line = "* " + line
		} else {
			line = "  " + line
		}
		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line) + "\n")
		} else {
			b.WriteString(theme.ListItemStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n" + theme.HelpStyle.Render(
		"enter: reply  r: refresh  esc: back",
	))

	return style.Render(b.String())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
