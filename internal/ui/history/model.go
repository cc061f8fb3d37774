// Package history browses previously generated drafts so a response
// can be reused in the compose view.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-assistant/internal/keys"
	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/store"
	"github.com/nhle/mail-assistant/internal/theme"
)

const listLimit = 50

// InsertDraftMsg carries the draft the user chose to insert into the
// compose view.
type InsertDraftMsg struct {
	Draft model.Draft
}

// HistoryCloseMsg signals the history view should close.
type HistoryCloseMsg struct{}

// draftsLoadedMsg carries the loaded draft list.
type draftsLoadedMsg struct {
	drafts []model.Draft
	err    error
}

// draftDeletedMsg is sent after a delete completes.
type draftDeletedMsg struct {
	err error
}

// Model is the history Bubble Tea model.
type Model struct {
	store store.Store

	drafts []model.Draft
	cursor int
	errMsg string

	keys          *keys.KeyMap
	width, height int
}

// New creates the history view.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init loads the draft list.
func (m Model) Init() tea.Cmd {
	return m.loadDrafts()
}

// SetKeys updates the key bindings after the hotkey changes.
func (m *Model) SetKeys(k *keys.KeyMap) {
	m.keys = k
}

// Reload re-fetches the draft list.
func (m Model) Reload() tea.Cmd {
	return m.loadDrafts()
}

func (m Model) loadDrafts() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		drafts, err := s.GetDrafts(context.Background(), listLimit)
		return draftsLoadedMsg{drafts: drafts, err: err}
	}
}

func (m Model) deleteDraft(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return draftDeletedMsg{err: s.DeleteDraft(context.Background(), id)}
	}
}

// Update handles messages for the history view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case draftsLoadedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Failed to load history: %v", msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.drafts = msg.drafts
		if m.cursor >= len(m.drafts) {
			m.cursor = 0
		}
		return m, nil

	case draftDeletedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Failed to delete draft: %v", msg.err)
			return m, nil
		}
		return m, m.loadDrafts()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return HistoryCloseMsg{} }

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.drafts)-1 {
			m.cursor++
		}

	case "enter":
		if len(m.drafts) == 0 {
			return m, nil
		}
		draft := m.drafts[m.cursor]
		return m, func() tea.Msg { return InsertDraftMsg{Draft: draft} }

	case "d":
		if len(m.drafts) == 0 {
			return m, nil
		}
		return m, m.deleteDraft(m.drafts[m.cursor].ID)
	}

	return m, nil
}

// View renders the history view: the draft list on top, a preview of
// the selected response below.
func (m Model) View() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render("Draft History") + "\n\n")

	if m.errMsg != "" {
		b.WriteString(theme.ErrorStyle.Render(m.errMsg) + "\n\n")
	}

	if len(m.drafts) == 0 {
		b.WriteString("No drafts yet. Generated responses appear here.\n")
		b.WriteString("\n" + theme.HelpStyle.Render("esc: back"))
		return style.Render(b.String())
	}

	for i, d := range m.drafts {
		line := fmt.Sprintf(
			"%s  %-14s  %s",
			d.CreatedAt.Local().Format("Jan 02 15:04"),
			d.Model,
			truncate(firstLine(d.Prompt), 48),
		)
		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line) + "\n")
		} else {
			b.WriteString(theme.ListItemStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n" + theme.PanelStyle.Width(m.width-6).Render(
		truncate(m.drafts[m.cursor].Response, previewLimit(m.height)),
	))

	b.WriteString("\n" + theme.HelpStyle.Render(
		"enter: insert  d: delete  esc: back",
	))

	return style.Render(b.String())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func previewLimit(height int) int {
	n := height * 10
	if n < 200 {
		n = 200
	}
	return n
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
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
