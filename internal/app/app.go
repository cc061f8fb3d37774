// Package app wires the views together: compose is the home screen,
// with preferences, inbox, history, and help layered on top of it.
package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mail-assistant/internal/credential"
	"github.com/nhle/mail-assistant/internal/keys"
	"github.com/nhle/mail-assistant/internal/llm"
	"github.com/nhle/mail-assistant/internal/mail"
	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/source/imap"
	"github.com/nhle/mail-assistant/internal/store"
	"github.com/nhle/mail-assistant/internal/ui"
	"github.com/nhle/mail-assistant/internal/ui/compose"
	helpview "github.com/nhle/mail-assistant/internal/ui/help"
	historyview "github.com/nhle/mail-assistant/internal/ui/history"
	inboxview "github.com/nhle/mail-assistant/internal/ui/inbox"
	prefsview "github.com/nhle/mail-assistant/internal/ui/prefs"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewCompose ViewState = iota
	ViewPrefs
	ViewInbox
	ViewHistory
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and the shared configuration.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	cfg    model.Config
	client *llm.Client
	store  store.Store
	keys   *keys.KeyMap

	composeView compose.Model
	prefsView   prefsview.Model
	inboxView   inboxview.Model
	historyView historyview.Model
	helpView    helpview.Model

	ready bool
}

// New creates the root application model. The configuration is the one
// loaded from disk with the API key already resolved; when it is not
// yet valid the preferences view opens first.
func New(cfg model.Config, s store.Store, initialReply *mail.ReplyContext) Model {
	k := keys.NewKeyMap(cfg.Hotkey)
	client := llm.NewClient()

	cv := compose.New(client, s, cfg, k, 80, 24)
	if initialReply != nil {
		cv.SetReply(initialReply)
	}

	m := Model{
		currentView: ViewCompose,
		cfg:         cfg,
		client:      client,
		store:       s,
		keys:        k,
		composeView: cv,
		prefsView:   prefsview.New(client, cfg, k, 80, 24),
		inboxView:   inboxview.New(loadIMAPClient(cfg), k, 80, 24),
		historyView: historyview.New(s, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
	}

	if !cfg.IsValid() {
		m.currentView = ViewPrefs
	}
	return m
}

// ResolveAPIKey picks the effective API key: the environment variable
// wins, then the system keyring, then the value from the config file.
func ResolveAPIKey(fileKey string) string {
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		return k
	}
	if k, err := credential.Get(credential.KeyOpenAIAPIKey); err == nil && k != "" {
		return k
	}
	return fileKey
}

// loadIMAPClient builds the inbox client when an account is
// configured. A missing keyring password degrades to an empty one so
// the connection error surfaces in the inbox view.
func loadIMAPClient(cfg model.Config) *imap.Client {
	if !cfg.HasIMAP() {
		return nil
	}
	password, err := credential.Get(credential.KeyIMAPPassword)
	if err != nil {
		password = ""
	}
	return imap.NewClient(cfg.IMAP, password)
}

// Init returns the initial commands for the starting view.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.composeView.Init()}
	if m.currentView == ViewPrefs {
		cmds = append(cmds, m.prefsView.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.composeView.SetSize(contentWidth, contentHeight)
		m.prefsView.SetSize(contentWidth, contentHeight)
		m.inboxView.SetSize(contentWidth, contentHeight)
		m.historyView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can size themselves.
		return m.updateActiveView(msg)

	case compose.GenerateResultMsg:
		// Always reaches the compose view, even if the user switched
		// views while the call was in flight.
		var cmd tea.Cmd
		m.composeView, cmd = m.composeView.Update(msg)
		return m, cmd

	case prefsview.PrefsSavedMsg:
		return m.applyConfig(msg.Config)

	case prefsview.PrefsDoneMsg:
		m.currentView = m.previousView
		return m, nil

	case inboxview.ReplySelectedMsg:
		m.composeView.SetReply(msg.Reply)
		m.currentView = ViewCompose
		return m, m.composeView.Focus()

	case inboxview.InboxCloseMsg:
		m.currentView = ViewCompose
		return m, m.composeView.Focus()

	case historyview.InsertDraftMsg:
		m.composeView.InsertText(msg.Draft.Response)
		m.currentView = ViewCompose
		return m, m.composeView.Focus()

	case historyview.HistoryCloseMsg:
		m.currentView = ViewCompose
		return m, m.composeView.Focus()

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey covers the chords that work from any view. Returns
// handled=false for keys the active view should see instead.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Preferences):
		if m.currentView == ViewPrefs {
			return m, nil, false
		}
		m.previousView = m.currentView
		m.currentView = ViewPrefs
		return m, m.prefsView.Open(m.cfg), true

	case key.Matches(msg, m.keys.Inbox):
		if m.currentView == ViewInbox {
			return m, nil, false
		}
		m.previousView = m.currentView
		m.currentView = ViewInbox
		return m, m.inboxView.Reload(), true

	case key.Matches(msg, m.keys.History):
		if m.currentView == ViewHistory {
			return m, nil, false
		}
		m.previousView = m.currentView
		m.currentView = ViewHistory
		return m, m.historyView.Reload(), true

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
	}

	return m, nil, false
}

// applyConfig replaces the configuration wholesale after a successful
// preferences save and rebuilds everything derived from it.
func (m Model) applyConfig(cfg model.Config) (tea.Model, tea.Cmd) {
	m.cfg = cfg
	m.keys = keys.NewKeyMap(cfg.Hotkey)

	m.composeView.SetConfig(cfg)
	m.composeView.SetKeys(m.keys)
	m.prefsView.SetConfig(cfg)
	m.inboxView.SetClient(loadIMAPClient(cfg))
	m.inboxView.SetKeys(m.keys)
	m.historyView.SetKeys(m.keys)
	m.helpView.SetKeys(m.keys)

	m.currentView = ViewCompose
	return m, m.composeView.Focus()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	case ViewPrefs:
		m.prefsView, cmd = m.prefsView.Update(msg)
	case ViewInbox:
		m.inboxView, cmd = m.inboxView.Update(msg)
	case ViewHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Mail Assistant", m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCompose:
		return m.composeView.View()
	case ViewPrefs:
		return m.prefsView.View()
	case ViewInbox:
		return m.inboxView.View()
	case ViewHistory:
		return m.historyView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// headerStatus summarizes the assistant state for the header.
func (m Model) headerStatus() string {
	if !m.cfg.IsValid() {
		return "not configured"
	}
	if m.composeView.Generating() {
		return fmt.Sprintf("%s · generating", m.cfg.Model)
	}
	return m.cfg.Model
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewPrefs:
		return "enter next | shift+tab back | esc cancel"
	case ViewInbox:
		return "enter reply | r refresh | esc back"
	case ViewHistory:
		return "enter insert | d delete | esc back"
	case ViewHelp:
		return "esc back"
	default:
		gen := keys.NormalizeHotkey(m.cfg.Hotkey)
		return fmt.Sprintf(
			"%s generate | ctrl+p preferences | ctrl+o inbox | ctrl+r history | ctrl+/ help | ctrl+c quit",
			gen,
		)
	}
}
