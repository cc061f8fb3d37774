// Package prefs is the preferences dialog: a form over the persisted
// configuration, with the model list fetched live when the API key
// already works and a built-in catalog otherwise.
package prefs

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-assistant/internal/config"
	"github.com/nhle/mail-assistant/internal/credential"
	"github.com/nhle/mail-assistant/internal/keys"
	"github.com/nhle/mail-assistant/internal/llm"
	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/theme"
)

// PrefsSavedMsg carries the new configuration to the root model after
// a successful save. The root replaces its copy wholesale.
type PrefsSavedMsg struct {
	Config model.Config
}

// PrefsDoneMsg signals the preferences view should close without saving.
type PrefsDoneMsg struct{}

// modelsFetchedMsg carries the live model list (or the fetch error).
type modelsFetchedMsg struct {
	ids []string
	err error
}

// savedMsg is sent after the configuration has been persisted.
type savedMsg struct {
	cfg model.Config
	err error
}

// Model is the preferences Bubble Tea model.
type Model struct {
	client *llm.Client
	cfg    model.Config

	form     *huh.Form
	fetching bool
	spinner  spinner.Model

	// Form field values (huh binds to these).
	formAPIKey       string
	formModel        string
	formSystemPrompt string
	formHotkey       string
	formUserName     string
	formUserEmail    string
	formKeyInKeyring bool

	formIMAPHost string
	formIMAPPort string
	formIMAPUser string
	formIMAPPass string
	formIMAPTLS  bool

	statusMsg string

	keys          *keys.KeyMap
	width, height int
}

// New creates the preferences view for the current configuration.
func New(client *llm.Client, cfg model.Config, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:   client,
		cfg:      cfg,
		fetching: cfg.IsValid(),
		spinner:  sp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init starts the model-list fetch when the key already works;
// otherwise the form opens immediately with the built-in catalog.
func (m Model) Init() tea.Cmd {
	if m.fetching {
		return tea.Batch(m.spinner.Tick, m.fetchModels())
	}

	return func() tea.Msg {
		return modelsFetchedMsg{ids: nil, err: llm.ErrInvalidAPIKey}
	}
}

// Open resets the view against a fresh configuration snapshot and
// returns its startup command. Used when the view is re-entered.
func (m *Model) Open(cfg model.Config) tea.Cmd {
	m.cfg = cfg
	m.form = nil
	m.statusMsg = ""
	m.fetching = cfg.IsValid()
	return m.Init()
}

// SetConfig points the view at a new configuration snapshot.
func (m *Model) SetConfig(cfg model.Config) {
	m.cfg = cfg
}

// loadFields copies the configuration into the bound form values.
// Secrets are pre-filled so the user can see what will be saved; the
// inputs use password echo.
func (m *Model) loadFields() {
	m.formAPIKey = m.cfg.APIKey
	m.formModel = m.cfg.Model
	m.formSystemPrompt = m.cfg.SystemPrompt
	m.formHotkey = m.cfg.Hotkey
	m.formUserName = m.cfg.UserName
	m.formUserEmail = m.cfg.UserEmail
	m.formIMAPHost = m.cfg.IMAP.Host
	m.formIMAPPort = m.cfg.IMAP.Port
	m.formIMAPUser = m.cfg.IMAP.Username
	m.formIMAPPass = ""
	m.formIMAPTLS = m.cfg.IMAP.TLS
}

// Update handles messages for the preferences view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case modelsFetchedMsg:
		m.fetching = false
		m.loadFields()
		m.form = m.buildForm(m.modelOptions(msg.ids))
		return m, m.form.Init()

	case savedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error saving preferences: %v", msg.err)
			return m, nil
		}
		return m, func() tea.Msg { return PrefsSavedMsg{Config: msg.cfg} }

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.fetching {
			if msg.String() == "esc" {
				return m, func() tea.Msg { return PrefsDoneMsg{} }
			}
			return m, nil
		}
	}

	return m.updateForm(msg)
}

// updateForm delegates to the huh form and reacts to completion.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.save()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return PrefsDoneMsg{} }
	}

	return m, cmd
}

// fetchModels queries the models endpoint; any failure degrades to the
// built-in catalog.
func (m Model) fetchModels() tea.Cmd {
	client := m.client
	apiKey := m.cfg.APIKey
	return func() tea.Msg {
		ids, err := client.FetchAvailableModels(context.Background(), apiKey)
		return modelsFetchedMsg{ids: ids, err: err}
	}
}

// modelOptions builds the select options from the live list, falling
// back to the built-in catalog when the list is empty or unavailable.
// The currently configured model is always selectable.
func (m Model) modelOptions(ids []string) []huh.Option[string] {
	var opts []huh.Option[string]

	if len(ids) > 0 {
		for _, id := range ids {
			opts = append(opts, huh.NewOption(id, id))
		}
	} else {
		for _, fb := range llm.FallbackModels() {
			opts = append(opts, huh.NewOption(fb.Description, fb.ID))
		}
	}

	for _, opt := range opts {
		if opt.Value == m.cfg.Model {
			return opts
		}
	}
	return append(
		[]huh.Option[string]{huh.NewOption(m.cfg.Model, m.cfg.Model)},
		opts...,
	)
}

// buildForm constructs the preferences form.
func (m *Model) buildForm(modelOpts []huh.Option[string]) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API Key").
				Description("From https://platform.openai.com/api-keys").
				EchoMode(huh.EchoModePassword).
				Value(&m.formAPIKey).
				Validate(validateAPIKey),
			huh.NewSelect[string]().
				Title("Model").
				Description("Recommended: gpt-4o-mini (best balance of speed, quality, and cost)").
				Options(modelOpts...).
				Value(&m.formModel),
			huh.NewText().
				Title("System Prompt").
				Description("Instruction establishing the assistant's behavior").
				Value(&m.formSystemPrompt),
			huh.NewInput().
				Title("Hotkey").
				Description("Generation trigger (e.g., ctrl+shift+g)").
				Value(&m.formHotkey),
			huh.NewInput().
				Title("Your Name").
				Value(&m.formUserName),
			huh.NewInput().
				Title("Your Email").
				Value(&m.formUserEmail),
			huh.NewConfirm().
				Title("Store API key in system keyring").
				Description("Keeps the key out of the plaintext config file").
				Affirmative("Yes").
				Negative("No").
				Value(&m.formKeyInKeyring),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("IMAP Host").
				Description("Optional: enables the inbox view for replies").
				Placeholder("imap.example.com").
				Value(&m.formIMAPHost),
			huh.NewInput().
				Title("IMAP Port").
				Placeholder("993").
				Value(&m.formIMAPPort),
			huh.NewInput().
				Title("IMAP Username").
				Placeholder("user@example.com").
				Value(&m.formIMAPUser),
			huh.NewInput().
				Title("IMAP Password").
				Description("Stored in the system keyring, never in the config file").
				EchoMode(huh.EchoModePassword).
				Value(&m.formIMAPPass),
			huh.NewConfirm().
				Title("Use TLS").
				Affirmative("Yes").
				Negative("No").
				Value(&m.formIMAPTLS),
		),
	).WithWidth(m.formWidth())
}

// save persists the edited configuration and hands secrets to the
// keyring. The file keeps the placeholder key when the real key lives
// in the keyring.
func (m Model) save() tea.Cmd {
	cfg := model.Config{
		APIKey:       strings.TrimSpace(m.formAPIKey),
		Model:        m.formModel,
		SystemPrompt: m.formSystemPrompt,
		Hotkey:       strings.TrimSpace(m.formHotkey),
		UserName:     strings.TrimSpace(m.formUserName),
		UserEmail:    strings.TrimSpace(m.formUserEmail),
		IMAP: model.IMAPConfig{
			Host:     strings.TrimSpace(m.formIMAPHost),
			Port:     strings.TrimSpace(m.formIMAPPort),
			Username: strings.TrimSpace(m.formIMAPUser),
			TLS:      m.formIMAPTLS,
		},
	}
	keyInKeyring := m.formKeyInKeyring
	imapPass := m.formIMAPPass

	return func() tea.Msg {
		if imapPass != "" {
			if err := credential.Set(credential.KeyIMAPPassword, imapPass); err != nil {
				return savedMsg{err: err}
			}
		}

		persisted := cfg
		if keyInKeyring && cfg.IsValid() {
			if err := credential.Set(credential.KeyOpenAIAPIKey, cfg.APIKey); err != nil {
				return savedMsg{err: err}
			}
			persisted.APIKey = model.PlaceholderAPIKey
		}

		if err := config.Save(&persisted); err != nil {
			return savedMsg{err: err}
		}

		// The in-memory config keeps the real key either way.
		return savedMsg{cfg: cfg}
	}
}

// View renders the preferences view.
func (m Model) View() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	if m.fetching {
		return style.Render(fmt.Sprintf(
			"%s Loading available models...\n\nPress esc to cancel.",
			m.spinner.View(),
		))
	}

	if m.form == nil {
		return style.Render("")
	}

	content := m.form.View()
	if m.statusMsg != "" {
		content += "\n" + theme.ErrorStyle.Render(m.statusMsg)
	}
	return style.Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// validateAPIKey mirrors the configuration validity rule so the form
// rejects a key that could never authenticate.
func validateAPIKey(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == model.PlaceholderAPIKey {
		return fmt.Errorf("an OpenAI API key is required")
	}
	if len(s) <= 10 {
		return fmt.Errorf("API key looks too short")
	}
	return nil
}
