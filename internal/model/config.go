package model

// Default values written into a freshly created configuration file and
// substituted for missing keys at load time.
const (
	DefaultModel        = "gpt-4o-mini"
	DefaultHotkey       = "ctrl+shift+g"
	DefaultSystemPrompt = "You are a helpful email writing assistant."

	// PlaceholderAPIKey is the value the default config file ships with.
	// A configuration carrying it is never valid for API calls.
	PlaceholderAPIKey = "your_openai_api_key_here"
)

// IMAPConfig holds the optional inbox settings. The account password is
// never stored here; it lives in the system keyring.
type IMAPConfig struct {
	Host     string
	Port     string
	Username string
	TLS      bool
}

// Config is the durable user configuration backing every generation call.
// It is treated as a value: the app replaces its copy wholesale after a
// successful preferences save, so an in-flight request keeps the
// configuration it started with.
type Config struct {
	APIKey       string
	Model        string
	SystemPrompt string
	Hotkey       string
	UserName     string
	UserEmail    string

	IMAP IMAPConfig
}

// DefaultConfig returns the configuration a fresh install starts with.
func DefaultConfig() *Config {
	return &Config{
		APIKey:       PlaceholderAPIKey,
		Model:        DefaultModel,
		SystemPrompt: DefaultSystemPrompt,
		Hotkey:       DefaultHotkey,
		UserName:     "Your Name",
		UserEmail:    "your.email@example.com",
		IMAP:         IMAPConfig{TLS: true},
	}
}

// IsValid reports whether the configuration can be used for API calls:
// the key must be present, must not be the shipped placeholder, and must
// be longer than 10 characters.
func (c *Config) IsValid() bool {
	if c == nil {
		return false
	}
	return c.APIKey != "" &&
		c.APIKey != PlaceholderAPIKey &&
		len(c.APIKey) > 10
}

// HasIMAP reports whether the optional inbox source is configured.
func (c *Config) HasIMAP() bool {
	return c != nil && c.IMAP.Host != "" && c.IMAP.Username != ""
}
