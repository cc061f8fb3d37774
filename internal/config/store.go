// Package config persists user settings as an INI file under the
// per-user configuration directory. The whole file is regenerated on
// every save; loading substitutes documented defaults for missing keys.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/nhle/mail-assistant/internal/model"
)

const (
	dirName  = "mail-assistant"
	fileName = "config.conf"
)

// fileHeader is written as a comment at the top of the config file.
const fileHeader = "Mail Assistant Configuration\n" +
	"Get your OpenAI API key from: https://platform.openai.com/api-keys"

// Path returns the deterministic config file location, stable across
// restarts: <user config dir>/mail-assistant/config.conf.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(base, dirName, fileName), nil
}

// Load reads the configuration from the default path, creating a
// default-valued file first if none exists. A file that cannot be
// parsed is an error; the caller must treat the app as unconfigured.
func Load() (*model.Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load against an explicit file path.
func LoadFrom(path string) (*model.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveTo(path, model.DefaultConfig()); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg := &model.Config{}
	openai := f.Section("openai")
	cfg.APIKey = openai.Key("api_key").String()
	cfg.Model = stringOr(openai, "model", model.DefaultModel)
	cfg.SystemPrompt = stringOr(openai, "system_prompt", model.DefaultSystemPrompt)
	cfg.Hotkey = stringOr(f.Section("ui"), "hotkey", model.DefaultHotkey)

	user := f.Section("user")
	cfg.UserName = user.Key("name").String()
	cfg.UserEmail = user.Key("email").String()

	imap := f.Section("imap")
	cfg.IMAP = model.IMAPConfig{
		Host:     imap.Key("host").String(),
		Port:     imap.Key("port").String(),
		Username: imap.Key("username").String(),
		TLS:      imap.Key("tls").MustBool(true),
	}

	return cfg, nil
}

// Save serializes the configuration to the default path, overwriting
// the previous file.
func Save(cfg *model.Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo regenerates the whole config file from cfg at path. The write
// goes through a temp file and rename so a failure never leaves a
// partially written config behind.
func SaveTo(path string, cfg *model.Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	f := ini.Empty()
	f.Section(ini.DefaultSection).Comment = fileHeader

	openai := f.Section("openai")
	openai.Key("api_key").SetValue(cfg.APIKey)
	openai.Key("model").SetValue(valueOr(cfg.Model, model.DefaultModel))
	openai.Key("system_prompt").SetValue(valueOr(cfg.SystemPrompt, model.DefaultSystemPrompt))

	f.Section("ui").Key("hotkey").SetValue(valueOr(cfg.Hotkey, model.DefaultHotkey))

	user := f.Section("user")
	user.Key("name").SetValue(cfg.UserName)
	user.Key("email").SetValue(cfg.UserEmail)

	imap := f.Section("imap")
	imap.Key("host").SetValue(cfg.IMAP.Host)
	imap.Key("port").SetValue(cfg.IMAP.Port)
	imap.Key("username").SetValue(cfg.IMAP.Username)
	imap.Key("tls").SetValue(fmt.Sprintf("%t", cfg.IMAP.TLS))

	tmp, err := os.CreateTemp(dir, fileName+".*")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing config %s: %w", path, err)
	}
	return nil
}

// stringOr returns the key's value, or fallback when the key is absent.
// An empty value that is present in the file is kept as-is.
func stringOr(sec *ini.Section, key, fallback string) string {
	if !sec.HasKey(key) {
		return fallback
	}
	return sec.Key(key).String()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
