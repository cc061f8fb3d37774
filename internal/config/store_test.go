package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-assistant/internal/model"
)

func configPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "mail-assistant", "config.conf")
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := configPath(t)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, model.DefaultConfig(), cfg)

	// The file must now exist on disk with the header comment.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "Mail Assistant Configuration")
	require.Contains(t, string(raw), "https://platform.openai.com/api-keys")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := configPath(t)

	want := &model.Config{
		APIKey:       "sk-proj-4fK9mI2pQ7xW3cV8bN1zT6aH",
		Model:        "gpt-4o",
		SystemPrompt: "You write terse business email.",
		Hotkey:       "ctrl+shift+j",
		UserName:     "Ada Lovelace",
		UserEmail:    "ada@example.com",
		IMAP: model.IMAPConfig{
			Host:     "imap.example.com",
			Port:     "993",
			Username: "ada@example.com",
			TLS:      true,
		},
	}
	require.NoError(t, SaveTo(path, want))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadSubstitutesDefaultsForMissingKeys(t *testing.T) {
	path := configPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	// Only the API key is present; everything else is absent.
	content := "[openai]\napi_key = sk-proj-4fK9mI2pQ7xW3cV8bN1zT6aH\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, "sk-proj-4fK9mI2pQ7xW3cV8bN1zT6aH", cfg.APIKey)
	require.Equal(t, model.DefaultModel, cfg.Model)
	require.Equal(t, model.DefaultSystemPrompt, cfg.SystemPrompt)
	require.Equal(t, model.DefaultHotkey, cfg.Hotkey)
	require.True(t, cfg.IMAP.TLS, "TLS defaults to on when the imap section is absent")
	require.Empty(t, cfg.UserName)
	require.Empty(t, cfg.UserEmail)
}

func TestLoadKeepsPresentEmptyValues(t *testing.T) {
	path := configPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	content := "[openai]\napi_key =\nmodel = gpt-4-turbo\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.Empty(t, cfg.APIKey)
	require.Equal(t, "gpt-4-turbo", cfg.Model)
	require.False(t, cfg.IsValid())
}

func TestLoadMalformedFile(t *testing.T) {
	path := configPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[openai\nnot ini at all"), 0o644))

	_, err := LoadFrom(path)
	require.Error(t, err)
}

func TestSaveOverwritesWholeFile(t *testing.T) {
	path := configPath(t)

	first := model.DefaultConfig()
	first.UserName = "First"
	require.NoError(t, SaveTo(path, first))

	second := model.DefaultConfig()
	second.UserName = "Second"
	require.NoError(t, SaveTo(path, second))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, "Second", got.UserName)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "First")
}
