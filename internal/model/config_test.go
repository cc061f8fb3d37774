package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, PlaceholderAPIKey, cfg.APIKey)
	require.Equal(t, "gpt-4o-mini", cfg.Model)
	require.Equal(t, "ctrl+shift+g", cfg.Hotkey)
	require.Equal(t, "You are a helpful email writing assistant.", cfg.SystemPrompt)
	require.Equal(t, "Your Name", cfg.UserName)
	require.Equal(t, "your.email@example.com", cfg.UserEmail)
	require.True(t, cfg.IMAP.TLS)

	require.False(t, cfg.IsValid(), "a fresh config must not be usable for API calls")
}

func TestConfigIsValid(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"empty key", "", false},
		{"placeholder key", PlaceholderAPIKey, false},
		{"too short", "sk-short", false},
		{"exactly ten characters", "0123456789", false},
		{"eleven characters", "01234567890", true},
		{"realistic key", "sk-proj-4fK9mI2pQ7xW3cV8bN1zT6aH", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.APIKey = tt.apiKey
			require.Equal(t, tt.want, cfg.IsValid())
		})
	}
}

func TestConfigIsValidNil(t *testing.T) {
	var cfg *Config
	require.False(t, cfg.IsValid())
}

func TestHasIMAP(t *testing.T) {
	cfg := DefaultConfig()
	require.False(t, cfg.HasIMAP())

	cfg.IMAP.Host = "imap.example.com"
	require.False(t, cfg.HasIMAP(), "host alone is not enough")

	cfg.IMAP.Username = "user@example.com"
	require.True(t, cfg.HasIMAP())
}
