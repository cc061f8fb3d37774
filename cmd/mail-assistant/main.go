package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/nhle/mail-assistant/internal/app"
	"github.com/nhle/mail-assistant/internal/config"
	"github.com/nhle/mail-assistant/internal/mail"
	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/internal/store"
)

func main() {
	// Optional .env for OPENAI_API_KEY during development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// A broken config file is not fatal: start with defaults so
		// the preferences view can rewrite it.
		fmt.Fprintf(os.Stderr, "warning: could not read config: %v\n", err)
		cfg = model.DefaultConfig()
	}
	cfg.APIKey = app.ResolveAPIKey(cfg.APIKey)

	dbPath, err := historyPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: opening history store: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	// An .eml file argument seeds the compose view as a reply.
	var reply *mail.ReplyContext
	if len(os.Args) > 1 {
		reply, err = mail.ParseFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: reading %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
	}

	p := tea.NewProgram(app.New(*cfg, s, reply), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// historyPath returns the location of the draft history database,
// next to the config file.
func historyPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	dir := filepath.Join(base, "mail-assistant")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.db"), nil
}
