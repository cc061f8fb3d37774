package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/mail-assistant/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// WAL keeps history reads cheap while a generation is being recorded.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// CreateDraft records a completed generation in the history.
func (s *SQLiteStore) CreateDraft(ctx context.Context, draft model.Draft) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO drafts (id, prompt, response, model, created_at)
		VALUES (:id, :prompt, :response, :model, :created_at)`,
		draft,
	)
	if err != nil {
		return fmt.Errorf("inserting draft: %w", err)
	}
	return nil
}

// GetDrafts returns drafts newest first, up to limit (0 = no limit).
func (s *SQLiteStore) GetDrafts(ctx context.Context, limit int) ([]model.Draft, error) {
	query := "SELECT id, prompt, response, model, created_at FROM drafts ORDER BY created_at DESC, id"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var drafts []model.Draft
	if err := s.db.SelectContext(ctx, &drafts, query, args...); err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}
	return drafts, nil
}

// GetDraftByID returns a single draft, or nil when it does not exist.
func (s *SQLiteStore) GetDraftByID(ctx context.Context, id string) (*model.Draft, error) {
	var draft model.Draft
	err := s.db.GetContext(ctx, &draft,
		"SELECT id, prompt, response, model, created_at FROM drafts WHERE id = ?", id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying draft %s: %w", id, err)
	}
	return &draft, nil
}

// DeleteDraft removes a draft from the history.
func (s *SQLiteStore) DeleteDraft(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting draft %s: %w", id, err)
	}
	return nil
}
