package store

import (
	"context"

	"github.com/nhle/mail-assistant/internal/model"
)

// Store defines the persistence interface for generation history.
type Store interface {
	// CreateDraft records a completed generation.
	CreateDraft(ctx context.Context, draft model.Draft) error

	// GetDrafts returns the most recent drafts, newest first,
	// up to limit (0 means no limit).
	GetDrafts(ctx context.Context, limit int) ([]model.Draft, error)

	// GetDraftByID returns a single draft, or nil when not found.
	GetDraftByID(ctx context.Context, id string) (*model.Draft, error)

	// DeleteDraft removes a draft from the history.
	DeleteDraft(ctx context.Context, id string) error
}
