package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-assistant/internal/model"
	"github.com/nhle/mail-assistant/tests/testutil"
)

func newDraft(prompt, response string, createdAt time.Time) model.Draft {
	return model.Draft{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Response:  response,
		Model:     "gpt-4o-mini",
		CreatedAt: createdAt,
	}
}

func TestCreateAndGetDraft(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	draft := newDraft("write a reply", "Dear Jane,\n\nThanks!", time.Now().UTC())
	require.NoError(t, s.CreateDraft(ctx, draft))

	got, err := s.GetDraftByID(ctx, draft.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, draft.ID, got.ID)
	require.Equal(t, draft.Prompt, got.Prompt)
	require.Equal(t, draft.Response, got.Response)
	require.Equal(t, draft.Model, got.Model)
	require.WithinDuration(t, draft.CreatedAt, got.CreatedAt, time.Second)
}

func TestGetDraftByIDNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	got, err := s.GetDraftByID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestGetDraftsNewestFirst(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	oldest := newDraft("first", "a", base)
	middle := newDraft("second", "b", base.Add(time.Minute))
	newest := newDraft("third", "c", base.Add(2*time.Minute))
	for _, d := range []model.Draft{middle, oldest, newest} {
		require.NoError(t, s.CreateDraft(ctx, d))
	}

	drafts, err := s.GetDrafts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	require.Equal(t, newest.ID, drafts[0].ID)
	require.Equal(t, middle.ID, drafts[1].ID)
	require.Equal(t, oldest.ID, drafts[2].ID)
}

func TestGetDraftsLimit(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		d := newDraft("prompt", "response", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.CreateDraft(ctx, d))
	}

	drafts, err := s.GetDrafts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
}

func TestDeleteDraft(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	draft := newDraft("prompt", "response", time.Now().UTC())
	require.NoError(t, s.CreateDraft(ctx, draft))
	require.NoError(t, s.DeleteDraft(ctx, draft.ID))

	got, err := s.GetDraftByID(ctx, draft.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	// Deleting an already-deleted draft is not an error.
	require.NoError(t, s.DeleteDraft(ctx, draft.ID))
}
