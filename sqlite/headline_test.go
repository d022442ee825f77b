package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlineService_UpsertHeadlines(t *testing.T) {
	t.Parallel()

	t.Run("stores headlines with generated IDs", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHeadlineService(setupTestDB(t))
		ctx := context.Background()
		headlines := []*horizon.Headline{
			{Title: "One", URL: "https://news.example.com/1", SourceName: "Example"},
			{Title: "Two", URL: "https://news.example.com/2"},
		}

		require.NoError(t, svc.UpsertHeadlines(ctx, headlines))

		assert.NotEmpty(t, headlines[0].ID)
		assert.NotEmpty(t, headlines[1].ID)
		assert.NotEqual(t, headlines[0].ID, headlines[1].ID)
		assert.False(t, headlines[0].FetchedAt.IsZero())
	})

	t.Run("updates existing headline by URL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHeadlineService(setupTestDB(t))
		ctx := context.Background()
		first := &horizon.Headline{Title: "Draft", URL: "https://news.example.com/1"}
		require.NoError(t, svc.UpsertHeadlines(ctx, []*horizon.Headline{first}))

		second := &horizon.Headline{Title: "Final", URL: "https://news.example.com/1"}
		require.NoError(t, svc.UpsertHeadlines(ctx, []*horizon.Headline{second}))

		assert.Equal(t, first.ID, second.ID)
		found, err := svc.FindHeadlines(ctx, horizon.HeadlineFilter{})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Final", found[0].Title)
	})

	t.Run("rejects invalid headline without writing", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHeadlineService(setupTestDB(t))
		ctx := context.Background()

		err := svc.UpsertHeadlines(ctx, []*horizon.Headline{
			{Title: "Good", URL: "https://news.example.com/1"},
			{Title: "", URL: "https://news.example.com/2"},
		})

		assert.Equal(t, horizon.EINVALID, horizon.ErrorCode(err))
		found, err := svc.FindHeadlines(ctx, horizon.HeadlineFilter{})
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestHeadlineService_FindHeadlines(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewHeadlineService(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, svc.UpsertHeadlines(ctx, []*horizon.Headline{
		{Title: "Chip shortage eases", URL: "https://a.example.com/1", PublishedAt: base},
		{Title: "New phone launched", Description: "Faster chip inside", URL: "https://a.example.com/2", PublishedAt: base.Add(time.Hour)},
		{Title: "Weather update", URL: "https://a.example.com/3", PublishedAt: base.Add(2 * time.Hour)},
	}))

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		found, err := svc.FindHeadlines(ctx, horizon.HeadlineFilter{})

		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "Weather update", found[0].Title)
		assert.Equal(t, base.Add(2*time.Hour), found[0].PublishedAt)
	})

	t.Run("matches title or description", func(t *testing.T) {
		t.Parallel()

		q := "chip"
		found, err := svc.FindHeadlines(ctx, horizon.HeadlineFilter{Query: &q})

		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "New phone launched", found[0].Title)
		assert.Equal(t, "Chip shortage eases", found[1].Title)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		found, err := svc.FindHeadlines(ctx, horizon.HeadlineFilter{Offset: 2})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Chip shortage eases", found[0].Title)
	})
}
