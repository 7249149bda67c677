package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

const sqliteSchema = `
CREATE TABLE agentic_news_arxiv (id INTEGER PRIMARY KEY AUTOINCREMENT, posts TEXT NOT NULL, created_at TIMESTAMP NOT NULL);
CREATE TABLE agentic_news_github (id INTEGER PRIMARY KEY AUTOINCREMENT, posts TEXT NOT NULL, created_at TIMESTAMP NOT NULL);
CREATE TABLE agentic_news_hackernews (id INTEGER PRIMARY KEY AUTOINCREMENT, posts TEXT NOT NULL, created_at TIMESTAMP NOT NULL);
CREATE TABLE agentic_news_reddit (id INTEGER PRIMARY KEY AUTOINCREMENT, posts TEXT NOT NULL, created_at TIMESTAMP NOT NULL);
CREATE TABLE agentic_news_emails (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	html TEXT NOT NULL,
	cover_image_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE agentic_news_subscribers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMP NOT NULL
);`

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)

	// у каждого соединения :memory: своя база
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)

	return db
}

func clock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func TestPostStorage_InsertAndLatest(t *testing.T) {
	ctx := context.Background()
	s := NewPostStorage(newTestDB(t))
	s.now = clock(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	var empty []model.HNPost
	require.NoError(t, s.Latest(ctx, TableHackernews, &empty))
	assert.Nil(t, empty)

	first := []model.HNPost{{Title: "old", Link: "https://a"}}
	second := []model.HNPost{{Title: "new", Link: "https://b"}, {Title: "newer", Link: "https://c"}}

	id1, err := s.Insert(ctx, TableHackernews, first)
	require.NoError(t, err)
	id2, err := s.Insert(ctx, TableHackernews, second)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	var latest []model.HNPost
	require.NoError(t, s.Latest(ctx, TableHackernews, &latest))
	assert.Equal(t, second, latest)

	// другие таблицы не затронуты
	var papers []model.Paper
	require.NoError(t, s.Latest(ctx, TableArxiv, &papers))
	assert.Empty(t, papers)
}

func TestPostStorage_InsertEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewPostStorage(newTestDB(t))

	_, err := s.Insert(ctx, TableReddit, []model.RedditPost(nil))
	require.NoError(t, err)

	posts := []model.RedditPost{{Title: "placeholder"}}
	require.NoError(t, s.Latest(ctx, TableReddit, &posts))
	assert.Empty(t, posts)
}

func TestPostStorage_UnknownTable(t *testing.T) {
	s := NewPostStorage(newTestDB(t))

	_, err := s.Insert(context.Background(), Table("users; DROP TABLE x"), nil)
	assert.Error(t, err)

	assert.Error(t, s.Latest(context.Background(), Table("nope"), &[]model.HNPost{}))
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	s := NewPostStorage(newTestDB(t))
	s.now = clock(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	for _, batch := range [][]model.Paper{
		{{ID: "1"}},
		{{ID: "2"}, {ID: "3"}},
		{{ID: "4"}},
	} {
		_, err := s.Insert(ctx, TableArxiv, batch)
		require.NoError(t, err)
	}

	papers, err := Recent[model.Paper](ctx, s, TableArxiv, 2)
	require.NoError(t, err)

	ids := make([]string, 0, len(papers))
	for _, p := range papers {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"4", "2", "3"}, ids)

	none, err := Recent[model.Repo](ctx, s, TableGithub, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDigestStorage(t *testing.T) {
	ctx := context.Background()
	s := NewDigestStorage(newTestDB(t))

	_, err := s.Latest(ctx)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = s.Store(ctx, model.Digest{Title: "first", HTML: "<p>1</p>", CreatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	id, err := s.Store(ctx, model.Digest{
		Title:         "second",
		Summary:       "summary",
		HTML:          "<p>2</p>",
		CoverImageURL: "https://cdn/cover.png",
		CreatedAt:     time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, latest.ID)
	assert.Equal(t, "second", latest.Title)
	assert.Equal(t, "https://cdn/cover.png", latest.CoverImageURL)
	assert.True(t, latest.CreatedAt.Equal(time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)))
}

func TestSubscriberStorage(t *testing.T) {
	ctx := context.Background()
	s := NewSubscriberStorage(newTestDB(t))

	id1, err := s.Add(ctx, "Reader@Example.com ")
	require.NoError(t, err)
	_, err = s.Add(ctx, "second@example.com")
	require.NoError(t, err)

	again, err := s.Add(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, id1, again)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "reader@example.com", active[0].Email)
	assert.True(t, active[0].Active)

	ok, err := s.Deactivate(ctx, "READER@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Deactivate(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	active, err = s.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "second@example.com", active[0].Email)

	// повторная подписка включает рассылку обратно
	_, err = s.Add(ctx, "reader@example.com")
	require.NoError(t, err)

	active, err = s.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
