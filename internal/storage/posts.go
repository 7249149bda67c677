package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

// Table - таблица источника, по одной строке на каждый запуск пайплайна
type Table string

const (
	TableArxiv      Table = "agentic_news_arxiv"
	TableGithub     Table = "agentic_news_github"
	TableHackernews Table = "agentic_news_hackernews"
	TableReddit     Table = "agentic_news_reddit"
)

var tables = []Table{TableArxiv, TableGithub, TableHackernews, TableReddit}

func (t Table) valid() error {
	if !lo.Contains(tables, t) {
		return fmt.Errorf("unknown table %q", t)
	}
	return nil
}

type PostStorage struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewPostStorage(db *sqlx.DB) *PostStorage {
	return &PostStorage{db: db, now: time.Now}
}

// Insert сохраняет список постов одной строкой. Пустой список тоже сохраняется
func (s *PostStorage) Insert(ctx context.Context, table Table, posts any) (int64, error) {
	if err := table.valid(); err != nil {
		return 0, err
	}

	raw, err := json.Marshal(posts)
	if err != nil {
		return 0, fmt.Errorf("marshal posts: %w", err)
	}
	if string(raw) == "null" {
		raw = []byte("[]")
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var id int64

	// lib/pq отправляет []byte как bytea, поэтому JSON идет строкой
	row := conn.QueryRowxContext(
		ctx,
		s.db.Rebind(`INSERT INTO `+string(table)+` (posts, created_at) VALUES (?, ?) RETURNING id`),
		string(raw),
		s.now().UTC(),
	)

	if err := row.Err(); err != nil {
		return 0, err
	}

	if err := row.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

// Latest раскладывает в out посты последней строки. Если строк нет, out не меняется
func (s *PostStorage) Latest(ctx context.Context, table Table, out any) error {
	rows, err := s.RecentRaw(ctx, table, 1)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}

	if err := json.Unmarshal([]byte(rows[0]), out); err != nil {
		return fmt.Errorf("decode latest %s: %w", table, err)
	}

	return nil
}

// RecentRaw возвращает JSON постов из последних n строк, от новых к старым
func (s *PostStorage) RecentRaw(ctx context.Context, table Table, n int) ([]string, error) {
	if err := table.valid(); err != nil {
		return nil, err
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var rows []dbPosts
	err = conn.SelectContext(
		ctx,
		&rows,
		s.db.Rebind(`SELECT id, posts, created_at FROM `+string(table)+` ORDER BY created_at DESC, id DESC LIMIT ?`),
		n,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return lo.Map(rows, func(row dbPosts, _ int) string {
		return row.Posts
	}), nil
}

type RawReader interface {
	RecentRaw(ctx context.Context, table Table, n int) ([]string, error)
}

// Recent возвращает посты из последних n строк одним списком, от новых к старым.
// По нему пайплайны узнают, что уже было в рассылке
func Recent[T any](ctx context.Context, r RawReader, table Table, n int) ([]T, error) {
	rows, err := r.RecentRaw(ctx, table, n)
	if err != nil {
		return nil, err
	}

	var out []T
	for i, row := range rows {
		var posts []T
		if err := json.Unmarshal([]byte(row), &posts); err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", table, i, err)
		}
		out = append(out, posts...)
	}

	return out, nil
}

type dbPosts struct {
	ID        int64     `db:"id"`
	Posts     string    `db:"posts"`
	CreatedAt time.Time `db:"created_at"`
}
