package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

type DigestStorage struct {
	db *sqlx.DB
}

func NewDigestStorage(db *sqlx.DB) *DigestStorage {
	return &DigestStorage{db: db}
}

// Store сохраняет выпуск рассылки
func (s *DigestStorage) Store(ctx context.Context, digest model.Digest) (int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	if digest.CreatedAt.IsZero() {
		digest.CreatedAt = time.Now()
	}

	var id int64

	row := conn.QueryRowxContext(
		ctx,
		s.db.Rebind(`INSERT INTO agentic_news_emails (title, summary, html, cover_image_url, created_at)
			VALUES (?, ?, ?, ?, ?) RETURNING id`),
		digest.Title,
		digest.Summary,
		digest.HTML,
		digest.CoverImageURL,
		digest.CreatedAt.UTC(),
	)

	if err := row.Err(); err != nil {
		return 0, err
	}

	if err := row.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

// Latest возвращает последний выпуск. Если выпусков нет - sql.ErrNoRows
func (s *DigestStorage) Latest(ctx context.Context) (*model.Digest, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var digest dbDigest
	if err := conn.GetContext(
		ctx,
		&digest,
		`SELECT id, title, summary, html, cover_image_url, created_at FROM agentic_news_emails ORDER BY created_at DESC, id DESC LIMIT 1`,
	); err != nil {
		return nil, err
	}

	return (*model.Digest)(&digest), nil
}

type dbDigest struct {
	ID            int64     `db:"id"`
	Title         string    `db:"title"`
	Summary       string    `db:"summary"`
	HTML          string    `db:"html"`
	CoverImageURL string    `db:"cover_image_url"`
	CreatedAt     time.Time `db:"created_at"`
}
