package storage

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

type SubscriberStorage struct {
	db *sqlx.DB
}

func NewSubscriberStorage(db *sqlx.DB) *SubscriberStorage {
	return &SubscriberStorage{db: db}
}

// Add подписывает email. Повторная подписка возвращает тот же id и снова
// включает рассылку
func (s *SubscriberStorage) Add(ctx context.Context, email string) (int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var id int64

	row := conn.QueryRowxContext(
		ctx,
		s.db.Rebind(`INSERT INTO agentic_news_subscribers (email, active, created_at) VALUES (?, TRUE, ?)
			ON CONFLICT (email) DO UPDATE SET active = TRUE RETURNING id`),
		normalizeEmail(email),
		time.Now().UTC(),
	)

	if err := row.Err(); err != nil {
		return 0, err
	}

	if err := row.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

// Active - подписчики, которым уходит рассылка
func (s *SubscriberStorage) Active(ctx context.Context) ([]model.Subscriber, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var subscribers []dbSubscriber
	if err := conn.SelectContext(
		ctx,
		&subscribers,
		`SELECT id, email, active, created_at FROM agentic_news_subscribers WHERE active = TRUE ORDER BY id`,
	); err != nil {
		return nil, err
	}

	return lo.Map(subscribers, func(sub dbSubscriber, _ int) model.Subscriber {
		return model.Subscriber(sub)
	}), nil
}

// Deactivate отписывает email. false, если такого активного подписчика нет
func (s *SubscriberStorage) Deactivate(ctx context.Context, email string) (bool, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(
		ctx,
		s.db.Rebind(`UPDATE agentic_news_subscribers SET active = FALSE WHERE email = ? AND active = TRUE`),
		normalizeEmail(email),
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type dbSubscriber struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}
