package pgrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core/tutor"
)

type historyRepository struct {
	db *sqlx.DB
}

var _ tutor.HistoryRepository = (*historyRepository)(nil)

func NewHistoryRepository(db *sqlx.DB) tutor.HistoryRepository {
	return &historyRepository{db: db}
}

func (repo *historyRepository) GetHistory(ctx context.Context, userID, lessonSlug string) ([]tutor.ChatMessage, error) {
	var rows []struct {
		Role      string    `db:"role"`
		Content   string    `db:"content"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := repo.db.SelectContext(
		ctx, &rows,
		`SELECT role, content, created_at FROM chat_messages WHERE user_id = $1 AND lesson_slug = $2 ORDER BY id`,
		userID, lessonSlug,
	)
	if err != nil {
		return nil, errors.Wrap(err, "selecting chat messages")
	}

	msgs := make([]tutor.ChatMessage, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, tutor.ChatMessage{Role: tutor.Role(r.Role), Content: r.Content, CreatedAt: r.CreatedAt.UTC()})
	}
	return msgs, nil
}

func (repo *historyRepository) AppendMessage(ctx context.Context, userID, lessonSlug string, msg tutor.ChatMessage) error {
	_, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO chat_messages (user_id, lesson_slug, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		userID, lessonSlug, string(msg.Role), msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "inserting chat message")
	}
	return nil
}
