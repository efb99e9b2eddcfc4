package pgrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core/progress"
)

// progressRepository works on the progress JSONB column of the users table.
type progressRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *sqlx.DB) progress.Repository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) GetProgress(ctx context.Context, userID string) (progress.Progress, error) {
	var p progress.Progress
	err := repo.db.QueryRowContext(ctx, `SELECT progress FROM users WHERE id = $1`, userID).Scan(&jsonb{v: &p})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return progress.Progress{}, progress.ErrUserNotFound
		}
		return progress.Progress{}, errors.Wrap(err, "selecting progress")
	}
	return p, nil
}

func (repo *progressRepository) UpsertQuizResult(ctx context.Context, userID string, result progress.QuizResult) error {
	res, err := repo.db.ExecContext(
		ctx,
		`UPDATE users
		SET progress = jsonb_set(
			progress, '{quizzes}',
			COALESCE(progress->'quizzes', '{}'::jsonb) || jsonb_build_object($2::text, $3::jsonb)
		)
		WHERE id = $1`,
		userID, result.LessonSlug, jsonb{v: result},
	)
	if err != nil {
		return errors.Wrap(err, "saving quiz result")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "saving quiz result")
	}
	if n == 0 {
		return progress.ErrUserNotFound
	}
	return nil
}
