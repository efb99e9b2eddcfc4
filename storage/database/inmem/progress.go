package inmemdb

import (
	"context"

	"github.com/farmwise/farmwise/core/progress"
)

// progressRepository reads and writes the progress embedded in the user table.
type progressRepository struct {
	db *userTable
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db.user}
}

func (repo *progressRepository) GetProgress(_ context.Context, userID string) (progress.Progress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	usr, ok := repo.db.table[userID]
	if !ok {
		return progress.Progress{}, progress.ErrUserNotFound
	}
	return usr.Progress.Copy(), nil
}

func (repo *progressRepository) UpsertQuizResult(_ context.Context, userID string, result progress.QuizResult) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.table[userID]
	if !ok {
		return progress.ErrUserNotFound
	}
	usr.Progress.Upsert(result)
	return nil
}
