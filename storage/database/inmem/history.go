package inmemdb

import (
	"context"

	"github.com/farmwise/farmwise/core/tutor"
)

type historyRepository struct {
	db *historyTable
}

var _ tutor.HistoryRepository = (*historyRepository)(nil)

func NewHistoryRepository(db *DB) tutor.HistoryRepository {
	return &historyRepository{db: db.history}
}

func (repo *historyRepository) GetHistory(_ context.Context, userID, lessonSlug string) ([]tutor.ChatMessage, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	msgs := repo.db.table[historyKey{userID: userID, lessonSlug: lessonSlug}]
	return append([]tutor.ChatMessage{}, msgs...), nil
}

func (repo *historyRepository) AppendMessage(_ context.Context, userID, lessonSlug string, msg tutor.ChatMessage) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := historyKey{userID: userID, lessonSlug: lessonSlug}
	repo.db.table[key] = append(repo.db.table[key], msg)
	return nil
}
