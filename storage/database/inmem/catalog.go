package inmemdb

import (
	"context"
	"sort"

	"github.com/farmwise/farmwise/core/catalog"
)

type catalogRepository struct {
	db *catalogTable
}

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db.catalog}
}

func copyTutorial(t *catalog.Tutorial) catalog.Tutorial {
	cp := *t
	cp.Lessons = make([]catalog.Lesson, len(t.Lessons))
	for i, l := range t.Lessons {
		cp.Lessons[i] = copyLesson(l)
	}
	return cp
}

func copyLesson(l catalog.Lesson) catalog.Lesson {
	cp := l
	cp.Quiz = make([]catalog.QuizQuestion, len(l.Quiz))
	for i, q := range l.Quiz {
		cp.Quiz[i] = q
		cp.Quiz[i].Options = append([]string(nil), q.Options...)
	}
	return cp
}

func (repo *catalogRepository) QueryTutorials(_ context.Context) ([]catalog.Tutorial, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	tutorials := make([]catalog.Tutorial, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		tutorials = append(tutorials, copyTutorial(t))
	}
	sort.Slice(tutorials, func(i, j int) bool { return tutorials[i].ID < tutorials[j].ID })
	return tutorials, nil
}

func (repo *catalogRepository) GetTutorial(_ context.Context, slug string) (catalog.Tutorial, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.table[slug]; ok {
		return copyTutorial(t), nil
	}
	return catalog.Tutorial{}, catalog.ErrNotFound
}

func (repo *catalogRepository) GetLesson(_ context.Context, slug string) (catalog.Lesson, string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, t := range repo.db.table {
		for _, l := range t.Lessons {
			if l.Slug == slug {
				return copyLesson(l), t.Slug, nil
			}
		}
	}
	return catalog.Lesson{}, "", catalog.ErrNotFound
}

func (repo *catalogRepository) SaveTutorial(_ context.Context, tutorial catalog.Tutorial) (catalog.Tutorial, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored := copyTutorial(&tutorial)
	repo.db.table[tutorial.Slug] = &stored
	return copyTutorial(&stored), nil
}
