package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core"
)

var ErrNotFound = core.NewNotFoundError("not found")

type (
	// Repository stores tutorials with their lessons embedded.
	// QueryTutorials returns tutorials ordered by ID.
	Repository interface {
		QueryTutorials(ctx context.Context) ([]Tutorial, error)
		GetTutorial(ctx context.Context, slug string) (Tutorial, error)
		// GetLesson returns the lesson with the given slug and the slug of the tutorial owning it.
		GetLesson(ctx context.Context, slug string) (Lesson, string, error)
		// SaveTutorial creates or replaces the tutorial with the same slug.
		SaveTutorial(ctx context.Context, tutorial Tutorial) (Tutorial, error)
	}

	Service interface {
		List(ctx context.Context, q Query) ([]Tutorial, error)
		GetTutorial(ctx context.Context, slug string) (Tutorial, error)
		GetLesson(ctx context.Context, slug string) (Lesson, string, error)
		TotalLessons(ctx context.Context) (int, error)
		Save(ctx context.Context, tutorial Tutorial) (Tutorial, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) List(ctx context.Context, q Query) ([]Tutorial, error) {
	tutorials, err := svc.repo.QueryTutorials(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying tutorials")
	}
	q.Clean()
	return Filter(tutorials, q), nil
}

func (svc *service) GetTutorial(ctx context.Context, slug string) (Tutorial, error) {
	return svc.repo.GetTutorial(ctx, core.CleanString(slug))
}

func (svc *service) GetLesson(ctx context.Context, slug string) (Lesson, string, error) {
	return svc.repo.GetLesson(ctx, core.CleanString(slug))
}

func (svc *service) TotalLessons(ctx context.Context) (int, error) {
	tutorials, err := svc.repo.QueryTutorials(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying tutorials")
	}
	var total int
	for _, t := range tutorials {
		total += len(t.Lessons)
	}
	return total, nil
}

func (svc *service) Save(ctx context.Context, tutorial Tutorial) (Tutorial, error) {
	tutorial.Slug = core.CleanString(tutorial.Slug)
	tutorial.Title = core.CleanString(tutorial.Title)
	if err := tutorial.Validate(); err != nil {
		return Tutorial{}, err
	}

	existing, err := svc.repo.GetTutorial(ctx, tutorial.Slug)
	switch {
	case err == nil:
		tutorial.ID = existing.ID
	case errors.Cause(err) != ErrNotFound:
		return Tutorial{}, errors.Wrap(err, "finding tutorial")
	case tutorial.ID == "":
		tutorial.ID = uuid.New().String()
	}

	tutorial.Lessons = append([]Lesson(nil), tutorial.Lessons...)

	// lesson slugs are global: a lesson cannot be owned by two tutorials
	for i, l := range tutorial.Lessons {
		_, owner, err := svc.repo.GetLesson(ctx, l.Slug)
		if err == nil && owner != tutorial.Slug {
			return Tutorial{}, core.NewValidationError(
				errors.Errorf("lesson %q already belongs to tutorial %q", l.Slug, owner),
				core.FieldError{Field: "lessons", Error: "lesson " + l.Slug + " already belongs to tutorial " + owner},
			)
		} else if err != nil && errors.Cause(err) != ErrNotFound {
			return Tutorial{}, errors.Wrap(err, "finding lesson")
		}
		if l.ID == "" {
			tutorial.Lessons[i].ID = uuid.New().String()
		}
	}

	return svc.repo.SaveTutorial(ctx, tutorial)
}
