package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/catalog"
)

var ErrUserNotFound = core.NewNotFoundError("user not found")

type (
	// Repository persists the progress embedded in each user record.
	// Both methods return ErrUserNotFound when the user does not exist.
	Repository interface {
		GetProgress(ctx context.Context, userID string) (Progress, error)
		// UpsertQuizResult replaces the result stored for result.LessonSlug in a single write.
		UpsertQuizResult(ctx context.Context, userID string, result QuizResult) error
	}

	Service interface {
		Submit(ctx context.Context, userID, lessonSlug string, answers Answers) (Submission, error)
		Get(ctx context.Context, userID string) (Progress, error)
	}

	service struct {
		repo       Repository
		catalogSvc catalog.Service
		publisher  core.EventPublisher
		logger     core.Logger
		nowFunc    func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, catalogSvc catalog.Service, publisher core.EventPublisher, logger core.Logger) Service {
	return &service{
		repo:       repo,
		catalogSvc: catalogSvc,
		publisher:  publisher,
		logger:     logger,
		nowFunc:    time.Now,
	}
}

func (svc *service) Submit(ctx context.Context, userID, lessonSlug string, answers Answers) (Submission, error) {
	lesson, _, err := svc.catalogSvc.GetLesson(ctx, lessonSlug)
	if err != nil {
		return Submission{}, errors.Wrap(err, "finding lesson")
	}

	result, feedback := Score(lesson.Slug, lesson.Quiz, answers)
	result.CompletedAt = svc.nowFunc().UTC()

	if err := svc.repo.UpsertQuizResult(ctx, userID, result); err != nil {
		return Submission{}, errors.Wrap(err, "saving quiz result")
	}

	event := core.NewEvent(core.EventQuizCompleted, userID, result)
	if err := svc.publisher.Publish(ctx, event); err != nil {
		svc.logger.Warn(fmt.Sprintf("publishing %s event: %v", event.Type, err), err)
	}

	return Submission{Result: result, Feedback: feedback}, nil
}

func (svc *service) Get(ctx context.Context, userID string) (Progress, error) {
	p, err := svc.repo.GetProgress(ctx, userID)
	if err != nil {
		return Progress{}, err
	}
	if p.Quizzes == nil {
		p.Quizzes = make(map[string]QuizResult)
	}
	return p, nil
}
