package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/catalog"
	"github.com/farmwise/farmwise/core/progress"
	"github.com/farmwise/farmwise/core/user"
)

var (
	// errors
	ErrTutorUnavailable = errors.New("Sorry, I ran into an error. Please try again.")
	ErrImageGeneration  = errors.New("Image generation failed.")
	ErrSuggestion       = errors.New("Could not suggest learning modules right now. Please try again.")

	errBlankMessage = errors.New("message cannot be blank")
)

type (
	Service interface {
		History(ctx context.Context, userID, lessonSlug string) ([]ChatMessage, error)
		// Ask runs one tutor turn. The user message is stored before the model is called
		// and stays in the history when the model fails.
		Ask(ctx context.Context, userID, lessonSlug, message string) (ChatMessage, error)
		GenerateAvatar(ctx context.Context, prompt string) (string, error)
		SuggestModules(ctx context.Context, userID string) (Suggestion, error)
	}

	service struct {
		history    HistoryRepository
		model      Model
		catalogSvc catalog.Service
		userSvc    user.Service
		logger     core.Logger
		nowFunc    func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(
	history HistoryRepository,
	model Model,
	catalogSvc catalog.Service,
	userSvc user.Service,
	logger core.Logger,
) Service {
	return &service{
		history:    history,
		model:      model,
		catalogSvc: catalogSvc,
		userSvc:    userSvc,
		logger:     logger,
		nowFunc:    time.Now,
	}
}

func (svc *service) History(ctx context.Context, userID, lessonSlug string) ([]ChatMessage, error) {
	lesson, _, err := svc.catalogSvc.GetLesson(ctx, lessonSlug)
	if err != nil {
		return nil, err
	}
	msgs, err := svc.history.GetHistory(ctx, userID, lesson.Slug)
	if err != nil {
		return nil, errors.Wrap(err, "reading chat history")
	}
	if msgs == nil {
		msgs = []ChatMessage{}
	}
	return msgs, nil
}

func (svc *service) Ask(ctx context.Context, userID, lessonSlug, message string) (ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatMessage{}, core.NewValidationError(
			errBlankMessage,
			core.FieldError{Field: "message", Error: errBlankMessage.Error()},
		)
	}

	lesson, _, err := svc.catalogSvc.GetLesson(ctx, lessonSlug)
	if err != nil {
		return ChatMessage{}, err
	}
	usr, err := svc.userSvc.GetByID(ctx, userID)
	if err != nil {
		return ChatMessage{}, err
	}
	history, err := svc.history.GetHistory(ctx, userID, lesson.Slug)
	if err != nil {
		return ChatMessage{}, errors.Wrap(err, "reading chat history")
	}

	userMsg := ChatMessage{Role: RoleUser, Content: message, CreatedAt: svc.nowFunc().UTC()}
	if err = svc.history.AppendMessage(ctx, userID, lesson.Slug, userMsg); err != nil {
		return ChatMessage{}, errors.Wrap(err, "saving user message")
	}

	prompt, err := BuildPrompt(TutorInput{
		LessonTitle:      lesson.Title,
		LessonContent:    lesson.Content,
		DisplayName:      usr.DisplayName,
		Interests:        usr.Interests,
		LearningProgress: usr.Progress.Summary(),
		History:          history,
		UserMessage:      message,
	})
	if err != nil {
		return ChatMessage{}, err
	}

	reply, err := svc.model.GenerateText(ctx, prompt)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty model reply")
	}
	if err != nil {
		return ChatMessage{}, core.NewServiceError(ErrTutorUnavailable, err)
	}

	modelMsg := ChatMessage{Role: RoleModel, Content: reply, CreatedAt: svc.nowFunc().UTC()}
	if err = svc.history.AppendMessage(ctx, userID, lesson.Slug, modelMsg); err != nil {
		return ChatMessage{}, errors.Wrap(err, "saving model message")
	}
	return modelMsg, nil
}

func (svc *service) GenerateAvatar(ctx context.Context, prompt string) (string, error) {
	uri, err := svc.model.GenerateImage(ctx, fmt.Sprintf(avatarPromptFmt, strings.TrimSpace(prompt)))
	if err != nil {
		return "", core.NewServiceError(ErrImageGeneration, err)
	}
	if uri == "" {
		return "", core.NewServiceError(ErrImageGeneration, errors.New("no media returned"))
	}
	return uri, nil
}

func (svc *service) SuggestModules(ctx context.Context, userID string) (Suggestion, error) {
	usr, err := svc.userSvc.GetByID(ctx, userID)
	if err != nil {
		return Suggestion{}, err
	}
	tutorials, err := svc.catalogSvc.List(ctx, catalog.Query{})
	if err != nil {
		return Suggestion{}, errors.Wrap(err, "listing tutorials")
	}

	prompt, err := buildSuggestPrompt(suggestInput{
		Profile:  describeProfile(usr),
		Progress: describeProgress(usr.Progress, tutorials),
		Modules:  describeModules(tutorials),
	})
	if err != nil {
		return Suggestion{}, err
	}

	raw, err := svc.model.GenerateJSON(ctx, prompt, suggestionSchema)
	if err != nil {
		return Suggestion{}, core.NewServiceError(ErrSuggestion, err)
	}
	var s Suggestion
	if err = json.Unmarshal(raw, &s); err != nil {
		return Suggestion{}, core.NewServiceError(ErrSuggestion, errors.Wrap(err, "decoding suggestion"))
	}
	return s, nil
}

func describeProfile(usr user.User) string {
	name := usr.DisplayName
	if name == "" {
		name = defaultDisplayName
	}
	interests := usr.Interests
	if interests == "" {
		interests = defaultInterests
	}
	return fmt.Sprintf("%s, interested in %s.", name, interests)
}

func describeProgress(p progress.Progress, tutorials []catalog.Tutorial) string {
	var total int
	for _, t := range tutorials {
		total += len(t.Lessons)
	}
	return fmt.Sprintf("%s (%d%% of all lessons)", p.Summary(), p.CompletionPercent(total))
}

func describeModules(tutorials []catalog.Tutorial) string {
	lines := make([]string, 0, len(tutorials))
	for _, t := range tutorials {
		lines = append(lines, fmt.Sprintf("%s (%s): %s", t.Title, t.Category, t.Description))
	}
	return strings.Join(lines, "; ")
}
