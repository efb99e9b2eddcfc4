package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core/catalog"
)

type catalogApi struct {
	svc      catalog.Service
	validate *validator.Validate
}

func registerCatalogAPI(g *echo.Group, deps *Deps) {
	api := catalogApi{svc: deps.CatalogSvc, validate: deps.Validate}

	g.GET("/tutorials", api.queryTutorials)
	g.GET("/tutorials/:slug", api.retrieveTutorial)
	g.GET("/lessons/:slug", api.retrieveLesson)
}

// Handlers

func (api *catalogApi) queryTutorials(ctx echo.Context) error {
	var q catalog.Query
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to Query")
	}
	q.Clean()
	if err := api.validate.Struct(q); err != nil {
		return err
	}

	tutorials, err := api.svc.List(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "listing tutorials")
	}

	resp := make([]TutorialResponse, 0, len(tutorials))
	for _, t := range tutorials {
		resp = append(resp, newTutorialResponse(t))
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *catalogApi) retrieveTutorial(ctx echo.Context) error {
	t, err := api.svc.GetTutorial(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "finding tutorial")
	}
	return ctx.JSON(http.StatusOK, newTutorialResponse(t))
}

func (api *catalogApi) retrieveLesson(ctx echo.Context) error {
	lesson, tutorialSlug, err := api.svc.GetLesson(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "finding lesson")
	}
	return ctx.JSON(http.StatusOK, LessonDetailResponse{
		TutorialSlug:   tutorialSlug,
		LessonResponse: newLessonResponse(lesson),
	})
}

// Public views of the catalog: quiz answers are only revealed once a quiz is submitted.
type (
	QuestionResponse struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
	}

	LessonResponse struct {
		ID       string             `json:"id"`
		Slug     string             `json:"slug"`
		Title    string             `json:"title"`
		Content  string             `json:"content"`
		VideoURL string             `json:"video_url,omitempty"`
		Quiz     []QuestionResponse `json:"quiz"`
	}

	LessonDetailResponse struct {
		TutorialSlug string `json:"tutorial_slug"`
		LessonResponse
	}

	TutorialResponse struct {
		ID          string           `json:"id"`
		Slug        string           `json:"slug"`
		Title       string           `json:"title"`
		Description string           `json:"description"`
		Category    catalog.Category `json:"category"`
		ImageURL    string           `json:"image_url"`
		Lessons     []LessonResponse `json:"lessons"`
	}
)

func newLessonResponse(l catalog.Lesson) LessonResponse {
	quiz := make([]QuestionResponse, 0, len(l.Quiz))
	for _, q := range l.Quiz {
		quiz = append(quiz, QuestionResponse{Question: q.Question, Options: q.Options})
	}
	return LessonResponse{
		ID:       l.ID,
		Slug:     l.Slug,
		Title:    l.Title,
		Content:  l.Content,
		VideoURL: l.VideoURL,
		Quiz:     quiz,
	}
}

func newTutorialResponse(t catalog.Tutorial) TutorialResponse {
	lessons := make([]LessonResponse, 0, len(t.Lessons))
	for _, l := range t.Lessons {
		lessons = append(lessons, newLessonResponse(l))
	}
	return TutorialResponse{
		ID:          t.ID,
		Slug:        t.Slug,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		ImageURL:    t.ImageURL,
		Lessons:     lessons,
	}
}
