package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core/catalog"
	"github.com/farmwise/farmwise/core/progress"
)

type progressApi struct {
	svc        progress.Service
	catalogSvc catalog.Service
	auth       *authenticator
}

func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps *Deps) {
	api := progressApi{svc: deps.ProgressSvc, catalogSvc: deps.CatalogSvc, auth: auth}

	g.POST("/lessons/:slug/quiz", api.submitQuiz, jwt, auth.activeUserMiddleware)
	g.GET("/progress", api.retrieve, jwt, auth.activeUserMiddleware)
}

// Handlers

func (api *progressApi) submitQuiz(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data QuizRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizRequest")
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), usr.ID, ctx.Param("slug"), data.Answers)
	if err != nil {
		return errors.Wrap(err, "submitting quiz")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *progressApi) retrieve(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	p, err := api.svc.Get(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting progress")
	}
	total, err := api.catalogSvc.TotalLessons(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting lessons")
	}

	return ctx.JSON(http.StatusOK, ProgressResponse{
		Quizzes:           p.Quizzes,
		CompletedLessons:  p.CompletedLessons(),
		Summary:           p.Summary(),
		CompletionPercent: p.CompletionPercent(total),
	})
}

type (
	// QuizRequest maps question indices to the chosen options, e.g. {"answers": {"0": "Minerals, Organic Matter, Water, Air"}}.
	QuizRequest struct {
		Answers progress.Answers `json:"answers"`
	}

	ProgressResponse struct {
		Quizzes           map[string]progress.QuizResult `json:"quizzes"`
		CompletedLessons  []string                       `json:"completed_lessons"`
		Summary           string                         `json:"summary"`
		CompletionPercent int                            `json:"completion_percent"`
	}
)
