package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core/tutor"
)

type tutorApi struct {
	svc      tutor.Service
	auth     *authenticator
	validate *validator.Validate
}

func registerTutorAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps *Deps) {
	api := tutorApi{svc: deps.TutorSvc, auth: auth, validate: deps.Validate}

	g.GET("/lessons/:slug/chat", api.history, jwt, auth.activeUserMiddleware)
	g.POST("/lessons/:slug/chat", api.ask, jwt, auth.activeUserMiddleware)
	g.GET("/suggestions", api.suggest, jwt, auth.activeUserMiddleware)
}

// Handlers

func (api *tutorApi) history(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	msgs, err := api.svc.History(ctx.Request().Context(), usr.ID, ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "getting chat history")
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *tutorApi) ask(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data tutor.AskRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AskRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	reply, err := api.svc.Ask(ctx.Request().Context(), usr.ID, ctx.Param("slug"), data.Message)
	if err != nil {
		return errors.Wrap(err, "asking tutor")
	}
	return ctx.JSON(http.StatusOK, reply)
}

func (api *tutorApi) suggest(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	s, err := api.svc.SuggestModules(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "suggesting modules")
	}
	return ctx.JSON(http.StatusOK, s)
}
