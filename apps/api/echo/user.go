package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/tutor"
	"github.com/farmwise/farmwise/core/user"
)

type userApi struct {
	svc      user.Service
	tutorSvc tutor.Service
	auth     *authenticator
	sessions sessionCache
	validate *validator.Validate
}

func registerUserAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	auth *authenticator,
	deps *Deps,
	sessionTTL time.Duration,
	logger core.Logger,
) {
	api := userApi{
		svc:      deps.UserSvc,
		tutorSvc: deps.TutorSvc,
		auth:     auth,
		sessions: sessionCache{store: deps.Sessions, ttl: sessionTTL, logger: logger},
		validate: deps.Validate,
	}

	ug := g.Group("/users")

	// un-authed endpoints
	// TODO: rate limit `/login`, `/password-reset` & `/password-reset-confirm`
	ug.POST("/register", api.register)
	ug.POST("/login", api.login)
	ug.POST("/password-reset", api.resetPassword)
	ug.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.POST("/logout", api.logout)
	ag.GET("/me", api.retrieveMe)
	ag.PUT("/me", api.updateMe, auth.activeUserMiddleware)
	ag.POST("/me/avatar", api.generateAvatar, auth.activeUserMiddleware)
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, token, err := api.auth.login(ctx, data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}

	profile := usr.Profile()
	api.sessions.set(ctx.Request().Context(), profile)
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: profile})
}

func (api *userApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || core.IsNotFound(err)) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *userApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *userApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	api.sessions.remove(ctx.Request().Context(), claims.Subject)
	return ctx.NoContent(http.StatusNoContent)
}

// retrieveMe serves the cached profile when there is one.
func (api *userApi) retrieveMe(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if profile, ok := api.sessions.get(ctx.Request().Context(), claims.Subject); ok {
		return ctx.JSON(http.StatusOK, profile)
	}

	usr, err := api.auth.getContextUser(ctx, claims)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !usr.IsActive {
		return errAccountDeactivated
	}

	profile := usr.Profile()
	api.sessions.set(ctx.Request().Context(), profile)
	return ctx.JSON(http.StatusOK, profile)
}

func (api *userApi) updateMe(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err = api.svc.Update(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}

	profile := usr.Profile()
	api.sessions.set(ctx.Request().Context(), profile)
	return ctx.JSON(http.StatusOK, profile)
}

func (api *userApi) generateAvatar(ctx echo.Context) error {
	usr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data tutor.AvatarRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AvatarRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	photoURL, err := api.tutorSvc.GenerateAvatar(ctx.Request().Context(), data.Prompt)
	if err != nil {
		return errors.Wrap(err, "generating avatar")
	}
	usr, err = api.svc.SetPhoto(ctx.Request().Context(), usr.ID, photoURL)
	if err != nil {
		return errors.Wrap(err, "setting photo")
	}

	profile := usr.Profile()
	api.sessions.set(ctx.Request().Context(), profile)
	return ctx.JSON(http.StatusOK, profile)
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string       `json:"token"`
		User  user.Profile `json:"user"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}
