package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// activeUserMiddleware loads the token's user and rejects deactivated accounts.
func (a *authenticator) activeUserMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, err := a.getContextUser(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}
		if !usr.IsActive {
			return errAccountDeactivated
		}
		return next(ctx)
	}
}
