package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/catalog"
	"github.com/farmwise/farmwise/core/progress"
	"github.com/farmwise/farmwise/core/tutor"
	"github.com/farmwise/farmwise/core/user"
)

type (
	// Deps are the services the API is built on.
	Deps struct {
		Validate    *validator.Validate
		Translator  ut.Translator
		Sessions    core.SessionStore
		UserSvc     user.Service
		CatalogSvc  catalog.Service
		ProgressSvc progress.Service
		TutorSvc    tutor.Service
	}

	Server struct {
		conf     *core.Config
		logger   core.Logger
		deps     *Deps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(conf *core.Config, logger core.Logger, deps *Deps) *Server {
	s := &Server{
		conf:     conf,
		logger:   logger,
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = s.conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	auth := newAuthenticator(s.conf, s.deps.UserSvc)
	jwt := middleware.JWTWithConfig(auth.jwtConfig)

	registerUserAPI(v1, jwt, auth, s.deps, s.conf.Cache.SessionTTL, s.logger)
	registerCatalogAPI(v1, s.deps)
	registerProgressAPI(v1, jwt, auth, s.deps)
	registerTutorAPI(v1, jwt, auth, s.deps)
}

// Start blocks until the server stops; a failure is sent to Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to FarmWise API!")
}
