package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/farmwise/farmwise/apps/api/echo"
	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/catalog"
	"github.com/farmwise/farmwise/core/progress"
	"github.com/farmwise/farmwise/core/tutor"
	"github.com/farmwise/farmwise/core/user"
	aisvc "github.com/farmwise/farmwise/services/ai"
	emailsvc "github.com/farmwise/farmwise/services/email"
	eventsvc "github.com/farmwise/farmwise/services/events"
	logsvc "github.com/farmwise/farmwise/services/logger"
	"github.com/farmwise/farmwise/storage/cache"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newSessionStore(conf *core.Config, loggerParam DBLoggerParam) core.SessionStore {
	if conf.Cache.Engine == "memory" {
		return cache.NewMemoryStore()
	}
	store, err := cache.NewRedisStore(context.Background(), conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up session cache: %v", err), err)
	}
	return store
}

func newModel(conf *core.Config, logger core.Logger) tutor.Model {
	model, err := aisvc.New(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up %s model: %v", conf.AI.Provider, err), err)
	}
	return model
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type apiDepsParam struct {
	dig.In
	Validate    *validator.Validate
	Translator  ut.Translator
	Sessions    core.SessionStore
	UserSvc     user.Service
	CatalogSvc  catalog.Service
	ProgressSvc progress.Service
	TutorSvc    tutor.Service
}

func newAPIDeps(p apiDepsParam) *echoapi.Deps {
	return &echoapi.Deps{
		Validate:    p.Validate,
		Translator:  p.Translator,
		Sessions:    p.Sessions,
		UserSvc:     p.UserSvc,
		CatalogSvc:  p.CatalogSvc,
		ProgressSvc: p.ProgressSvc,
		TutorSvc:    p.TutorSvc,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newSessionStore))
	must(c.Provide(newEmailService))
	must(c.Provide(eventsvc.NewPublisher))
	must(c.Provide(newModel))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(user.NewService))
	must(c.Provide(catalog.NewService))
	must(c.Provide(progress.NewService))
	must(c.Provide(tutor.NewService))
	must(c.Provide(newAPIDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
