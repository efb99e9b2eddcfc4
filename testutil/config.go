package testutil

import (
	"io"
	"log"
	"os"

	"github.com/farmwise/farmwise/core"
	logsvc "github.com/farmwise/farmwise/services/logger"
)

// NewConfig returns the TEST settings: in-memory storage and cache, no request logs.
func NewConfig() *core.Config {
	_ = os.Setenv("ENV", "TEST")
	conf := core.NewConfig()
	conf.Debug = false
	conf.Server.DisableReqLogs = true
	conf.Events.URL = ""
	return conf
}

// NewLogger returns a silent logger with Rollbar disabled.
func NewLogger(conf *core.Config) core.Logger {
	l := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	l.Enable(false)
	return l
}
