package main

import (
	"context"
	"fmt"

	"github.com/farmwise/farmwise/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	switch cli.conf.Database.Engine {
	case "postgres":
		return gooseRunFunc(args[0], cli.db, args[1:]...)
	case "memory":
		return fmt.Errorf("the memory engine has nothing to migrate")
	default:
		if args[0] != "up" {
			return fmt.Errorf("%q: only `up` is supported by the %s engine", args[0], cli.conf.Database.Engine)
		}
		return cli.ensureIdx(context.Background())
	}
}
