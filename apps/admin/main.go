package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/catalog"
	"github.com/farmwise/farmwise/core/user"
	emailsvc "github.com/farmwise/farmwise/services/email"
	eventsvc "github.com/farmwise/farmwise/services/events"
	logsvc "github.com/farmwise/farmwise/services/logger"
	"github.com/farmwise/farmwise/storage/database"
	inmemdb "github.com/farmwise/farmwise/storage/database/inmem"
	mongodb "github.com/farmwise/farmwise/storage/database/mongo"
	pgrepos "github.com/farmwise/farmwise/storage/database/postgres"
)

var logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

func main() {
	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)
	ctx := context.Background()

	cli := commandLine{conf: conf}
	var (
		usrRepo     user.Repository
		catalogRepo catalog.Repository
	)

	// set up DB
	switch conf.Database.Engine {
	case "memory":
		db := inmemdb.Open()
		usrRepo, catalogRepo = inmemdb.NewUserRepository(db), inmemdb.NewCatalogRepository(db)
	case "postgres":
		errAndDie(database.CreateIfNotExist(conf))
		db, err := database.Open(conf)
		errAndDie(err)
		defer closeDB(db.DB)
		cli.db = db.DB
		usrRepo, catalogRepo = pgrepos.NewUserRepository(db), pgrepos.NewCatalogRepository(db)
	default:
		db, err := mongodb.Open(ctx, conf)
		errAndDie(err)
		defer func() {
			if err := mongodb.Close(ctx, db); err != nil {
				logger.Printf("closing database: %v", err)
			}
		}()
		cli.ensureIdx = func(ctx context.Context) error { return mongodb.EnsureIndexes(ctx, db) }
		usrRepo, catalogRepo = mongodb.NewUserRepository(db), mongodb.NewCatalogRepository(db)
	}

	// set up services
	publisher, err := eventsvc.NewPublisher(conf, appLogger)
	errAndDie(err)
	defer publisher.Close()

	cli.usrSvc = user.NewService(conf, usrRepo, emailsvc.NewConsoleService(conf, appLogger), publisher, appLogger)
	cli.catalogSvc = catalog.NewService(catalogRepo)

	// start CLI
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		publisher.Close()
		os.Exit(1)
	}
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Printf("closing database: %v", err)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
