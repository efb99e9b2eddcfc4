package dig_container

import (
	"context"
	"fmt"

	"go.uber.org/dig"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/catalog"
	"github.com/farmwise/farmwise/core/progress"
	"github.com/farmwise/farmwise/core/tutor"
	"github.com/farmwise/farmwise/core/user"
	"github.com/farmwise/farmwise/storage/database"
	inmemdb "github.com/farmwise/farmwise/storage/database/inmem"
	mongodb "github.com/farmwise/farmwise/storage/database/mongo"
	pgrepos "github.com/farmwise/farmwise/storage/database/postgres"
)

// DBCloser releases the database connection.
type DBCloser func() error

type repositories struct {
	dig.Out
	Users    user.Repository
	Catalog  catalog.Repository
	Progress progress.Repository
	History  tutor.HistoryRepository
	Closer   DBCloser
}

// newRepositories connects to the configured engine: mongo (default), postgres or memory.
func newRepositories(conf *core.Config, loggerParam DBLoggerParam) repositories {
	logger := loggerParam.Logger

	switch conf.Database.Engine {
	case "memory":
		db := inmemdb.Open()
		catalogRepo := inmemdb.NewCatalogRepository(db)
		// nothing outlives the process, so the catalog is seeded on every start
		if err := seedCatalog(context.Background(), catalogRepo); err != nil {
			logger.Fatal(fmt.Sprintf("seeding catalog: %v", err), err)
		}
		return repositories{
			Users:    inmemdb.NewUserRepository(db),
			Catalog:  catalogRepo,
			Progress: inmemdb.NewProgressRepository(db),
			History:  inmemdb.NewHistoryRepository(db),
			Closer:   func() error { return nil },
		}

	case "postgres":
		setUp := func() (repositories, error) {
			if err := database.CreateIfNotExist(conf); err != nil {
				return repositories{}, err
			}
			db, err := database.Open(conf)
			if err != nil {
				return repositories{}, err
			}
			if err = database.Migrate(db.DB); err != nil {
				return repositories{}, err
			}
			return repositories{
				Users:    pgrepos.NewUserRepository(db),
				Catalog:  pgrepos.NewCatalogRepository(db),
				Progress: pgrepos.NewProgressRepository(db),
				History:  pgrepos.NewHistoryRepository(db),
				Closer:   db.Close,
			}, nil
		}
		repos, err := setUp()
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		return repos

	default:
		ctx := context.Background()
		db, err := mongodb.Open(ctx, conf)
		if err == nil {
			err = mongodb.EnsureIndexes(ctx, db)
		}
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		return repositories{
			Users:    mongodb.NewUserRepository(db),
			Catalog:  mongodb.NewCatalogRepository(db),
			Progress: mongodb.NewProgressRepository(db),
			History:  mongodb.NewHistoryRepository(db),
			Closer:   func() error { return mongodb.Close(context.Background(), db) },
		}
	}
}

// seedCatalog saves the default tutorials through the catalog service.
func seedCatalog(ctx context.Context, repo catalog.Repository) error {
	svc := catalog.NewService(repo)
	for _, tut := range catalog.DefaultTutorials() {
		if _, err := svc.Save(ctx, tut); err != nil {
			return err
		}
	}
	return nil
}
