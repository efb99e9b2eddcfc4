package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/farmwise/farmwise/core/catalog"
)

type catalogRepository struct {
	collection *mongo.Collection
}

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(db *mongo.Database) catalog.Repository {
	return &catalogRepository{collection: db.Collection(tutorialsCollection)}
}

func (repo *catalogRepository) QueryTutorials(ctx context.Context) ([]catalog.Tutorial, error) {
	cursor, err := repo.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Wrap(err, "querying tutorials")
	}
	defer func() { _ = cursor.Close(ctx) }()

	tutorials := make([]catalog.Tutorial, 0)
	if err = cursor.All(ctx, &tutorials); err != nil {
		return nil, errors.Wrap(err, "decoding tutorials")
	}
	return tutorials, nil
}

func (repo *catalogRepository) GetTutorial(ctx context.Context, slug string) (catalog.Tutorial, error) {
	var t catalog.Tutorial
	if err := repo.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return catalog.Tutorial{}, catalog.ErrNotFound
		}
		return catalog.Tutorial{}, errors.Wrap(err, "finding tutorial")
	}
	return t, nil
}

func (repo *catalogRepository) GetLesson(ctx context.Context, slug string) (catalog.Lesson, string, error) {
	var t catalog.Tutorial
	if err := repo.collection.FindOne(ctx, bson.M{"lessons.slug": slug}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return catalog.Lesson{}, "", catalog.ErrNotFound
		}
		return catalog.Lesson{}, "", errors.Wrap(err, "finding lesson")
	}
	for _, l := range t.Lessons {
		if l.Slug == slug {
			return l, t.Slug, nil
		}
	}
	return catalog.Lesson{}, "", catalog.ErrNotFound
}

func (repo *catalogRepository) SaveTutorial(ctx context.Context, tutorial catalog.Tutorial) (catalog.Tutorial, error) {
	_, err := repo.collection.ReplaceOne(ctx, bson.M{"slug": tutorial.Slug}, tutorial, options.Replace().SetUpsert(true))
	if err != nil {
		return catalog.Tutorial{}, errors.Wrap(err, "saving tutorial")
	}
	return tutorial, nil
}
