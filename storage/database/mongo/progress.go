package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/farmwise/farmwise/core/progress"
)

// progressRepository works on the progress sub-document of the users collection.
type progressRepository struct {
	collection *mongo.Collection
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *mongo.Database) progress.Repository {
	return &progressRepository{collection: db.Collection(usersCollection)}
}

func (repo *progressRepository) GetProgress(ctx context.Context, userID string) (progress.Progress, error) {
	var doc struct {
		Progress progress.Progress `bson:"progress"`
	}
	opts := options.FindOne().SetProjection(bson.M{"progress": 1})
	if err := repo.collection.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return progress.Progress{}, progress.ErrUserNotFound
		}
		return progress.Progress{}, errors.Wrap(err, "finding progress")
	}
	return doc.Progress, nil
}

func (repo *progressRepository) UpsertQuizResult(ctx context.Context, userID string, result progress.QuizResult) error {
	update := bson.M{"$set": bson.M{"progress.quizzes." + result.LessonSlug: result}}
	res, err := repo.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return errors.Wrap(err, "saving quiz result")
	}
	if res.MatchedCount == 0 {
		return progress.ErrUserNotFound
	}
	return nil
}
