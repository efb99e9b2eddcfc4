package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/farmwise/farmwise/core/tutor"
)

type historyRepository struct {
	collection *mongo.Collection
}

var _ tutor.HistoryRepository = (*historyRepository)(nil)

func NewHistoryRepository(db *mongo.Database) tutor.HistoryRepository {
	return &historyRepository{collection: db.Collection(historyCollection)}
}

// historyID is the key of the transcript of a user on a lesson.
func historyID(userID, lessonSlug string) string {
	return userID + ":" + lessonSlug
}

func (repo *historyRepository) GetHistory(ctx context.Context, userID, lessonSlug string) ([]tutor.ChatMessage, error) {
	var doc struct {
		Messages []tutor.ChatMessage `bson:"messages"`
	}
	err := repo.collection.FindOne(ctx, bson.M{"_id": historyID(userID, lessonSlug)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []tutor.ChatMessage{}, nil
		}
		return nil, errors.Wrap(err, "finding chat history")
	}
	if doc.Messages == nil {
		doc.Messages = []tutor.ChatMessage{}
	}
	return doc.Messages, nil
}

func (repo *historyRepository) AppendMessage(ctx context.Context, userID, lessonSlug string, msg tutor.ChatMessage) error {
	update := bson.M{
		"$push":        bson.M{"messages": msg},
		"$setOnInsert": bson.M{"userId": userID, "lessonSlug": lessonSlug},
	}
	_, err := repo.collection.UpdateOne(
		ctx,
		bson.M{"_id": historyID(userID, lessonSlug)},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(err, "appending chat message")
	}
	return nil
}
