package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/farmwise/farmwise/core/progress"
	"github.com/farmwise/farmwise/core/user"
)

type userRepository struct {
	collection *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{collection: db.Collection(usersCollection)}
}

func (repo *userRepository) findOne(ctx context.Context, filter bson.M) (user.User, error) {
	var usr user.User
	if err := repo.collection.FindOne(ctx, filter).Decode(&usr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	if usr.Progress.Quizzes == nil {
		usr.Progress.Quizzes = make(map[string]progress.QuizResult)
	}
	return usr, nil
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	filter := bson.M{"email": email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		filter["_id"] = bson.M{"$nin": ids}
	}

	n, err := repo.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if n > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.Progress.Quizzes == nil {
		usr.Progress.Quizzes = make(map[string]progress.QuizResult)
	}
	if _, err := repo.collection.InsertOne(ctx, usr); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.findOne(ctx, bson.M{"_id": id})
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.findOne(ctx, bson.M{"email": email})
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	set := bson.M{
		"displayName": usr.DisplayName,
		"firstName":   usr.FirstName,
		"lastName":    usr.LastName,
		"photoUrl":    usr.PhotoURL,
		"interests":   usr.Interests,
		"isActive":    usr.IsActive,
		"updatedAt":   usr.UpdatedAt,
		"lastLogin":   usr.LastLogin,
	}
	if usr.PasswordHash != nil {
		set["passwordHash"] = usr.PasswordHash
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated user.User
	err := repo.collection.FindOneAndUpdate(ctx, bson.M{"_id": usr.ID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return updated, nil
}
