// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/limitedgamerz39-afk/friendflix/internal/database/mongodb"
	storyerrors "github.com/limitedgamerz39-afk/friendflix/stories/errors"
	"github.com/limitedgamerz39-afk/friendflix/stories/models"
)

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(client *mongodb.Client) Repository {
	return &mongoRepository{coll: client.Collection(mongodb.CollectionStories)}
}

// Indexes include a TTL on expiresAt so expired stories are purged by the server.
func Indexes() mongodb.IndexSpec {
	return mongodb.IndexSpec{
		Collection: mongodb.CollectionStories,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}
}

func (r *mongoRepository) Create(ctx context.Context, s *models.Story) error {
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("%w: insert story: %v", storyerrors.ErrDatabaseOperation, err)
	}
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*models.Story, error) {
	var s models.Story
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if mongodb.IsNoDocuments(err) {
			return nil, storyerrors.ErrStoryNotFound
		}
		return nil, fmt.Errorf("%w: find story: %v", storyerrors.ErrDatabaseOperation, err)
	}
	return &s, nil
}

func (r *mongoRepository) Active(ctx context.Context, ownerID string, now time.Time) ([]*models.Story, error) {
	filter := bson.M{"expiresAt": bson.M{"$gt": now}}
	if ownerID != "" {
		filter["ownerId"] = ownerID
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(mongodb.NewestFirst()))
	if err != nil {
		return nil, fmt.Errorf("%w: find stories: %v", storyerrors.ErrDatabaseOperation, err)
	}
	out := []*models.Story{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode stories: %v", storyerrors.ErrDatabaseOperation, err)
	}
	return out, nil
}

func (r *mongoRepository) AddViewer(ctx context.Context, id string, viewer models.Viewer) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "viewers.userId": bson.M{"$ne": viewer.UserID}},
		bson.M{"$push": bson.M{"viewers": viewer}},
	)
	if err != nil {
		return false, fmt.Errorf("%w: add viewer: %v", storyerrors.ErrDatabaseOperation, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoRepository) DeleteOwned(ctx context.Context, id, ownerID string) (*models.Story, error) {
	var s models.Story
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id, "ownerId": ownerID}).Decode(&s)
	if err != nil {
		if mongodb.IsNoDocuments(err) {
			return nil, storyerrors.ErrStoryNotFound
		}
		return nil, fmt.Errorf("%w: delete story: %v", storyerrors.ErrDatabaseOperation, err)
	}
	return &s, nil
}
