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

	bookmarkerrors "github.com/limitedgamerz39-afk/friendflix/bookmarks/errors"
	"github.com/limitedgamerz39-afk/friendflix/bookmarks/models"
	"github.com/limitedgamerz39-afk/friendflix/internal/database/mongodb"
)

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(client *mongodb.Client) Repository {
	return &mongoRepository{coll: client.Collection(mongodb.CollectionBookmarks)}
}

func Indexes() mongodb.IndexSpec {
	return mongodb.IndexSpec{
		Collection: mongodb.CollectionBookmarks,
		Models: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "postId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
}

// AddBookmark upserts on (userId, postId) so repeated adds are no-ops.
func (r *mongoRepository) AddBookmark(ctx context.Context, userID, postID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": userID, "postId": postID},
		bson.M{"$setOnInsert": bson.M{"createdAt": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: add bookmark: %v", bookmarkerrors.ErrDatabaseOperation, err)
	}
	return res.UpsertedCount == 1, nil
}

func (r *mongoRepository) RemoveBookmark(ctx context.Context, userID, postID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "postId": postID})
	if err != nil {
		return false, fmt.Errorf("%w: remove bookmark: %v", bookmarkerrors.ErrDatabaseOperation, err)
	}
	return res.DeletedCount == 1, nil
}

func (r *mongoRepository) GetMapByUserAndPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	cur, err := r.coll.Find(ctx,
		bson.M{"userId": userID, "postId": bson.M{"$in": postIDs}},
		options.Find().SetProjection(bson.M{"postId": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: find bookmarks: %v", bookmarkerrors.ErrDatabaseOperation, err)
	}
	var rows []models.Bookmark
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode bookmarks: %v", bookmarkerrors.ErrDatabaseOperation, err)
	}
	for _, row := range rows {
		out[row.PostID] = true
	}
	return out, nil
}

func (r *mongoRepository) FindMyBookmarks(ctx context.Context, userID string, page, limit int) ([]models.Bookmark, int64, error) {
	filter := bson.M{"userId": userID}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count bookmarks: %v", bookmarkerrors.ErrDatabaseOperation, err)
	}
	cur, err := r.coll.Find(ctx, filter, mongodb.PageOptions(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: find bookmarks: %v", bookmarkerrors.ErrDatabaseOperation, err)
	}
	out := []models.Bookmark{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("%w: decode bookmarks: %v", bookmarkerrors.ErrDatabaseOperation, err)
	}
	return out, total, nil
}
