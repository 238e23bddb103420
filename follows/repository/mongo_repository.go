// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/limitedgamerz39-afk/friendflix/internal/database/mongodb"
	followerrors "github.com/limitedgamerz39-afk/friendflix/follows/errors"
	"github.com/limitedgamerz39-afk/friendflix/follows/models"
)

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(client *mongodb.Client) Repository {
	return &mongoRepository{coll: client.Collection(mongodb.CollectionFollows)}
}

// Indexes keeps each ordered pair unique and serves both list directions.
func Indexes() mongodb.IndexSpec {
	return mongodb.IndexSpec{
		Collection: mongodb.CollectionFollows,
		Models: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "followerId", Value: 1}, {Key: "followingId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "followingId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "followerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
}

func (r *mongoRepository) Create(ctx context.Context, f *models.Follow) error {
	if _, err := r.coll.InsertOne(ctx, f); err != nil {
		if mongodb.IsDuplicateKey(err) {
			return followerrors.ErrAlreadyFollowing
		}
		return fmt.Errorf("%w: insert follow: %v", followerrors.ErrDatabaseOperation, err)
	}
	return nil
}

func (r *mongoRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"followerId": followerID, "followingId": followingID})
	if err != nil {
		return false, fmt.Errorf("%w: delete follow: %v", followerrors.ErrDatabaseOperation, err)
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	n, err := r.count(ctx, bson.M{"followerId": followerID, "followingId": followingID})
	return n > 0, err
}

func (r *mongoRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, bson.M{"followingId": userID})
}

func (r *mongoRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, bson.M{"followerId": userID})
}

func (r *mongoRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%w: count follows: %v", followerrors.ErrDatabaseOperation, err)
	}
	return n, nil
}

func (r *mongoRepository) ListFollowers(ctx context.Context, userID string, page, limit int) ([]*models.Follow, int64, error) {
	return r.list(ctx, bson.M{"followingId": userID}, page, limit)
}

func (r *mongoRepository) ListFollowing(ctx context.Context, userID string, page, limit int) ([]*models.Follow, int64, error) {
	return r.list(ctx, bson.M{"followerId": userID}, page, limit)
}

func (r *mongoRepository) list(ctx context.Context, filter bson.M, page, limit int) ([]*models.Follow, int64, error) {
	total, err := r.count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := []*models.Follow{}
	if total == 0 {
		return out, 0, nil
	}
	cur, err := r.coll.Find(ctx, filter, mongodb.PageOptions(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: find follows: %v", followerrors.ErrDatabaseOperation, err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("%w: decode follows: %v", followerrors.ErrDatabaseOperation, err)
	}
	return out, total, nil
}

func (r *mongoRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	cur, err := r.coll.Find(ctx, bson.M{"followerId": userID},
		options.Find().SetProjection(bson.M{"followingId": 1}))
	if err != nil {
		return nil, fmt.Errorf("%w: find following: %v", followerrors.ErrDatabaseOperation, err)
	}
	var rows []struct {
		FollowingID string `bson:"followingId"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode following: %v", followerrors.ErrDatabaseOperation, err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.FollowingID)
	}
	return ids, nil
}
