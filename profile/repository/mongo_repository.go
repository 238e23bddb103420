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
	profileerrors "github.com/limitedgamerz39-afk/friendflix/profile/errors"
	"github.com/limitedgamerz39-afk/friendflix/profile/models"
)

type mongoProfileRepository struct {
	coll *mongo.Collection
}

func NewMongoProfileRepository(client *mongodb.Client) ProfileRepository {
	return &mongoProfileRepository{coll: client.Collection(mongodb.CollectionProfiles)}
}

// Indexes keeps non-empty social names unique.
func Indexes() mongodb.IndexSpec {
	return mongodb.IndexSpec{
		Collection: mongodb.CollectionProfiles,
		Models: []mongo.IndexModel{
			{
				Keys: bson.D{{Key: "socialName", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"socialName": bson.M{"$gt": ""}}),
			},
		},
	}
}

func (r *mongoProfileRepository) FindByID(ctx context.Context, userID string) (*models.Profile, error) {
	return r.findOne(ctx, bson.M{"_id": userID})
}

func (r *mongoProfileRepository) FindBySocialName(ctx context.Context, socialName string) (*models.Profile, error) {
	return r.findOne(ctx, bson.M{"socialName": socialName})
}

func (r *mongoProfileRepository) findOne(ctx context.Context, filter bson.M) (*models.Profile, error) {
	var p models.Profile
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		if mongodb.IsNoDocuments(err) {
			return nil, profileerrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: find profile: %v", profileerrors.ErrDatabaseOperation, err)
	}
	return &p, nil
}

func (r *mongoProfileRepository) FindByIDs(ctx context.Context, userIDs []string) ([]*models.Profile, error) {
	out := []*models.Profile{}
	if len(userIDs) == 0 {
		return out, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("%w: find profiles: %v", profileerrors.ErrDatabaseOperation, err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode profiles: %v", profileerrors.ErrDatabaseOperation, err)
	}
	return out, nil
}

func (r *mongoProfileRepository) Exists(ctx context.Context, userID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("%w: count profiles: %v", profileerrors.ErrDatabaseOperation, err)
	}
	return n > 0, nil
}

func (r *mongoProfileRepository) Upsert(ctx context.Context, userID string, set map[string]interface{}, seed *models.Profile) (*models.Profile, error) {
	now := time.Now().UTC()

	setDoc := bson.M{"updatedAt": now}
	for k, v := range set {
		setDoc[k] = v
	}
	// $set and $setOnInsert must not share a path
	onInsert := bson.M{"createdAt": now}
	if seed != nil {
		for k, v := range map[string]interface{}{
			"fullName":   seed.FullName,
			"socialName": seed.SocialName,
			"avatar":     seed.Avatar,
			"banner":     seed.Banner,
			"tagLine":    seed.TagLine,
		} {
			if _, ok := setDoc[k]; !ok {
				onInsert[k] = v
			}
		}
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var p models.Profile
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": userID},
		bson.M{"$set": setDoc, "$setOnInsert": onInsert}, opts).Decode(&p)
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return nil, profileerrors.ErrSocialNameTaken
		}
		return nil, fmt.Errorf("%w: upsert profile: %v", profileerrors.ErrDatabaseOperation, err)
	}
	return &p, nil
}
