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
	mediamodels "github.com/limitedgamerz39-afk/friendflix/media/models"
	postsErrors "github.com/limitedgamerz39-afk/friendflix/posts/errors"
	"github.com/limitedgamerz39-afk/friendflix/posts/models"
)

const (
	stageMatch     = "$match"
	stageLookup    = "$lookup"
	stageUnwind    = "$unwind"
	stageAddFields = "$addFields"
	stageProject   = "$project"
	stageFacet     = "$facet"
	stageCount     = "$count"

	resolvedField = "resolvedMedia"
)

type mongoPostRepository struct {
	coll *mongo.Collection
}

func NewMongoPostRepository(client *mongodb.Client) PostRepository {
	return &mongoPostRepository{coll: client.Collection(mongodb.CollectionPosts)}
}

func Indexes() mongodb.IndexSpec {
	return mongodb.IndexSpec{
		Collection: mongodb.CollectionPosts,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "postType", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "likes", Value: 1}}},
		},
	}
}

func displayableStatuses() bson.A {
	return bson.A{
		string(mediamodels.StatusCompleted),
		string(mediamodels.StatusPending),
		string(mediamodels.StatusUploading),
	}
}

func filterMatch(f models.PostFilter) bson.M {
	m := bson.M{}
	if len(f.OwnerIDs) > 0 {
		m["userId"] = bson.M{"$in": f.OwnerIDs}
	}
	if f.PostType != "" {
		m["postType"] = f.PostType
	}
	if f.Category != "" {
		m["category"] = f.Category
	}
	if f.CreatedAfter != nil {
		m["createdAt"] = bson.M{"$gte": *f.CreatedAfter}
	}
	return m
}

// resolveMedia gathers the referenced media summaries into resolvedMedia.
func resolveMedia() bson.D {
	return bson.D{{Key: stageLookup, Value: bson.M{
		"from": mongodb.CollectionMedia,
		"let": bson.M{
			"mid":  bson.M{"$ifNull": bson.A{"$mediaId", ""}},
			"mids": bson.M{"$ifNull": bson.A{"$mediaIds", bson.A{}}},
		},
		"pipeline": mongo.Pipeline{
			{{Key: stageMatch, Value: bson.M{"$expr": bson.M{"$or": bson.A{
				bson.M{"$eq": bson.A{"$_id", "$$mid"}},
				bson.M{"$in": bson.A{"$_id", "$$mids"}},
			}}}}},
			{{Key: stageProject, Value: bson.M{
				"url": 1, "isVideo": 1, "uploadType": 1, "duration": 1, "uploadStatus": 1,
			}}},
		},
		"as": resolvedField,
	}}}
}

// displayable mirrors models.IsDisplayable.
func displayable() bson.D {
	return bson.D{{Key: stageMatch, Value: bson.M{"$or": bson.A{
		bson.M{
			"mediaId":    bson.M{"$in": bson.A{nil, ""}},
			"mediaIds.0": bson.M{"$exists": false},
			"caption":    bson.M{"$nin": bson.A{nil, ""}},
		},
		bson.M{
			resolvedField + ".0": bson.M{"$exists": true},
			resolvedField: bson.M{"$not": bson.M{"$elemMatch": bson.M{
				"uploadStatus": bson.M{"$nin": displayableStatuses()},
			}}},
		},
	}}}}
}

func joinStages() []bson.D {
	return []bson.D{
		{{Key: stageLookup, Value: bson.M{
			"from":         mongodb.CollectionProfiles,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: stageUnwind, Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
		{{Key: stageAddFields, Value: bson.M{
			"media": bson.M{"$arrayElemAt": bson.A{
				bson.M{"$filter": bson.M{
					"input": "$" + resolvedField,
					"as":    "m",
					"cond":  bson.M{"$eq": bson.A{"$$m._id", "$mediaId"}},
				}},
				0,
			}},
			"mediaItems": bson.M{"$filter": bson.M{
				"input": "$" + resolvedField,
				"as":    "m",
				"cond":  bson.M{"$in": bson.A{"$$m._id", bson.M{"$ifNull": bson.A{"$mediaIds", bson.A{}}}}},
			}},
		}}},
		{{Key: stageProject, Value: bson.M{resolvedField: 0}}},
	}
}

func (r *mongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.MediaIDs == nil {
		post.MediaIDs = []string{}
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("%w: insert post: %v", postsErrors.ErrDatabaseOperation, err)
	}
	return nil
}

func (r *mongoPostRepository) FindByID(ctx context.Context, postID string) (*models.Post, error) {
	var p models.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": postID}).Decode(&p); err != nil {
		if mongodb.IsNoDocuments(err) {
			return nil, postsErrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("%w: find post: %v", postsErrors.ErrDatabaseOperation, err)
	}
	return &p, nil
}

func (r *mongoPostRepository) FindValid(ctx context.Context, filter models.PostFilter, page, limit int) ([]*models.PostView, int64, error) {
	items := mongo.Pipeline{}
	items = append(items, mongodb.PageStages(nil, page, limit)...)
	items = append(items, joinStages()...)

	pipeline := mongo.Pipeline{
		{{Key: stageMatch, Value: filterMatch(filter)}},
		resolveMedia(),
		displayable(),
		{{Key: stageFacet, Value: bson.M{
			"items": items,
			"total": mongo.Pipeline{{{Key: stageCount, Value: "n"}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: aggregate posts: %v", postsErrors.ErrDatabaseOperation, err)
	}
	defer cur.Close(ctx)

	var out []struct {
		Items []*models.PostView `bson:"items"`
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("%w: decode posts: %v", postsErrors.ErrDatabaseOperation, err)
	}
	if len(out) == 0 {
		return []*models.PostView{}, 0, nil
	}

	var total int64
	if len(out[0].Total) > 0 {
		total = out[0].Total[0].N
	}
	posts := out[0].Items
	if posts == nil {
		posts = []*models.PostView{}
	}
	return posts, total, nil
}

func (r *mongoPostRepository) views(ctx context.Context, match bson.M) ([]*models.PostView, error) {
	pipeline := mongo.Pipeline{{{Key: stageMatch, Value: match}}, resolveMedia()}
	pipeline = append(pipeline, joinStages()...)

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate posts: %v", postsErrors.ErrDatabaseOperation, err)
	}
	out := []*models.PostView{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode posts: %v", postsErrors.ErrDatabaseOperation, err)
	}
	return out, nil
}

func (r *mongoPostRepository) View(ctx context.Context, postID string) (*models.PostView, error) {
	out, err := r.views(ctx, bson.M{"_id": postID})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, postsErrors.ErrPostNotFound
	}
	return out[0], nil
}

func (r *mongoPostRepository) Views(ctx context.Context, postIDs []string) ([]*models.PostView, error) {
	if len(postIDs) == 0 {
		return []*models.PostView{}, nil
	}
	found, err := r.views(ctx, bson.M{"_id": bson.M{"$in": postIDs}})
	if err != nil {
		return nil, err
	}
	return orderViews(found, postIDs), nil
}

func (r *mongoPostRepository) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	likes := bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}
	update := mongo.Pipeline{{{Key: "$set", Value: bson.M{
		"likes": bson.M{"$cond": bson.A{
			bson.M{"$in": bson.A{userID, likes}},
			bson.M{"$filter": bson.M{
				"input": likes,
				"as":    "l",
				"cond":  bson.M{"$ne": bson.A{"$$l", userID}},
			}},
			bson.M{"$concatArrays": bson.A{likes, bson.A{userID}}},
		}},
		"updatedAt": time.Now().UTC(),
	}}}}
	return r.findAndUpdate(ctx, postID, update)
}

func (r *mongoPostRepository) AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error) {
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findAndUpdate(ctx, postID, update)
}

func (r *mongoPostRepository) findAndUpdate(ctx context.Context, postID string, update interface{}) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Post
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&p); err != nil {
		if mongodb.IsNoDocuments(err) {
			return nil, postsErrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("%w: update post: %v", postsErrors.ErrDatabaseOperation, err)
	}
	return &p, nil
}

func (r *mongoPostRepository) Delete(ctx context.Context, postID, ownerID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": postID, "userId": ownerID})
	if err != nil {
		return false, fmt.Errorf("%w: delete post: %v", postsErrors.ErrDatabaseOperation, err)
	}
	return res.DeletedCount > 0, nil
}

func orderViews(found []*models.PostView, ids []string) []*models.PostView {
	byID := make(map[string]*models.PostView, len(found))
	for _, v := range found {
		byID[v.ID] = v
	}
	out := make([]*models.PostView, 0, len(found))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}
