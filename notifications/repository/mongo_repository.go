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
	notifyerrors "github.com/limitedgamerz39-afk/friendflix/notifications/errors"
	"github.com/limitedgamerz39-afk/friendflix/notifications/models"
)

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(client *mongodb.Client) Repository {
	return &mongoRepository{coll: client.Collection(mongodb.CollectionNotifications)}
}

func Indexes() mongodb.IndexSpec {
	return mongodb.IndexSpec{
		Collection: mongodb.CollectionNotifications,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "read", Value: 1}}},
		},
	}
}

func (r *mongoRepository) Create(ctx context.Context, n *models.Notification) error {
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("%w: insert notification: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	return nil
}

func (r *mongoRepository) List(ctx context.Context, recipientID string, page, limit int) ([]*models.NotificationView, int64, error) {
	filter := bson.M{"recipient": recipientID}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count notifications: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	out := []*models.NotificationView{}
	if total == 0 {
		return out, 0, nil
	}

	pipeline := mongo.Pipeline{{{Key: "$match", Value: filter}}}
	pipeline = append(pipeline, mongodb.PageStages(nil, page, limit)...)
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         mongodb.CollectionProfiles,
			"localField":   "sender",
			"foreignField": "_id",
			"as":           "senderUser",
			"pipeline": bson.A{
				bson.M{"$project": bson.M{"fullName": 1, "socialName": 1, "avatar": 1}},
			},
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$senderUser", "preserveNullAndEmptyArrays": true}}},
	)

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list notifications: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("%w: decode notifications: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	return out, total, nil
}

func (r *mongoRepository) MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	var n models.Notification
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "recipient": recipientID},
		bson.M{"$set": bson.M{"read": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if err != nil {
		if mongodb.IsNoDocuments(err) {
			return nil, notifyerrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("%w: mark notification read: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	return &n, nil
}

func (r *mongoRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"recipient": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: mark all read: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"recipient": recipientID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("%w: count unread: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	return n, nil
}

type mongoPushRepository struct {
	coll *mongo.Collection
}

func NewMongoPushRepository(client *mongodb.Client) PushRepository {
	return &mongoPushRepository{coll: client.Collection(mongodb.CollectionPushSubscriptions)}
}

func PushIndexes() mongodb.IndexSpec {
	return mongodb.IndexSpec{
		Collection: mongodb.CollectionPushSubscriptions,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "endpoint", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
	}
}

func (r *mongoPushRepository) SaveSubscription(ctx context.Context, sub *models.PushSubscription) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"endpoint": sub.Endpoint},
		bson.M{
			"$set":         bson.M{"userId": sub.UserID, "keys": sub.Keys},
			"$setOnInsert": bson.M{"_id": sub.ID, "createdAt": sub.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: save push subscription: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	return nil
}

func (r *mongoPushRepository) Subscriptions(ctx context.Context, userID string) ([]*models.PushSubscription, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("%w: find push subscriptions: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	out := []*models.PushSubscription{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode push subscriptions: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	return out, nil
}

func (r *mongoPushRepository) DeleteSubscription(ctx context.Context, endpoint string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"endpoint": endpoint}); err != nil {
		return fmt.Errorf("%w: delete push subscription: %v", notifyerrors.ErrDatabaseOperation, err)
	}
	return nil
}
