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
	msgerrors "github.com/limitedgamerz39-afk/friendflix/messages/errors"
	"github.com/limitedgamerz39-afk/friendflix/messages/models"
)

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(client *mongodb.Client) Repository {
	return &mongoRepository{coll: client.Collection(mongodb.CollectionMessages)}
}

func Indexes() mongodb.IndexSpec {
	return mongodb.IndexSpec{
		Collection: mongodb.CollectionMessages,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "receiver", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "receiver", Value: 1}, {Key: "isRead", Value: 1}}},
		},
	}
}

// visibleTo matches the messages userID sent or received and has not hidden.
func visibleTo(userID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender": userID, "deletedFor": bson.M{"$nin": bson.A{models.DeletedForSender, models.DeletedForBoth}}},
		bson.M{"receiver": userID, "deletedFor": bson.M{"$nin": bson.A{models.DeletedForReceiver, models.DeletedForBoth}}},
	}}
}

func (r *mongoRepository) Create(ctx context.Context, m *models.Message) error {
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("%w: insert message: %v", msgerrors.ErrDatabaseOperation, err)
	}
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*models.Message, error) {
	var m models.Message
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if mongodb.IsNoDocuments(err) {
			return nil, msgerrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("%w: find message: %v", msgerrors.ErrDatabaseOperation, err)
	}
	return &m, nil
}

func (r *mongoRepository) History(ctx context.Context, userID, otherID string) ([]*models.Message, error) {
	filter := bson.M{"$and": bson.A{
		bson.M{"$or": bson.A{
			bson.M{"sender": userID, "receiver": otherID},
			bson.M{"sender": otherID, "receiver": userID},
		}},
		visibleTo(userID),
	}}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: find history: %v", msgerrors.ErrDatabaseOperation, err)
	}
	out := []*models.Message{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode history: %v", msgerrors.ErrDatabaseOperation, err)
	}
	return out, nil
}

func (r *mongoRepository) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"sender": senderID, "receiver": receiverID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: mark messages read: %v", msgerrors.ErrDatabaseOperation, err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoRepository) Conversations(ctx context.Context, userID string) ([]*models.ConversationRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: visibleTo(userID)}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":         bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$sender", userID}}, "$receiver", "$sender"}},
			"lastMessage": bson.M{"$first": "$$ROOT"},
			"unreadCount": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$receiver", userID}},
					bson.M{"$eq": bson.A{"$isRead", false}},
				}},
				1, 0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastMessage.createdAt", Value: -1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate conversations: %v", msgerrors.ErrDatabaseOperation, err)
	}
	out := []*models.ConversationRow{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode conversations: %v", msgerrors.ErrDatabaseOperation, err)
	}
	return out, nil
}

func (r *mongoRepository) SetDeletedFor(ctx context.Context, id string, from, to models.DeletedFor) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "deletedFor": from},
		bson.M{"$set": bson.M{"deletedFor": to}},
	)
	if err != nil {
		return false, fmt.Errorf("%w: update message: %v", msgerrors.ErrDatabaseOperation, err)
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("%w: delete message: %v", msgerrors.ErrDatabaseOperation, err)
	}
	return nil
}
