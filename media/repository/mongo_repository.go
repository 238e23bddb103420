package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/limitedgamerz39-afk/friendflix/internal/database/mongodb"
	mediaerrors "github.com/limitedgamerz39-afk/friendflix/media/errors"
	"github.com/limitedgamerz39-afk/friendflix/media/models"
)

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(client *mongodb.Client) Repository {
	return &mongoRepository{coll: client.Collection(mongodb.CollectionMedia)}
}

// Indexes backs owner listings.
func Indexes() mongodb.IndexSpec {
	return mongodb.IndexSpec{
		Collection: mongodb.CollectionMedia,
		Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
}

var (
	terminalStatuses = bson.A{string(models.StatusCompleted), string(models.StatusFinalized)}
	closedStatuses   = bson.A{string(models.StatusCompleted), string(models.StatusFinalized), string(models.StatusFailed)}
)

func (r *mongoRepository) Create(ctx context.Context, m *models.Media) error {
	if m.Chunks == nil {
		m.Chunks = []models.Chunk{}
	}
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("%w: insert media: %v", mediaerrors.ErrDatabaseOperation, err)
	}
	return nil
}

func (r *mongoRepository) FindOwned(ctx context.Context, id, ownerID string) (*models.Media, error) {
	var m models.Media
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&m)
	if err != nil {
		if mongodb.IsNoDocuments(err) {
			return nil, mediaerrors.ErrMediaNotFound
		}
		return nil, fmt.Errorf("%w: find media: %v", mediaerrors.ErrDatabaseOperation, err)
	}
	return &m, nil
}

func (r *mongoRepository) FindByIDs(ctx context.Context, ids []string) ([]*models.Media, error) {
	if len(ids) == 0 {
		return []*models.Media{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("%w: find media: %v", mediaerrors.ErrDatabaseOperation, err)
	}
	out := []*models.Media{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode media: %v", mediaerrors.ErrDatabaseOperation, err)
	}
	return out, nil
}

func (r *mongoRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Media, error) {
	opts := options.Find().
		SetSort(mongodb.NewestFirst()).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list media: %v", mediaerrors.ErrDatabaseOperation, err)
	}
	out := []*models.Media{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode media: %v", mediaerrors.ErrDatabaseOperation, err)
	}
	return out, nil
}

// UpsertChunk runs a pipeline update: drop any chunk with the same number, append the new
// one, and keep a terminal status untouched. Failed uploads are never matched.
func (r *mongoRepository) UpsertChunk(ctx context.Context, id, ownerID string, chunk models.Chunk) (*models.Media, error) {
	entry := bson.D{
		{Key: "chunkNumber", Value: chunk.ChunkNumber},
		{Key: "etag", Value: bson.D{{Key: "$literal", Value: chunk.ETag}}},
		{Key: "uploadedAt", Value: chunk.UploadedAt},
	}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "chunks", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$chunks", bson.A{}}}}},
					{Key: "as", Value: "c"},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$c.chunkNumber", chunk.ChunkNumber}}}},
				}}},
				bson.A{entry},
			}}}},
			{Key: "uploadStatus", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{"$uploadStatus", terminalStatuses}}},
				"$uploadStatus",
				string(models.StatusUploading),
			}}}},
			{Key: "updatedAt", Value: chunk.UploadedAt},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Media
	filter := bson.M{"_id": id, "userId": ownerID, "uploadStatus": bson.M{"$ne": models.StatusFailed}}
	err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&m)
	if err != nil {
		if mongodb.IsNoDocuments(err) {
			if _, findErr := r.FindOwned(ctx, id, ownerID); findErr != nil {
				return nil, findErr
			}
			return nil, mediaerrors.ErrUploadFailed
		}
		return nil, fmt.Errorf("%w: record chunk: %v", mediaerrors.ErrDatabaseOperation, err)
	}
	return &m, nil
}

func (r *mongoRepository) MarkCompleted(ctx context.Context, id, ownerID string, u models.FinalizeUpdate) (*models.Media, error) {
	filter := bson.M{
		"_id":          id,
		"userId":       ownerID,
		"uploadStatus": bson.M{"$nin": closedStatuses},
		"$expr": bson.M{"$eq": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$chunks", bson.A{}}}},
			"$totalChunks",
		}},
	}
	set := bson.M{
		"url":          u.URL,
		"caption":      u.Caption,
		"uploadType":   u.UploadType,
		"uploadStatus": models.StatusCompleted,
		"metadata":     u.Metadata,
		"uploadedAt":   u.UploadedAt,
		"updatedAt":    time.Now().UTC(),
	}
	if u.ProcessingStatus != "" {
		set["processingStatus"] = u.ProcessingStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Media
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&m)
	if err == nil {
		return &m, nil
	}
	if !mongodb.IsNoDocuments(err) {
		return nil, fmt.Errorf("%w: finalize media: %v", mediaerrors.ErrDatabaseOperation, err)
	}

	current, findErr := r.FindOwned(ctx, id, ownerID)
	if findErr != nil && findErr != mediaerrors.ErrMediaNotFound {
		return nil, findErr
	}
	return nil, finalizeMiss(current)
}

func (r *mongoRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return false, fmt.Errorf("%w: delete media: %v", mediaerrors.ErrDatabaseOperation, err)
	}
	return res.DeletedCount > 0, nil
}
