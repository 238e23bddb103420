package mongodb

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestSkip(t *testing.T) {
	assert.Equal(t, int64(0), Skip(1, 10))
	assert.Equal(t, int64(10), Skip(2, 10))
	assert.Equal(t, int64(0), Skip(0, 10))
	assert.Equal(t, int64(0), Skip(5, 0))
	assert.Equal(t, int64(math.MaxInt64), Skip(math.MaxInt64/5, 10))
	assert.Equal(t, int64(math.MaxInt64), Skip(math.MaxInt, 100))
}

func TestPageOptions(t *testing.T) {
	opts := PageOptions(3, 20)
	assert.Equal(t, int64(40), *opts.Skip)
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, opts.Sort)
}

func TestPageStages(t *testing.T) {
	stages := PageStages(nil, 2, 10)
	assert.Len(t, stages, 3)
	assert.Equal(t, "$sort", stages[0][0].Key)
	assert.Equal(t, NewestFirst(), stages[0][0].Value)
	assert.Equal(t, int64(10), stages[1][0].Value)
	assert.Equal(t, int64(10), stages[2][0].Value)
}

func TestIsNoDocuments(t *testing.T) {
	assert.True(t, IsNoDocuments(mongo.ErrNoDocuments))
	assert.True(t, IsNoDocuments(fmt.Errorf("find: %w", mongo.ErrNoDocuments)))
	assert.False(t, IsNoDocuments(errors.New("boom")))
}
