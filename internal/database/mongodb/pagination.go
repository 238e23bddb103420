// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package mongodb

import (
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewestFirst orders by createdAt descending with _id breaking ties, so rows created in
// the same millisecond keep one position across pages.
func NewestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}

// Skip returns the offset for a 1-indexed page. It saturates instead of overflowing,
// so an absurd page lands past the end and yields an empty page.
func Skip(page, limit int) int64 {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(limit)
}

// PageOptions builds find options in NewestFirst order for the given page.
func PageOptions(page, limit int) *options.FindOptions {
	return options.Find().
		SetSort(NewestFirst()).
		SetSkip(Skip(page, limit)).
		SetLimit(int64(limit))
}

// PageStages returns the $sort, $skip and $limit stages for an aggregation.
func PageStages(sort bson.D, page, limit int) []bson.D {
	if len(sort) == 0 {
		sort = NewestFirst()
	}
	return []bson.D{
		{{Key: "$sort", Value: sort}},
		{{Key: "$skip", Value: Skip(page, limit)}},
		{{Key: "$limit", Value: int64(limit)}},
	}
}
