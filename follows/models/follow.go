package models

import (
	"time"

	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
)

// Follow is one directed edge: FollowerID follows FollowingID.
type Follow struct {
	ID          string    `json:"id" bson:"_id"`
	FollowerID  string    `json:"followerId" bson:"followerId"`
	FollowingID string    `json:"followingId" bson:"followingId"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// Connection is one entry of a followers or following list.
type Connection struct {
	User       profilemodels.Summary `json:"user"`
	FollowedAt time.Time             `json:"followedAt"`
}

type FollowersPage struct {
	Followers []Connection `json:"followers"`
	types.PageResult
}

type FollowingPage struct {
	Following []Connection `json:"following"`
	types.PageResult
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type StatusResponse struct {
	IsFollowing bool `json:"isFollowing"`
}
