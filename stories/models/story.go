package models

import (
	"time"

	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
)

const (
	MaxCaptionLength = 200
	Lifetime         = 24 * time.Hour
	ThumbnailWidth   = 320
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Viewer struct {
	UserID   string    `json:"userId" bson:"userId"`
	ViewedAt time.Time `json:"viewedAt" bson:"viewedAt"`
}

type Story struct {
	ID           string    `json:"id" bson:"_id"`
	OwnerID      string    `json:"ownerId" bson:"ownerId"`
	MediaKey     string    `json:"-" bson:"mediaKey"`
	MediaURL     string    `json:"mediaUrl" bson:"mediaUrl"`
	ThumbnailKey string    `json:"-" bson:"thumbnailKey,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	MediaType    MediaType `json:"mediaType" bson:"mediaType"`
	Caption      string    `json:"caption" bson:"caption"`
	Viewers      []Viewer  `json:"viewers" bson:"viewers"`
	ExpiresAt    time.Time `json:"expiresAt" bson:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Expired reports whether s is past its expiry at now.
func (s *Story) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type StoryView struct {
	Story `bson:",inline"`
	User  *profilemodels.Summary `json:"user,omitempty"`
}

type ViewerView struct {
	User     profilemodels.Summary `json:"user"`
	ViewedAt time.Time             `json:"viewedAt"`
}

// Upload is a validated story file handed from the transport layer.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
	Caption     string
}
