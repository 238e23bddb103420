package models

import "time"

// Profile is the public face of a user. The id equals the auth user id.
type Profile struct {
	ID         string    `json:"id" bson:"_id"`
	FullName   string    `json:"fullName" bson:"fullName"`
	SocialName string    `json:"socialName" bson:"socialName"`
	Avatar     string    `json:"avatar" bson:"avatar"`
	Banner     string    `json:"banner" bson:"banner"`
	TagLine    string    `json:"tagLine" bson:"tagLine"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Summary is the owner block embedded by feed, follow and message joins.
type Summary struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"fullName"`
	Username string `json:"username" bson:"socialName"`
	Avatar   string `json:"avatar" bson:"avatar"`
}

func (p *Profile) Summary() Summary {
	return Summary{ID: p.ID, Name: p.FullName, Username: p.SocialName, Avatar: p.Avatar}
}

// UpdateProfileRequest carries only the fields the caller wants to change.
type UpdateProfileRequest struct {
	FullName   *string `json:"fullName,omitempty"`
	SocialName *string `json:"socialName,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	Banner     *string `json:"banner,omitempty"`
	TagLine    *string `json:"tagLine,omitempty"`
}

// Empty reports whether the request changes nothing.
func (r *UpdateProfileRequest) Empty() bool {
	return r.FullName == nil && r.SocialName == nil && r.Avatar == nil && r.Banner == nil && r.TagLine == nil
}

// ProfileResponse is a profile with its graph counters.
type ProfileResponse struct {
	*Profile
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
}
