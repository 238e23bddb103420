package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	followerrors "github.com/limitedgamerz39-afk/friendflix/follows/errors"
	"github.com/limitedgamerz39-afk/friendflix/follows/models"
	"github.com/limitedgamerz39-afk/friendflix/follows/repository"
	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
	"github.com/limitedgamerz39-afk/friendflix/realtime"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	NotificationFollow = "follow"
)

// Service defines follow graph operations.
type Service interface {
	// Follow creates the edge follower -> targetID.
	Follow(ctx context.Context, follower types.UserContext, targetID string) error

	// Unfollow removes the edge; returns false when there was nothing to remove.
	Unfollow(ctx context.Context, followerID, targetID string) (bool, error)

	Counts(ctx context.Context, userID string) (followers int64, following int64, err error)
	FollowersCount(ctx context.Context, userID string) (int64, error)
	FollowingCount(ctx context.Context, userID string) (int64, error)
	Followers(ctx context.Context, userID string, page, limit int) (*models.FollowersPage, error)
	Following(ctx context.Context, userID string, page, limit int) (*models.FollowingPage, error)
	IsFollowing(ctx context.Context, followerID, targetID string) (bool, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// UserResolver loads profile summaries for list entries.
type UserResolver interface {
	GetSummaries(ctx context.Context, userIDs []string) (map[string]profilemodels.Summary, error)
}

// Notifier persists and delivers a notification.
type Notifier interface {
	Notify(ctx context.Context, recipientID, senderID, kind, relatedID, message string) error
}

type Dependencies struct {
	Repo     repository.Repository
	Users    UserResolver
	Notifier Notifier
	Emitter  realtime.Emitter
	Events   events.Publisher
}

type service struct {
	repo     repository.Repository
	users    UserResolver
	notifier Notifier
	emitter  realtime.Emitter
	events   events.Publisher
	now      func() time.Time
}

func NewService(deps Dependencies) Service {
	s := &service{
		repo:     deps.Repo,
		users:    deps.Users,
		notifier: deps.Notifier,
		emitter:  deps.Emitter,
		events:   deps.Events,
		now:      func() time.Time { return time.Now().UTC() },
	}
	if s.emitter == nil {
		s.emitter = realtime.NopEmitter{}
	}
	return s
}

func (s *service) Follow(ctx context.Context, follower types.UserContext, targetID string) error {
	followerID := follower.UserID.String()
	if targetID == followerID {
		return followerrors.Validationf("You cannot follow yourself")
	}

	f := &models.Follow{
		ID:          uuid.Must(uuid.NewV4()).String(),
		FollowerID:  followerID,
		FollowingID: targetID,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return err
	}

	if s.notifier != nil {
		msg := fmt.Sprintf("%s started following you", follower.Name())
		if err := s.notifier.Notify(ctx, targetID, followerID, NotificationFollow, "", msg); err != nil {
			log.ErrorWithContext(ctx, "notify %s of follow by %s: %v", targetID, followerID, err)
		}
	}
	s.emitter.EmitToUser(targetID, realtime.EventUserFollowed, map[string]interface{}{
		"followerId": followerID,
		"message":    "Someone followed you",
	})
	events.Emit(s.events, events.NewEvent(events.UserFollowed, targetID, map[string]interface{}{
		"followerId":  followerID,
		"followingId": targetID,
	}))
	log.InfoWithContext(ctx, "%s followed %s", followerID, targetID)
	return nil
}

func (s *service) Unfollow(ctx context.Context, followerID, targetID string) (bool, error) {
	if targetID == followerID {
		return false, followerrors.Validationf("You cannot unfollow yourself")
	}
	removed, err := s.repo.Delete(ctx, followerID, targetID)
	if err != nil || !removed {
		return false, err
	}
	s.emitter.EmitToUser(targetID, realtime.EventUserUnfollowed, map[string]interface{}{
		"followerId": followerID,
		"message":    "Someone unfollowed you",
	})
	return true, nil
}

func (s *service) Counts(ctx context.Context, userID string) (int64, int64, error) {
	followers, err := s.repo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err := s.repo.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

func (s *service) FollowersCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountFollowers(ctx, userID)
}

func (s *service) FollowingCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountFollowing(ctx, userID)
}

func (s *service) Followers(ctx context.Context, userID string, page, limit int) (*models.FollowersPage, error) {
	page, limit = types.NormalizePage(page, limit, DefaultPageLimit, MaxPageLimit)
	edges, total, err := s.repo.ListFollowers(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	conns, err := s.connections(ctx, edges, func(f *models.Follow) string { return f.FollowerID })
	if err != nil {
		return nil, err
	}
	return &models.FollowersPage{Followers: conns, PageResult: types.NewPageResult(page, limit, total)}, nil
}

func (s *service) Following(ctx context.Context, userID string, page, limit int) (*models.FollowingPage, error) {
	page, limit = types.NormalizePage(page, limit, DefaultPageLimit, MaxPageLimit)
	edges, total, err := s.repo.ListFollowing(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	conns, err := s.connections(ctx, edges, func(f *models.Follow) string { return f.FollowingID })
	if err != nil {
		return nil, err
	}
	return &models.FollowingPage{Following: conns, PageResult: types.NewPageResult(page, limit, total)}, nil
}

// connections joins each edge's counterpart with its profile summary. A counterpart
// without a profile is listed by id alone.
func (s *service) connections(ctx context.Context, edges []*models.Follow, other func(*models.Follow) string) ([]models.Connection, error) {
	out := make([]models.Connection, 0, len(edges))
	if len(edges) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, other(e))
	}
	summaries := map[string]profilemodels.Summary{}
	if s.users != nil {
		found, err := s.users.GetSummaries(ctx, ids)
		if err != nil {
			return nil, err
		}
		summaries = found
	}
	for _, e := range edges {
		id := other(e)
		summary, ok := summaries[id]
		if !ok {
			summary = profilemodels.Summary{ID: id}
		}
		out = append(out, models.Connection{User: summary, FollowedAt: e.CreatedAt})
	}
	return out, nil
}

func (s *service) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	return s.repo.Exists(ctx, followerID, targetID)
}

func (s *service) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return s.repo.FollowingIDs(ctx, userID)
}
