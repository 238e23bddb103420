package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	followerrors "github.com/limitedgamerz39-afk/friendflix/follows/errors"
	"github.com/limitedgamerz39-afk/friendflix/follows/models"
	"github.com/limitedgamerz39-afk/friendflix/follows/repository"
	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/testutil"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
	"github.com/limitedgamerz39-afk/friendflix/realtime"
)

type sentNotification struct {
	Recipient, Sender, Kind, Message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, recipientID, senderID, kind, _ string, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{recipientID, senderID, kind, message})
	return nil
}

type staticUsers map[string]profilemodels.Summary

func (u staticUsers) GetSummaries(_ context.Context, ids []string) (map[string]profilemodels.Summary, error) {
	out := map[string]profilemodels.Summary{}
	for _, id := range ids {
		if s, ok := u[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type fixture struct {
	svc      Service
	notifier *recordingNotifier
	emitter  *testutil.RecordingEmitter
	pub      *events.MemoryPublisher
}

func newFixture(users staticUsers) *fixture {
	f := &fixture{
		notifier: &recordingNotifier{},
		emitter:  &testutil.RecordingEmitter{},
		pub:      &events.MemoryPublisher{},
	}
	f.svc = NewService(Dependencies{
		Repo:     repository.NewMemoryRepository(),
		Users:    users,
		Notifier: f.notifier,
		Emitter:  f.emitter,
		Events:   f.pub,
	})
	return f
}

func TestFollow(t *testing.T) {
	f := newFixture(nil)
	me := testutil.NewUserContext()
	target := uuid.Must(uuid.NewV4()).String()

	require.NoError(t, f.svc.Follow(context.Background(), me, target))

	ok, err := f.svc.IsFollowing(context.Background(), me.UserID.String(), target)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, target, f.notifier.sent[0].Recipient)
	assert.Equal(t, NotificationFollow, f.notifier.sent[0].Kind)
	assert.Equal(t, "Test User started following you", f.notifier.sent[0].Message)

	emits := f.emitter.Events(realtime.EventUserFollowed)
	require.Len(t, emits, 1)
	assert.Equal(t, target, emits[0].UserID)

	assert.Eventually(t, func() bool {
		return len(f.pub.OfType(events.UserFollowed)) == 1
	}, time.Second, 10*time.Millisecond)

	err = f.svc.Follow(context.Background(), me, target)
	assert.ErrorIs(t, err, followerrors.ErrAlreadyFollowing)
	assert.Len(t, f.notifier.sent, 1)
}

func TestFollowSelf(t *testing.T) {
	f := newFixture(nil)
	me := testutil.NewUserContext()

	err := f.svc.Follow(context.Background(), me, me.UserID.String())
	assert.ErrorIs(t, err, followerrors.ErrValidation)

	_, err = f.svc.Unfollow(context.Background(), me.UserID.String(), me.UserID.String())
	assert.ErrorIs(t, err, followerrors.ErrValidation)
}

func TestUnfollowAbsentEdge(t *testing.T) {
	f := newFixture(nil)
	me := uuid.Must(uuid.NewV4()).String()
	target := uuid.Must(uuid.NewV4()).String()

	for i := 0; i < 2; i++ {
		removed, err := f.svc.Unfollow(context.Background(), me, target)
		require.NoError(t, err)
		assert.False(t, removed)
	}
	assert.Empty(t, f.emitter.Events(realtime.EventUserUnfollowed))
}

func TestUnfollowRemovesEdge(t *testing.T) {
	f := newFixture(nil)
	me := testutil.NewUserContext()
	target := uuid.Must(uuid.NewV4()).String()
	require.NoError(t, f.svc.Follow(context.Background(), me, target))

	removed, err := f.svc.Unfollow(context.Background(), me.UserID.String(), target)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Len(t, f.emitter.Events(realtime.EventUserUnfollowed), 1)

	ok, err := f.svc.IsFollowing(context.Background(), me.UserID.String(), target)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountsAndLists(t *testing.T) {
	star := uuid.Must(uuid.NewV4()).String()
	fans := []string{}
	users := staticUsers{}
	for i := 0; i < 3; i++ {
		id := uuid.Must(uuid.NewV4()).String()
		fans = append(fans, id)
		users[id] = profilemodels.Summary{ID: id, Name: "fan", Username: "fan" + string(rune('a'+i))}
	}
	f := newFixture(users)

	base := time.Now()
	svc := f.svc.(*service)
	for i, fan := range fans {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		require.NoError(t, f.svc.Follow(context.Background(), testutil.CreateTestUserContext(fan), star))
	}
	// oldest follower has no profile
	unknown := testutil.NewUserContext()
	svc.now = func() time.Time { return base.Add(-time.Hour) }
	require.NoError(t, f.svc.Follow(context.Background(), unknown, star))

	followers, following, err := f.svc.Counts(context.Background(), star)
	require.NoError(t, err)
	assert.Equal(t, int64(4), followers)
	assert.Equal(t, int64(0), following)

	n, err := f.svc.FollowingCount(context.Background(), fans[0])
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	page, err := f.svc.Followers(context.Background(), star, 1, 3)
	require.NoError(t, err)
	require.Len(t, page.Followers, 3)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, fans[2], page.Followers[0].User.ID)
	assert.Equal(t, "fanc", page.Followers[0].User.Username)

	page, err = f.svc.Followers(context.Background(), star, 2, 3)
	require.NoError(t, err)
	require.Len(t, page.Followers, 1)
	assert.Equal(t, unknown.UserID.String(), page.Followers[0].User.ID)
	assert.Empty(t, page.Followers[0].User.Username)

	out, err := f.svc.Following(context.Background(), unknown.UserID.String(), 1, 10)
	require.NoError(t, err)
	require.Len(t, out.Following, 1)
	assert.Equal(t, star, out.Following[0].User.ID)

	ids, err := f.svc.FollowingIDs(context.Background(), fans[1])
	require.NoError(t, err)
	assert.Equal(t, []string{star}, ids)
}

func TestRepositoryErrorsPropagate(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(Dependencies{Repo: repo})
	boom := errors.New("db down")

	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Follow")).Return(boom).Once()
	repo.On("CountFollowers", mock.Anything, "u1").Return(int64(0), boom).Once()
	repo.On("ListFollowing", mock.Anything, "u1", 1, DefaultPageLimit).Return([]*models.Follow{}, int64(0), boom).Once()

	err := svc.Follow(context.Background(), testutil.NewUserContext(), "u1")
	assert.ErrorIs(t, err, boom)

	_, _, err = svc.Counts(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)

	_, err = svc.Following(context.Background(), "u1", 0, 0)
	assert.ErrorIs(t, err, boom)

	repo.AssertExpectations(t)
}
