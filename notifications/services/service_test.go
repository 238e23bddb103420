package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/testutil"
	notifyerrors "github.com/limitedgamerz39-afk/friendflix/notifications/errors"
	"github.com/limitedgamerz39-afk/friendflix/notifications/models"
	"github.com/limitedgamerz39-afk/friendflix/notifications/repository"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
	"github.com/limitedgamerz39-afk/friendflix/realtime"
)

// fakeSender records deliveries; endpoints listed in gone answer as expired.
type fakeSender struct {
	mu   sync.Mutex
	sent []string
	gone map[string]bool
	fail map[string]bool
}

func (f *fakeSender) Send(_ context.Context, sub *models.PushSubscription, _ []byte) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sub.Endpoint)
	switch {
	case f.gone[sub.Endpoint]:
		return true, errors.New("gone")
	case f.fail[sub.Endpoint]:
		return false, errors.New("boom")
	}
	return false, nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
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
	svc     Service
	repo    *repository.MemoryRepository
	sender  *fakeSender
	emitter *testutil.RecordingEmitter
	pub     *events.MemoryPublisher
}

func newFixture(users staticUsers) *fixture {
	f := &fixture{
		repo:    repository.NewMemoryRepository(users),
		sender:  &fakeSender{gone: map[string]bool{}, fail: map[string]bool{}},
		emitter: &testutil.RecordingEmitter{Online: map[string]bool{}},
		pub:     &events.MemoryPublisher{},
	}
	f.svc = NewService(Dependencies{
		Repo:    f.repo,
		Push:    f.repo,
		Sender:  f.sender,
		Emitter: f.emitter,
		Events:  f.pub,
	})
	return f
}

func newID() string { return uuid.Must(uuid.NewV4()).String() }

func TestNotifySkipsSelf(t *testing.T) {
	f := newFixture(nil)
	me := newID()

	require.NoError(t, f.svc.Notify(context.Background(), me, me, "like", "p1", "x"))
	n, err := f.svc.UnreadCount(context.Background(), me)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.emitter.Events(realtime.EventNewNotification))
}

func TestNotifyPersistsAndEmits(t *testing.T) {
	sender := newID()
	f := newFixture(staticUsers{sender: {ID: sender, Name: "Ann", Username: "ann"}})
	recipient := newID()
	f.emitter.Online[recipient] = true

	require.NoError(t, f.svc.Notify(context.Background(), recipient, sender, "comment", "p1", "Ann commented on your post: hi"))

	emits := f.emitter.Events(realtime.EventNewNotification)
	require.Len(t, emits, 1)
	assert.Equal(t, recipient, emits[0].UserID)
	assert.Equal(t, models.TypeComment, emits[0].Data.(*models.Notification).Type)

	assert.Eventually(t, func() bool {
		return len(f.pub.OfType(events.NotificationCreated)) == 1
	}, time.Second, 10*time.Millisecond)

	page, err := f.svc.List(context.Background(), recipient, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "p1", page.Notifications[0].RelatedID)
	require.NotNil(t, page.Notifications[0].SenderUser)
	assert.Equal(t, "ann", page.Notifications[0].SenderUser.Username)

	err = f.svc.Notify(context.Background(), recipient, sender, "poke", "", "")
	assert.ErrorIs(t, err, notifyerrors.ErrValidation)
}

func TestListNewestFirstWithPaging(t *testing.T) {
	f := newFixture(nil)
	recipient := newID()
	svc := f.svc.(*service)
	base := time.Now()
	for i := 0; i < 25; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		svc.now = func() time.Time { return at }
		require.NoError(t, f.svc.Notify(context.Background(), recipient, newID(), "follow", "", "msg"))
	}

	page, err := f.svc.List(context.Background(), recipient, 1, 0)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, DefaultPageLimit)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.Notifications[0].CreatedAt.After(page.Notifications[1].CreatedAt))

	page, err = f.svc.List(context.Background(), recipient, 2, 20)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 5)
}

func TestMarkAsRead(t *testing.T) {
	f := newFixture(nil)
	recipient := newID()
	for i := 0; i < 3; i++ {
		require.NoError(t, f.svc.Notify(context.Background(), recipient, newID(), "like", "", "msg"))
	}
	page, err := f.svc.List(context.Background(), recipient, 1, 10)
	require.NoError(t, err)
	id := page.Notifications[0].ID

	_, err = f.svc.MarkAsRead(context.Background(), id, newID())
	assert.ErrorIs(t, err, notifyerrors.ErrNotificationNotFound)

	n, err := f.svc.MarkAsRead(context.Background(), id, recipient)
	require.NoError(t, err)
	assert.True(t, n.Read)

	unread, err := f.svc.UnreadCount(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	changed, err := f.svc.MarkAllAsRead(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	unread, err = f.svc.UnreadCount(context.Background(), recipient)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestPushFallbackForOfflineRecipients(t *testing.T) {
	f := newFixture(nil)
	offline := newID()
	online := newID()
	f.emitter.Online[online] = true

	keys := models.PushKeys{P256dh: "p", Auth: "a"}
	require.NoError(t, f.svc.Subscribe(context.Background(), offline, &models.SubscribeRequest{Endpoint: "https://push.example/live", Keys: keys}))
	require.NoError(t, f.svc.Subscribe(context.Background(), offline, &models.SubscribeRequest{Endpoint: "https://push.example/stale", Keys: keys}))
	require.NoError(t, f.svc.Subscribe(context.Background(), online, &models.SubscribeRequest{Endpoint: "https://push.example/online", Keys: keys}))
	f.sender.gone["https://push.example/stale"] = true

	require.NoError(t, f.svc.Notify(context.Background(), online, newID(), "like", "", "hi"))
	require.NoError(t, f.svc.Notify(context.Background(), offline, newID(), "like", "", "hi"))

	assert.Eventually(t, func() bool { return f.sender.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		subs, err := f.repo.Subscriptions(context.Background(), offline)
		return err == nil && len(subs) == 1 && subs[0].Endpoint == "https://push.example/live"
	}, time.Second, 10*time.Millisecond)

	f.sender.mu.Lock()
	assert.NotContains(t, f.sender.sent, "https://push.example/online")
	f.sender.mu.Unlock()
}

func TestSubscribeValidation(t *testing.T) {
	f := newFixture(nil)
	uid := newID()

	err := f.svc.Subscribe(context.Background(), uid, &models.SubscribeRequest{Endpoint: "ftp://x", Keys: models.PushKeys{P256dh: "p", Auth: "a"}})
	assert.ErrorIs(t, err, notifyerrors.ErrValidation)

	err = f.svc.Subscribe(context.Background(), uid, &models.SubscribeRequest{Endpoint: "https://push.example/x"})
	assert.ErrorIs(t, err, notifyerrors.ErrValidation)

	disabled := NewService(Dependencies{Repo: repository.NewMemoryRepository(nil)})
	err = disabled.Subscribe(context.Background(), uid, &models.SubscribeRequest{Endpoint: "https://push.example/x", Keys: models.PushKeys{P256dh: "p", Auth: "a"}})
	assert.ErrorIs(t, err, notifyerrors.ErrValidation)
}

func TestSubscribeUpsertsByEndpoint(t *testing.T) {
	f := newFixture(nil)
	first, second := newID(), newID()
	req := &models.SubscribeRequest{Endpoint: "https://push.example/shared", Keys: models.PushKeys{P256dh: "p", Auth: "a"}}

	require.NoError(t, f.svc.Subscribe(context.Background(), first, req))
	require.NoError(t, f.svc.Subscribe(context.Background(), second, req))

	subs, err := f.repo.Subscriptions(context.Background(), first)
	require.NoError(t, err)
	assert.Empty(t, subs)
	subs, err = f.repo.Subscriptions(context.Background(), second)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}
