package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/testutil"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	msgerrors "github.com/limitedgamerz39-afk/friendflix/messages/errors"
	"github.com/limitedgamerz39-afk/friendflix/messages/models"
	"github.com/limitedgamerz39-afk/friendflix/messages/repository"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
	profilerepo "github.com/limitedgamerz39-afk/friendflix/profile/repository"
	profileservices "github.com/limitedgamerz39-afk/friendflix/profile/services"
	"github.com/limitedgamerz39-afk/friendflix/realtime"
)

type sentNotification struct {
	Recipient, Sender, Kind, Related, Message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, recipientID, senderID, kind, relatedID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{recipientID, senderID, kind, relatedID, message})
	return nil
}

type fixture struct {
	svc      Service
	repo     *repository.MemoryRepository
	profiles *profilerepo.MemoryProfileRepository
	notifier *recordingNotifier
	emitter  *testutil.RecordingEmitter
	pub      *events.MemoryPublisher
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:     repository.NewMemoryRepository(),
		profiles: profilerepo.NewMemoryProfileRepository(),
		notifier: &recordingNotifier{},
		emitter:  &testutil.RecordingEmitter{},
		pub:      &events.MemoryPublisher{},
		clock:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	s := NewService(Dependencies{
		Repo:     f.repo,
		Profiles: profileservices.NewService(f.profiles, nil),
		Notifier: f.notifier,
		Emitter:  f.emitter,
		Events:   f.pub,
	}).(*service)
	s.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	f.svc = s
	return f
}

// user registers a profile and returns a matching context.
func (f *fixture) user(name string) types.UserContext {
	u := testutil.NewUserContext()
	u.DisplayName = name
	f.profiles.Put(profilemodels.Profile{ID: u.UserID.String(), FullName: name, SocialName: strings.ToLower(name)})
	return u
}

func (f *fixture) send(t *testing.T, from, to types.UserContext, content string) *models.MessageView {
	t.Helper()
	view, err := f.svc.Send(context.Background(), from, &models.SendMessageRequest{ReceiverID: to.UserID.String(), Content: content})
	require.NoError(t, err)
	return view
}

func TestSendMessage(t *testing.T) {
	f := newFixture()
	ann, bob := f.user("Ann"), f.user("Bob")

	view := f.send(t, ann, bob, "  hi bob  ")
	assert.Equal(t, "hi bob", view.Content)
	assert.Equal(t, models.TypeText, view.MessageType)
	assert.False(t, view.Read)
	require.NotNil(t, view.SenderUser)
	assert.Equal(t, "ann", view.SenderUser.Username)
	require.NotNil(t, view.ReceiverUser)
	assert.Equal(t, "Bob", view.ReceiverUser.Name)

	emitted := f.emitter.Events(realtime.EventNewMessage)
	require.Len(t, emitted, 1)
	assert.Equal(t, bob.UserID.String(), emitted[0].UserID)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, sentNotification{bob.UserID.String(), ann.UserID.String(), NotificationMessage, view.ID, "Ann sent you a message"}, f.notifier.sent[0])

	assert.Eventually(t, func() bool {
		return len(f.pub.OfType(events.MessageSent)) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSendMessageValidation(t *testing.T) {
	f := newFixture()
	ann, bob := f.user("Ann"), f.user("Bob")
	bobID := bob.UserID.String()

	tests := []struct {
		name string
		req  models.SendMessageRequest
	}{
		{"missing receiver", models.SendMessageRequest{Content: "x"}},
		{"malformed receiver", models.SendMessageRequest{ReceiverID: "nope", Content: "x"}},
		{"self", models.SendMessageRequest{ReceiverID: ann.UserID.String(), Content: "x"}},
		{"blank content", models.SendMessageRequest{ReceiverID: bobID, Content: "   "}},
		{"too long", models.SendMessageRequest{ReceiverID: bobID, Content: strings.Repeat("a", models.MaxContentLength+1)}},
		{"bad type", models.SendMessageRequest{ReceiverID: bobID, Content: "x", MessageType: "sticker"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.Send(context.Background(), ann, &req)
			assert.ErrorIs(t, err, msgerrors.ErrValidation)
		})
	}

	_, err := f.svc.Send(context.Background(), ann, &models.SendMessageRequest{
		ReceiverID: uuid.Must(uuid.NewV4()).String(), Content: "x",
	})
	assert.ErrorIs(t, err, msgerrors.ErrReceiverNotFound)

	view, err := f.svc.Send(context.Background(), ann, &models.SendMessageRequest{
		ReceiverID: bobID, MediaID: "m1", MessageType: models.TypeImage,
	})
	require.NoError(t, err)
	assert.Empty(t, view.Content)
	assert.Equal(t, "m1", view.MediaID)
	assert.Len(t, f.emitter.Events(realtime.EventNewMessage), 1)
}

func TestHistoryMarksIncomingRead(t *testing.T) {
	f := newFixture()
	ann, bob, cat := f.user("Ann"), f.user("Bob"), f.user("Cat")

	f.send(t, ann, bob, "one")
	f.send(t, bob, ann, "two")
	f.send(t, ann, bob, "three")
	f.send(t, cat, bob, "elsewhere")

	history, err := f.svc.History(context.Background(), bob.UserID.String(), ann.UserID.String())
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{history[0].Content, history[1].Content, history[2].Content})

	convs, err := f.svc.Conversations(context.Background(), bob.UserID.String())
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, cat.UserID.String(), convs[0].User.ID)
	assert.Equal(t, int64(1), convs[0].UnreadCount)
	assert.Equal(t, ann.UserID.String(), convs[1].User.ID)
	assert.Equal(t, "three", convs[1].LastMessage.Content)
	assert.Zero(t, convs[1].UnreadCount)

	// ann's own view still counts bob's reply as unread
	convs, err = f.svc.Conversations(context.Background(), ann.UserID.String())
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "Bob", convs[0].User.Name)
	assert.Equal(t, int64(1), convs[0].UnreadCount)
}

func TestDeleteForMe(t *testing.T) {
	f := newFixture()
	ann, bob := f.user("Ann"), f.user("Bob")
	annID, bobID := ann.UserID.String(), bob.UserID.String()
	msg := f.send(t, ann, bob, "oops")

	require.NoError(t, f.svc.Delete(context.Background(), bobID, msg.ID, models.DeleteForMe))
	history, err := f.svc.History(context.Background(), bobID, annID)
	require.NoError(t, err)
	assert.Empty(t, history)

	history, err = f.svc.History(context.Background(), annID, bobID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	err = f.svc.Delete(context.Background(), bobID, msg.ID, models.DeleteForMe)
	assert.ErrorIs(t, err, msgerrors.ErrMessageNotFound)

	// second party to delete removes the document
	require.NoError(t, f.svc.Delete(context.Background(), annID, msg.ID, ""))
	_, err = f.repo.FindByID(context.Background(), msg.ID)
	assert.ErrorIs(t, err, msgerrors.ErrMessageNotFound)
}

func TestDeleteForEveryone(t *testing.T) {
	f := newFixture()
	ann, bob := f.user("Ann"), f.user("Bob")
	annID, bobID := ann.UserID.String(), bob.UserID.String()
	msg := f.send(t, ann, bob, "unsend me")

	err := f.svc.Delete(context.Background(), bobID, msg.ID, models.DeleteForEveryone)
	assert.ErrorIs(t, err, msgerrors.ErrNotSender)

	err = f.svc.Delete(context.Background(), uuid.Must(uuid.NewV4()).String(), msg.ID, models.DeleteForEveryone)
	assert.ErrorIs(t, err, msgerrors.ErrMessageNotFound)

	err = f.svc.Delete(context.Background(), annID, msg.ID, "forever")
	assert.ErrorIs(t, err, msgerrors.ErrValidation)

	require.NoError(t, f.svc.Delete(context.Background(), annID, msg.ID, models.DeleteForEveryone))
	for _, pair := range [][2]string{{annID, bobID}, {bobID, annID}} {
		history, err := f.svc.History(context.Background(), pair[0], pair[1])
		require.NoError(t, err)
		assert.Empty(t, history)
	}

	deleted := f.emitter.Events(realtime.EventMessageDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, bobID, deleted[0].UserID)
}

func TestDeleteUnknownMessage(t *testing.T) {
	f := newFixture()
	err := f.svc.Delete(context.Background(), uuid.Must(uuid.NewV4()).String(), uuid.Must(uuid.NewV4()).String(), models.DeleteForMe)
	assert.ErrorIs(t, err, msgerrors.ErrMessageNotFound)
}
