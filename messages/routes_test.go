package messages

import (
	"net/http"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/testutil"
	"github.com/limitedgamerz39-afk/friendflix/messages/handlers"
	"github.com/limitedgamerz39-afk/friendflix/messages/models"
	"github.com/limitedgamerz39-afk/friendflix/messages/repository"
	"github.com/limitedgamerz39-afk/friendflix/messages/services"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
	profilerepo "github.com/limitedgamerz39-afk/friendflix/profile/repository"
	profileservices "github.com/limitedgamerz39-afk/friendflix/profile/services"
)

type testEnv struct {
	helper   *testutil.HTTPHelper
	auth     testutil.Auth
	profiles *profilerepo.MemoryProfileRepository
}

func setupApp(t *testing.T) *testEnv {
	t.Helper()
	auth := testutil.NewAuth(t, nil)
	profiles := profilerepo.NewMemoryProfileRepository()
	svc := services.NewService(services.Dependencies{
		Repo:     repository.NewMemoryRepository(),
		Profiles: profileservices.NewService(profiles, nil),
	})

	app := testutil.NewApp(auth.Config)
	RegisterRoutes(app, &Handlers{MessageHandler: handlers.NewMessageHandler(svc)}, auth.Config)
	return &testEnv{helper: testutil.NewHTTPHelper(t, app), auth: auth, profiles: profiles}
}

func (e *testEnv) newUser(name string) string {
	id := uuid.Must(uuid.NewV4()).String()
	e.profiles.Put(profilemodels.Profile{ID: id, FullName: name, SocialName: name})
	return id
}

func TestMessageRoutesRequireAuth(t *testing.T) {
	env := setupApp(t)
	resp := env.helper.NewRequest(http.MethodGet, "/messages/conversations", nil).Send()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMessageFlowOverHTTP(t *testing.T) {
	env := setupApp(t)
	ann, bob := env.newUser("ann"), env.newUser("bob")
	annToken, bobToken := env.auth.Token(t, ann), env.auth.Token(t, bob)

	resp := env.helper.NewRequest(http.MethodPost, "/messages", map[string]interface{}{
		"receiverId": uuid.Must(uuid.NewV4()).String(),
		"content":    "anyone there?",
	}).WithJWTAuth(annToken).Send()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var missing map[string]interface{}
	testutil.DecodeJSON(t, resp, &missing)
	assert.Equal(t, "RECEIVER_NOT_FOUND", missing["code"])

	resp = env.helper.NewRequest(http.MethodPost, "/messages", map[string]interface{}{
		"receiverId": bob,
		"content":    "hi bob",
	}).WithJWTAuth(annToken).Send()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sent models.MessageView
	testutil.DecodeJSON(t, resp, &sent)
	assert.Equal(t, ann, sent.SenderID)
	assert.Equal(t, "hi bob", sent.Content)

	resp = env.helper.NewRequest(http.MethodGet, "/messages/conversations", nil).WithJWTAuth(bobToken).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var convs []models.Conversation
	testutil.DecodeJSON(t, resp, &convs)
	require.Len(t, convs, 1)
	assert.Equal(t, "ann", convs[0].User.Username)
	assert.Equal(t, int64(1), convs[0].UnreadCount)

	resp = env.helper.NewRequest(http.MethodGet, "/messages/"+ann, nil).WithJWTAuth(bobToken).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []models.MessageView
	testutil.DecodeJSON(t, resp, &history)
	require.Len(t, history, 1)

	resp = env.helper.NewRequest(http.MethodDelete, "/messages/"+sent.ID+"?scope=everyone", nil).WithJWTAuth(bobToken).Send()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.helper.NewRequest(http.MethodDelete, "/messages/"+sent.ID+"?scope=everyone", nil).WithJWTAuth(annToken).Send()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.helper.NewRequest(http.MethodGet, "/messages/"+ann, nil).WithJWTAuth(bobToken).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history = nil
	testutil.DecodeJSON(t, resp, &history)
	assert.Empty(t, history)
}

func TestMessageRoutesRejectMalformedIDs(t *testing.T) {
	env := setupApp(t)
	token := env.auth.Token(t, env.newUser("ann"))

	resp := env.helper.NewRequest(http.MethodGet, "/messages/not-a-uuid", nil).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.helper.NewRequest(http.MethodDelete, "/messages/not-a-uuid", nil).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
