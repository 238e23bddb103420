package follows

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/follows/handlers"
	"github.com/limitedgamerz39-afk/friendflix/follows/models"
	"github.com/limitedgamerz39-afk/friendflix/follows/repository"
	"github.com/limitedgamerz39-afk/friendflix/follows/services"
	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/testutil"
)

func setupApp(t *testing.T) (*testutil.HTTPHelper, testutil.Auth) {
	t.Helper()
	auth := testutil.NewAuth(t, nil)
	svc := services.NewService(services.Dependencies{Repo: repository.NewMemoryRepository()})

	app := testutil.NewApp(auth.Config)
	RegisterRoutes(app, &Handlers{FollowHandler: handlers.NewFollowHandler(svc)}, auth.Config)
	return testutil.NewHTTPHelper(t, app), auth
}

func TestFollowFlowOverHTTP(t *testing.T) {
	helper, auth := setupApp(t)
	me := uuid.Must(uuid.NewV4()).String()
	target := uuid.Must(uuid.NewV4()).String()
	token := auth.Token(t, me)

	resp := helper.NewRequest(http.MethodPost, "/follows/"+target, nil).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = helper.NewRequest(http.MethodPost, "/follows/"+target, nil).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var dup map[string]interface{}
	testutil.DecodeJSON(t, resp, &dup)
	assert.Equal(t, "ALREADY_FOLLOWING", dup["code"])

	resp = helper.NewRequest(http.MethodGet, "/follows/"+target+"/status", nil).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status models.StatusResponse
	testutil.DecodeJSON(t, resp, &status)
	assert.True(t, status.IsFollowing)

	resp = helper.NewRequest(http.MethodGet, "/follows/"+target+"/followers/count", nil).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var count models.CountResponse
	testutil.DecodeJSON(t, resp, &count)
	assert.Equal(t, int64(1), count.Count)

	resp = helper.NewRequest(http.MethodGet, "/follows/"+target+"/followers?page=1&limit=5", nil).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var followers models.FollowersPage
	testutil.DecodeJSON(t, resp, &followers)
	require.Len(t, followers.Followers, 1)
	assert.Equal(t, me, followers.Followers[0].User.ID)
	assert.Equal(t, int64(1), followers.Total)

	for i, want := range []bool{true, false} {
		resp = helper.NewRequest(http.MethodDelete, "/follows/"+target, nil).WithJWTAuth(token).Send()
		require.Equal(t, http.StatusOK, resp.StatusCode, "unfollow %d", i)
		var body map[string]interface{}
		testutil.DecodeJSON(t, resp, &body)
		assert.Equal(t, want, body["unfollowed"])
	}
}

func TestFollowSelfOverHTTP(t *testing.T) {
	helper, auth := setupApp(t)
	me := uuid.Must(uuid.NewV4()).String()

	resp := helper.NewRequest(http.MethodPost, "/follows/"+me, nil).WithJWTAuth(auth.Token(t, me)).Send()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFollowRoutesGuards(t *testing.T) {
	helper, auth := setupApp(t)

	resp := helper.NewRequest(http.MethodGet, "/follows/"+uuid.Must(uuid.NewV4()).String()+"/followers", nil).Send()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := auth.Token(t, uuid.Must(uuid.NewV4()).String())
	resp = helper.NewRequest(http.MethodPost, "/follows/nope", nil).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowKeepsEachTargetID(t *testing.T) {
	auth := testutil.NewAuth(t, nil)
	repo := repository.NewMemoryRepository()
	pub := &events.MemoryPublisher{}
	svc := services.NewService(services.Dependencies{Repo: repo, Events: pub})
	app := testutil.NewApp(auth.Config)
	RegisterRoutes(app, &Handlers{FollowHandler: handlers.NewFollowHandler(svc)}, auth.Config)
	helper := testutil.NewHTTPHelper(t, app)

	me := uuid.Must(uuid.NewV4()).String()
	token := auth.Token(t, me)
	first := uuid.Must(uuid.NewV4()).String()
	second := uuid.Must(uuid.NewV4()).String()

	for _, target := range []string{first, second} {
		resp := helper.NewRequest(http.MethodPost, "/follows/"+target, nil).WithJWTAuth(token).Send()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	require.Eventually(t, func() bool {
		return len(pub.OfType(events.UserFollowed)) == 2
	}, time.Second, 10*time.Millisecond)
	keys := map[string]bool{}
	for _, evt := range pub.OfType(events.UserFollowed) {
		keys[evt.Key] = true
		assert.Equal(t, evt.Key, evt.Data["followingId"])
	}
	assert.Equal(t, map[string]bool{first: true, second: true}, keys)

	following, err := repo.FollowingIDs(context.Background(), me)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first, second}, following)
}
