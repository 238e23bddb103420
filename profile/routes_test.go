package profile

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/testutil"
	"github.com/limitedgamerz39-afk/friendflix/profile/models"
	"github.com/limitedgamerz39-afk/friendflix/profile/repository"
	"github.com/limitedgamerz39-afk/friendflix/profile/services"
)

func setupApp(t *testing.T) (*testutil.HTTPHelper, testutil.Auth, *repository.MemoryProfileRepository) {
	t.Helper()
	auth := testutil.NewAuth(t, nil)
	repo := repository.NewMemoryProfileRepository()
	svc := services.NewService(repo, nil)

	app := testutil.NewApp(auth.Config)
	app.Use(authjwt.Soft(authjwt.Config{PublicKey: auth.Config.JWT.PublicKey}), EnsureMiddleware(svc))
	RegisterRoutes(app, &ProfileHandlers{ProfileHandler: NewProfileHandler(svc)}, auth.Config)
	return testutil.NewHTTPHelper(t, app), auth, repo
}

func TestProfileRoutes(t *testing.T) {
	helper, auth, repo := setupApp(t)
	uid := uuid.Must(uuid.NewV4()).String()
	token := auth.Token(t, uid)

	resp := helper.NewRequest(http.MethodGet, "/profile/"+uid, nil).Send()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = helper.NewRequest(http.MethodGet, "/profile/my", nil).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine models.ProfileResponse
	testutil.DecodeJSON(t, resp, &mine)
	assert.Equal(t, uid, mine.ID)
	assert.Equal(t, "Test User", mine.FullName)

	resp = helper.NewRequest(http.MethodPut, "/profile", map[string]interface{}{
		"tagLine": "making films",
	}).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p, err := repo.FindByID(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "making films", p.TagLine)

	resp = helper.NewRequest(http.MethodPut, "/profile", map[string]interface{}{
		"avatar": "nope",
	}).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = helper.NewRequest(http.MethodGet, "/profile/"+uid, nil).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = helper.NewRequest(http.MethodGet, "/profile/social/testuser", nil).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = helper.NewRequest(http.MethodGet, "/profile/"+uuid.Must(uuid.NewV4()).String(), nil).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = helper.NewRequest(http.MethodGet, "/profile/not-a-uuid", nil).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEnsureMiddlewareCreatesProfile(t *testing.T) {
	helper, auth, repo := setupApp(t)
	uid := uuid.Must(uuid.NewV4()).String()

	resp := helper.NewRequest(http.MethodGet, "/profile/"+uid, nil).WithJWTAuth(auth.Token(t, uid)).Send()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ok, err := repo.Exists(context.Background(), uid)
	require.NoError(t, err)
	assert.True(t, ok)
}
