package stories

import (
	"net/http"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/testutil"
	"github.com/limitedgamerz39-afk/friendflix/storage/provider"
	"github.com/limitedgamerz39-afk/friendflix/stories/handlers"
	"github.com/limitedgamerz39-afk/friendflix/stories/models"
	"github.com/limitedgamerz39-afk/friendflix/stories/repository"
	"github.com/limitedgamerz39-afk/friendflix/stories/services"
)

func setupApp(t *testing.T) (*testutil.HTTPHelper, testutil.Auth) {
	t.Helper()
	auth := testutil.NewAuth(t, nil)
	svc := services.NewService(services.Dependencies{
		Repo:    repository.NewMemoryRepository(),
		Storage: provider.NewMemoryProvider("friendflix-media", "http://localhost:9000"),
		MaxSize: auth.Config.Upload.MaxStorySize,
	})

	app := testutil.NewApp(auth.Config)
	RegisterRoutes(app, &Handlers{StoryHandler: handlers.NewStoryHandler(svc)}, auth.Config)
	return testutil.NewHTTPHelper(t, app), auth
}

func TestStoryRoutesRequireAuth(t *testing.T) {
	helper, _ := setupApp(t)
	resp := helper.NewRequest(http.MethodGet, "/stories", nil).Send()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStoryFlowOverHTTP(t *testing.T) {
	helper, auth := setupApp(t)
	owner := uuid.Must(uuid.NewV4()).String()
	viewer := uuid.Must(uuid.NewV4()).String()
	ownerToken, viewerToken := auth.Token(t, owner), auth.Token(t, viewer)

	resp := helper.NewRequest(http.MethodPost, "/stories", nil).
		AsMultipartForm(map[string]string{"caption": "no file"}, nil).
		WithJWTAuth(ownerToken).Send()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = helper.NewRequest(http.MethodPost, "/stories", nil).
		AsMultipartForm(map[string]string{"caption": "sunset"}, map[string]testutil.File{
			handlers.FormField: {Name: "clip.mp4", ContentType: "video/mp4", Data: []byte("frames")},
		}).
		WithJWTAuth(ownerToken).Send()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.StoryView
	testutil.DecodeJSON(t, resp, &created)
	assert.Equal(t, owner, created.OwnerID)
	assert.Equal(t, "sunset", created.Caption)
	assert.Equal(t, models.MediaVideo, created.MediaType)

	resp = helper.NewRequest(http.MethodGet, "/stories/user/"+owner, nil).WithJWTAuth(viewerToken).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []models.StoryView
	testutil.DecodeJSON(t, resp, &listed)
	require.Len(t, listed, 1)

	resp = helper.NewRequest(http.MethodPost, "/stories/"+created.ID+"/view", nil).WithJWTAuth(viewerToken).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = helper.NewRequest(http.MethodGet, "/stories/"+created.ID+"/viewers", nil).WithJWTAuth(ownerToken).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var viewers []models.ViewerView
	testutil.DecodeJSON(t, resp, &viewers)
	require.Len(t, viewers, 1)
	assert.Equal(t, viewer, viewers[0].User.ID)

	resp = helper.NewRequest(http.MethodDelete, "/stories/"+created.ID, nil).WithJWTAuth(viewerToken).Send()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = helper.NewRequest(http.MethodDelete, "/stories/"+created.ID, nil).WithJWTAuth(ownerToken).Send()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = helper.NewRequest(http.MethodPost, "/stories/not-a-uuid/view", nil).WithJWTAuth(viewerToken).Send()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
