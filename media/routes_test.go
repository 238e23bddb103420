package media

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/testutil"
	"github.com/limitedgamerz39-afk/friendflix/media/handlers"
	"github.com/limitedgamerz39-afk/friendflix/media/models"
	"github.com/limitedgamerz39-afk/friendflix/media/repository"
	"github.com/limitedgamerz39-afk/friendflix/media/services"
	"github.com/limitedgamerz39-afk/friendflix/storage/provider"
)

type testEnv struct {
	helper *testutil.HTTPHelper
	auth   testutil.Auth
	repo   *repository.MemoryRepository
	svc    services.Service
}

func setupApp(t *testing.T, withStorage bool) *testEnv {
	t.Helper()
	auth := testutil.NewAuth(t, nil)

	var storage provider.BlobProvider
	if withStorage {
		storage = provider.NewMemoryProvider("friendflix-media", "http://localhost:9000")
	}
	repo := repository.NewMemoryRepository()
	svc := services.NewService(services.Dependencies{
		Repo:    repo,
		Storage: storage,
		Upload:  auth.Config.Upload,
	})

	app := testutil.NewApp(auth.Config)
	RegisterRoutes(app, &Handlers{MediaHandler: handlers.NewMediaHandler(svc)}, auth.Config)

	return &testEnv{helper: testutil.NewHTTPHelper(t, app), auth: auth, repo: repo, svc: svc}
}

func TestRoutesRequireAuth(t *testing.T) {
	env := setupApp(t, true)
	resp := env.helper.NewRequest(http.MethodPost, "/media/initialize", map[string]interface{}{}).Send()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUploadFlowOverHTTP(t *testing.T) {
	env := setupApp(t, true)
	uid := uuid.Must(uuid.NewV4()).String()
	token := env.auth.Token(t, uid)

	resp := env.helper.NewRequest(http.MethodPost, "/media/initialize", map[string]interface{}{
		"filename":   "photo.jpg",
		"size":       6 * 1024 * 1024,
		"mimeType":   "image/jpeg",
		"uploadType": "post",
	}).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var init models.InitializeUploadResponse
	testutil.DecodeJSON(t, resp, &init)
	require.Equal(t, 2, init.TotalChunks)

	resp = env.helper.NewRequest(http.MethodPost, "/media/finalize", map[string]interface{}{
		"mediaId": init.MediaID,
	}).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var incomplete map[string]interface{}
	testutil.DecodeJSON(t, resp, &incomplete)
	assert.Equal(t, "INCOMPLETE_UPLOAD", incomplete["code"])
	assert.Equal(t, float64(0), incomplete["uploadedChunks"])
	assert.Equal(t, float64(2), incomplete["totalChunks"])

	for i := 0; i < init.TotalChunks; i++ {
		resp = env.helper.NewRequest(http.MethodPost, "/media/chunk", map[string]interface{}{
			"mediaId": init.MediaID, "chunkNumber": i, "etag": "\"abc\"",
		}).WithJWTAuth(token).Send()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp = env.helper.NewRequest(http.MethodGet, "/media/status/"+init.MediaID, nil).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status struct {
		Media models.UploadStatusResponse `json:"media"`
	}
	testutil.DecodeJSON(t, resp, &status)
	assert.Equal(t, 100, status.Media.Progress)

	resp = env.helper.NewRequest(http.MethodPost, "/media/finalize", map[string]interface{}{
		"mediaId": init.MediaID,
		"caption": "sunset",
		"title":   "Evening",
	}).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var final models.FinalizeUploadResponse
	testutil.DecodeJSON(t, resp, &final)
	assert.Equal(t, models.StatusCompleted, final.Media.Status)
	assert.NotEmpty(t, final.Media.URL)

	m, err := env.repo.FindOwned(context.Background(), init.MediaID, uid)
	require.NoError(t, err)
	assert.Equal(t, "Evening", m.Metadata["title"])

	resp = env.helper.NewRequest(http.MethodPost, "/media/finalize", map[string]interface{}{
		"mediaId": init.MediaID,
	}).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestInitializeTooLarge(t *testing.T) {
	env := setupApp(t, true)
	token := env.auth.Token(t, uuid.Must(uuid.NewV4()).String())

	resp := env.helper.NewRequest(http.MethodPost, "/media/initialize", map[string]interface{}{
		"filename": "big.jpg", "size": 50*1024*1024 + 1, "mimeType": "image/jpeg", "uploadType": "post",
	}).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]interface{}
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, "File size too large. Maximum 50MB allowed for post", body["message"])
}

func TestInitializeWithoutStorage(t *testing.T) {
	env := setupApp(t, false)
	token := env.auth.Token(t, uuid.Must(uuid.NewV4()).String())

	resp := env.helper.NewRequest(http.MethodPost, "/media/initialize", map[string]interface{}{
		"filename": "a.jpg", "size": 10, "mimeType": "image/jpeg",
	}).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestForeignMediaIsNotFound(t *testing.T) {
	env := setupApp(t, true)
	owner := uuid.Must(uuid.NewV4()).String()
	env.repo.Put(&models.Media{
		ID: uuid.Must(uuid.NewV4()).String(), OwnerID: owner, TotalChunks: 1,
		UploadStatus: models.StatusPending, CreatedAt: time.Now(),
	})
	list, err := env.svc.ListUserMedia(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 1)

	token := env.auth.Token(t, uuid.Must(uuid.NewV4()).String())
	resp := env.helper.NewRequest(http.MethodDelete, "/media/"+list[0].ID, nil).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.helper.NewRequest(http.MethodGet, "/media/status/not-a-uuid", nil).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.helper.NewRequest(http.MethodGet, "/media/user/"+owner, nil).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Media []models.Media `json:"media"`
	}
	testutil.DecodeJSON(t, resp, &body)
	assert.Len(t, body.Media, 1)
}

func TestFailedUploadConflictsOverHTTP(t *testing.T) {
	env := setupApp(t, true)
	uid := uuid.Must(uuid.NewV4()).String()
	token := env.auth.Token(t, uid)
	mediaID := uuid.Must(uuid.NewV4()).String()
	env.repo.Put(&models.Media{
		ID: mediaID, OwnerID: uid, Filename: "a.jpg", MimeType: "image/jpeg",
		TotalChunks: 1, Chunks: []models.Chunk{{ChunkNumber: 0, ETag: "e"}},
		UploadStatus: models.StatusFailed, CreatedAt: time.Now(),
	})

	resp := env.helper.NewRequest(http.MethodPost, "/media/chunk", map[string]interface{}{
		"mediaId": mediaID, "chunkNumber": 0, "etag": "retry",
	}).WithJWTAuth(token).Send()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body map[string]interface{}
	testutil.DecodeJSON(t, resp, &body)
	assert.Equal(t, "UPLOAD_FAILED", body["code"])

	resp = env.helper.NewRequest(http.MethodPost, "/media/finalize", map[string]interface{}{
		"mediaId": mediaID,
	}).WithJWTAuth(token).Send()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
