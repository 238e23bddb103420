package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/testutil"
	mediamodels "github.com/limitedgamerz39-afk/friendflix/media/models"
	mediarepo "github.com/limitedgamerz39-afk/friendflix/media/repository"
	"github.com/limitedgamerz39-afk/friendflix/posts/models"
)

type mongoFixture struct {
	posts PostRepository
	media mediarepo.Repository
}

func newMongoFixture(t *testing.T) *mongoFixture {
	t.Helper()
	if !testutil.ShouldRunDatabaseTests() {
		t.Skip("set RUN_DB_TESTS=1 to run database tests")
	}
	client := testutil.NewMongoClient(t, Indexes(), mediarepo.Indexes())
	return &mongoFixture{
		posts: NewMongoPostRepository(client),
		media: mediarepo.NewMongoRepository(client),
	}
}

func (f *mongoFixture) seedMedia(t *testing.T, owner string, status mediamodels.UploadStatus) string {
	t.Helper()
	id := uuid.Must(uuid.NewV4()).String()
	require.NoError(t, f.media.Create(context.Background(), &mediamodels.Media{
		ID: id, OwnerID: owner, UploadStatus: status, TotalChunks: 1, CreatedAt: time.Now().UTC(),
	}))
	return id
}

func (f *mongoFixture) seedPost(t *testing.T, p models.Post) {
	t.Helper()
	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV4()).String()
	}
	if p.PostType == "" {
		p.PostType = models.PostTypePost
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	require.NoError(t, f.posts.Create(context.Background(), &p))
}

func captions(views []*models.PostView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Caption)
	}
	return out
}

func TestMongoFindValidDisplayability(t *testing.T) {
	f := newMongoFixture(t)
	owner := "owner"
	base := time.Now().UTC().Truncate(time.Millisecond)

	f.seedPost(t, models.Post{OwnerID: owner, Caption: "words only", CreatedAt: base})
	f.seedPost(t, models.Post{OwnerID: owner, Caption: "done", MediaID: f.seedMedia(t, owner, mediamodels.StatusCompleted), CreatedAt: base.Add(-time.Minute)})
	f.seedPost(t, models.Post{OwnerID: owner, Caption: "broken", MediaID: f.seedMedia(t, owner, mediamodels.StatusFailed), CreatedAt: base.Add(-2 * time.Minute)})
	f.seedPost(t, models.Post{OwnerID: owner, Caption: "archived", MediaID: f.seedMedia(t, owner, mediamodels.StatusFinalized), CreatedAt: base.Add(-3 * time.Minute)})
	f.seedPost(t, models.Post{OwnerID: owner, Caption: "dangling", MediaID: uuid.Must(uuid.NewV4()).String(), CreatedAt: base.Add(-4 * time.Minute)})
	f.seedPost(t, models.Post{
		OwnerID:   owner,
		Caption:   "album with a failed item",
		MediaIDs:  []string{f.seedMedia(t, owner, mediamodels.StatusCompleted), f.seedMedia(t, owner, mediamodels.StatusFailed)},
		CreatedAt: base.Add(-5 * time.Minute),
	})
	f.seedPost(t, models.Post{OwnerID: owner, MediaIDs: []string{}, CreatedAt: base.Add(-6 * time.Minute)})

	views, total, err := f.posts.FindValid(context.Background(), models.PostFilter{OwnerIDs: []string{owner}}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"words only", "done"}, captions(views))

	require.NotNil(t, views[1].Media)
	assert.Equal(t, mediamodels.StatusCompleted, views[1].Media.UploadStatus)
	assert.Nil(t, views[0].Media)
}

func TestMongoFindValidPages(t *testing.T) {
	f := newMongoFixture(t)
	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 1; i <= 25; i++ {
		f.seedPost(t, models.Post{
			OwnerID:   "owner",
			Caption:   fmt.Sprintf("post %d", i),
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}

	views, total, err := f.posts.FindValid(context.Background(), models.PostFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, views, 10)
	assert.Equal(t, "post 11", views[0].Caption)
	assert.Equal(t, "post 20", views[9].Caption)

	views, total, err = f.posts.FindValid(context.Background(), models.PostFilter{}, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Empty(t, views)
}

func TestMongoFindValidBreaksTimestampTies(t *testing.T) {
	f := newMongoFixture(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.seedPost(t, models.Post{ID: "post-a", OwnerID: "owner", Caption: "a", CreatedAt: at})
	f.seedPost(t, models.Post{ID: "post-b", OwnerID: "owner", Caption: "b", CreatedAt: at})

	first, _, err := f.posts.FindValid(context.Background(), models.PostFilter{}, 1, 1)
	require.NoError(t, err)
	second, _, err := f.posts.FindValid(context.Background(), models.PostFilter{}, 2, 1)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "post-b", first[0].ID)
	assert.Equal(t, "post-a", second[0].ID)
}
