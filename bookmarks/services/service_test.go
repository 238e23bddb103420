package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bookmarkerrors "github.com/limitedgamerz39-afk/friendflix/bookmarks/errors"
	"github.com/limitedgamerz39-afk/friendflix/bookmarks/models"
	posterrors "github.com/limitedgamerz39-afk/friendflix/posts/errors"
	postmodels "github.com/limitedgamerz39-afk/friendflix/posts/models"
)

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) GetPost(ctx context.Context, postID string) (*postmodels.PostView, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postmodels.PostView), args.Error(1)
}

func (m *MockPostService) GetPostsByIDs(ctx context.Context, ids []string) ([]*postmodels.PostView, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*postmodels.PostView), args.Error(1)
}

func postView(id string) *postmodels.PostView {
	return &postmodels.PostView{Post: postmodels.Post{ID: id}}
}

func TestToggleBookmark(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4()).String()
	postID := uuid.Must(uuid.NewV4()).String()

	t.Run("creates bookmark when absent", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockPosts := new(MockPostService)
		mockRepo.On("AddBookmark", ctx, userID, postID).Return(true, nil).Once()
		mockPosts.On("GetPost", ctx, postID).Return(postView(postID), nil).Once()

		svc := NewService(mockRepo, mockPosts)
		state, err := svc.ToggleBookmark(ctx, userID, postID)

		require.NoError(t, err)
		require.True(t, state)
		mockRepo.AssertExpectations(t)
		mockPosts.AssertExpectations(t)
	})

	t.Run("removes bookmark when present", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("AddBookmark", ctx, userID, postID).Return(false, nil).Once()
		mockRepo.On("RemoveBookmark", ctx, userID, postID).Return(true, nil).Once()

		svc := NewService(mockRepo, new(MockPostService))
		state, err := svc.ToggleBookmark(ctx, userID, postID)

		require.NoError(t, err)
		require.False(t, state)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rolls back when the post is gone", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockPosts := new(MockPostService)
		mockRepo.On("AddBookmark", ctx, userID, postID).Return(true, nil).Once()
		mockRepo.On("RemoveBookmark", ctx, userID, postID).Return(true, nil).Once()
		mockPosts.On("GetPost", ctx, postID).Return(nil, posterrors.ErrPostNotFound).Once()

		svc := NewService(mockRepo, mockPosts)
		_, err := svc.ToggleBookmark(ctx, userID, postID)

		require.ErrorIs(t, err, bookmarkerrors.ErrPostNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("propagates add errors", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("AddBookmark", ctx, userID, postID).Return(false, errors.New("db down")).Once()

		svc := NewService(mockRepo, nil)
		_, err := svc.ToggleBookmark(ctx, userID, postID)

		require.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestListBookmarks(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4()).String()
	kept, deleted := uuid.Must(uuid.NewV4()).String(), uuid.Must(uuid.NewV4()).String()
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mockRepo := new(MockRepository)
	mockPostSvc := new(MockPostService)

	entries := []models.Bookmark{{UserID: userID, PostID: deleted, CreatedAt: at}, {UserID: userID, PostID: kept, CreatedAt: at}}
	mockRepo.On("FindMyBookmarks", ctx, userID, 2, 2).Return(entries, int64(4), nil).Once()
	mockPostSvc.On("GetPostsByIDs", ctx, []string{deleted, kept}).Return([]*postmodels.PostView{postView(kept)}, nil).Once()

	svc := NewService(mockRepo, mockPostSvc)
	resp, err := svc.ListBookmarks(ctx, userID, 2, 2)

	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, kept, resp.Posts[0].ID)
	assert.True(t, resp.Posts[0].IsBookmarked)
	assert.Equal(t, at, resp.Posts[0].BookmarkedAt)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, int64(4), resp.Total)
	mockRepo.AssertExpectations(t)
	mockPostSvc.AssertExpectations(t)
}

func TestListBookmarksClampsLimit(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	mockRepo.On("FindMyBookmarks", ctx, "u", 1, MaxPageLimit).Return([]models.Bookmark{}, int64(0), nil).Once()

	resp, err := NewService(mockRepo, new(MockPostService)).ListBookmarks(ctx, "u", 0, 1000)
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
	mockRepo.AssertExpectations(t)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	mockRepo.On("GetMapByUserAndPosts", ctx, "u", []string{"a", "b"}).Return(map[string]bool{"b": true}, nil).Once()

	svc := NewService(mockRepo, nil)
	got, err := svc.Status(ctx, "u", []string{"a", " ", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a": false, "b": true}, got)

	many := make([]string, 101)
	for i := range many {
		many[i] = uuid.Must(uuid.NewV4()).String()
	}
	_, err = svc.Status(ctx, "u", many)
	assert.ErrorIs(t, err, bookmarkerrors.ErrInvalidRequest)
}
