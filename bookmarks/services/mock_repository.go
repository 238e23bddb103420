package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/limitedgamerz39-afk/friendflix/bookmarks/models"
	"github.com/limitedgamerz39-afk/friendflix/bookmarks/repository"
)

// MockRepository is a test double for the bookmark repository.
type MockRepository struct {
	mock.Mock
}

var _ repository.Repository = (*MockRepository)(nil)

func (m *MockRepository) AddBookmark(ctx context.Context, userID, postID string) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) RemoveBookmark(ctx context.Context, userID, postID string) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetMapByUserAndPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, userID, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockRepository) FindMyBookmarks(ctx context.Context, userID string, page, limit int) ([]models.Bookmark, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]models.Bookmark), args.Get(1).(int64), args.Error(2)
}
