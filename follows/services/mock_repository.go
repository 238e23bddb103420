package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/limitedgamerz39-afk/friendflix/follows/models"
	"github.com/limitedgamerz39-afk/friendflix/follows/repository"
)

// MockRepository is a test double for the follow repository.
type MockRepository struct {
	mock.Mock
}

var _ repository.Repository = (*MockRepository)(nil)

func (m *MockRepository) Create(ctx context.Context, f *models.Follow) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListFollowers(ctx context.Context, userID string, page, limit int) ([]*models.Follow, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]*models.Follow), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListFollowing(ctx context.Context, userID string, page, limit int) ([]*models.Follow, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]*models.Follow), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
