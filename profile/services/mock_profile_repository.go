package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/limitedgamerz39-afk/friendflix/profile/models"
	"github.com/limitedgamerz39-afk/friendflix/profile/repository"
)

// MockProfileRepository is a mock implementation of the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

var _ repository.ProfileRepository = (*MockProfileRepository)(nil)

func (m *MockProfileRepository) FindByID(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindBySocialName(ctx context.Context, socialName string) (*models.Profile, error) {
	args := m.Called(ctx, socialName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByIDs(ctx context.Context, userIDs []string) ([]*models.Profile, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Exists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, userID string, set map[string]interface{}, seed *models.Profile) (*models.Profile, error) {
	args := m.Called(ctx, userID, set, seed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}
