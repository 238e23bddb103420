package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	profileerrors "github.com/limitedgamerz39-afk/friendflix/profile/errors"
	"github.com/limitedgamerz39-afk/friendflix/profile/models"
	"github.com/limitedgamerz39-afk/friendflix/profile/repository"
	"github.com/limitedgamerz39-afk/friendflix/profile/validation"
)

type Service struct {
	repo    repository.ProfileRepository
	counter GraphCounter
	// users whose profile is known to exist
	seen sync.Map
}

var _ ProfileService = (*Service)(nil)

// NewService builds the profile service. counter may be nil, in which case counts are zero.
func NewService(repo repository.ProfileRepository, counter GraphCounter) *Service {
	return &Service{repo: repo, counter: counter}
}

// SetGraphCounter wires the follows service after both are constructed.
func (s *Service) SetGraphCounter(counter GraphCounter) {
	s.counter = counter
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*models.ProfileResponse, error) {
	p, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, p)
}

func (s *Service) GetProfileBySocialName(ctx context.Context, socialName string) (*models.ProfileResponse, error) {
	p, err := s.repo.FindBySocialName(ctx, socialName)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, p)
}

func (s *Service) withCounts(ctx context.Context, p *models.Profile) (*models.ProfileResponse, error) {
	resp := &models.ProfileResponse{Profile: p}
	if s.counter == nil {
		return resp, nil
	}
	followers, following, err := s.counter.Counts(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	resp.FollowersCount = followers
	resp.FollowingCount = following
	return resp, nil
}

func (s *Service) UpdateProfile(ctx context.Context, user types.UserContext, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if err := validation.ValidateUpdateProfileRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", profileerrors.ErrInvalidProfileData, err)
	}

	set := map[string]interface{}{}
	if req.FullName != nil {
		set["fullName"] = *req.FullName
	}
	if req.SocialName != nil {
		set["socialName"] = *req.SocialName
	}
	if req.Avatar != nil {
		set["avatar"] = *req.Avatar
	}
	if req.Banner != nil {
		set["banner"] = *req.Banner
	}
	if req.TagLine != nil {
		set["tagLine"] = *req.TagLine
	}

	userID := user.UserID.String()
	p, err := s.repo.Upsert(ctx, userID, set, seedFromClaims(user))
	if err != nil {
		return nil, err
	}
	s.seen.Store(userID, struct{}{})
	return p, nil
}

func (s *Service) EnsureProfile(ctx context.Context, user types.UserContext) error {
	userID := user.UserID.String()
	if _, ok := s.seen.Load(userID); ok {
		return nil
	}
	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		seed := seedFromClaims(user)
		_, err = s.repo.Upsert(ctx, userID, nil, seed)
		if errors.Is(err, profileerrors.ErrSocialNameTaken) {
			log.WarnWithContext(ctx, "social name %q already taken, creating profile %s without it", seed.SocialName, userID)
			seed.SocialName = ""
			_, err = s.repo.Upsert(ctx, userID, nil, seed)
		}
		if err != nil {
			return err
		}
	}
	s.seen.Store(userID, struct{}{})
	return nil
}

func (s *Service) Exists(ctx context.Context, userID string) (bool, error) {
	if _, ok := s.seen.Load(userID); ok {
		return true, nil
	}
	return s.repo.Exists(ctx, userID)
}

func (s *Service) GetSummaries(ctx context.Context, userIDs []string) (map[string]models.Summary, error) {
	profiles, err := s.repo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Summary, len(profiles))
	for _, p := range profiles {
		out[p.ID] = p.Summary()
	}
	return out, nil
}

func seedFromClaims(user types.UserContext) *models.Profile {
	social := user.SocialName
	if social == "" {
		social = user.Username
	}
	if validation.ValidateSocialName(social) != nil {
		social = ""
	}
	return &models.Profile{
		FullName:   user.DisplayName,
		SocialName: social,
		Avatar:     user.Avatar,
		Banner:     user.Banner,
		TagLine:    user.TagLine,
	}
}
