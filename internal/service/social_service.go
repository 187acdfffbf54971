package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
)

// SocialService manages follows and likes.
type SocialService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository
}

// NewSocialService returns a new SocialService.
func NewSocialService(
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
) *SocialService {
	return &SocialService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
	}
}

// Follow stages the edge followerID -> followedID. Following twice is a no-op.
func (s *SocialService) Follow(ctx context.Context, uow Stager, followerID, followedID uint) error {
	if followerID == followedID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followerID); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}

	uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Follows.Create(ctx, followerID, followedID)
	})
	return nil
}

// Unfollow stages removal of the edge followerID -> followedID.
func (s *SocialService) Unfollow(_ context.Context, uow Stager, followerID, followedID uint) error {
	uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Follows.Delete(ctx, followerID, followedID)
	})
	return nil
}

// IsFollowing reports whether a follows b.
func (s *SocialService) IsFollowing(ctx context.Context, a, b uint) (bool, error) {
	return s.followRepo.Exists(ctx, a, b)
}

// IsFollowedBy reports whether b follows a.
func (s *SocialService) IsFollowedBy(ctx context.Context, a, b uint) (bool, error) {
	return s.followRepo.Exists(ctx, b, a)
}

// Followers returns the users following userID.
func (s *SocialService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID)
}

// Following returns the users userID follows.
func (s *SocialService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID)
}

// Like stages a like of messageID by userID. Authors may like their own messages.
func (s *SocialService) Like(ctx context.Context, uow Stager, userID, messageID uint) error {
	if _, err := s.messageRepo.GetByID(ctx, messageID); err != nil {
		return err
	}
	uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Likes.Create(ctx, userID, messageID)
	})
	return nil
}

// Unlike stages removal of userID's like on messageID.
func (s *SocialService) Unlike(_ context.Context, uow Stager, userID, messageID uint) error {
	uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Likes.Delete(ctx, userID, messageID)
	})
	return nil
}

// ToggleLike likes the message when userID has not liked it yet and unlikes it
// otherwise. liked reports the state after commit.
func (s *SocialService) ToggleLike(ctx context.Context, uow Stager, userID, messageID uint) (liked bool, err error) {
	if _, err := s.messageRepo.GetByID(ctx, messageID); err != nil {
		return false, err
	}
	exists, err := s.likeRepo.Exists(ctx, userID, messageID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, s.Unlike(ctx, uow, userID, messageID)
	}
	uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Likes.Create(ctx, userID, messageID)
	})
	return true, nil
}

// Likes returns the messages userID liked, newest first.
func (s *SocialService) Likes(ctx context.Context, userID uint) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.likeRepo.LikedMessages(ctx, userID)
}
