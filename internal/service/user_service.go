package service

import (
	"context"
	"strings"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/security"
	"warbler/internal/validation"
)

// Profile is a user together with the numbers shown on their page.
type Profile struct {
	User           *models.User     `json:"user"`
	Messages       []models.Message `json:"messages"`
	MessageCount   int64            `json:"message_count"`
	FollowerCount  int64            `json:"follower_count"`
	FollowingCount int64            `json:"following_count"`
	LikeCount      int64            `json:"like_count"`
}

// UpdateProfileInput carries an edit of the caller's own profile. Password is
// the current password and is required.
type UpdateProfileInput struct {
	UserID         uint    `json:"-"`
	Username       string  `json:"username" validate:"required,max=64,username"`
	Email          string  `json:"email" validate:"required,email,max=254"`
	ImageURL       string  `json:"image_url" validate:"omitempty,max=512"`
	HeaderImageURL string  `json:"header_image_url" validate:"omitempty,max=512"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
	Password       string  `json:"password"`
}

// UserService provides user and profile business logic.
type UserService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository
	hasher      security.PasswordHasher
}

// NewUserService returns a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	hasher security.PasswordHasher,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
		hasher:      hasher,
	}
}

// ListUsers returns users ordered by id.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// SearchUsers matches a username substring. A blank query lists everyone.
func (s *UserService) SearchUsers(ctx context.Context, q string, limit, offset int) ([]models.User, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.userRepo.List(ctx, limit, offset)
	}
	return s.userRepo.Search(ctx, q, limit, offset)
}

// GetUserByID returns a user without their password hash.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile loads a user with their newest messages and relationship counts.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByUser(ctx, id, DefaultProfileMessages)
	if err != nil {
		return nil, err
	}
	profile := &Profile{User: user, Messages: messages}

	if profile.MessageCount, err = s.messageRepo.CountByUser(ctx, id); err != nil {
		return nil, err
	}
	if profile.FollowerCount, err = s.followRepo.CountFollowers(ctx, id); err != nil {
		return nil, err
	}
	if profile.FollowingCount, err = s.followRepo.CountFollowing(ctx, id); err != nil {
		return nil, err
	}
	if profile.LikeCount, err = s.likeRepo.CountByUser(ctx, id); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile checks the current password and stages the edit. Blank image
// fields reset to the defaults. A username or email already in use fails the
// commit with INTEGRITY_ERROR.
func (s *UserService) UpdateProfile(ctx context.Context, uow Stager, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetWithPassword(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.Password == "" || !s.hasher.Compare(user.Password, in.Password) {
		return nil, models.NewUnauthorizedError("Invalid password.")
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user.Username = in.Username
	user.Email = in.Email
	user.ImageURL = strings.TrimSpace(in.ImageURL)
	user.HeaderImageURL = strings.TrimSpace(in.HeaderImageURL)
	user.Bio = in.Bio
	user.Location = in.Location
	user.ApplyImageDefaults()

	uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Users.Update(ctx, user)
	})
	return user, nil
}

// DeleteUser stages removal of the account and everything that references it.
func (s *UserService) DeleteUser(ctx context.Context, uow Stager, id uint) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Users.Delete(ctx, id)
	})
	return nil
}
