package service

import (
	"context"
	"strings"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/security"
	"warbler/internal/validation"
)

// SignupInput carries the fields of a new account.
type SignupInput struct {
	Username string `json:"username" validate:"required,max=64,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password"`
	ImageURL string `json:"image_url" validate:"omitempty,max=512"`
}

// AuthService signs users up and checks their credentials.
type AuthService struct {
	userRepo          repository.UserRepository
	hasher            security.PasswordHasher
	minPasswordLength int
}

// NewAuthService returns a new AuthService. A non-positive minPasswordLength
// falls back to validation.DefaultPasswordMinLength.
func NewAuthService(userRepo repository.UserRepository, hasher security.PasswordHasher, minPasswordLength int) *AuthService {
	if minPasswordLength <= 0 {
		minPasswordLength = validation.DefaultPasswordMinLength
	}
	return &AuthService{
		userRepo:          userRepo,
		hasher:            hasher,
		minPasswordLength: minPasswordLength,
	}
}

// Signup validates input, hashes the password and stages the insert on uow.
// The returned user gets its ID when uow commits; a duplicate username or
// email fails the commit with INTEGRITY_ERROR.
func (s *AuthService) Signup(ctx context.Context, uow Stager, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password, s.minPasswordLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
		ImageURL: in.ImageURL,
	}
	uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Users.Create(ctx, user)
	})
	return user, nil
}

// Authenticate returns the user whose username and password match. Unknown
// usernames and wrong passwords yield (nil, nil); an error means the lookup
// itself failed.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(user.Password, password) {
		return nil, nil
	}
	return user, nil
}
