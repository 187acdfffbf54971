package service

import (
	"context"
	"strings"

	"warbler/internal/models"
	"warbler/internal/repository"
)

type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getWithPasswordFn func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	deleteFn          func(context.Context, uint) error
	listFn            func(context.Context, int, int) ([]models.User, error)
	searchFn          func(context.Context, string, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetWithPassword(ctx context.Context, id uint) (*models.User, error) {
	return s.getWithPasswordFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Search(ctx context.Context, q string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, q, limit, offset)
}

type messageRepoStub struct {
	createFn      func(context.Context, *models.Message) error
	getByIDFn     func(context.Context, uint) (*models.Message, error)
	deleteFn      func(context.Context, uint) error
	listByUserFn  func(context.Context, uint, int) ([]models.Message, error)
	countByUserFn func(context.Context, uint) (int64, error)
	timelineFn    func(context.Context, []uint, int) ([]models.Message, error)
}

func (s *messageRepoStub) Create(ctx context.Context, msg *models.Message) error {
	return s.createFn(ctx, msg)
}
func (s *messageRepoStub) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return s.getByIDFn(ctx, id)
}
func (s *messageRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *messageRepoStub) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	return s.listByUserFn(ctx, userID, limit)
}
func (s *messageRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}
func (s *messageRepoStub) Timeline(ctx context.Context, userIDs []uint, limit int) ([]models.Message, error) {
	return s.timelineFn(ctx, userIDs, limit)
}

type followRepoStub struct {
	createFn         func(context.Context, uint, uint) error
	deleteFn         func(context.Context, uint, uint) error
	existsFn         func(context.Context, uint, uint) (bool, error)
	followersFn      func(context.Context, uint) ([]models.User, error)
	followingFn      func(context.Context, uint) ([]models.User, error)
	followingIDsFn   func(context.Context, uint) ([]uint, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followedID uint) error {
	return s.createFn(ctx, followerID, followedID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followedID uint) error {
	return s.deleteFn(ctx, followerID, followedID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followedID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followersFn(ctx, userID)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followingFn(ctx, userID)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

type likeRepoStub struct {
	createFn        func(context.Context, uint, uint) error
	deleteFn        func(context.Context, uint, uint) error
	existsFn        func(context.Context, uint, uint) (bool, error)
	likedMessagesFn func(context.Context, uint) ([]models.Message, error)
	countByUserFn   func(context.Context, uint) (int64, error)
}

func (s *likeRepoStub) Create(ctx context.Context, userID, messageID uint) error {
	return s.createFn(ctx, userID, messageID)
}
func (s *likeRepoStub) Delete(ctx context.Context, userID, messageID uint) error {
	return s.deleteFn(ctx, userID, messageID)
}
func (s *likeRepoStub) Exists(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.existsFn(ctx, userID, messageID)
}
func (s *likeRepoStub) LikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.likedMessagesFn(ctx, userID)
}
func (s *likeRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:         func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getWithPasswordFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:      func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:   func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:          func(context.Context, *models.User) error { return nil },
		updateFn:          func(context.Context, *models.User) error { return nil },
		deleteFn:          func(context.Context, uint) error { return nil },
		listFn:            func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		searchFn:          func(context.Context, string, int, int) ([]models.User, error) { return nil, nil },
	}
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:      func(context.Context, *models.Message) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Message, error) { return &models.Message{ID: id}, nil },
		deleteFn:      func(context.Context, uint) error { return nil },
		listByUserFn:  func(context.Context, uint, int) ([]models.Message, error) { return nil, nil },
		countByUserFn: func(context.Context, uint) (int64, error) { return 0, nil },
		timelineFn:    func(context.Context, []uint, int) ([]models.Message, error) { return nil, nil },
	}
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(context.Context, uint, uint) error { return nil },
		deleteFn:         func(context.Context, uint, uint) error { return nil },
		existsFn:         func(context.Context, uint, uint) (bool, error) { return false, nil },
		followersFn:      func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followingFn:      func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followingIDsFn:   func(context.Context, uint) ([]uint, error) { return nil, nil },
		countFollowersFn: func(context.Context, uint) (int64, error) { return 0, nil },
		countFollowingFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		createFn:        func(context.Context, uint, uint) error { return nil },
		deleteFn:        func(context.Context, uint, uint) error { return nil },
		existsFn:        func(context.Context, uint, uint) (bool, error) { return false, nil },
		likedMessagesFn: func(context.Context, uint) ([]models.Message, error) { return nil, nil },
		countByUserFn:   func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

// recordingStager keeps staged operations so tests can inspect or replay them.
type recordingStager struct {
	ops []repository.Operation
}

func (r *recordingStager) Stage(op repository.Operation) {
	r.ops = append(r.ops, op)
}

func (r *recordingStager) replay(ctx context.Context, repos *repository.Repositories) error {
	for _, op := range r.ops {
		if err := op(ctx, repos); err != nil {
			return err
		}
	}
	return nil
}

// plainHasher is a reversible stand-in for bcrypt.
type plainHasher struct {
	calls int
}

func (h *plainHasher) Hash(plain string) (string, error) {
	h.calls++
	return "hashed:" + plain, nil
}

func (h *plainHasher) Compare(hash, plain string) bool {
	return strings.TrimPrefix(hash, "hashed:") == plain && strings.HasPrefix(hash, "hashed:")
}
