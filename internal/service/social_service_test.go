package service

import (
	"context"
	"testing"

	"warbler/internal/models"
	"warbler/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSocialServiceWith(users *userRepoStub, msgs *messageRepoStub, follows *followRepoStub, likes *likeRepoStub) *SocialService {
	return NewSocialService(users, msgs, follows, likes)
}

func TestSocialServiceFollowSelf(t *testing.T) {
	svc := newSocialServiceWith(noopUserRepo(), noopMessageRepo(), noopFollowRepo(), noopLikeRepo())
	uow := &recordingStager{}

	err := svc.Follow(context.Background(), uow, 4, 4)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, uow.ops)
}

func TestSocialServiceFollowUnknownUser(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		if id == 9 {
			return nil, models.NewNotFoundError("User", id)
		}
		return &models.User{ID: id}, nil
	}
	svc := newSocialServiceWith(users, noopMessageRepo(), noopFollowRepo(), noopLikeRepo())
	uow := &recordingStager{}

	err := svc.Follow(context.Background(), uow, 1, 9)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, uow.ops)
}

func TestSocialServiceFollowStagesEdge(t *testing.T) {
	svc := newSocialServiceWith(noopUserRepo(), noopMessageRepo(), noopFollowRepo(), noopLikeRepo())
	uow := &recordingStager{}
	require.NoError(t, svc.Follow(context.Background(), uow, 1, 2))
	require.NoError(t, svc.Unfollow(context.Background(), uow, 1, 3))

	var created, deleted [2]uint
	follows := noopFollowRepo()
	follows.createFn = func(_ context.Context, a, b uint) error { created = [2]uint{a, b}; return nil }
	follows.deleteFn = func(_ context.Context, a, b uint) error { deleted = [2]uint{a, b}; return nil }

	require.NoError(t, uow.replay(context.Background(), &repository.Repositories{Follows: follows}))
	assert.Equal(t, [2]uint{1, 2}, created)
	assert.Equal(t, [2]uint{1, 3}, deleted)
}

func TestSocialServiceDirection(t *testing.T) {
	follows := noopFollowRepo()
	// Only the edge 2 -> 1 exists.
	follows.existsFn = func(_ context.Context, a, b uint) (bool, error) { return a == 2 && b == 1, nil }
	svc := newSocialServiceWith(noopUserRepo(), noopMessageRepo(), follows, noopLikeRepo())
	ctx := context.Background()

	ok, err := svc.IsFollowing(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsFollowing(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsFollowedBy(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSocialServiceToggleLike(t *testing.T) {
	tests := []struct {
		name      string
		exists    bool
		wantLiked bool
	}{
		{"Not yet liked", false, true},
		{"Already liked", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			likes := noopLikeRepo()
			likes.existsFn = func(context.Context, uint, uint) (bool, error) { return tt.exists, nil }
			var creates, deletes int
			likes.createFn = func(context.Context, uint, uint) error { creates++; return nil }
			likes.deleteFn = func(context.Context, uint, uint) error { deletes++; return nil }

			svc := newSocialServiceWith(noopUserRepo(), noopMessageRepo(), noopFollowRepo(), likes)
			uow := &recordingStager{}

			liked, err := svc.ToggleLike(context.Background(), uow, 1, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLiked, liked)
			assert.Zero(t, creates+deletes, "toggling only stages")

			require.NoError(t, uow.replay(context.Background(), &repository.Repositories{Likes: likes}))
			if tt.wantLiked {
				assert.Equal(t, 1, creates)
			} else {
				assert.Equal(t, 1, deletes)
			}
		})
	}
}

func TestSocialServiceLikeUnknownMessage(t *testing.T) {
	msgs := noopMessageRepo()
	msgs.getByIDFn = func(_ context.Context, id uint) (*models.Message, error) {
		return nil, models.NewNotFoundError("Message", id)
	}
	svc := newSocialServiceWith(noopUserRepo(), msgs, noopFollowRepo(), noopLikeRepo())
	uow := &recordingStager{}

	assert.ErrorIs(t, svc.Like(context.Background(), uow, 1, 99), models.ErrNotFound)
	_, err := svc.ToggleLike(context.Background(), uow, 1, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, uow.ops)
}
