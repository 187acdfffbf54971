package seed

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"warbler/internal/models"
	"warbler/internal/security"
	"warbler/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc", truncate("abc def", 4))
	assert.Equal(t, 140, utf8.RuneCountInString(truncate(strings.Repeat("é", 200), 140)))
}

func TestSeederRun(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	s := NewSeeder(db, hasher, 42)
	ctx := context.Background()

	summary, err := s.Run(ctx, Options{
		NumUsers:       8,
		NumMessages:    30,
		FollowsPerUser: 3,
		LikesPerUser:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, summary.Users)
	assert.Equal(t, 30, summary.Messages)
	assert.Positive(t, summary.Follows)
	assert.Positive(t, summary.Likes)

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("user_being_followed_id = user_following_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)

	var messages []models.Message
	require.NoError(t, db.Find(&messages).Error)
	for _, m := range messages {
		assert.LessOrEqual(t, utf8.RuneCountInString(m.Text), models.MaxMessageLength)
	}

	var u models.User
	require.NoError(t, db.First(&u).Error)
	assert.True(t, hasher.Compare(u.Password, DefaultPassword))

	// A clean run replaces everything.
	summary, err = s.Run(ctx, Options{NumUsers: 2, ShouldClean: true})
	require.NoError(t, err)
	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(2), users)
	assert.Zero(t, summary.Follows)
}
