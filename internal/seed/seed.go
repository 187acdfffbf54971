// Package seed provides database seeding utilities for development and demos.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/security"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded user gets.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumMessages    int
	FollowsPerUser int
	LikesPerUser   int
	ShouldClean    bool
}

// Summary reports what a seeding run created.
type Summary struct {
	Users    int
	Messages int
	Follows  int64
	Likes    int64
}

// Seeder fills the database with fake users, messages, follows and likes.
type Seeder struct {
	db     *gorm.DB
	faker  *gofakeit.Faker
	hasher security.PasswordHasher
}

// NewSeeder returns a Seeder. The same seed always produces the same data.
func NewSeeder(db *gorm.DB, hasher security.PasswordHasher, seed int64) *Seeder {
	return &Seeder{db: db, faker: gofakeit.New(seed), hasher: hasher}
}

// Run seeds according to opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	users, err := s.SeedUsers(ctx, opts.NumUsers)
	if err != nil {
		return nil, err
	}
	messages, err := s.SeedMessages(ctx, users, opts.NumMessages)
	if err != nil {
		return nil, err
	}
	if err := s.SeedFollows(ctx, users, opts.FollowsPerUser); err != nil {
		return nil, err
	}
	if err := s.SeedLikes(ctx, users, messages, opts.LikesPerUser); err != nil {
		return nil, err
	}

	summary := &Summary{Users: len(users), Messages: len(messages)}
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).Count(&summary.Follows).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Like{}).Count(&summary.Likes).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

// ClearAll deletes every row from the application tables, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Like{}, &models.Follow{}, &models.Message{}, &models.User{}} {
		if err := db.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "seed: cleared existing data")
	return nil
}

// SeedUsers creates n users sharing DefaultPassword.
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	hashed, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, s.buildUser(i, hashed))
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&users, 100).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "seed: created users", slog.Int("count", len(users)))
	return users, nil
}

func (s *Seeder) buildUser(i int, hashed string) models.User {
	// The index suffix keeps usernames and emails unique across the batch.
	username := fmt.Sprintf("%s%d", strings.ToLower(s.faker.Username()), i)
	bio := s.faker.Sentence(8)
	location := fmt.Sprintf("%s, %s", s.faker.City(), s.faker.StateAbr())

	u := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@%s", username, s.faker.DomainName()),
		Password: hashed,
		Bio:      &bio,
		Location: &location,
	}
	if s.faker.Bool() {
		u.ImageURL = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.faker.UUID())
	}
	return u
}

// SeedMessages creates n messages spread over users and the last 90 days.
func (s *Seeder) SeedMessages(ctx context.Context, users []models.User, n int) ([]models.Message, error) {
	if n <= 0 || len(users) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	messages := make([]models.Message, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.faker.IntRange(0, len(users)-1)]
		messages = append(messages, models.Message{
			Text:      truncate(s.faker.Sentence(s.faker.IntRange(4, 18)), models.MaxMessageLength),
			UserID:    author.ID,
			Timestamp: s.faker.DateRange(now.AddDate(0, 0, -90), now).UTC(),
		})
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&messages, 200).Error; err != nil {
		return nil, fmt.Errorf("seed messages: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "seed: created messages", slog.Int("count", len(messages)))
	return messages, nil
}

// SeedFollows makes every user follow up to perUser others in one unit of work.
func (s *Seeder) SeedFollows(ctx context.Context, users []models.User, perUser int) error {
	if perUser <= 0 || len(users) < 2 {
		return nil
	}
	uow := repository.NewUnitOfWork(s.db, nil)
	for _, u := range users {
		for _, idx := range s.pick(len(users), perUser) {
			target := users[idx]
			if target.ID == u.ID {
				continue
			}
			follower, followed := u.ID, target.ID
			uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
				return repos.Follows.Create(ctx, follower, followed)
			})
		}
	}
	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}
	return nil
}

// SeedLikes makes every user like up to perUser messages written by others.
func (s *Seeder) SeedLikes(ctx context.Context, users []models.User, messages []models.Message, perUser int) error {
	if perUser <= 0 || len(messages) == 0 {
		return nil
	}
	uow := repository.NewUnitOfWork(s.db, nil)
	for _, u := range users {
		for _, idx := range s.pick(len(messages), perUser) {
			msg := messages[idx]
			if msg.UserID == u.ID {
				continue
			}
			userID, messageID := u.ID, msg.ID
			uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
				return repos.Likes.Create(ctx, userID, messageID)
			})
		}
	}
	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("seed likes: %w", err)
	}
	return nil
}

// pick returns up to k distinct indexes below n.
func (s *Seeder) pick(n, k int) []int {
	if k > n {
		k = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	s.faker.ShuffleInts(idx)
	return idx[:k]
}

func truncate(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return strings.TrimSpace(string(r[:max]))
}
