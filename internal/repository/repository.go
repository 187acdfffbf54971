// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"warbler/internal/cache"

	"gorm.io/gorm"
)

// Repositories bundles the per-table repositories sharing one database handle.
// Inside a unit of work every member is bound to the open transaction.
type Repositories struct {
	Users    UserRepository
	Messages MessageRepository
	Follows  FollowRepository
	Likes    LikeRepository
}

// NewRepositories returns repositories bound to db. c may be nil.
func NewRepositories(db *gorm.DB, c *cache.Cache) *Repositories {
	return newRepositories(db, c, nil)
}

func newRepositories(db *gorm.DB, c *cache.Cache, hooks *commitHooks) *Repositories {
	return &Repositories{
		Users:    &userRepository{db: db, cache: c, hooks: hooks},
		Messages: NewMessageRepository(db),
		Follows:  NewFollowRepository(db),
		Likes:    NewLikeRepository(db),
	}
}

// commitHooks defers side effects (cache invalidation) until the surrounding
// transaction has committed. A nil *commitHooks runs them immediately.
type commitHooks struct {
	fns []func(context.Context)
}

func (h *commitHooks) after(ctx context.Context, fn func(context.Context)) {
	if h == nil {
		fn(ctx)
		return
	}
	h.fns = append(h.fns, fn)
}

func (h *commitHooks) run(ctx context.Context) {
	for _, fn := range h.fns {
		fn(ctx)
	}
	h.fns = nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
