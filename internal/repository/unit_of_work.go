package repository

import (
	"context"
	"errors"

	"warbler/internal/cache"
	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// Operation is a staged write. It receives repositories bound to the commit transaction
// and must not use any other database handle.
type Operation func(ctx context.Context, repos *Repositories) error

// UnitOfWork collects writes and applies them atomically on Commit.
// It is not safe for concurrent use; create one per request.
type UnitOfWork struct {
	db    *gorm.DB
	cache *cache.Cache
	ops   []Operation
}

// NewUnitOfWork returns an empty unit of work over db. c may be nil.
func NewUnitOfWork(db *gorm.DB, c *cache.Cache) *UnitOfWork {
	return &UnitOfWork{db: db, cache: c}
}

// Stage queues op. Nothing touches the database until Commit.
func (u *UnitOfWork) Stage(op Operation) {
	u.ops = append(u.ops, op)
}

// Pending returns the number of staged operations.
func (u *UnitOfWork) Pending() int {
	return len(u.ops)
}

// Rollback discards all staged operations.
func (u *UnitOfWork) Rollback() {
	u.ops = nil
}

// Commit runs the staged operations in order inside one transaction. The
// queue is cleared whether or not the commit succeeds. Constraint violations
// surface as INTEGRITY_ERROR.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	ops := u.ops
	u.ops = nil
	if len(ops) == 0 {
		return nil
	}

	span, ctx := observability.NewSpan(ctx, "uow.commit", attribute.Int("uow.operations", len(ops)))
	defer span.End()

	hooks := &commitHooks{}
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := newRepositories(tx, u.cache, hooks)
		for _, op := range ops {
			if err := op(ctx, repos); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = translateError(err, "constraint violated")
		span.SetError(err)
		middleware.UnitOfWorkCommits.WithLabelValues(commitOutcome(err)).Inc()
		return err
	}

	middleware.UnitOfWorkCommits.WithLabelValues("success").Inc()
	hooks.run(ctx)
	return nil
}

func commitOutcome(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeIntegrity:
			return "integrity_error"
		case models.CodeInternal:
			return "internal_error"
		}
	}
	return "rejected"
}
