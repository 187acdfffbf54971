package repository

import (
	"errors"
	"fmt"
	"testing"

	"warbler/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"Gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"Gorm foreign key", fmt.Errorf("wrap: %w", gorm.ErrForeignKeyViolated), true},
		{"Postgres unique", &pgconn.PgError{Code: "23505"}, true},
		{"Postgres not null", &pgconn.PgError{Code: "23502"}, true},
		{"Postgres syntax", &pgconn.PgError{Code: "42601"}, false},
		{"SQLite constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, true},
		{"SQLite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, false},
		{"Message fallback", errors.New("UNIQUE constraint failed: users.email"), true},
		{"Unrelated", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConstraintError(tt.err))
		})
	}
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil, "x"))

	err := translateError(gorm.ErrDuplicatedKey, "taken")
	assert.ErrorIs(t, err, models.ErrIntegrity)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	nf := models.NewNotFoundError("User", 1)
	assert.Same(t, nf, translateError(nf, "x"))

	var appErr *models.AppError
	assert.ErrorAs(t, translateError(errors.New("disk full"), "x"), &appErr)
	assert.Equal(t, models.CodeInternal, appErr.Code)
}
