package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreyaslbs/todayinclass/internal/models"
)

func TestUserRepositoryPromoteToTeacherOnlyTouchesParents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE users SET role = \\$1, updated_at = \\$2").
		WithArgs(models.RoleTeacher, ts, "t1@x.com", models.RoleParent).
		WillReturnResult(sqlmock.NewResult(0, 1))

	promoted, err := repo.PromoteToTeacher(context.Background(), "t1@x.com", ts)
	require.NoError(t, err)
	assert.True(t, promoted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryPromoteToTeacherReportsNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	ts := time.Now().UTC()
	mock.ExpectExec("UPDATE users SET role = \\$1, updated_at = \\$2").
		WithArgs(models.RoleTeacher, ts, "admin@x.com", models.RoleParent).
		WillReturnResult(sqlmock.NewResult(0, 0))

	promoted, err := repo.PromoteToTeacher(context.Background(), "admin@x.com", ts)
	require.NoError(t, err)
	assert.False(t, promoted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailIsCaseInsensitive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "display_name", "role", "photo_url", "last_login", "created_at", "updated_at"}).
		AddRow("u1", "t1@x.com", "hash", "T One", models.RoleTeacher, "", nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .* FROM users WHERE LOWER\\(email\\) = LOWER\\(TRIM\\(\\$1\\)\\)").
		WithArgs("  T1@X.com ").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "  T1@X.com ")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
