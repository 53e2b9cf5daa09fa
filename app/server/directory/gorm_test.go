package directory

import (
	"acquisitions-api/app/server/models"
	"context"
	"errors"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"testing"
	"time"
)

var userColumns = []string{"id", "name", "email", "role", "password", "created_at", "updated_at"}

func newGormWithMock(t *testing.T) (*Gorm, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGorm(db), mock
}

func TestGorm_FindByID(t *testing.T) {
	g, mock := newGormWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "Alice", "alice@example.com", "user", "$2a$10$digest", now, now))

	user, err := g.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_FindByID_NotFound(t *testing.T) {
	g, mock := newGormWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := g.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_FindByEmail_DBError(t *testing.T) {
	g, mock := newGormWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnError(errors.New("db down"))

	_, err := g.FindByEmail(context.Background(), "alice@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "db down")
}

func TestGorm_Create(t *testing.T) {
	g, mock := newGormWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	user := &models.User{Name: "Bob", Email: "bob@example.com", Role: models.RoleUser, Password: "$2a$10$digest"}
	require.NoError(t, g.Create(context.Background(), user))
	assert.Equal(t, uint(5), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_Create_DuplicateEmail(t *testing.T) {
	g, mock := newGormWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})
	mock.ExpectRollback()

	err := g.Create(context.Background(), &models.User{Name: "Bob", Email: "bob@example.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_Update(t *testing.T) {
	g, mock := newGormWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET .* WHERE .*"id" = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &models.User{ID: 3, Name: "Alice B", Email: "alice@example.com", Role: models.RoleUser, Password: "$2a$10$digest"}
	require.NoError(t, g.Update(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_Update_Missing(t *testing.T) {
	g, mock := newGormWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := g.Update(context.Background(), &models.User{ID: 42, Name: "Ghost", Email: "ghost@example.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGorm_Update_DuplicateEmail(t *testing.T) {
	g, mock := newGormWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := g.Update(context.Background(), &models.User{ID: 3, Name: "Alice", Email: "bob@example.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_Delete_ReturnsSnapshot(t *testing.T) {
	g, mock := newGormWithMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM "users" WHERE id = \$1 RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(4, "Carol", "carol@example.com", "admin", "$2a$10$digest", now, now))
	mock.ExpectCommit()

	deleted, err := g.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, uint(4), deleted.ID)
	assert.Equal(t, models.RoleAdmin, deleted.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_Delete_Missing(t *testing.T) {
	g, mock := newGormWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM "users" WHERE id = \$1 RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectCommit()

	_, err := g.Delete(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGorm_ListAndCount(t *testing.T) {
	g, mock := newGormWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "users" ORDER BY id ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "Alice", "alice@example.com", "admin", "d1", now, now).
			AddRow(2, "Bob", "bob@example.com", "user", "d2", now, now))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	users, err := g.List(context.Background(), 0, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob@example.com", users[1].Email)

	count, err := g.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGorm_Identity(t *testing.T) {
	g, mock := newGormWithMock(t)

	mock.ExpectQuery(`SELECT .*"email".* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role"}).
			AddRow(9, "dan@example.com", "Dan", "user"))

	identity, err := g.Identity(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{ID: 9, Email: "dan@example.com", Name: "Dan", Role: models.RoleUser}, *identity)
}
