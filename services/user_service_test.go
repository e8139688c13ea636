package services

import (
	"context"
	"errors"
	"storefront/models"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	to   string
	link string
	err  error
}

func (m *recordingMailer) SendPasswordReset(toEmail, _ string, link string, _ time.Time) error {
	m.to = toEmail
	m.link = link
	return m.err
}

func TestUserService_SelfModificationRejected(t *testing.T) {
	mock := newMockPool(t)
	svc := NewUserService(mock, nil, "http://localhost:8082", false)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateRole(ctx, 4, 4, models.RoleCustomer), ErrSelfModification)
	assert.ErrorIs(t, svc.SetActive(ctx, 4, 4, false), ErrSelfModification)
	assert.ErrorIs(t, svc.DeleteUser(ctx, 4, 4), ErrSelfModification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_UpdateRole(t *testing.T) {
	t.Run("invalid role", func(t *testing.T) {
		svc := NewUserService(newMockPool(t), nil, "", false)
		err := svc.UpdateRole(context.Background(), 1, 2, "superuser")
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("writes role and audit row", func(t *testing.T) {
		mock := newMockPool(t)
		svc := NewUserService(mock, nil, "", false)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE users SET role = \$1`).
			WithArgs(models.RoleAdmin, int64(2)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery(`INSERT INTO admin_logs`).
			WithArgs(int64(1), models.ActionUserRoleUpdate, "users", int64(2), "role: admin").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
		mock.ExpectCommit()

		require.NoError(t, svc.UpdateRole(context.Background(), 1, 2, models.RoleAdmin))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		mock := newMockPool(t)
		svc := NewUserService(mock, nil, "", false)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE users SET role`).
			WithArgs(models.RoleCustomer, int64(99)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.UpdateRole(context.Background(), 1, 99, models.RoleCustomer), ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserService_GetAllUsersDatabaseError(t *testing.T) {
	mock := newMockPool(t)
	svc := NewUserService(mock, nil, "", false)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).WillReturnError(errors.New("connection reset"))

	users, meta, err := svc.GetAllUsers(context.Background(), 0, 0)
	var ie *InfrastructureError
	assert.True(t, errors.As(err, &ie))
	assert.NotNil(t, users)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 1, meta.Limit)
}

func expectResetIssue(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	now := time.Now()
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(int64(2), "sari", "sari@example.com", "", models.RoleCustomer, true, now, now))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO password_resets`).
		WithArgs(int64(2), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(8), now))
	mock.ExpectQuery(`INSERT INTO admin_logs`).
		WithArgs(int64(1), models.ActionUserPasswordReset, "users", int64(2), "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), now))
	mock.ExpectCommit()
}

func TestUserService_IssuePasswordReset(t *testing.T) {
	t.Run("local returns link", func(t *testing.T) {
		mock := newMockPool(t)
		mailer := &recordingMailer{}
		svc := NewUserService(mock, mailer, "http://localhost:8082", false)
		expectResetIssue(t, mock)

		issued, err := svc.IssuePasswordReset(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.True(t, issued.EmailSent)
		assert.Equal(t, "sari@example.com", mailer.to)
		assert.Contains(t, issued.ResetLink, "http://localhost:8082/reset-password?token=")
		assert.Equal(t, mailer.link, issued.ResetLink)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("production hides link and survives mail failure", func(t *testing.T) {
		mock := newMockPool(t)
		mailer := &recordingMailer{err: errors.New("smtp down")}
		svc := NewUserService(mock, mailer, "https://toko.example.com", true)
		expectResetIssue(t, mock)

		issued, err := svc.IssuePasswordReset(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.False(t, issued.EmailSent)
		assert.Empty(t, issued.ResetLink)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		mock := newMockPool(t)
		svc := NewUserService(mock, nil, "", false)
		mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(int64(42)).WillReturnRows(pgxmock.NewRows(userCols))

		_, err := svc.IssuePasswordReset(context.Background(), 1, 42)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
