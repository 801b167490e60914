package repository_test

import (
	"context"
	"testing"

	"minitrello/internal/model"
	"minitrello/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMembershipRepository_GetForUserBoard_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewMembershipRepository(gormDB)

	membershipID := uuid.New()
	userID := uuid.New()
	boardID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE user_id = .* LIMIT 1`).
		WithArgs(userID, boardID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "user_id", "role", "is_active"}).
			AddRow(membershipID.String(), boardID.String(), userID.String(), int(model.RoleViewer), false))

	membership, err := repo.GetForUserBoard(context.Background(), userID, boardID)

	assert.NoError(t, err)
	assert.NotNil(t, membership)
	assert.Equal(t, model.RoleViewer, membership.Role)
	// Inactive rows are returned too; activity is the caller's concern.
	assert.False(t, membership.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_GetForUserBoard_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewMembershipRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE user_id = .* LIMIT 1`).
		WillReturnError(gorm.ErrRecordNotFound)

	membership, err := repo.GetForUserBoard(context.Background(), uuid.New(), uuid.New())

	assert.NoError(t, err)
	assert.Nil(t, membership)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewMembershipRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE id = .* LIMIT 1`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetByID(context.Background(), gormDB, uuid.New())

	assert.ErrorIs(t, err, repository.ErrMembershipNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_GetActiveForBoard(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE board_id = .* ORDER BY role`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "user_id", "role", "is_active"}).
			AddRow(uuid.New().String(), boardID.String(), ownerID.String(), int(model.RoleOwner), true).
			AddRow(uuid.New().String(), boardID.String(), memberID.String(), int(model.RoleMember), true))
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE "users"\."id" IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name"}).
			AddRow(ownerID.String(), "owner@example.com", "Owner").
			AddRow(memberID.String(), "member@example.com", "Member"))

	memberships, err := repo.GetActiveForBoard(context.Background(), boardID)

	assert.NoError(t, err)
	assert.Len(t, memberships, 2)
	assert.Equal(t, model.RoleOwner, memberships[0].Role)
	assert.Equal(t, "owner@example.com", memberships[0].User.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
