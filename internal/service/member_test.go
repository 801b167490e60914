package service_test

import (
	"context"
	"testing"

	"minitrello/internal/model"
	"minitrello/internal/repository"
	"minitrello/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeRole_PromotesMemberToAdmin(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	members := service.NewMembers(gormDB, service.NewAuthorizer(gormDB), repository.NewMembershipRepository(gormDB))

	ownerID := uuid.New()
	boardID := uuid.New()
	membershipID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "memberships" WHERE id =`).
		WillReturnRows(membershipRows(membershipID, boardID, uuid.New(), model.RoleMember, true))
	mock.ExpectQuery(`SELECT (.+) FROM "boards" WHERE id =`).
		WillReturnRows(boardRows(boardID, ownerID))
	mock.ExpectExec(`UPDATE "memberships" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	membership, err := members.ChangeRole(context.Background(), ownerID, membershipID, model.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, membership.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeRole_OwnerRowUntouchable(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	members := service.NewMembers(gormDB, service.NewAuthorizer(gormDB), repository.NewMembershipRepository(gormDB))

	ownerID := uuid.New()
	boardID := uuid.New()
	membershipID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "memberships" WHERE id =`).
		WillReturnRows(membershipRows(membershipID, boardID, ownerID, model.RoleOwner, true))
	mock.ExpectQuery(`SELECT (.+) FROM "boards" WHERE id =`).
		WillReturnRows(boardRows(boardID, ownerID))
	mock.ExpectRollback()

	// Even the owner cannot demote their own Owner membership.
	_, err := members.ChangeRole(context.Background(), ownerID, membershipID, model.RoleViewer)

	assert.ErrorIs(t, err, service.ErrCannotModifyOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeRole_RejectsInvalidRoles(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	members := service.NewMembers(gormDB, service.NewAuthorizer(gormDB), repository.NewMembershipRepository(gormDB))

	_, err := members.ChangeRole(context.Background(), uuid.New(), uuid.New(), model.Role(99))
	assert.ErrorIs(t, err, service.ErrInvalidRole)

	// Granting Owner through role change is never allowed.
	_, err = members.ChangeRole(context.Background(), uuid.New(), uuid.New(), model.RoleOwner)
	assert.ErrorIs(t, err, service.ErrInvalidRole)
}

func TestRemove_DeactivatesMembership(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	members := service.NewMembers(gormDB, service.NewAuthorizer(gormDB), repository.NewMembershipRepository(gormDB))

	ownerID := uuid.New()
	boardID := uuid.New()
	membershipID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "memberships" WHERE id =`).
		WillReturnRows(membershipRows(membershipID, boardID, uuid.New(), model.RoleViewer, true))
	mock.ExpectQuery(`SELECT (.+) FROM "boards" WHERE id =`).
		WillReturnRows(boardRows(boardID, ownerID))
	mock.ExpectExec(`UPDATE "memberships" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := members.Remove(context.Background(), ownerID, membershipID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemove_OwnerRowUntouchable(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	members := service.NewMembers(gormDB, service.NewAuthorizer(gormDB), repository.NewMembershipRepository(gormDB))

	ownerID := uuid.New()
	boardID := uuid.New()
	membershipID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "memberships" WHERE id =`).
		WillReturnRows(membershipRows(membershipID, boardID, ownerID, model.RoleOwner, true))
	mock.ExpectQuery(`SELECT (.+) FROM "boards" WHERE id =`).
		WillReturnRows(boardRows(boardID, ownerID))
	mock.ExpectRollback()

	err := members.Remove(context.Background(), ownerID, membershipID)

	assert.ErrorIs(t, err, service.ErrCannotRemoveOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
