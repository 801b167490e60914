package service_test

import (
	"context"
	"testing"
	"time"

	"minitrello/internal/model"
	"minitrello/internal/repository"
	"minitrello/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testInvitationTTL = 7 * 24 * time.Hour

func newInvitations(gormDB *gorm.DB) *service.Invitations {
	return service.NewInvitations(
		gormDB,
		service.NewAuthorizer(gormDB),
		repository.NewInvitationRepository(gormDB),
		repository.NewMembershipRepository(gormDB),
		repository.NewUserRepository(gormDB),
		repository.NewBoardRepository(gormDB),
		nil,
		testInvitationTTL,
		"http://localhost:8080",
	)
}

func invitationRows(inv model.Invitation) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "token", "board_id", "inviter_id", "status", "created_at"}).
		AddRow(inv.ID.String(), inv.Email, inv.Token, inv.BoardID.String(), inv.InviterID.String(), inv.Status, inv.CreatedAt)
}

func TestCreateInvitation_NewEmail(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitations := newInvitations(gormDB)

	ownerID := uuid.New()
	boardID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "boards" WHERE id =`).
		WillReturnRows(boardRows(boardID, ownerID))
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "invitations" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "invitations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	inv, err := invitations.Create(context.Background(), ownerID, boardID, " Ada@Example.com ")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", inv.Email)
	assert.Equal(t, model.InvitationSent, inv.Status)
	assert.Len(t, inv.Token, 32)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvitation_DuplicatePending(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitations := newInvitations(gormDB)

	ownerID := uuid.New()
	boardID := uuid.New()
	pending := model.Invitation{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		Token:     "aaaabbbbccccddddaaaabbbbccccdddd",
		BoardID:   boardID,
		InviterID: ownerID,
		Status:    model.InvitationSent,
		CreatedAt: time.Now().Add(-time.Hour),
	}

	mock.ExpectQuery(`SELECT (.+) FROM "boards" WHERE id =`).
		WillReturnRows(boardRows(boardID, ownerID))
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "invitations" WHERE`).
		WillReturnRows(invitationRows(pending))

	_, err := invitations.Create(context.Background(), ownerID, boardID, "ada@example.com")

	assert.ErrorIs(t, err, service.ErrDuplicatePending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvitation_ReissuesExpiredPending(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitations := newInvitations(gormDB)

	ownerID := uuid.New()
	boardID := uuid.New()
	staleToken := "aaaabbbbccccddddaaaabbbbccccdddd"
	pending := model.Invitation{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		Token:     staleToken,
		BoardID:   boardID,
		InviterID: uuid.New(),
		Status:    model.InvitationSent,
		CreatedAt: time.Now().Add(-8 * 24 * time.Hour),
	}

	mock.ExpectQuery(`SELECT (.+) FROM "boards" WHERE id =`).
		WillReturnRows(boardRows(boardID, ownerID))
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "invitations" WHERE`).
		WillReturnRows(invitationRows(pending))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "invitations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inv, err := invitations.Create(context.Background(), ownerID, boardID, "ada@example.com")

	require.NoError(t, err)
	assert.Equal(t, pending.ID, inv.ID)
	assert.NotEqual(t, staleToken, inv.Token)
	assert.Equal(t, ownerID, inv.InviterID)
	assert.WithinDuration(t, time.Now(), inv.CreatedAt, time.Minute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvitation_ActiveMemberRejected(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitations := newInvitations(gormDB)

	ownerID := uuid.New()
	boardID := uuid.New()
	inviteeID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "boards" WHERE id =`).
		WillReturnRows(boardRows(boardID, ownerID))
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(inviteeID.String(), "Ada", "ada@example.com"))
	mock.ExpectQuery(`SELECT (.+) FROM "memberships" WHERE`).
		WillReturnRows(membershipRows(uuid.New(), boardID, inviteeID, model.RoleViewer, true))

	_, err := invitations.Create(context.Background(), ownerID, boardID, "ada@example.com")

	assert.ErrorIs(t, err, service.ErrAlreadyMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccept_CreatesMemberMembership(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitations := newInvitations(gormDB)

	boardID := uuid.New()
	accepterID := uuid.New()
	inv := model.Invitation{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		Token:     "aaaabbbbccccddddaaaabbbbccccdddd",
		BoardID:   boardID,
		InviterID: uuid.New(),
		Status:    model.InvitationSent,
		CreatedAt: time.Now().Add(-time.Hour),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "invitations" WHERE token = (.+)FOR UPDATE`).
		WillReturnRows(invitationRows(inv))
	mock.ExpectExec(`UPDATE "invitations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "memberships" WHERE user_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	membership, err := invitations.Accept(context.Background(), inv.Token, accepterID)

	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, membership.Role)
	assert.Equal(t, boardID, membership.BoardID)
	assert.Equal(t, accepterID, membership.UserID)
	assert.True(t, membership.IsActive)
	assert.True(t, membership.CanEdit)
	assert.True(t, membership.CanComment)
	assert.False(t, membership.CanInvite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccept_ReactivatesRemovedMember(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitations := newInvitations(gormDB)

	boardID := uuid.New()
	accepterID := uuid.New()
	inv := model.Invitation{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		Token:     "aaaabbbbccccddddaaaabbbbccccdddd",
		BoardID:   boardID,
		InviterID: uuid.New(),
		Status:    model.InvitationSent,
		CreatedAt: time.Now().Add(-time.Hour),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "invitations" WHERE token = (.+)FOR UPDATE`).
		WillReturnRows(invitationRows(inv))
	mock.ExpectExec(`UPDATE "invitations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "memberships" WHERE user_id =`).
		WillReturnRows(membershipRows(uuid.New(), boardID, accepterID, model.RoleAdmin, false))
	mock.ExpectExec(`UPDATE "memberships" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	membership, err := invitations.Accept(context.Background(), inv.Token, accepterID)

	require.NoError(t, err)
	// Rejoining starts over at Member regardless of the role held before.
	assert.Equal(t, model.RoleMember, membership.Role)
	assert.True(t, membership.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccept_RedeemedTokenNotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitations := newInvitations(gormDB)

	inv := model.Invitation{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		Token:     "aaaabbbbccccddddaaaabbbbccccdddd",
		BoardID:   uuid.New(),
		InviterID: uuid.New(),
		Status:    model.InvitationAccepted,
		CreatedAt: time.Now().Add(-time.Hour),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "invitations" WHERE token = (.+)FOR UPDATE`).
		WillReturnRows(invitationRows(inv))
	mock.ExpectRollback()

	_, err := invitations.Accept(context.Background(), inv.Token, uuid.New())

	assert.ErrorIs(t, err, service.ErrInvitationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccept_ExpiredToken(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitations := newInvitations(gormDB)

	inv := model.Invitation{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		Token:     "aaaabbbbccccddddaaaabbbbccccdddd",
		BoardID:   uuid.New(),
		InviterID: uuid.New(),
		Status:    model.InvitationSent,
		CreatedAt: time.Now().Add(-8 * 24 * time.Hour),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "invitations" WHERE token = (.+)FOR UPDATE`).
		WillReturnRows(invitationRows(inv))
	mock.ExpectRollback()

	_, err := invitations.Accept(context.Background(), inv.Token, uuid.New())

	assert.ErrorIs(t, err, service.ErrInvitationExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccept_UnknownToken(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitations := newInvitations(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "invitations" WHERE token = (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := invitations.Accept(context.Background(), "deadbeef", uuid.New())

	assert.ErrorIs(t, err, service.ErrInvitationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
