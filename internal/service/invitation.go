package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"minitrello/internal/model"
	"minitrello/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// inviteTokenLength is the token size in bytes (32 hex characters).
const inviteTokenLength = 16

// InvitationMailer delivers the invitation email. Implementations must be
// safe for concurrent use; delivery runs outside the request transaction.
type InvitationMailer interface {
	SendInvitation(to, boardTitle, inviterName, acceptURL string, expiresAt time.Time) error
}

// Invitations issues time-bounded invitation tokens and turns accepted ones
// into memberships. Mail delivery is fire-and-forget: the invitation row
// commits first and a failed send never fails the request.
type Invitations struct {
	db             *gorm.DB
	authz          *Authorizer
	invitationRepo *repository.InvitationRepository
	membershipRepo *repository.MembershipRepository
	userRepo       *repository.UserRepository
	boardRepo      *repository.BoardRepository
	mailer         InvitationMailer

	ttl     time.Duration
	baseURL string
}

func NewInvitations(
	db *gorm.DB,
	authz *Authorizer,
	invitationRepo *repository.InvitationRepository,
	membershipRepo *repository.MembershipRepository,
	userRepo *repository.UserRepository,
	boardRepo *repository.BoardRepository,
	mailer InvitationMailer,
	ttl time.Duration,
	baseURL string,
) *Invitations {
	return &Invitations{
		db:             db,
		authz:          authz,
		invitationRepo: invitationRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		boardRepo:      boardRepo,
		mailer:         mailer,
		ttl:            ttl,
		baseURL:        baseURL,
	}
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Create issues an invitation for email to join the board. Admin minimum.
// An expired Sent invitation for the same (email, board) pair is reissued
// with a fresh token rather than duplicated, preserving the unique pair.
func (s *Invitations) Create(ctx context.Context, principal, boardID uuid.UUID, email string) (*model.Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrValidation
	}

	if _, err := s.authz.Authorize(ctx, principal, boardID, CapInviteMember); err != nil {
		return nil, err
	}

	// An existing user with an active membership cannot be invited again.
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		membership, err := s.membershipRepo.GetForUserBoard(ctx, user.ID, boardID)
		if err != nil {
			return nil, err
		}
		if membership != nil && membership.IsActive {
			return nil, ErrAlreadyMember
		}
	}

	now := time.Now()
	pending, err := s.invitationRepo.GetSentForEmailBoard(ctx, email, boardID)
	if err != nil {
		return nil, err
	}

	token, err := generateSecureToken(inviteTokenLength)
	if err != nil {
		return nil, err
	}

	var invitation *model.Invitation
	if pending != nil {
		if pending.Active(now, s.ttl) {
			return nil, ErrDuplicatePending
		}
		// Reissue the lapsed invitation instead of inserting a second Sent
		// row for the same (email, board) pair.
		pending.Token = token
		pending.CreatedAt = now
		pending.InviterID = principal
		if err := s.invitationRepo.Update(ctx, pending); err != nil {
			return nil, err
		}
		invitation = pending
	} else {
		invitation = &model.Invitation{
			ID:        uuid.New(),
			Email:     email,
			Token:     token,
			BoardID:   boardID,
			InviterID: principal,
			Status:    model.InvitationSent,
			CreatedAt: now,
		}
		if err := s.invitationRepo.Create(ctx, invitation); err != nil {
			return nil, err
		}
	}

	s.dispatchMail(ctx, invitation)
	return invitation, nil
}

// dispatchMail sends the invitation email on a separate goroutine so the
// request never blocks on SMTP latency or failure.
func (s *Invitations) dispatchMail(ctx context.Context, invitation *model.Invitation) {
	if s.mailer == nil {
		return
	}

	board, err := s.boardRepo.GetByID(ctx, invitation.BoardID)
	if err != nil || board == nil {
		logrus.WithField("board_id", invitation.BoardID).Warn("Skipping invitation mail, board lookup failed")
		return
	}
	inviter, err := s.userRepo.GetByID(ctx, invitation.InviterID)
	if err != nil || inviter == nil {
		logrus.WithField("inviter_id", invitation.InviterID).Warn("Skipping invitation mail, inviter lookup failed")
		return
	}

	to := invitation.Email
	acceptURL := fmt.Sprintf("%s/invitations/%s/accept", s.baseURL, invitation.Token)
	expiresAt := invitation.CreatedAt.Add(s.ttl)
	boardTitle := board.Title
	inviterName := inviter.Name

	go func() {
		if err := s.mailer.SendInvitation(to, boardTitle, inviterName, acceptURL, expiresAt); err != nil {
			logrus.WithError(err).WithField("email", to).Error("Failed to send invitation email")
		}
	}()
}

// Accept redeems a token for the accepting user and returns the resulting
// membership. Accepting is idempotent on the membership: an existing row is
// reused (and reactivated if needed), never duplicated. A token that is
// unknown, already redeemed, or expired does not grant anything; the expired
// case keeps its own error so callers can log it, though the HTTP layer
// surfaces both as not-found.
func (s *Invitations) Accept(ctx context.Context, token string, userID uuid.UUID) (*model.Membership, error) {
	var membership *model.Membership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invitation, err := s.invitationRepo.GetByToken(ctx, tx, token)
		if errors.Is(err, repository.ErrInvitationNotFound) {
			return ErrInvitationNotFound
		}
		if err != nil {
			return err
		}
		if invitation.Status != model.InvitationSent {
			return ErrInvitationNotFound
		}

		now := time.Now()
		if !invitation.Active(now, s.ttl) {
			return ErrInvitationExpired
		}

		invitation.Status = model.InvitationAccepted
		invitation.AcceptedAt = &now
		if err := tx.Save(invitation).Error; err != nil {
			return err
		}

		var row model.Membership
		err = tx.Where("user_id = ? AND board_id = ?", userID, invitation.BoardID).
			First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = model.Membership{
				ID:         uuid.New(),
				BoardID:    invitation.BoardID,
				UserID:     userID,
				Role:       model.RoleMember,
				IsActive:   true,
				InvitedBy:  &invitation.InviterID,
				InvitedAt:  &invitation.CreatedAt,
				AcceptedAt: &now,
				CanEdit:    true,
				CanComment: true,
			}
			if err := s.membershipRepo.Create(ctx, tx, &row); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if !row.IsActive {
				row.IsActive = true
				row.Role = model.RoleMember
				row.AcceptedAt = &now
				if err := s.membershipRepo.Update(ctx, tx, &row); err != nil {
					return err
				}
			}
		}

		membership = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// ForBoard lists a board's invitations, newest first. Admin minimum.
func (s *Invitations) ForBoard(ctx context.Context, principal, boardID uuid.UUID) ([]model.Invitation, error) {
	if _, err := s.authz.Authorize(ctx, principal, boardID, CapInviteMember); err != nil {
		return nil, err
	}
	return s.invitationRepo.GetByBoardID(ctx, boardID)
}
