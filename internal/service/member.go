package service

import (
	"context"

	"minitrello/internal/model"
	"minitrello/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Members is the only mutation path for membership rows besides invitation
// acceptance. The Owner membership is untouchable through every entry point,
// including by the owner themselves.
type Members struct {
	db             *gorm.DB
	authz          *Authorizer
	membershipRepo *repository.MembershipRepository
}

func NewMembers(db *gorm.DB, authz *Authorizer, membershipRepo *repository.MembershipRepository) *Members {
	return &Members{db: db, authz: authz, membershipRepo: membershipRepo}
}

// List returns the active members of a board. Viewer minimum.
func (s *Members) List(ctx context.Context, principal, boardID uuid.UUID) ([]model.Membership, error) {
	if _, err := s.authz.Authorize(ctx, principal, boardID, CapViewBoard); err != nil {
		return nil, err
	}
	return s.membershipRepo.GetActiveForBoard(ctx, boardID)
}

// ChangeRole sets a member's role. Granting Owner is rejected: ownership is
// fixed at board creation.
func (s *Members) ChangeRole(ctx context.Context, principal, membershipID uuid.UUID, newRole model.Role) (*model.Membership, error) {
	if !newRole.Valid() || newRole == model.RoleOwner {
		return nil, ErrInvalidRole
	}

	var membership *model.Membership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.membershipRepo.GetByID(ctx, tx, membershipID)
		if err != nil {
			return err
		}
		if _, err := s.authz.AuthorizeTx(ctx, tx, principal, row.BoardID, CapChangeMemberRole); err != nil {
			return err
		}
		if row.Role == model.RoleOwner {
			return ErrCannotModifyOwner
		}

		row.Role = newRole
		if err := s.membershipRepo.Update(ctx, tx, row); err != nil {
			return err
		}
		membership = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// Remove deactivates a membership. The row survives so the unique
// (user, board) pair holds across a later re-invite.
func (s *Members) Remove(ctx context.Context, principal, membershipID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.membershipRepo.GetByID(ctx, tx, membershipID)
		if err != nil {
			return err
		}
		if _, err := s.authz.AuthorizeTx(ctx, tx, principal, row.BoardID, CapRemoveMember); err != nil {
			return err
		}
		if row.Role == model.RoleOwner {
			return ErrCannotRemoveOwner
		}

		row.IsActive = false
		return s.membershipRepo.Update(ctx, tx, row)
	})
}
