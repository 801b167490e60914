package service

import (
	"context"
	"errors"

	"minitrello/internal/model"
	"minitrello/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Capability is a named permission checked against the principal's role on
// the target board.
type Capability int

const (
	CapViewBoard Capability = iota
	CapCreateList
	CapCreateCard
	CapUpdateCard
	CapDeleteCard
	CapMoveCard
	CapCommentOnCard
	CapUpdateList
	CapMoveList
	CapUpdateBoard
	CapDeleteBoard
	CapDeleteList
	CapInviteMember
	CapRemoveMember
	CapChangeMemberRole
)

// capabilityMinRole maps every capability to the least privileged role that
// may exercise it. There is no Owner-exclusive capability; the owner
// membership itself is protected separately (see Members).
var capabilityMinRole = map[Capability]model.Role{
	CapViewBoard:        model.RoleViewer,
	CapCreateList:       model.RoleMember,
	CapCreateCard:       model.RoleMember,
	CapUpdateCard:       model.RoleMember,
	CapDeleteCard:       model.RoleMember,
	CapMoveCard:         model.RoleMember,
	CapCommentOnCard:    model.RoleMember,
	CapUpdateList:       model.RoleMember,
	CapMoveList:         model.RoleMember,
	CapUpdateBoard:      model.RoleAdmin,
	CapDeleteBoard:      model.RoleAdmin,
	CapDeleteList:       model.RoleAdmin,
	CapInviteMember:     model.RoleAdmin,
	CapRemoveMember:     model.RoleAdmin,
	CapChangeMemberRole: model.RoleAdmin,
}

func (c Capability) String() string {
	switch c {
	case CapViewBoard:
		return "view_board"
	case CapCreateList:
		return "create_list"
	case CapCreateCard:
		return "create_card"
	case CapUpdateCard:
		return "update_card"
	case CapDeleteCard:
		return "delete_card"
	case CapMoveCard:
		return "move_card"
	case CapCommentOnCard:
		return "comment_on_card"
	case CapUpdateList:
		return "update_list"
	case CapMoveList:
		return "move_list"
	case CapUpdateBoard:
		return "update_board"
	case CapDeleteBoard:
		return "delete_board"
	case CapDeleteList:
		return "delete_list"
	case CapInviteMember:
		return "invite_member"
	case CapRemoveMember:
		return "remove_member"
	case CapChangeMemberRole:
		return "change_member_role"
	}
	return "unknown"
}

// MinRole returns the least privileged role allowed to exercise c.
func (c Capability) MinRole() model.Role {
	if min, ok := capabilityMinRole[c]; ok {
		return min
	}
	return model.RoleOwner
}

// Allowed reports whether r meets the minimum role for c.
func (c Capability) Allowed(r model.Role) bool {
	return r.AtLeast(c.MinRole())
}

// Authorizer resolves a principal's effective role on a board and decides
// whether a capability is permitted. It is a pure decision component: it
// performs reads only and leaves denial logging to its callers.
type Authorizer struct {
	db *gorm.DB
}

func NewAuthorizer(db *gorm.DB) *Authorizer {
	return &Authorizer{db: db}
}

// Authorize resolves the principal's role on the board and checks the
// capability against it.
func (a *Authorizer) Authorize(ctx context.Context, principal, boardID uuid.UUID, capability Capability) (model.Role, error) {
	return a.AuthorizeTx(ctx, a.db, principal, boardID, capability)
}

// AuthorizeTx is Authorize running on an explicit handle so transactional
// callers share the snapshot between the permission check and the mutation.
func (a *Authorizer) AuthorizeTx(ctx context.Context, tx *gorm.DB, principal, boardID uuid.UUID, capability Capability) (model.Role, error) {
	role, err := a.resolveRole(ctx, tx, principal, boardID)
	if err != nil {
		return 0, err
	}
	if !capability.Allowed(role) {
		return role, ErrInsufficientRole
	}
	return role, nil
}

// AuthorizeList walks up from a list to its owning board on the same handle
// and applies the board capability matrix. Returns the list on success.
func (a *Authorizer) AuthorizeList(ctx context.Context, tx *gorm.DB, principal, listID uuid.UUID, capability Capability) (*model.List, model.Role, error) {
	var list model.List
	if err := tx.WithContext(ctx).First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, repository.ErrListNotFound
		}
		return nil, 0, err
	}
	role, err := a.AuthorizeTx(ctx, tx, principal, list.BoardID, capability)
	if err != nil {
		return nil, role, err
	}
	return &list, role, nil
}

// AuthorizeCard walks up card -> list -> board on the same handle and applies
// the board capability matrix. Returns the card and its board id on success.
func (a *Authorizer) AuthorizeCard(ctx context.Context, tx *gorm.DB, principal, cardID uuid.UUID, capability Capability) (*model.Card, uuid.UUID, error) {
	var card model.Card
	if err := tx.WithContext(ctx).First(&card, "id = ?", cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, repository.ErrCardNotFound
		}
		return nil, uuid.Nil, err
	}
	var list model.List
	if err := tx.WithContext(ctx).First(&list, "id = ?", card.ListID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, repository.ErrListNotFound
		}
		return nil, uuid.Nil, err
	}
	if _, err := a.AuthorizeTx(ctx, tx, principal, list.BoardID, capability); err != nil {
		return nil, uuid.Nil, err
	}
	return &card, list.BoardID, nil
}

// resolveRole returns the principal's effective role on the board. The board
// owner is forced to Owner regardless of the membership row, so an accidental
// demotion of the owner row can never lock the owner out.
func (a *Authorizer) resolveRole(ctx context.Context, tx *gorm.DB, principal, boardID uuid.UUID) (model.Role, error) {
	var board model.Board
	if err := tx.WithContext(ctx).First(&board, "id = ?", boardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, repository.ErrBoardNotFound
		}
		return 0, err
	}

	if board.OwnerID == principal {
		return model.RoleOwner, nil
	}

	var membership model.Membership
	err := tx.WithContext(ctx).
		Where("user_id = ? AND board_id = ? AND is_active = ?", principal, boardID, true).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotAMember
	}
	if err != nil {
		return 0, err
	}
	return membership.Role, nil
}
