package repository

import (
	"context"
	"errors"

	"minitrello/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipRepository reads that feed non-transactional listings run on the
// repository's own handle; writes and the by-id fetch take the caller's
// handle, since membership mutations pair a fetch with an authorization check
// on one snapshot.
type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, db *gorm.DB, membership *model.Membership) error {
	return db.WithContext(ctx).Create(membership).Error
}

func (r *MembershipRepository) GetByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.Membership, error) {
	var membership model.Membership
	result := db.WithContext(ctx).First(&membership, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, result.Error
	}
	return &membership, nil
}

// GetForUserBoard returns the membership row for the (user, board) pair,
// active or not, or nil when none exists.
func (r *MembershipRepository) GetForUserBoard(ctx context.Context, userID, boardID uuid.UUID) (*model.Membership, error) {
	var membership model.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND board_id = ?", userID, boardID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetActiveForBoard returns the active members of a board with their users
// preloaded, most privileged role first.
func (r *MembershipRepository) GetActiveForBoard(ctx context.Context, boardID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ? AND is_active = ?", boardID, true).
		Order("role").
		Find(&memberships).Error
	return memberships, err
}

func (r *MembershipRepository) Update(ctx context.Context, db *gorm.DB, membership *model.Membership) error {
	result := db.WithContext(ctx).Save(membership)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}
