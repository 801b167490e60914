package repository

import (
	"context"
	"errors"
	"strings"

	"minitrello/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *model.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

// GetByToken resolves a redemption token on the caller's handle, locking the
// row so concurrent redemptions of the same token serialize.
func (r *InvitationRepository) GetByToken(ctx context.Context, db *gorm.DB, token string) (*model.Invitation, error) {
	var invitation model.Invitation
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&invitation, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// GetSentForEmailBoard returns the Sent invitation for the (email, board)
// pair, matched case-insensitively, or nil when none exists. Expiry is the
// caller's concern; the row itself never changes when the window closes.
func (r *InvitationRepository) GetSentForEmailBoard(ctx context.Context, email string, boardID uuid.UUID) (*model.Invitation, error) {
	var invitation model.Invitation
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ? AND board_id = ? AND status = ?",
			strings.ToLower(email), boardID, model.InvitationSent).
		First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Invitation, error) {
	var invitations []model.Invitation
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

func (r *InvitationRepository) Update(ctx context.Context, invitation *model.Invitation) error {
	result := r.db.WithContext(ctx).Save(invitation)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
