package repository

import (
	"context"
	"errors"

	"minitrello/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardRepository reads run on the repository's own handle; writes take the
// caller's handle so they can join the caller's transaction.
type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(ctx context.Context, db *gorm.DB, card *model.Card) error {
	return db.WithContext(ctx).Create(card).Error
}

// GetByListID retrieves all cards in a list, most important first, then by
// their position within the list.
func (r *CardRepository) GetByListID(ctx context.Context, listID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("priority").
		Order("sort_order").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// GetWithAssignees retrieves a card with its assignees preloaded.
func (r *CardRepository) GetWithAssignees(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).Preload("Assignees").First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

func (r *CardRepository) Update(ctx context.Context, db *gorm.DB, card *model.Card) error {
	result := db.WithContext(ctx).Save(card)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *CardRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	result := db.WithContext(ctx).Delete(&model.Card{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// AddAssignee links a user to a card
func (r *CardRepository) AddAssignee(ctx context.Context, db *gorm.DB, cardID, userID uuid.UUID) error {
	return db.WithContext(ctx).Exec(
		"INSERT INTO card_assignees (card_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		cardID, userID,
	).Error
}

// RemoveAssignee unlinks a user from a card
func (r *CardRepository) RemoveAssignee(ctx context.Context, db *gorm.DB, cardID, userID uuid.UUID) error {
	return db.WithContext(ctx).Exec(
		"DELETE FROM card_assignees WHERE card_id = ? AND user_id = ?",
		cardID, userID,
	).Error
}
