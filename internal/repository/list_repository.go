package repository

import (
	"context"

	"minitrello/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListRepository reads run on the repository's own handle; writes take the
// caller's handle so they can join the caller's transaction.
type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) Create(ctx context.Context, db *gorm.DB, list *model.List) error {
	return db.WithContext(ctx).Create(list).Error
}

func (r *ListRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.List, error) {
	var lists []model.List
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("sort_order").Find(&lists).Error
	return lists, err
}

func (r *ListRepository) Update(ctx context.Context, db *gorm.DB, list *model.List) error {
	return db.WithContext(ctx).Save(list).Error
}

func (r *ListRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	result := db.WithContext(ctx).Delete(&model.List{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrListNotFound
	}
	return nil
}
