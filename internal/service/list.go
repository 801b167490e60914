package service

import (
	"context"

	"minitrello/internal/model"
	"minitrello/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lists covers the non-structural list operations. Creation, moves and
// deletion live in Ordering.
type Lists struct {
	db       *gorm.DB
	authz    *Authorizer
	listRepo *repository.ListRepository
}

func NewLists(db *gorm.DB, authz *Authorizer, listRepo *repository.ListRepository) *Lists {
	return &Lists{db: db, authz: authz, listRepo: listRepo}
}

// ForBoard returns a board's lists in order. Viewer minimum.
func (s *Lists) ForBoard(ctx context.Context, principal, boardID uuid.UUID) ([]model.List, error) {
	if _, err := s.authz.Authorize(ctx, principal, boardID, CapViewBoard); err != nil {
		return nil, err
	}
	return s.listRepo.GetByBoardID(ctx, boardID)
}

// Rename changes a list title. Member minimum.
func (s *Lists) Rename(ctx context.Context, principal, listID uuid.UUID, title string) (*model.List, error) {
	if title == "" {
		return nil, ErrValidation
	}
	var renamed *model.List
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, _, err := s.authz.AuthorizeList(ctx, tx, principal, listID, CapUpdateList)
		if err != nil {
			return err
		}
		list.Title = title
		if err := s.listRepo.Update(ctx, tx, list); err != nil {
			return err
		}
		renamed = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}
