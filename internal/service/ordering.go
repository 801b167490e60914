package service

import (
	"context"
	"errors"
	"time"

	"minitrello/internal/model"
	"minitrello/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ordering maintains the per-container ordering of cards and lists. Every
// structural change runs in a single transaction with row locks on the
// affected container, so concurrent moves into the same list serialize while
// moves into different lists proceed in parallel.
type Ordering struct {
	db       *gorm.DB
	authz    *Authorizer
	listRepo *repository.ListRepository
	cardRepo *repository.CardRepository
}

func NewOrdering(db *gorm.DB, authz *Authorizer, listRepo *repository.ListRepository, cardRepo *repository.CardRepository) *Ordering {
	return &Ordering{db: db, authz: authz, listRepo: listRepo, cardRepo: cardRepo}
}

type CreateListInput struct {
	BoardID uuid.UUID
	Title   string
}

type CreateCardInput struct {
	ListID      uuid.UUID
	Title       string
	Description string
	Priority    model.Priority
	DueDate     *time.Time
}

// CreateList appends a list to the board at max(order)+1. The appended value
// is strictly greater than every existing order; dense renumbering happens on
// the next move.
func (s *Ordering) CreateList(ctx context.Context, principal uuid.UUID, in CreateListInput) (*model.List, error) {
	if in.Title == "" {
		return nil, ErrValidation
	}

	var list *model.List
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.authz.AuthorizeTx(ctx, tx, principal, in.BoardID, CapCreateList); err != nil {
			return err
		}

		next, err := nextOrder(tx, &model.List{}, "board_id = ?", in.BoardID)
		if err != nil {
			return err
		}

		list = &model.List{
			ID:      uuid.New(),
			BoardID: in.BoardID,
			Title:   in.Title,
			Order:   next,
		}
		return s.listRepo.Create(ctx, tx, list)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// CreateCard appends a card to a list at max(order)+1. The due date, when
// present, must lie in the future.
func (s *Ordering) CreateCard(ctx context.Context, principal uuid.UUID, in CreateCardInput) (*model.Card, error) {
	if in.Title == "" {
		return nil, ErrValidation
	}
	if in.Priority == 0 {
		in.Priority = model.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, ErrValidation
	}
	if in.DueDate != nil && !in.DueDate.After(time.Now()) {
		return nil, ErrValidation
	}

	var card *model.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := s.authz.AuthorizeList(ctx, tx, principal, in.ListID, CapCreateCard); err != nil {
			return err
		}

		next, err := nextOrder(tx, &model.Card{}, "list_id = ?", in.ListID)
		if err != nil {
			return err
		}

		card = &model.Card{
			ID:          uuid.New(),
			ListID:      in.ListID,
			Title:       in.Title,
			Description: in.Description,
			Priority:    in.Priority,
			DueDate:     in.DueDate,
			Order:       next,
			Version:     1,
		}
		return s.cardRepo.Create(ctx, tx, card)
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// MoveCard places a card at targetIndex within targetList and returns the new
// card version. The caller supplies the version it last observed; a mismatch
// against the freshly locked row fails with ErrVersionConflict and nothing is
// applied. The whole target list is renumbered densely from 0, so no two
// cards in a list ever share an order value.
//
// targetIndex is clamped to [0, len(list)] instead of rejected: a drag UI can
// race against other moves and send a stale index, and clamping to append
// keeps it responsive.
func (s *Ordering) MoveCard(ctx context.Context, principal uuid.UUID, cardID, targetListID uuid.UUID, targetIndex, expectedVersion int) (int, error) {
	var newVersion int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&card, "id = ?", cardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidTarget
			}
			return err
		}

		var sourceList model.List
		if err := tx.First(&sourceList, "id = ?", card.ListID).Error; err != nil {
			return err
		}
		if _, err := s.authz.AuthorizeTx(ctx, tx, principal, sourceList.BoardID, CapMoveCard); err != nil {
			return err
		}

		var targetList model.List
		if err := tx.First(&targetList, "id = ?", targetListID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidTarget
			}
			return err
		}
		if targetList.BoardID != sourceList.BoardID {
			return ErrInvalidTarget
		}

		if card.Version != expectedVersion {
			return ErrVersionConflict
		}

		// Lock the target list's cards to serialize concurrent moves into it.
		var siblings []model.Card
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("list_id = ? AND id <> ?", targetListID, card.ID).
			Order("sort_order").
			Find(&siblings).Error; err != nil {
			return err
		}

		idx := targetIndex
		if idx < 0 {
			idx = 0
		}
		if idx > len(siblings) {
			idx = len(siblings)
		}

		card.ListID = targetListID
		card.Version++

		ordered := make([]*model.Card, 0, len(siblings)+1)
		for i := range siblings {
			if i == idx {
				ordered = append(ordered, &card)
			}
			ordered = append(ordered, &siblings[i])
		}
		if idx == len(siblings) {
			ordered = append(ordered, &card)
		}

		for i, c := range ordered {
			if c.ID == card.ID {
				if err := tx.Model(&model.Card{}).Where("id = ?", c.ID).
					Updates(map[string]interface{}{
						"list_id":    card.ListID,
						"sort_order": i,
						"version":    card.Version,
					}).Error; err != nil {
					return err
				}
				continue
			}
			if c.Order == i {
				continue
			}
			if err := tx.Model(&model.Card{}).Where("id = ?", c.ID).
				Update("sort_order", i).Error; err != nil {
				return err
			}
		}

		newVersion = card.Version
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

// MoveList places a list at targetIndex within its board and renumbers all of
// the board's lists densely. Lists carry no version token; last write wins.
func (s *Ordering) MoveList(ctx context.Context, principal uuid.UUID, listID uuid.UUID, targetIndex int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list model.List
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&list, "id = ?", listID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidTarget
			}
			return err
		}
		if _, err := s.authz.AuthorizeTx(ctx, tx, principal, list.BoardID, CapMoveList); err != nil {
			return err
		}

		var siblings []model.List
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("board_id = ? AND id <> ?", list.BoardID, list.ID).
			Order("sort_order").
			Find(&siblings).Error; err != nil {
			return err
		}

		idx := targetIndex
		if idx < 0 {
			idx = 0
		}
		if idx > len(siblings) {
			idx = len(siblings)
		}

		ordered := make([]*model.List, 0, len(siblings)+1)
		for i := range siblings {
			if i == idx {
				ordered = append(ordered, &list)
			}
			ordered = append(ordered, &siblings[i])
		}
		if idx == len(siblings) {
			ordered = append(ordered, &list)
		}

		for i, l := range ordered {
			if l.Order == i {
				continue
			}
			if err := tx.Model(&model.List{}).Where("id = ?", l.ID).
				Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteList removes a list and (by cascade) its cards. Admin minimum.
func (s *Ordering) DeleteList(ctx context.Context, principal uuid.UUID, listID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, _, err := s.authz.AuthorizeList(ctx, tx, principal, listID, CapDeleteList)
		if err != nil {
			return err
		}
		return s.listRepo.Delete(ctx, tx, list.ID)
	})
}

// DeleteCard removes a single card. Member minimum.
func (s *Ordering) DeleteCard(ctx context.Context, principal uuid.UUID, cardID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, _, err := s.authz.AuthorizeCard(ctx, tx, principal, cardID, CapDeleteCard)
		if err != nil {
			return err
		}
		return s.cardRepo.Delete(ctx, tx, card.ID)
	})
}

// nextOrder returns max(sort_order)+1 within the container, or 0 when empty.
func nextOrder(tx *gorm.DB, m interface{}, query string, arg interface{}) (int, error) {
	var row struct {
		Next int
	}
	err := tx.Model(m).
		Select("COALESCE(MAX(sort_order), -1) + 1 AS next").
		Where(query, arg).
		Scan(&row).Error
	return row.Next, err
}
