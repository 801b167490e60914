package service

import (
	"context"
	"errors"
	"time"

	"minitrello/internal/model"
	"minitrello/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cards handles card edits and assignee management. Moving cards between
// lists lives in Ordering; everything here stays within one card.
type Cards struct {
	db       *gorm.DB
	authz    *Authorizer
	cardRepo *repository.CardRepository
}

func NewCards(db *gorm.DB, authz *Authorizer, cardRepo *repository.CardRepository) *Cards {
	return &Cards{db: db, authz: authz, cardRepo: cardRepo}
}

type UpdateCardInput struct {
	Title       string
	Description string
	Priority    model.Priority
	DueDate     *time.Time
}

// Get returns a card with its assignees. Viewer minimum.
func (s *Cards) Get(ctx context.Context, principal, cardID uuid.UUID) (*model.Card, error) {
	if _, _, err := s.authz.AuthorizeCard(ctx, s.db, principal, cardID, CapViewBoard); err != nil {
		return nil, err
	}
	return s.cardRepo.GetWithAssignees(ctx, cardID)
}

// ListForList returns the cards of a list, most important first. Viewer minimum.
func (s *Cards) ListForList(ctx context.Context, principal, listID uuid.UUID) ([]model.Card, error) {
	if _, _, err := s.authz.AuthorizeList(ctx, s.db, principal, listID, CapViewBoard); err != nil {
		return nil, err
	}
	return s.cardRepo.GetByListID(ctx, listID)
}

// Update edits a card's own fields. Member minimum. Moves (list or order
// changes) are rejected here; they go through Ordering.MoveCard so the
// version token and renumbering stay consistent.
func (s *Cards) Update(ctx context.Context, principal, cardID uuid.UUID, in UpdateCardInput) (*model.Card, error) {
	var updated *model.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, _, err := s.authz.AuthorizeCard(ctx, tx, principal, cardID, CapUpdateCard)
		if err != nil {
			return err
		}

		if in.Title != "" {
			card.Title = in.Title
		}
		card.Description = in.Description
		if in.Priority != 0 {
			if !in.Priority.Valid() {
				return ErrValidation
			}
			card.Priority = in.Priority
		}
		if in.DueDate != nil {
			if !in.DueDate.After(time.Now()) {
				return ErrValidation
			}
			card.DueDate = in.DueDate
		}

		if err := s.cardRepo.Update(ctx, tx, card); err != nil {
			return err
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Assign links a user to a card. The assignee must hold an active membership
// on the card's board; violations are rejected, never silently dropped.
func (s *Cards) Assign(ctx context.Context, principal, cardID, assigneeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, boardID, err := s.authz.AuthorizeCard(ctx, tx, principal, cardID, CapUpdateCard)
		if err != nil {
			return err
		}

		var membership model.Membership
		err = tx.Where("user_id = ? AND board_id = ? AND is_active = ?", assigneeID, boardID, true).
			First(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The board owner needs no membership row to count as a member.
			var board model.Board
			if ownerErr := tx.First(&board, "id = ? AND owner_id = ?", boardID, assigneeID).Error; ownerErr != nil {
				if errors.Is(ownerErr, gorm.ErrRecordNotFound) {
					return ErrAssigneeNotMember
				}
				return ownerErr
			}
		} else if err != nil {
			return err
		}

		return s.cardRepo.AddAssignee(ctx, tx, card.ID, assigneeID)
	})
}

// Unassign unlinks a user from a card. Member minimum.
func (s *Cards) Unassign(ctx context.Context, principal, cardID, assigneeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, _, err := s.authz.AuthorizeCard(ctx, tx, principal, cardID, CapUpdateCard)
		if err != nil {
			return err
		}
		return s.cardRepo.RemoveAssignee(ctx, tx, card.ID, assigneeID)
	})
}
