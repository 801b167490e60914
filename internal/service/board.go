package service

import (
	"context"
	"time"

	"minitrello/internal/model"
	"minitrello/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Boards owns the board lifecycle. Creating a board also creates the Owner
// membership in the same transaction, keeping the one-owner-per-board
// invariant from the first commit.
type Boards struct {
	db             *gorm.DB
	authz          *Authorizer
	boardRepo      *repository.BoardRepository
	membershipRepo *repository.MembershipRepository

	// maxOwned caps boards per owner; 0 disables the cap.
	maxOwned int
}

func NewBoards(db *gorm.DB, authz *Authorizer, boardRepo *repository.BoardRepository, membershipRepo *repository.MembershipRepository, maxOwned int) *Boards {
	return &Boards{db: db, authz: authz, boardRepo: boardRepo, membershipRepo: membershipRepo, maxOwned: maxOwned}
}

type BoardInput struct {
	Title       string
	Description string
	Color       string
}

func (s *Boards) Create(ctx context.Context, principal uuid.UUID, in BoardInput) (*model.Board, error) {
	if in.Title == "" {
		return nil, ErrValidation
	}
	if in.Color == "" {
		in.Color = model.ColorBlue
	}
	if !model.ValidColor(in.Color) {
		return nil, ErrValidation
	}

	if s.maxOwned > 0 {
		count, err := s.boardRepo.CountOwned(ctx, principal)
		if err != nil {
			return nil, err
		}
		if count >= int64(s.maxOwned) {
			return nil, ErrBoardLimitReached
		}
	}

	now := time.Now()
	board := &model.Board{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		OwnerID:     principal,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.boardRepo.Create(ctx, tx, board); err != nil {
			return err
		}
		membership := &model.Membership{
			ID:         uuid.New(),
			BoardID:    board.ID,
			UserID:     principal,
			Role:       model.RoleOwner,
			IsActive:   true,
			AcceptedAt: &now,
			CanEdit:    true,
			CanComment: true,
			CanInvite:  true,
		}
		return s.membershipRepo.Create(ctx, tx, membership)
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (s *Boards) Get(ctx context.Context, principal, boardID uuid.UUID) (*model.Board, error) {
	if _, err := s.authz.Authorize(ctx, principal, boardID, CapViewBoard); err != nil {
		return nil, err
	}
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, repository.ErrBoardNotFound
	}
	return board, nil
}

// ListForUser returns the boards the user is an active member of, owned
// boards included.
func (s *Boards) ListForUser(ctx context.Context, principal uuid.UUID) ([]model.Board, error) {
	return s.boardRepo.GetForUser(ctx, principal)
}

func (s *Boards) Update(ctx context.Context, principal, boardID uuid.UUID, in BoardInput) (*model.Board, error) {
	if _, err := s.authz.Authorize(ctx, principal, boardID, CapUpdateBoard); err != nil {
		return nil, err
	}
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, repository.ErrBoardNotFound
	}

	if in.Title != "" {
		board.Title = in.Title
	}
	if in.Color != "" {
		if !model.ValidColor(in.Color) {
			return nil, ErrValidation
		}
		board.Color = in.Color
	}
	board.Description = in.Description

	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// Delete removes a board and, by cascade, its lists, cards, memberships and
// invitations.
func (s *Boards) Delete(ctx context.Context, principal, boardID uuid.UUID) error {
	if _, err := s.authz.Authorize(ctx, principal, boardID, CapDeleteBoard); err != nil {
		return err
	}
	return s.boardRepo.Delete(ctx, boardID)
}
