package service

import "errors"

// Errors returned by the services and mapped to HTTP statuses by the
// handlers. Authorization failures keep NotAMember and InsufficientRole
// distinct so the caller can choose between 404 and 403.
var (
	// ErrNotAMember is returned when the principal holds no active membership
	// on the target board. Callers surface it as not-found so board existence
	// is never confirmed to outsiders.
	ErrNotAMember = errors.New("not a member of this board")

	// ErrInsufficientRole is returned when the principal is a member but the
	// resolved role does not meet the capability's minimum.
	ErrInsufficientRole = errors.New("insufficient role for this operation")

	// ErrVersionConflict is returned when a move carries a stale card version.
	// Retryable: re-read the card and re-issue the move.
	ErrVersionConflict = errors.New("card was modified concurrently")

	// ErrInvalidTarget is returned for a missing card/list or a cross-board move.
	ErrInvalidTarget = errors.New("invalid move target")

	// Protected-invariant violations, never retryable.
	ErrCannotModifyOwner = errors.New("the owner membership cannot be modified")
	ErrCannotRemoveOwner = errors.New("the owner membership cannot be removed")

	// ErrInvalidRole is returned for an unknown role or an attempt to grant Owner.
	ErrInvalidRole = errors.New("invalid role")

	// Invitation business rules.
	ErrAlreadyMember      = errors.New("user is already an active member of this board")
	ErrDuplicatePending   = errors.New("a pending invitation already exists for this email")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")

	// ErrValidation covers malformed input (bad color, past due date, ...).
	ErrValidation = errors.New("validation failed")

	// ErrAssigneeNotMember is returned when a card assignee does not hold an
	// active membership on the card's board.
	ErrAssigneeNotMember = errors.New("assignee is not an active member of the board")

	// ErrBoardLimitReached is returned when the per-owner board cap is hit.
	ErrBoardLimitReached = errors.New("board limit reached")
)
