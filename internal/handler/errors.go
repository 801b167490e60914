package handler

import (
	"errors"
	"net/http"

	"minitrello/internal/middleware"
	"minitrello/internal/repository"
	"minitrello/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// currentUser extracts the authenticated user id set by the JWT middleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}

// respondError maps service and repository errors to HTTP statuses. Missing
// membership and missing objects collapse to 404 so existence is never
// confirmed to outsiders, while InsufficientRole stays a distinct 403.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAMember),
		errors.Is(err, repository.ErrBoardNotFound),
		errors.Is(err, repository.ErrListNotFound),
		errors.Is(err, repository.ErrCardNotFound),
		errors.Is(err, repository.ErrMembershipNotFound),
		errors.Is(err, repository.ErrInvitationNotFound),
		errors.Is(err, service.ErrInvitationNotFound),
		errors.Is(err, service.ErrInvitationExpired):
		logAuthFailure(c, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})

	case errors.Is(err, service.ErrInsufficientRole),
		errors.Is(err, service.ErrCannotModifyOwner),
		errors.Is(err, service.ErrCannotRemoveOwner):
		logAuthFailure(c, err)
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrVersionConflict),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrDuplicatePending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrAssigneeNotMember),
		errors.Is(err, service.ErrBoardLimitReached):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// logAuthFailure records denials; the services themselves are pure decision
// functions and leave this to the HTTP layer.
func logAuthFailure(c *gin.Context, err error) {
	if !errors.Is(err, service.ErrNotAMember) &&
		!errors.Is(err, service.ErrInsufficientRole) &&
		!errors.Is(err, service.ErrCannotModifyOwner) &&
		!errors.Is(err, service.ErrCannotRemoveOwner) {
		return
	}
	userID, _ := c.Get(middleware.UserIDKey)
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"path":    c.FullPath(),
	}).Warn("Authorization denied: ", err)
}
