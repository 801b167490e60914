package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"minitrello/internal/repository"
	"minitrello/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		code int
	}{
		{service.ErrNotAMember, http.StatusNotFound},
		{repository.ErrBoardNotFound, http.StatusNotFound},
		{repository.ErrCardNotFound, http.StatusNotFound},
		{service.ErrInvitationNotFound, http.StatusNotFound},
		{service.ErrInvitationExpired, http.StatusNotFound},
		{service.ErrInsufficientRole, http.StatusForbidden},
		{service.ErrCannotModifyOwner, http.StatusForbidden},
		{service.ErrCannotRemoveOwner, http.StatusForbidden},
		{service.ErrVersionConflict, http.StatusConflict},
		{service.ErrAlreadyMember, http.StatusConflict},
		{service.ErrDuplicatePending, http.StatusConflict},
		{service.ErrValidation, http.StatusBadRequest},
		{service.ErrInvalidTarget, http.StatusBadRequest},
		{service.ErrInvalidRole, http.StatusBadRequest},
		{service.ErrAssigneeNotMember, http.StatusBadRequest},
		{service.ErrBoardLimitReached, http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		resp := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(resp)
		c.Request = httptest.NewRequest("GET", "/", nil)

		respondError(c, tc.err)

		assert.Equal(t, tc.code, resp.Code, "error %v", tc.err)
	}
}

func TestRespondError_NotAMemberHidesExistence(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	c.Request = httptest.NewRequest("GET", "/", nil)

	respondError(c, service.ErrNotAMember)

	// The body must not leak whether the board exists.
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NotContains(t, resp.Body.String(), "member")
}
