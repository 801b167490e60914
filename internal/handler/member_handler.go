package handler

import (
	"net/http"

	"minitrello/internal/model"
	"minitrello/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MemberHandler struct {
	members *service.Members
}

func NewMemberHandler(members *service.Members) *MemberHandler {
	return &MemberHandler{members: members}
}

type MemberResponse struct {
	MembershipID string `json:"membership_id"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	CanEdit      bool   `json:"can_edit"`
	CanComment   bool   `json:"can_comment"`
	CanInvite    bool   `json:"can_invite"`
}

func memberResponse(m *model.Membership) MemberResponse {
	return MemberResponse{
		MembershipID: m.ID.String(),
		UserID:       m.UserID.String(),
		Email:        m.User.Email,
		Name:         m.User.Name,
		Role:         m.Role.String(),
		CanEdit:      m.CanEdit,
		CanComment:   m.CanComment,
		CanInvite:    m.CanInvite,
	}
}

func (h *MemberHandler) GetBoardMembers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	memberships, err := h.members.List(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MemberResponse, len(memberships))
	for i := range memberships {
		response[i] = memberResponse(&memberships[i])
	}
	c.JSON(http.StatusOK, response)
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member viewer"`
}

func roleFromString(s string) model.Role {
	switch s {
	case "admin":
		return model.RoleAdmin
	case "member":
		return model.RoleMember
	case "viewer":
		return model.RoleViewer
	}
	return 0
}

func (h *MemberHandler) ChangeRole(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	membershipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid membership ID format"})
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	membership, err := h.members.ChangeRole(c.Request.Context(), userID, membershipID, roleFromString(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"membership_id": membership.ID,
		"role":          membership.Role.String(),
	})
}

func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	membershipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid membership ID format"})
		return
	}

	if err := h.members.Remove(c.Request.Context(), userID, membershipID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
