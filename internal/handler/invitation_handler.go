package handler

import (
	"net/http"
	"time"

	"minitrello/internal/model"
	"minitrello/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvitationHandler struct {
	invitations *service.Invitations
}

func NewInvitationHandler(invitations *service.Invitations) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

type InvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type InvitationResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	BoardID   string `json:"board_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func invitationResponse(i *model.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:        i.ID.String(),
		Email:     i.Email,
		BoardID:   i.BoardID.String(),
		Status:    i.Status,
		CreatedAt: i.CreatedAt.Format(time.RFC3339),
	}
}

// Create issues an invitation for the board. The token never appears in the
// response; it travels by email only.
func (h *InvitationHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	var req InvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	invitation, err := h.invitations.Create(c.Request.Context(), userID, boardID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitationResponse(invitation))
}

func (h *InvitationHandler) GetBoardInvitations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	invitations, err := h.invitations.ForBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]InvitationResponse, len(invitations))
	for i := range invitations {
		response[i] = invitationResponse(&invitations[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *InvitationHandler) Accept(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	membership, err := h.invitations.Accept(c.Request.Context(), token, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"membership_id": membership.ID,
		"board_id":      membership.BoardID,
		"role":          membership.Role.String(),
	})
}
