package handler

import (
	"errors"
	"net/http"
	"time"

	"minitrello/internal/model"
	"minitrello/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cards    *service.Cards
	ordering *service.Ordering
}

func NewCardHandler(cards *service.Cards, ordering *service.Ordering) *CardHandler {
	return &CardHandler{cards: cards, ordering: ordering}
}

type CardRequest struct {
	ListID      string     `json:"list_id" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type CardUpdateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type CardMoveRequest struct {
	ListID          string `json:"list_id" binding:"required,uuid"`
	Position        *int   `json:"position" binding:"required,min=0"`
	ExpectedVersion *int   `json:"expected_version" binding:"required,min=1"`
}

type CardAssignRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type CardResponse struct {
	ID          string   `json:"id"`
	ListID      string   `json:"list_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	DueDate     *string  `json:"due_date,omitempty"`
	Order       int      `json:"order"`
	Version     int      `json:"version"`
	Assignees   []string `json:"assignees,omitempty"`
}

func cardResponse(card *model.Card) CardResponse {
	resp := CardResponse{
		ID:          card.ID.String(),
		ListID:      card.ListID.String(),
		Title:       card.Title,
		Description: card.Description,
		Priority:    card.Priority.String(),
		Order:       card.Order,
		Version:     card.Version,
	}
	if card.DueDate != nil {
		due := card.DueDate.Format(time.RFC3339)
		resp.DueDate = &due
	}
	for _, assignee := range card.Assignees {
		resp.Assignees = append(resp.Assignees, assignee.ID.String())
	}
	return resp
}

func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	listID, err := uuid.Parse(req.ListID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
		return
	}

	card, err := h.ordering.CreateCard(c.Request.Context(), userID, service.CreateCardInput{
		ListID:      listID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cardResponse(card))
}

func (h *CardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	card, err := h.cards.Get(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cardResponse(card))
}

func (h *CardHandler) GetByListID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
		return
	}

	cards, err := h.cards.ListForList(c.Request.Context(), userID, listID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	var req CardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	card, err := h.cards.Update(c.Request.Context(), userID, cardID, service.UpdateCardInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cardResponse(card))
}

// Move applies a drag-and-drop style move. On a version conflict the current
// card state comes back with the 409 so the client can refresh and retry.
func (h *CardHandler) Move(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	var req CardMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	targetListID, err := uuid.Parse(req.ListID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
		return
	}

	newVersion, err := h.ordering.MoveCard(c.Request.Context(), userID, cardID, targetListID, *req.Position, *req.ExpectedVersion)
	if err != nil {
		if errors.Is(err, service.ErrVersionConflict) {
			current, getErr := h.cards.Get(c.Request.Context(), userID, cardID)
			if getErr == nil {
				c.JSON(http.StatusConflict, gin.H{
					"error": err.Error(),
					"card":  cardResponse(current),
				})
				return
			}
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card moved", "version": newVersion})
}

func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	if err := h.ordering.DeleteCard(c.Request.Context(), userID, cardID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted"})
}

func (h *CardHandler) Assign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	var req CardAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	assigneeID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.cards.Assign(c.Request.Context(), userID, cardID, assigneeID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User assigned"})
}

func (h *CardHandler) Unassign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	assigneeID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.cards.Unassign(c.Request.Context(), userID, cardID, assigneeID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unassigned"})
}
