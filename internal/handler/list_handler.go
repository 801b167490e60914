package handler

import (
	"net/http"

	"minitrello/internal/model"
	"minitrello/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListHandler struct {
	lists    *service.Lists
	ordering *service.Ordering
}

func NewListHandler(lists *service.Lists, ordering *service.Ordering) *ListHandler {
	return &ListHandler{lists: lists, ordering: ordering}
}

type ListRequest struct {
	BoardID string `json:"board_id" binding:"required,uuid"`
	Title   string `json:"title" binding:"required"`
}

type ListResponse struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	Title   string `json:"title"`
	Order   int    `json:"order"`
}

func listResponse(l *model.List) ListResponse {
	return ListResponse{
		ID:      l.ID.String(),
		BoardID: l.BoardID.String(),
		Title:   l.Title,
		Order:   l.Order,
	}
}

func (h *ListHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req ListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	list, err := h.ordering.CreateList(c.Request.Context(), userID, service.CreateListInput{
		BoardID: boardID,
		Title:   req.Title,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, listResponse(list))
}

func (h *ListHandler) GetByBoardID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	lists, err := h.lists.ForBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ListResponse, len(lists))
	for i := range lists {
		response[i] = listResponse(&lists[i])
	}
	c.JSON(http.StatusOK, response)
}

type ListRenameRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *ListHandler) Rename(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
		return
	}

	var req ListRenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	list, err := h.lists.Rename(c.Request.Context(), userID, listID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(list))
}

type ListMoveRequest struct {
	Position *int `json:"position" binding:"required,min=0"`
}

func (h *ListHandler) Move(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
		return
	}

	var req ListMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.ordering.MoveList(c.Request.Context(), userID, listID, *req.Position); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List moved"})
}

func (h *ListHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
		return
	}

	if err := h.ordering.DeleteList(c.Request.Context(), userID, listID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List deleted"})
}
