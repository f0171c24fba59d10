package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/validator"
)

// ChatHandler handles the REST side of section chat. Live delivery goes
// through the websocket hub; these endpoints cover history and clients
// without a socket.
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessage godoc
// POST /api/v1/sections/:section_id/chat
func (h *ChatHandler) SendMessage(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "section_id")
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	msg, err := h.chatService.Send(c.Request.Context(), claims, sectionID, req.Body, claims.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotParticipant):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

// History godoc
// GET /api/v1/sections/:section_id/chat
// Oldest-first within the requested page.
func (h *ChatHandler) History(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "section_id")
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	messages, pagination, err := h.chatService.History(c.Request.Context(), claims, sectionID, page, perPage)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotParticipant):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"messages": messages}, pagination)
}
