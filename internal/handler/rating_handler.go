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

// RatingHandler handles star ratings for sections and lectures.
type RatingHandler struct {
	ratingService *service.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// ratingTarget parses the :target path segment.
func ratingTarget(c *gin.Context) (model.RatingTarget, bool) {
	target := model.RatingTarget(c.Param("target"))
	if target != model.RatingTargetSection && target != model.RatingTargetLecture {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return "", false
	}
	return target, true
}

// Rate godoc
// PUT /api/v1/ratings/:target/:target_id
// Creates or overwrites the caller's rating. One rating per student per
// target; repeat calls update the stars and comment.
func (h *RatingHandler) Rate(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	target, ok := ratingTarget(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "target_id")
	if !ok {
		return
	}

	var req model.RateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rating, err := h.ratingService.Rate(c.Request.Context(), claims.RoleID, target, targetID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotVisible):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rating": rating})
}

// DeleteRating godoc
// DELETE /api/v1/ratings/:target/:target_id
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	target, ok := ratingTarget(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "target_id")
	if !ok {
		return
	}

	if err := h.ratingService.Delete(c.Request.Context(), claims.RoleID, target, targetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GetSummary godoc
// GET /api/v1/ratings/:target/:target_id/summary
// Served from the cached aggregate when warm.
func (h *RatingHandler) GetSummary(c *gin.Context) {
	target, ok := ratingTarget(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "target_id")
	if !ok {
		return
	}

	summary, err := h.ratingService.GetSummary(c.Request.Context(), target, targetID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// ListRatings godoc
// GET /api/v1/ratings/:target/:target_id
func (h *RatingHandler) ListRatings(c *gin.Context) {
	target, ok := ratingTarget(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "target_id")
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	ratings, pagination, err := h.ratingService.List(c.Request.Context(), target, targetID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"ratings": ratings}, pagination)
}
