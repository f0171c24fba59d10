package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/validator"
)

// AuthHandler handles login, token refresh, and password changes.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		case errors.Is(err, service.ErrAccountDisabled):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, model.LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Account:      *account,
	})
}

// Refresh godoc
// POST /api/v1/auth/refresh
// Rotates the refresh token: the presented token is invalidated and a
// fresh pair is issued.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshInvalid):
			response.Fail(c, http.StatusUnauthorized, response.ErrRefreshInvalid)
		case errors.Is(err, service.ErrAccountDisabled):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, model.LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Account:      *account,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the caller's refresh token. The access token stays valid until
// it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.AccountID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// ChangePassword godoc
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), claims.AccountID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"changed": true})
}

// Me godoc
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"account_id": claims.AccountID,
		"email":      claims.Email,
		"role":       claims.Role,
		"role_id":    claims.RoleID,
	})
}
