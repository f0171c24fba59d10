package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/middleware"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
)

// pageParams reads ?page and ?per_page with the usual defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	return page, perPage
}

// pathID parses a UUID path parameter. On failure it writes the 400
// response itself and returns ok=false.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// mustClaims returns the authenticated claims or writes a 401. Routes
// behind RequireAuth always have claims; this guards direct handler use.
func mustClaims(c *gin.Context) (*service.Claims, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	return claims, true
}

// lecturerScope maps claims to the lecturer ID used for ownership
// checks. Admins get 0, which services treat as "bypass ownership".
func lecturerScope(claims *service.Claims) int {
	if claims.Role == model.RoleAdmin {
		return 0
	}
	return claims.RoleID
}

// lecturerFilter maps claims to a list filter: nil means "all"
// (admins), otherwise only the caller's own resources.
func lecturerFilter(claims *service.Claims) *int {
	if claims.Role == model.RoleAdmin {
		return nil
	}
	id := claims.RoleID
	return &id
}
