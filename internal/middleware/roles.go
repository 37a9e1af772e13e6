package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/response"
)

// RequireRole checks that the authenticated user holds one of the given
// roles. Must run after RequireAuth.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, roleErrCode(roles))
	}
}

// roleErrCode picks the most specific error code for a single-role
// guard, falling back to the generic one for multi-role guards.
func roleErrCode(roles []model.Role) response.ErrCode {
	if len(roles) != 1 {
		return response.ErrForbidden
	}
	switch roles[0] {
	case model.RoleTeacher:
		return response.ErrTeacherAccessOnly
	case model.RoleStudent:
		return response.ErrStudentAccessOnly
	case model.RoleAdmin:
		return response.ErrAdminAccessOnly
	default:
		return response.ErrForbidden
	}
}
