package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/passvault/internal/domain/entity"
	"github.com/oksasatya/passvault/pkg/response"
)

// RequireRole lets the request through only when Auth stored one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		have := c.GetString(CtxUserRole)
		for _, r := range roles {
			if have == r {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "insufficient role", nil)
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(entity.RoleAdmin)
}
