package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/passvault/internal/domain/entity"
	"github.com/oksasatya/passvault/pkg/helpers"
	"github.com/oksasatya/passvault/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserID    = "userID"
	CtxUserName  = "userName"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)

type sessionReader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// Auth validates the access token cookie and requires a live Redis session
// whose sid matches the token. Refreshing rotates the sid, so older access
// tokens stop working.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	var sessions sessionReader
	if rdb != nil {
		sessions = rdb
	}
	return authenticate(sessions, jwt)
}

func authenticate(sessions sessionReader, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.AccessCookie)
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		if sessions == nil {
			response.Abort(c, http.StatusServiceUnavailable, "sessions unavailable", nil)
			return
		}

		data, err := sessions.HGetAll(c.Request.Context(), helpers.KeySession(claims.UserID)).Result()
		if err != nil || len(data) == 0 {
			response.Abort(c, http.StatusUnauthorized, "session not found", nil)
			return
		}
		if !sessionMatches(data, claims) {
			response.Abort(c, http.StatusUnauthorized, "session expired", nil)
			return
		}

		role := data["role"]
		if role == "" {
			role = entity.RoleUser
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserName, data["name"])
		c.Set(CtxUserEmail, data["email"])
		c.Set(CtxUserRole, role)
		c.Next()
	}
}

// sessionMatches requires the stored sid to equal the token's. A session
// without a sid never matches.
func sessionMatches(data map[string]string, claims *helpers.Claims) bool {
	sid := data["sid"]
	return sid != "" && sid == claims.SessionID
}
