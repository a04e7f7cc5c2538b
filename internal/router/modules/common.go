package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/passvault/internal/container"
	"github.com/oksasatya/passvault/internal/interface/middleware"
	"github.com/oksasatya/passvault/pkg/helpers"
)

// protected returns a group behind session auth plus the default per-IP and
// per-user limits shared by every authenticated route.
func protected(rg *gin.RouterGroup, jwt *helpers.JWTManager) *gin.RouterGroup {
	rdb := container.GetRedis()
	g := rg.Group("/")
	g.Use(
		middleware.Auth(rdb, jwt),
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowRole("admin")),
	)
	return g
}

func perIP(max int, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(container.GetRedis(), max, time.Minute, key, nil)
}
