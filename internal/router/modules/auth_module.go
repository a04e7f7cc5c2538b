package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/passvault/internal/container"
	handlers "github.com/oksasatya/passvault/internal/interface/http"
	"github.com/oksasatya/passvault/internal/interface/middleware"
	"github.com/oksasatya/passvault/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/verify/confirm", perIP(30, middleware.KeyByIPAndPath()), m.Handler.VerifyConfirm)
	rg.POST("/auth/reset/init", perIP(5, middleware.KeyByIPAndPath()), m.Handler.ResetInit)
	rg.POST("/auth/reset/confirm", perIP(30, middleware.KeyByIPAndPath()), m.Handler.ResetConfirm)

	auth := protected(rg, m.JWT)
	auth.POST("/auth/verify/init",
		middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByUserID(), nil),
		m.Handler.VerifyInit)
}
