package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/passvault/internal/interface/http"
	"github.com/oksasatya/passvault/internal/interface/middleware"
	"github.com/oksasatya/passvault/pkg/helpers"
)

// UserModule wires account and profile routes.
// Public: POST /api/auth/signup, POST /api/login, POST /api/refresh
// Protected: POST /api/logout, GET|PUT /api/profile, POST /api/profile/avatar
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", perIP(5, middleware.KeyByIPAndPath()), m.Handler.SignUp)
	rg.POST("/login", perIP(10, middleware.KeyByIP()), m.Handler.Login)
	rg.POST("/refresh", perIP(60, middleware.KeyByIP()), m.Handler.Refresh)

	auth := protected(rg, m.JWT)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
	}
}
