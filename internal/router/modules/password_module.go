package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/passvault/internal/interface/http"
	"github.com/oksasatya/passvault/pkg/helpers"
)

// PasswordModule serves the vault list, record CRUD and the change stream.
type PasswordModule struct {
	Handler *handlers.PasswordHandler
	JWT     *helpers.JWTManager
}

func NewPasswordModule(h *handlers.PasswordHandler, jwt *helpers.JWTManager) *PasswordModule {
	return &PasswordModule{Handler: h, JWT: jwt}
}

func (m *PasswordModule) Register(rg *gin.RouterGroup) {
	auth := protected(rg, m.JWT)
	{
		auth.GET("/passwords", m.Handler.List)
		auth.POST("/passwords", m.Handler.Create)
		auth.GET("/passwords/events", m.Handler.Events)
		auth.GET("/passwords/:id", m.Handler.Get)
		auth.PATCH("/passwords/:id", m.Handler.Update)
		auth.DELETE("/passwords/:id", m.Handler.Delete)
	}
}
