package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/passvault/internal/interface/http"
	"github.com/oksasatya/passvault/pkg/helpers"
)

type GeneratorModule struct {
	Handler *handlers.GeneratorHandler
	JWT     *helpers.JWTManager
}

func NewGeneratorModule(h *handlers.GeneratorHandler, jwt *helpers.JWTManager) *GeneratorModule {
	return &GeneratorModule{Handler: h, JWT: jwt}
}

func (m *GeneratorModule) Register(rg *gin.RouterGroup) {
	auth := protected(rg, m.JWT)
	auth.POST("/generator", m.Handler.Generate)
	auth.POST("/generator/strength", m.Handler.Strength)
}
