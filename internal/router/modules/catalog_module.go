package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/passvault/internal/interface/http"
	"github.com/oksasatya/passvault/pkg/helpers"
)

type CatalogModule struct {
	Handler *handlers.CatalogHandler
	JWT     *helpers.JWTManager
}

func NewCatalogModule(h *handlers.CatalogHandler, jwt *helpers.JWTManager) *CatalogModule {
	return &CatalogModule{Handler: h, JWT: jwt}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	auth := protected(rg, m.JWT)
	auth.GET("/catalog/categories", m.Handler.Categories)
	auth.GET("/catalog/account-types", m.Handler.AccountTypes)
	auth.GET("/catalog/subcategories", m.Handler.Subcategories)
}
