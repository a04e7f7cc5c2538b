package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/passvault/internal/interface/http"
	"github.com/oksasatya/passvault/internal/interface/middleware"
	"github.com/oksasatya/passvault/pkg/helpers"
)

// AdminModule mounts user, catalog and email maintenance under /api/admin.
// Every route requires the admin role.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Email   *handlers.EmailHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, email *handlers.EmailHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, Email: email, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := protected(rg, m.JWT).Group("/admin", middleware.AdminOnly())
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.GET("/users/search", m.Handler.SearchUsers)
		admin.POST("/users", m.Handler.CreateUser)
		admin.DELETE("/users/:id", m.Handler.DeleteUser)
		admin.PUT("/users/:id/role", m.Handler.SetRole)

		admin.POST("/categories", m.Handler.CreateCategory)
		admin.PUT("/categories/:id/active", m.Handler.SetCategoryActive)

		admin.POST("/email/send", m.Email.Send)
	}
}
