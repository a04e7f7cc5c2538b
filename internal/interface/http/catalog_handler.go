package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/passvault/internal/application"
	"github.com/oksasatya/passvault/pkg/response"
)

type CatalogHandler struct {
	Svc    *app.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *app.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	out, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err, "failed to load categories")
		return
	}
	response.Success(c, http.StatusOK, out, "categories", nil)
}

func (h *CatalogHandler) AccountTypes(c *gin.Context) {
	out, err := h.Svc.AccountTypes(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err, "failed to load account types")
		return
	}
	response.Success(c, http.StatusOK, out, "account types", nil)
}

// Subcategories GET /api/catalog/subcategories?account_type_id=
func (h *CatalogHandler) Subcategories(c *gin.Context) {
	out, err := h.Svc.Subcategories(c.Request.Context(), c.Query("account_type_id"))
	if err != nil {
		fail(c, h.Logger, err, "failed to load subcategories")
		return
	}
	response.Success(c, http.StatusOK, out, "subcategories", nil)
}
