package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/passvault/internal/application"
	"github.com/oksasatya/passvault/internal/domain/entity"
	"github.com/oksasatya/passvault/pkg/response"
	"github.com/oksasatya/passvault/pkg/validation"
)

type AdminHandler struct {
	Svc     *app.AdminService
	Catalog *app.CatalogService
	Logger  *logrus.Logger
}

func NewAdminHandler(svc *app.AdminService, catalog *app.CatalogService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Catalog: catalog, Logger: logger}
}

func adminUserBody(u entity.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"name":        u.Name,
		"role":        u.Role,
		"avatar_url":  u.AvatarURL,
		"is_verified": u.IsVerified,
		"created_at":  u.CreatedAt,
	}
}

// ListUsers GET /api/admin/users?limit=&offset=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, offset = app.Page(limit, offset)

	users, err := h.Svc.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, h.Logger, err, "failed to list users")
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserBody(u))
	}
	response.Success(c, http.StatusOK, out, "users", map[string]any{"limit": limit, "offset": offset})
}

// SearchUsers GET /api/admin/users/search?q=&size=
func (h *AdminHandler) SearchUsers(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err, "search failed")
		return
	}
	response.Success(c, http.StatusOK, hits, "users", nil)
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"max=100"`
	Role     string `json:"role" binding:"omitempty,role"`
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	role := req.Role
	if role == "" {
		role = entity.RoleUser
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), app.SignUpInput{Email: req.Email, Password: req.Password, Name: req.Name}, role)
	if err != nil {
		fail(c, h.Logger, err, "failed to create user")
		return
	}
	response.Success(c, http.StatusCreated, adminUserBody(*u), "user created", nil)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.Svc.DeleteUser(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		fail(c, h.Logger, err, "failed to delete user")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.SetRole(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Role)
	if err != nil {
		fail(c, h.Logger, err, "failed to change role")
		return
	}
	response.Success(c, http.StatusOK, adminUserBody(*u), "role updated", nil)
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Icon string `json:"icon" binding:"max=100"`
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Catalog.CreateCategory(c.Request.Context(), req.Name, req.Icon)
	if err != nil {
		fail(c, h.Logger, err, "failed to create category")
		return
	}
	response.Success(c, http.StatusCreated, cat, "category created", nil)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *AdminHandler) SetCategoryActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Catalog.SetCategoryActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		fail(c, h.Logger, err, "failed to update category")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": c.Param("id"), "is_active": *req.Active}, "category updated", nil)
}
