package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/passvault/internal/application"
	"github.com/oksasatya/passvault/internal/domain/entity"
	"github.com/oksasatya/passvault/internal/domain/vault"
	"github.com/oksasatya/passvault/pkg/response"
	"github.com/oksasatya/passvault/pkg/validation"
)

// Subscriber streams a user's change events.
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan app.ChangeEvent, error)
}

type PasswordHandler struct {
	Svc       *app.PasswordService
	Changes   Subscriber
	Logger    *logrus.Logger
	Heartbeat time.Duration
}

func NewPasswordHandler(svc *app.PasswordService, events Subscriber, logger *logrus.Logger) *PasswordHandler {
	return &PasswordHandler{Svc: svc, Changes: events, Logger: logger, Heartbeat: 25 * time.Second}
}

// passwordDTO is the wire form of a record. The secret is returned as stored.
type passwordDTO struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Email           string    `json:"email"`
	Password        string    `json:"password"`
	Description     string    `json:"description"`
	CategoryID      string    `json:"category_id"`
	CategoryName    string    `json:"category_name"`
	AccountTypeID   string    `json:"account_type_id"`
	AccountTypeName string    `json:"account_type_name"`
	SubcategoryID   string    `json:"subcategory_id,omitempty"`
	SubcategoryName string    `json:"subcategory_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toDTO(r entity.PasswordRecord) passwordDTO {
	return passwordDTO{
		ID:              r.ID,
		Title:           r.Title,
		Email:           r.Email,
		Password:        r.Secret,
		Description:     r.Description,
		CategoryID:      r.CategoryID,
		CategoryName:    r.CategoryName,
		AccountTypeID:   r.AccountTypeID,
		AccountTypeName: r.AccountTypeName,
		SubcategoryID:   r.SubcategoryID,
		SubcategoryName: r.SubcategoryName,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type listQuery struct {
	Q            string   `form:"q"`
	Categories   []string `form:"category"`
	AccountTypes []string `form:"account_type"`
	Strength     string   `form:"strength"`
	Age          string   `form:"age"`
}

func (q listQuery) criteria() (vault.Criteria, error) {
	strength, err := vault.ParseStrengthBucket(q.Strength)
	if err != nil {
		return vault.Criteria{}, err
	}
	age, err := vault.ParseAgeBucket(q.Age)
	if err != nil {
		return vault.Criteria{}, err
	}
	return vault.Criteria{
		Search:       q.Q,
		Categories:   q.Categories,
		AccountTypes: q.AccountTypes,
		Strength:     strength,
		Age:          age,
	}, nil
}

// List GET /api/passwords?q=&category=&account_type=&strength=&age=
func (h *PasswordHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	crit, err := q.criteria()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	res, err := h.Svc.List(c.Request.Context(), c.GetString("userID"), crit)
	if err != nil {
		fail(c, h.Logger, err, "failed to list passwords")
		return
	}
	items := make([]passwordDTO, 0, len(res.Items))
	for _, r := range res.Items {
		items = append(items, toDTO(r))
	}
	response.Success(c, http.StatusOK, gin.H{
		"items":         items,
		"stats":         res.Stats,
		"categories":    res.Categories,
		"account_types": res.AccountTypes,
	}, "passwords", map[string]any{"count": len(items)})
}

func (h *PasswordHandler) Get(c *gin.Context) {
	rec, err := h.Svc.Get(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err, "failed to load password")
		return
	}
	response.Success(c, http.StatusOK, toDTO(*rec), "password", nil)
}

type createPasswordRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	Email         string `json:"email" binding:"required,max=320"`
	Password      string `json:"password" binding:"required"`
	Description   string `json:"description" binding:"max=2000"`
	CategoryID    string `json:"category_id" binding:"required,uuid"`
	AccountTypeID string `json:"account_type_id" binding:"required,uuid"`
	SubcategoryID string `json:"subcategory_id" binding:"omitempty,uuid"`
}

func (h *PasswordHandler) Create(c *gin.Context) {
	var req createPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	rec, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"), app.PasswordInput{
		Title:         req.Title,
		Email:         req.Email,
		Secret:        req.Password,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		AccountTypeID: req.AccountTypeID,
		SubcategoryID: req.SubcategoryID,
	})
	if err != nil {
		fail(c, h.Logger, err, "failed to create password")
		return
	}
	response.Success(c, http.StatusCreated, toDTO(*rec), "password created", nil)
}

// updatePasswordRequest fields are optional; absent fields stay unchanged.
type updatePasswordRequest struct {
	Title         *string `json:"title" binding:"omitempty,max=200"`
	Email         *string `json:"email" binding:"omitempty,max=320"`
	Password      *string `json:"password"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	CategoryID    *string `json:"category_id"`
	AccountTypeID *string `json:"account_type_id"`
	SubcategoryID *string `json:"subcategory_id"`
}

func (h *PasswordHandler) Update(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	rec, err := h.Svc.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), app.PasswordUpdate{
		Title:         req.Title,
		Email:         req.Email,
		Secret:        req.Password,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		AccountTypeID: req.AccountTypeID,
		SubcategoryID: req.SubcategoryID,
	})
	if err != nil {
		fail(c, h.Logger, err, "failed to update password")
		return
	}
	response.Success(c, http.StatusOK, toDTO(*rec), "password updated", nil)
}

func (h *PasswordHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		fail(c, h.Logger, err, "failed to delete password")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "password deleted", nil)
}

// Events GET /api/passwords/events streams change notifications as SSE.
// Clients refetch the list when a "change" event arrives.
func (h *PasswordHandler) Events(c *gin.Context) {
	if h.Changes == nil {
		response.Error[any](c, http.StatusServiceUnavailable, "realtime updates disabled", nil)
		return
	}
	ch, err := h.Changes.Subscribe(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err, "subscribe failed")
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	beat := h.Heartbeat
	if beat <= 0 {
		beat = 25 * time.Second
	}
	ticker := time.NewTicker(beat)
	defer ticker.Stop()

	c.SSEvent("ready", gin.H{"user_id": c.GetString("userID")})
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		}
	})
}
