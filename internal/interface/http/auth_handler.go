package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/passvault/config"
	app "github.com/oksasatya/passvault/internal/application"
	"github.com/oksasatya/passvault/internal/domain/entity"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
	"github.com/oksasatya/passvault/pkg/helpers"
	"github.com/oksasatya/passvault/pkg/mailer"
	tpl "github.com/oksasatya/passvault/pkg/mailer/templates"
	"github.com/oksasatya/passvault/pkg/response"
	"github.com/oksasatya/passvault/pkg/validation"
)

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = 30 * time.Minute
)

// AuthHandler runs the email verification and password reset flows.
// Tokens live in Redis only; without Redis both flows are unavailable.
type AuthHandler struct {
	Repo   repo.UserRepository
	Audit  repo.AuditRepository
	RDB    *redis.Client
	Logger *logrus.Logger
	Cfg    *config.Config
	Pub    app.JobPublisher
	Geo    tpl.GeoResolver
}

func NewAuthHandler(users repo.UserRepository, audit repo.AuditRepository, rdb *redis.Client, logger *logrus.Logger, cfg *config.Config, pub app.JobPublisher) *AuthHandler {
	return &AuthHandler{Repo: users, Audit: audit, RDB: rdb, Logger: logger, Cfg: cfg, Pub: pub, Geo: tpl.IPAPIResolver{}}
}

func (h *AuthHandler) audit(c *gin.Context, userID, email, action string, metadata map[string]any) {
	if h.Audit == nil {
		return
	}
	err := h.Audit.Insert(c.Request.Context(), entity.AuditEntry{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		Metadata:  metadata,
	})
	if err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}

func (h *AuthHandler) mailEnabled() bool {
	return h.Pub != nil && h.Cfg != nil && h.Cfg.MailSendEnabled
}

func (h *AuthHandler) requestOpts(c *gin.Context, expires time.Duration) []tpl.Option {
	ip := clientIP(c)
	return []tpl.Option{
		tpl.WithTime(time.Now()),
		tpl.WithExpiresIn(expires),
		tpl.WithIP(ip),
		tpl.WithUserAgent(c.GetHeader("User-Agent")),
		tpl.WithGeoFromIP(c.Request.Context(), h.Geo, ip),
	}
}

func (h *AuthHandler) publish(ctx context.Context, to string, data map[string]any) {
	job := mailer.EmailJob{To: to, Template: tpl.Universal, Data: data}
	if err := h.Pub.PublishJSON(ctx, job); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("to", to).Warn("failed to publish email job")
	}
}

// VerifyInit POST /api/auth/verify/init (auth required)
// Returns a verification link that embeds the token in the front-end URL.
func (h *AuthHandler) VerifyInit(c *gin.Context) {
	ctx := c.Request.Context()
	uid := c.GetString("userID")
	if ok, err := h.Repo.IsVerified(ctx, uid); err == nil && ok {
		if h.RDB != nil {
			_ = h.RDB.Set(ctx, helpers.KeyVerified(uid), "1", 0).Err()
		}
		h.audit(c, uid, "", "verify_init_already", nil)
		response.Success(c, http.StatusOK, gin.H{"already_verified": true}, "already verified", nil)
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusServiceUnavailable, "verification unavailable", nil)
		return
	}
	if v, _ := h.RDB.Get(ctx, helpers.KeyVerified(uid)).Result(); v == "1" {
		h.audit(c, uid, "", "verify_init_already", map[string]any{"source": "redis"})
		response.Success(c, http.StatusOK, gin.H{"already_verified": true}, "already verified", nil)
		return
	}

	tok, err := helpers.GenToken(32)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "token generation failed", nil)
		return
	}
	if err := h.RDB.Set(ctx, helpers.KeyVerifyToken(tok), uid, verifyTokenTTL).Err(); err != nil {
		fail(c, h.Logger, err, "token store failed")
		return
	}
	link := h.Cfg.VerifyEmailURL + "?token=" + tok
	h.audit(c, uid, "", "verify_init_issue", nil)

	if h.mailEnabled() {
		if u, _ := h.Repo.GetByID(ctx, uid); u != nil {
			h.publish(ctx, u.Email, tpl.NewVerifyEmailData(h.Cfg, u.Name, u.Email, link, h.requestOpts(c, verifyTokenTTL)...))
		}
	}
	response.Success(c, http.StatusOK, gin.H{"verify_link": link}, "verification link", nil)
}

// VerifyConfirm POST /api/auth/verify/confirm {token}
func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusServiceUnavailable, "verification unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	uid, err := h.RDB.Get(ctx, helpers.KeyVerifyToken(req.Token)).Result()
	if err != nil || uid == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	if err := h.Repo.SetVerified(ctx, uid); err != nil && !errors.Is(err, repo.ErrNotFound) {
		fail(c, h.Logger, err, "verification failed")
		return
	}
	_ = h.RDB.Set(ctx, helpers.KeyVerified(uid), "1", 0).Err()
	_ = helpers.RedisDel(ctx, h.RDB, helpers.KeyVerifyToken(req.Token))
	h.audit(c, uid, "", "verify_confirm", nil)
	response.Success[any](c, http.StatusOK, gin.H{"verified": true}, "email verified", nil)
}

// ResetInit POST /api/auth/reset/init {email}
// Always answers 200 so the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()
	u, _ := h.Repo.GetByEmail(ctx, req.Email)
	if u == nil || h.RDB == nil {
		h.audit(c, "", req.Email, "reset_init_unknown", nil)
		response.Success[any](c, http.StatusOK, gin.H{"requested": true}, "if the account exists a reset link was sent", nil)
		return
	}

	tok, err := helpers.GenToken(32)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "token generation failed", nil)
		return
	}
	if err := h.RDB.Set(ctx, helpers.KeyResetToken(tok), u.ID, resetTokenTTL).Err(); err != nil {
		fail(c, h.Logger, err, "token store failed")
		return
	}
	if h.mailEnabled() {
		link := h.Cfg.ResetPasswordURL + "?token=" + tok
		h.publish(ctx, u.Email, tpl.NewForgotPasswordData(h.Cfg, u.Name, u.Email, link, h.requestOpts(c, resetTokenTTL)...))
	}
	h.audit(c, u.ID, u.Email, "reset_init_issue", nil)
	response.Success[any](c, http.StatusOK, gin.H{"requested": true}, "if the account exists a reset link was sent", nil)
}

// ResetConfirm POST /api/auth/reset/confirm {token, new_password}
func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusServiceUnavailable, "reset unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	uid, err := h.RDB.Get(ctx, helpers.KeyResetToken(req.Token)).Result()
	if err != nil || uid == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	hash, err := helpers.HashPassword(req.NewPassword)
	if err != nil {
		fail(c, h.Logger, err, "hash failed")
		return
	}
	if err := h.Repo.UpdatePassword(ctx, uid, hash); err != nil {
		fail(c, h.Logger, err, "update failed")
		return
	}
	// the token is single use and existing sessions end with the old password
	_ = helpers.RedisDel(ctx, h.RDB, helpers.KeyResetToken(req.Token), helpers.KeySession(uid))
	h.audit(c, uid, "", "reset_confirm", nil)
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}
