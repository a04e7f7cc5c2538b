package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/passvault/internal/application"
	"github.com/oksasatya/passvault/internal/domain/entity"
	"github.com/oksasatya/passvault/pkg/helpers"
	"github.com/oksasatya/passvault/pkg/response"
	"github.com/oksasatya/passvault/pkg/validation"
)

type UserHandler struct {
	Svc            *app.UserService
	Logger         *logrus.Logger
	Cookies        *helpers.Manager
	AvatarMaxBytes int64
}

func NewUserHandler(svc *app.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool, avatarMaxBytes int64) *UserHandler {
	return &UserHandler{
		Svc:            svc,
		Logger:         logger,
		Cookies:        helpers.NewCookie(cookieDomain, cookieSecure),
		AvatarMaxBytes: avatarMaxBytes,
	}
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name      string `json:"name" binding:"max=100"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

func profileBody(u *entity.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"name":        u.Name,
		"avatar_url":  u.AvatarURL,
		"role":        u.Role,
		"is_verified": u.IsVerified,
		"created_at":  u.CreatedAt,
		"updated_at":  u.UpdatedAt,
	}
}

func (h *UserHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.SignUp(c.Request.Context(), app.SignUpInput{Email: req.Email, Password: req.Password, Name: req.Name})
	if err != nil {
		fail(c, h.Logger, err, "failed to create account")
		return
	}
	response.Success(c, http.StatusCreated, profileBody(u), "account created", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err, "login failed")
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		h.Cookies.Clear(c)
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString("userID")); err != nil && h.Logger != nil {
		h.Logger.WithError(err).Warn("session delete failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err, "failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, profileBody(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString("userID"), app.UpdateProfileInput{Name: req.Name, AvatarURL: req.AvatarURL})
	if err != nil {
		fail(c, h.Logger, err, "failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, profileBody(u), "profile updated", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart field "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	if h.AvatarMaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.AvatarMaxBytes)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", map[string]string{"file": "upload an image up to the size limit"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer f.Close()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString("userID"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err, "failed to upload avatar")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}
