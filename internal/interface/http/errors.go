package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/passvault/internal/application"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
	"github.com/oksasatya/passvault/internal/domain/vault"
	"github.com/oksasatya/passvault/pkg/generator"
	"github.com/oksasatya/passvault/pkg/response"
)

// statusFor maps service errors onto HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, app.ErrNotFound), errors.Is(err, app.ErrUserNotFound), errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrEmailTaken), errors.Is(err, app.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, vault.ErrUnknownBucket):
		return http.StatusBadRequest
	case errors.Is(err, generator.ErrInvalidPolicy):
		return http.StatusUnprocessableEntity
	case errors.Is(err, app.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail writes err with its mapped status. Internal errors are logged and
// hidden behind fallback.
func fail(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		}
		response.Error[any](c, status, fallback, nil)
		return
	}
	response.Error[any](c, status, err.Error(), nil)
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
