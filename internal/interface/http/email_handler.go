package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/passvault/config"
	app "github.com/oksasatya/passvault/internal/application"
	"github.com/oksasatya/passvault/pkg/mailer"
	tpl "github.com/oksasatya/passvault/pkg/mailer/templates"
	"github.com/oksasatya/passvault/pkg/response"
	"github.com/oksasatya/passvault/pkg/validation"
)

type EmailHandler struct {
	Pub    app.JobPublisher
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewEmailHandler(pub app.JobPublisher, logger *logrus.Logger, cfg *config.Config) *EmailHandler {
	return &EmailHandler{Pub: pub, Logger: logger, Cfg: cfg}
}

type sendEmailRequest struct {
	To       string         `json:"to" binding:"required,email"`
	Template string         `json:"template"` // welcome, verify_email, forgot_password, profile_updated, universal
	Data     map[string]any `json:"data"`
	Subject  string         `json:"subject"` // required without template
	Text     string         `json:"text"`
	HTML     string         `json:"html"`
}

func (r sendEmailRequest) job() mailer.EmailJob {
	job := mailer.EmailJob{To: r.To}
	if r.Template != "" {
		job.Template = r.Template
		job.Data = r.Data
		return job
	}
	job.Subject = r.Subject
	job.Text = r.Text
	job.HTML = r.HTML
	return job
}

// Send POST /api/admin/email/send enqueues an email job.
func (h *EmailHandler) Send(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	job := req.job()
	if req.Template != "" && req.Template != tpl.Universal && !tpl.IsKnownType(req.Template) {
		response.Error[any](c, http.StatusBadRequest, "unknown template", map[string]string{"template": req.Template})
		return
	}
	if req.Template == "" && !job.IsRaw() {
		response.Error[any](c, http.StatusBadRequest, "either template or subject with text/html is required", nil)
		return
	}

	if h.Pub == nil || (h.Cfg != nil && !h.Cfg.MailSendEnabled) {
		response.Success[any](c, http.StatusAccepted, map[string]any{"enqueued": false, "disabled": true}, "email sending disabled", nil)
		return
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("failed to publish email job")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to enqueue", nil)
		return
	}
	response.Success[any](c, http.StatusAccepted, map[string]any{"enqueued": true}, "email enqueued", nil)
}
