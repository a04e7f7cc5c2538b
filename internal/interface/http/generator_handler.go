package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/oksasatya/passvault/internal/application"
	"github.com/oksasatya/passvault/pkg/generator"
	"github.com/oksasatya/passvault/pkg/response"
	"github.com/oksasatya/passvault/pkg/validation"
)

type GeneratorHandler struct {
	Svc *app.PasswordService
}

func NewGeneratorHandler(svc *app.PasswordService) *GeneratorHandler {
	return &GeneratorHandler{Svc: svc}
}

// generateRequest uses pointers so omitted flags fall back to the default policy.
type generateRequest struct {
	Length         *int  `json:"length" binding:"omitempty,genlen"`
	Uppercase      *bool `json:"uppercase"`
	Lowercase      *bool `json:"lowercase"`
	Digits         *bool `json:"digits"`
	Symbols        *bool `json:"symbols"`
	ExcludeSimilar *bool `json:"exclude_similar"`
}

func (r generateRequest) policy() generator.Policy {
	p := generator.DefaultPolicy()
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	if r.Length != nil {
		p.Length = *r.Length
	}
	set(&p.Uppercase, r.Uppercase)
	set(&p.Lowercase, r.Lowercase)
	set(&p.Digits, r.Digits)
	set(&p.Symbols, r.Symbols)
	set(&p.ExcludeSimilar, r.ExcludeSimilar)
	return p
}

// Generate POST /api/generator
func (h *GeneratorHandler) Generate(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
	}
	out, err := h.Svc.Generate(req.policy())
	if err != nil {
		fail(c, nil, err, "generation failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"password":      out.Password,
		"score":         out.Strength.Score,
		"label":         out.Strength.Label,
		"alphabet_size": out.AlphabetSize,
	}, "password generated", nil)
}

type strengthRequest struct {
	Password string `json:"password"`
}

// Strength POST /api/generator/strength
func (h *GeneratorHandler) Strength(c *gin.Context) {
	var req strengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	s := h.Svc.Classify(req.Password)
	response.Success(c, http.StatusOK, gin.H{"score": s.Score, "label": s.Label, "max_score": generator.MaxScore}, "strength", nil)
}
