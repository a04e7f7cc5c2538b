package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/passvault/internal/interface/middleware"
)

// DebugModule exposes expvar counters. Only registered when enabled in config.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", perIP(120, middleware.KeyByIP()), gin.WrapH(expvar.Handler()))
}
