package router

import "github.com/gin-gonic/gin"

// Module registers one feature's routes on the /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// ModuleFunc adapts a plain function to Module.
type ModuleFunc func(rg *gin.RouterGroup)

func (f ModuleFunc) Register(rg *gin.RouterGroup) { f(rg) }
