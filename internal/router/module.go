package router

import "github.com/gin-gonic/gin"

// Module is one feature area's worth of routes. Implementations build
// their route tables and mount them on the group they are given.
type Module interface {
	Register(rg *gin.RouterGroup)
}
