package router

import "github.com/gin-gonic/gin"

const apiBasePath = "/api"

// Registry collects feature modules and group-wide middleware, then
// registers everything under the API base path in one pass.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(apiBasePath)}
}

// Use appends middleware applied to the whole API group, ahead of any
// module routes.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll installs the group middleware and mounts every module.
// Call once, after the last Add.
func (r *Registry) RegisterAll() {
	r.API.Use(r.middlewares...)
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
