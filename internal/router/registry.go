package router

import "github.com/gin-gonic/gin"

// Registry collects feature modules and registers them in one pass. API
// modules mount under /api/v1; web modules render pages at the root.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	Web         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	apiModules  []Module
	webModules  []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{
		Engine: engine,
		API:    engine.Group("/api/v1"),
		Web:    engine.Group("/"),
	}
}

// Use adds middleware applied to the API group only.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.apiModules = append(r.apiModules, mod)
}

func (r *Registry) AddWeb(mod Module) {
	r.webModules = append(r.webModules, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.apiModules {
		m.Register(r.API)
	}
	for _, m := range r.webModules {
		m.Register(r.Web)
	}
}
