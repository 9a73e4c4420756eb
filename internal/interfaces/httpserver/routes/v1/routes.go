package v1

import (
	"github.com/gin-gonic/gin"

	"imagesim/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under the /api/v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/api/v1")
	group.GET("/images", r.handlers.Image.List)
	group.POST("/images", r.handlers.Image.Upload)
	group.GET("/images/:id", r.handlers.Image.Get)
	group.DELETE("/images/:id", r.handlers.Image.Delete)
	group.GET("/images/:id/download", r.handlers.Image.Download)
	group.GET("/images/:id/similar", r.handlers.Image.FindSimilar)
}
