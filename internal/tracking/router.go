package tracking

import (
	"github.com/teleponi/rls-buddy/pkg/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter creates and configures the tracking service's Gin router.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CorrelationID())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Master data routes
	details := r.Group("/details")
	details.POST("/symptoms", h.CreateSymptom)
	details.GET("/symptoms", h.ListSymptoms)
	details.POST("/triggers", h.CreateTrigger)
	details.GET("/triggers", h.ListTriggers)

	// Tracking routes. Gin allows the static /me segment next to the
	// :type parameter.
	trackings := r.Group("/trackings")
	trackings.POST("/sleep", h.CreateSleep)
	trackings.POST("/day", h.CreateDay)
	trackings.GET("/me", h.ListMine)
	trackings.DELETE("/me", h.DeleteAllMine)
	trackings.GET("/:type/:id", h.GetTracking)
	trackings.PUT("/:type/:id", h.UpdateTracking)
	trackings.DELETE("/:type/:id", h.DeleteTracking)

	return r
}
