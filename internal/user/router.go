package user

import (
	"github.com/teleponi/rls-buddy/pkg/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter creates and configures the user service's Gin router.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CorrelationID())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Auth routes
	r.POST("/token", h.Login)
	r.GET("/token-validate", h.ValidateToken)

	// User routes
	users := r.Group("/users")
	users.POST("", h.CreateUser)
	users.PUT("", h.UpdateUser)
	users.POST("/admin", h.CreateAdminUser)
	users.GET("/me", h.GetMe)
	users.DELETE("/me", h.DeleteMe)

	return r
}
