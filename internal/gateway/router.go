package gateway

import (
	"net/http"

	"github.com/teleponi/rls-buddy/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter creates and configures the gateway's Gin router. Everything the
// gateway doesn't serve itself falls through to the proxy.
func NewRouter(p *Proxy, reg *prometheus.Registry) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CorrelationID())
	r.Use(middleware.RateLimit(rate.Limit(50), 100))

	// gin-contrib/cors rejects AllowAllOrigins together with credentials,
	// so the wildcard goes through AllowOriginFunc.
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Correlation-ID"},
		AllowCredentials: true,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API Gateway"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Documentation lives on the services themselves.
	r.GET("/user-docs", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, p.UserServiceURL+"/swagger/index.html")
	})
	r.GET("/tracking-docs", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, p.TrackingServiceURL+"/swagger/index.html")
	})
	r.GET("/tracking-redocs", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, p.TrackingServiceURL+"/swagger/index.html")
	})

	r.NoRoute(p.Forward)

	return r
}
