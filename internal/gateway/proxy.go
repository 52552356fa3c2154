package gateway

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/teleponi/rls-buddy/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Proxy forwards requests to the user and tracking services based on the
// first path segment. It holds no routing table beyond the two upstreams.
type Proxy struct {
	UserServiceURL     string
	TrackingServiceURL string
	Client             *http.Client
	Metrics            *Metrics
}

// NewProxy creates a gateway proxy for the two upstream services.
func NewProxy(userServiceURL, trackingServiceURL string, metrics *Metrics) *Proxy {
	return &Proxy{
		UserServiceURL:     userServiceURL,
		TrackingServiceURL: trackingServiceURL,
		Client:             &http.Client{Timeout: 30 * time.Second},
		Metrics:            metrics,
	}
}

// Hop-by-hop headers are meaningful per connection and must not be
// forwarded (RFC 9110 section 7.6.1).
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

func isHopHeader(name string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

// ResolveTarget maps a path (without leading slash) to its upstream. Every
// path matches at most one target; unmatched paths are never forwarded.
func (p *Proxy) ResolveTarget(path string) (name, base string, ok bool) {
	switch {
	case strings.HasPrefix(path, "users"), strings.HasPrefix(path, "token"):
		return "user", p.UserServiceURL, true
	case strings.HasPrefix(path, "trackings"), strings.HasPrefix(path, "details"):
		return "tracking", p.TrackingServiceURL, true
	}
	return "", "", false
}

// MapStatus normalizes upstream status codes for gateway clients. Validation
// failures surface as plain 400s; everything else passes through unchanged.
func MapStatus(code int) int {
	if code == http.StatusUnprocessableEntity {
		return http.StatusBadRequest
	}
	return code
}

// Forward proxies the request to the resolved upstream. It is installed as
// the router's NoRoute handler, so every path the gateway doesn't serve
// itself lands here.
func (p *Proxy) Forward(c *gin.Context) {
	correlationID := middleware.GetCorrelationID(c)
	path := strings.TrimPrefix(c.Request.URL.Path, "/")

	target, base, ok := p.ResolveTarget(path)
	if !ok {
		p.Metrics.RoutingMisses.Inc()
		log.Printf("[Gateway] No route for path=%s correlation_id=%s", path, correlationID)
		c.JSON(http.StatusNotFound, gin.H{"detail": "Service not found"})
		return
	}

	upstreamURL := base + "/" + path
	if q := c.Request.URL.RawQuery; q != "" {
		upstreamURL += "?" + q
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, upstreamURL, c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}
	for name, values := range c.Request.Header {
		if isHopHeader(name) {
			continue
		}
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		p.Metrics.UpstreamFailures.WithLabelValues(target).Inc()
		log.Printf("[Gateway] Upstream failure: target=%s err=%v correlation_id=%s", target, err, correlationID)
		c.JSON(http.StatusBadGateway, gin.H{"detail": fmt.Sprintf("Error in proxy request: %v", err)})
		return
	}
	defer resp.Body.Close()

	status := MapStatus(resp.StatusCode)
	p.Metrics.ProxiedRequests.WithLabelValues(target, strconv.Itoa(status)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.Metrics.UpstreamFailures.WithLabelValues(target).Inc()
		c.JSON(http.StatusBadGateway, gin.H{"detail": fmt.Sprintf("Error in proxy request: %v", err)})
		return
	}

	for name, values := range resp.Header {
		// c.Data sets Content-Type and Content-Length itself.
		if isHopHeader(name) || strings.EqualFold(name, "Content-Length") || strings.EqualFold(name, "Content-Type") {
			continue
		}
		for _, v := range values {
			c.Writer.Header().Add(name, v)
		}
	}
	c.Data(status, resp.Header.Get("Content-Type"), body)
}
