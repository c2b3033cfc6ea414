package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/wirekit/registry"
)

// Liveness returns a handler for liveness probes. It always reports 200; a
// process able to answer is alive.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "alive",
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Readiness returns a handler for readiness probes. The service is ready once
// every async singleton binding has a cached value; bindings still in flight
// or not yet produced report 503 with the pending keys.
func Readiness(serviceName string, reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ready"
		httpStatus := http.StatusOK

		var pending []registry.Key
		for _, info := range reg.Registrations() {
			if info.Kind == registry.KindAsyncSingleton.String() && !info.Resolved {
				pending = append(pending, info.Key)
			}
		}
		if len(pending) > 0 {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		body := gin.H{
			"status":    status,
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if len(pending) > 0 {
			body["pending"] = pending
		}
		c.JSON(httpStatus, body)
	}
}

// Registrations returns a handler listing every binding with its kind and
// resolution state, sorted by key.
func Registrations(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := reg.Registrations()
		c.JSON(http.StatusOK, gin.H{
			"count":         len(infos),
			"registrations": infos,
		})
	}
}
