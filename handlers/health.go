// File: handlers/health.go
package handlers

import (
	"net/http"

	"github.com/JustinVargasQ/ProyectoBueno/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness plus the last observed state of Mongo and
// Redis.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := utils.GetHealthStatus()
		redisOK := true
		for _, ok := range status.Redis {
			if !ok {
				redisOK = false
			}
		}
		code := http.StatusOK
		overall := "ok"
		if !status.Mongo || !redisOK {
			code = http.StatusServiceUnavailable
			overall = "degraded"
		}
		c.JSON(code, gin.H{
			"status":    overall,
			"mongo":     status.Mongo,
			"redis":     status.Redis,
			"checkedAt": status.CheckedAt,
		})
	}
}
