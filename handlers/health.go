package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler reports service liveness and dependency reachability.
type HealthHandler struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

// Check handles GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := gin.H{}
	healthy := true

	if h.Mongo != nil {
		if err := h.Mongo.Ping(ctx, nil); err != nil {
			deps["mongo"] = "unreachable"
			healthy = false
		} else {
			deps["mongo"] = "ok"
		}
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = "unreachable"
			healthy = false
		} else {
			deps["redis"] = "ok"
		}
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":       overall,
		"service":      "remindcall",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"dependencies": deps,
	})
}
