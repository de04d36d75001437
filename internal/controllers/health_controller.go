package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"url-shortener/internal/cache"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthController struct {
	db    Pinger      // nil when links are kept in memory
	cache cache.Cache // nil when caching is disabled
}

func NewHealthController(db Pinger, cacheClient cache.Cache) *HealthController {
	return &HealthController{db: db, cache: cacheClient}
}

// Health handles GET /health
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "not configured"
	if hc.db != nil {
		dbStatus = "ok"
		if err := hc.db.PingContext(ctx); err != nil {
			dbStatus = "error"
		}
	}

	cacheStatus := "not configured"
	if hc.cache != nil {
		cacheStatus = "ok"
		if err := hc.cache.Ping(ctx); err != nil {
			cacheStatus = "error"
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if dbStatus == "error" {
		status = "unavailable"
		httpStatus = http.StatusServiceUnavailable
	} else if cacheStatus == "error" {
		// Lookups fall back to the database without the cache
		status = "degraded"
	}

	c.JSON(httpStatus, gin.H{
		"status": status,
		"checks": gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
		},
	})
}
