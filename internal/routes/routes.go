package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"url-shortener/internal/controllers"
	"url-shortener/internal/middleware"
)

type Handlers struct {
	Shortener *controllers.ShortenerController
	QRCode    *controllers.QRCodeController
	Health    *controllers.HealthController

	// Both are nil when metrics are disabled
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
}

// NewRouter wires middleware and every endpoint onto a fresh engine
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	if h.Metrics != nil {
		router.Use(h.Metrics.Handler())
	}

	router.GET("/health", h.Health.Health)
	if h.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(h.MetricsHandler))
	}

	api := router.Group("/api")
	{
		api.POST("/shorten", h.Shortener.CreateShortURL)
		api.GET("/resolve/:code", h.Shortener.ResolveURL)
		api.GET("/qrcode/:code", h.QRCode.GenerateQRCode)
	}

	router.GET("/r/:code", h.Shortener.RedirectToURL)
	router.GET("/stats/:code", h.Shortener.GetURLStats)

	return router
}
