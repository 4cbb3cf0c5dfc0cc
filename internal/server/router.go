// Package server exposes the quote workflow as a local JSON API.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cotizador/internal/version"
)

const requestIDHeader = "X-Request-ID"

// NewRouter wires the Gin engine with the API routes and middlewares.
func NewRouter(handler *Handler, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger.With().Str("component", "router").Logger()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": version.Version})
	})

	api := r.Group("/api")
	api.GET("/options", handler.Options)
	api.POST("/quotes", handler.Calculate)
	api.GET("/history", handler.History)
	api.POST("/history", handler.Save)
	api.DELETE("/history", handler.DeleteSelected)
	api.DELETE("/history/all", handler.ClearAll)
	api.POST("/history/export", handler.Export)

	logger.Debug().Msg("router initialized")
	return r
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		reqLogger := logger.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		c.Next()

		event := reqLogger.Info()
		if c.Writer.Status() >= 500 {
			event = reqLogger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request completed")
	}
}
