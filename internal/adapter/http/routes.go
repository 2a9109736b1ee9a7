// Package http provides the HTTP handler layer for the fare discovery API.
package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all discovery API routes.
// It creates a versioned API group and attaches the handler methods.
func RegisterRoutes(e *echo.Echo, h *DiscoveryHandler) {
	// Health check endpoint (no version prefix)
	e.GET("/health", h.Health)

	// API v1 group
	api := e.Group("/api/v1")

	api.POST("/harvest", h.Harvest)
	api.POST("/expand", h.Expand)
	api.POST("/runs", h.Run)
}
