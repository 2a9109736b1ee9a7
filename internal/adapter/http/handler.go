// Package http provides the HTTP handler layer for the fare discovery API.
// It handles request parsing, validation, response formatting, and error mapping.
package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/faredrop/fare-discovery-engine/internal/adapter/http/response"
	"github.com/faredrop/fare-discovery-engine/internal/domain"
	"github.com/faredrop/fare-discovery-engine/internal/usecase"
)

// DiscoveryHandler handles HTTP requests for the discovery endpoints.
type DiscoveryHandler struct {
	harvester usecase.Harvester
	expander  usecase.Expander
	runner    usecase.DiscoveryUseCase
}

// NewDiscoveryHandler creates a new DiscoveryHandler over the engine's ports.
func NewDiscoveryHandler(harvester usecase.Harvester, expander usecase.Expander, runner usecase.DiscoveryUseCase) *DiscoveryHandler {
	return &DiscoveryHandler{
		harvester: harvester,
		expander:  expander,
		runner:    runner,
	}
}

// Harvest handles POST /api/v1/harvest. It performs one origin/region
// discovery query and returns the deduplicated candidates.
func (h *DiscoveryHandler) Harvest(c echo.Context) error {
	var req HarvestRequest

	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	region := ToRegion(req.Region)
	candidates, err := h.harvester.Harvest(c.Request().Context(), req.Origin, region)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, ToHarvestResponseDTO(req.Origin, region, candidates))
}

// Expand handles POST /api/v1/expand. It expands one route across the
// rolling booking horizon and returns the merged calendar.
func (h *DiscoveryHandler) Expand(c echo.Context) error {
	var req ExpandRequest

	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	result, err := h.expander.Expand(c.Request().Context(), ToCandidate(&req), req.Threshold)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, ToExpansionResponseDTO(result))
}

// Run handles POST /api/v1/runs. It executes a full paced discovery run;
// the connection stays open until the run completes.
func (h *DiscoveryHandler) Run(c echo.Context) error {
	var req RunRequest

	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	summary, err := h.runner.Run(c.Request().Context(), ToRunRequest(&req))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, ToRunResponseDTO(summary))
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *DiscoveryHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	// Fallback for non-structured validation errors
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *DiscoveryHandler) handleError(c echo.Context, err error) error {
	// Check for descriptor/input validation raised below the handler
	if errors.Is(err, domain.ErrInvalidDescriptor) {
		return response.ValidationErrorWithMessage(c, err.Error())
	}

	// Check for transport failures against the remote service
	if domain.IsTransport(err) {
		return response.ServiceUnavailable(c)
	}

	// Check for context deadline exceeded (timeout)
	if errors.Is(err, context.DeadlineExceeded) {
		return response.GatewayTimeout(c)
	}

	// Check for context cancelled
	if errors.Is(err, context.Canceled) {
		return response.RequestCancelled(c)
	}

	// Default to internal server error
	return response.InternalServerError(c)
}

// Health handles GET /health
// Simple health check endpoint.
func (h *DiscoveryHandler) Health(c echo.Context) error {
	return response.Health(c)
}
