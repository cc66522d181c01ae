package handlers

import (
	"context"

	xhttp "github.com/Jojie16/SafeZone/pkg/http"
	"github.com/fasthttp/router"
)

type HealthService interface {
	Get(ctx context.Context) error
}

type HealthHandler struct {
	healthService HealthService
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(healthService HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.healthService.Get(ctx); err != nil {
		writeFailure(ctx, xhttp.StatusInternalServerError, "Database connection failed")
		return
	}
	writeSuccess(ctx, xhttp.StatusOK, map[string]string{
		"message": "Database connection successful",
	})
}
