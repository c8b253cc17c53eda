// Package providerhandler exposes provider status and primary switching.
package providerhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"companion-server/internal/config"
	"companion-server/internal/domain/provider"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/interfaces/httpserver/responses"
	"companion-server/internal/utils/platformerrors"
)

type ProviderHandler struct {
	registry *provider.Registry
}

func NewProviderHandler(registry *provider.Registry) *ProviderHandler {
	return &ProviderHandler{registry: registry}
}

// ProviderStatus is one provider row in the status response.
type ProviderStatus struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Model       string `json:"model"`
	Available   bool   `json:"available"`
	Primary     bool   `json:"primary"`
}

// SwitchPrimaryRequest selects a new primary provider.
type SwitchPrimaryRequest struct {
	ProviderID string `json:"provider_id" binding:"required"`
}

// Status handles GET /v1/providers.
func (h *ProviderHandler) Status(reqCtx *gin.Context) {
	primaryID := h.registry.PrimaryID()

	providers := make([]ProviderStatus, 0, h.registry.Len())
	for _, cfg := range h.registry.All() {
		providers = append(providers, ProviderStatus{
			ID:          cfg.ID,
			DisplayName: cfg.DisplayName,
			Model:       cfg.Model,
			Available:   h.registry.IsAvailable(cfg.ID),
			Primary:     cfg.ID == primaryID,
		})
	}

	fallbackEnabled := false
	if cfg := config.GetGlobal(); cfg != nil {
		fallbackEnabled = cfg.FallbackEnabled
	}

	reqCtx.JSON(http.StatusOK, gin.H{
		"primary":          primaryID,
		"fallback_enabled": fallbackEnabled,
		"providers":        providers,
	})
}

// SwitchPrimary handles POST /v1/providers/primary.
func (h *ProviderHandler) SwitchPrimary(reqCtx *gin.Context) {
	var req SwitchPrimaryRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"provider_id is required", "4e8c2d91-7a5f-4b36-80d2-9c1e6f3a8574")
		return
	}

	if !h.registry.SwitchPrimary(req.ProviderID) {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeNotFound,
			"unknown or unavailable provider", "b3f7a1e8-2c9d-4650-a8b4-5d2f8c1e7396")
		return
	}

	log := logger.GetLogger()
	log.Info().Str("provider", req.ProviderID).Msg("primary provider switched")
	reqCtx.JSON(http.StatusOK, gin.H{"primary": req.ProviderID})
}
