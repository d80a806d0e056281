package handlers

import (
	"net/http"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "degraded" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

type HealthHandler struct {
	provider llm.Provider
	store    store.Store
	config   *config.Config
}

// NewHealthHandler takes a nil provider when interviews run on the local bank only
func NewHealthHandler(provider llm.Provider, st store.Store, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		provider: provider,
		store:    st,
		config:   cfg,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interview",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	// a missing provider only means every interview uses the fallback bank
	if handler.provider == nil {
		checks["provider"] = ReadinessCheck{
			Status:  "degraded",
			Message: "Question generation unavailable, using the local question bank",
		}
	} else {
		checks["provider"] = ReadinessCheck{
			Status:  "ok",
			Message: handler.provider.GetProviderName(),
		}
	}

	if handler.store == nil {
		checks["store"] = ReadinessCheck{
			Status:  "failed",
			Message: "Snapshot store not initialized",
		}
		allChecksPass = false
	} else {
		checks["store"] = ReadinessCheck{
			Status:  "ok",
			Message: handler.store.Name(),
		}
	}

	if handler.config == nil {
		checks["configuration"] = ReadinessCheck{
			Status:  "failed",
			Message: "Configuration not loaded",
		}
		allChecksPass = false
	} else {
		checks["configuration"] = ReadinessCheck{
			Status: "ok",
		}
	}

	response := ReadinessResponse{
		Service: "interview",
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
