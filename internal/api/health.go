package api

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	DefaultProvider string `json:"default_provider"`
}

type HealthHandler struct {
	defaultProvider string
	version         string
	startTime       time.Time
}

func NewHealthHandler(defaultProvider, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{
		defaultProvider: defaultProvider,
		version:         version,
		startTime:       startTime,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:          "ok",
		Version:         h.version,
		UptimeSeconds:   int64(time.Since(h.startTime).Seconds()),
		DefaultProvider: h.defaultProvider,
	})
}
