package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"

	"meteochart/internal/modules/weather/service"
	"meteochart/internal/utils"
)

// ConnectionStatus is implemented by the MQTT subscriber.
type ConnectionStatus interface {
	IsConnected() bool
}

// HealthSources are the optional parts reported by /healthz. A nil MQTT means
// MQTT is disabled.
type HealthSources struct {
	MQTT    ConnectionStatus
	Refresh func() service.RefreshStatus
}

type healthResponse struct {
	Status   string                 `json:"status"`
	Database string                 `json:"database"`
	MQTT     string                 `json:"mqtt"`
	Refresh  *service.RefreshStatus `json:"refresh,omitempty"`
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db      *sql.DB
	sources HealthSources
}

func NewHealthchecker(db *sql.DB, sources HealthSources) healthchecker {
	return &healthcheckerImpl{db: db, sources: sources}
}

// handleHealthz fails only on the database. A broker outage or a failed
// refresh is reported but the server keeps serving stored data.
func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	var ok int
	if err := h.db.QueryRowContext(r.Context(), `SELECT 1`).Scan(&ok); err != nil {
		slog.Error("failed to check database connectivity", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to check database connectivity")
		return
	}

	resp := healthResponse{Status: "ok", Database: "ok", MQTT: "disabled"}
	if h.sources.MQTT != nil {
		resp.MQTT = "disconnected"
		if h.sources.MQTT.IsConnected() {
			resp.MQTT = "connected"
		}
	}
	if h.sources.Refresh != nil {
		st := h.sources.Refresh()
		resp.Refresh = &st
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB, sources HealthSources) {
	healthchecker := NewHealthchecker(db, sources)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
