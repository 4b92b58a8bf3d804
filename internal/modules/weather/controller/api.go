package controller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"meteochart/internal/modules/chart/selection"
	"meteochart/internal/modules/weather/service"
	"meteochart/internal/utils"
)

type toggleRequest struct {
	Sel     string             `json:"sel"`
	Metric  selection.MetricID `json:"metric"`
	Visible bool               `json:"visible"`
}

type toggleResponse struct {
	Sel      string             `json:"sel"`
	Changed  bool               `json:"changed"`
	Reason   selection.Outcome  `json:"reason"`
	Snapshot selection.Snapshot `json:"snapshot"`
}

type refreshResponse struct {
	Days   int                   `json:"days"`
	Status service.RefreshStatus `json:"status"`
}

func (c *weatherControllerImpl) handleMetrics(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, selection.Metrics())
}

func (c *weatherControllerImpl) handleSelection(w http.ResponseWriter, r *http.Request) {
	state := selection.Decode(r.URL.Query().Get("sel"))
	utils.WriteJSON(w, http.StatusOK, selection.TakeSnapshot(state))
}

func (c *weatherControllerImpl) handleToggleAPI(w http.ResponseWriter, r *http.Request) {
	req, err := decodeToggleBody(w, r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := selection.Toggle(selection.Decode(req.Sel), req.Metric, req.Visible)
	logRejected(req, res)

	snap := selection.TakeSnapshot(res.State)
	utils.WriteJSON(w, http.StatusOK, toggleResponse{
		Sel:      snap.Selection,
		Changed:  res.Changed(),
		Reason:   res.Outcome,
		Snapshot: snap,
	})
}

func (c *weatherControllerImpl) handleDays(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDaysQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	days, err := c.service.Days(r.Context(), from, to)
	if errors.Is(err, service.ErrNoData) {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		slog.Error("days: load failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load days")
		return
	}
	utils.WriteJSON(w, http.StatusOK, daysOrEmpty(days))
}

func (c *weatherControllerImpl) handleRefresh(w http.ResponseWriter, r *http.Request) {
	n, err := c.service.Refresh(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, refreshResponse{Days: n, Status: c.service.Status()})
}

func decodeToggleBody(w http.ResponseWriter, r *http.Request) (toggleRequest, error) {
	var body struct {
		Sel     string             `json:"sel"`
		Metric  selection.MetricID `json:"metric"`
		Visible *bool              `json:"visible"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxToggleBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return toggleRequest{}, errors.New("invalid JSON body")
	}
	if body.Metric == "" {
		return toggleRequest{}, errors.New("missing 'metric'")
	}
	if body.Visible == nil {
		return toggleRequest{}, errors.New("missing 'visible'")
	}
	return toggleRequest{Sel: body.Sel, Metric: body.Metric, Visible: *body.Visible}, nil
}
