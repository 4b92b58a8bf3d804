package controller

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"meteochart/internal/modules/chart/selection"
	"meteochart/internal/modules/weather/service"
	"meteochart/internal/modules/weather/types"
	"meteochart/internal/modules/weather/views"
	"meteochart/internal/utils"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeSVG  = "image/svg+xml"
)

func (c *weatherControllerImpl) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	state := selection.Decode(r.URL.Query().Get("sel"))
	data := views.NewPageData(selection.TakeSnapshot(state), c.chart.Width, c.chart.Height)
	data.Notice = views.NoticeFor(selection.Outcome(r.URL.Query().Get("reason")))

	days, err := c.service.Days(r.Context(), time.Time{}, time.Time{})
	switch {
	case errors.Is(err, service.ErrNoData):
		data.Error = noDataMessage(c.service.Status())
	case err != nil:
		slog.Error("page: load days failed", "error", err)
		data.Error = "The stored weather data could not be read."
	default:
		data.Days = len(days)
		if len(days) > 0 {
			data.From = days[0].Key()
			data.To = days[len(days)-1].Key()
		}
	}
	if st := c.service.Status(); !st.At.IsZero() {
		data.LastRefresh = st.At.Format(time.RFC3339)
	}

	var buf bytes.Buffer
	if err := views.RenderPage(&buf, data); err != nil {
		slog.Error("page template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteBody(w, http.StatusOK, contentTypeHTML, buf.Bytes())
}

func (c *weatherControllerImpl) handleToggle(w http.ResponseWriter, r *http.Request) {
	req, err := parseToggleQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := selection.Toggle(selection.Decode(req.Sel), req.Metric, req.Visible)
	logRejected(req, res)
	http.Redirect(w, r, redirectURL(res), http.StatusSeeOther)
}

func (c *weatherControllerImpl) handleReset(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, views.PageURL(selection.Reset().Encode()), http.StatusSeeOther)
}

func (c *weatherControllerImpl) handleChart(w http.ResponseWriter, r *http.Request) {
	opts, err := parseChartQuery(r, c.chart)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	days, err := c.service.Days(r.Context(), time.Time{}, time.Time{})
	if errors.Is(err, service.ErrNoData) {
		utils.WriteError(w, http.StatusNotFound, "no weather data loaded")
		return
	}
	if err != nil {
		slog.Error("chart: load days failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load days")
		return
	}

	var buf bytes.Buffer
	state := selection.Decode(r.URL.Query().Get("sel"))
	if err := views.RenderChart(&buf, state, days, opts); err != nil {
		if errors.Is(err, views.ErrNoDays) {
			utils.WriteError(w, http.StatusNotFound, "no weather data loaded")
			return
		}
		slog.Error("chart render failed", "sel", state.Encode(), "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	utils.WriteBody(w, http.StatusOK, contentTypeSVG, buf.Bytes())
}

func (c *weatherControllerImpl) handleLegendPartial(w http.ResponseWriter, r *http.Request) {
	state := selection.Decode(r.URL.Query().Get("sel"))
	data := views.NewPageData(selection.TakeSnapshot(state), c.chart.Width, c.chart.Height)

	var buf bytes.Buffer
	if err := views.RenderLegendPartial(&buf, data); err != nil {
		slog.Error("legend partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	utils.WriteBody(w, http.StatusOK, contentTypeHTML, buf.Bytes())
}

func noDataMessage(st service.RefreshStatus) string {
	if st.Error != "" {
		return "Loading the weather dataset failed: " + st.Error
	}
	return "No weather data has been loaded yet."
}

func logRejected(req toggleRequest, res selection.Result) {
	switch res.Outcome {
	case selection.Applied, selection.Unchanged:
		return
	}
	slog.Debug("toggle rejected",
		"sel", req.Sel,
		"metric", req.Metric,
		"visible", req.Visible,
		"reason", res.Outcome,
	)
}

// daysOrEmpty keeps the JSON body an array when a window holds no days.
func daysOrEmpty(days []types.Day) []types.Day {
	if days == nil {
		return []types.Day{}
	}
	return days
}
