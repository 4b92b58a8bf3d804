package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"meteochart/internal/modules/chart/selection"
	"meteochart/internal/modules/weather/types"
	"meteochart/internal/modules/weather/views"
)

const (
	minChartWidth = 320
	maxChartWidth = 4096
	maxToggleBody = 4 << 10
)

func parseToggleQuery(r *http.Request) (toggleRequest, error) {
	q := r.URL.Query()
	metric := q.Get("metric")
	if metric == "" {
		return toggleRequest{}, errors.New("missing 'metric'")
	}
	visible := true
	if s := q.Get("on"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return toggleRequest{}, errors.New("invalid 'on' (expected true or false)")
		}
		visible = v
	}
	return toggleRequest{Sel: q.Get("sel"), Metric: selection.MetricID(metric), Visible: visible}, nil
}

// redirectURL is the page to show after a toggle. Rejections carry their
// reason so the page can explain them.
func redirectURL(res selection.Result) string {
	sel := res.State.Encode()
	switch res.Outcome {
	case selection.Applied, selection.Unchanged:
		return views.PageURL(sel)
	}
	q := url.Values{"reason": {string(res.Outcome)}}
	if sel != "" {
		q.Set("sel", sel)
	}
	return "/?" + q.Encode()
}

// parseChartQuery returns the image size for a chart request. The height
// follows the configured aspect ratio.
func parseChartQuery(r *http.Request, defaults views.ChartOptions) (views.ChartOptions, error) {
	opts := defaults
	s := r.URL.Query().Get("width")
	if s == "" {
		return opts, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return views.ChartOptions{}, errors.New("invalid 'width' (expected integer)")
	}
	if n < minChartWidth || n > maxChartWidth {
		return views.ChartOptions{}, errors.New("'width' must be between 320 and 4096")
	}
	opts.Width = n
	if defaults.Width > 0 {
		opts.Height = n * defaults.Height / defaults.Width
	}
	return opts, nil
}

func parseDaysQuery(r *http.Request) (from time.Time, to time.Time, err error) {
	q := r.URL.Query()

	if s := q.Get("from"); s != "" {
		from, err = time.Parse(types.DateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid 'from' (expected YYYY-MM-DD)")
		}
	}
	if s := q.Get("to"); s != "" {
		to, err = time.Parse(types.DateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid 'to' (expected YYYY-MM-DD)")
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, errors.New("'from' must be <= 'to'")
	}
	return from, to, nil
}
