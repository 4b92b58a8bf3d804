package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"strconv"

	"meteochart/internal/modules/chart/selection"
)

var pageTmpl *template.Template

// loadTemplatesFromFS loads page templates from the given fs and dir.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	pageTmpl = tmpl
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// LegendItem is one legend control.
type LegendItem struct {
	selection.MetricState
	Color     string
	ToggleURL string
}

type PageData struct {
	Title     string
	Selection string
	Legend    []LegendItem
	ChartURL  string
	Width     int
	Height    int

	Days        int
	From        string
	To          string
	LastRefresh string

	// Notice explains a rejected toggle; Error replaces the chart entirely.
	Notice string
	Error  string
}

// NewPageData builds the view model of the chart page for a snapshot.
func NewPageData(snap selection.Snapshot, width, height int) *PageData {
	data := &PageData{
		Title:     "Daily weather",
		Selection: snap.Selection,
		ChartURL:  chartURL(snap.Selection, width),
		Width:     width,
		Height:    height,
	}
	for _, ms := range snap.Legend() {
		data.Legend = append(data.Legend, LegendItem{
			MetricState: ms,
			Color:       Color(ms.ID),
			ToggleURL:   ToggleURL(snap.Selection, ms.ID, !ms.Visible),
		})
	}
	return data
}

// ToggleURL is the link that asks the server to switch a metric on or off.
func ToggleURL(sel string, id selection.MetricID, on bool) string {
	q := url.Values{}
	if sel != "" {
		q.Set("sel", sel)
	}
	q.Set("metric", string(id))
	q.Set("on", strconv.FormatBool(on))
	return "/toggle?" + q.Encode()
}

// PageURL is the chart page for a selection.
func PageURL(sel string) string {
	if sel == "" {
		return "/"
	}
	return "/?" + url.Values{"sel": {sel}}.Encode()
}

func chartURL(sel string, width int) string {
	q := url.Values{}
	if sel != "" {
		q.Set("sel", sel)
	}
	if width > 0 {
		q.Set("width", strconv.Itoa(width))
	}
	if len(q) == 0 {
		return "/chart.svg"
	}
	return "/chart.svg?" + q.Encode()
}

// NoticeFor is the user-facing text for a rejected toggle.
func NoticeFor(outcome selection.Outcome) string {
	switch outcome {
	case selection.OverCapacity:
		return "That series cannot be added: the chart shows at most two line groups with one bar group, or one line group with two bar groups."
	case selection.RequiresCategory:
		return "Switch on Wind before adding gusts."
	case selection.UnknownMetric:
		return "Unknown series."
	default:
		return ""
	}
}

func RenderPage(w io.Writer, data *PageData) error {
	if pageTmpl == nil {
		return errors.New("page template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "chart", data)
}

// RenderLegendPartial executes only the legend partial.
func RenderLegendPartial(w io.Writer, data *PageData) error {
	if pageTmpl == nil {
		return errors.New("page template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "partials/legend.html", data)
}
