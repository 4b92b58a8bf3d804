package views

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"meteochart/internal/modules/chart/selection"
	"meteochart/internal/modules/weather/types"
)

// ErrNoDays is returned when there is nothing to plot.
var ErrNoDays = errors.New("no days to plot")

type ChartOptions struct {
	Width  int
	Height int
}

var palette = map[selection.MetricID]drawing.Color{
	selection.Temperature:   drawing.ColorFromHex("E16A01"),
	selection.Humidity:      drawing.ColorFromHex("1E7D1E"),
	selection.WindRange:     drawing.ColorFromHex("8E44AD"),
	selection.WindGust:      drawing.ColorFromHex("BC70DD"),
	selection.Precipitation: drawing.ColorFromHex("055991"),
	selection.Daylight:      drawing.ColorFromHex("E5B300"),
	selection.WindDirection: drawing.ColorFromHex("BBBBBB"),
}

// Color is the series colour as a CSS hex string.
func Color(id selection.MetricID) string {
	c, ok := palette[id]
	if !ok {
		return "#333333"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RenderChart writes the SVG chart for the selection.
func RenderChart(w io.Writer, s selection.State, days []types.Day, opts ChartOptions) error {
	graph, err := buildChart(s, days, opts)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return nil
}

// scale says how a series is plotted: against which go-chart axis, and how
// its values are mapped into that axis' domain.
type scale struct {
	axis chart.YAxisType
	from Domain
	to   Domain
}

func (sc scale) apply(v float64) float64 {
	if sc.from == sc.to {
		return v
	}
	return sc.from.Map(v, sc.to)
}

func buildChart(s selection.State, days []types.Day, opts ChartOptions) (chart.Chart, error) {
	if len(days) == 0 {
		return chart.Chart{}, ErrNoDays
	}
	snap := selection.TakeSnapshot(s)
	domains := ComputeDomains(days)
	order := s.Order()

	var leftKey, rightKey string
	if len(order) > 0 {
		leftKey = order[0].AxisKey()
	}
	if len(order) > 1 {
		rightKey = order[1].AxisKey()
	}

	graph := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    snap.Margins.Top,
				Left:   snap.Margins.Left,
				Right:  snap.Margins.Right,
				Bottom: snap.Margins.Bottom,
			},
		},
		XAxis: xAxis(days),
		YAxis: yAxis(order, 0, leftKey, domains),
		// go-chart draws the secondary axis on the right.
		YAxisSecondary: yAxis(order, 1, rightKey, domains),
	}

	barIndex := 0
	for _, ms := range snap.Metrics {
		if !ms.Draws || ms.Axis == nil {
			continue
		}
		sc := scaleFor(*ms.Axis, rightKey, domains)
		get := accessors[ms.ID]
		color := palette[ms.ID]

		switch ms.Shape {
		case selection.ShapeRange:
			graph.Series = append(graph.Series, rangeSeries(ms.Metric, days, get, sc, color)...)
		case selection.ShapeLine:
			style := chart.Style{StrokeColor: color, StrokeWidth: 1.5, StrokeDashArray: []float64{6, 6}}
			graph.Series = append(graph.Series, lineSeries(ms.Label, days, pick(get, 0), sc, style)...)
		case selection.ShapeBar:
			offset := -3 * time.Hour
			if barIndex > 0 {
				offset = 3 * time.Hour
			}
			barIndex++
			if bar, ok := barSeries(ms.Label, days, pick(get, 0), sc, color, offset); ok {
				graph.Series = append(graph.Series, bar)
			}
		}
	}

	if selection.Draws(s, selection.WindDirection) {
		top := domains["wind"].Max
		axis := chart.YAxisPrimary
		if leftKey != "" {
			top = domains[leftKey].Max
		}
		if ann, ok := directionSeries(days, top, axis, opts.Width-snap.Margins.Left-snap.Margins.Right); ok {
			graph.Series = append(graph.Series, ann)
		}
	}

	if len(graph.Series) == 0 {
		graph.Series = append(graph.Series, baseline(days, graph.YAxis.Range.GetMin()))
	}
	return graph, nil
}

// scaleFor resolves the go-chart axis for a binding. A third-slot metric is
// rescaled from its own domain into the right-hand one.
func scaleFor(b selection.Binding, rightKey string, domains map[string]Domain) scale {
	own := domains[b.AxisKey]
	switch b.Slot {
	case 0:
		return scale{axis: chart.YAxisPrimary, from: own, to: own}
	case 1:
		return scale{axis: chart.YAxisSecondary, from: own, to: own}
	default:
		return scale{axis: chart.YAxisSecondary, from: own, to: domains[rightKey]}
	}
}

func xAxis(days []types.Day) chart.XAxis {
	first, last := days[0].Date, days[len(days)-1].Date
	pad := 12 * time.Hour
	return chart.XAxis{
		Range: &chart.ContinuousRange{
			Min: chart.TimeToFloat64(first.Add(-pad)),
			Max: chart.TimeToFloat64(last.Add(pad)),
		},
		ValueFormatter: func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return chart.TimeFromFloat64(f).UTC().Format("Jan 02")
			}
			return ""
		},
		Style: chart.Style{FontSize: 9},
	}
}

func yAxis(order []selection.Category, slot int, key string, domains map[string]Domain) chart.YAxis {
	if key == "" {
		return chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		}
	}
	d := domains[key]
	return chart.YAxis{
		Name:           order[slot].AxisLabel(),
		NameStyle:      chart.Style{FontSize: 11},
		Style:          chart.Style{FontSize: 9},
		Range:          &chart.ContinuousRange{Min: d.Min, Max: d.Max},
		ValueFormatter: formatTick,
	}
}

func formatTick(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func pick(get accessor, i int) func(types.Day) *float64 {
	return func(d types.Day) *float64 { return get(d)[i] }
}

// rangeSeries draws min and max as thin lines and the mean as a thick one.
func rangeSeries(m selection.Metric, days []types.Day, get accessor, sc scale, color drawing.Color) []chart.Series {
	edge := chart.Style{StrokeColor: color.WithAlpha(140), StrokeWidth: 1}
	mean := chart.Style{StrokeColor: color, StrokeWidth: 2.5}

	var out []chart.Series
	out = append(out, lineSeries(m.Label+" min", days, pick(get, 0), sc, edge)...)
	out = append(out, lineSeries(m.Label, days, pick(get, 1), sc, mean)...)
	out = append(out, lineSeries(m.Label+" max", days, pick(get, 2), sc, edge)...)
	return out
}

// lineSeries splits the values at nulls so gaps are never bridged.
func lineSeries(name string, days []types.Day, get func(types.Day) *float64, sc scale, style chart.Style) []chart.Series {
	var out []chart.Series
	for i, run := range splitRuns(days, get) {
		st := style
		if len(run.x) == 1 {
			st.DotColor = style.StrokeColor
			st.DotWidth = 3
		}
		ts := chart.TimeSeries{
			Name:    name,
			Style:   st,
			YAxis:   sc.axis,
			XValues: run.x,
			YValues: make([]float64, len(run.y)),
		}
		if i > 0 {
			ts.Name = ""
		}
		for j, v := range run.y {
			ts.YValues[j] = sc.apply(v)
		}
		out = append(out, ts)
	}
	return out
}

func barSeries(name string, days []types.Day, get func(types.Day) *float64, sc scale, color drawing.Color, offset time.Duration) (chart.Series, bool) {
	inner := chart.TimeSeries{Name: name, YAxis: sc.axis}
	for _, d := range days {
		v := get(d)
		if v == nil {
			continue
		}
		inner.XValues = append(inner.XValues, d.Date.Add(offset))
		inner.YValues = append(inner.YValues, sc.apply(*v))
	}
	if len(inner.XValues) == 0 {
		return nil, false
	}
	return chart.HistogramSeries{
		Name: name,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 1,
			FillColor:   color.WithAlpha(180),
		},
		YAxis:       sc.axis,
		InnerSeries: inner,
	}, true
}

// directionSeries labels days with the compass point of the mean wind
// direction, thinned so labels do not overlap.
func directionSeries(days []types.Day, top float64, axis chart.YAxisType, plotWidth int) (chart.Series, bool) {
	maxLabels := max(1, plotWidth/36)
	step := max(1, int(math.Ceil(float64(len(days))/float64(maxLabels))))

	var values []chart.Value2
	for i := 0; i < len(days); i += step {
		d := days[i]
		if d.WindDirection == nil {
			continue
		}
		label, ok := DegreesToCardinal(*d.WindDirection)
		if !ok {
			continue
		}
		values = append(values, chart.Value2{
			XValue: chart.TimeToFloat64(d.Date),
			YValue: top,
			Label:  label,
		})
	}
	if len(values) == 0 {
		return nil, false
	}
	return chart.AnnotationSeries{
		Name: "Wind Direction",
		Style: chart.Style{
			StrokeColor: palette[selection.WindDirection],
			FontColor:   drawing.ColorFromHex("555555"),
			FontSize:    8,
		},
		YAxis:       axis,
		Annotations: values,
	}, true
}

// baseline is an invisible series so an empty selection still renders the
// date axis.
func baseline(days []types.Day, y float64) chart.Series {
	return chart.TimeSeries{
		Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 0.01},
		XValues: []time.Time{days[0].Date, days[len(days)-1].Date},
		YValues: []float64{y, y},
	}
}

type run struct {
	x []time.Time
	y []float64
}

// splitRuns groups consecutive non-null values.
func splitRuns(days []types.Day, get func(types.Day) *float64) []run {
	var (
		out []run
		cur run
	)
	for _, d := range days {
		v := get(d)
		if v == nil {
			if len(cur.x) > 0 {
				out = append(out, cur)
				cur = run{}
			}
			continue
		}
		cur.x = append(cur.x, d.Date)
		cur.y = append(cur.y, *v)
	}
	if len(cur.x) > 0 {
		out = append(out, cur)
	}
	return out
}
