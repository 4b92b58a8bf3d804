package views

import (
	"math"

	"meteochart/internal/modules/chart/selection"
	"meteochart/internal/modules/weather/types"
)

// Domain is the [Min, Max] value range of one scale.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (d Domain) Span() float64 {
	return d.Max - d.Min
}

// Map rescales v from d into to.
func (d Domain) Map(v float64, to Domain) float64 {
	if d.Span() == 0 {
		return to.Min
	}
	return to.Min + (v-d.Min)/d.Span()*to.Span()
}

var defaultDomains = map[string]Domain{
	"temperature":   {Min: -10, Max: 45},
	"humidity":      {Min: 0, Max: 100},
	"wind":          {Min: 0, Max: 60},
	"precipitation": {Min: 0, Max: 60},
	"daylight":      {Min: 0, Max: 18},
}

// accessor returns the values a metric contributes for one day: min, mean
// and max for ranges, a single value otherwise.
type accessor func(d types.Day) []*float64

var accessors = map[selection.MetricID]accessor{
	selection.Temperature: func(d types.Day) []*float64 {
		return []*float64{d.Temperature.Min, d.Temperature.Mean, d.Temperature.Max}
	},
	selection.Humidity: func(d types.Day) []*float64 {
		return []*float64{d.Humidity.Min, d.Humidity.Mean, d.Humidity.Max}
	},
	selection.WindRange: func(d types.Day) []*float64 {
		return []*float64{d.WindRange.Min, d.WindRange.Mean, d.WindRange.Max}
	},
	selection.WindGust:      func(d types.Day) []*float64 { return []*float64{d.WindGust} },
	selection.Precipitation: func(d types.Day) []*float64 { return []*float64{d.Precipitation} },
	selection.Daylight:      func(d types.Day) []*float64 { return []*float64{d.DaylightHours} },
	selection.WindDirection: func(d types.Day) []*float64 { return []*float64{d.WindDirection} },
}

// ComputeDomains returns one domain per axis key from every metric drawn
// against it, visible or not, so that scales stay put while toggling.
func ComputeDomains(days []types.Day) map[string]Domain {
	values := make(map[string][]float64)
	for _, m := range selection.Metrics() {
		if !m.HasAxis() {
			continue
		}
		get := accessors[m.ID]
		for _, d := range days {
			for _, v := range get(d) {
				if v != nil {
					values[m.AxisKey] = append(values[m.AxisKey], *v)
				}
			}
		}
	}

	out := make(map[string]Domain, len(defaultDomains))
	for key, def := range defaultDomains {
		out[key] = nice(extent(values[key], def))
	}
	return out
}

// extent is the min/max of values, def when there are none. A flat series
// is widened by one unit each way.
func extent(values []float64, def Domain) Domain {
	if len(values) == 0 {
		return def
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return def
	}
	if lo == hi {
		return Domain{Min: lo - 1, Max: hi + 1}
	}
	return Domain{Min: lo, Max: hi}
}

// nice extends d outward to round tick boundaries (about ten ticks). Values
// are scaled to integers first so decimal steps land exactly.
func nice(d Domain) Domain {
	m, exp := tickStep(d.Span(), 10)
	if m == 0 {
		return d
	}
	unit, down := 1.0, 1.0
	if exp >= 0 {
		unit = math.Pow(10, float64(exp))
	} else {
		down = math.Pow(10, float64(-exp))
	}
	step := m * unit
	return Domain{
		Min: math.Floor(d.Min*down/step) * step / down,
		Max: math.Ceil(d.Max*down/step) * step / down,
	}
}

// tickStep returns the step for about count ticks over span as m * 10^exp
// with m in {1, 2, 5, 10}.
func tickStep(span float64, count int) (m float64, exp int) {
	if span <= 0 || count <= 0 {
		return 0, 0
	}
	raw := span / float64(count)
	exp = int(math.Floor(math.Log10(raw)))
	switch r := raw / math.Pow(10, float64(exp)); {
	case r >= 7.07:
		return 10, exp
	case r >= 3.16:
		return 5, exp
	case r >= 1.41:
		return 2, exp
	default:
		return 1, exp
	}
}

var cardinals = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// DegreesToCardinal maps a bearing to one of eight compass points. Any real
// number is accepted and normalised into [0, 360).
func DegreesToCardinal(deg float64) (string, bool) {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return "", false
	}
	n := math.Mod(math.Mod(deg, 360)+360, 360)
	return cardinals[int(math.Floor((n+22.5)/45))%8], true
}
