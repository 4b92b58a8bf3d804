package dataset

import (
	"fmt"
	"slices"
	"time"

	"meteochart/internal/modules/weather/types"
)

// Merge joins the secondary sources onto the weather-day rows by date. A day
// missing from a secondary source keeps nil values for it; it is never
// dropped. The result is sorted by date.
func Merge(raw Raw) ([]types.Day, error) {
	humidity := make(map[string]rangeRow, len(raw.Humidity))
	for _, r := range raw.Humidity {
		humidity[r.Date] = r
	}
	wind := make(map[string]rangeRow, len(raw.WindDaily))
	for _, r := range raw.WindDaily {
		wind[r.Date] = r
	}
	direction := make(map[string]directionRow, len(raw.WindDirection))
	for _, r := range raw.WindDirection {
		direction[r.Date] = r
	}

	days := make([]types.Day, 0, len(raw.Weather))
	for _, w := range raw.Weather {
		if w.Date == "" {
			continue
		}
		date, err := time.Parse(types.DateLayout, w.Date)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", w.Date, err)
		}
		day := types.Day{
			Date: date,
			Temperature: types.Range{
				Min:  w.TemperatureMin,
				Max:  w.TemperatureMax,
				Mean: mean(w.TemperatureMin, w.TemperatureMax),
			},
			WindGust:      w.WindGustMax,
			Precipitation: w.Precipitation,
			DaylightHours: hoursFromSeconds(w.Sunshine),
		}
		if h, ok := humidity[w.Date]; ok {
			day.Humidity = types.Range{Min: h.Min, Max: h.Max, Mean: h.Mean}
		}
		if wr, ok := wind[w.Date]; ok {
			day.WindRange = types.Range{Min: wr.Min, Max: wr.Max, Mean: wr.Mean}
		}
		if d, ok := direction[w.Date]; ok {
			day.WindDirection = d.Mean
		}
		days = append(days, day)
	}

	slices.SortStableFunc(days, func(a, b types.Day) int {
		return a.Date.Compare(b.Date)
	})
	return days, nil
}

// mean averages the non-nil values; nil when there are none.
func mean(values ...*float64) *float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

func hoursFromSeconds(s *float64) *float64 {
	if s == nil {
		return nil
	}
	h := *s / 3600
	return &h
}
