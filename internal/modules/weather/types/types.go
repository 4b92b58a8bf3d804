package types

import "time"

// DateLayout is the calendar key used by every daily source.
const DateLayout = "2006-01-02"

// Range is a daily min/mean/max triple. Nil means no data for that day.
type Range struct {
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
	Mean *float64 `json:"mean"`
}

func (r Range) Empty() bool {
	return r.Min == nil && r.Max == nil && r.Mean == nil
}

// Day is one merged daily record.
type Day struct {
	Date          time.Time `json:"date"`
	Temperature   Range     `json:"temperature"`
	Humidity      Range     `json:"humidity"`
	WindRange     Range     `json:"windRange"`
	WindGust      *float64  `json:"windGust"`
	WindDirection *float64  `json:"windDirection"`
	Precipitation *float64  `json:"precipitation"`
	DaylightHours *float64  `json:"daylightHours"`
}

func (d Day) Key() string {
	return d.Date.Format(DateLayout)
}

// Observation is the MQTT message carrying one day of measurements.
type Observation struct {
	Date             string   `json:"date"`
	StationID        string   `json:"station_id,omitempty"`
	TemperatureMin   *float64 `json:"temperature_min_c,omitempty"`
	TemperatureMax   *float64 `json:"temperature_max_c,omitempty"`
	HumidityMin      *float64 `json:"humidity_min_pct,omitempty"`
	HumidityMax      *float64 `json:"humidity_max_pct,omitempty"`
	HumidityMean     *float64 `json:"humidity_mean_pct,omitempty"`
	WindMin          *float64 `json:"wind_min_kmh,omitempty"`
	WindMax          *float64 `json:"wind_max_kmh,omitempty"`
	WindMean         *float64 `json:"wind_mean_kmh,omitempty"`
	WindGust         *float64 `json:"wind_gust_kmh,omitempty"`
	WindDirection    *float64 `json:"wind_direction_deg,omitempty"`
	Precipitation    *float64 `json:"precipitation_mm,omitempty"`
	SunshineDuration *float64 `json:"sunshine_s,omitempty"`
}
