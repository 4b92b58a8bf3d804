package dataset

import (
	"errors"
	"fmt"
	"time"

	"meteochart/internal/modules/weather/types"
)

// ValidateObservation checks an incoming MQTT observation.
func ValidateObservation(o types.Observation) error {
	if o.Date == "" {
		return errors.New("date is required")
	}
	if _, err := time.Parse(types.DateLayout, o.Date); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", o.Date)
	}
	for _, h := range []*float64{o.HumidityMin, o.HumidityMax, o.HumidityMean} {
		if h != nil && (*h < 0 || *h > 100) {
			return fmt.Errorf("humidity out of range: %f (must be 0-100)", *h)
		}
	}
	if o.WindDirection != nil && (*o.WindDirection < 0 || *o.WindDirection > 360) {
		return fmt.Errorf("wind_direction_deg out of range: %f (must be 0-360)", *o.WindDirection)
	}
	if o.Precipitation != nil && *o.Precipitation < 0 {
		return fmt.Errorf("precipitation_mm must not be negative: %f", *o.Precipitation)
	}
	if o.SunshineDuration != nil && (*o.SunshineDuration < 0 || *o.SunshineDuration > 86400) {
		return fmt.Errorf("sunshine_s out of range: %f (must be 0-86400)", *o.SunshineDuration)
	}
	if dayFromObservation(o).isBlank() {
		return errors.New("at least one measurement is required")
	}
	return nil
}

// DayFromObservation converts a validated observation into a daily record.
func DayFromObservation(o types.Observation) (types.Day, error) {
	if err := ValidateObservation(o); err != nil {
		return types.Day{}, err
	}
	return dayFromObservation(o).Day, nil
}

// ObservationFromDay is the inverse used when publishing a loaded dataset.
func ObservationFromDay(d types.Day, stationID string) types.Observation {
	var sunshine *float64
	if d.DaylightHours != nil {
		s := *d.DaylightHours * 3600
		sunshine = &s
	}
	return types.Observation{
		Date:             d.Key(),
		StationID:        stationID,
		TemperatureMin:   d.Temperature.Min,
		TemperatureMax:   d.Temperature.Max,
		HumidityMin:      d.Humidity.Min,
		HumidityMax:      d.Humidity.Max,
		HumidityMean:     d.Humidity.Mean,
		WindMin:          d.WindRange.Min,
		WindMax:          d.WindRange.Max,
		WindMean:         d.WindRange.Mean,
		WindGust:         d.WindGust,
		WindDirection:    d.WindDirection,
		Precipitation:    d.Precipitation,
		SunshineDuration: sunshine,
	}
}

type observedDay struct {
	types.Day
}

func (d observedDay) isBlank() bool {
	return d.Temperature.Empty() && d.Humidity.Empty() && d.WindRange.Empty() &&
		d.WindGust == nil && d.WindDirection == nil && d.Precipitation == nil && d.DaylightHours == nil
}

func dayFromObservation(o types.Observation) observedDay {
	date, _ := time.Parse(types.DateLayout, o.Date)
	return observedDay{types.Day{
		Date: date,
		Temperature: types.Range{
			Min:  o.TemperatureMin,
			Max:  o.TemperatureMax,
			Mean: mean(o.TemperatureMin, o.TemperatureMax),
		},
		Humidity:      types.Range{Min: o.HumidityMin, Max: o.HumidityMax, Mean: o.HumidityMean},
		WindRange:     types.Range{Min: o.WindMin, Max: o.WindMax, Mean: o.WindMean},
		WindGust:      o.WindGust,
		WindDirection: o.WindDirection,
		Precipitation: o.Precipitation,
		DaylightHours: hoursFromSeconds(o.SunshineDuration),
	}}
}
