package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrHeaderNotFound is returned when a source has no line starting with the
// expected header prefix.
var ErrHeaderNotFound = errors.New("csv header not found")

type rangeRow struct {
	Date string
	Min  *float64
	Max  *float64
	Mean *float64
}

type weatherRow struct {
	Date           string
	TemperatureMax *float64
	TemperatureMin *float64
	Sunshine       *float64
	Precipitation  *float64
	WindGustMax    *float64
}

type directionRow struct {
	Date string
	Mean *float64
}

// Raw holds the parsed rows of the four daily sources before merging.
type Raw struct {
	Humidity      []rangeRow
	Weather       []weatherRow
	WindDaily     []rangeRow
	WindDirection []directionRow
}

// extractDataSection drops any preamble (location metadata and the like)
// above the header line.
func extractDataSection(text, headerPrefix string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, headerPrefix) {
			return strings.Join(lines[i:], "\n"), nil
		}
	}
	return "", fmt.Errorf("%w: prefix %q", ErrHeaderNotFound, headerPrefix)
}

// parseNumber returns nil for empty and non-finite values so that missing
// data never turns into zero.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// readTable parses a CSV section into rows keyed by column name. Columns
// missing from a row read as empty strings.
func readTable(text, headerPrefix string) ([]map[string]string, error) {
	section, err := extractDataSection(text, headerPrefix)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(section))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var out []map[string]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func parseHumidityDaily(text string) ([]rangeRow, error) {
	rows, err := readTable(text, "date,")
	if err != nil {
		return nil, err
	}
	out := make([]rangeRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, rangeRow{
			Date: strings.TrimSpace(row["date"]),
			Min:  parseNumber(row["min"]),
			Max:  parseNumber(row["max"]),
			Mean: parseNumber(row["mean"]),
		})
	}
	return out, nil
}

func parseWeatherDaily(text string) ([]weatherRow, error) {
	rows, err := readTable(text, "time,")
	if err != nil {
		return nil, err
	}
	out := make([]weatherRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, weatherRow{
			Date:           strings.TrimSpace(row["time"]),
			TemperatureMax: parseNumber(row["temperature_2m_max (°C)"]),
			TemperatureMin: parseNumber(row["temperature_2m_min (°C)"]),
			Sunshine:       parseNumber(row["sunshine_duration (s)"]),
			Precipitation:  parseNumber(row["precipitation_sum (mm)"]),
			WindGustMax:    parseNumber(row["wind_gusts_10m_max (km/h)"]),
		})
	}
	return out, nil
}

func parseWindDaily(text string) ([]rangeRow, error) {
	rows, err := readTable(text, "date,")
	if err != nil {
		return nil, err
	}
	out := make([]rangeRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, rangeRow{
			Date: strings.TrimSpace(row["date"]),
			Min:  parseNumber(row["wind_speed_min_km_h"]),
			Max:  parseNumber(row["wind_speed_max_km_h"]),
			Mean: parseNumber(row["wind_speed_mean_km_h"]),
		})
	}
	return out, nil
}

func parseWindDirectionDaily(text string) ([]directionRow, error) {
	rows, err := readTable(text, "date,")
	if err != nil {
		return nil, err
	}
	out := make([]directionRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, directionRow{
			Date: strings.TrimSpace(row["date"]),
			Mean: parseNumber(row["wind_direction_mean_10m (°)"]),
		})
	}
	return out, nil
}
