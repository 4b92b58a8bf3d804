// Package export writes the merged daily dataset to an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"meteochart/internal/modules/weather/types"
	"meteochart/internal/modules/weather/views"
)

const SheetName = "Daily weather"

type column struct {
	header string
	width  float64
	value  func(d types.Day) any
}

func num(get func(d types.Day) *float64) func(types.Day) any {
	return func(d types.Day) any {
		if v := get(d); v != nil {
			return *v
		}
		return nil
	}
}

var columns = []column{
	{header: "Date", width: 12, value: func(d types.Day) any { return d.Key() }},
	{header: "Temperature min (°C)", width: 12, value: num(func(d types.Day) *float64 { return d.Temperature.Min })},
	{header: "Temperature mean (°C)", width: 12, value: num(func(d types.Day) *float64 { return d.Temperature.Mean })},
	{header: "Temperature max (°C)", width: 12, value: num(func(d types.Day) *float64 { return d.Temperature.Max })},
	{header: "Humidity min (%)", width: 12, value: num(func(d types.Day) *float64 { return d.Humidity.Min })},
	{header: "Humidity mean (%)", width: 12, value: num(func(d types.Day) *float64 { return d.Humidity.Mean })},
	{header: "Humidity max (%)", width: 12, value: num(func(d types.Day) *float64 { return d.Humidity.Max })},
	{header: "Wind min (km/h)", width: 12, value: num(func(d types.Day) *float64 { return d.WindRange.Min })},
	{header: "Wind mean (km/h)", width: 12, value: num(func(d types.Day) *float64 { return d.WindRange.Mean })},
	{header: "Wind max (km/h)", width: 12, value: num(func(d types.Day) *float64 { return d.WindRange.Max })},
	{header: "Wind gust (km/h)", width: 12, value: num(func(d types.Day) *float64 { return d.WindGust })},
	{header: "Wind direction (°)", width: 12, value: num(func(d types.Day) *float64 { return d.WindDirection })},
	{header: "Wind direction", width: 10, value: func(d types.Day) any {
		if d.WindDirection == nil {
			return nil
		}
		if c, ok := views.DegreesToCardinal(*d.WindDirection); ok {
			return c
		}
		return nil
	}},
	{header: "Precipitation (mm)", width: 12, value: num(func(d types.Day) *float64 { return d.Precipitation })},
	{header: "Daylight (h)", width: 12, value: num(func(d types.Day) *float64 { return d.DaylightHours })},
}

// Workbook builds the workbook: a header row and one row per day. Nulls are
// left as empty cells. The caller closes the returned file.
func Workbook(days []types.Day) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := fill(f, days); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fill(f *excelize.File, days []types.Day) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(SheetName, cell, col.header); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, col.width); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	for r, d := range days {
		for c, col := range columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			switch v := col.value(d).(type) {
			case nil:
			case float64:
				err = f.SetCellFloat(SheetName, cell, v, -1, 64)
			case string:
				err = f.SetCellStr(SheetName, cell, v)
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}
	return nil
}

// Write streams the workbook to w.
func Write(w io.Writer, days []types.Day) error {
	f, err := Workbook(days)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}

// Save writes the workbook to path.
func Save(path string, days []types.Day) error {
	f, err := Workbook(days)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
