// Package selection decides which weather metrics may be shown together on the
// chart and which vertical axis each visible metric is plotted against.
//
// Every function in this package is pure: a State goes in, a decision or a new
// State comes out. Callers own the State value and pass it back on the next
// request.
package selection

import "slices"

type Category string

const (
	CategoryTemperature   Category = "temperature"
	CategoryHumidity      Category = "humidity"
	CategoryWind          Category = "wind"
	CategoryPrecipitation Category = "precipitation"
	CategoryDaylight      Category = "daylight"
)

// ShapeClass groups categories by how they are drawn. Capacity limits are
// expressed per class.
type ShapeClass int

const (
	RangeLine ShapeClass = iota
	Bar
)

func (c ShapeClass) String() string {
	if c == Bar {
		return "bar"
	}
	return "range_line"
}

type Shape string

const (
	ShapeRange       Shape = "range"
	ShapeLine        Shape = "line"
	ShapeBar         Shape = "bar"
	ShapeDirectional Shape = "directional"
)

type MetricID string

const (
	Temperature   MetricID = "temperature"
	Humidity      MetricID = "humidity"
	WindRange     MetricID = "windRange"
	WindGust      MetricID = "windGust"
	Precipitation MetricID = "precipitation"
	Daylight      MetricID = "daylight"
	WindDirection MetricID = "windDirection"
)

type Metric struct {
	ID       MetricID `json:"id"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
	Shape    Shape    `json:"shape"`
	// AxisKey names the numeric scale the metric is drawn against. Empty for
	// directional metrics, which are overlays and never occupy an axis.
	AxisKey string `json:"axisKey,omitempty"`
	Units   string `json:"units"`
}

func (m Metric) HasAxis() bool {
	return m.AxisKey != ""
}

// toggleGroup lists the members of a category. Primary members switch
// together and decide whether the category is selected; dependent members
// can only be switched on while a primary member is on.
type toggleGroup struct {
	primary   []MetricID
	dependent []MetricID
}

var catalog = []Metric{
	{ID: Temperature, Label: "Temperature", Category: CategoryTemperature, Shape: ShapeRange, AxisKey: "temperature", Units: "°C"},
	{ID: Humidity, Label: "Humidity", Category: CategoryHumidity, Shape: ShapeRange, AxisKey: "humidity", Units: "%"},
	{ID: WindRange, Label: "Wind", Category: CategoryWind, Shape: ShapeRange, AxisKey: "wind", Units: " km/h"},
	{ID: WindGust, Label: "Wind Gust", Category: CategoryWind, Shape: ShapeLine, AxisKey: "wind", Units: " km/h"},
	{ID: Precipitation, Label: "Precipitation", Category: CategoryPrecipitation, Shape: ShapeBar, AxisKey: "precipitation", Units: " mm"},
	{ID: Daylight, Label: "Daylight", Category: CategoryDaylight, Shape: ShapeBar, AxisKey: "daylight", Units: " h"},
	{ID: WindDirection, Label: "Wind Direction", Category: CategoryWind, Shape: ShapeDirectional, Units: "°"},
}

var categories = []Category{
	CategoryTemperature,
	CategoryHumidity,
	CategoryWind,
	CategoryPrecipitation,
	CategoryDaylight,
}

var shapeClasses = map[Category]ShapeClass{
	CategoryTemperature:   RangeLine,
	CategoryHumidity:      RangeLine,
	CategoryWind:          RangeLine,
	CategoryPrecipitation: Bar,
	CategoryDaylight:      Bar,
}

var groups = map[Category]toggleGroup{
	CategoryTemperature:   {primary: []MetricID{Temperature}},
	CategoryHumidity:      {primary: []MetricID{Humidity}},
	CategoryWind:          {primary: []MetricID{WindRange, WindDirection}, dependent: []MetricID{WindGust}},
	CategoryPrecipitation: {primary: []MetricID{Precipitation}},
	CategoryDaylight:      {primary: []MetricID{Daylight}},
}

var axisLabels = map[Category]string{
	CategoryTemperature:   "Temperature (°C)",
	CategoryHumidity:      "Humidity (%)",
	CategoryWind:          "Wind Speed (km/h)",
	CategoryPrecipitation: "Precipitation (mm)",
	CategoryDaylight:      "Daylight (hours)",
}

// Metrics returns the catalog in display order.
func Metrics() []Metric {
	return slices.Clone(catalog)
}

func Lookup(id MetricID) (Metric, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Metric{}, false
}

func Categories() []Category {
	return slices.Clone(categories)
}

func (c Category) Valid() bool {
	_, ok := shapeClasses[c]
	return ok
}

func (c Category) ShapeClass() ShapeClass {
	return shapeClasses[c]
}

// AxisKey is the scale shared by the category's axis-bearing metrics.
func (c Category) AxisKey() string {
	for _, m := range catalog {
		if m.Category == c && m.HasAxis() {
			return m.AxisKey
		}
	}
	return ""
}

func (c Category) AxisLabel() string {
	return axisLabels[c]
}

// Members returns primary members followed by dependent ones.
func (c Category) Members() []MetricID {
	g := groups[c]
	return append(slices.Clone(g.primary), g.dependent...)
}

func isPrimary(id MetricID) bool {
	m, ok := Lookup(id)
	if !ok {
		return false
	}
	return slices.Contains(groups[m.Category].primary, id)
}

func isDependent(id MetricID) bool {
	m, ok := Lookup(id)
	if !ok {
		return false
	}
	return slices.Contains(groups[m.Category].dependent, id)
}
