package selection

type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Binding tells the renderer which scale a metric is drawn against and on
// which side of the plot it sits.
type Binding struct {
	AxisKey string `json:"axisKey"`
	Side    Side   `json:"side"`
	Slot    int    `json:"slot"`
	// Displayed is false for the third slot, which borrows the right-hand
	// position without drawing an axis of its own.
	Displayed bool `json:"displayed"`
}

// Draws reports whether the metric is plotted for the given selection.
func Draws(s State, id MetricID) bool {
	m, ok := Lookup(id)
	if !ok || !s.visible[id] {
		return false
	}
	if s.slot(m.Category) < 0 {
		return false
	}
	if m.Shape == ShapeDirectional {
		return true
	}
	return m.HasAxis()
}

// AxisFor returns the axis binding of a metric whose category holds a slot.
// Directional metrics never get one.
func AxisFor(s State, id MetricID) (Binding, bool) {
	m, ok := Lookup(id)
	if !ok || !m.HasAxis() {
		return Binding{}, false
	}
	slot := s.slot(m.Category)
	switch slot {
	case 0:
		return Binding{AxisKey: m.AxisKey, Side: Left, Slot: 0, Displayed: true}, true
	case 1:
		return Binding{AxisKey: m.AxisKey, Side: Right, Slot: 1, Displayed: true}, true
	case 2:
		// Every category has its own axis key, so the third slot always keeps
		// its own scale.
		return Binding{AxisKey: m.AxisKey, Side: Right, Slot: 2}, true
	default:
		return Binding{}, false
	}
}

// Axes lists the scales that get a drawn axis on each side.
type Axes struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

func ActiveAxes(s State) Axes {
	a := Axes{Left: []string{}, Right: []string{}}
	if len(s.order) >= 1 {
		if key := s.order[0].AxisKey(); key != "" {
			a.Left = append(a.Left, key)
		}
	}
	if len(s.order) >= 2 {
		if key := s.order[1].AxisKey(); key != "" {
			a.Right = append(a.Right, key)
		}
	}
	return a
}

const (
	baseMarginTop    = 50
	baseMarginBottom = 50
	baseMarginLeft   = 100
	baseMarginRight  = 180
	// AxisGap is the horizontal space taken by each extra axis on a side.
	AxisGap = 60
)

type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

func ComputeMargins(a Axes) Margins {
	return Margins{
		Top:    baseMarginTop,
		Bottom: baseMarginBottom,
		Left:   baseMarginLeft + max(0, len(a.Left)-1)*AxisGap,
		Right:  baseMarginRight + max(0, len(a.Right)-1)*AxisGap,
	}
}

func ActiveCategoriesInOrder(s State) []Category {
	return s.Order()
}
