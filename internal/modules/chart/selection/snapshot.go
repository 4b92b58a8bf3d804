package selection

// MetricState is one legend row: the catalog entry plus everything the
// renderer needs to decide how to show its control and its series.
type MetricState struct {
	Metric
	Visible    bool     `json:"visible"`
	Selectable bool     `json:"selectable"`
	Hidden     bool     `json:"hidden"`
	Draws      bool     `json:"draws"`
	Axis       *Binding `json:"axis,omitempty"`
}

// Snapshot is the read-only view of a State handed to the rendering side.
type Snapshot struct {
	Selection string        `json:"sel"`
	Order     []Category    `json:"order"`
	Metrics   []MetricState `json:"metrics"`
	Axes      Axes          `json:"axes"`
	Margins   Margins       `json:"margins"`
}

func TakeSnapshot(s State) Snapshot {
	order := ActiveCategoriesInOrder(s)
	if order == nil {
		order = []Category{}
	}
	axes := ActiveAxes(s)
	snap := Snapshot{
		Selection: s.Encode(),
		Order:     order,
		Axes:      axes,
		Margins:   ComputeMargins(axes),
		Metrics:   make([]MetricState, 0, len(catalog)),
	}
	for _, m := range catalog {
		ms := MetricState{
			Metric:     m,
			Visible:    s.Visible(m.ID),
			Selectable: CanSelect(s, m.ID),
			Draws:      Draws(s, m.ID),
		}
		ms.Hidden = legendHidden(s, m, ms.Selectable, ms.Visible)
		if b, ok := AxisFor(s, m.ID); ok && ms.Visible {
			ms.Axis = &b
		}
		snap.Metrics = append(snap.Metrics, ms)
	}
	return snap
}

// Legend returns the rows that get a control, in catalog order.
func (s Snapshot) Legend() []MetricState {
	out := make([]MetricState, 0, len(s.Metrics))
	for _, ms := range s.Metrics {
		if ms.ID == WindDirection {
			continue
		}
		out = append(out, ms)
	}
	return out
}

func (s Snapshot) Metric(id MetricID) (MetricState, bool) {
	for _, ms := range s.Metrics {
		if ms.ID == id {
			return ms, true
		}
	}
	return MetricState{}, false
}

func legendHidden(s State, m Metric, selectable, visible bool) bool {
	if m.ID == WindDirection {
		return true
	}
	if isDependent(m.ID) && !IsCategoryActive(s, m.Category) {
		return true
	}
	return !selectable && !visible
}
