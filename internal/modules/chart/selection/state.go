package selection

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// MaxSlots is the number of categories that can be on the chart at once.
const MaxSlots = 3

// State is the user's current selection. The zero value is the empty
// selection. A State is never modified in place; Toggle returns a new one.
type State struct {
	visible map[MetricID]bool
	order   []Category
}

func Empty() State {
	return State{}
}

func (s State) Visible(id MetricID) bool {
	return s.visible[id]
}

// Order returns the selected categories in the order they were first chosen.
func (s State) Order() []Category {
	return slices.Clone(s.order)
}

func (s State) IsEmpty() bool {
	return len(s.order) == 0 && len(s.VisibleMetrics()) == 0
}

// VisibleMetrics lists the visible metrics in catalog order.
func (s State) VisibleMetrics() []MetricID {
	var out []MetricID
	for _, m := range catalog {
		if s.visible[m.ID] {
			out = append(out, m.ID)
		}
	}
	return out
}

func (s State) Equal(o State) bool {
	if !slices.Equal(s.order, o.order) {
		return false
	}
	for _, m := range catalog {
		if s.visible[m.ID] != o.visible[m.ID] {
			return false
		}
	}
	return true
}

func (s State) slot(c Category) int {
	return slices.Index(s.order, c)
}

func (s State) clone() State {
	return State{
		visible: maps.Clone(s.visible),
		order:   slices.Clone(s.order),
	}
}

// set, appendCategory and removeCategory are only used on a fresh clone.
func (s *State) set(id MetricID, v bool) {
	if s.visible == nil {
		s.visible = make(map[MetricID]bool, len(catalog))
	}
	if !v {
		delete(s.visible, id)
		return
	}
	s.visible[id] = true
}

func (s *State) appendCategory(c Category) {
	if slices.Contains(s.order, c) {
		return
	}
	s.order = append(s.order, c)
}

func (s *State) removeCategory(c Category) {
	if i := slices.Index(s.order, c); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// Encode serialises the selection as a comma separated replay list: for each
// category in slot order, its visible members, primaries first. windDirection
// is implied by windRange and never written.
func (s State) Encode() string {
	var ids []string
	for _, c := range s.order {
		for _, id := range c.Members() {
			if id == WindDirection || !s.visible[id] {
				continue
			}
			ids = append(ids, string(id))
		}
	}
	return strings.Join(ids, ",")
}

// Decode rebuilds a State by replaying each listed metric as a toggle-on from
// the empty selection. Unknown or disallowed entries are skipped, so the
// result always satisfies the selection rules.
func Decode(sel string) State {
	s := Empty()
	for _, part := range strings.Split(sel, ",") {
		id := MetricID(strings.TrimSpace(part))
		if id == "" {
			continue
		}
		s = Toggle(s, id, true).State
	}
	return s
}

func (s State) String() string {
	return s.Encode()
}

type stateJSON struct {
	Order   []Category `json:"order"`
	Visible []MetricID `json:"visible"`
}

func (s State) MarshalJSON() ([]byte, error) {
	order := s.Order()
	if order == nil {
		order = []Category{}
	}
	visible := s.VisibleMetrics()
	if visible == nil {
		visible = []MetricID{}
	}
	return json.Marshal(stateJSON{Order: order, Visible: visible})
}
