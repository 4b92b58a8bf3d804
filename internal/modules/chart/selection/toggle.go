package selection

// Outcome describes what a Toggle call did.
type Outcome string

const (
	Applied          Outcome = "applied"
	Unchanged        Outcome = "unchanged"
	UnknownMetric    Outcome = "unknown_metric"
	OverCapacity     Outcome = "over_capacity"
	RequiresCategory Outcome = "requires_category"
)

type Result struct {
	State   State
	Outcome Outcome
}

func (r Result) Changed() bool {
	return r.Outcome == Applied
}

// Toggle switches a metric on or off and returns the resulting selection.
// Requests that break a selection rule leave the state as it was and report
// why in the Outcome; they are not errors.
func Toggle(s State, id MetricID, want bool) Result {
	m, ok := Lookup(id)
	if !ok {
		return Result{State: s, Outcome: UnknownMetric}
	}
	if want {
		return switchOn(s, m)
	}
	return switchOff(s, m)
}

// Reset clears every selection.
func Reset() State {
	return Empty()
}

func switchOn(s State, m Metric) Result {
	if s.visible[m.ID] {
		return Result{State: s, Outcome: Unchanged}
	}
	c := m.Category
	active := IsCategoryActive(s, c)
	if isDependent(m.ID) && !active {
		return Result{State: s, Outcome: RequiresCategory}
	}
	if !active && !hasCapacityFor(s, c.ShapeClass()) {
		return Result{State: s, Outcome: OverCapacity}
	}

	next := s.clone()
	next.appendCategory(c)
	if isPrimary(m.ID) {
		for _, id := range groups[c].primary {
			next.set(id, true)
		}
	} else {
		next.set(m.ID, true)
	}
	return Result{State: next, Outcome: Applied}
}

func switchOff(s State, m Metric) Result {
	next := s.clone()
	c := m.Category
	if isPrimary(m.ID) {
		// Dropping the primary pair takes the dependents with it.
		for _, id := range c.Members() {
			next.set(id, false)
		}
	} else {
		next.set(m.ID, false)
	}
	if !IsCategoryActive(next, c) {
		next.removeCategory(c)
	}

	if next.Equal(s) {
		return Result{State: s, Outcome: Unchanged}
	}
	return Result{State: next, Outcome: Applied}
}
