package selection

// IsCategoryActive reports whether any member of c is visible.
func IsCategoryActive(s State, c Category) bool {
	for _, id := range c.Members() {
		if s.visible[id] {
			return true
		}
	}
	return false
}

func ActiveCategoryCount(s State) int {
	n := 0
	for _, c := range categories {
		if IsCategoryActive(s, c) {
			n++
		}
	}
	return n
}

func RangeLineCount(s State) int {
	return countByClass(s, RangeLine)
}

func BarCount(s State) int {
	return countByClass(s, Bar)
}

func countByClass(s State, class ShapeClass) int {
	n := 0
	for _, c := range categories {
		if c.ShapeClass() == class && IsCategoryActive(s, c) {
			n++
		}
	}
	return n
}

// hasCapacityFor reports whether one more category of the given class fits.
// The chart holds at most two categories of one class plus one of the other.
func hasCapacityFor(s State, class ShapeClass) bool {
	r, b := RangeLineCount(s), BarCount(s)
	if class == Bar {
		return (r <= 2 && b < 1) || (r <= 1 && b < 2)
	}
	return (r < 2 && b <= 1) || (r < 1 && b <= 2)
}

// CanSelect reports whether the metric may be switched on next. A visible
// metric is always selectable so that it can be switched off again.
func CanSelect(s State, id MetricID) bool {
	m, ok := Lookup(id)
	if !ok {
		return false
	}
	// Follows windRange; never offered on its own.
	if id == WindDirection {
		return false
	}
	if s.visible[id] {
		return true
	}
	if isDependent(id) {
		return IsCategoryActive(s, m.Category)
	}
	if IsCategoryActive(s, m.Category) {
		return true
	}
	return hasCapacityFor(s, m.Category.ShapeClass())
}
