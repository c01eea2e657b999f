// Package sections tracks which tagged page region sits under a reference
// line in the viewport.
package sections

// Region is a tagged page region in viewport coordinates: Top and Bottom
// are offsets from the top of the visible area, already adjusted for
// scroll. Regions are listed in document order.
type Region struct {
	ID     string
	Tag    string
	Top    float64
	Bottom float64
}

// Active returns the first region intersecting the horizontal line at y.
func Active(regions []Region, y float64) (Region, bool) {
	for _, r := range regions {
		if r.Top <= y && y < r.Bottom {
			return r, true
		}
	}
	return Region{}, false
}

// RefLine returns the reference line for a viewport height and a ratio in
// [0,1] measured from the top.
func RefLine(height, ratio float64) float64 {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return height * ratio
}

// Tracker remembers the active region and reports changes only.
type Tracker struct {
	current string
	tag     string
}

// Current returns the active region id and tag, empty when none.
func (t *Tracker) Current() (id, tag string) { return t.current, t.tag }

// Update records the region under y. It reports the new region and true
// only when the active id differs from the previous one. A line that
// hits no region keeps the previous id, so returning to it is not a
// change.
func (t *Tracker) Update(regions []Region, y float64) (Region, bool) {
	r, ok := Active(regions, y)
	if !ok {
		return Region{}, false
	}
	if r.ID == t.current {
		return r, false
	}
	t.current, t.tag = r.ID, r.Tag
	return r, true
}
