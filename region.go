package rill

import "deedles.dev/ximage/geom"

// A Region is an ordered set of rectangles in surface-local coordinates.
// The order is meaningful: when a cursor has to be pulled back inside a
// confinement, the first rectangle is the one it is clamped into.
type Region struct {
	rects []geom.Rect[float64]
}

// RegionFromRects builds a region from rs, dropping degenerate
// rectangles but otherwise preserving their order.
func RegionFromRects(rs ...geom.Rect[float64]) Region {
	var reg Region
	for _, r := range rs {
		if r.Dx() <= 0 || r.Dy() <= 0 {
			continue
		}
		reg.rects = append(reg.rects, r)
	}
	return reg
}

// Empty reports whether the region contains no area.
func (reg Region) Empty() bool {
	return len(reg.rects) == 0
}

// Rects returns the region's rectangles in order.
func (reg Region) Rects() []geom.Rect[float64] {
	return reg.rects
}

// Contains reports whether p lies within any rectangle of the region.
func (reg Region) Contains(p geom.Point[float64]) bool {
	for _, r := range reg.rects {
		if p.In(r) {
			return true
		}
	}
	return false
}

// First returns the region's first rectangle.
func (reg Region) First() (geom.Rect[float64], bool) {
	if len(reg.rects) == 0 {
		return geom.Rect[float64]{}, false
	}
	return reg.rects[0], true
}

// Intersect returns the region covering exactly the area in both reg and
// other. Rectangle order follows reg.
func (reg Region) Intersect(other Region) Region {
	var out Region
	for _, r := range reg.rects {
		for _, o := range other.rects {
			i := r.Intersect(o)
			if i.Dx() > 0 && i.Dy() > 0 {
				out.rects = append(out.rects, i)
			}
		}
	}
	return out
}

// Translate returns the region shifted by p.
func (reg Region) Translate(p geom.Point[float64]) Region {
	out := Region{rects: make([]geom.Rect[float64], 0, len(reg.rects))}
	for _, r := range reg.rects {
		out.rects = append(out.rects, r.Add(p))
	}
	return out
}

// Clamp returns the point of the region's first rectangle closest to p.
// The second return is false for an empty region.
func (reg Region) Clamp(p geom.Point[float64]) (geom.Point[float64], bool) {
	first, ok := reg.First()
	if !ok {
		return geom.Point[float64]{}, false
	}
	if p.X < first.Min.X {
		p.X = first.Min.X
	}
	if p.X > first.Max.X {
		p.X = first.Max.X
	}
	if p.Y < first.Min.Y {
		p.Y = first.Min.Y
	}
	if p.Y > first.Max.Y {
		p.Y = first.Max.Y
	}
	return p, true
}
