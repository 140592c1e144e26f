package rill

import (
	"deedles.dev/rill/event"
	"deedles.dev/ximage/geom"
)

// A PointerConstraint confines a seat's cursor to a region of one
// surface. A seat honors at most one constraint at a time; activating a
// new one deactivates the previous holder first.
type PointerConstraint struct {
	server   *Server
	seat     *Seat
	resource ConstraintResource

	// region is the effective confinement in surface-local coordinates:
	// the client's requested region intersected with the surface's input
	// region, or the whole input region absent a request.
	region Region
	active bool

	onSetRegion event.Listener
	onDestroy   event.Listener
}

func newPointerConstraint(server *Server, seat *Seat, resource ConstraintResource) *PointerConstraint {
	c := &PointerConstraint{
		server:   server,
		seat:     seat,
		resource: resource,
	}
	c.onSetRegion = resource.OnSetRegion(c.handleSetRegion)
	c.onDestroy = resource.OnDestroy(c.handleDestroy)
	return c
}

// Active reports whether this is the constraint the seat is honoring.
func (c *PointerConstraint) Active() bool { return c.active }

// Region returns the effective confinement region.
func (c *PointerConstraint) Region() Region { return c.region }

func (c *PointerConstraint) activate() {
	if c.seat.activeConstraint == c {
		return
	}
	if prev := c.seat.activeConstraint; prev != nil {
		prev.deactivate()
	}

	c.seat.activeConstraint = c
	c.active = true
	c.recomputeRegion()
	c.resource.SendActivated()
	c.clampCursor()
}

// deactivate warps the cursor to the client's hint, if it announced one,
// before the client hears about the deactivation.
func (c *PointerConstraint) deactivate() {
	if !c.active {
		return
	}
	c.active = false
	if c.seat.activeConstraint == c {
		c.seat.activeConstraint = nil
	}

	if hint, ok := c.resource.CursorHint(); ok {
		if p, ok := c.surfaceToLayout(hint); ok {
			c.seat.transport.WarpCursor(p)
		}
	}
	c.resource.SendDeactivated()
}

func (c *PointerConstraint) recomputeRegion() {
	s := c.resource.ConstrainedSurface()
	input := s.InputRegion()
	if input.Empty() {
		// Surfaces that never set an input region accept input over
		// their whole extent.
		input = RegionFromRects(geom.RConv[float64](s.Geometry()))
	}
	if req, ok := c.resource.RequestedRegion(); ok {
		c.region = input.Intersect(req)
		return
	}
	c.region = input
}

// clampCursor pulls the cursor back inside the confinement if it has
// ended up outside, warping to the nearest point of the region's first
// rectangle.
func (c *PointerConstraint) clampCursor() {
	pos := c.seat.transport.CursorPosition()
	origin, ok := c.surfaceOrigin()
	if !ok {
		return
	}

	local := pos.Sub(origin)
	if c.region.Contains(local) {
		return
	}
	target, ok := c.region.Clamp(local)
	if !ok {
		return
	}
	c.seat.transport.WarpCursor(target.Add(origin))
}

func (c *PointerConstraint) handleSetRegion() {
	c.recomputeRegion()
	if c.active {
		c.clampCursor()
	}
}

func (c *PointerConstraint) handleDestroy() {
	c.deactivate()
	c.onSetRegion.Destroy()
	c.onDestroy.Destroy()
	c.seat.removeConstraint(c)
}

func (c *PointerConstraint) surfaceOrigin() (geom.Point[float64], bool) {
	w := c.server.windowForSurface(c.resource.ConstrainedSurface())
	if w == nil {
		return geom.Point[float64]{}, false
	}
	return geom.PConv[float64](w.Current.Min), true
}

func (c *PointerConstraint) surfaceToLayout(p geom.Point[float64]) (geom.Point[float64], bool) {
	origin, ok := c.surfaceOrigin()
	if !ok {
		return geom.Point[float64]{}, false
	}
	return p.Add(origin), true
}
