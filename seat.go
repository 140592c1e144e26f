package rill

import (
	"deedles.dev/rill/config"
	"deedles.dev/rill/stack"
	"deedles.dev/ximage/geom"
)

// CursorMode is what the seat's cursor is currently doing.
type CursorMode int

const (
	CursorModePassthrough CursorMode = iota
	CursorModeDrag
)

// Focus is a seat's focus target: a window, a layer surface, or nothing.
// At most one field is non-nil. A focused layer surface has strict
// priority and keeps windows from receiving focus at all.
type Focus struct {
	Window *Window
	Layer  *LayerSurface
}

// None reports an unfocused seat.
func (f Focus) None() bool { return f.Window == nil && f.Layer == nil }

func (f Focus) surface() Surface {
	switch {
	case f.Window != nil:
		return f.Window.toplevel
	case f.Layer != nil:
		return f.Layer.surface
	}
	return nil
}

// A Seat owns the focus state machine for one set of input devices: the
// current focus, the recency stack of windows, drag-and-drop session
// state, and which pointer constraint is being honored.
type Seat struct {
	server    *Server
	transport SeatTransport

	Name string

	focus         Focus
	focusedOutput *Output

	// focusStack orders windows most-recently-focused first. Every
	// mapped window has exactly one node here, tracked in focusNodes.
	focusStack stack.Stack[*Window]
	focusNodes map[*Window]*stack.Node[*Window]

	cursorMode CursorMode
	dragging   bool
	dragIcon   *SurfaceTree

	constraints      map[Surface]*PointerConstraint
	activeConstraint *PointerConstraint

	keyboard *Keyboard
}

// Focus returns the seat's current focus.
func (seat *Seat) CurrentFocus() Focus { return seat.focus }

// FocusedOutput returns the output the seat is looking at.
func (seat *Seat) FocusedOutput() *Output { return seat.focusedOutput }

// CursorMode returns what the cursor is doing.
func (seat *Seat) CursorMode() CursorMode { return seat.cursorMode }

// Keyboard returns the seat's keyboard state.
func (seat *Seat) Keyboard() *Keyboard { return seat.keyboard }

// Focus resolves a focus request. The hint may be nil, meaning "whatever
// is most appropriate"; a non-nil hint may still lose to a fullscreen
// window or be discarded if it is not visible.
func (seat *Seat) Focus(hint *Window) {
	// A focused layer surface excludes windows from focus entirely.
	if seat.focus.Layer != nil {
		return
	}

	target := hint
	if target != nil && !target.Visible() {
		target = nil
	}
	if target != nil && target.output != seat.focusedOutput {
		seat.FocusOutput(target.output)
	}

	// A visible fullscreen window on the focused output overrides the
	// hint unless the hint is itself fullscreen.
	if target == nil || !target.fullscreen {
		if fs := seat.firstVisible(func(w *Window) bool { return w.fullscreen }); fs != nil {
			target = fs
		}
	}

	if target == nil {
		target = seat.firstVisible(nil)
	}

	if target != nil {
		node := seat.focusNodes[target]
		if node == nil {
			// The node is created on map; its absence means the
			// bookkeeping before this point is broken.
			panic("rill: focused window has no recency node")
		}
		seat.focusStack.MoveToTop(node)
	}

	seat.setFocusRaw(Focus{Window: target})
}

// firstVisible walks the recency stack, most recent first, for the first
// window visible under the focused output's tag filter that also
// satisfies extra (if non-nil).
func (seat *Seat) firstVisible(extra func(*Window) bool) *Window {
	out := seat.focusedOutput
	if out == nil {
		return nil
	}
	visible := func(w *Window) bool { return w.VisibleUnder(out, out.Tags()) }
	for w := range stack.Filtered(seat.focusStack.First(), stack.Forward, visible) {
		if extra == nil || extra(w) {
			return w
		}
	}
	return nil
}

// setFocusRaw applies an already-resolved focus target. If an input
// inhibitor blocks the new target, the whole operation is abandoned and
// the current focus stays in place.
func (seat *Seat) setFocusRaw(next Focus) {
	if next == seat.focus {
		return
	}
	if s := next.surface(); s != nil && !seat.server.inhibitor.InputAllowed(s) {
		return
	}

	prev := seat.focus
	seat.focus = next

	if prev.Window != nil {
		prev.Window.releaseFocus()
	}
	if next.Window != nil {
		next.Window.acquireFocus()
	}

	// The transport degrades the enter to one with no pressed keys when
	// no keyboard device exists.
	if s := next.surface(); s != nil {
		if !seat.transport.HasKeyboard() {
			seat.server.log.Debug("keyboard enter without keyboard device", "seat", seat.Name)
		}
		seat.transport.KeyboardEnter(s)
	} else {
		seat.transport.KeyboardClearFocus()
	}

	seat.keyboard.interrupt()

	// Hand pointer-constraint activation over to whoever owns the newly
	// focused surface.
	var c *PointerConstraint
	if s := next.surface(); s != nil {
		c = seat.constraints[s]
	}
	if c != nil {
		c.activate()
	} else if seat.activeConstraint != nil {
		seat.activeConstraint.deactivate()
	}
}

// FocusLayer grants a layer surface exclusive focus, or releases it with
// a nil argument and hands focus back to the windows.
func (seat *Seat) FocusLayer(l *LayerSurface) {
	if l == nil {
		if seat.focus.Layer == nil {
			return
		}
		seat.setFocusRaw(Focus{})
		seat.Focus(nil)
		return
	}
	seat.setFocusRaw(Focus{Layer: l})
}

// FocusOutput moves the seat to another output, warping the cursor onto
// it if configured to and it is not already there.
func (seat *Seat) FocusOutput(out *Output) {
	if out == nil || out == seat.focusedOutput {
		return
	}
	seat.focusedOutput = out

	if seat.server.cfg.Warp() != config.WarpOnOutputChange {
		return
	}
	box := geom.RConv[float64](seat.server.layout.OutputBox(out))
	if !seat.transport.CursorPosition().In(box) {
		seat.transport.WarpCursor(box.Center())
	}
}

// CycleFocus focuses the next (Forward) or previous (Reverse) visible
// window in the global stacking order, wrapping around at the ends.
func (seat *Seat) CycleFocus(dir stack.Direction) {
	if seat.focus.Layer != nil {
		return
	}
	out := seat.focusedOutput
	if out == nil {
		return
	}
	visible := func(w *Window) bool { return w.VisibleUnder(out, out.Tags()) }

	var start *stack.Node[*Window]
	if cur := seat.focus.Window; cur != nil && cur.stackNode.Attached() {
		if dir == stack.Reverse {
			start = cur.stackNode.Prev()
		} else {
			start = cur.stackNode.Next()
		}
	}
	if start == nil {
		start = seat.cycleWrapStart(dir)
	}

	for w := range stack.Filtered(start, dir, visible) {
		seat.Focus(w)
		return
	}
	for w := range stack.Filtered(seat.cycleWrapStart(dir), dir, visible) {
		seat.Focus(w)
		return
	}
}

func (seat *Seat) cycleWrapStart(dir stack.Direction) *stack.Node[*Window] {
	if dir == stack.Reverse {
		return seat.server.stack.Last()
	}
	return seat.server.stack.First()
}

// Dragging reports whether a drag-and-drop session is in progress.
func (seat *Seat) Dragging() bool { return seat.dragging }

// HandleStartDrag validates a client's start-drag request. Concurrent
// drags and stale grab serials are rejected by telling the source to
// self-destroy; neither is an error worth escalating.
func (seat *Seat) HandleStartDrag(req DragRequest) {
	if seat.dragging {
		seat.server.log.Warn("rejecting drag, another drag is active", "seat", seat.Name)
		req.Source.Destroy()
		return
	}
	if !seat.transport.ValidateGrabSerial(req.Serial) {
		seat.server.log.Warn("rejecting drag, stale grab serial",
			"seat", seat.Name, "serial", req.Serial)
		req.Source.Destroy()
		return
	}

	seat.dragging = true
	seat.cursorMode = CursorModeDrag
	if req.Icon != nil {
		seat.dragIcon = newSurfaceTree(seat.server, TreeRoot{Drag: seat}, req.Icon, nil)
	}
}

// HandleDragEnd tears down the drag session. The transport clears its
// own drag data *after* delivering this signal, so restoring passthrough
// cursor mode is deferred to a later loop turn; doing it inline would
// race the transport's teardown of the very same drag.
func (seat *Seat) HandleDragEnd() {
	if !seat.dragging {
		return
	}
	seat.dragging = false

	if seat.dragIcon != nil {
		seat.dragIcon.Destroy()
		seat.dragIcon = nil
	}

	seat.server.loop.Idle(func() {
		seat.cursorMode = CursorModePassthrough
		for _, out := range seat.server.outputs {
			seat.server.damage.MarkFullyDamaged(out)
		}
	})
}

// HandleNewConstraint tracks a new pointer-constraint object, activating
// it immediately if its surface already holds this seat's focus.
func (seat *Seat) HandleNewConstraint(resource ConstraintResource) *PointerConstraint {
	s := resource.ConstrainedSurface()
	if seat.constraints[s] != nil {
		seat.server.log.Warn("duplicate pointer constraint for surface", "seat", seat.Name)
	}

	c := newPointerConstraint(seat.server, seat, resource)
	seat.constraints[s] = c
	if seat.focus.surface() == s {
		c.activate()
	}
	return c
}

// ActiveConstraint returns the constraint the seat is honoring, if any.
func (seat *Seat) ActiveConstraint() *PointerConstraint {
	return seat.activeConstraint
}

func (seat *Seat) removeConstraint(c *PointerConstraint) {
	s := c.resource.ConstrainedSurface()
	if seat.constraints[s] == c {
		delete(seat.constraints, s)
	}
}

// addWindow creates the recency node for a freshly mapped window. It
// starts least recent; focusing promotes it.
func (seat *Seat) addWindow(w *Window) {
	node := stack.New(w)
	seat.focusStack.AppendBottom(node)
	seat.focusNodes[w] = node
}

// removeWindow atomically drops an unmapping window from the seat's
// focus state: the focus itself first, then the recency node. The caller
// re-resolves focus afterwards.
func (seat *Seat) removeWindow(w *Window) {
	if seat.focus.Window == w {
		seat.setFocusRaw(Focus{})
	}
	if node := seat.focusNodes[w]; node != nil {
		seat.focusStack.Remove(node)
		delete(seat.focusNodes, w)
	}
}
