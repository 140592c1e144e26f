package rill

import (
	"deedles.dev/rill/event"
	"deedles.dev/rill/stack"
	"deedles.dev/ximage/geom"
)

// A Window is a mapped toplevel surface participating in stacking and
// focus. It is created on the toplevel-create event, joins the stacks on
// first map, leaves every stack and every seat's focus state on unmap,
// and is destroyed with its resource.
type Window struct {
	server   *Server
	toplevel Toplevel
	output   *Output
	tree     *SurfaceTree

	// Box geometry is double-buffered across the commit boundary:
	// Pending is what the next configure asked for, Current is what the
	// client has committed.
	Pending geom.Rect[int]
	Current geom.Rect[int]

	tags       uint32
	fullscreen bool
	urgent     bool
	mapped     bool

	// focusRefs counts the seats currently focusing this window, since
	// several seats may share focus. Activation follows the zero
	// crossing.
	focusRefs int

	// DecorationMode is the negotiated mode, or DecorationModeNone until
	// a decoration object negotiates one.
	DecorationMode DecorationMode

	stackNode *stack.Node[*Window]

	onMap     event.Listener
	onUnmap   event.Listener
	onCommit  event.Listener
	onDestroy event.Listener
}

func (w *Window) Toplevel() Toplevel { return w.toplevel }
func (w *Window) Output() *Output    { return w.output }
func (w *Window) Tags() uint32       { return w.tags }
func (w *Window) Mapped() bool       { return w.mapped }
func (w *Window) Fullscreen() bool   { return w.fullscreen }
func (w *Window) Urgent() bool       { return w.urgent }

// Focused reports whether at least one seat is focusing the window.
func (w *Window) Focused() bool { return w.focusRefs > 0 }

// Visible reports whether the window shows up under its own output's
// active tag filter. Windows mid-teardown are not visible.
func (w *Window) Visible() bool {
	return w.mapped && w.output != nil && w.tags&w.output.Tags() != 0 && w.toplevel.Alive()
}

// VisibleUnder reports visibility against an explicit tag filter, used
// when iterating focus candidates for an output.
func (w *Window) VisibleUnder(out *Output, tags uint32) bool {
	return w.mapped && w.output == out && w.tags&tags != 0 && w.toplevel.Alive()
}

// SetTags moves the window to a different tag set and re-evaluates focus
// wherever it was visible.
func (w *Window) SetTags(tags uint32) {
	if tags == 0 || tags == w.tags {
		return
	}
	w.tags = tags
	if w.output != nil {
		w.server.damage.MarkFullyDamaged(w.output)
	}
	for _, seat := range w.server.seats {
		if seat.focus.Window == w {
			seat.Focus(nil)
		}
	}
}

// SetFullscreen flips the fullscreen flag. The next focus resolution on
// the window's output will prefer it while set.
func (w *Window) SetFullscreen(fs bool) {
	if w.fullscreen == fs {
		return
	}
	w.fullscreen = fs
	if w.output != nil {
		w.server.damage.MarkFullyDamaged(w.output)
	}
}

// SetUrgent marks the window as demanding attention. Focusing the window
// clears it.
func (w *Window) SetUrgent(urgent bool) {
	w.urgent = urgent
}

// Close asks the client to close the window. The client decides; the
// window goes away through the normal unmap/destroy path if it agrees.
func (w *Window) Close() {
	w.toplevel.Close()
}

// CommitBox snapshots the pending box as current. Called on commit once
// the client has caught up with the last configure.
func (w *Window) CommitBox() {
	w.Current = w.Pending
}

func (w *Window) acquireFocus() {
	w.focusRefs++
	if w.focusRefs == 1 {
		w.toplevel.SetActivated(true)
	}
	w.urgent = false
}

func (w *Window) releaseFocus() {
	if w.focusRefs == 0 {
		panic("rill: window focus refcount underflow")
	}
	w.focusRefs--
	if w.focusRefs == 0 {
		w.toplevel.SetActivated(false)
	}
}

func (w *Window) handleMap() {
	if w.mapped {
		return
	}
	w.mapped = true

	w.server.stack.Insert(w.stackNode, w.server.cfg.Attach())
	for _, seat := range w.server.seats {
		seat.addWindow(w)
	}
	if w.output != nil {
		w.server.damage.MarkFullyDamaged(w.output)
	}

	// A freshly mapped window asks for focus; the arbiter may still give
	// it to a fullscreen window or refuse on behalf of a layer surface.
	for _, seat := range w.server.seats {
		seat.Focus(w)
	}
}

// handleUnmap pulls the window out of the global stack and out of every
// seat's focus state in one step, then lets each seat pick a successor.
func (w *Window) handleUnmap() {
	if !w.mapped {
		return
	}
	w.mapped = false

	w.server.stack.Remove(w.stackNode)
	for _, seat := range w.server.seats {
		seat.removeWindow(w)
	}
	if w.output != nil {
		w.server.damage.MarkFullyDamaged(w.output)
	}
	for _, seat := range w.server.seats {
		seat.Focus(nil)
	}
}

func (w *Window) handleCommit() {
	w.CommitBox()
}

// handleDestroy unregisters the window's own listeners before anything
// else; a callback arriving through a stale registration would read a
// dead window.
func (w *Window) handleDestroy() {
	w.onMap.Destroy()
	w.onUnmap.Destroy()
	w.onCommit.Destroy()
	w.onDestroy.Destroy()

	if w.mapped {
		w.handleUnmap()
	}
	w.server.removeWindow(w)
}
