package rill

import (
	"deedles.dev/rill/event"
	"deedles.dev/ximage/geom"
)

// This file defines the boundary between the policy core and the protocol
// transport. The transport owns the client resources and the wire format;
// rill owns everything that happens between a typed event arriving and a
// typed response being emitted. Each interface here is the view of one
// resource kind that the core needs, no more.

// A Surface is a live client surface. The core subscribes to its
// structural events and must destroy every subscription before dropping
// the wrapper that owns it.
type Surface interface {
	// Alive reports whether the underlying resource still exists. A
	// surface mid-teardown stops being alive before its destroy event
	// finishes dispatching.
	Alive() bool

	// Geometry is the committed extent of the surface in its own
	// coordinate space.
	Geometry() geom.Rect[int]

	// InputRegion is the input-accepting area in surface-local
	// coordinates.
	InputRegion() Region

	OnDestroy(func()) event.Listener
	OnMap(func()) event.Listener
	OnUnmap(func()) event.Listener
	OnCommit(func()) event.Listener

	// OnNewChild fires for each auxiliary surface (popup or subsurface)
	// created under this one. Children that already existed when the
	// listener was registered do not fire it; they are found through
	// ChildrenBelow and ChildrenAbove instead.
	OnNewChild(func(Surface)) event.Listener
	ChildrenBelow() []Surface
	ChildrenAbove() []Surface
}

// A Popup is an auxiliary surface that the compositor may reposition to
// keep it within the output its root is shown on.
type Popup interface {
	Surface

	// Unconstrain clamps the popup into box, given in the root surface's
	// local coordinate space.
	Unconstrain(box geom.Rect[int])
}

// A Toplevel is the resource behind a Window.
type Toplevel interface {
	Surface

	AppID() string
	Title() string
	SetActivated(bool)
	Close()
}

// A ConstraintResource is a client's pointer-confinement request on one
// surface.
type ConstraintResource interface {
	ConstrainedSurface() Surface

	// RequestedRegion returns the client's requested confinement region
	// in surface-local coordinates, or ok == false if the client wants
	// the whole input region.
	RequestedRegion() (reg Region, ok bool)

	// CursorHint is the surface-local point the client last announced as
	// where it believes the cursor to be.
	CursorHint() (p geom.Point[float64], ok bool)

	SendActivated()
	SendDeactivated()

	OnSetRegion(func()) event.Listener
	OnDestroy(func()) event.Listener
}

// A DecorationResource is a client's xdg-decoration object for one
// toplevel.
type DecorationResource interface {
	Toplevel() Toplevel

	// OnRequestMode fires with the client's preferred mode, or
	// DecorationModeNone when the client has no preference.
	OnRequestMode(func(DecorationMode)) event.Listener
	OnDestroy(func()) event.Listener

	SendMode(DecorationMode)
}

// A DragSource is the offering side of a drag-and-drop session.
type DragSource interface {
	// Destroy tells the source to self-destroy. Used when a start-drag
	// request is rejected.
	Destroy()
}

// A DragRequest is a client's request to start a pointer-grab drag.
type DragRequest struct {
	Source DragSource
	Serial uint32
	Icon   Surface // nil if the drag has no icon
}

// SeatTransport exposes the per-seat protocol primitives the focus
// arbiter drives.
type SeatTransport interface {
	// HasKeyboard reports whether any keyboard device is attached. Enter
	// notifications degrade to enter-with-no-keys without one.
	HasKeyboard() bool
	KeyboardEnter(Surface)
	KeyboardClearFocus()

	CursorPosition() geom.Point[float64]
	WarpCursor(geom.Point[float64]) bool

	// ValidateGrabSerial reports whether serial matches the most recent
	// pointer-down grab on this seat.
	ValidateGrabSerial(serial uint32) bool
}

// Layout is the output/layout collaborator.
type Layout interface {
	OutputBox(*Output) geom.Rect[int]
	EffectiveResolution(*Output) (w, h int)
}

// Damage is the renderer collaborator. The core only ever invalidates
// whole outputs.
type Damage interface {
	MarkFullyDamaged(*Output)
}

// InputInhibitor reports whether an active input inhibitor blocks a
// surface from receiving focus.
type InputInhibitor interface {
	InputAllowed(Surface) bool
}
