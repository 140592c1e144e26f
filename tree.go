package rill

import (
	"golang.org/x/exp/slices"

	"deedles.dev/rill/event"
	"deedles.dev/ximage/geom"
)

// A TreeRoot identifies what a surface tree hangs off of: a toplevel
// window, a layer surface, or a seat's drag icon. Exactly one field is
// non-nil.
type TreeRoot struct {
	Window *Window
	Layer  *LayerSurface
	Drag   *Seat
}

// damage invalidates every output the root is displayed on. A drag
// icon's position is not bound to an output yet, so it invalidates all of
// them.
func (r TreeRoot) damage(server *Server) {
	switch {
	case r.Window != nil:
		if r.Window.output != nil {
			server.damage.MarkFullyDamaged(r.Window.output)
		}
	case r.Layer != nil:
		server.damage.MarkFullyDamaged(r.Layer.output)
	case r.Drag != nil:
		for _, out := range server.outputs {
			server.damage.MarkFullyDamaged(out)
		}
	}
}

// constraintBox returns the root-local box that popups must stay within,
// which is the box of the output the root is displayed on translated by
// the root's position. The *pending* box is used for windows: at
// popup-creation time the committed box may be a frame behind.
func (r TreeRoot) constraintBox(server *Server) (geom.Rect[int], bool) {
	switch {
	case r.Window != nil:
		if r.Window.output == nil {
			return geom.Rect[int]{}, false
		}
		box := server.layout.OutputBox(r.Window.output)
		return box.Sub(r.Window.Pending.Min), true
	case r.Layer != nil:
		return server.layout.OutputBox(r.Layer.output), true
	}
	return geom.Rect[int]{}, false
}

// A SurfaceTree tracks one surface in the tree of auxiliary surfaces
// under a root. It owns its listener subscriptions but not the client
// resource.
type SurfaceTree struct {
	server  *Server
	root    TreeRoot
	surface Surface
	parent  *SurfaceTree

	children  []*SurfaceTree
	mapped    bool
	destroyed bool

	onDestroy  event.Listener
	onMap      event.Listener
	onUnmap    event.Listener
	onNewChild event.Listener
	onCommit   event.Listener // registered only while mapped
}

// newSurfaceTree wraps surface and every auxiliary surface already under
// it. The transport emits no creation event for children that existed
// before we subscribed, so both z-order sub-lists are walked here.
func newSurfaceTree(server *Server, root TreeRoot, surface Surface, parent *SurfaceTree) *SurfaceTree {
	t := &SurfaceTree{
		server:  server,
		root:    root,
		surface: surface,
		parent:  parent,
	}

	t.onDestroy = surface.OnDestroy(t.Destroy)
	t.onMap = surface.OnMap(t.handleMap)
	t.onUnmap = surface.OnUnmap(t.handleUnmap)
	t.onNewChild = surface.OnNewChild(t.handleNewChild)

	if popup, ok := surface.(Popup); ok {
		if box, ok := t.root.constraintBox(server); ok {
			popup.Unconstrain(box)
		}
	}

	for _, child := range surface.ChildrenBelow() {
		t.adopt(child)
	}
	for _, child := range surface.ChildrenAbove() {
		t.adopt(child)
	}

	return t
}

func (t *SurfaceTree) adopt(child Surface) {
	t.children = append(t.children, newSurfaceTree(t.server, t.root, child, t))
}

func (t *SurfaceTree) handleNewChild(child Surface) {
	t.adopt(child)
}

func (t *SurfaceTree) handleMap() {
	t.mapped = true
	t.onCommit = t.surface.OnCommit(t.handleCommit)
	t.root.damage(t.server)
}

func (t *SurfaceTree) handleUnmap() {
	t.mapped = false
	if t.onCommit != nil {
		t.onCommit.Destroy()
		t.onCommit = nil
	}
	t.root.damage(t.server)
}

func (t *SurfaceTree) handleCommit() {
	t.root.damage(t.server)
}

// Destroy tears down this node and every descendant. Listeners come off
// first so that nothing re-enters through a registration that belongs to
// a node already being torn down; the resource's own destroy signal makes
// this re-entrant, so it must be idempotent.
func (t *SurfaceTree) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true

	t.onDestroy.Destroy()
	t.onMap.Destroy()
	t.onUnmap.Destroy()
	t.onNewChild.Destroy()
	if t.onCommit != nil {
		t.onCommit.Destroy()
		t.onCommit = nil
	}

	for _, child := range slices.Clone(t.children) {
		child.Destroy()
	}
	t.children = nil

	if t.parent != nil {
		i := slices.Index(t.parent.children, t)
		if i >= 0 {
			t.parent.children = slices.Delete(t.parent.children, i, i+1)
		}
		t.parent = nil
	}

	t.root.damage(t.server)
}
