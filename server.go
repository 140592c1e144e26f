// Package rill is the policy and lifecycle core of a tiling Wayland
// compositor: focus arbitration, stacking and recency order, auxiliary
// surface trees, pointer confinement, and decoration negotiation.
//
// Rendering, output scanout, and the wire protocol live elsewhere. The
// transport delivers typed events through the interfaces in transport.go
// and the core calls back out through the collaborator interfaces.
// Everything runs on one event.Loop; nothing here is safe for concurrent
// use.
package rill

import (
	"iter"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"deedles.dev/rill/config"
	"deedles.dev/rill/event"
	"deedles.dev/rill/internal/util"
	"deedles.dev/rill/stack"
)

// Collaborators are the external subsystems the core calls into. A nil
// Inhibitor allows all input.
type Collaborators struct {
	Layout    Layout
	Damage    Damage
	Inhibitor InputInhibitor
}

// Server is the root of the core's state: the window registry, the
// global stacking order, outputs, and seats. Stacks and seats hold
// non-owning references into the registry.
type Server struct {
	cfg       *config.Config
	log       *log.Logger
	loop      *event.Loop
	layout    Layout
	damage    Damage
	inhibitor InputInhibitor

	outputs []*Output
	windows []*Window
	layers  []*LayerSurface
	seats   []*Seat

	decorations []*Decoration

	// stack is the global stacking order, topmost first.
	stack stack.Stack[*Window]
}

func New(cfg *config.Config, loop *event.Loop, collab Collaborators, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	inhibitor := collab.Inhibitor
	if inhibitor == nil {
		inhibitor = allowAllInput{}
	}

	return &Server{
		cfg:       cfg,
		log:       logger,
		loop:      loop,
		layout:    collab.Layout,
		damage:    collab.Damage,
		inhibitor: inhibitor,
	}
}

type allowAllInput struct{}

func (allowAllInput) InputAllowed(Surface) bool { return true }

func (server *Server) Loop() *event.Loop            { return server.loop }
func (server *Server) Outputs() []*Output           { return server.outputs }
func (server *Server) Seats() []*Seat               { return server.seats }
func (server *Server) Stack() *stack.Stack[*Window] { return &server.stack }

// AddOutput registers a new output with all tags visible.
func (server *Server) AddOutput(name string) *Output {
	out := &Output{
		server: server,
		Name:   name,
		tags:   ^uint32(0),
	}
	server.outputs = append(server.outputs, out)

	for _, seat := range server.seats {
		if seat.focusedOutput == nil {
			seat.focusedOutput = out
		}
	}

	server.log.Debug("output added", "name", name)
	return out
}

// NewSeat registers a new input seat. Windows that are already mapped
// join its recency stack in stacking order.
func (server *Server) NewSeat(name string, transport SeatTransport) *Seat {
	seat := &Seat{
		server:      server,
		transport:   transport,
		Name:        name,
		focusNodes:  make(map[*Window]*stack.Node[*Window]),
		constraints: make(map[Surface]*PointerConstraint),
	}
	seat.keyboard = newKeyboard(seat)
	if len(server.outputs) > 0 {
		seat.focusedOutput = server.outputs[0]
	}

	for w := range server.stack.All() {
		seat.addWindow(w)
	}

	server.seats = append(server.seats, seat)
	server.log.Debug("seat added", "name", name)
	return seat
}

// HandleNewToplevel starts tracking a toplevel surface. The window joins
// the stacks on first map.
func (server *Server) HandleNewToplevel(tl Toplevel) *Window {
	w := &Window{
		server:   server,
		toplevel: tl,
	}
	w.stackNode = stack.New(w)

	if out := server.defaultOutput(); out != nil {
		w.output = out
		w.tags = out.Tags()
	} else {
		w.tags = 1
	}

	w.onMap = tl.OnMap(w.handleMap)
	w.onUnmap = tl.OnUnmap(w.handleUnmap)
	w.onCommit = tl.OnCommit(w.handleCommit)
	w.onDestroy = tl.OnDestroy(w.handleDestroy)

	// The tree picks up popups and subsurfaces under the toplevel and
	// turns their structural changes into damage.
	w.tree = newSurfaceTree(server, TreeRoot{Window: w}, tl, nil)

	server.windows = append(server.windows, w)
	server.log.Debug("toplevel created", "app-id", tl.AppID())
	return w
}

// HandleNewLayerSurface starts tracking a layer-shell surface on out.
func (server *Server) HandleNewLayerSurface(s Surface, out *Output, exclusiveKeyboard bool) *LayerSurface {
	l := &LayerSurface{
		server:    server,
		surface:   s,
		output:    out,
		exclusive: exclusiveKeyboard,
	}
	l.onMap = s.OnMap(l.handleMap)
	l.onUnmap = s.OnUnmap(l.handleUnmap)
	l.onDestroy = s.OnDestroy(l.handleDestroy)
	l.tree = newSurfaceTree(server, TreeRoot{Layer: l}, s, nil)

	server.layers = append(server.layers, l)
	return l
}

// HandleNewDecoration starts decoration-mode negotiation for a toplevel.
func (server *Server) HandleNewDecoration(resource DecorationResource) *Decoration {
	d := newDecoration(server, resource)
	server.decorations = append(server.decorations, d)
	return d
}

// SwapWindows exchanges two windows' positions in the global stacking
// order, leaving everything else where it was.
func (server *Server) SwapWindows(a, b *Window) {
	if a == nil || b == nil || !a.stackNode.Attached() || !b.stackNode.Attached() {
		return
	}
	server.stack.Swap(a.stackNode, b.stackNode)
	for _, out := range []*Output{a.output, b.output} {
		if out != nil {
			server.damage.MarkFullyDamaged(out)
		}
	}
}

// VisibleWindows iterates the global stack, topmost first, filtered to
// windows visible on out under tags.
func (server *Server) VisibleWindows(out *Output, tags uint32) iter.Seq[*Window] {
	return stack.Filtered(server.stack.First(), stack.Forward, func(w *Window) bool {
		return w.VisibleUnder(out, tags)
	})
}

func (server *Server) defaultOutput() *Output {
	for _, seat := range server.seats {
		if seat.focusedOutput != nil {
			return seat.focusedOutput
		}
	}
	if len(server.outputs) > 0 {
		return server.outputs[0]
	}
	return nil
}

func (server *Server) windowFor(tl Toplevel) *Window {
	w, _ := util.FindFunc(server.windows, func(w *Window) bool { return w.toplevel == tl })
	return w
}

func (server *Server) windowForSurface(s Surface) *Window {
	w, _ := util.FindFunc(server.windows, func(w *Window) bool { return Surface(w.toplevel) == s })
	return w
}

func (server *Server) removeWindow(w *Window) {
	i := slices.Index(server.windows, w)
	if i >= 0 {
		server.windows = slices.Delete(server.windows, i, i+1)
	}
}

func (server *Server) removeLayerSurface(l *LayerSurface) {
	i := slices.Index(server.layers, l)
	if i >= 0 {
		server.layers = slices.Delete(server.layers, i, i+1)
	}
}

func (server *Server) removeDecoration(d *Decoration) {
	i := slices.Index(server.decorations, d)
	if i >= 0 {
		server.decorations = slices.Delete(server.decorations, i, i+1)
	}
}
