package rill

import (
	"deedles.dev/rill/config"
	"deedles.dev/rill/event"
	"deedles.dev/ximage/geom"
)

// Fake transport implementations. These stand in for the protocol layer
// and record everything the core tells them.

type fakeSurface struct {
	alive bool
	geo   geom.Rect[int]
	input Region

	below, above []Surface

	destroyed event.Source[struct{}]
	mapSig    event.Source[struct{}]
	unmapSig  event.Source[struct{}]
	commitSig event.Source[struct{}]
	newChild  event.Source[Surface]
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		alive: true,
		geo:   geom.Rt(0, 0, 640, 480),
		input: RegionFromRects(geom.Rt[float64](0, 0, 640, 480)),
	}
}

func (s *fakeSurface) Alive() bool                 { return s.alive }
func (s *fakeSurface) Geometry() geom.Rect[int]    { return s.geo }
func (s *fakeSurface) InputRegion() Region         { return s.input }
func (s *fakeSurface) ChildrenBelow() []Surface    { return s.below }
func (s *fakeSurface) ChildrenAbove() []Surface    { return s.above }
func (s *fakeSurface) OnNewChild(f func(Surface)) event.Listener {
	return s.newChild.Listen(f)
}

func (s *fakeSurface) OnDestroy(f func()) event.Listener {
	return s.destroyed.Listen(func(struct{}) { f() })
}

func (s *fakeSurface) OnMap(f func()) event.Listener {
	return s.mapSig.Listen(func(struct{}) { f() })
}

func (s *fakeSurface) OnUnmap(f func()) event.Listener {
	return s.unmapSig.Listen(func(struct{}) { f() })
}

func (s *fakeSurface) OnCommit(f func()) event.Listener {
	return s.commitSig.Listen(func(struct{}) { f() })
}

func (s *fakeSurface) emitMap()    { s.mapSig.Emit(struct{}{}) }
func (s *fakeSurface) emitUnmap()  { s.unmapSig.Emit(struct{}{}) }
func (s *fakeSurface) emitCommit() { s.commitSig.Emit(struct{}{}) }

func (s *fakeSurface) emitDestroy() {
	s.alive = false
	s.destroyed.Emit(struct{}{})
}

type fakeToplevel struct {
	*fakeSurface

	appID, title string
	activated    bool
	closed       bool
}

func newFakeToplevel(appID, title string) *fakeToplevel {
	return &fakeToplevel{fakeSurface: newFakeSurface(), appID: appID, title: title}
}

func (tl *fakeToplevel) AppID() string      { return tl.appID }
func (tl *fakeToplevel) Title() string      { return tl.title }
func (tl *fakeToplevel) SetActivated(a bool) { tl.activated = a }
func (tl *fakeToplevel) Close()             { tl.closed = true }

type fakePopup struct {
	*fakeSurface

	unconstrained []geom.Rect[int]
}

func newFakePopup() *fakePopup {
	return &fakePopup{fakeSurface: newFakeSurface()}
}

func (p *fakePopup) Unconstrain(box geom.Rect[int]) {
	p.unconstrained = append(p.unconstrained, box)
}

type fakeSeatTransport struct {
	hasKeyboard bool
	validSerial uint32

	entered []Surface
	cleared int
	cursor  geom.Point[float64]
	warps   []geom.Point[float64]
}

func (st *fakeSeatTransport) HasKeyboard() bool       { return st.hasKeyboard }
func (st *fakeSeatTransport) KeyboardEnter(s Surface) { st.entered = append(st.entered, s) }
func (st *fakeSeatTransport) KeyboardClearFocus()     { st.cleared++ }

func (st *fakeSeatTransport) CursorPosition() geom.Point[float64] { return st.cursor }

func (st *fakeSeatTransport) WarpCursor(p geom.Point[float64]) bool {
	st.cursor = p
	st.warps = append(st.warps, p)
	return true
}

func (st *fakeSeatTransport) ValidateGrabSerial(serial uint32) bool {
	return serial == st.validSerial
}

type fakeDamage struct {
	counts map[*Output]int
}

func (d *fakeDamage) MarkFullyDamaged(out *Output) {
	if d.counts == nil {
		d.counts = make(map[*Output]int)
	}
	d.counts[out]++
}

func (d *fakeDamage) total() int {
	var n int
	for _, c := range d.counts {
		n += c
	}
	return n
}

type fakeLayout struct {
	boxes map[*Output]geom.Rect[int]
}

func (l *fakeLayout) OutputBox(out *Output) geom.Rect[int] { return l.boxes[out] }

func (l *fakeLayout) EffectiveResolution(out *Output) (int, int) {
	box := l.boxes[out]
	return box.Dx(), box.Dy()
}

type fakeInhibitor struct {
	blocked map[Surface]bool
}

func (in *fakeInhibitor) InputAllowed(s Surface) bool { return !in.blocked[s] }

type fakeConstraintResource struct {
	name    string
	surface Surface

	region    Region
	hasRegion bool
	hint      geom.Point[float64]
	hasHint   bool

	// events records activations and deactivations in delivery order.
	// journal, if set, interleaves them across several resources.
	events  []string
	journal *[]string

	setRegion event.Source[struct{}]
	destroyed event.Source[struct{}]
}

func (r *fakeConstraintResource) ConstrainedSurface() Surface { return r.surface }

func (r *fakeConstraintResource) RequestedRegion() (Region, bool) { return r.region, r.hasRegion }

func (r *fakeConstraintResource) CursorHint() (geom.Point[float64], bool) { return r.hint, r.hasHint }

func (r *fakeConstraintResource) SendActivated()   { r.record("activated") }
func (r *fakeConstraintResource) SendDeactivated() { r.record("deactivated") }

func (r *fakeConstraintResource) record(ev string) {
	r.events = append(r.events, ev)
	if r.journal != nil {
		*r.journal = append(*r.journal, r.name+" "+ev)
	}
}

func (r *fakeConstraintResource) OnSetRegion(f func()) event.Listener {
	return r.setRegion.Listen(func(struct{}) { f() })
}

func (r *fakeConstraintResource) OnDestroy(f func()) event.Listener {
	return r.destroyed.Listen(func(struct{}) { f() })
}

type fakeDecorationResource struct {
	toplevel Toplevel

	sent []DecorationMode

	requestMode event.Source[DecorationMode]
	destroyed   event.Source[struct{}]
}

func (r *fakeDecorationResource) Toplevel() Toplevel { return r.toplevel }

func (r *fakeDecorationResource) SendMode(m DecorationMode) { r.sent = append(r.sent, m) }

func (r *fakeDecorationResource) OnRequestMode(f func(DecorationMode)) event.Listener {
	return r.requestMode.Listen(f)
}

func (r *fakeDecorationResource) OnDestroy(f func()) event.Listener {
	return r.destroyed.Listen(func(struct{}) { f() })
}

type fakeDragSource struct {
	destroyed int
}

func (s *fakeDragSource) Destroy() { s.destroyed++ }

// fixture wires a Server with one output and one seat against the fakes.
type fixture struct {
	srv    *Server
	loop   *event.Loop
	cfg    *config.Config
	out    *Output
	seat   *Seat
	st     *fakeSeatTransport
	damage *fakeDamage
	layout *fakeLayout
	inhib  *fakeInhibitor
}

func newFixture() *fixture {
	f := &fixture{
		loop:   event.NewLoop(),
		cfg:    config.Default(),
		st:     &fakeSeatTransport{hasKeyboard: true},
		damage: &fakeDamage{},
		layout: &fakeLayout{boxes: make(map[*Output]geom.Rect[int])},
		inhib:  &fakeInhibitor{blocked: make(map[Surface]bool)},
	}
	f.srv = New(f.cfg, f.loop, Collaborators{
		Layout:    f.layout,
		Damage:    f.damage,
		Inhibitor: f.inhib,
	}, nil)
	f.out = f.srv.AddOutput("fake-0")
	f.layout.boxes[f.out] = geom.Rt(0, 0, 1920, 1080)
	f.seat = f.srv.NewSeat("seat0", f.st)
	return f
}

// mapToplevel creates a toplevel and maps it.
func (f *fixture) mapToplevel(appID string) (*Window, *fakeToplevel) {
	tl := newFakeToplevel(appID, appID)
	w := f.srv.HandleNewToplevel(tl)
	tl.emitMap()
	return w, tl
}
