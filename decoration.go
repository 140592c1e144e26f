package rill

import "deedles.dev/rill/event"

// DecorationMode is who draws a window's decorations.
type DecorationMode int

const (
	DecorationModeNone DecorationMode = iota
	DecorationModeClientSide
	DecorationModeServerSide
)

func (m DecorationMode) String() string {
	switch m {
	case DecorationModeClientSide:
		return "client-side"
	case DecorationModeServerSide:
		return "server-side"
	}
	return "none"
}

// A Decoration negotiates the decoration mode for one window. The mode
// is resolved once per client request against the configuration's
// allow-list; the compositor never revisits it on its own.
type Decoration struct {
	server   *Server
	resource DecorationResource
	window   *Window

	onRequestMode event.Listener
	onDestroy     event.Listener
}

func newDecoration(server *Server, resource DecorationResource) *Decoration {
	d := &Decoration{
		server:   server,
		resource: resource,
		window:   server.windowFor(resource.Toplevel()),
	}
	d.onRequestMode = resource.OnRequestMode(d.handleRequestMode)
	d.onDestroy = resource.OnDestroy(d.handleDestroy)
	return d
}

func (d *Decoration) handleRequestMode(requested DecorationMode) {
	if d.window == nil {
		return
	}

	mode := DecorationModeServerSide
	tl := d.window.toplevel
	if d.server.cfg.AllowClientDecorations(tl.AppID(), tl.Title()) {
		mode = DecorationModeClientSide
	}

	d.server.log.Debug("decoration mode resolved",
		"app-id", tl.AppID(), "requested", requested, "mode", mode)

	d.window.DecorationMode = mode
	d.resource.SendMode(mode)
}

func (d *Decoration) handleDestroy() {
	d.onRequestMode.Destroy()
	d.onDestroy.Destroy()
	d.server.removeDecoration(d)
}
