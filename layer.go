package rill

import "deedles.dev/rill/event"

// A LayerSurface is a shell surface pinned to an output layer (bars,
// launchers, lock screens). One that claims exclusive keyboard focus
// takes focus on every seat looking at its output and keeps windows from
// receiving focus until it lets go.
type LayerSurface struct {
	server  *Server
	surface Surface
	output  *Output
	tree    *SurfaceTree

	mapped    bool
	exclusive bool

	onMap     event.Listener
	onUnmap   event.Listener
	onDestroy event.Listener
}

func (l *LayerSurface) Surface() Surface { return l.surface }
func (l *LayerSurface) Output() *Output  { return l.output }
func (l *LayerSurface) Mapped() bool     { return l.mapped }

// SetExclusiveKeyboard grants or releases the layer surface's claim on
// keyboard focus.
func (l *LayerSurface) SetExclusiveKeyboard(exclusive bool) {
	if l.exclusive == exclusive {
		return
	}
	l.exclusive = exclusive

	for _, seat := range l.server.seats {
		switch {
		case exclusive && l.mapped && seat.focusedOutput == l.output:
			seat.FocusLayer(l)
		case !exclusive && seat.focus.Layer == l:
			seat.FocusLayer(nil)
		}
	}
}

func (l *LayerSurface) handleMap() {
	l.mapped = true
	l.server.damage.MarkFullyDamaged(l.output)

	if l.exclusive {
		for _, seat := range l.server.seats {
			if seat.focusedOutput == l.output {
				seat.FocusLayer(l)
			}
		}
	}
}

func (l *LayerSurface) handleUnmap() {
	l.mapped = false
	l.server.damage.MarkFullyDamaged(l.output)

	for _, seat := range l.server.seats {
		if seat.focus.Layer == l {
			seat.FocusLayer(nil)
		}
	}
}

func (l *LayerSurface) handleDestroy() {
	l.onMap.Destroy()
	l.onUnmap.Destroy()
	l.onDestroy.Destroy()

	if l.mapped {
		l.handleUnmap()
	}
	l.server.removeLayerSurface(l)
}
