package rill

// An Output is one display in the layout. The core only cares about its
// identity, its tag filter, and what the Layout collaborator says about
// its geometry.
type Output struct {
	server *Server

	Name string

	tags     uint32
	prevTags uint32
}

// Tags returns the output's active tag filter.
func (out *Output) Tags() uint32 {
	return out.tags
}

// EffectiveResolution returns the output's usable size in layout pixels,
// as reported by the layout collaborator.
func (out *Output) EffectiveResolution() (w, h int) {
	return out.server.layout.EffectiveResolution(out)
}

// SetTags switches the output's active tag filter, remembering the old
// one for toggling, and re-evaluates focus on every seat looking at this
// output.
func (out *Output) SetTags(tags uint32) {
	if tags == out.tags {
		return
	}
	out.prevTags = out.tags
	out.tags = tags
	out.server.damage.MarkFullyDamaged(out)

	for _, seat := range out.server.seats {
		if seat.focusedOutput == out {
			seat.Focus(nil)
		}
	}
}

// ToggleTags switches back to the previously active tag filter.
func (out *Output) ToggleTags() {
	out.SetTags(out.prevTags)
}

// PreviousTags returns the filter that was active before the last
// SetTags.
func (out *Output) PreviousTags() uint32 {
	return out.prevTags
}
