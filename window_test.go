package rill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deedles.dev/ximage/geom"
)

func stackedWindows(f *fixture) []*Window {
	var ws []*Window
	for w := range f.srv.Stack().All() {
		ws = append(ws, w)
	}
	return ws
}

func TestAttachTop(t *testing.T) {
	f := newFixture()

	w1, _ := f.mapToplevel("one")
	w2, _ := f.mapToplevel("two")
	w3, _ := f.mapToplevel("three")

	assert.Equal(t, []*Window{w3, w2, w1}, stackedWindows(f))
}

func TestAttachBottom(t *testing.T) {
	f := newFixture()
	f.cfg.AttachMode = "bottom"

	w1, _ := f.mapToplevel("one")
	w2, _ := f.mapToplevel("two")
	w3, _ := f.mapToplevel("three")

	assert.Equal(t, []*Window{w1, w2, w3}, stackedWindows(f))
	assert.Equal(t, w3, f.seat.CurrentFocus().Window,
		"attach mode changes stacking, not focus")
}

func TestSwapWindows(t *testing.T) {
	f := newFixture()

	w1, _ := f.mapToplevel("one")
	w2, _ := f.mapToplevel("two")
	w3, _ := f.mapToplevel("three")
	require.Equal(t, []*Window{w3, w2, w1}, stackedWindows(f))

	f.srv.SwapWindows(w3, w1)
	assert.Equal(t, []*Window{w1, w2, w3}, stackedWindows(f))

	f.srv.SwapWindows(w1, w2)
	assert.Equal(t, []*Window{w2, w1, w3}, stackedWindows(f), "adjacent swap")

	f.srv.SwapWindows(w2, w1)
	f.srv.SwapWindows(w3, w1)
	assert.Equal(t, []*Window{w3, w2, w1}, stackedWindows(f))
}

func TestCommitSnapshotsPendingBox(t *testing.T) {
	f := newFixture()

	w, tl := f.mapToplevel("one")
	w.Pending = geom.Rt(10, 20, 650, 500)
	assert.Equal(t, geom.Rect[int]{}, w.Current, "pending geometry is invisible until committed")

	tl.emitCommit()
	assert.Equal(t, geom.Rt(10, 20, 650, 500), w.Current)

	w.Pending = geom.Rt(0, 0, 800, 600)
	assert.Equal(t, geom.Rt(10, 20, 650, 500), w.Current)
}

func TestWindowDestroyCleansUp(t *testing.T) {
	f := newFixture()

	w1, _ := f.mapToplevel("one")
	w2, tl2 := f.mapToplevel("two")
	require.Equal(t, w2, f.seat.CurrentFocus().Window)

	tl2.emitDestroy()

	assert.Equal(t, w1, f.seat.CurrentFocus().Window, "destroy implies unmap and refocus")
	assert.Equal(t, []*Window{w1}, stackedWindows(f))
	assert.NotContains(t, f.seat.focusNodes, w2)
	assert.Zero(t, w2.focusRefs)
	assert.Nil(t, f.srv.windowFor(tl2))

	// Stale events on the dead resource are ignored.
	tl2.mapSig.Emit(struct{}{})
	assert.False(t, w2.mapped)
	assert.Equal(t, []*Window{w1}, stackedWindows(f))
}

func TestCloseForwardsToClient(t *testing.T) {
	f := newFixture()

	w, tl := f.mapToplevel("one")
	w.Close()
	assert.True(t, tl.closed)
	assert.True(t, w.Mapped(), "close is a request, not an unmap")
}

func TestUrgentClearedByFocus(t *testing.T) {
	f := newFixture()

	w1, _ := f.mapToplevel("one")
	_, _ = f.mapToplevel("two")

	w1.SetUrgent(true)
	require.True(t, w1.Urgent())

	f.seat.Focus(w1)
	assert.False(t, w1.Urgent())
}

func TestWindowVisibility(t *testing.T) {
	f := newFixture()

	w, tl := f.mapToplevel("one")
	assert.True(t, w.Visible())

	w.SetTags(1 << 3)
	f.out.SetTags(1 << 0)
	assert.False(t, w.Visible())

	f.out.SetTags(1 << 3)
	assert.True(t, w.Visible())

	tl.emitUnmap()
	assert.False(t, w.Visible())
}

func TestSetTagsRejectsEmptySet(t *testing.T) {
	f := newFixture()

	w, _ := f.mapToplevel("one")
	w.SetTags(1 << 2)
	w.SetTags(0)
	assert.Equal(t, uint32(1<<2), w.Tags())
}

func TestOutputEffectiveResolution(t *testing.T) {
	f := newFixture()
	w, h := f.out.EffectiveResolution()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}

func TestOutputToggleTags(t *testing.T) {
	f := newFixture()

	f.out.SetTags(1 << 0)
	f.out.SetTags(1 << 4)
	assert.Equal(t, uint32(1<<0), f.out.PreviousTags())

	f.out.ToggleTags()
	assert.Equal(t, uint32(1<<0), f.out.Tags())
	assert.Equal(t, uint32(1<<4), f.out.PreviousTags())
}

func TestVisibleWindowsIterator(t *testing.T) {
	f := newFixture()

	w1, _ := f.mapToplevel("one")
	w2, _ := f.mapToplevel("two")
	w3, _ := f.mapToplevel("three")
	w2.SetTags(1 << 7)

	var got []*Window
	for w := range f.srv.VisibleWindows(f.out, 1<<0) {
		got = append(got, w)
	}
	assert.Equal(t, []*Window{w3, w1}, got)
}
