package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrag_AcquireAndRelease(t *testing.T) {
	src := &Counter{}
	d := NewDrag(src)
	l := Default()

	l = d.Begin(l, HandleSplit)
	assert.Equal(t, 1, src.Live)
	assert.Equal(t, HandleSplit, l.Dragging)
	assert.Equal(t, HandleSplit, d.Active())

	l = d.End(l)
	assert.Equal(t, 0, src.Live)
	assert.Equal(t, HandleNone, l.Dragging)
}

func TestDrag_BeginSameHandleTwice(t *testing.T) {
	src := &Counter{}
	d := NewDrag(src)

	l := d.Begin(Default(), HandleSidebar)
	d.Begin(l, HandleSidebar)

	assert.Equal(t, 1, src.Acquired)
	assert.Equal(t, 1, src.Live)
}

func TestDrag_SwitchingHandleReleasesPrevious(t *testing.T) {
	src := &Counter{}
	d := NewDrag(src)

	l := d.Begin(Default(), HandleSidebar)
	l = d.Begin(l, HandleSplit)

	assert.Equal(t, 2, src.Acquired)
	assert.Equal(t, 1, src.Live)
	assert.Equal(t, HandleSplit, l.Dragging)
}

func TestDrag_CloseReleasesOnTeardown(t *testing.T) {
	src := &Counter{}
	d := NewDrag(src)
	d.Begin(Default(), HandleSplit)

	d.Close()
	d.Close()

	assert.Equal(t, 0, src.Live)
	assert.Equal(t, HandleNone, d.Active())
}

func TestDrag_MoveWithoutDragIsIgnored(t *testing.T) {
	d := NewDrag(&Counter{})
	l := Default()

	assert.Equal(t, l, d.Move(l, 999, Bounds{Width: 1200}))

	l = d.End(d.Begin(l, HandleSplit))
	assert.Equal(t, l, d.Move(l, 999, Bounds{Width: 1200}))
}

func TestDrag_SidebarRefusedWhileCollapsed(t *testing.T) {
	src := &Counter{}
	d := NewDrag(src)
	l := Default().ToggleCollapse()

	l = d.Begin(l, HandleSidebar)

	assert.Equal(t, 0, src.Acquired)
	assert.Equal(t, HandleNone, l.Dragging)
}

func TestDrag_SplitLeftOfSidebarClampsToZero(t *testing.T) {
	d := NewDrag(&Counter{})
	l := d.Begin(Default(), HandleSplit)

	l = d.Move(l, 60, Bounds{Left: 0, Width: 1000})

	assert.Equal(t, 0.0, l.SplitRatio)
}

func TestHandleString(t *testing.T) {
	assert.Equal(t, "split", HandleSplit.String())
	assert.Equal(t, "sidebar", HandleSidebar.String())
	assert.Equal(t, "none", HandleNone.String())
}
