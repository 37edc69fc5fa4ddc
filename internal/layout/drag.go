package layout

// Listener is a pointer subscription held for the duration of one drag.
type Listener interface {
	Release()
}

// Source hands out pointer listeners.
type Source interface {
	Listen(h Handle) Listener
}

// Drag owns the pointer listener of the drag in progress. A listener is acquired on
// Begin and released exactly once, on End, on a Begin for another handle, or on Close.
type Drag struct {
	source   Source
	handle   Handle
	listener Listener
}

// NewDrag returns a Drag acquiring listeners from src. A nil src acquires nothing.
func NewDrag(src Source) *Drag {
	return &Drag{source: src}
}

// Active returns the handle being dragged.
func (d *Drag) Active() Handle {
	return d.handle
}

// Begin starts dragging h. The sidebar handle cannot be dragged while collapsed.
func (d *Drag) Begin(l Layout, h Handle) Layout {
	if h == HandleNone || (h == HandleSidebar && l.SidebarCollapsed) {
		return l
	}
	if d.handle == h {
		return l
	}
	d.release()

	d.handle = h
	if d.source != nil {
		d.listener = d.source.Listen(h)
	}
	l.Dragging = h
	return l
}

// Move applies a pointer position to the handle being dragged. Without an active
// drag the layout is returned unchanged.
func (d *Drag) Move(l Layout, x float64, b Bounds) Layout {
	switch d.handle {
	case HandleSplit:
		return l.MoveSplit(x, b)
	case HandleSidebar:
		if l.SidebarCollapsed {
			return l
		}
		return l.MoveSidebar(x, b)
	default:
		return l
	}
}

// End stops the drag in progress.
func (d *Drag) End(l Layout) Layout {
	d.release()
	l.Dragging = HandleNone
	return l
}

// Close releases any held listener. Safe to call more than once.
func (d *Drag) Close() {
	d.release()
}

func (d *Drag) release() {
	if d.listener != nil {
		d.listener.Release()
		d.listener = nil
	}
	d.handle = HandleNone
}

// Counter is a Source that tracks how many listeners are outstanding.
type Counter struct {
	Live     int
	Acquired int
}

func (c *Counter) Listen(Handle) Listener {
	c.Live++
	c.Acquired++
	return &counted{c: c}
}

type counted struct {
	c        *Counter
	released bool
}

func (l *counted) Release() {
	if l.released {
		return
	}
	l.released = true
	l.c.Live--
}
