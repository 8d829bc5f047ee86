package sliderule

// DragTarget is the element a pointer drag is moving.
type DragTarget int

const (
	DragNone DragTarget = iota
	DragSlide
	DragCursor
)

func (d DragTarget) String() string {
	switch d {
	case DragSlide:
		return "slide"
	case DragCursor:
		return "cursor"
	default:
		return "none"
	}
}

type dragState struct {
	target DragTarget
	// offset is the pointer x minus the element position at drag start.
	offset float64
}

// StartSlideDrag begins dragging the slide from pointer position x. It
// reports false when another drag is already in progress.
func (r *SlideRule) StartSlideDrag(x float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.drag.target != DragNone {
		return false
	}
	r.drag = dragState{target: DragSlide, offset: x - r.slidePos}
	return true
}

// StartCursorDrag begins dragging the cursor from pointer position x. It
// reports false when another drag is already in progress.
func (r *SlideRule) StartCursorDrag(x float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.drag.target != DragNone {
		return false
	}
	r.drag = dragState{target: DragCursor, offset: x - r.cursorPos}
	return true
}

// DragMove moves the dragged element so that it keeps its offset to the
// pointer. It does nothing when no drag is in progress.
func (r *SlideRule) DragMove(x float64) {
	r.mu.Lock()
	switch r.drag.target {
	case DragSlide:
		r.setSlide(x - r.drag.offset)
	case DragCursor:
		r.setCursor(x - r.drag.offset)
	default:
		r.mu.Unlock()
		return
	}
	readings := r.refreshDisplay()
	r.mu.Unlock()
	r.notify(readings)
}

// DragEnd ends any drag in progress.
func (r *SlideRule) DragEnd() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drag = dragState{}
}

// Dragging returns the element currently being dragged.
func (r *SlideRule) Dragging() DragTarget {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drag.target
}
