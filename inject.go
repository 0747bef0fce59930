package easel

// syntheticPointerEvent is a single injected pointer event. Screen
// coordinates are used (matching what a scripted run sees in exported
// frames) and converted to canvas coordinates through the viewport,
// identical to real mouse input.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
	kind             EventKind
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next frame's input poll, before real input.
func (e *Editor) InjectPress(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		kind:    EventPointer,
	})
}

// InjectMove queues a pointer move with the button held down. Use between
// InjectPress and InjectRelease to simulate a stroke.
func (e *Editor) InjectMove(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		kind:    EventPointer,
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (e *Editor) InjectRelease(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: false,
		kind:    EventPointer,
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (e *Editor) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a full stroke: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and release at
// (toX, toY). The total sequence consumes frames frames; minimum is 2.
func (e *Editor) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectRelease(toX, toY)
}

// consumeInjected pops one event from the inject queue, converts it
// screen-to-canvas through the viewport, and feeds it to the session.
// Returns true if an event was consumed (real input is skipped that frame).
func (e *Editor) consumeInjected() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	pos := e.ses.Viewport().ScreenToCanvas(Vec2{evt.screenX, evt.screenY})
	switch {
	case evt.pressed && !e.pointerDown:
		e.pointerDown = true
		e.lastPos = pos
		e.ses.HandlePress(pos, evt.kind)
	case evt.pressed:
		e.lastPos = pos
		e.ses.HandleMove(pos, evt.kind)
	case e.pointerDown:
		e.pointerDown = false
		e.ses.HandleRelease(pos, evt.kind)
	}
	return true
}
