package app

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"tileviewer/internal/camera"
)

// pointer adapts glfw mouse input to camera operations. A drag lasts while
// at least one mouse button is held.
type pointer struct {
	cam  *camera.Camera
	held int
}

func newPointer(cam *camera.Camera) *pointer {
	return &pointer{cam: cam}
}

// button handles a press or release of any mouse button. Every press resets
// the drag reference point.
func (p *pointer) button(action glfw.Action, x, y float64) bool {
	switch action {
	case glfw.Press:
		p.held++
		p.cam.StartDrag(x, y)
	case glfw.Release:
		if p.held > 0 {
			p.held--
		}
		if p.held == 0 {
			p.cam.EndDrag()
		}
	}
	return false
}

func (p *pointer) move(x, y float64) bool {
	if !p.cam.IsDragging() {
		return false
	}
	return p.cam.Drag(x, y)
}

// scroll zooms at the cursor; scrolling up (yoff > 0) zooms in.
func (p *pointer) scroll(x, y, yoff float64) bool {
	return p.cam.ZoomAtPoint(-yoff, x, y)
}
