package camera

import (
	"image"

	"github.com/paulmach/orb"
)

// DefaultZoomFactor is the scale step applied per wheel notch
const DefaultZoomFactor = 1.05

// View is the transform applied to the canvas: translate by the offset,
// then scale uniformly.
type View struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// DefaultView returns the identity view
func DefaultView() View {
	return View{Scale: 1}
}

// ScreenToWorld converts a screen position to canvas coordinates
func (v View) ScreenToWorld(screenX, screenY float64) orb.Point {
	return orb.Point{
		(screenX - v.OffsetX) / v.Scale,
		(screenY - v.OffsetY) / v.Scale,
	}
}

// WorldToScreen converts canvas coordinates to a screen position
func (v View) WorldToScreen(p orb.Point) orb.Point {
	return orb.Point{
		p.X()*v.Scale + v.OffsetX,
		p.Y()*v.Scale + v.OffsetY,
	}
}

// TileRect returns the screen rectangle covered by an image of the given size
// drawn at placement.
func (v View) TileRect(placement, size image.Point) orb.Bound {
	topLeft := v.WorldToScreen(orb.Point{float64(placement.X), float64(placement.Y)})
	bottomRight := v.WorldToScreen(orb.Point{float64(placement.X + size.X), float64(placement.Y + size.Y)})
	return orb.Bound{Min: topLeft, Max: bottomRight}
}

// Camera represents the viewer's viewport
type Camera struct {
	state State

	// Multiplier applied per wheel notch
	ZoomFactor float64

	// Viewport dimensions in window coordinates
	ViewportWidth  int
	ViewportHeight int
}

// NewCamera creates a camera with the identity view
func NewCamera(zoomFactor float64, width, height int) *Camera {
	return &Camera{
		state:          State{View: DefaultView()},
		ZoomFactor:     zoomFactor,
		ViewportWidth:  width,
		ViewportHeight: height,
	}
}

// SetViewport updates the viewport dimensions
func (c *Camera) SetViewport(width, height int) {
	c.ViewportWidth = width
	c.ViewportHeight = height
}

// View returns the current view transform
func (c *Camera) View() View {
	return c.state.View
}

// Handle applies an input event and reports whether a redraw is needed
func (c *Camera) Handle(ev Event) bool {
	next, redraw := c.state.Apply(ev, c.ZoomFactor)
	c.state = next
	return redraw
}

// ZoomAtPoint zooms in (negative rotation) or out (positive rotation)
// keeping the canvas point under the cursor fixed.
func (c *Camera) ZoomAtPoint(rotation, screenX, screenY float64) bool {
	return c.Handle(Event{Kind: Wheel, X: screenX, Y: screenY, Rotation: rotation})
}

// StartDrag begins a drag operation
func (c *Camera) StartDrag(x, y float64) {
	c.Handle(Event{Kind: Press, X: x, Y: y})
}

// Drag continues a drag operation
func (c *Camera) Drag(x, y float64) bool {
	return c.Handle(Event{Kind: Move, X: x, Y: y})
}

// EndDrag ends a drag operation
func (c *Camera) EndDrag() {
	c.Handle(Event{Kind: Release})
}

// IsDragging returns whether a drag is in progress
func (c *Camera) IsDragging() bool {
	return c.state.Dragging
}

// Visible returns the canvas region currently inside the viewport
func (c *Camera) Visible() orb.Bound {
	return orb.Bound{
		Min: c.state.ScreenToWorld(0, 0),
		Max: c.state.ScreenToWorld(float64(c.ViewportWidth), float64(c.ViewportHeight)),
	}
}
